// Package minhash contains the MinHash family of sketches: plain, weighted and ordered MinHash.
// All three rank k-mers using a HashFamily of random permutation tables.
package minhash

import (
	"github.com/will-rowe/seqsketch/src/seqio"
	"github.com/will-rowe/seqsketch/src/sketch"
)

// Params configures a MinHash family sketcher
type Params struct {
	Name         string
	AlphabetSize int
	KmerSize     int
	Dim          int
	MaxLen       int // maximum number of k-mers, weighted and ordered MinHash only
	TupleLen     int // ordered MinHash only
	HashAlg      HashAlgorithm
	Metric       sketch.Metric
	Seed         uint64
}

// Signature is the sketch produced by MinHash and weighted MinHash, one k-mer per dimension
type Signature []uint64

// Dim returns the number of dimensions in the signature
func (s Signature) Dim() int { return len(s) }

// base holds what the three flavours have in common
type base struct {
	params  Params
	setSize uint64
	hashes  *HashFamily
}

// newBase sets up the k-mer parameters and the hash tables, multiplicity is the number of
// occurrences of a k-mer that get their own rank
func newBase(params Params, multiplicity int) (*base, error) {
	if params.Dim < 1 {
		return nil, sketch.ConfigError("%v: embedding dimension must be positive, got %d", params.Name, params.Dim)
	}
	setSize, err := seqio.SetSize(params.AlphabetSize, params.KmerSize)
	if err != nil {
		return nil, sketch.ConfigError("%v: %v", params.Name, err)
	}
	hashes, err := NewHashFamily(setSize, params.Dim, multiplicity, params.HashAlg, params.Seed)
	if err != nil {
		return nil, err
	}
	return &base{params: params, setSize: setSize, hashes: hashes}, nil
}

// Name is the label used for this algorithm in the output files
func (b *base) Name() string { return b.params.Name }

// KmerInput is true for the MinHash family
func (b *base) KmerInput() bool { return true }

// TransformSketches is false, the k-mer values of a signature are not rescaled
func (b *base) TransformSketches() bool { return false }

// Init generates a new set of hash tables
func (b *base) Init() error {
	b.hashes.Generate()
	return nil
}

// Hashes exposes the hash tables
func (b *base) Hashes() *HashFamily { return b.hashes }

// kmers converts a sequence to its k-mers
func (b *base) kmers(seq []byte) ([]uint64, error) {
	return seqio.Kmers(seq, b.params.KmerSize, b.params.AlphabetSize)
}

// occurrences returns, for each k-mer, how many times it has been seen before in the sequence
func occurrences(kmers []uint64) []uint64 {
	counts := make(map[uint64]uint64, len(kmers))
	occ := make([]uint64, len(kmers))
	for i, kmer := range kmers {
		occ[i] = counts[kmer]
		counts[kmer]++
	}
	return occ
}

// signatureDist is the distance used by the flavours that produce a Signature
func signatureDist(metric sketch.Metric, a, b sketch.Sketch) (float64, error) {
	sigA, okA := a.(Signature)
	sigB, okB := b.(Signature)
	if !okA || !okB || len(sigA) != len(sigB) {
		return 0, sketch.MismatchError(a, b)
	}
	return metric.DistanceUint(sigA, sigB), nil
}
