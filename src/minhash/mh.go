package minhash

import (
	"github.com/will-rowe/seqsketch/src/sketch"
)

// MinHash is the classic MinHash sketch of the set of k-mers in a sequence: for each hash
// table the sketch holds the k-mer with the lowest rank
type MinHash struct {
	*base
}

// NewMinHash is the constructor for a MinHash sketcher
func NewMinHash(params Params) (*MinHash, error) {
	b, err := newBase(params, 1)
	if err != nil {
		return nil, err
	}
	return &MinHash{b}, nil
}

// Compute sketches a sequence of symbols
func (mh *MinHash) Compute(seq []byte) (sketch.Sketch, error) {
	kmers, err := mh.kmers(seq)
	if err != nil {
		return nil, err
	}
	return mh.ComputeKmers(kmers)
}

// ComputeKmers sketches a sequence of k-mers, an empty input gives a zero filled signature
func (mh *MinHash) ComputeKmers(kmers []uint64) (Signature, error) {
	sig := make(Signature, mh.params.Dim)
	if len(kmers) == 0 {
		return sig, nil
	}
	for d := range sig {
		minKmer := kmers[0]
		minRank := mh.hashes.Rank(d, kmers[0])
		for _, kmer := range kmers[1:] {
			if r := mh.hashes.Rank(d, kmer); r < minRank {
				minRank = r
				minKmer = kmer
			}
		}
		sig[d] = minKmer
	}
	return sig, nil
}

// Dist is the configured metric between two signatures
func (mh *MinHash) Dist(a, b sketch.Sketch) (float64, error) {
	return signatureDist(mh.params.Metric, a, b)
}

// SketchKmers satisfies the sketch.KmerSketcher interface
func (mh *MinHash) SketchKmers(kmers []uint64) (sketch.Sketch, error) {
	return mh.ComputeKmers(kmers)
}
