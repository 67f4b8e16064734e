package minhash

import (
	"github.com/will-rowe/seqsketch/src/sketch"
)

// WeightedMinHash extends MinHash to multisets. The j-th occurrence of k-mer s is ranked with
// row s + j*setSize of each table, and the sketch holds the k-mer with the overall lowest rank.
// It is a naive implementation, see consistent weighted sampling for quicker alternatives.
type WeightedMinHash struct {
	*base
}

// NewWeightedMinHash is the constructor, params.MaxLen bounds the number of k-mers in a sequence
func NewWeightedMinHash(params Params) (*WeightedMinHash, error) {
	if params.MaxLen < 1 {
		return nil, sketch.ConfigError("%v: maximum length must be positive, got %d", params.Name, params.MaxLen)
	}
	b, err := newBase(params, params.MaxLen)
	if err != nil {
		return nil, err
	}
	return &WeightedMinHash{b}, nil
}

// Compute sketches a sequence of symbols
func (wmh *WeightedMinHash) Compute(seq []byte) (sketch.Sketch, error) {
	kmers, err := wmh.kmers(seq)
	if err != nil {
		return nil, err
	}
	return wmh.ComputeKmers(kmers)
}

// ComputeKmers sketches a sequence of k-mers, an empty input gives a zero filled signature
func (wmh *WeightedMinHash) ComputeKmers(kmers []uint64) (Signature, error) {
	if len(kmers) > wmh.params.MaxLen {
		return nil, sketch.TooLong(wmh.params.Name, len(kmers), wmh.params.MaxLen)
	}
	sig := make(Signature, wmh.params.Dim)
	if len(kmers) == 0 {
		return sig, nil
	}
	occ := occurrences(kmers)
	for d := range sig {
		minKmer := kmers[0]
		minRank := wmh.hashes.Rank(d, kmers[0])
		for i := 1; i < len(kmers); i++ {
			if r := wmh.hashes.Rank(d, kmers[i]+occ[i]*wmh.setSize); r < minRank {
				minRank = r
				minKmer = kmers[i]
			}
		}
		sig[d] = minKmer
	}
	return sig, nil
}

// Dist is the configured metric between two signatures
func (wmh *WeightedMinHash) Dist(a, b sketch.Sketch) (float64, error) {
	return signatureDist(wmh.params.Metric, a, b)
}

// SketchKmers satisfies the sketch.KmerSketcher interface
func (wmh *WeightedMinHash) SketchKmers(kmers []uint64) (sketch.Sketch, error) {
	return wmh.ComputeKmers(kmers)
}
