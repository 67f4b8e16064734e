package minhash

import (
	"container/heap"
	"sort"

	"github.com/will-rowe/seqsketch/src/sketch"
)

// OrderedSignature is the sketch produced by ordered MinHash, one tuple of k-mers per dimension
type OrderedSignature [][]uint64

// Dim returns the number of dimensions in the signature
func (s OrderedSignature) Dim() int { return len(s) }

// Flatten concatenates the tuples
func (s OrderedSignature) Flatten() []uint64 {
	flat := []uint64{}
	for _, tuple := range s {
		flat = append(flat, tuple...)
	}
	return flat
}

// OrderedMinHash captures k-mer order as well as content. Each occurrence is ranked as in
// weighted MinHash and, for every table, the TupleLen lowest ranked occurrences are kept and
// reported in the order they appear in the sequence.
type OrderedMinHash struct {
	*base
}

// NewOrderedMinHash is the constructor, params.MaxLen bounds the number of k-mers in a sequence
func NewOrderedMinHash(params Params) (*OrderedMinHash, error) {
	if params.MaxLen < 1 {
		return nil, sketch.ConfigError("%v: maximum length must be positive, got %d", params.Name, params.MaxLen)
	}
	if params.TupleLen < 1 {
		return nil, sketch.ConfigError("%v: tuple length must be positive, got %d", params.Name, params.TupleLen)
	}
	b, err := newBase(params, params.MaxLen)
	if err != nil {
		return nil, err
	}
	return &OrderedMinHash{b}, nil
}

// Compute sketches a sequence of symbols
func (omh *OrderedMinHash) Compute(seq []byte) (sketch.Sketch, error) {
	kmers, err := omh.kmers(seq)
	if err != nil {
		return nil, err
	}
	return omh.ComputeKmers(kmers)
}

// ComputeKmers sketches a sequence of k-mers
func (omh *OrderedMinHash) ComputeKmers(kmers []uint64) (OrderedSignature, error) {
	if len(kmers) > omh.params.MaxLen {
		return nil, sketch.TooLong(omh.params.Name, len(kmers), omh.params.MaxLen)
	}
	if len(kmers) < omh.params.TupleLen {
		return nil, sketch.TooShort(omh.params.Name, len(kmers), omh.params.TupleLen)
	}
	occ := occurrences(kmers)
	sig := make(OrderedSignature, omh.params.Dim)
	lowest := make(rankHeap, 0, omh.params.TupleLen)
	for d := range sig {
		lowest = lowest[:0]
		for i, kmer := range kmers {
			rk := rankedKmer{rank: omh.hashes.Rank(d, kmer+occ[i]*omh.setSize), pos: i}

			// fill the heap, then swap out the highest ranked occurrence when a lower one turns up
			if len(lowest) < omh.params.TupleLen {
				heap.Push(&lowest, rk)
			} else if rk.before(lowest[0]) {
				lowest[0] = rk
				heap.Fix(&lowest, 0)
			}
		}

		// report the selected k-mers in sequence order
		positions := make([]int, len(lowest))
		for i, rk := range lowest {
			positions[i] = rk.pos
		}
		sort.Ints(positions)
		tuple := make([]uint64, len(positions))
		for i, pos := range positions {
			tuple[i] = kmers[pos]
		}
		sig[d] = tuple
	}
	return sig, nil
}

// Dist compares the tuples position by position using the configured metric
func (omh *OrderedMinHash) Dist(a, b sketch.Sketch) (float64, error) {
	sigA, okA := a.(OrderedSignature)
	sigB, okB := b.(OrderedSignature)
	if !okA || !okB || len(sigA) != len(sigB) {
		return 0, sketch.MismatchError(a, b)
	}
	flatA, flatB := sigA.Flatten(), sigB.Flatten()
	if len(flatA) != len(flatB) {
		return 0, sketch.MismatchError(a, b)
	}
	return omh.params.Metric.DistanceUint(flatA, flatB), nil
}

// SketchKmers satisfies the sketch.KmerSketcher interface
func (omh *OrderedMinHash) SketchKmers(kmers []uint64) (sketch.Sketch, error) {
	return omh.ComputeKmers(kmers)
}
