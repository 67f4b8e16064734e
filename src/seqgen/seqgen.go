// Package seqgen generates sets of related random sequences, along with the pairs of sequences
// ("ingroup pairs") whose distances are scored.
package seqgen

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/will-rowe/seqsketch/src/seqio"
	"github.com/will-rowe/seqsketch/src/sketch"
)

// Shape is the phylogeny the sequences of a group are arranged in
type Shape int

const (
	// Path chains the sequences, each is a mutation of the one before
	Path Shape = iota

	// Tree doubles a random root into mutated children, generation by generation
	Tree

	// Star is generated like Tree but only scores pairs involving the root
	Star

	// Pair generates independent pairs with a forced common subsequence
	Pair
)

func (s Shape) String() string {
	switch s {
	case Path:
		return "path"
	case Tree:
		return "tree"
	case Star:
		return "star"
	case Pair:
		return "pair"
	}
	return fmt.Sprintf("unknown(%d)", int(s))
}

// ParseShape converts a --phylogeny-shape flag value to a Shape
func ParseShape(name string) (Shape, error) {
	for _, s := range []Shape{Path, Tree, Star, Pair} {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, sketch.ConfigError("unknown phylogeny shape %q (must be one of path|tree|star|pair)", name)
}

// Config holds the generator settings
type Config struct {
	AlphabetSize  int
	NumSeqs       int
	SeqLen        int
	FixLen        bool // pad or truncate every sequence to SeqLen
	MinMutation   float64
	MaxMutation   float64
	BlockMutation float64 // probability of permuting the blocks of a new sequence
	MinBlocks     int
	MaxBlocks     int
	GroupSize     int
	Shape         Shape
	Seed          uint64
}

// Validate checks the settings before anything is generated
func (c Config) Validate() error {
	switch {
	case c.AlphabetSize < 2 || c.AlphabetSize > 256:
		return sketch.ConfigError("alphabet size must be in 2..256, got %d", c.AlphabetSize)
	case c.NumSeqs < 1 || c.SeqLen < 1:
		return sketch.ConfigError("number of sequences (%d) and sequence length (%d) must be positive", c.NumSeqs, c.SeqLen)
	case c.MinMutation < 0 || c.MaxMutation > 1 || c.MinMutation > c.MaxMutation:
		return sketch.ConfigError("mutation rates must satisfy 0 <= min (%v) <= max (%v) <= 1", c.MinMutation, c.MaxMutation)
	case c.BlockMutation < 0 || c.BlockMutation > 1:
		return sketch.ConfigError("block mutation rate must be in [0, 1], got %v", c.BlockMutation)
	case c.MinBlocks < 1 || c.MinBlocks > c.MaxBlocks:
		return sketch.ConfigError("block counts must satisfy 1 <= min (%d) <= max (%d)", c.MinBlocks, c.MaxBlocks)
	case c.GroupSize < 1:
		return sketch.ConfigError("group size must be positive, got %d", c.GroupSize)
	case c.Shape == Pair && c.NumSeqs%2 != 0:
		return sketch.ConfigError("the pair phylogeny needs an even number of sequences, got %d", c.NumSeqs)
	}
	return nil
}

// Generator produces the sequences for one experiment, it is not safe for concurrent use
type Generator struct {
	Config
	rng      *rand.Rand
	overlaps []int
}

// New returns a Generator seeded from cfg.Seed
func New(cfg Config) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Generator{
		Config: cfg,
		rng:    rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0xbf58476d1ce4e5b9)),
	}, nil
}

// Generate returns NumSeqs sequences and the ingroup pairs, pairs never cross groups
func (g *Generator) Generate() ([]seqio.Sequence, []seqio.Pair) {
	var seqs [][]byte
	var pairs []seqio.Pair
	if g.Shape == Pair {
		seqs, pairs = g.pairs()
	} else {
		for start := 0; start < g.NumSeqs; start += g.GroupSize {
			size := min(g.GroupSize, g.NumSeqs-start)
			rate := g.MinMutation + g.rng.Float64()*(g.MaxMutation-g.MinMutation)
			var group [][]byte
			if g.Shape == Path {
				group = g.path(size, rate)
			} else {
				group = g.tree(size, rate)
			}
			seqs = append(seqs, group...)
			pairs = append(pairs, groupPairs(g.Shape, start, size)...)
		}
	}
	out := make([]seqio.Sequence, len(seqs))
	for i, seq := range seqs {
		out[i] = seqio.NewSequence(fmt.Sprintf("seq%d", i), seq)
	}
	return out, pairs
}

// PairOverlap returns the common subsequence length forced onto pair p by the last Generate
// with the pair shape
func (g *Generator) PairOverlap(p int) int {
	if p < 0 || p >= len(g.overlaps) {
		return 0
	}
	return g.overlaps[p]
}

// groupPairs returns the ingroup pairs of a group of size sequences starting at index start
func groupPairs(shape Shape, start, size int) []seqio.Pair {
	pairs := []seqio.Pair{}
	switch shape {
	case Path:
		for j := 1; j < size; j++ {
			pairs = append(pairs, seqio.Pair{I: start + j - 1, J: start + j})
		}
	case Tree:
		for i := 0; i < size; i++ {
			for j := i + 1; j < size; j++ {
				pairs = append(pairs, seqio.Pair{I: start + i, J: start + j})
			}
		}
	case Star:
		for j := 1; j < size; j++ {
			pairs = append(pairs, seqio.Pair{I: start, J: start + j})
		}
	}
	return pairs
}

// path derives each sequence from the one before
func (g *Generator) path(size int, rate float64) [][]byte {
	group := [][]byte{g.random(g.SeqLen)}
	for j := 1; j < size; j++ {
		group = append(group, g.derive(group[j-1], rate))
	}
	return group
}

// tree replaces every sequence by two mutated children until there are enough
func (g *Generator) tree(size int, rate float64) [][]byte {
	group := [][]byte{g.random(g.SeqLen)}
	for len(group) < size {
		children := make([][]byte, 0, 2*len(group))
		for _, parent := range group {
			children = append(children, g.derive(parent, rate), g.derive(parent, rate))
		}
		group = children
	}
	return group[:size]
}

// pairs generates independent sequences and forces a common subsequence of length 2p*L/N onto
// pair p by copying, in order, random positions of the second sequence onto random positions of
// the first
func (g *Generator) pairs() ([][]byte, []seqio.Pair) {
	seqs := make([][]byte, g.NumSeqs)
	for i := range seqs {
		seqs[i] = g.random(g.SeqLen)
	}
	numPairs := g.NumSeqs / 2
	g.overlaps = make([]int, numPairs)
	pairs := make([]seqio.Pair, numPairs)
	for p := 0; p < numPairs; p++ {
		first, second := seqs[2*p], seqs[2*p+1]
		overlap := 2 * p * g.SeqLen / g.NumSeqs
		perm, perm2 := g.rng.Perm(g.SeqLen), g.rng.Perm(g.SeqLen)
		sort.Ints(perm[:overlap])
		sort.Ints(perm2[:overlap])
		for i := 0; i < overlap; i++ {
			first[perm[i]] = second[perm2[i]]
		}
		g.overlaps[p] = overlap
		pairs[p] = seqio.Pair{I: 2 * p, J: 2*p + 1}
	}
	return seqs, pairs
}

// random returns a sequence of uniformly drawn symbols
func (g *Generator) random(length int) []byte {
	seq := make([]byte, length)
	for i := range seq {
		seq[i] = g.symbol()
	}
	return seq
}

func (g *Generator) symbol() byte {
	return byte(g.rng.IntN(g.AlphabetSize))
}

// derive returns a point mutated and possibly block permuted copy of ref
func (g *Generator) derive(ref []byte, rate float64) []byte {
	seq := g.blockPermute(g.pointMutate(ref, rate))
	if g.FixLen {
		seq = g.fixLen(seq)
	}
	return seq
}

// pointMutate applies, at each position of ref, no change with probability 1-rate or one of an
// insertion, a deletion or a substitution with probability rate/3 each. An insertion emits a
// random symbol and then processes the same position again.
func (g *Generator) pointMutate(ref []byte, rate float64) []byte {
	seq := make([]byte, 0, len(ref))
	for i := 0; i < len(ref); i++ {
		u := g.rng.Float64()
		switch {
		case u < 1-rate:
			seq = append(seq, ref[i])
		case u < 1-rate*2/3:
			seq = append(seq, g.symbol())
			i--
		case u < 1-rate/3:
			// deletion
		default:
			// any symbol but the current one
			c := byte(g.rng.IntN(g.AlphabetSize - 1))
			if c >= ref[i] {
				c++
			}
			seq = append(seq, c)
		}
	}
	return seq
}

// blockPermute, with probability BlockMutation, pads seq with random symbols to a multiple of
// a random block count and shuffles the blocks
func (g *Generator) blockPermute(seq []byte) []byte {
	if g.rng.Float64() >= g.BlockMutation {
		return seq
	}
	numBlocks := g.MinBlocks + g.rng.IntN(g.MaxBlocks-g.MinBlocks+1)
	for len(seq)%numBlocks != 0 {
		seq = append(seq, g.symbol())
	}
	perm := g.rng.Perm(numBlocks)
	blockSize := len(seq) / numBlocks
	result := make([]byte, len(seq))
	for b := 0; b < numBlocks; b++ {
		copy(result[perm[b]*blockSize:(perm[b]+1)*blockSize], seq[b*blockSize:(b+1)*blockSize])
	}
	return result
}

// fixLen pads with random symbols or truncates to SeqLen
func (g *Generator) fixLen(seq []byte) []byte {
	if len(seq) > g.SeqLen {
		return seq[:g.SeqLen]
	}
	for len(seq) < g.SeqLen {
		seq = append(seq, g.symbol())
	}
	return seq
}
