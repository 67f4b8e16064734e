package seqgen

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/will-rowe/seqsketch/src/editdist"
	"github.com/will-rowe/seqsketch/src/seqio"
	"github.com/will-rowe/seqsketch/src/sketch"
)

var testConfig = Config{
	AlphabetSize: 4,
	NumSeqs:      10,
	SeqLen:       64,
	MinMutation:  0.05,
	MaxMutation:  0.2,
	MinBlocks:    2,
	MaxBlocks:    4,
	GroupSize:    4,
	Shape:        Path,
	Seed:         12,
}

func generate(t *testing.T, cfg Config) ([]seqio.Sequence, []seqio.Pair, *Generator) {
	g, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	seqs, pairs := g.Generate()
	if len(seqs) != cfg.NumSeqs {
		t.Fatalf("expected %d sequences, got %d", cfg.NumSeqs, len(seqs))
	}
	for _, seq := range seqs {
		if err := seq.SymbolCheck(cfg.AlphabetSize); err != nil {
			t.Fatal(err)
		}
		if cfg.FixLen && seq.Len() != cfg.SeqLen {
			t.Fatalf("expected a fixed length of %d, got %d", cfg.SeqLen, seq.Len())
		}
	}
	return seqs, pairs, g
}

func TestShapes(t *testing.T) {
	tests := []struct {
		shape Shape
		pairs []seqio.Pair
	}{
		// groups of 4, 4 and 2
		{Path, []seqio.Pair{{I: 0, J: 1}, {I: 1, J: 2}, {I: 2, J: 3}, {I: 4, J: 5}, {I: 5, J: 6}, {I: 6, J: 7}, {I: 8, J: 9}}},
		{Star, []seqio.Pair{{I: 0, J: 1}, {I: 0, J: 2}, {I: 0, J: 3}, {I: 4, J: 5}, {I: 4, J: 6}, {I: 4, J: 7}, {I: 8, J: 9}}},
		{Tree, []seqio.Pair{{I: 0, J: 1}, {I: 0, J: 2}, {I: 0, J: 3}, {I: 1, J: 2}, {I: 1, J: 3}, {I: 2, J: 3}, {I: 4, J: 5}, {I: 4, J: 6}, {I: 4, J: 7}, {I: 5, J: 6}, {I: 5, J: 7}, {I: 6, J: 7}, {I: 8, J: 9}}},
		{Pair, []seqio.Pair{{I: 0, J: 1}, {I: 2, J: 3}, {I: 4, J: 5}, {I: 6, J: 7}, {I: 8, J: 9}}},
	}
	for _, tt := range tests {
		cfg := testConfig
		cfg.Shape = tt.shape
		cfg.FixLen = true
		_, pairs, _ := generate(t, cfg)
		if len(pairs) != len(tt.pairs) {
			t.Fatalf("%v: expected pairs %v, got %v", tt.shape, tt.pairs, pairs)
		}
		for i := range pairs {
			if pairs[i] != tt.pairs[i] {
				t.Fatalf("%v: expected pairs %v, got %v", tt.shape, tt.pairs, pairs)
			}
		}
	}
}

func TestReproducible(t *testing.T) {
	a, _, _ := generate(t, testConfig)
	b, _, _ := generate(t, testConfig)
	for i := range a {
		if !bytes.Equal(a[i].Seq, b[i].Seq) {
			t.Fatalf("sequence %d differs between runs with the same seed", i)
		}
	}
}

func TestZeroMutation(t *testing.T) {
	cfg := testConfig
	cfg.MinMutation, cfg.MaxMutation = 0, 0
	for _, shape := range []Shape{Path, Tree} {
		cfg.Shape = shape
		seqs, pairs, _ := generate(t, cfg)
		for _, p := range pairs {
			if !bytes.Equal(seqs[p.I].Seq, seqs[p.J].Seq) {
				t.Fatalf("%v: sequences %d and %d should be identical without mutations", shape, p.I, p.J)
			}
		}
	}
}

func TestMutationChangesSequences(t *testing.T) {
	cfg := testConfig
	cfg.MinMutation, cfg.MaxMutation = 0.3, 0.3
	cfg.NumSeqs = 2
	seqs, _, _ := generate(t, cfg)
	d := editdist.Distance(seqs[0].Seq, seqs[1].Seq)
	if d == 0 || d > 2*cfg.SeqLen {
		t.Fatalf("unexpected edit distance after mutation: %d", d)
	}
}

func TestPairOverlap(t *testing.T) {
	cfg := testConfig
	cfg.Shape = Pair
	cfg.NumSeqs = 4
	cfg.MinMutation, cfg.MaxMutation = 0, 0
	seqs, pairs, g := generate(t, cfg)
	for p, pair := range pairs {
		overlap := g.PairOverlap(p)
		if overlap != 2*p*cfg.SeqLen/cfg.NumSeqs {
			t.Fatalf("pair %d: expected an overlap of %d, got %d", p, 2*p*cfg.SeqLen/cfg.NumSeqs, overlap)
		}
		a, b := seqs[pair.I].Seq, seqs[pair.J].Seq
		if lcs := editdist.LCS(a, b); lcs < overlap {
			t.Fatalf("pair %d: common subsequence %d is shorter than the forced overlap %d", p, lcs, overlap)
		}
		if d := editdist.Distance(a, b); d > 2*(cfg.SeqLen-overlap) {
			t.Fatalf("pair %d: edit distance %d is larger than %d", p, d, 2*(cfg.SeqLen-overlap))
		}
	}
	if g.PairOverlap(5) != 0 {
		t.Fatal("unknown pairs have no overlap")
	}
}

func TestBlockPermute(t *testing.T) {
	cfg := testConfig
	cfg.BlockMutation = 1
	cfg.MinBlocks, cfg.MaxBlocks = 3, 3
	g, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	seq := []byte{0, 0, 1, 1, 2, 2, 3}
	permuted := g.blockPermute(append([]byte(nil), seq...))
	if len(permuted) != 9 {
		t.Fatalf("expected the sequence to be padded to 9 symbols, got %d", len(permuted))
	}

	// every block of the padded input is still there
	counts := map[string]int{}
	for b := 0; b < 3; b++ {
		counts[string(permuted[b*3:(b+1)*3])]++
	}
	if counts[string([]byte{0, 0, 1})] != 1 || counts[string([]byte{1, 2, 2})] != 1 {
		t.Fatalf("blocks were not preserved: %v", permuted)
	}
}

func TestConfigErrors(t *testing.T) {
	mutate := []func(*Config){
		func(c *Config) { c.Shape = Pair; c.NumSeqs = 5 },
		func(c *Config) { c.AlphabetSize = 1 },
		func(c *Config) { c.AlphabetSize = 257 },
		func(c *Config) { c.MinMutation = 0.5; c.MaxMutation = 0.1 },
		func(c *Config) { c.MinBlocks = 0 },
		func(c *Config) { c.GroupSize = 0 },
		func(c *Config) { c.BlockMutation = 2 },
	}
	for i, m := range mutate {
		cfg := testConfig
		m(&cfg)
		if _, err := New(cfg); !errors.Is(err, sketch.ErrInvalidConfig) {
			t.Fatalf("case %d: expected a config error, got %v", i, err)
		}
	}
	if _, err := ParseShape("ring"); err == nil {
		t.Fatal("ring is not a phylogeny shape")
	}
	if s, err := ParseShape("star"); err != nil || s != Star {
		t.Fatalf("failed to parse star: %v", err)
	}
}
