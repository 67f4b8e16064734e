// Package tensor contains the tensor sketch, the sliding window tensor sketch and the
// flatteners that turn sliding window sketches into fixed size vectors.
//
// A tensor sketch embeds a sequence by averaging, over every order preserving (and not
// necessarily contiguous) subsequence of length t, a random signed unit vector picked by the
// symbols of that subsequence. Each tuple position p has its own hash h_p: symbol -> [0, D) and
// sign s_p: symbol -> {-1, +1}; a tuple c_1..c_t maps to s_1(c_1)...s_t(c_t) at coordinate
// h_1(c_1)+...+h_t(c_t) mod D.
package tensor

import (
	"math/rand/v2"

	"github.com/will-rowe/seqsketch/src/sketch"
)

// Params configures a tensor sketcher
type Params struct {
	Name         string
	AlphabetSize int
	Dim          int // length of the sketch, or of each window sketch for the slide sketch
	TupleLen     int
	WindowSize   int // slide sketch only
	Stride       int // slide sketch only
	Metric       sketch.Metric
	Seed         uint64
}

func (p Params) check() error {
	if p.AlphabetSize < 1 || p.AlphabetSize > 256 {
		return sketch.ConfigError("%v: alphabet size must be in 1..256, got %d", p.Name, p.AlphabetSize)
	}
	if p.Dim < 1 {
		return sketch.ConfigError("%v: embedding dimension must be positive, got %d", p.Name, p.Dim)
	}
	if p.TupleLen < 1 {
		return sketch.ConfigError("%v: tuple length must be positive, got %d", p.Name, p.TupleLen)
	}
	return nil
}

// Embedding is a real valued sketch
type Embedding []float64

// Dim returns the length of the embedding
func (e Embedding) Dim() int { return len(e) }

// Apply rescales every value of the embedding
func (e Embedding) Apply(f sketch.Transformer) {
	for i, v := range e {
		e[i] = f(v)
	}
}

// tables holds the per tuple position hashes and signs
type tables struct {
	hashes [][]int  // [tuple position][symbol] -> [0, dim)
	signs  [][]bool // [tuple position][symbol] -> true for +1
}

// newTables draws the tables for tupleLen positions over the alphabet
func newTables(rng *rand.Rand, alphabetSize, tupleLen, dim int) tables {
	t := tables{
		hashes: make([][]int, tupleLen),
		signs:  make([][]bool, tupleLen),
	}
	for p := 0; p < tupleLen; p++ {
		t.hashes[p] = make([]int, alphabetSize)
		t.signs[p] = make([]bool, alphabetSize)
		for c := 0; c < alphabetSize; c++ {
			t.hashes[p][c] = rng.IntN(dim)
			t.signs[p][c] = rng.IntN(2) == 1
		}
	}
	return t
}

// sign returns s_p(c) as a float
func (t tables) sign(p int, c byte) float64 {
	if t.signs[p][c] {
		return 1
	}
	return -1
}

// shiftSum sets a = (1-z)a + z*shift(b, shift), where shift(b, r)[i] = b[(i-r) mod D]
func shiftSum(a, b []float64, shift int, z float64) {
	dim := len(a)
	for i := range a {
		a[i] = (1-z)*a[i] + z*b[(dim+i-shift)%dim]
	}
}

// checkSymbols rejects symbols outside of the alphabet
func checkSymbols(name string, seq []byte, alphabetSize int) error {
	for i, c := range seq {
		if int(c) >= alphabetSize {
			return sketch.InputError("%v: symbol %d at position %d is outside of the alphabet (size %d)", name, c, i, alphabetSize)
		}
	}
	return nil
}

// TensorSketch is the tensor sketch of a whole sequence
type TensorSketch struct {
	params Params
	rng    *rand.Rand
	tables tables
}

// NewTensorSketch is the constructor, it draws the first set of tables from the seed
func NewTensorSketch(params Params) (*TensorSketch, error) {
	if err := params.check(); err != nil {
		return nil, err
	}
	ts := &TensorSketch{
		params: params,
		rng:    rand.New(rand.NewPCG(params.Seed, params.Seed^0x5851f42d4c957f2d)),
	}
	return ts, ts.Init()
}

// Name is the label used for this algorithm in the output files
func (ts *TensorSketch) Name() string { return ts.params.Name }

// KmerInput is false, the tensor sketch works on symbols
func (ts *TensorSketch) KmerInput() bool { return false }

// TransformSketches is true
func (ts *TensorSketch) TransformSketches() bool { return true }

// Init draws a new set of hashes and signs
func (ts *TensorSketch) Init() error {
	ts.tables = newTables(ts.rng, ts.params.AlphabetSize, ts.params.TupleLen, ts.params.Dim)
	return nil
}

// Compute sketches a sequence of symbols
func (ts *TensorSketch) Compute(seq []byte) (sketch.Sketch, error) {
	if err := checkSymbols(ts.params.Name, seq, ts.params.AlphabetSize); err != nil {
		return nil, err
	}
	return ts.compute(seq), nil
}

// compute runs the recursion over the sequence. Tp[p] and Tm[p] hold the positive and negative
// parts of the average over the p-tuples seen so far; Tp[0] is the unit vector e_0.
func (ts *TensorSketch) compute(seq []byte) Embedding {
	t, dim := ts.params.TupleLen, ts.params.Dim
	Tp := make([][]float64, t+1)
	Tm := make([][]float64, t+1)
	for p := range Tp {
		Tp[p] = make([]float64, dim)
		Tm[p] = make([]float64, dim)
	}
	Tp[0][0] = 1
	for i, c := range seq {
		top := i + 1
		if top > t {
			top = t
		}

		// descending, so that Tp[p-1] and Tm[p-1] still hold the values before symbol i
		for p := top; p >= 1; p-- {
			z := float64(p) / float64(i+1)
			r := ts.tables.hashes[p-1][c]
			if ts.tables.signs[p-1][c] {
				shiftSum(Tp[p], Tp[p-1], r, z)
				shiftSum(Tm[p], Tm[p-1], r, z)
			} else {
				shiftSum(Tp[p], Tm[p-1], r, z)
				shiftSum(Tm[p], Tp[p-1], r, z)
			}
		}
	}
	emb := make(Embedding, dim)
	for i := range emb {
		emb[i] = Tp[t][i] - Tm[t][i]
	}
	return emb
}

// Dist is the configured metric between two embeddings
func (ts *TensorSketch) Dist(a, b sketch.Sketch) (float64, error) {
	return embeddingDist(ts.params.Metric, a, b)
}

// embeddingDist applies a metric to two embeddings of the same length
func embeddingDist(metric sketch.Metric, a, b sketch.Sketch) (float64, error) {
	embA, okA := a.(Embedding)
	embB, okB := b.(Embedding)
	if !okA || !okB || len(embA) != len(embB) {
		return 0, sketch.MismatchError(a, b)
	}
	return metric.Distance(embA, embB), nil
}
