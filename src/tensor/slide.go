package tensor

import (
	"math/rand/v2"

	"github.com/will-rowe/seqsketch/src/sketch"
)

// SlideEmbedding holds one window sketch per row
type SlideEmbedding [][]float64

// Dim returns the number of window sketches
func (e SlideEmbedding) Dim() int { return len(e) }

// Apply rescales every value of every window sketch
func (e SlideEmbedding) Apply(f sketch.Transformer) {
	for _, row := range e {
		for i, v := range row {
			row[i] = f(v)
		}
	}
}

// TensorSlideSketch computes the tensor sketch of every window of WindowSize symbols, moving
// Stride symbols at a time.
//
// It keeps the exact signed counts T[a][b] of the sub-tuples covering tuple positions a..b for
// the symbols currently in the window, so a window can be updated by appending one symbol and
// dropping another rather than rebuilt. T[a][a-1] is the empty tuple, e_0.
type TensorSlideSketch struct {
	params Params
	rng    *rand.Rand
	tables tables
}

// NewTensorSlideSketch is the constructor, it draws the first set of tables from the seed
func NewTensorSlideSketch(params Params) (*TensorSlideSketch, error) {
	if err := params.check(); err != nil {
		return nil, err
	}
	if params.WindowSize < 1 || params.Stride < 1 {
		return nil, sketch.ConfigError("%v: window size (%d) and stride (%d) must be positive", params.Name, params.WindowSize, params.Stride)
	}
	tss := &TensorSlideSketch{
		params: params,
		rng:    rand.New(rand.NewPCG(params.Seed, params.Seed^0x2545f4914f6cdd1d)),
	}
	return tss, tss.Init()
}

// Name is the label used for this algorithm in the output files
func (tss *TensorSlideSketch) Name() string { return tss.params.Name }

// KmerInput is false, the slide sketch works on symbols
func (tss *TensorSlideSketch) KmerInput() bool { return false }

// TransformSketches is true
func (tss *TensorSlideSketch) TransformSketches() bool { return true }

// Init draws a new set of hashes and signs
func (tss *TensorSlideSketch) Init() error {
	tss.tables = newTables(tss.rng, tss.params.AlphabetSize, tss.params.TupleLen, tss.params.Dim)
	return nil
}

// Compute sketches a sequence of symbols
func (tss *TensorSlideSketch) Compute(seq []byte) (sketch.Sketch, error) {
	if err := checkSymbols(tss.params.Name, seq, tss.params.AlphabetSize); err != nil {
		return nil, err
	}
	return tss.compute(seq), nil
}

// windowCounts is the set of sub-tuple count tensors for one window
type windowCounts struct {
	t, dim int
	counts [][][]float64 // [a][b-a] for 0 <= a <= b < t
	empty  []float64
}

func newWindowCounts(t, dim int) *windowCounts {
	w := &windowCounts{t: t, dim: dim, counts: make([][][]float64, t), empty: make([]float64, dim)}
	w.empty[0] = 1
	for a := 0; a < t; a++ {
		w.counts[a] = make([][]float64, t-a)
		for b := range w.counts[a] {
			w.counts[a][b] = make([]float64, dim)
		}
	}
	return w
}

// get returns T[a][b], with T[a][a-1] the empty tuple
func (w *windowCounts) get(a, b int) []float64 {
	if b < a {
		return w.empty
	}
	return w.counts[a][b-a]
}

// addShifted sets dst += sign * shift(src, r)
func addShifted(dst, src []float64, r int, sign float64) {
	dim := len(dst)
	for i := range dst {
		dst[i] += sign * src[(dim+i-r)%dim]
	}
}

// push appends a symbol to the end of the window
func (w *windowCounts) push(tab tables, c byte) {
	for a := 0; a < w.t; a++ {

		// descending b, so T[a][b-1] does not include c yet
		for b := w.t - 1; b >= a; b-- {
			addShifted(w.get(a, b), w.get(a, b-1), tab.hashes[b][c], tab.sign(b, c))
		}
	}
}

// pop removes a symbol from the front of the window
func (w *windowCounts) pop(tab tables, c byte) {
	for b := 0; b < w.t; b++ {

		// descending a, so T[a+1][b] no longer includes c
		for a := b; a >= 0; a-- {
			addShifted(w.get(a, b), w.get(a+1, b), tab.hashes[a][c], -tab.sign(a, c))
		}
	}
}

// sketch returns T[0][t-1] normalised by the number of t-tuples in a window of n symbols
func (w *windowCounts) sketch(n int) []float64 {
	out := make([]float64, w.dim)
	tuples := binomial(n, w.t)
	if tuples == 0 {
		return out
	}
	for i, v := range w.get(0, w.t-1) {
		out[i] = v / tuples
	}
	return out
}

// binomial returns n choose k as a float
func binomial(n, k int) float64 {
	if k < 0 || k > n {
		return 0
	}
	res := 1.0
	for i := 1; i <= k; i++ {
		res = res * float64(n-k+i) / float64(i)
	}
	return res
}

// compute emits the sketch of the window ending at position i whenever i+1 is a multiple of the
// stride. Sequences shorter than the stride get a single sketch of the whole sequence.
func (tss *TensorSlideSketch) compute(seq []byte) SlideEmbedding {
	w := newWindowCounts(tss.params.TupleLen, tss.params.Dim)
	emb := SlideEmbedding{}
	for i, c := range seq {
		if i >= tss.params.WindowSize {
			w.pop(tss.tables, seq[i-tss.params.WindowSize])
		}
		w.push(tss.tables, c)
		if (i+1)%tss.params.Stride == 0 {
			emb = append(emb, w.sketch(min(i+1, tss.params.WindowSize)))
		}
	}
	if len(emb) == 0 && len(seq) > 0 {
		emb = append(emb, w.sketch(min(len(seq), tss.params.WindowSize)))
	}
	return emb
}

// Dist applies the metric to the windows the two sketches have in common
func (tss *TensorSlideSketch) Dist(a, b sketch.Sketch) (float64, error) {
	embA, okA := a.(SlideEmbedding)
	embB, okB := b.(SlideEmbedding)
	if !okA || !okB {
		return 0, sketch.MismatchError(a, b)
	}
	return tss.params.Metric.MinLength2D(embA, embB), nil
}
