package tensor

import (
	"math"
	"math/rand/v2"

	"github.com/will-rowe/seqsketch/src/sketch"
	"gonum.org/v1/gonum/mat"
)

// Flattener maps a sliding window sketch to a fixed size vector
type Flattener interface {

	// Init draws a new random projection
	Init()

	// Flatten zero pads (or truncates) the window sketches to the configured number of windows and
	// projects the result down to the output dimension
	Flatten(SlideEmbedding) Embedding
}

// projectionShape holds the sizes shared by the flatteners
type projectionShape struct {
	outDim  int
	windows int
	rowDim  int
}

func checkShape(outDim, windows, rowDim int) error {
	if outDim < 1 || windows < 1 || rowDim < 1 {
		return sketch.ConfigError("flattener sizes must be positive: %d outputs, %d windows of %d values", outDim, windows, rowDim)
	}
	return nil
}

// inDim is the length of a padded and flattened window matrix
func (s projectionShape) inDim() int { return s.windows * s.rowDim }

// visit calls fn for every value of the padded and flattened window matrix that can be non zero
func (s projectionShape) visit(emb SlideEmbedding, fn func(col int, v float64)) {
	for w := 0; w < s.windows && w < len(emb); w++ {
		for i := 0; i < s.rowDim && i < len(emb[w]); i++ {
			fn(w*s.rowDim+i, emb[w][i])
		}
	}
}

// DoubleFlattener projects the window matrix with a Gaussian random matrix
type DoubleFlattener struct {
	projectionShape
	rng  *rand.Rand
	proj *mat.Dense
}

// NewDoubleFlattener returns a flattener to outDim values for up to windows window sketches of rowDim values
func NewDoubleFlattener(outDim, windows, rowDim int, seed uint64) (*DoubleFlattener, error) {
	if err := checkShape(outDim, windows, rowDim); err != nil {
		return nil, err
	}
	f := &DoubleFlattener{
		projectionShape: projectionShape{outDim: outDim, windows: windows, rowDim: rowDim},
		rng:             rand.New(rand.NewPCG(seed, seed^0xda942042e4dd58b5)),
	}
	f.Init()
	return f, nil
}

// Init draws a new projection, scaled so that the output has the norm of the input on average
func (f *DoubleFlattener) Init() {
	data := make([]float64, f.outDim*f.inDim())
	scale := 1 / math.Sqrt(float64(f.outDim))
	for i := range data {
		data[i] = f.rng.NormFloat64() * scale
	}
	f.proj = mat.NewDense(f.outDim, f.inDim(), data)
}

// Flatten satisfies the Flattener interface
func (f *DoubleFlattener) Flatten(emb SlideEmbedding) Embedding {
	in := mat.NewVecDense(f.inDim(), nil)
	f.visit(emb, func(col int, v float64) { in.SetVec(col, v) })
	out := mat.NewVecDense(f.outDim, nil)
	out.MulVec(f.proj, in)
	return Embedding(out.RawVector().Data)
}

// quantScale maps window sketch values, which are in [-1, 1], onto the int32 range
const quantScale = 1 << 16

// Int32Flattener quantises the window matrix to int32 and projects it with a random +/-1
// matrix in integer arithmetic
type Int32Flattener struct {
	projectionShape
	rng  *rand.Rand
	proj [][]int8
}

// NewInt32Flattener returns a flattener to outDim values for up to windows window sketches of rowDim values
func NewInt32Flattener(outDim, windows, rowDim int, seed uint64) (*Int32Flattener, error) {
	if err := checkShape(outDim, windows, rowDim); err != nil {
		return nil, err
	}
	f := &Int32Flattener{
		projectionShape: projectionShape{outDim: outDim, windows: windows, rowDim: rowDim},
		rng:             rand.New(rand.NewPCG(seed, seed^0x9fb21c651e98df25)),
	}
	f.Init()
	return f, nil
}

// Init draws a new projection
func (f *Int32Flattener) Init() {
	f.proj = make([][]int8, f.outDim)
	for o := range f.proj {
		f.proj[o] = make([]int8, f.inDim())
		for i := range f.proj[o] {
			f.proj[o][i] = 1
			if f.rng.IntN(2) == 0 {
				f.proj[o][i] = -1
			}
		}
	}
}

// quantise converts a value to int32, saturating at the ends of the range
func quantise(v float64) int32 {
	q := math.Round(v * quantScale)
	if q > math.MaxInt32 {
		return math.MaxInt32
	}
	if q < math.MinInt32 {
		return math.MinInt32
	}
	return int32(q)
}

// Flatten satisfies the Flattener interface, the output is rescaled to the input units
func (f *Int32Flattener) Flatten(emb SlideEmbedding) Embedding {
	acc := make([]int64, f.outDim)
	f.visit(emb, func(col int, v float64) {
		q := int64(quantise(v))
		for o := range acc {
			acc[o] += int64(f.proj[o][col]) * q
		}
	})
	out := make(Embedding, f.outDim)
	for o, v := range acc {
		out[o] = float64(v) / quantScale
	}
	return out
}

// FlatSketch is a sliding window tensor sketch followed by a flattener, so that sequences of
// any length are embedded into the same space
type FlatSketch struct {
	name      string
	slide     *TensorSlideSketch
	flattener Flattener
	metric    sketch.Metric
}

// NewFlatSketch is the constructor
func NewFlatSketch(name string, slide *TensorSlideSketch, flattener Flattener, metric sketch.Metric) *FlatSketch {
	return &FlatSketch{name: name, slide: slide, flattener: flattener, metric: metric}
}

// Name is the label used for this algorithm in the output files
func (fs *FlatSketch) Name() string { return fs.name }

// KmerInput is false, the flat sketch works on symbols
func (fs *FlatSketch) KmerInput() bool { return false }

// TransformSketches is false, the projection output is not bounded
func (fs *FlatSketch) TransformSketches() bool { return false }

// Init draws new slide sketch tables and a new projection
func (fs *FlatSketch) Init() error {
	if err := fs.slide.Init(); err != nil {
		return err
	}
	fs.flattener.Init()
	return nil
}

// Compute sketches a sequence of symbols
func (fs *FlatSketch) Compute(seq []byte) (sketch.Sketch, error) {
	s, err := fs.slide.Compute(seq)
	if err != nil {
		return nil, err
	}
	return fs.flattener.Flatten(s.(SlideEmbedding)), nil
}

// Dist is the configured metric between two flattened sketches
func (fs *FlatSketch) Dist(a, b sketch.Sketch) (float64, error) {
	return embeddingDist(fs.metric, a, b)
}
