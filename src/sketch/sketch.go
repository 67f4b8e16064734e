// Package sketch holds the contract shared by the sketching algorithms, along with the distance
// metrics and output transforms they use.
package sketch

// Sketch is the fixed-size summary of a sequence produced by a Sketcher. The concrete type
// depends on the algorithm and sketches are only ever compared by the algorithm that made them.
type Sketch interface {
	Dim() int
}

// Sketcher is the interface satisfied by all the sketching algorithms
type Sketcher interface {

	// Name is the label used for this algorithm in the output files
	Name() string

	// KmerInput reports if the algorithm works on the k-mer expansion of a sequence
	KmerInput() bool

	// TransformSketches reports if the experiment --transform should be applied to the output
	TransformSketches() bool

	// Init (re)generates the random tables used by the algorithm, it must not be called concurrently
	Init() error

	// Compute returns the sketch for a sequence of symbols, it is safe for concurrent use after Init
	Compute(seq []byte) (Sketch, error)

	// Dist returns the distance between two sketches made by this algorithm
	Dist(a, b Sketch) (float64, error)
}

// Transformable is implemented by sketches whose values can be rescaled in place
type Transformable interface {
	Apply(Transformer)
}

// KmerSketcher is implemented by the algorithms that can sketch pre-computed k-mers, which lets
// a caller extract the k-mers of a sequence once and share them between algorithms
type KmerSketcher interface {
	Sketcher
	SketchKmers(kmers []uint64) (Sketch, error)
}
