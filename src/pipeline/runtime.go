package pipeline

import (
	"context"
	"fmt"
	"io/ioutil"

	"github.com/pkg/errors"
	"gopkg.in/vmihailenco/msgpack.v2"

	"github.com/will-rowe/seqsketch/src/minhash"
	"github.com/will-rowe/seqsketch/src/progress"
	"github.com/will-rowe/seqsketch/src/reporting"
	"github.com/will-rowe/seqsketch/src/seqgen"
	"github.com/will-rowe/seqsketch/src/sketch"
	"github.com/will-rowe/seqsketch/src/timer"
)

// Info stores the runtime information
type Info struct {
	Version      string
	NumProc      int
	Profiling    bool
	Seed         uint64
	OutDir       string
	Plot         bool
	Archive      bool
	MutationRuns bool // align every ingroup pair and record the match runs
	Algorithms   []string
	Sketch       SketchCmd
	Generator    GeneratorCmd
	Input        InputCmd

	// set once a run completes
	Results *reporting.Results
	Timings []timer.Phase

	// the following fields are not written to disk
	ctx      context.Context
	observer progress.Observer
	timer    *timer.Registry
}

// SketchCmd stores the sketching parameters shared by the experiment and sketch commands
type SketchCmd struct {
	AlphabetSize int
	KmerSize     int
	EmbedDim     int
	TupleLen     int
	WindowSize   int
	Stride       int
	MaxLen       int // 0 means twice the sequence length
	Reruns       int
	HashAlg      string
	Dist         string // metric for the tensor sketches
	MinHashDist  string // metric for the MinHash family
	Transform    string
	NumBins      int
}

// GeneratorCmd stores the runtime info for the sequence generator
type GeneratorCmd struct {
	NumSeqs       int
	SeqLen        int
	FixLen        bool
	MinMutation   float64
	MaxMutation   float64
	BlockMutation float64
	MinBlocks     int
	MaxBlocks     int
	GroupSize     int
	Shape         string
}

// InputCmd stores the runtime info for runs on FASTA files rather than generated sequences
type InputCmd struct {
	FastaFiles []string
	Alphabet   string
}

// AttachContext is a method to attach a context that cancels the run
func (Info *Info) AttachContext(ctx context.Context) {
	Info.ctx = ctx
}

// Context returns the attached context, or a background context
func (Info *Info) Context() context.Context {
	if Info.ctx == nil {
		return context.Background()
	}
	return Info.ctx
}

// AttachObserver is a method to attach a progress observer to the runtime
func (Info *Info) AttachObserver(obs progress.Observer) {
	Info.observer = obs
}

// Observer returns the attached progress observer, or one that discards progress
func (Info *Info) Observer() progress.Observer {
	if Info.observer == nil {
		return progress.Nop{}
	}
	return Info.observer
}

// AttachTimer is a method to attach a timing registry to the runtime
func (Info *Info) AttachTimer(t *timer.Registry) {
	Info.timer = t
}

// Timer returns the timing registry, creating one if needed
func (Info *Info) Timer() *timer.Registry {
	if Info.timer == nil {
		Info.timer = timer.NewRegistry()
	}
	return Info.timer
}

// GeneratorConfig converts the generator settings
func (Info *Info) GeneratorConfig() (seqgen.Config, error) {
	shape, err := seqgen.ParseShape(Info.Generator.Shape)
	if err != nil {
		return seqgen.Config{}, err
	}
	cfg := seqgen.Config{
		AlphabetSize:  Info.Sketch.AlphabetSize,
		NumSeqs:       Info.Generator.NumSeqs,
		SeqLen:        Info.Generator.SeqLen,
		FixLen:        Info.Generator.FixLen,
		MinMutation:   Info.Generator.MinMutation,
		MaxMutation:   Info.Generator.MaxMutation,
		BlockMutation: Info.Generator.BlockMutation,
		MinBlocks:     Info.Generator.MinBlocks,
		MaxBlocks:     Info.Generator.MaxBlocks,
		GroupSize:     Info.Generator.GroupSize,
		Shape:         shape,
		Seed:          Info.Seed,
	}
	return cfg, cfg.Validate()
}

// Validate checks the runtime info before any sequences are generated or read
func (Info *Info) Validate() error {
	s := Info.Sketch
	if s.KmerSize < 1 || s.EmbedDim < 1 || s.TupleLen < 1 || s.WindowSize < 1 || s.Stride < 1 {
		return sketch.ConfigError("k-mer size (%d), embedding dimension (%d), tuple length (%d), window size (%d) and stride (%d) must be positive", s.KmerSize, s.EmbedDim, s.TupleLen, s.WindowSize, s.Stride)
	}
	if s.MaxLen < 0 {
		return sketch.ConfigError("maximum length can't be negative, got %d", s.MaxLen)
	}
	if s.Reruns < 1 {
		return sketch.ConfigError("number of reruns must be positive, got %d", s.Reruns)
	}
	if _, err := minhash.ParseHashAlgorithm(s.HashAlg); err != nil {
		return err
	}
	if _, err := sketch.ParseMetric(s.Dist); err != nil {
		return err
	}
	if _, err := sketch.ParseMetric(s.MinHashDist); err != nil {
		return err
	}
	if _, err := sketch.ParseTransform(s.Transform, s.NumBins); err != nil {
		return err
	}
	for _, name := range Info.Algorithms {
		if !knownAlgorithm(name) {
			return sketch.ConfigError("unknown algorithm %q (must be one of %v)", name, AlgorithmNames)
		}
	}
	if len(Info.Input.FastaFiles) != 0 {
		if s.AlphabetSize < 1 || s.AlphabetSize > 256 {
			return sketch.ConfigError("alphabet size must be in 1..256, got %d", s.AlphabetSize)
		}
		return nil
	}
	_, err := Info.GeneratorConfig()
	return err
}

// Dump is a method to dump the pipeline info to file
func (Info *Info) Dump(path string) error {
	b, err := msgpack.Marshal(Info)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(path, b, 0644)
}

// Load is a method to load Info from file
func (Info *Info) Load(path string) error {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}
	return Info.LoadFromBytes(data)
}

// LoadFromBytes is a method to load Info from bytes
func (Info *Info) LoadFromBytes(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("seqsketch run info appears empty")
	}
	return errors.Wrap(msgpack.Unmarshal(data, Info), "could not decode run info")
}
