package pipeline

import (
	"github.com/will-rowe/seqsketch/src/minhash"
	"github.com/will-rowe/seqsketch/src/sketch"
	"github.com/will-rowe/seqsketch/src/tensor"
)

// AlgorithmNames lists the algorithms that can be run, in output order
var AlgorithmNames = []string{"MH", "WMH", "OMH", "TS", "TSS", "TSS_flat_int32", "TSS_flat_double"}

func knownAlgorithm(name string) bool {
	for _, known := range AlgorithmNames {
		if known == name {
			return true
		}
	}
	return false
}

// selected returns the algorithms to run, all of them if none were requested
func (Info *Info) selected() []string {
	if len(Info.Algorithms) == 0 {
		return AlgorithmNames
	}
	want := make(map[string]bool, len(Info.Algorithms))
	for _, name := range Info.Algorithms {
		want[name] = true
	}
	names := []string{}
	for _, name := range AlgorithmNames {
		if want[name] {
			names = append(names, name)
		}
	}
	return names
}

// slideDim returns the length of each window sketch: enough for the windows of a sequence of
// seqLen symbols to hold about embed_dim values in total
func slideDim(embedDim, stride, seqLen int) int {
	if seqLen < 1 {
		return embedDim
	}
	return max(1, (embedDim*stride+seqLen-1)/seqLen)
}

// NewSketchers builds the selected algorithms. seqLen is the typical sequence length and maxLen
// the longest sequence that will be sketched. Every algorithm gets its own seed.
func NewSketchers(info *Info, seqLen, maxLen int) ([]sketch.Sketcher, error) {
	s := info.Sketch
	hashAlg, err := minhash.ParseHashAlgorithm(s.HashAlg)
	if err != nil {
		return nil, err
	}
	mhMetric, err := sketch.ParseMetric(s.MinHashDist)
	if err != nil {
		return nil, err
	}
	tsMetric, err := sketch.ParseMetric(s.Dist)
	if err != nil {
		return nil, err
	}
	sketchers := []sketch.Sketcher{}
	for i, name := range info.selected() {
		seed := info.Seed + uint64(i+1)*0x9e3779b97f4a7c15
		mhParams := minhash.Params{
			Name:         name,
			AlphabetSize: s.AlphabetSize,
			KmerSize:     s.KmerSize,
			Dim:          s.EmbedDim,
			MaxLen:       maxLen,
			TupleLen:     s.TupleLen,
			HashAlg:      hashAlg,
			Metric:       mhMetric,
			Seed:         seed,
		}
		tsParams := tensor.Params{
			Name:         name,
			AlphabetSize: s.AlphabetSize,
			Dim:          s.EmbedDim,
			TupleLen:     s.TupleLen,
			WindowSize:   s.WindowSize,
			Stride:       s.Stride,
			Metric:       tsMetric,
			Seed:         seed,
		}
		var sk sketch.Sketcher
		switch name {
		case "MH":
			sk, err = minhash.NewMinHash(mhParams)
		case "WMH":
			sk, err = minhash.NewWeightedMinHash(mhParams)
		case "OMH":
			sk, err = minhash.NewOrderedMinHash(mhParams)
		case "TS":
			sk, err = tensor.NewTensorSketch(tsParams)
		case "TSS":
			tsParams.Dim = slideDim(s.EmbedDim, s.Stride, seqLen)
			sk, err = tensor.NewTensorSlideSketch(tsParams)
		case "TSS_flat_int32", "TSS_flat_double":
			sk, err = newFlatSketch(name, tsParams, s, seqLen, maxLen)
		default:
			err = sketch.ConfigError("unknown algorithm %q", name)
		}
		if err != nil {
			return nil, err
		}
		sketchers = append(sketchers, sk)
	}
	return sketchers, nil
}

// newFlatSketch pairs a sliding window sketch with the flattener named by the algorithm
func newFlatSketch(name string, tsParams tensor.Params, s SketchCmd, seqLen, maxLen int) (sketch.Sketcher, error) {
	tsParams.Dim = slideDim(s.EmbedDim, s.Stride, seqLen)
	slide, err := tensor.NewTensorSlideSketch(tsParams)
	if err != nil {
		return nil, err
	}
	windows := max(1, (maxLen+s.Stride-1)/s.Stride)
	var flattener tensor.Flattener
	if name == "TSS_flat_int32" {
		flattener, err = tensor.NewInt32Flattener(s.EmbedDim, windows, tsParams.Dim, tsParams.Seed)
	} else {
		flattener, err = tensor.NewDoubleFlattener(s.EmbedDim, windows, tsParams.Dim, tsParams.Seed)
	}
	if err != nil {
		return nil, err
	}
	return tensor.NewFlatSketch(name, slide, flattener, tsParams.Metric), nil
}
