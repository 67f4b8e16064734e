package pipeline

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/will-rowe/seqsketch/src/progress"
	"github.com/will-rowe/seqsketch/src/reporting"
	"github.com/will-rowe/seqsketch/src/sketch"
	"github.com/will-rowe/seqsketch/src/version"
)

// testInfo returns a small but complete run configuration
func testInfo() *Info {
	return &Info{
		Version: version.GetVersion(),
		NumProc: 2,
		Seed:    42,
		Sketch: SketchCmd{
			AlphabetSize: 4,
			KmerSize:     3,
			EmbedDim:     16,
			TupleLen:     2,
			WindowSize:   16,
			Stride:       4,
			Reruns:       1,
			HashAlg:      "uniform",
			Dist:         "l2",
			MinHashDist:  "hamming",
			Transform:    "none",
			NumBins:      256,
		},
		Generator: GeneratorCmd{
			NumSeqs:     8,
			SeqLen:      32,
			MinMutation: 0,
			MaxMutation: 0.2,
			MinBlocks:   2,
			MaxBlocks:   4,
			GroupSize:   4,
			Shape:       "tree",
		},
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, testInfo().Validate())

	tests := []struct {
		name   string
		modify func(*Info)
	}{
		{"kmer size", func(i *Info) { i.Sketch.KmerSize = 0 }},
		{"reruns", func(i *Info) { i.Sketch.Reruns = 0 }},
		{"max length", func(i *Info) { i.Sketch.MaxLen = -1 }},
		{"hash", func(i *Info) { i.Sketch.HashAlg = "md5" }},
		{"metric", func(i *Info) { i.Sketch.Dist = "cosine" }},
		{"transform", func(i *Info) { i.Sketch.Transform = "disc"; i.Sketch.NumBins = 0 }},
		{"algorithm", func(i *Info) { i.Algorithms = []string{"MH", "LSH"} }},
		{"shape", func(i *Info) { i.Generator.Shape = "ring" }},
		{"odd pairs", func(i *Info) { i.Generator.Shape = "pair"; i.Generator.NumSeqs = 7 }},
	}
	for _, tt := range tests {
		info := testInfo()
		tt.modify(info)
		err := info.Validate()
		if !errors.Is(err, sketch.ErrInvalidConfig) {
			t.Fatalf("%v: expected a config error, got %v", tt.name, err)
		}
	}

	// fasta input skips the generator settings
	info := testInfo()
	info.Generator.Shape = "ring"
	info.Input.FastaFiles = []string{"seqs.fa"}
	assert.NoError(t, info.Validate())
}

func TestInfoDump(t *testing.T) {
	info := testInfo()
	info.Results = &reporting.Results{
		IDs:        []string{"seq0", "seq1"},
		EditDists:  []float64{4},
		Algorithms: []*reporting.AlgorithmResult{{Name: "MH", Spearman: []float64{0.5}, Mean: 0.5}},
	}
	path := filepath.Join(t.TempDir(), InfoFile)
	require.NoError(t, info.Dump(path))

	loaded := &Info{}
	require.NoError(t, loaded.Load(path))
	assert.Equal(t, info.Sketch, loaded.Sketch)
	assert.Equal(t, info.Generator, loaded.Generator)
	require.NotNil(t, loaded.Results)
	assert.Equal(t, "MH", loaded.Results.Algorithms[0].Name)
	assert.Equal(t, 0.5, loaded.Results.Algorithms[0].Mean)

	assert.Error(t, loaded.LoadFromBytes(nil))
	assert.Error(t, loaded.Load(filepath.Join(t.TempDir(), "missing")))
}

func TestRunMinions(t *testing.T) {
	info := testInfo()
	counter := &progress.Counter{}
	info.AttachObserver(counter)
	boss := newBoss(context.Background(), info)
	out := make([]int, 100)
	require.NoError(t, boss.runMinions("square", len(out), func(i int) error {
		out[i] = i * i
		return nil
	}))
	for i, v := range out {
		if v != i*i {
			t.Fatalf("slot %d holds %d", i, v)
		}
	}
	assert.Equal(t, 100, boss.completed())
	done, total := counter.Count()
	assert.Equal(t, int64(100), done)
	assert.Equal(t, int64(100), total)
}

func TestRunMinionsFailFast(t *testing.T) {
	info := testInfo()
	info.NumProc = 1
	boss := newBoss(context.Background(), info)
	var calls atomic.Int64
	failure := errors.New("minion failed")
	err := boss.runMinions("fail", 50, func(i int) error {
		calls.Add(1)
		if i == 3 {
			return failure
		}
		return nil
	})
	assert.True(t, errors.Is(err, failure))

	// with a single minion nothing after the failure is started
	assert.Equal(t, int64(4), calls.Load())
	assert.Equal(t, 3, boss.completed())

	// a cancelled run reports the cancellation
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	boss = newBoss(ctx, info)
	err = boss.runMinions("cancelled", 10, func(int) error { return nil })
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestNewSketchers(t *testing.T) {
	info := testInfo()
	sketchers, err := NewSketchers(info, 32, 64)
	require.NoError(t, err)
	require.Len(t, sketchers, len(AlgorithmNames))
	for i, sk := range sketchers {
		assert.Equal(t, AlgorithmNames[i], sk.Name())
	}

	// a subset keeps the output order
	info.Algorithms = []string{"TSS", "MH"}
	sketchers, err = NewSketchers(info, 32, 64)
	require.NoError(t, err)
	require.Len(t, sketchers, 2)
	assert.Equal(t, "MH", sketchers[0].Name())
	assert.Equal(t, "TSS", sketchers[1].Name())

	info.Sketch.HashAlg = "md5"
	_, err = NewSketchers(info, 32, 64)
	assert.True(t, errors.Is(err, sketch.ErrInvalidConfig))

	assert.Equal(t, 4, slideDim(16, 8, 32))
	assert.Equal(t, 1, slideDim(1, 1, 1000))
	assert.Equal(t, 16, slideDim(16, 8, 0))
}
