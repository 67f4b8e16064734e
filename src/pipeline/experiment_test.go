package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/will-rowe/seqsketch/src/seqio"
	"github.com/will-rowe/seqsketch/src/sketch"
)

func TestExperimentIdenticalPairs(t *testing.T) {
	info := testInfo()
	info.Generator.Shape = "path"
	info.Generator.MaxMutation = 0
	res, err := Experiment(info)
	require.NoError(t, err)
	require.Len(t, res.Algorithms, len(AlgorithmNames))

	// without mutations every ingroup pair is identical, so all distances are 0 and every
	// algorithm agrees perfectly with the edit distance
	for _, ed := range res.EditDists {
		assert.Zero(t, ed)
	}
	for _, alg := range res.Algorithms {
		assert.Equal(t, 1.0, alg.Mean, alg.Name)
		for _, d := range alg.Dists[0] {
			assert.Zero(t, d, alg.Name)
		}
	}
}

func TestExperimentOutput(t *testing.T) {
	info := testInfo()
	info.OutDir = filepath.Join(t.TempDir(), "run")
	info.Plot = true
	info.Sketch.Reruns = 2
	info.Sketch.Transform = "atan"
	res, err := Experiment(info)
	require.NoError(t, err)

	// 2 tree groups of 4 sequences, 6 pairs each
	assert.Len(t, res.Pairs, 12)
	assert.Len(t, res.EditDists, 12)
	for _, alg := range res.Algorithms {
		assert.Equal(t, 2, alg.Reruns(), alg.Name)
		assert.Len(t, alg.Dists[1], 12, alg.Name)
		assert.GreaterOrEqual(t, alg.Mean, -1.0)
		assert.LessOrEqual(t, alg.Mean, 1.0)
	}

	for _, name := range []string{SeqsFile, DistsFile, SummaryFile, TimingFile, InfoFile, "MH.png", "TSS_flat_double.png"} {
		_, err := os.Stat(filepath.Join(info.OutDir, name))
		require.NoError(t, err, name)
	}
	dists, err := os.ReadFile(filepath.Join(info.OutDir, DistsFile))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(dists)), "\n")
	assert.Len(t, lines, 13)
	assert.True(t, strings.HasPrefix(lines[0], "s1,s2,ED,MH,WMH,OMH,TS,TSS,"))

	loaded := &Info{}
	require.NoError(t, loaded.Load(filepath.Join(info.OutDir, InfoFile)))
	require.NotNil(t, loaded.Results)
	assert.Len(t, loaded.Results.Algorithms, len(AlgorithmNames))
	phases := map[string]bool{}
	for _, p := range loaded.Timings {
		phases[p.Name] = true
	}
	for _, name := range []string{"gen_seqs", "edit_distance", "seq2kmer", "MH_compute", "TSS_dist"} {
		assert.True(t, phases[name], name)
	}

	// the sequences written out can be read back
	alph, err := seqio.AlphabetFor(4)
	require.NoError(t, err)
	seqs, err := seqio.ReadFASTAFile(filepath.Join(info.OutDir, SeqsFile), alph)
	require.NoError(t, err)
	assert.Len(t, seqs, 8)
}

func TestExperimentFasta(t *testing.T) {
	dir := t.TempDir()
	fastaFile := filepath.Join(dir, "input.fa")
	require.NoError(t, os.WriteFile(fastaFile, []byte(">a\nACGTACGTACGTAAAC\n>b\nACGTACGAACGTAAAC\n>c\nTTTTGGGGCCCCAAAA\n"), 0644))
	info := testInfo()
	info.Input.FastaFiles = []string{fastaFile}
	info.Input.Alphabet = "dna4"
	info.Algorithms = []string{"MH", "TS"}
	res, err := Experiment(info)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, res.IDs)
	assert.Equal(t, []seqio.Pair{{I: 0, J: 1}, {I: 0, J: 2}, {I: 1, J: 2}}, res.Pairs)
	assert.Equal(t, 1.0, res.EditDists[0])
	assert.Len(t, res.Algorithms, 2)
	assert.Nil(t, res.Alignments)

	info.Input.FastaFiles = []string{filepath.Join(dir, "missing.fa")}
	_, err = Experiment(info)
	assert.Error(t, err)
}

func TestExperimentMutationRuns(t *testing.T) {
	dir := t.TempDir()
	fastaFile := filepath.Join(dir, "input.fa")
	require.NoError(t, os.WriteFile(fastaFile, []byte(">a\nACGTACGTACGTAAAC\n>b\nACGTACGAACGTAAAC\n"), 0644))
	info := testInfo()
	info.Input.FastaFiles = []string{fastaFile}
	info.Input.Alphabet = "dna4"
	info.Algorithms = []string{"MH"}
	info.MutationRuns = true
	info.OutDir = filepath.Join(dir, "run")
	res, err := Experiment(info)
	require.NoError(t, err)

	// a single substitution at position 7
	require.Len(t, res.Alignments, 1)
	aln := res.Alignments[0]
	assert.Equal(t, 1.0, res.EditDists[0])
	assert.Equal(t, "7=1X8=", aln.Cigar)
	assert.Equal(t, 2, aln.LCSDist)
	assert.Equal(t, []int{7, 8}, aln.RunsA)
	assert.Equal(t, []int{7, 8}, aln.RunsB)

	runs, err := os.ReadFile(filepath.Join(info.OutDir, RunsFile))
	require.NoError(t, err)
	assert.Equal(t, "s1,s2,ED,LCS_dist,cigar,runs_s1,runs_s2\n0,1,1,2,7=1X8=,7;8,7;8\n", string(runs))
	phases := map[string]bool{}
	for _, p := range info.Timings {
		phases[p.Name] = true
	}
	assert.True(t, phases["traceback"])
	assert.False(t, phases["edit_distance"])
}

func TestExperimentTooLong(t *testing.T) {
	info := testInfo()
	info.Sketch.MaxLen = 10
	info.Algorithms = []string{"WMH"}
	_, err := Experiment(info)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sketch.ErrInvalidInput))
}

func TestStageOrder(t *testing.T) {
	info := testInfo()
	ds := NewDataset()
	err := NewGroundTruth(info).process(ds)
	assert.True(t, errors.Is(err, ErrStage))
	err = NewSketchEvaluator(info).process(ds)
	assert.True(t, errors.Is(err, ErrStage))
	err = NewResultWriter(info).process(ds)
	assert.True(t, errors.Is(err, ErrStage))
	assert.Equal(t, StageInit, ds.Stage)

	require.NoError(t, ds.advance(StageInit, StageGenerated))
	assert.Error(t, ds.advance(StageGenerated, StageSketched))
	assert.Equal(t, "sequences generated", ds.Stage.String())
}
