package pipeline

import (
	"github.com/pkg/errors"

	"github.com/will-rowe/seqsketch/src/reporting"
	"github.com/will-rowe/seqsketch/src/seqio"
)

// ErrStage is returned when a dataset reaches a process out of order
var ErrStage = errors.New("dataset is at the wrong stage")

// Stage records how far through the run a Dataset is
type Stage int

const (
	StageInit Stage = iota
	StageGenerated
	StageGroundTruth
	StageSketched
	StageAggregated
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageInit:
		return "init"
	case StageGenerated:
		return "sequences generated"
	case StageGroundTruth:
		return "ground truth computed"
	case StageSketched:
		return "algorithms run"
	case StageAggregated:
		return "results aggregated"
	case StageDone:
		return "done"
	}
	return "unknown"
}

// Dataset is the unit of work passed between the pipeline processes
type Dataset struct {
	Stage Stage
	Seqs  []seqio.Sequence
	Pairs []seqio.Pair

	// SeqLen is the typical sequence length, used to size the sliding window sketches
	SeqLen int

	// MaxLen is the longest sequence the MinHash family and the flatteners have to handle
	MaxLen int

	Results *reporting.Results

	// k-mers of every sequence, extracted once and shared by the MinHash family
	kmers [][]uint64
}

// NewDataset returns an empty dataset at the init stage
func NewDataset() *Dataset {
	return &Dataset{Stage: StageInit}
}

// advance moves the dataset from one stage to the next
func (ds *Dataset) advance(from, to Stage) error {
	if ds.Stage != from || to != from+1 {
		return errors.Wrapf(ErrStage, "can't move from %q to %q, dataset is at %q", from, to, ds.Stage)
	}
	ds.Stage = to
	return nil
}
