package pipeline

import (
	"log"

	"github.com/will-rowe/seqsketch/src/editdist"
	"github.com/will-rowe/seqsketch/src/reporting"
)

// GroundTruth is a pipeline process that computes the edit distance of every ingroup pair
type GroundTruth struct {
	info   *Info
	input  chan *Dataset
	output chan *Dataset
	err    error
}

// NewGroundTruth is the constructor
func NewGroundTruth(info *Info) *GroundTruth {
	return &GroundTruth{info: info, output: make(chan *Dataset, BUFFERSIZE)}
}

// Connect is the method to connect the GroundTruth to the output of a SequenceSource
func (proc *GroundTruth) Connect(previous *SequenceSource) {
	proc.input = previous.output
}

// Run is the method to run this process, which satisfies the pipeline interface
func (proc *GroundTruth) Run() {
	defer close(proc.output)
	for ds := range proc.input {

		// keep draining the input after a failure so upstream can finish
		if proc.err != nil {
			continue
		}
		if proc.err = proc.process(ds); proc.err != nil {
			continue
		}
		proc.output <- ds
	}
}

// Err returns the error that stopped the process, if any
func (proc *GroundTruth) Err() error {
	return proc.err
}

func (proc *GroundTruth) process(ds *Dataset) error {
	if ds.Stage != StageGenerated {
		return ds.advance(StageGenerated, StageGroundTruth)
	}
	dists := make([]float64, len(ds.Pairs))
	var alignments []reporting.PairAlignment
	if proc.info.MutationRuns {
		alignments = make([]reporting.PairAlignment, len(ds.Pairs))
	}
	timer := proc.info.Timer()
	boss := newBoss(proc.info.Context(), proc.info)
	err := boss.runMinions("edit distance", len(ds.Pairs), func(p int) error {
		pair := ds.Pairs[p]
		a, b := ds.Seqs[pair.I].Seq, ds.Seqs[pair.J].Seq
		if alignments == nil {
			defer timer.Start("edit_distance")()
			dists[p] = float64(editdist.Distance(a, b))
			return nil
		}

		// the full traceback gives the edit distance too
		defer timer.Start("traceback")()
		aln := editdist.Traceback(a, b)
		runsA, runsB := aln.MutationRuns()
		dists[p] = float64(aln.Distance)
		alignments[p] = reporting.PairAlignment{
			Cigar:   aln.Cigar.String(),
			LCSDist: editdist.LCSDistance(a, b),
			RunsA:   runsA,
			RunsB:   runsB,
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Printf("\tcomputed %d edit distances", boss.completed())
	ds.Results.EditDists = dists
	ds.Results.Alignments = alignments
	return ds.advance(StageGenerated, StageGroundTruth)
}
