package pipeline

import (
	"fmt"
	"log"

	"github.com/pkg/errors"

	"github.com/will-rowe/seqsketch/src/reporting"
	"github.com/will-rowe/seqsketch/src/seqio"
	"github.com/will-rowe/seqsketch/src/sketch"
	"github.com/will-rowe/seqsketch/src/stats"
)

// SketchEvaluator is a pipeline process that runs every algorithm on the sequences, compares the
// sketch distances with the edit distances and aggregates the reruns
type SketchEvaluator struct {
	info   *Info
	input  chan *Dataset
	output chan *Dataset
	err    error
}

// NewSketchEvaluator is the constructor
func NewSketchEvaluator(info *Info) *SketchEvaluator {
	return &SketchEvaluator{info: info, output: make(chan *Dataset, BUFFERSIZE)}
}

// Connect is the method to connect the SketchEvaluator to the output of a GroundTruth
func (proc *SketchEvaluator) Connect(previous *GroundTruth) {
	proc.input = previous.output
}

// Run is the method to run this process, which satisfies the pipeline interface
func (proc *SketchEvaluator) Run() {
	defer close(proc.output)
	for ds := range proc.input {
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
func (proc *SketchEvaluator) Err() error {
	return proc.err
}

func (proc *SketchEvaluator) process(ds *Dataset) error {
	if ds.Stage != StageGroundTruth {
		return ds.advance(StageGroundTruth, StageSketched)
	}
	sketchers, err := NewSketchers(proc.info, ds.SeqLen, ds.MaxLen)
	if err != nil {
		return err
	}
	transform, err := sketch.ParseTransform(proc.info.Sketch.Transform, proc.info.Sketch.NumBins)
	if err != nil {
		return err
	}
	for _, sk := range sketchers {
		result := &reporting.AlgorithmResult{Name: sk.Name()}
		for rerun := 0; rerun < proc.info.Sketch.Reruns; rerun++ {
			if err := proc.runAlgorithm(ds, sk, rerun, transform, result); err != nil {
				return errors.Wrapf(err, "%v failed on rerun %d", sk.Name(), rerun)
			}
		}
		ds.Results.Algorithms = append(ds.Results.Algorithms, result)
	}
	if err := ds.advance(StageGroundTruth, StageSketched); err != nil {
		return err
	}
	for _, result := range ds.Results.Algorithms {
		if err := aggregate(result, ds.Results.EditDists); err != nil {
			return err
		}
		log.Printf("\t%v\tspearman: %.4f (sd %.4f)", result.Name, result.Mean, result.StdDev)
	}
	return ds.advance(StageSketched, StageAggregated)
}

// runAlgorithm sketches every sequence, measures the distance of every pair and records the
// rank correlation with the edit distances
func (proc *SketchEvaluator) runAlgorithm(ds *Dataset, sk sketch.Sketcher, rerun int, transform sketch.Transformer, result *reporting.AlgorithmResult) error {
	// the first run uses the tables made by the constructor
	if rerun > 0 {
		if err := sk.Init(); err != nil {
			return err
		}
	}
	kmerSketcher, useKmers := sk.(sketch.KmerSketcher)
	if useKmers {
		if err := proc.extractKmers(ds); err != nil {
			return err
		}
	}
	name := sk.Name()
	timer := proc.info.Timer()
	boss := newBoss(proc.info.Context(), proc.info)

	sketches := make([]sketch.Sketch, len(ds.Seqs))
	err := boss.runMinions(fmt.Sprintf("%v sketch (run %d)", name, rerun+1), len(ds.Seqs), func(i int) error {
		defer timer.Start(name + "_compute")()
		var s sketch.Sketch
		var err error
		if useKmers {
			s, err = kmerSketcher.SketchKmers(ds.kmers[i])
		} else {
			s, err = sk.Compute(ds.Seqs[i].Seq)
		}
		if err != nil {
			return errors.Wrapf(err, "could not sketch %s", ds.Seqs[i].ID)
		}
		if t, ok := s.(sketch.Transformable); ok && transform != nil && sk.TransformSketches() {
			t.Apply(transform)
		}
		sketches[i] = s
		return nil
	})
	if err != nil {
		return err
	}

	dists := make([]float64, len(ds.Pairs))
	err = boss.runMinions(fmt.Sprintf("%v distances (run %d)", name, rerun+1), len(ds.Pairs), func(p int) error {
		defer timer.Start(name + "_dist")()
		pair := ds.Pairs[p]
		d, err := sk.Dist(sketches[pair.I], sketches[pair.J])
		if err != nil {
			return err
		}
		dists[p] = d
		return nil
	})
	if err != nil {
		return err
	}

	rho, err := stats.Spearman(dists, ds.Results.EditDists)
	if err != nil {
		return err
	}
	result.Dists = append(result.Dists, dists)
	result.Spearman = append(result.Spearman, rho)
	return nil
}

// extractKmers fills the k-mer cache of the dataset, once
func (proc *SketchEvaluator) extractKmers(ds *Dataset) error {
	if ds.kmers != nil {
		return nil
	}
	kmers := make([][]uint64, len(ds.Seqs))
	timer := proc.info.Timer()
	boss := newBoss(proc.info.Context(), proc.info)
	err := boss.runMinions("seq2kmer", len(ds.Seqs), func(i int) error {
		defer timer.Start("seq2kmer")()
		var err error
		kmers[i], err = seqio.Kmers(ds.Seqs[i].Seq, proc.info.Sketch.KmerSize, proc.info.Sketch.AlphabetSize)
		return err
	})
	if err != nil {
		return err
	}
	ds.kmers = kmers
	return nil
}

// aggregate summarises the reruns of an algorithm. With several reruns the per pair median and
// mean distances are correlated with the edit distances too.
func aggregate(result *reporting.AlgorithmResult, editDists []float64) error {
	result.Mean, result.StdDev = stats.MeanStdDev(result.Spearman)
	if result.Reruns() < 2 {
		return nil
	}
	var err error
	if result.MedianSpearman, err = stats.Spearman(result.PairMedians(), editDists); err != nil {
		return err
	}
	result.MeanSpearman, err = stats.Spearman(result.PairMeans(), editDists)
	return err
}
