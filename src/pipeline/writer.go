package pipeline

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/will-rowe/seqsketch/src/reporting"
	"github.com/will-rowe/seqsketch/src/seqio"
)

// output file names, relative to the output directory
const (
	SeqsFile    = "seqs.fa"
	DistsFile   = "dists.csv"
	SummaryFile = "summary.csv"
	TimingFile  = "timing.csv"
	InfoFile    = "run.info"
	RunsFile    = "mutation_runs.csv"
)

// ResultWriter is the final pipeline process, it writes the results of a run to the output
// directory and keeps them for the caller
type ResultWriter struct {
	info    *Info
	input   chan *Dataset
	results *reporting.Results
	err     error
}

// NewResultWriter is the constructor
func NewResultWriter(info *Info) *ResultWriter {
	return &ResultWriter{info: info}
}

// Connect is the method to connect the ResultWriter to the output of a SketchEvaluator
func (proc *ResultWriter) Connect(previous *SketchEvaluator) {
	proc.input = previous.output
}

// Run is the method to run this process, which satisfies the pipeline interface
func (proc *ResultWriter) Run() {
	for ds := range proc.input {
		if proc.err != nil {
			continue
		}
		proc.err = proc.process(ds)
	}
}

// Err returns the error that stopped the process, if any
func (proc *ResultWriter) Err() error {
	return proc.err
}

// Results returns the results of the run, nil until the writer has finished
func (proc *ResultWriter) Results() *reporting.Results {
	return proc.results
}

func (proc *ResultWriter) process(ds *Dataset) error {
	if ds.Stage != StageAggregated {
		return ds.advance(StageAggregated, StageDone)
	}
	if proc.info.OutDir != "" {
		if err := proc.write(ds); err != nil {
			return err
		}
	}
	proc.results = ds.Results
	return ds.advance(StageAggregated, StageDone)
}

// write saves the sequences, the distance and summary tables, the timings and the run info
func (proc *ResultWriter) write(ds *Dataset) error {
	if err := os.MkdirAll(proc.info.OutDir, 0755); err != nil {
		return errors.Wrap(err, "could not create output directory")
	}
	if err := proc.writeSeqs(ds); err != nil {
		return err
	}
	tables := []outputTable{
		{DistsFile, func(w io.Writer) error { return reporting.WriteDists(w, ds.Results) }},
		{SummaryFile, func(w io.Writer) error { return reporting.WriteSummary(w, ds.Results) }},
		{TimingFile, proc.info.Timer().WriteCSV},
	}
	if ds.Results.Alignments != nil {
		tables = append(tables, outputTable{RunsFile, func(w io.Writer) error { return reporting.WriteMutationRuns(w, ds.Results) }})
	}
	for _, table := range tables {
		if err := writeFile(filepath.Join(proc.info.OutDir, table.name), table.write); err != nil {
			return err
		}
	}
	if proc.info.Plot {
		for _, alg := range ds.Results.Algorithms {
			fileName := filepath.Join(proc.info.OutDir, reporting.PlotFileName(alg.Name))
			if err := reporting.PlotDistances(ds.Results, alg, fileName); err != nil {
				return errors.Wrapf(err, "could not plot %v", alg.Name)
			}
		}
	}
	proc.info.Results = ds.Results
	proc.info.Timings = proc.info.Timer().Phases()
	if err := proc.info.Dump(filepath.Join(proc.info.OutDir, InfoFile)); err != nil {
		return errors.Wrap(err, "could not save run info")
	}
	log.Printf("\twritten results to %v", proc.info.OutDir)
	return nil
}

// writeSeqs saves the sequences as FASTA, skipped if no printable alphabet fits
func (proc *ResultWriter) writeSeqs(ds *Dataset) error {
	var alph *seqio.Alphabet
	var err error
	if proc.info.Input.Alphabet != "" {
		alph, err = seqio.NewAlphabet(proc.info.Input.Alphabet)
	} else {
		alph, err = seqio.AlphabetFor(proc.info.Sketch.AlphabetSize)
	}
	if err != nil {
		log.Printf("\tnot writing sequences: %v", err)
		return nil
	}
	return seqio.WriteFASTAFile(filepath.Join(proc.info.OutDir, SeqsFile), ds.Seqs, alph)
}

// outputTable is a file of the output directory and the function that fills it
type outputTable struct {
	name  string
	write func(io.Writer) error
}

func writeFile(path string, write func(io.Writer) error) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(fh); err != nil {
		fh.Close()
		return errors.Wrapf(err, "could not write %v", path)
	}
	return fh.Close()
}

// Experiment assembles the full pipeline, runs it and returns the results
func Experiment(info *Info) (*reporting.Results, error) {
	source := NewSequenceSource(info)
	groundTruth := NewGroundTruth(info)
	evaluator := NewSketchEvaluator(info)
	writer := NewResultWriter(info)
	groundTruth.Connect(source)
	evaluator.Connect(groundTruth)
	writer.Connect(evaluator)

	experiment := NewPipeline()
	experiment.AddProcesses(source, groundTruth, evaluator, writer)
	log.Printf("\tpipeline has %d processes", experiment.GetNumProcesses())
	if err := experiment.Run(); err != nil {
		return nil, err
	}
	return writer.Results(), nil
}
