package pipeline

import (
	"log"

	"github.com/pkg/errors"

	"github.com/will-rowe/seqsketch/src/reporting"
	"github.com/will-rowe/seqsketch/src/seqgen"
	"github.com/will-rowe/seqsketch/src/seqio"
)

// SequenceSource is a pipeline process that generates the sequences of an experiment, or reads
// them from FASTA files
type SequenceSource struct {
	info   *Info
	output chan *Dataset
	err    error
}

// NewSequenceSource is the constructor
func NewSequenceSource(info *Info) *SequenceSource {
	return &SequenceSource{info: info, output: make(chan *Dataset, BUFFERSIZE)}
}

// Run is the method to run this process, which satisfies the pipeline interface
func (proc *SequenceSource) Run() {
	defer close(proc.output)
	ds := NewDataset()
	if len(proc.info.Input.FastaFiles) != 0 {
		proc.err = proc.read(ds)
	} else {
		proc.err = proc.generate(ds)
	}
	if proc.err != nil {
		return
	}
	if proc.err = proc.finish(ds); proc.err != nil {
		return
	}
	proc.output <- ds
}

// Err returns the error that stopped the process, if any
func (proc *SequenceSource) Err() error {
	return proc.err
}

// generate runs the sequence generator
func (proc *SequenceSource) generate(ds *Dataset) error {
	cfg, err := proc.info.GeneratorConfig()
	if err != nil {
		return err
	}
	gen, err := seqgen.New(cfg)
	if err != nil {
		return err
	}
	stop := proc.info.Timer().Start("gen_seqs")
	ds.Seqs, ds.Pairs = gen.Generate()
	stop()
	ds.SeqLen = cfg.SeqLen
	log.Printf("\tgenerated %d sequences (%v phylogeny) with %d ingroup pairs", len(ds.Seqs), cfg.Shape, len(ds.Pairs))
	return nil
}

// read loads every FASTA file and pairs up all of the sequences
func (proc *SequenceSource) read(ds *Dataset) error {
	alph, err := proc.alphabet()
	if err != nil {
		return err
	}
	for _, fastaFile := range proc.info.Input.FastaFiles {
		seqs, err := seqio.ReadFASTAFile(fastaFile, alph)
		if err != nil {
			return errors.Wrapf(err, "could not read %v", fastaFile)
		}
		ds.Seqs = append(ds.Seqs, seqs...)
	}
	if len(ds.Seqs) < 2 {
		return errors.Errorf("need at least 2 sequences to compare, found %d", len(ds.Seqs))
	}
	total := 0
	for i := range ds.Seqs {
		total += ds.Seqs[i].Len()
		for j := i + 1; j < len(ds.Seqs); j++ {
			ds.Pairs = append(ds.Pairs, seqio.Pair{I: i, J: j})
		}
	}
	ds.SeqLen = max(1, total/len(ds.Seqs))
	log.Printf("\tread %d sequences from %d files (mean length %d)", len(ds.Seqs), len(proc.info.Input.FastaFiles), ds.SeqLen)
	return nil
}

// alphabet returns the named input alphabet, or the smallest one that fits the alphabet size
func (proc *SequenceSource) alphabet() (*seqio.Alphabet, error) {
	if proc.info.Input.Alphabet != "" {
		return seqio.NewAlphabet(proc.info.Input.Alphabet)
	}
	return seqio.AlphabetFor(proc.info.Sketch.AlphabetSize)
}

// finish checks the sequences, sets the length limits and starts the results
func (proc *SequenceSource) finish(ds *Dataset) error {
	longest := 0
	for i := range ds.Seqs {
		if err := ds.Seqs[i].SymbolCheck(proc.info.Sketch.AlphabetSize); err != nil {
			return err
		}
		longest = max(longest, ds.Seqs[i].Len())
	}
	ds.MaxLen = proc.info.Sketch.MaxLen
	if ds.MaxLen == 0 {
		ds.MaxLen = 2 * max(ds.SeqLen, longest)
	}
	ids := make([]string, len(ds.Seqs))
	for i := range ds.Seqs {
		ids[i] = string(ds.Seqs[i].ID)
	}
	ds.Results = &reporting.Results{IDs: ids, Pairs: ds.Pairs}
	return ds.advance(StageInit, StageGenerated)
}
