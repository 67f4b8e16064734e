package seqio

import (
	"io"
	"os"
	"strings"

	"github.com/biogo/biogo/alphabet"
	bioseqio "github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// FASTA line width used when writing sequences
const lineWidth = 60

// ReadFASTA parses FASTA records from r and encodes them with the alphabet
func ReadFASTA(r io.Reader, alph *Alphabet) ([]Sequence, error) {
	sc := bioseqio.NewScanner(fasta.NewReader(r, linear.NewSeq("", nil, alph.biogo)))
	seqs := []Sequence{}
	for sc.Next() {
		record, ok := sc.Seq().(*linear.Seq)
		if !ok {
			return nil, errors.Errorf("unexpected sequence type %T", sc.Seq())
		}
		letters := make([]byte, len(record.Seq))
		for i, l := range record.Seq {
			letters[i] = byte(l)
		}
		symbols, err := alph.Encode(letters)
		if err != nil {
			return nil, errors.Wrapf(err, "could not encode %v", record.Name())
		}
		seqs = append(seqs, NewSequence(record.Name(), symbols))
	}
	if err := sc.Error(); err != nil {
		return nil, errors.Wrap(err, "could not read fasta")
	}
	return seqs, nil
}

// ReadFASTAFile opens a (possibly gzipped) FASTA file and reads all of its records
func ReadFASTAFile(path string, alph *Alphabet) ([]Sequence, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	var r io.Reader = fh

	// handle gzipped input
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(fh)
		if err != nil {
			return nil, errors.Wrapf(err, "could not decompress %v", path)
		}
		defer gz.Close()
		r = gz
	}
	seqs, err := ReadFASTA(r, alph)
	return seqs, errors.Wrapf(err, "reading %v", path)
}

// WriteFASTA writes the sequences to w, decoding symbols with the alphabet
func WriteFASTA(w io.Writer, seqs []Sequence, alph *Alphabet) error {
	fw := fasta.NewWriter(w, lineWidth)
	for _, s := range seqs {
		letters, err := alph.Decode(s.Seq)
		if err != nil {
			return errors.Wrapf(err, "could not decode %s", s.ID)
		}
		if _, err := fw.Write(linear.NewSeq(string(s.ID), alphabet.BytesToLetters(letters), alph.biogo)); err != nil {
			return err
		}
	}
	return nil
}

// WriteFASTAFile writes the sequences to a new file
func WriteFASTAFile(path string, seqs []Sequence, alph *Alphabet) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteFASTA(fh, seqs, alph); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}
