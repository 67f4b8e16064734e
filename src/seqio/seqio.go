/*
the seqio package contains custom types and methods for holding and processing sequence data
*/
package seqio

import (
	"fmt"
)

// Sequence is an ordered run of symbols, each symbol is in the range 0..alphabet size-1
type Sequence struct {
	ID  []byte
	Seq []byte
}

// NewSequence returns a Sequence holding the given symbols
func NewSequence(id string, symbols []byte) Sequence {
	return Sequence{ID: []byte(id), Seq: symbols}
}

// Len returns the number of symbols in the sequence
func (Sequence *Sequence) Len() int {
	return len(Sequence.Seq)
}

// SymbolCheck is a method to check that every symbol fits the alphabet
func (Sequence *Sequence) SymbolCheck(alphabetSize int) error {
	for i, s := range Sequence.Seq {
		if int(s) >= alphabetSize {
			return fmt.Errorf("symbol %d at position %d of %q is outside of the alphabet (size %d)", s, i, Sequence.ID, alphabetSize)
		}
	}
	return nil
}

// Pair is a pair of indices into a slice of sequences
type Pair struct {
	I, J int
}
