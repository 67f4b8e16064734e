package seqio

import (
	"fmt"
	"strings"

	"github.com/biogo/biogo/alphabet"
)

// the letter tables used to print and parse symbols
const (
	dna4Letters    = "ACGT"
	dna5Letters    = "ACGTN"
	proteinLetters = "ACDEFGHIKLMNPQRSTVWY"

	// printable ASCII without '>' and ';', which have a meaning in FASTA
	genericLetters = "!\"#$%&'()*+,-./0123456789:<=?@ABCDEFGHIJKLMNOPQRSTUVWXYZ[\\]^_`abcdefghijklmnopqrstuvwxyz{|}~"
)

// Alphabet maps letters to the small integer symbols used by the sketches
type Alphabet struct {
	Name    string
	letters string
	index   [256]int
	biogo   alphabet.Alphabet
}

// NewAlphabet returns one of the named alphabets: dna4, dna5, protein or generic
func NewAlphabet(name string) (*Alphabet, error) {
	var letters string
	var bio alphabet.Alphabet
	switch strings.ToLower(name) {
	case "dna4", "dna":
		letters, bio = dna4Letters, alphabet.DNAredundant
	case "dna5":
		letters, bio = dna5Letters, alphabet.DNAredundant
	case "protein":
		letters, bio = proteinLetters, alphabet.Protein
	case "generic":
		letters, bio = genericLetters, alphabet.Protein
	default:
		return nil, fmt.Errorf("unknown alphabet: %v", name)
	}
	a := &Alphabet{Name: name, letters: letters, biogo: bio}
	for i := range a.index {
		a.index[i] = -1
	}
	for i := 0; i < len(letters); i++ {
		a.index[letters[i]] = i
	}

	// accept lower case for the biological alphabets
	if name != "generic" {
		for i := 0; i < len(letters); i++ {
			a.index[strings.ToLower(letters[i : i+1])[0]] = i
		}
	}
	return a, nil
}

// AlphabetFor returns the smallest named alphabet that can print alphabetSize symbols
func AlphabetFor(alphabetSize int) (*Alphabet, error) {
	switch {
	case alphabetSize <= len(dna4Letters):
		return NewAlphabet("dna4")
	case alphabetSize <= len(dna5Letters):
		return NewAlphabet("dna5")
	case alphabetSize <= len(proteinLetters):
		return NewAlphabet("protein")
	case alphabetSize <= len(genericLetters):
		return NewAlphabet("generic")
	}
	return nil, fmt.Errorf("no printable alphabet for %d symbols (maximum is %d)", alphabetSize, len(genericLetters))
}

// Size is the number of symbols in the alphabet
func (Alphabet *Alphabet) Size() int {
	return len(Alphabet.letters)
}

// Encode converts letters to symbols
func (Alphabet *Alphabet) Encode(letters []byte) ([]byte, error) {
	symbols := make([]byte, len(letters))
	for i, l := range letters {
		s := Alphabet.index[l]
		if s < 0 {
			return nil, fmt.Errorf("letter %q at position %d is not in the %v alphabet", l, i, Alphabet.Name)
		}
		symbols[i] = byte(s)
	}
	return symbols, nil
}

// Decode converts symbols to letters
func (Alphabet *Alphabet) Decode(symbols []byte) ([]byte, error) {
	letters := make([]byte, len(symbols))
	for i, s := range symbols {
		if int(s) >= len(Alphabet.letters) {
			return nil, fmt.Errorf("symbol %d at position %d is not in the %v alphabet", s, i, Alphabet.Name)
		}
		letters[i] = Alphabet.letters[s]
	}
	return letters, nil
}
