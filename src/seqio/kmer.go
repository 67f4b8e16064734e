package seqio

import (
	"fmt"
	"math/bits"
)

// SetSize returns alphabetSize^k, the number of distinct k-mers
func SetSize(alphabetSize, k int) (uint64, error) {
	if alphabetSize < 1 || k < 1 {
		return 0, fmt.Errorf("alphabet size (%d) and k-mer size (%d) must be positive", alphabetSize, k)
	}
	size := uint64(1)
	for i := 0; i < k; i++ {
		hi, lo := bits.Mul64(size, uint64(alphabetSize))
		if hi != 0 {
			return 0, fmt.Errorf("%d-mers over an alphabet of %d symbols do not fit in 64 bits", k, alphabetSize)
		}
		size = lo
	}
	return size, nil
}

// checkKmerRange checks that the largest k-mer, A^k - 1, fits in 64 bits. This allows one more
// k-mer size than SetSize, which has to hold A^k itself.
func checkKmerRange(alphabetSize, k int) error {
	if alphabetSize < 1 || k < 1 {
		return fmt.Errorf("alphabet size (%d) and k-mer size (%d) must be positive", alphabetSize, k)
	}
	top := uint64(1)
	if k > 1 {
		var err error
		if top, err = SetSize(alphabetSize, k-1); err != nil {
			return err
		}
	}

	// (A-1)*A^(k-1) + A^(k-1)-1 = A^k - 1
	hi, lo := bits.Mul64(top, uint64(alphabetSize-1))
	if _, carry := bits.Add64(lo, top-1, 0); hi != 0 || carry != 0 {
		return fmt.Errorf("%d-mers over an alphabet of %d symbols do not fit in 64 bits", k, alphabetSize)
	}
	return nil
}

// Kmers returns the k-mers of a sequence, each encoded as a base alphabetSize number where the
// first symbol of the k-mer is the lowest order digit: s1 + s2*A + ... + sk*A^(k-1).
// A sequence of length L yields max(0, L-k+1) k-mers.
func Kmers(seq []byte, k, alphabetSize int) ([]uint64, error) {
	if err := checkKmerRange(alphabetSize, k); err != nil {
		return nil, err
	}
	for i, s := range seq {
		if int(s) >= alphabetSize {
			return nil, fmt.Errorf("symbol %d at position %d is outside of the alphabet (size %d)", s, i, alphabetSize)
		}
	}
	if len(seq) < k {
		return []uint64{}, nil
	}
	kmers := make([]uint64, len(seq)-k+1)
	a := uint64(alphabetSize)

	// the first k-mer is evaluated directly
	c := uint64(1)
	for i := 0; i < k; i++ {
		kmers[0] += c * uint64(seq[i])
		if i < k-1 {
			c *= a
		}
	}

	// c is now A^(k-1), so drop the leading symbol, shift down and add the next symbol on top
	for i := 0; i < len(kmers)-1; i++ {
		kmers[i+1] = (kmers[i]-uint64(seq[i]))/a + uint64(seq[i+k])*c
	}
	return kmers, nil
}

// KmerAt evaluates the k-mer starting at position i directly, it is the reference for Kmers
func KmerAt(seq []byte, i, k, alphabetSize int) uint64 {
	kmer, c := uint64(0), uint64(1)
	for j := 0; j < k; j++ {
		kmer += c * uint64(seq[i+j])
		c *= uint64(alphabetSize)
	}
	return kmer
}
