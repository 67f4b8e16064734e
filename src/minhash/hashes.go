package minhash

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/klauspost/crc32"
	"github.com/will-rowe/seqsketch/src/sketch"
)

// HashAlgorithm selects how the rank tables are built
type HashAlgorithm int

const (
	// Uniform tables are uniformly random permutations
	Uniform HashAlgorithm = iota

	// CRC32 tables are CRC-32 checksums of (table seed, index), they are quicker to build but
	// are not uniform permutations (ranks can collide), so use them for speed comparisons only
	CRC32
)

func (alg HashAlgorithm) String() string {
	switch alg {
	case Uniform:
		return "uniform"
	case CRC32:
		return "crc32"
	}
	return fmt.Sprintf("unknown(%d)", int(alg))
}

// ParseHashAlgorithm converts a --hashAlg flag value to a HashAlgorithm
func ParseHashAlgorithm(name string) (HashAlgorithm, error) {
	switch name {
	case "uniform":
		return Uniform, nil
	case "crc32":
		return CRC32, nil
	}
	return 0, sketch.ConfigError("unknown hash algorithm %q (must be one of uniform|crc32)", name)
}

// HashFamily holds one rank table per sketch dimension, each table ranks setSize*multiplicity elements
type HashFamily struct {
	setSize      uint64
	multiplicity uint64
	alg          HashAlgorithm
	rng          *rand.Rand
	tables       [][]uint32
}

// NewHashFamily is the constructor, it generates the first set of tables from the seed
func NewHashFamily(setSize uint64, dim, multiplicity int, alg HashAlgorithm, seed uint64) (*HashFamily, error) {
	if setSize == 0 || dim < 1 || multiplicity < 1 {
		return nil, sketch.ConfigError("set size (%d), dimension (%d) and multiplicity (%d) must be positive", setSize, dim, multiplicity)
	}
	if setSize > math.MaxUint32/uint64(multiplicity) {
		return nil, sketch.ConfigError("hash tables of %d x %d elements are too large, reduce the k-mer size or the maximum length", setSize, multiplicity)
	}
	hf := &HashFamily{
		setSize:      setSize,
		multiplicity: uint64(multiplicity),
		alg:          alg,
		rng:          rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		tables:       make([][]uint32, dim),
	}
	hf.Generate()
	return hf, nil
}

// Generate draws a new set of tables from the family's random source
func (hf *HashFamily) Generate() {
	size := int(hf.setSize * hf.multiplicity)
	for d := range hf.tables {
		table := make([]uint32, size)
		switch hf.alg {
		case CRC32:
			key := make([]byte, 16)
			binary.LittleEndian.PutUint64(key[:8], hf.rng.Uint64())
			for i := range table {
				binary.LittleEndian.PutUint64(key[8:], uint64(i))
				table[i] = crc32.ChecksumIEEE(key)
			}
		default:
			for i, r := range hf.rng.Perm(size) {
				table[i] = uint32(r)
			}
		}
		hf.tables[d] = table
	}
}

// SetTables replaces the generated tables, each table must have setSize*multiplicity entries
func (hf *HashFamily) SetTables(tables [][]uint32) error {
	if len(tables) != len(hf.tables) {
		return fmt.Errorf("expected %d tables, got %d", len(hf.tables), len(tables))
	}
	for d, table := range tables {
		if uint64(len(table)) != hf.setSize*hf.multiplicity {
			return fmt.Errorf("table %d has %d entries, expected %d", d, len(table), hf.setSize*hf.multiplicity)
		}
	}
	hf.tables = tables
	return nil
}

// Rank returns the rank of element idx in the table for dimension d
func (hf *HashFamily) Rank(d int, idx uint64) uint32 {
	return hf.tables[d][idx]
}

// Dim is the number of tables
func (hf *HashFamily) Dim() int {
	return len(hf.tables)
}

// Size is the number of elements ranked by each table
func (hf *HashFamily) Size() uint64 {
	return hf.setSize * hf.multiplicity
}
