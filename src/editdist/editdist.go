// Package editdist computes the Levenshtein distance between two sequences, which is the ground
// truth the sketch distances are scored against.
package editdist

import (
	"github.com/biogo/hts/sam"
)

// Distance returns the edit distance between a and b using a single row of the DP matrix
func Distance(a, b []byte) int {
	if len(b) > len(a) {
		a, b = b, a
	}
	if len(b) == 0 {
		return len(a)
	}
	costs := make([]int, len(b)+1)
	for j := range costs {
		costs[j] = j
	}
	for i := range a {
		corner := costs[0]
		costs[0] = i + 1
		for j := range b {
			upper := costs[j+1]
			if a[i] == b[j] {
				costs[j+1] = corner
			} else {
				costs[j+1] = min(costs[j], upper, corner) + 1
			}
			corner = upper
		}
	}
	return costs[len(b)]
}

// Alignment is an optimal edit script between two sequences
type Alignment struct {
	Distance int
	LenA     int
	LenB     int
	MatchesA []int     // positions of a that are matched, increasing
	MatchesB []int     // the positions of b they are matched to
	Cigar    sam.Cigar // a is the reference, b the query
}

// Traceback fills the whole DP matrix and walks back through it to recover the matched
// positions. Matches are preferred over substitutions, which are preferred over gaps.
func Traceback(a, b []byte) Alignment {
	m, n := len(a), len(b)
	costs := make([][]int, m+1)
	for i := range costs {
		costs[i] = make([]int, n+1)
		costs[i][0] = i
	}
	for j := 0; j <= n; j++ {
		costs[0][j] = j
	}
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if a[i-1] == b[j-1] {
				costs[i][j] = costs[i-1][j-1]
			} else {
				costs[i][j] = min(costs[i-1][j-1], costs[i-1][j], costs[i][j-1]) + 1
			}
		}
	}

	aln := Alignment{Distance: costs[m][n], LenA: m, LenB: n}
	ops := []sam.CigarOpType{}
	i, j := m, n
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && a[i-1] == b[j-1] && costs[i][j] == costs[i-1][j-1]:
			i--
			j--
			aln.MatchesA = append(aln.MatchesA, i)
			aln.MatchesB = append(aln.MatchesB, j)
			ops = append(ops, sam.CigarEqual)
		case i > 0 && j > 0 && costs[i][j] == costs[i-1][j-1]+1:
			i--
			j--
			ops = append(ops, sam.CigarMismatch)
		case i > 0 && costs[i][j] == costs[i-1][j]+1:
			i--
			ops = append(ops, sam.CigarDeletion)
		default:
			j--
			ops = append(ops, sam.CigarInsertion)
		}
	}
	reverseInts(aln.MatchesA)
	reverseInts(aln.MatchesB)

	// run length encode the reversed ops
	for k := len(ops) - 1; k >= 0; {
		run := 1
		for k-run >= 0 && ops[k-run] == ops[k] {
			run++
		}
		aln.Cigar = append(aln.Cigar, sam.NewCigarOp(ops[k], run))
		k -= run
	}
	return aln
}

func reverseInts(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// MatchRuns returns the lengths of the runs of consecutive matched positions in a sequence of
// the given length, that is the distances between consecutive mutations. Every extra position
// in a run of mutations adds a zero.
func MatchRuns(length int, matches []int) []int {
	runs := []int{}
	run, last := 0, -1
	for _, x := range matches {
		if x == last+1 {
			run++
		} else {
			runs = append(runs, run)
			for k := 0; k < x-last-2; k++ {
				runs = append(runs, 0)
			}
			run = 1
		}
		last = x
	}
	runs = append(runs, run)
	for k := 0; k < length-last-2; k++ {
		runs = append(runs, 0)
	}
	return runs
}

// MutationRuns returns the match runs of both sequences of the alignment
func (aln Alignment) MutationRuns() ([]int, []int) {
	return MatchRuns(aln.LenA, aln.MatchesA), MatchRuns(aln.LenB, aln.MatchesB)
}

// LCS returns the length of the longest common subsequence of a and b
func LCS(a, b []byte) int {
	if len(b) > len(a) {
		a, b = b, a
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := range a {
		for j := range b {
			if a[i] == b[j] {
				curr[j+1] = prev[j] + 1
			} else {
				curr[j+1] = max(prev[j+1], curr[j])
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// LCSDistance is the indel distance, len(a) + len(b) - 2*LCS(a, b)
func LCSDistance(a, b []byte) int {
	return len(a) + len(b) - 2*LCS(a, b)
}
