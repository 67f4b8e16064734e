package editdist

import (
	"math/rand/v2"
	"testing"

	"github.com/biogo/hts/sam"
)

func randomSeq(rng *rand.Rand, maxLen, alphabetSize int) []byte {
	seq := make([]byte, rng.IntN(maxLen+1))
	for i := range seq {
		seq[i] = byte(rng.IntN(alphabetSize))
	}
	return seq
}

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"ACGT", "", 4},
		{"", "ACG", 3},
		{"ACGT", "ACGT", 0},
		{"kitten", "sitting", 3},
		{"ACGT", "AGT", 1},
		{"ACGT", "TGCA", 4},
	}
	for _, tt := range tests {
		if got := Distance([]byte(tt.a), []byte(tt.b)); got != tt.want {
			t.Fatalf("Distance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
		if got := Traceback([]byte(tt.a), []byte(tt.b)).Distance; got != tt.want {
			t.Fatalf("Traceback(%q, %q).Distance = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestTriangleInequality(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	for n := 0; n < 200; n++ {
		a, b, c := randomSeq(rng, 50, 4), randomSeq(rng, 50, 4), randomSeq(rng, 50, 4)
		ab, bc, ac := Distance(a, b), Distance(b, c), Distance(a, c)
		if ac > ab+bc {
			t.Fatalf("triangle inequality broken: d(a,c)=%d > d(a,b)+d(b,c)=%d+%d", ac, ab, bc)
		}
		if ab != Distance(b, a) {
			t.Fatal("edit distance is not symmetric")
		}
		if Distance(a, a) != 0 || Distance(a, nil) != len(a) {
			t.Fatal("identity or empty sequence distance is wrong")
		}
		if ab < LCSDistance(a, b)/2 || ab > LCSDistance(a, b) {
			t.Fatalf("edit distance %d is not bounded by the indel distance %d", ab, LCSDistance(a, b))
		}
	}
}

func TestTraceback(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 8))
	for n := 0; n < 100; n++ {
		a, b := randomSeq(rng, 30, 4), randomSeq(rng, 30, 4)
		aln := Traceback(a, b)
		if aln.Distance != Distance(a, b) {
			t.Fatalf("traceback distance %d, expected %d", aln.Distance, Distance(a, b))
		}
		if len(aln.MatchesA) != len(aln.MatchesB) {
			t.Fatal("unbalanced matches")
		}
		for k := range aln.MatchesA {
			if a[aln.MatchesA[k]] != b[aln.MatchesB[k]] {
				t.Fatalf("position %d of a is matched to a different symbol", aln.MatchesA[k])
			}
		}

		// the CIGAR covers both sequences and its edits add up to the distance
		refLen, queryLen, edits := 0, 0, 0
		for _, op := range aln.Cigar {
			switch op.Type() {
			case sam.CigarEqual:
				refLen += op.Len()
				queryLen += op.Len()
			case sam.CigarMismatch:
				refLen += op.Len()
				queryLen += op.Len()
				edits += op.Len()
			case sam.CigarDeletion:
				refLen += op.Len()
				edits += op.Len()
			case sam.CigarInsertion:
				queryLen += op.Len()
				edits += op.Len()
			}
		}
		if refLen != len(a) || queryLen != len(b) || edits != aln.Distance {
			t.Fatalf("CIGAR %v does not describe the alignment of %d vs %d symbols at distance %d", aln.Cigar, len(a), len(b), aln.Distance)
		}
	}
}

func TestTracebackCigar(t *testing.T) {
	aln := Traceback([]byte("ACGTT"), []byte("ACTT"))
	if aln.Cigar.String() != "2=1D2=" {
		t.Fatalf("unexpected CIGAR: %v", aln.Cigar)
	}
}

func TestMatchRuns(t *testing.T) {
	tests := []struct {
		length  int
		matches []int
		want    []int
	}{
		{5, []int{0, 1, 2, 3, 4}, []int{5}},
		{5, []int{0, 1, 3, 4}, []int{2, 2}},
		{6, []int{0, 4, 5}, []int{1, 0, 0, 2}},
		{4, []int{1, 2}, []int{0, 2}},
		{5, []int{0, 1}, []int{2, 0, 0}},
	}
	for _, tt := range tests {
		got := MatchRuns(tt.length, tt.matches)
		if len(got) != len(tt.want) {
			t.Fatalf("MatchRuns(%d, %v) = %v, want %v", tt.length, tt.matches, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Fatalf("MatchRuns(%d, %v) = %v, want %v", tt.length, tt.matches, got, tt.want)
			}
		}
	}
	runsA, runsB := Traceback([]byte("ACGTACGT"), []byte("ACGTACGT")).MutationRuns()
	if len(runsA) != 1 || runsA[0] != 8 || len(runsB) != 1 {
		t.Fatalf("identical sequences should give a single run: %v %v", runsA, runsB)
	}

	// a substitution splits both sequences into runs of 3 and 4
	aln := Traceback([]byte("ACGTACGT"), []byte("ACGAACGT"))
	runsA, runsB = aln.MutationRuns()
	for _, runs := range [][]int{runsA, runsB} {
		if len(runs) != 2 || runs[0] != 3 || runs[1] != 4 {
			t.Fatalf("expected runs of 3 and 4, got %v", runs)
		}
	}
	if aln.Cigar.String() != "3=1X4=" {
		t.Fatalf("unexpected cigar %v", aln.Cigar)
	}
}

func TestLCS(t *testing.T) {
	if got := LCS([]byte("ABCBDAB"), []byte("BDCABA")); got != 4 {
		t.Fatalf("expected an LCS of 4, got %d", got)
	}
	if got := LCSDistance([]byte("ACGT"), []byte("AGT")); got != 1 {
		t.Fatalf("expected an LCS distance of 1, got %d", got)
	}
	if got := LCS(nil, []byte("ACGT")); got != 0 {
		t.Fatalf("expected an LCS of 0, got %d", got)
	}
}

// benchmark the single row edit distance
func BenchmarkDistance(b *testing.B) {
	rng := rand.New(rand.NewPCG(1, 1))
	x, y := make([]byte, 1000), make([]byte, 1000)
	for i := range x {
		x[i], y[i] = byte(rng.IntN(4)), byte(rng.IntN(4))
	}
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		Distance(x, y)
	}
}
