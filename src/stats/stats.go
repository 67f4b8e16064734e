// Package stats contains the statistics used to score sketch distances against edit distances
package stats

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Rank returns the fractional ranks of v, starting at 1. Tied values get the average of the
// ranks they span.
func Rank(v []float64) []float64 {
	order := make([]int, len(v))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return v[order[i]] < v[order[j]] })
	ranks := make([]float64, len(v))
	for start := 0; start < len(order); {
		end := start + 1
		for end < len(order) && v[order[end]] == v[order[start]] {
			end++
		}

		// positions start..end-1 hold ranks start+1..end
		avg := float64(start+1+end) / 2
		for k := start; k < end; k++ {
			ranks[order[k]] = avg
		}
		start = end
	}
	return ranks
}

// constant reports if every value of v is the same
func constant(v []float64) bool {
	for _, x := range v {
		if x != v[0] {
			return false
		}
	}
	return true
}

// Spearman returns the Spearman rank correlation of a and b. When both vectors are constant the
// correlation is 1, when only one of them is it is 0.
func Spearman(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("can't correlate vectors of length %d and %d", len(a), len(b))
	}
	constA, constB := constant(a), constant(b)
	switch {
	case constA && constB:
		return 1, nil
	case constA || constB:
		return 0, nil
	}
	return stat.Correlation(Rank(a), Rank(b), nil), nil
}

// MeanStdDev returns the mean and the sample standard deviation of v, the deviation is 0 for
// fewer than two values
func MeanStdDev(v []float64) (float64, float64) {
	switch len(v) {
	case 0:
		return math.NaN(), 0
	case 1:
		return v[0], 0
	}
	return stat.MeanStdDev(v, nil)
}

// Median returns the median of v, the mean of the two middle values for an even length
func Median(v []float64) float64 {
	if len(v) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), v...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// Mean returns the mean of v
func Mean(v []float64) float64 {
	if len(v) == 0 {
		return math.NaN()
	}
	return stat.Mean(v, nil)
}
