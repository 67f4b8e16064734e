package sketch

import (
	"fmt"
	"math"
)

// Metric is a distance function selector
type Metric int

const (
	MetricL1 Metric = iota
	MetricL2
	MetricMLE
	MetricHamming
)

func (m Metric) String() string {
	switch m {
	case MetricL1:
		return "l1"
	case MetricL2:
		return "l2"
	case MetricMLE:
		return "exp"
	case MetricHamming:
		return "hamming"
	default:
		return fmt.Sprintf("unknown(%d)", m)
	}
}

// ParseMetric converts a --dist flag value to a Metric
func ParseMetric(name string) (Metric, error) {
	switch name {
	case "l1":
		return MetricL1, nil
	case "l2":
		return MetricL2, nil
	case "exp":
		return MetricMLE, nil
	case "hamming":
		return MetricHamming, nil
	}
	return 0, ConfigError("unknown distance metric %q (must be one of l1|l2|exp|hamming)", name)
}

// Distance applies the metric to two equal length vectors
func (m Metric) Distance(a, b []float64) float64 {
	switch m {
	case MetricL1:
		return L1(a, b)
	case MetricMLE:
		return MostLikely(a, b)
	case MetricHamming:
		return Hamming(a, b)
	default:
		return L2(a, b)
	}
}

// DistanceUint is Distance for integer sketches, such as the MinHash signatures
func (m Metric) DistanceUint(a, b []uint64) float64 {
	if m == MetricHamming {
		diff := 0
		for i := range a {
			if a[i] != b[i] {
				diff++
			}
		}
		return float64(diff)
	}
	fa, fb := make([]float64, len(a)), make([]float64, len(b))
	for i := range a {
		fa[i], fb[i] = float64(a[i]), float64(b[i])
	}
	return m.Distance(fa, fb)
}

// L1 is the sum of absolute differences
func L1(a, b []float64) float64 {
	res := 0.0
	for i := range a {
		res += math.Abs(a[i] - b[i])
	}
	return res
}

// L2 is the sum of squared differences (no square root, ranks are unaffected)
func L2(a, b []float64) float64 {
	res := 0.0
	for i := range a {
		el := a[i] - b[i]
		res += el * el
	}
	return res
}

// Hamming counts the positions that differ
func Hamming(a, b []float64) float64 {
	diff := 0.0
	for i := range a {
		if a[i] != b[i] {
			diff++
		}
	}
	return diff
}

// MostLikely returns the mixing parameter p maximising the likelihood of observing a and b when
// both are Gaussian perturbations of a common latent vector:
// sqrt(||a-b||^2 / ((||a||^2 + ||b||^2) / 2)).
// Two zero vectors are at distance 0.
func MostLikely(a, b []float64) float64 {
	aa, ab, bb := 0.0, 0.0, 0.0
	for i := range a {
		aa += a[i] * a[i]
		ab += (a[i] - b[i]) * (a[i] - b[i])
		bb += b[i] * b[i]
	}
	if aa+bb == 0 {
		return 0
	}
	return math.Sqrt(ab / ((aa + bb) / 2))
}

// MinLength2D applies the metric to the common prefix of two matrices, row by row over the
// shared columns. It is used for sliding window sketches of sequences with different lengths.
func (m Metric) MinLength2D(a, b [][]float64) float64 {
	rows := len(a)
	if len(b) < rows {
		rows = len(b)
	}
	fa, fb := []float64{}, []float64{}
	for i := 0; i < rows; i++ {
		cols := len(a[i])
		if len(b[i]) < cols {
			cols = len(b[i])
		}
		fa = append(fa, a[i][:cols]...)
		fb = append(fb, b[i][:cols]...)
	}
	return m.Distance(fa, fb)
}
