package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRank(t *testing.T) {
	assert.Equal(t, []float64{2, 1, 3}, Rank([]float64{5, 1, 9}))
	assert.Equal(t, []float64{1.5, 1.5, 3, 5, 5, 5}, Rank([]float64{2, 2, 3, 7, 7, 7}))
	assert.Equal(t, []float64{4, 2, 2, 2}, Rank([]float64{9, 1, 1, 1}))
	assert.Empty(t, Rank(nil))
}

func TestSpearman(t *testing.T) {
	v := []float64{0.3, 1, 7, 2, 5}
	neg := make([]float64, len(v))
	for i := range v {
		neg[i] = -v[i]
	}
	rho, err := Spearman(v, v)
	require.NoError(t, err)
	assert.InDelta(t, 1, rho, 1e-12)

	rho, err = Spearman(v, neg)
	require.NoError(t, err)
	assert.InDelta(t, -1, rho, 1e-12)

	// monotonic transforms do not change the ranks
	sq := make([]float64, len(v))
	for i := range v {
		sq[i] = v[i] * v[i] * v[i]
	}
	rho, _ = Spearman(v, sq)
	assert.InDelta(t, 1, rho, 1e-12)

	// {1,2,3,4} against {1,3,2,4}: 1 - 6*2/(4*15)
	rho, _ = Spearman([]float64{1, 2, 3, 4}, []float64{1, 3, 2, 4})
	assert.InDelta(t, 0.8, rho, 1e-12)
}

func TestSpearmanDegenerate(t *testing.T) {
	rho, err := Spearman([]float64{3, 3, 3}, []float64{3, 3, 3})
	require.NoError(t, err)
	assert.Equal(t, 1.0, rho)

	rho, err = Spearman([]float64{3, 3, 3}, []float64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 0.0, rho)

	rho, _ = Spearman([]float64{1, 2, 3}, []float64{0, 0, 0})
	assert.Equal(t, 0.0, rho)

	_, err = Spearman([]float64{1, 2}, []float64{1})
	assert.Error(t, err)
}

func TestSummaries(t *testing.T) {
	mean, sd := MeanStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.InDelta(t, 5, mean, 1e-12)
	assert.InDelta(t, math.Sqrt(32.0/7), sd, 1e-12)

	mean, sd = MeanStdDev([]float64{0.5})
	assert.Equal(t, 0.5, mean)
	assert.Equal(t, 0.0, sd)

	assert.Equal(t, 3.0, Median([]float64{5, 1, 3}))
	assert.Equal(t, 2.5, Median([]float64{4, 1, 3, 2}))
	assert.True(t, math.IsNaN(Median(nil)))
	assert.Equal(t, 2.5, Mean([]float64{4, 1, 3, 2}))

	// the input is left untouched
	v := []float64{3, 1, 2}
	Median(v)
	assert.Equal(t, []float64{3, 1, 2}, v)
}
