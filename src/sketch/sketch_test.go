package sketch

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMetric(t *testing.T) {
	for _, name := range []string{"l1", "l2", "exp", "hamming"} {
		m, err := ParseMetric(name)
		require.NoError(t, err)
		assert.Equal(t, name, m.String())
	}
	_, err := ParseMetric("cosine")
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestDistances(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{1, 0, 6}
	assert.Equal(t, 5.0, L1(a, b))
	assert.Equal(t, 13.0, L2(a, b))
	assert.Equal(t, 2.0, Hamming(a, b))
	assert.Equal(t, 0.0, MostLikely(a, a))
	assert.Equal(t, 0.0, MostLikely([]float64{0, 0}, []float64{0, 0}))

	// ||a-b||^2 = 13, (||a||^2 + ||b||^2)/2 = (14 + 37)/2
	assert.InDelta(t, math.Sqrt(13/25.5), MostLikely(a, b), 1e-12)

	// opposite vectors are at the maximum distance of 2
	assert.InDelta(t, 2.0, MostLikely([]float64{1, -1}, []float64{-1, 1}), 1e-12)
}

func TestDistanceUint(t *testing.T) {
	a := []uint64{4, 5, 6}
	b := []uint64{4, 7, 9}
	assert.Equal(t, 2.0, MetricHamming.DistanceUint(a, b))
	assert.Equal(t, 5.0, MetricL1.DistanceUint(a, b))
	assert.Equal(t, 13.0, MetricL2.DistanceUint(a, b))
}

func TestMinLength2D(t *testing.T) {
	a := [][]float64{{1, 1}, {2, 2}, {9, 9}}
	b := [][]float64{{1, 0}, {2, 2}}
	assert.Equal(t, 1.0, MetricL1.MinLength2D(a, b))
	assert.Equal(t, 1.0, MetricL2.MinLength2D(b, a))
}

func TestTransforms(t *testing.T) {
	none, err := ParseTransform("none", 0)
	require.NoError(t, err)
	assert.Nil(t, none)

	atan, err := ParseTransform("atan", 0)
	require.NoError(t, err)
	assert.InDelta(t, math.Pi/4, atan(1), 1e-12)

	disc, err := ParseTransform("disc", 4)
	require.NoError(t, err)
	assert.Equal(t, 0.0, disc(-1))
	assert.Equal(t, 1.0, disc(-0.4))
	assert.Equal(t, 2.0, disc(0))
	assert.Equal(t, 3.0, disc(1))
	assert.Equal(t, 3.0, disc(7))

	_, err = ParseTransform("disc", 0)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
	_, err = ParseTransform("log", 4)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestInvalidInputError(t *testing.T) {
	err := TooLong("WMH", 101, 100)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	var inputErr *InvalidInputError
	require.True(t, errors.As(errors.Wrap(err, "sketching"), &inputErr))
	assert.Equal(t, 101, inputErr.Length)
	assert.Equal(t, 100, inputErr.Limit)
	assert.Contains(t, err.Error(), "100")
}
