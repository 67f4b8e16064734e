package sketch

import "math"

// Transformer rescales a single sketch value
type Transformer func(float64) float64

// ParseTransform converts a --transform flag value to a Transformer, a nil Transformer means none
func ParseTransform(name string, numBins int) (Transformer, error) {
	switch name {
	case "none", "":
		return nil, nil
	case "atan":
		return math.Atan, nil
	case "disc":
		if numBins < 1 {
			return nil, ConfigError("number of bins must be positive for --transform=disc, got %d", numBins)
		}
		return Discretize(numBins), nil
	}
	return nil, ConfigError("unknown transform %q (must be one of none|atan|disc)", name)
}

// Discretize returns a Transformer that bins values in [-1, 1] into numBins equal width bins,
// values outside the range go to the first or last bin
func Discretize(numBins int) Transformer {
	return func(v float64) float64 {
		bin := math.Floor((v + 1) / 2 * float64(numBins))
		if bin < 0 {
			return 0
		}
		if bin > float64(numBins-1) {
			return float64(numBins - 1)
		}
		return bin
	}
}
