package sketch

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidConfig is returned when a run is configured with unusable values
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidInput is returned when a sequence breaks the preconditions of an algorithm
	ErrInvalidInput = errors.New("invalid input")

	// ErrSketchMismatch is returned when two sketches can't be compared
	ErrSketchMismatch = errors.New("mismatched sketches")
)

// InvalidInputError records a sequence that could not be sketched
type InvalidInputError struct {
	Algorithm string
	Length    int
	Limit     int
	Reason    string
}

// Error satisfies the error interface
func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("%v: %s: sequence length %d, limit %d", e.Algorithm, e.Reason, e.Length, e.Limit)
}

// Is lets errors.Is match an InvalidInputError against ErrInvalidInput
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// TooLong returns the error used when a sequence exceeds the configured maximum length
func TooLong(algorithm string, length, limit int) error {
	return &InvalidInputError{
		Algorithm: algorithm,
		Length:    length,
		Limit:     limit,
		Reason:    fmt.Sprintf("sequence too long, maximum sequence length is %d (set --maxLength to a higher value)", limit),
	}
}

// TooShort returns the error used when a sequence is below the minimum length for an algorithm
func TooShort(algorithm string, length, limit int) error {
	return &InvalidInputError{
		Algorithm: algorithm,
		Length:    length,
		Limit:     limit,
		Reason:    "sequence shorter than the tuple length",
	}
}

// ConfigError wraps ErrInvalidConfig with a formatted message
func ConfigError(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidConfig, format, args...)
}

// MismatchError wraps ErrSketchMismatch with the offending types
func MismatchError(a, b Sketch) error {
	return errors.Wrapf(ErrSketchMismatch, "%T vs. %T", a, b)
}

// InputError wraps ErrInvalidInput with a formatted message
func InputError(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidInput, format, args...)
}
