package hopfield

import "errors"

// Validation errors returned by the package. All are detected eagerly,
// before any state mutation, and callers match them with errors.Is.
var (
	// ErrInvalidSize is returned when a network is created with a
	// non-positive size.
	ErrInvalidSize = errors.New("hopfield: network size must be positive")

	// ErrSizeMismatch is returned when a pattern's length does not match
	// the network size, or when two patterns of different lengths are
	// compared.
	ErrSizeMismatch = errors.New("hopfield: pattern length mismatch")

	// ErrNotBipolar is returned when a pattern contains a value other
	// than -1 or +1.
	ErrNotBipolar = errors.New("hopfield: pattern value outside {-1, +1}")

	// ErrNoiseLevel is returned when a noise level falls outside [0, 1].
	ErrNoiseLevel = errors.New("hopfield: noise level outside [0, 1]")

	// ErrInvalidIterations is returned when a recall iteration budget is
	// not positive.
	ErrInvalidIterations = errors.New("hopfield: max iterations must be positive")
)
