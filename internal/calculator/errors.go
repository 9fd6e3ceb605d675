package calculator

import "errors"

var (
	// ErrInsufficientData is returned when a series is shorter than the lookback needs.
	ErrInsufficientData = errors.New("not enough data")
	// ErrInvalidPeriod is returned for non-positive lookback periods.
	ErrInvalidPeriod = errors.New("period must be positive")
	// ErrMismatchedInput is returned when parallel series differ in length.
	ErrMismatchedInput = errors.New("input series lengths differ")
	// ErrNotFinite is returned when a result is NaN or infinite.
	ErrNotFinite = errors.New("result is not finite")
)
