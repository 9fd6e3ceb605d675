package calculator

import (
	talib "github.com/markcheno/go-talib"
)

// PercentChanges returns bar-over-bar changes in percent; the result has one
// fewer element than closes.
func PercentChanges(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	return talib.Roc(closes, 1)[1:]
}

// AverageChange is the mean of the last n bar-over-bar changes.
func AverageChange(closes []float64, n int) (float64, error) {
	changes := PercentChanges(closes)
	if len(changes) == 0 {
		return 0, ErrInsufficientData
	}
	return Mean(Tail(changes, n))
}

// TrailingReturn is the percentage return over the last bars bars.
func TrailingReturn(closes []float64, bars int) (float64, error) {
	n := len(closes)
	if bars <= 0 {
		return 0, ErrInvalidPeriod
	}
	if n < bars+1 {
		return 0, ErrInsufficientData
	}
	base := closes[n-bars-1]
	if base <= 0 {
		return 0, ErrNotFinite
	}
	return (closes[n-1]/base - 1) * 100, nil
}

// RelativeStrength is the symbol's 5-bar return minus the benchmark's.
func RelativeStrength(closes []float64, benchmarkReturn float64) (float64, error) {
	r, err := TrailingReturn(closes, 5)
	if err != nil {
		return 0, err
	}
	return r - benchmarkReturn, nil
}
