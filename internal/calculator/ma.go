package calculator

import (
	"math"

	talib "github.com/markcheno/go-talib"
)

// CalculateSMA computes the simple moving average of the last period values.
func CalculateSMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, ErrInvalidPeriod
	}
	if len(values) < period {
		return 0, ErrInsufficientData
	}
	window := values[len(values)-period:]
	var avg float64
	if period == 1 {
		avg = window[0]
	} else {
		out := talib.Sma(window, period)
		avg = out[len(out)-1]
	}
	if math.IsNaN(avg) || math.IsInf(avg, 0) {
		return 0, ErrNotFinite
	}
	return avg, nil
}

// Mean averages the whole slice.
func Mean(values []float64) (float64, error) {
	return CalculateSMA(values, len(values))
}

// Tail returns the last n values, or all of them when fewer exist.
func Tail(values []float64, n int) []float64 {
	if n >= len(values) {
		return values
	}
	return values[len(values)-n:]
}
