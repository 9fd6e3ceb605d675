package calculator

import (
	talib "github.com/markcheno/go-talib"
)

// CalculateATR returns the mean true range of the last period bars.
// Every true range needs the previous close, so period+1 bars are required.
func CalculateATR(highs, lows, closes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, ErrInvalidPeriod
	}
	n := len(closes)
	if len(highs) != n || len(lows) != n {
		return 0, ErrMismatchedInput
	}
	if n < period+1 {
		return 0, ErrInsufficientData
	}
	tr := talib.TRange(highs, lows, closes)
	return CalculateSMA(tr[1:], period)
}

// ATRPercent expresses atr as a percentage of price.
func ATRPercent(atr, price float64) (float64, error) {
	if price <= 0 {
		return 0, ErrInsufficientData
	}
	return atr / price * 100, nil
}
