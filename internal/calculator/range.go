package calculator

import (
	talib "github.com/markcheno/go-talib"
)

// HighestHigh returns the maximum of the last period values.
func HighestHigh(highs []float64, period int) (float64, error) {
	window, err := lastWindow(highs, period)
	if err != nil {
		return 0, err
	}
	if period == 1 {
		return window[0], nil
	}
	out := talib.Max(window, period)
	return out[len(out)-1], nil
}

// LowestLow returns the minimum of the last period values.
func LowestLow(lows []float64, period int) (float64, error) {
	window, err := lastWindow(lows, period)
	if err != nil {
		return 0, err
	}
	if period == 1 {
		return window[0], nil
	}
	out := talib.Min(window, period)
	return out[len(out)-1], nil
}

func lastWindow(values []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(values) < period {
		return nil, ErrInsufficientData
	}
	return values[len(values)-period:], nil
}

// PullbackPercent is the decline of price from a recent high; never positive
// when price is at or below the high.
func PullbackPercent(price, high float64) (float64, error) {
	if high <= 0 {
		return 0, ErrInsufficientData
	}
	return (price - high) / high * 100, nil
}

// RangePercent is the width of a high/low range relative to price.
func RangePercent(high, low, price float64) (float64, error) {
	if price <= 0 {
		return 0, ErrInsufficientData
	}
	return (high - low) / price * 100, nil
}

// DistanceToHighPercent is how far price must rise to reach high.
func DistanceToHighPercent(price, high float64) (float64, error) {
	if price <= 0 {
		return 0, ErrInsufficientData
	}
	return (high - price) / price * 100, nil
}

// PercentDiff returns (a-b)/b in percent.
func PercentDiff(a, b float64) (float64, error) {
	if b == 0 {
		return 0, ErrInsufficientData
	}
	return (a - b) / b * 100, nil
}
