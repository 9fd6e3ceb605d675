package calculator

import (
	"math"

	talib "github.com/markcheno/go-talib"
)

// VolumeRatio compares the recent mean volume to the longer mean.
// Defaults to 1.0 when the longer mean is zero or cannot be computed.
func VolumeRatio(volumes []float64, recent, longer int) float64 {
	short, err := CalculateSMA(volumes, recent)
	if err != nil {
		return 1.0
	}
	long, err := Mean(Tail(volumes, longer))
	if err != nil || long <= 0 {
		return 1.0
	}
	return short / long
}

// SampleStdDev is the n-1 standard deviation of the last period values.
func SampleStdDev(values []float64, period int) (float64, error) {
	window, err := lastWindow(values, period)
	if err != nil {
		return 0, err
	}
	if period < 2 {
		return 0, ErrInsufficientData
	}
	out := talib.StdDev(window, period, 1.0)
	pop := out[len(out)-1]
	sd := pop * math.Sqrt(float64(period)/float64(period-1))
	if math.IsNaN(sd) {
		return 0, ErrNotFinite
	}
	return sd, nil
}

// CoefficientOfVariation is stddev/mean over the last period values.
func CoefficientOfVariation(values []float64, period int) (float64, error) {
	sd, err := SampleStdDev(values, period)
	if err != nil {
		return 0, err
	}
	mean, err := CalculateSMA(values, period)
	if err != nil {
		return 0, err
	}
	if mean == 0 {
		return 0, ErrNotFinite
	}
	return sd / mean, nil
}

// AverageGapPercent is the mean overnight gap |open - prev close| / prev close
// across the last bars bars.
func AverageGapPercent(opens, closes []float64, bars int) (float64, error) {
	n := len(closes)
	if len(opens) != n {
		return 0, ErrMismatchedInput
	}
	if n < 2 {
		return 0, ErrInsufficientData
	}
	var gaps []float64
	for i := 1; i <= bars && i < n; i++ {
		prev := closes[n-i-1]
		if prev == 0 {
			continue
		}
		gaps = append(gaps, math.Abs((opens[n-i]-prev)/prev)*100)
	}
	if len(gaps) == 0 {
		return 0, nil
	}
	return Mean(gaps)
}
