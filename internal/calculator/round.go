package calculator

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round rounds half away from zero to the given decimal places.
func Round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 { return Round(v, 1) }

// Round2 rounds to cents.
func Round2(v float64) float64 { return Round(v, 2) }
