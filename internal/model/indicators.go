package model

import (
	"encoding/json"
	"math"
)

// Metric is a numeric value that may be unavailable. The zero value is unavailable.
type Metric struct {
	Value float64
	Valid bool
}

// Unavailable marks an indicator that could not be computed.
var Unavailable = Metric{}

// Some wraps v; NaN and infinities become Unavailable.
func Some(v float64) Metric {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Unavailable
	}
	return Metric{Value: v, Valid: true}
}

// Or returns the value, or def when unavailable.
func (m Metric) Or(def float64) float64 {
	if !m.Valid {
		return def
	}
	return m.Value
}

func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

func (m *Metric) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = Unavailable
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = Some(v)
	return nil
}

// Level is a support or resistance price and where it came from.
type Level struct {
	Price  float64 `json:"price"`
	Source string  `json:"source"`
}

// IndicatorSet holds every technical value derived from one PriceSeries.
type IndicatorSet struct {
	Price float64 `json:"price"`
	Bars  int     `json:"bars"`

	RSI    Metric `json:"rsi"`
	ATR    Metric `json:"atr"`
	ATRPct Metric `json:"atr_pct"`
	MA21   Metric `json:"ma21"`
	MA50   Metric `json:"ma50"`

	High20 Metric `json:"high20"`
	High15 Metric `json:"high15"`
	Low15  Metric `json:"low15"`

	AvgVolume50 Metric  `json:"avg_volume50"`
	AvgVolume5  Metric  `json:"avg_volume5"`
	VolumeRatio float64 `json:"volume_ratio"`

	SwingHighs []float64 `json:"swing_highs"`
	SwingLows  []float64 `json:"swing_lows"`
	Support    Level     `json:"support"`
	Resistance Level     `json:"resistance"`

	PullbackPct      Metric `json:"pullback_pct"`
	ConsolidationPct Metric `json:"consolidation_pct"`
	RelativeStrength Metric `json:"relative_strength"`

	PriceVsMA21Pct    Metric `json:"price_vs_ma21_pct"`
	MA21VsMA50Pct     Metric `json:"ma21_vs_ma50_pct"`
	DistanceToHighPct Metric `json:"distance_to_high_pct"`
	Return5Avg        Metric `json:"return5_avg"`
	Return10Avg       Metric `json:"return10_avg"`
	VolumeCV          Metric `json:"volume_cv"`
	AvgGapPct         Metric `json:"avg_gap_pct"`
}

// Benchmark is the run-wide benchmark return, computed once and shared read-only.
type Benchmark struct {
	Symbol   string `json:"symbol"`
	Return5D Metric `json:"return_5d"`
}
