package model

import (
	"time"
	"unicode/utf8"
)

// OHLCV represents a single daily bar.
type OHLCV struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceSeries holds a symbol's daily bars in chronological order.
// Analysis code treats it as read-only.
type PriceSeries struct {
	Symbol    string
	Bars      []OHLCV
	FetchedAt time.Time
}

// Len returns the number of bars.
func (s *PriceSeries) Len() int { return len(s.Bars) }

// Last returns the most recent bar, or the zero bar for an empty series.
func (s *PriceSeries) Last() OHLCV {
	if len(s.Bars) == 0 {
		return OHLCV{}
	}
	return s.Bars[len(s.Bars)-1]
}

func (s *PriceSeries) Opens() []float64   { return s.column(func(b OHLCV) float64 { return b.Open }) }
func (s *PriceSeries) Highs() []float64   { return s.column(func(b OHLCV) float64 { return b.High }) }
func (s *PriceSeries) Lows() []float64    { return s.column(func(b OHLCV) float64 { return b.Low }) }
func (s *PriceSeries) Closes() []float64  { return s.column(func(b OHLCV) float64 { return b.Close }) }
func (s *PriceSeries) Volumes() []float64 { return s.column(func(b OHLCV) float64 { return b.Volume }) }

func (s *PriceSeries) column(f func(OHLCV) float64) []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = f(b)
	}
	return out
}

// TickerInfo is optional per-symbol metadata returned by the history source.
type TickerInfo struct {
	MarketCap Metric `json:"market_cap"`
	Beta      Metric `json:"beta"`
	Sector    string `json:"sector"`
	LongName  string `json:"long_name"`
	ShortName string `json:"short_name"`
}

const maxNameLen = 40

// DisplayName picks the long name, then the short name, then fallback,
// truncated to 40 characters.
func (i *TickerInfo) DisplayName(fallback string) string {
	name := fallback
	if i != nil {
		switch {
		case i.LongName != "":
			name = i.LongName
		case i.ShortName != "":
			name = i.ShortName
		}
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		name = string([]rune(name)[:maxNameLen])
	}
	return name
}

// UniverseStock is one record from the universe source.
type UniverseStock struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Exchange  string  `json:"exchange,omitempty"`
	MarketCap float64 `json:"market_cap"`
	Price     float64 `json:"price"`
	Sector    string  `json:"sector"`
}
