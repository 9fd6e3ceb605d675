// Package gate holds the cheap pass/fail checks that run before scoring.
package gate

import (
	"math"
	"strings"

	"SwingScreener/internal/model"
)

// Reject reasons. An empty reason means the check passed.
const (
	ReasonMarketCap        = "market cap out of range"
	ReasonPrice            = "price out of range"
	ReasonSector           = "excluded sector"
	ReasonInsufficientData = "insufficient data"
	ReasonInvalidPrice     = "invalid price"
	ReasonATRUnavailable   = "atr unavailable"
	ReasonVolatility       = "volatility too high"
	ReasonBeta             = "beta too high"
	ReasonNoUptrend        = "no uptrend"
	ReasonLowLiquidity     = "low liquidity"
)

// Config holds gate thresholds.
type Config struct {
	MinMarketCap    float64  `yaml:"min_market_cap"`
	MaxMarketCap    float64  `yaml:"max_market_cap"`
	MinPrice        float64  `yaml:"min_price"`
	MaxPrice        float64  `yaml:"max_price"`
	ExcludedSectors []string `yaml:"excluded_sectors"`
	MinBars         int      `yaml:"min_bars"`
	MaxATRPct       float64  `yaml:"max_atr_pct"`
	MaxBeta         float64  `yaml:"max_beta"`
	DefaultBeta     float64  `yaml:"default_beta"`
	MinAvgVolume    float64  `yaml:"min_avg_volume"`
}

// DefaultConfig returns the standard swing-trading thresholds.
func DefaultConfig() Config {
	return Config{
		MinMarketCap:    100_000_000,
		MaxMarketCap:    200_000_000_000,
		MinPrice:        5,
		MaxPrice:        150,
		ExcludedSectors: []string{"utilities", "real estate", "consumer staples"},
		MinBars:         50,
		MaxATRPct:       8.0,
		MaxBeta:         3.0,
		DefaultBeta:     1.5,
		MinAvgVolume:    500_000,
	}
}

// PreCheck is the pre-fetch stage, using only universe metadata.
func PreCheck(stock model.UniverseStock, cfg Config) string {
	return MetadataCheck(model.Some(stock.MarketCap), stock.Price, stock.Sector, cfg)
}

// MetadataCheck applies the pre-fetch thresholds to metadata gathered after
// the fetch, for symbols that came without any. An unknown market cap is
// not held against the symbol.
func MetadataCheck(marketCap model.Metric, price float64, sector string, cfg Config) string {
	if marketCap.Valid && (marketCap.Value < cfg.MinMarketCap || marketCap.Value > cfg.MaxMarketCap) {
		return ReasonMarketCap
	}
	if price < cfg.MinPrice || price > cfg.MaxPrice {
		return ReasonPrice
	}
	if ExcludedSector(sector, cfg.ExcludedSectors) {
		return ReasonSector
	}
	return ""
}

// ExcludedSector reports whether sector contains any excluded name, ignoring case.
func ExcludedSector(sector string, excluded []string) bool {
	s := strings.ToLower(sector)
	for _, e := range excluded {
		if e != "" && strings.Contains(s, strings.ToLower(e)) {
			return true
		}
	}
	return false
}

// TechnicalCheck is the post-fetch stage over the computed indicators.
// A missing beta is treated as cfg.DefaultBeta.
func TechnicalCheck(ind *model.IndicatorSet, info *model.TickerInfo, cfg Config) string {
	if ind == nil || ind.Bars < cfg.MinBars {
		return ReasonInsufficientData
	}
	if math.IsNaN(ind.Price) || ind.Price <= 0 {
		return ReasonInvalidPrice
	}
	if !ind.ATR.Valid || !ind.ATRPct.Valid {
		return ReasonATRUnavailable
	}
	if ind.ATRPct.Value > cfg.MaxATRPct {
		return ReasonVolatility
	}
	beta := cfg.DefaultBeta
	if info != nil {
		beta = info.Beta.Or(cfg.DefaultBeta)
	}
	if beta > cfg.MaxBeta {
		return ReasonBeta
	}
	if !ind.MA21.Valid || !ind.MA50.Valid {
		return ReasonInsufficientData
	}
	if ind.Price < ind.MA50.Value || ind.MA21.Value < ind.MA50.Value {
		return ReasonNoUptrend
	}
	if !ind.AvgVolume50.Valid || ind.AvgVolume50.Value < cfg.MinAvgVolume {
		return ReasonLowLiquidity
	}
	return ""
}
