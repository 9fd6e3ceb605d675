// Package screener runs the per-symbol pipeline and the batch loop around it.
package screener

import (
	"time"

	"SwingScreener/internal/calculator"
	"SwingScreener/internal/gate"
	"SwingScreener/internal/model"
	"SwingScreener/internal/strategy"
)

// Analyze runs one fetched symbol through indicators, the technical gate,
// scoring, risk levels and the final acceptance gate. It does no I/O.
// info may be nil when the provider had no metadata.
//
// Symbols rejected after scoring keep their scores, so diagnostics can
// show how close they came.
func Analyze(series *model.PriceSeries, stock model.UniverseStock, info *model.TickerInfo, bench model.Benchmark, cfg Config) *model.AnalysisResult {
	if series == nil || series.Len() < cfg.Gate.MinBars {
		return model.Rejected(stock.Symbol, gate.ReasonInsufficientData)
	}

	ind := calculator.Compute(series, bench)

	if !hasMetadata(stock) {
		marketCap, sector := model.Unavailable, ""
		if info != nil {
			marketCap, sector = info.MarketCap, info.Sector
		}
		if reason := gate.MetadataCheck(marketCap, ind.Price, sector, cfg.Gate); reason != "" {
			return model.Rejected(stock.Symbol, reason)
		}
	}
	if reason := gate.TechnicalCheck(ind, info, cfg.Gate); reason != "" {
		return model.Rejected(stock.Symbol, reason)
	}

	e := strategy.Evaluate(ind, cfg.Profile)
	res := &model.AnalysisResult{
		Symbol:       stock.Symbol,
		CompanyName:  companyName(stock, info),
		Sector:       sectorOf(stock, info),
		MarketCap:    stock.MarketCap,
		CurrentPrice: calculator.Round2(ind.Price),
		Scores:       e.Scores,
		Risk:         e.Risk,
		SetupType:    e.Setup,
		EntrySignals: strategy.EntrySignals(ind, e, bench.Symbol),
		Technical: model.Technical{
			RSI:              calculator.Round1(ind.RSI.Or(50)),
			PullbackPct:      calculator.Round1(ind.PullbackPct.Or(0)),
			VolumeSpike:      calculator.Round2(ind.VolumeRatio),
			ATRPct:           calculator.Round1(ind.ATRPct.Or(0)),
			RelativeStrength: ind.RelativeStrength,
			ProximityScore:   calculator.Round1(e.Scores.Proximity),
		},
		AnalyzedAt: time.Now(),
	}
	if info != nil && info.MarketCap.Valid {
		res.MarketCap = info.MarketCap.Value
	}
	if cfg.Profile.EstimateTiming {
		res.Timing = strategy.EstimateTiming(ind, e)
	}

	res.RejectReason = strategy.Accept(ind, e, cfg.Profile)
	res.PassesAllFilters = res.RejectReason == ""
	return res
}

// hasMetadata reports whether the universe supplied anything for the
// pre-fetch gate to judge.
func hasMetadata(s model.UniverseStock) bool {
	return s.MarketCap > 0 || s.Price > 0
}

func companyName(stock model.UniverseStock, info *model.TickerInfo) string {
	fallback := stock.Name
	if fallback == "" {
		fallback = stock.Symbol
	}
	return info.DisplayName(fallback)
}

func sectorOf(stock model.UniverseStock, info *model.TickerInfo) string {
	if info != nil && info.Sector != "" {
		return info.Sector
	}
	if stock.Sector != "" {
		return stock.Sector
	}
	return "N/A"
}
