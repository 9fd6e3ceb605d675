package report

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"SwingScreener/internal/model"
)

var header = []string{
	"rank", "symbol", "company_name", "sector", "current_price", "market_cap_millions",
	"total_score", "momentum_score", "relative_strength_score", "volume_score", "setup_score",
	"proximity_score", "acceleration_score", "quality_score", "profit_potential_score", "breakout_score",
	"stop_loss", "stop_loss_pct", "stop_method", "take_profit", "take_profit_pct", "target_method",
	"risk_reward_ratio", "risk_reward_ratio_numeric", "relative_strength_5d", "setup_type",
	"entry_signals", "rsi", "pullback_pct", "volume_spike", "atr_pct", "expected_days", "gain_per_day",
}

// WriteCSV writes ranked results, one row per symbol.
func WriteCSV(w io.Writer, results []model.AnalysisResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for i := range results {
		if err := cw.Write(row(i+1, &results[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func row(rank int, r *model.AnalysisResult) []string {
	rs := ""
	if r.Technical.RelativeStrength.Valid {
		rs = num(r.Technical.RelativeStrength.Value)
	}
	days, perDay := "", ""
	if r.Timing != nil {
		days = strconv.Itoa(r.Timing.ExpectedDays)
		perDay = num(r.Timing.GainPerDay)
	}
	return []string{
		strconv.Itoa(rank),
		r.Symbol,
		r.CompanyName,
		r.Sector,
		num(r.CurrentPrice),
		strconv.FormatFloat(r.MarketCap/1e6, 'f', 0, 64),
		num(r.Scores.Total),
		num(r.Scores.Momentum),
		num(r.Scores.RelativeStrength),
		num(r.Scores.Volume),
		num(r.Scores.Setup),
		num(r.Scores.Proximity),
		num(r.Scores.Acceleration),
		num(r.Scores.Quality),
		num(r.Scores.ProfitPotential),
		num(r.Scores.Breakout),
		num(r.Risk.StopLoss.Price),
		num(r.Risk.StopLoss.LossPercentage),
		r.Risk.StopLoss.Method,
		num(r.Risk.TakeProfit.Price),
		num(r.Risk.TakeProfit.GainPercentage),
		r.Risk.TakeProfit.Method,
		r.Risk.RiskRewardRatio,
		num(r.Risk.RiskRewardRatioNumeric),
		rs,
		string(r.SetupType),
		strings.Join(r.EntrySignals, "; "),
		num(r.Technical.RSI),
		num(r.Technical.PullbackPct),
		num(r.Technical.VolumeSpike),
		num(r.Technical.ATRPct),
		days,
		perDay,
	}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
