package strategy

import (
	"fmt"
	"math"

	"SwingScreener/internal/calculator"
	"SwingScreener/internal/model"
	"SwingScreener/internal/risk"
)

// Evaluation is the scored outcome for one symbol before the final gate.
type Evaluation struct {
	Scores model.ScoreBreakdown
	Setup  model.SetupType
	Risk   model.RiskLevels
}

// Evaluate scores an IndicatorSet under a profile. It is deterministic.
func Evaluate(ind *model.IndicatorSet, p Profile) Evaluation {
	pullback := calculator.Round1(ind.PullbackPct.Or(0))
	rsi := calculator.Round1(ind.RSI.Or(neutralRSI))
	setup := ClassifySetup(pullback, rsi)

	s := model.ScoreBreakdown{
		Momentum:         scoreMomentum(ind),
		RelativeStrength: scoreRelativeStrength(ind.RelativeStrength),
		Volume:           scoreVolume(ind.VolumeRatio),
		Setup:            scoreSetup(setup, pullback),
		Proximity:        scoreProximity(ind.DistanceToHighPct),
		Acceleration:     scoreAcceleration(ind.Return5Avg, ind.Return10Avg),
		Quality:          scoreQuality(ind.VolumeCV, ind.AvgGapPct),
		Breakout:         scoreBreakout(ind.PullbackPct, ind.ConsolidationPct),
	}

	levels := risk.Calculate(ind.Price, ind, p.Risk)
	s.ProfitPotential = scoreProfitPotential(levels, s, ind)
	s.Total = calculator.Round1(p.Weights.apply(s))

	return Evaluation{Scores: s, Setup: setup, Risk: levels}
}

// Final gate reasons.
const (
	ReasonUnderperform  = "Underperform SPY significativo"
	ReasonWeakSetup     = "setup not suited for short swing"
	ReasonLowVolume     = "insufficient volume"
	ReasonExcessiveRisk = "excessive risk"
	ReasonLowRiskReward = "insufficient risk/reward"
)

const (
	underperformCutoff = -2.0
	weakSetupMomentum  = 50.0
	minimumVolumeScore = 15.0
)

// Accept applies the final gate in order and returns the first failing
// reason, or "" when the candidate is accepted.
func Accept(ind *model.IndicatorSet, e Evaluation, p Profile) string {
	if ind.RelativeStrength.Valid && ind.RelativeStrength.Value < underperformCutoff {
		return ReasonUnderperform
	}
	if e.Setup == model.SetupOversoldBounce && e.Scores.Momentum < weakSetupMomentum {
		return ReasonWeakSetup
	}
	if e.Scores.Volume < minimumVolumeScore {
		return ReasonLowVolume
	}
	if e.Risk.StopLoss.LossPercentage < -p.MaxLossPct {
		return ReasonExcessiveRisk
	}
	if e.Risk.RiskRewardRatioNumeric < p.MinRiskReward {
		return ReasonLowRiskReward
	}
	return ""
}

const maxSignals = 3

// EntrySignals lists up to three short reasons the candidate stands out.
func EntrySignals(ind *model.IndicatorSet, e Evaluation, benchmark string) []string {
	var signals []string

	if rs := ind.RelativeStrength; rs.Valid {
		switch {
		case rs.Value > 5:
			signals = append(signals, fmt.Sprintf("Outperform %s +%.1f%%", benchmark, rs.Value))
		case rs.Value > 0:
			signals = append(signals, fmt.Sprintf("Beat %s +%.1f%%", benchmark, rs.Value))
		}
	}

	switch e.Setup {
	case model.SetupBreakoutAnticipation:
		signals = append(signals, "Breakout imminent")
	case model.SetupMomentumPullback:
		signals = append(signals, "Healthy pullback")
	}

	// Thresholds read the values as reported on the result record.
	if spike := calculator.Round2(ind.VolumeRatio); spike > 1.5 {
		signals = append(signals, fmt.Sprintf("Volume spike +%.0f%%", (spike-1)*100))
	}
	if e.Scores.Proximity > 80 {
		signals = append(signals, "Near breakout")
	}
	if rsi := calculator.Round1(ind.RSI.Or(neutralRSI)); rsi >= 55 && rsi <= 68 {
		signals = append(signals, fmt.Sprintf("RSI momentum %.0f", rsi))
	}

	if len(signals) > maxSignals {
		signals = signals[:maxSignals]
	}
	return signals
}

// Holding period bounds in trading days.
const (
	baseDays = 10.0
	minDays  = 3
	maxDays  = 15
)

// EstimateTiming guesses days to target from acceleration, RSI and target size.
func EstimateTiming(ind *model.IndicatorSet, e Evaluation) *model.Timing {
	days := baseDays
	switch {
	case e.Scores.Acceleration >= 80:
		days *= 0.7
	case e.Scores.Acceleration >= 60:
		days *= 0.85
	}
	if ind.RSI.Or(neutralRSI) > 60 {
		days *= 0.9
	}
	gain := e.Risk.TakeProfit.GainPercentage
	days *= clamp(gain/15, 0.8, 1.5)

	n := int(math.Round(days))
	if n < minDays {
		n = minDays
	}
	if n > maxDays {
		n = maxDays
	}
	return &model.Timing{ExpectedDays: n, GainPerDay: calculator.Round2(gain / float64(n))}
}
