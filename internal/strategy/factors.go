package strategy

import (
	"math"

	"SwingScreener/internal/calculator"
	"SwingScreener/internal/model"
)

// Neutral scores used when the underlying indicator is unavailable.
const (
	neutralRSI          = 50.0
	neutralRelative     = 50.0
	neutralProximity    = 50.0
	neutralAcceleration = 50.0
	neutralQuality      = 10.0
)

// scoreMomentum blends RSI zone, price position against MA21 and the
// MA21/MA50 trend. Range 5..80.
func scoreMomentum(ind *model.IndicatorSet) float64 {
	rsi := ind.RSI.Or(neutralRSI)
	var rsiPts float64
	switch {
	case rsi >= 45 && rsi <= 65:
		rsiPts = 30
	case rsi >= 40 && rsi <= 70:
		rsiPts = 20
	default:
		rsiPts = 5
	}

	maPts := 5.0
	if ind.PriceVsMA21Pct.Valid {
		d := ind.PriceVsMA21Pct.Value
		switch {
		case d >= -5 && d <= 3:
			maPts = 25
		case d >= 0 && d <= 8:
			maPts = 15
		}
	}

	var trendPts float64
	if ind.MA21VsMA50Pct.Valid {
		switch d := ind.MA21VsMA50Pct.Value; {
		case d > 2:
			trendPts = 25
		case d > 0:
			trendPts = 15
		}
	}

	return rsiPts + maPts + trendPts
}

// scoreRelativeStrength is a step function of the return spread over the benchmark.
func scoreRelativeStrength(rs model.Metric) float64 {
	if !rs.Valid {
		return neutralRelative
	}
	switch v := rs.Value; {
	case v > 10:
		return 100
	case v > 5:
		return 85
	case v > 2:
		return 70
	case v > 0:
		return 55
	case v > -2:
		return 40
	default:
		return 0
	}
}

// scoreVolume rewards a recent surge over the 50-bar mean. Range 10..30.
func scoreVolume(ratio float64) float64 {
	switch {
	case ratio > 1.5:
		return 30
	case ratio > 1.2:
		return 20
	default:
		return 10
	}
}

// ClassifySetup labels a (pullback, rsi) pair. First match wins.
func ClassifySetup(pullback, rsi float64) model.SetupType {
	switch {
	case pullback >= -8 && pullback <= -2 && rsi >= 50 && rsi <= 65:
		return model.SetupMomentumPullback
	case pullback >= -3 && pullback <= 1 && rsi > 60:
		return model.SetupBreakoutAnticipation
	case pullback < -8 && rsi < 50:
		return model.SetupOversoldBounce
	default:
		return model.SetupMixed
	}
}

var setupBase = map[model.SetupType]float64{
	model.SetupBreakoutAnticipation: 90,
	model.SetupMomentumPullback:     80,
	model.SetupMixed:                60,
	model.SetupOversoldBounce:       30,
}

// scoreSetup adds a depth bonus when the pullback is textbook for its setup.
func scoreSetup(setup model.SetupType, pullback float64) float64 {
	score, ok := setupBase[setup]
	if !ok {
		score = 50
	}
	switch setup {
	case model.SetupBreakoutAnticipation:
		if pullback >= -3 && pullback <= 1 {
			score += 10
		}
	case model.SetupMomentumPullback:
		if pullback >= -8 && pullback <= -3 {
			score += 10
		}
	}
	return math.Min(score, 100)
}

// scoreProximity is inversely related to the distance to the 20-bar high.
func scoreProximity(distance model.Metric) float64 {
	if !distance.Valid {
		return neutralProximity
	}
	switch d := distance.Value; {
	case d <= 2:
		return 100
	case d <= 5:
		return 80
	case d <= 8:
		return 60
	case d <= 12:
		return 40
	default:
		return 20
	}
}

// scoreAcceleration compares the 5-bar mean change to the 10-bar one.
func scoreAcceleration(recent, longer model.Metric) float64 {
	if !recent.Valid || !longer.Valid {
		return neutralAcceleration
	}
	r, l := recent.Value, longer.Value
	switch {
	case r > l*1.5:
		return 100
	case r > l*1.2:
		return 80
	case r > l:
		return 60
	default:
		return 30
	}
}

// scoreQuality rewards steady volume and small overnight gaps. Range 0..30.
func scoreQuality(cv, gap model.Metric) float64 {
	if !cv.Valid {
		return neutralQuality
	}
	volPts := math.Min((1-cv.Value)*15, 15)
	gapPts := math.Max(15-gap.Or(0), 0)
	return calculator.Round1(clamp(volPts+gapPts, 0, 100))
}

// scoreBreakout is the pullback-plus-consolidation score kept alongside
// the weighted factors. Range 5..50.
func scoreBreakout(pullback, consolidation model.Metric) float64 {
	var pts float64
	if pullback.Valid {
		switch p := pullback.Value; {
		case p >= -8 && p <= -2:
			pts = 30
		case p >= -12 && p <= 0:
			pts = 20
		default:
			pts = 5
		}
	}
	if consolidation.Valid {
		switch c := consolidation.Value; {
		case c < 12:
			pts += 20
		case c < 20:
			pts += 10
		}
	}
	return pts
}

// scoreProfitPotential blends target size, risk/reward and a speed estimate.
func scoreProfitPotential(levels model.RiskLevels, scores model.ScoreBreakdown, ind *model.IndicatorSet) float64 {
	var target float64
	switch g := levels.TakeProfit.GainPercentage; {
	case g >= 25:
		target = 100
	case g >= 20:
		target = 85
	case g >= 15:
		target = 70
	case g >= 10:
		target = 50
	default:
		target = 30
	}

	var rr float64
	switch r := levels.RiskRewardRatioNumeric; {
	case r >= 4:
		rr = 100
	case r >= 3:
		rr = 85
	case r >= 2.5:
		rr = 70
	case r >= 2:
		rr = 55
	case r >= 1.5:
		rr = 40
	default:
		rr = 20
	}

	return calculator.Round1(target*0.40 + rr*0.35 + speedScore(scores, ind)*0.25)
}

func speedScore(scores model.ScoreBreakdown, ind *model.IndicatorSet) float64 {
	var spike float64
	switch v := ind.VolumeRatio; {
	case v > 2:
		spike = 100
	case v > 1.5:
		spike = 80
	case v > 1.2:
		spike = 60
	default:
		spike = 40
	}
	speed := scores.Acceleration*0.4 + scores.Proximity*0.3 + spike*0.3
	if ind.RSI.Or(neutralRSI) > 60 {
		speed += 10
	}
	return math.Min(speed, 100)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
