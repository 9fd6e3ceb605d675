// Package risk derives stop-loss and take-profit levels for a candidate.
package risk

import (
	"fmt"
	"math"

	"SwingScreener/internal/calculator"
	"SwingScreener/internal/model"
)

// TargetPick selects among several valid take-profit candidates.
type TargetPick string

const (
	// Conservative takes the nearest valid target.
	Conservative TargetPick = "conservative"
	// Ambitious takes the farthest valid target.
	Ambitious TargetPick = "ambitious"
)

// Stop and target method labels.
const (
	MethodSupport    = "technical support"
	MethodATRStop    = "ATR-based"
	MethodMASupport  = "MA support"
	MethodResistance = "technical resistance"
	MethodATRTarget  = "ATR projection"
)

// NoLossSentinel is the ratio reported when the stop sits at the entry price.
const NoLossSentinel = 999.0

// Policy parameterises level selection. Stops always use the tightest valid
// candidate; Target decides between the nearest and the farthest target.
type Policy struct {
	MaxLossFraction   float64
	ATRStopMultiple   float64
	MASupportFloor    float64
	ATRTargetMultiple float64
	MinTargetFraction float64
	MaxTargetFraction float64
	FallbackGain      float64
	FallbackLabel     string
	Target            TargetPick
}

// SwingPolicy keeps targets close: 3×ATR, [1.08, 1.35] band, nearest wins.
func SwingPolicy() Policy {
	return Policy{
		MaxLossFraction:   0.10,
		ATRStopMultiple:   2.0,
		MASupportFloor:    0.88,
		ATRTargetMultiple: 3.0,
		MinTargetFraction: 1.08,
		MaxTargetFraction: 1.35,
		FallbackGain:      0.15,
		FallbackLabel:     "conservative target +15%",
		Target:            Conservative,
	}
}

// ProfitPolicy reaches further: 3.5×ATR, [1.10, 1.40] band, farthest wins.
func ProfitPolicy() Policy {
	return Policy{
		MaxLossFraction:   0.10,
		ATRStopMultiple:   2.0,
		MASupportFloor:    0.88,
		ATRTargetMultiple: 3.5,
		MinTargetFraction: 1.10,
		MaxTargetFraction: 1.40,
		FallbackGain:      0.18,
		FallbackLabel:     "optimistic target +18%",
		Target:            Ambitious,
	}
}

type candidate struct {
	price  float64
	method string
}

// Calculate builds the RiskLevels for an entry at price.
func Calculate(price float64, ind *model.IndicatorSet, p Policy) model.RiskLevels {
	stop, stopMethod := pickStop(price, ind, p)
	target, targetMethod := pickTarget(price, ind, p)

	stopPrice := calculator.Round2(stop)
	if floor := price * (1 - p.MaxLossFraction); stopPrice < floor {
		stopPrice = math.Ceil(floor*100) / 100
	}
	lossPct := calculator.Round1((stopPrice - price) / price * 100)
	targetPrice := calculator.Round2(target)
	gainPct := calculator.Round1((targetPrice - price) / price * 100)

	rr := NoLossSentinel
	if risk := math.Abs(lossPct); risk > 0 {
		rr = gainPct / risk
	}

	return model.RiskLevels{
		StopLoss:               model.StopLoss{Price: stopPrice, LossPercentage: lossPct, Method: stopMethod},
		TakeProfit:             model.TakeProfit{Price: targetPrice, GainPercentage: gainPct, Method: targetMethod},
		RiskRewardRatio:        fmt.Sprintf("1:%.1f", rr),
		RiskRewardRatioNumeric: calculator.Round1(rr),
	}
}

func pickStop(price float64, ind *model.IndicatorSet, p Policy) (float64, string) {
	floor := price * (1 - p.MaxLossFraction)

	var candidates []candidate
	if ind.Support.Price > 0 {
		candidates = append(candidates, candidate{ind.Support.Price, MethodSupport})
	}
	if ind.ATR.Valid {
		candidates = append(candidates, candidate{price - ind.ATR.Value*p.ATRStopMultiple, MethodATRStop})
	}
	if ma, ok := maSupport(price, ind, p.MASupportFloor); ok {
		candidates = append(candidates, candidate{ma, MethodMASupport})
	}

	best := candidate{}
	for _, c := range candidates {
		if c.price >= floor && c.price > best.price {
			best = c
		}
	}
	if best.method == "" {
		return floor, fmt.Sprintf("max loss limit -%.0f%%", p.MaxLossFraction*100)
	}
	return best.price, best.method
}

// maSupport uses MA21 when it sits just under price, else MA50.
func maSupport(price float64, ind *model.IndicatorSet, floor float64) (float64, bool) {
	for _, ma := range []model.Metric{ind.MA21, ind.MA50} {
		if ma.Valid && ma.Value < price && ma.Value > price*floor {
			return ma.Value, true
		}
	}
	return 0, false
}

func pickTarget(price float64, ind *model.IndicatorSet, p Policy) (float64, string) {
	lo, hi := price*p.MinTargetFraction, price*p.MaxTargetFraction

	var candidates []candidate
	if ind.Resistance.Price > 0 {
		candidates = append(candidates, candidate{ind.Resistance.Price, MethodResistance})
	}
	if ind.ATR.Valid {
		candidates = append(candidates, candidate{price + ind.ATR.Value*p.ATRTargetMultiple, MethodATRTarget})
	}

	var best *candidate
	for i := range candidates {
		c := &candidates[i]
		if c.price < lo || c.price > hi {
			continue
		}
		switch {
		case best == nil:
			best = c
		case p.Target == Ambitious && c.price > best.price:
			best = c
		case p.Target != Ambitious && c.price < best.price:
			best = c
		}
	}
	if best == nil {
		return price * (1 + p.FallbackGain), p.FallbackLabel
	}
	return best.price, best.method
}
