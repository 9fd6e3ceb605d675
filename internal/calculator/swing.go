package calculator

import "SwingScreener/internal/model"

// SwingWindow is how many trailing bars are scanned for swing points.
const SwingWindow = 40

// FindSwingPoints scans the trailing window, excluding the last two bars,
// for bars whose high (low) is strictly above (below) both neighbours.
func FindSwingPoints(highs, lows []float64) (swingHighs, swingLows []float64) {
	n := len(highs)
	if len(lows) != n {
		return nil, nil
	}
	start := n - SwingWindow
	if start < 2 {
		start = 2
	}
	for i := start; i < n-2; i++ {
		if highs[i] > highs[i-1] && highs[i] > highs[i+1] {
			swingHighs = append(swingHighs, highs[i])
		}
		if lows[i] < lows[i-1] && lows[i] < lows[i+1] {
			swingLows = append(swingLows, lows[i])
		}
	}
	return swingHighs, swingLows
}

// Support band relative to price.
const (
	SupportMAFloor    = 0.88
	SupportValidFloor = 0.90
	SupportDefault    = 0.92
)

// Resistance band relative to price.
const (
	ResistanceMinAbove = 1.02
	ResistanceLow      = 1.05
	ResistanceHigh     = 1.35
	ResistanceDefault  = 1.15
)

// DetectSupport picks the nearest support below price from the highest swing
// low and the moving averages. When candidates exist but all sit under the
// 0.90 floor, the floor itself is returned; with no candidates, 0.92×price.
func DetectSupport(price float64, swingLows []float64, ma21, ma50 model.Metric) model.Level {
	var candidates []model.Level

	best := 0.0
	for _, l := range swingLows {
		if l < price && l > best {
			best = l
		}
	}
	if best > 0 {
		candidates = append(candidates, model.Level{Price: best, Source: "swing low"})
	}
	for _, ma := range []struct {
		m    model.Metric
		name string
	}{{ma21, "ma21"}, {ma50, "ma50"}} {
		if ma.m.Valid && ma.m.Value < price && ma.m.Value > price*SupportMAFloor {
			candidates = append(candidates, model.Level{Price: ma.m.Value, Source: ma.name})
		}
	}

	if len(candidates) == 0 {
		return model.Level{Price: price * SupportDefault, Source: "default"}
	}
	chosen := model.Level{}
	for _, c := range candidates {
		if c.Price >= price*SupportValidFloor && c.Price > chosen.Price {
			chosen = c
		}
	}
	if chosen.Price == 0 {
		return model.Level{Price: price * SupportValidFloor, Source: "floor"}
	}
	return chosen
}

// DetectResistance picks the nearest resistance above price from the lowest
// swing high above 1.02×price and the 20-bar high. Only levels inside
// [1.05, 1.35]×price count; otherwise 1.15×price.
func DetectResistance(price float64, swingHighs []float64, high20 model.Metric) model.Level {
	var candidates []model.Level

	lowest := 0.0
	for _, h := range swingHighs {
		if h > price*ResistanceMinAbove && (lowest == 0 || h < lowest) {
			lowest = h
		}
	}
	if lowest > 0 {
		candidates = append(candidates, model.Level{Price: lowest, Source: "swing high"})
	}
	if high20.Valid && high20.Value > price*ResistanceMinAbove {
		candidates = append(candidates, model.Level{Price: high20.Value, Source: "20-bar high"})
	}

	chosen := model.Level{}
	for _, c := range candidates {
		if c.Price < price*ResistanceLow || c.Price > price*ResistanceHigh {
			continue
		}
		if chosen.Price == 0 || c.Price < chosen.Price {
			chosen = c
		}
	}
	if chosen.Price == 0 {
		return model.Level{Price: price * ResistanceDefault, Source: "default"}
	}
	return chosen
}
