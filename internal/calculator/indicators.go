package calculator

import (
	"SwingScreener/internal/model"
)

// Lookback periods used by Compute.
const (
	RSIPeriod         = 14
	ATRPeriod         = 20
	ShortMAPeriod     = 21
	LongMAPeriod      = 50
	HighPeriod        = 20
	RangePeriod       = 15
	VolumeLongPeriod  = 50
	VolumeShortPeriod = 5
	QualityVolPeriod  = 20
	GapBars           = 10
	AccelShortBars    = 5
	AccelLongBars     = 10
)

// Compute derives the IndicatorSet for a series. It never fails: any value
// that cannot be computed is left Unavailable and downstream scoring falls
// back to its neutral default.
func Compute(series *model.PriceSeries, bench model.Benchmark) *model.IndicatorSet {
	closes := series.Closes()
	highs := series.Highs()
	lows := series.Lows()
	opens := series.Opens()
	volumes := series.Volumes()

	price := series.Last().Close
	ind := &model.IndicatorSet{Price: price, Bars: series.Len()}
	if price <= 0 {
		return ind
	}

	ind.RSI = metric(CalculateRSI(closes, RSIPeriod))

	if atr, err := CalculateATR(highs, lows, closes, ATRPeriod); err == nil && atr > 0 {
		ind.ATR = model.Some(atr)
		ind.ATRPct = metric(ATRPercent(atr, price))
	}

	ind.MA21 = metric(CalculateSMA(closes, ShortMAPeriod))
	ind.MA50 = metric(CalculateSMA(closes, LongMAPeriod))
	ind.High20 = metric(HighestHigh(highs, HighPeriod))
	ind.High15 = metric(HighestHigh(highs, RangePeriod))
	ind.Low15 = metric(LowestLow(lows, RangePeriod))
	ind.AvgVolume50 = metric(Mean(Tail(volumes, VolumeLongPeriod)))
	ind.AvgVolume5 = metric(CalculateSMA(volumes, VolumeShortPeriod))
	ind.VolumeRatio = VolumeRatio(volumes, VolumeShortPeriod, VolumeLongPeriod)

	ind.SwingHighs, ind.SwingLows = FindSwingPoints(highs, lows)
	ind.Support = DetectSupport(price, ind.SwingLows, ind.MA21, ind.MA50)
	ind.Resistance = DetectResistance(price, ind.SwingHighs, ind.High20)

	if ind.High20.Valid {
		ind.PullbackPct = metric(PullbackPercent(price, ind.High20.Value))
		ind.DistanceToHighPct = metric(DistanceToHighPercent(price, ind.High20.Value))
	}
	if ind.High15.Valid && ind.Low15.Valid {
		ind.ConsolidationPct = metric(RangePercent(ind.High15.Value, ind.Low15.Value, price))
	}
	if bench.Return5D.Valid {
		if rs, err := RelativeStrength(closes, bench.Return5D.Value); err == nil {
			ind.RelativeStrength = model.Some(Round1(rs))
		}
	}
	if ind.MA21.Valid {
		ind.PriceVsMA21Pct = metric(PercentDiff(price, ind.MA21.Value))
	}
	if ind.MA21.Valid && ind.MA50.Valid {
		ind.MA21VsMA50Pct = metric(PercentDiff(ind.MA21.Value, ind.MA50.Value))
	}

	ind.Return5Avg = metric(AverageChange(closes, AccelShortBars))
	ind.Return10Avg = metric(AverageChange(closes, AccelLongBars))
	ind.VolumeCV = metric(CoefficientOfVariation(volumes, QualityVolPeriod))
	ind.AvgGapPct = metric(AverageGapPercent(opens, closes, GapBars))

	return ind
}

func metric(v float64, err error) model.Metric {
	if err != nil {
		return model.Unavailable
	}
	return model.Some(v)
}
