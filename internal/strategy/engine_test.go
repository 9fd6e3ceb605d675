package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SwingScreener/internal/model"
)

func candidateIndicators() *model.IndicatorSet {
	return &model.IndicatorSet{
		Price:             50,
		Bars:              120,
		RSI:               model.Some(62),
		ATR:               model.Some(1.2),
		ATRPct:            model.Some(2.4),
		MA21:              model.Some(49),
		MA50:              model.Some(46),
		High20:            model.Some(50.5),
		High15:            model.Some(50.5),
		Low15:             model.Some(47),
		AvgVolume50:       model.Some(1_500_000),
		AvgVolume5:        model.Some(2_700_000),
		VolumeRatio:       1.8,
		Support:           model.Level{Price: 48, Source: "swing low"},
		Resistance:        model.Level{Price: 56, Source: "swing high"},
		PullbackPct:       model.Some(-1),
		ConsolidationPct:  model.Some(7),
		RelativeStrength:  model.Some(6.2),
		PriceVsMA21Pct:    model.Some(2.04),
		MA21VsMA50Pct:     model.Some(6.5),
		DistanceToHighPct: model.Some(1),
		Return5Avg:        model.Some(0.6),
		Return10Avg:       model.Some(0.3),
		VolumeCV:          model.Some(0.3),
		AvgGapPct:         model.Some(0.5),
	}
}

func TestClassifySetup(t *testing.T) {
	tests := []struct {
		pullback, rsi float64
		want          model.SetupType
	}{
		{-5, 55, model.SetupMomentumPullback},
		{-2, 65, model.SetupMomentumPullback},
		{-2.5, 62, model.SetupMomentumPullback},
		{-1, 62, model.SetupBreakoutAnticipation},
		{1, 70, model.SetupBreakoutAnticipation},
		{-3, 66, model.SetupBreakoutAnticipation},
		{-9, 45, model.SetupOversoldBounce},
		{-9, 50, model.SetupMixed},
		{-1, 55, model.SetupMixed},
		{2, 80, model.SetupMixed},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifySetup(tt.pullback, tt.rsi), "pullback=%v rsi=%v", tt.pullback, tt.rsi)
	}
}

func TestClassifySetup_Total(t *testing.T) {
	known := map[model.SetupType]bool{
		model.SetupMomentumPullback:     true,
		model.SetupBreakoutAnticipation: true,
		model.SetupOversoldBounce:       true,
		model.SetupMixed:                true,
	}
	for pb := -20.0; pb <= 5; pb += 0.5 {
		for rsi := 0.0; rsi <= 100; rsi += 2.5 {
			assert.True(t, known[ClassifySetup(pb, rsi)])
		}
	}
}

func TestScoreSetup_BreakoutBonus(t *testing.T) {
	setup := ClassifySetup(-1, 62)
	assert.Equal(t, model.SetupBreakoutAnticipation, setup)
	assert.Equal(t, 100.0, scoreSetup(setup, -1))

	assert.Equal(t, 90.0, scoreSetup(model.SetupMomentumPullback, -5))
	assert.Equal(t, 80.0, scoreSetup(model.SetupMomentumPullback, -2.5))
	assert.Equal(t, 60.0, scoreSetup(model.SetupMixed, 0))
	assert.Equal(t, 30.0, scoreSetup(model.SetupOversoldBounce, -10))
}

func TestScoreRelativeStrength(t *testing.T) {
	tests := []struct {
		rs   model.Metric
		want float64
	}{
		{model.Some(12), 100},
		{model.Some(10), 85},
		{model.Some(5.5), 85},
		{model.Some(3), 70},
		{model.Some(0.1), 55},
		// Zero is not outperformance: it falls in the (-2, 0] band, not the neutral 50.
		{model.Some(0), 40},
		{model.Some(-1.9), 40},
		{model.Some(-2), 0},
		{model.Unavailable, 50},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, scoreRelativeStrength(tt.rs), "rs=%+v", tt.rs)
	}
}

func TestScoreMomentum(t *testing.T) {
	ind := candidateIndicators()
	assert.Equal(t, 80.0, scoreMomentum(ind))

	ind.RSI = model.Some(68)
	ind.PriceVsMA21Pct = model.Some(6)
	ind.MA21VsMA50Pct = model.Some(1)
	assert.Equal(t, 50.0, scoreMomentum(ind))

	ind.RSI = model.Some(80)
	ind.PriceVsMA21Pct = model.Some(12)
	ind.MA21VsMA50Pct = model.Some(-1)
	assert.Equal(t, 10.0, scoreMomentum(ind))
}

func TestScoreProximityAndAcceleration(t *testing.T) {
	assert.Equal(t, 100.0, scoreProximity(model.Some(2)))
	assert.Equal(t, 80.0, scoreProximity(model.Some(4)))
	assert.Equal(t, 60.0, scoreProximity(model.Some(8)))
	assert.Equal(t, 40.0, scoreProximity(model.Some(11)))
	assert.Equal(t, 20.0, scoreProximity(model.Some(13)))

	assert.Equal(t, 100.0, scoreAcceleration(model.Some(0.6), model.Some(0.3)))
	assert.Equal(t, 80.0, scoreAcceleration(model.Some(0.39), model.Some(0.3)))
	assert.Equal(t, 60.0, scoreAcceleration(model.Some(0.31), model.Some(0.3)))
	assert.Equal(t, 30.0, scoreAcceleration(model.Some(0.1), model.Some(0.3)))
	assert.Equal(t, 50.0, scoreAcceleration(model.Unavailable, model.Some(0.3)))
}

func TestScoreQuality(t *testing.T) {
	assert.Equal(t, 21.0, scoreQuality(model.Some(0.3), model.Some(4.5)))
	assert.Equal(t, 0.0, scoreQuality(model.Some(5), model.Some(20)))
	assert.Equal(t, 10.0, scoreQuality(model.Unavailable, model.Some(1)))
}

func TestProfiles(t *testing.T) {
	for _, name := range ProfileNames() {
		p, err := ProfileByName(name)
		require.NoError(t, err)
		assert.NoError(t, p.Validate(), name)
		assert.InDelta(t, 1.0, p.Weights.Sum(), 1e-9)
	}

	_, err := ProfileByName("yolo")
	assert.Error(t, err)

	bad := SwingProfile()
	bad.Weights.Momentum = 0.5
	assert.Error(t, bad.Validate())
}

func TestEvaluate(t *testing.T) {
	ind := candidateIndicators()
	for _, p := range []Profile{SwingProfile(), ProfitProfile()} {
		t.Run(p.Name, func(t *testing.T) {
			e := Evaluate(ind, p)
			again := Evaluate(ind, p)

			assert.Equal(t, e, again)
			assert.Equal(t, model.SetupBreakoutAnticipation, e.Setup)
			assert.GreaterOrEqual(t, e.Scores.Total, 0.0)
			assert.LessOrEqual(t, e.Scores.Total, 200.0)
			for _, v := range []float64{e.Scores.Momentum, e.Scores.RelativeStrength, e.Scores.Volume,
				e.Scores.Setup, e.Scores.Proximity, e.Scores.Acceleration, e.Scores.Quality, e.Scores.ProfitPotential} {
				assert.GreaterOrEqual(t, v, 0.0)
				assert.LessOrEqual(t, v, 100.0)
			}
			assert.Empty(t, Accept(ind, e, p))
		})
	}
}

func TestEvaluate_SwingTotal(t *testing.T) {
	e := Evaluate(candidateIndicators(), SwingProfile())

	// momentum 80, rs 85, volume 30, setup 100, proximity 100, accel 100, quality 21
	want := (80*0.25 + 85*0.20 + 30*0.20 + 100*0.15 + 100*0.10 + 100*0.05 + 21*0.05) * 2
	assert.InDelta(t, want, e.Scores.Total, 0.05)
}

func TestAccept_Underperform(t *testing.T) {
	ind := candidateIndicators()
	ind.RelativeStrength = model.Some(-3)
	e := Evaluate(ind, SwingProfile())
	e.Scores.Total = 200

	assert.Equal(t, ReasonUnderperform, Accept(ind, e, SwingProfile()))
}

func TestAccept_RiskRewardDependsOnProfile(t *testing.T) {
	ind := candidateIndicators()
	e := Evaluation{
		Scores: model.ScoreBreakdown{Momentum: 70, Volume: 30},
		Setup:  model.SetupMixed,
		Risk: model.RiskLevels{
			StopLoss:               model.StopLoss{LossPercentage: -5},
			TakeProfit:             model.TakeProfit{GainPercentage: 7},
			RiskRewardRatioNumeric: 1.4,
		},
	}

	assert.Equal(t, ReasonLowRiskReward, Accept(ind, e, ProfitProfile()))

	e.Risk.RiskRewardRatioNumeric = 1.6
	assert.Equal(t, ReasonLowRiskReward, Accept(ind, e, ProfitProfile()))
	assert.Empty(t, Accept(ind, e, SwingProfile()))

	e.Risk.RiskRewardRatioNumeric = 1.4
	loose := SwingProfile()
	loose.MinRiskReward = 1.4
	assert.Empty(t, Accept(ind, e, loose))
	assert.Equal(t, ReasonLowRiskReward, Accept(ind, e, SwingProfile()))
}

func TestAccept_Order(t *testing.T) {
	ind := candidateIndicators()
	base := Evaluation{
		Scores: model.ScoreBreakdown{Momentum: 40, Volume: 10},
		Setup:  model.SetupOversoldBounce,
		Risk: model.RiskLevels{
			StopLoss:               model.StopLoss{LossPercentage: -11},
			RiskRewardRatioNumeric: 1.0,
		},
	}
	p := SwingProfile()
	p.MaxLossPct = 10

	assert.Equal(t, ReasonWeakSetup, Accept(ind, base, p))
	base.Setup = model.SetupMixed
	assert.Equal(t, ReasonLowVolume, Accept(ind, base, p))
	base.Scores.Volume = 20
	assert.Equal(t, ReasonExcessiveRisk, Accept(ind, base, p))
	base.Risk.StopLoss.LossPercentage = -4
	assert.Equal(t, ReasonLowRiskReward, Accept(ind, base, p))
}

func TestEntrySignals(t *testing.T) {
	ind := candidateIndicators()
	e := Evaluate(ind, SwingProfile())

	signals := EntrySignals(ind, e, "SPY")
	assert.Equal(t, []string{"Outperform SPY +6.2%", "Breakout imminent", "Volume spike +80%"}, signals)

	ind.RelativeStrength = model.Unavailable
	ind.VolumeRatio = 1
	e.Setup = model.SetupMixed
	assert.Equal(t, []string{"Near breakout", "RSI momentum 62"}, EntrySignals(ind, e, "SPY"))
}

func TestEntrySignals_ReportedPrecision(t *testing.T) {
	ind := candidateIndicators()
	ind.RelativeStrength = model.Unavailable
	ind.VolumeRatio = 1.503
	ind.RSI = model.Some(54.96)
	e := Evaluation{Setup: model.SetupMixed, Scores: model.ScoreBreakdown{Proximity: 60}}

	// volume_spike reports 1.5 and rsi 55.0, so only the RSI signal fires.
	assert.Equal(t, []string{"RSI momentum 55"}, EntrySignals(ind, e, "SPY"))
}

func TestScoreBreakout(t *testing.T) {
	tests := []struct {
		pullback, consolidation model.Metric
		want                    float64
	}{
		{model.Some(-5), model.Some(7), 50},
		{model.Some(-2), model.Some(15), 40},
		{model.Some(-1.96), model.Some(7), 40},
		{model.Some(-10), model.Some(25), 20},
		{model.Some(-15), model.Unavailable, 5},
		{model.Unavailable, model.Unavailable, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, scoreBreakout(tt.pullback, tt.consolidation), "pullback=%+v", tt.pullback)
	}
}

func TestEstimateTiming(t *testing.T) {
	ind := candidateIndicators()
	e := Evaluation{
		Scores: model.ScoreBreakdown{Acceleration: 100},
		Risk:   model.RiskLevels{TakeProfit: model.TakeProfit{GainPercentage: 15}},
	}

	timing := EstimateTiming(ind, e)
	assert.Equal(t, 6, timing.ExpectedDays)
	assert.Equal(t, 2.5, timing.GainPerDay)

	e.Scores.Acceleration = 30
	e.Risk.TakeProfit.GainPercentage = 40
	ind.RSI = model.Some(50)
	assert.Equal(t, 15, EstimateTiming(ind, e).ExpectedDays)
}
