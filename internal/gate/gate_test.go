package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"SwingScreener/internal/model"
)

func TestPreCheck(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name  string
		stock model.UniverseStock
		want  string
	}{
		{"passes", model.UniverseStock{MarketCap: 5e9, Price: 40, Sector: "Technology"}, ""},
		{"cap too small", model.UniverseStock{MarketCap: 5e7, Price: 40}, ReasonMarketCap},
		{"cap too large", model.UniverseStock{MarketCap: 3e11, Price: 40}, ReasonMarketCap},
		{"cap at lower bound", model.UniverseStock{MarketCap: 1e8, Price: 40}, ""},
		{"price too low", model.UniverseStock{MarketCap: 5e9, Price: 4.99}, ReasonPrice},
		{"price too high", model.UniverseStock{MarketCap: 5e9, Price: 151}, ReasonPrice},
		{"utilities", model.UniverseStock{MarketCap: 5e9, Price: 40, Sector: "Utilities"}, ReasonSector},
		{"substring match", model.UniverseStock{MarketCap: 5e9, Price: 40, Sector: "Real Estate Investment Trusts"}, ReasonSector},
		{"staples", model.UniverseStock{MarketCap: 5e9, Price: 40, Sector: "CONSUMER STAPLES"}, ReasonSector},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PreCheck(tt.stock, cfg))
		})
	}
}

func healthy() *model.IndicatorSet {
	return &model.IndicatorSet{
		Price:       50,
		Bars:        120,
		ATR:         model.Some(1.5),
		ATRPct:      model.Some(3),
		MA21:        model.Some(48),
		MA50:        model.Some(45),
		AvgVolume50: model.Some(2_000_000),
	}
}

func TestTechnicalCheck(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name   string
		mutate func(*model.IndicatorSet, *model.TickerInfo)
		want   string
	}{
		{"passes", func(*model.IndicatorSet, *model.TickerInfo) {}, ""},
		{"short history", func(i *model.IndicatorSet, _ *model.TickerInfo) { i.Bars = 49 }, ReasonInsufficientData},
		{"zero price", func(i *model.IndicatorSet, _ *model.TickerInfo) { i.Price = 0 }, ReasonInvalidPrice},
		{"no atr", func(i *model.IndicatorSet, _ *model.TickerInfo) { i.ATR = model.Unavailable }, ReasonATRUnavailable},
		{"volatile", func(i *model.IndicatorSet, _ *model.TickerInfo) { i.ATRPct = model.Some(8.1) }, ReasonVolatility},
		{"atr at ceiling", func(i *model.IndicatorSet, _ *model.TickerInfo) { i.ATRPct = model.Some(8.0) }, ""},
		{"high beta", func(_ *model.IndicatorSet, m *model.TickerInfo) { m.Beta = model.Some(3.2) }, ReasonBeta},
		{"below ma50", func(i *model.IndicatorSet, _ *model.TickerInfo) { i.Price = 44 }, ReasonNoUptrend},
		{"ma21 under ma50", func(i *model.IndicatorSet, _ *model.TickerInfo) { i.MA21 = model.Some(44) }, ReasonNoUptrend},
		{"thin volume", func(i *model.IndicatorSet, _ *model.TickerInfo) { i.AvgVolume50 = model.Some(499_999) }, ReasonLowLiquidity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ind := healthy()
			info := &model.TickerInfo{Beta: model.Some(1.1)}
			tt.mutate(ind, info)
			assert.Equal(t, tt.want, TechnicalCheck(ind, info, cfg))
		})
	}
}

func TestTechnicalCheck_MissingBetaPasses(t *testing.T) {
	assert.Empty(t, TechnicalCheck(healthy(), &model.TickerInfo{}, DefaultConfig()))
	assert.Empty(t, TechnicalCheck(healthy(), nil, DefaultConfig()))
}

func TestMetadataCheck_UnknownCap(t *testing.T) {
	cfg := DefaultConfig()
	assert.Empty(t, MetadataCheck(model.Unavailable, 40, "Technology", cfg))
	assert.Equal(t, ReasonMarketCap, MetadataCheck(model.Some(1e6), 40, "", cfg))
	assert.Equal(t, ReasonPrice, MetadataCheck(model.Unavailable, 2, "", cfg))
	assert.Equal(t, ReasonSector, MetadataCheck(model.Unavailable, 40, "Utilities", cfg))
}
