package collector

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"SwingScreener/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// Errs queues errors per symbol; each call pops one before returning data.
type MockFetcher struct {
	Price float64
	Bars  map[string][]model.OHLCV
	Info  map[string]*model.TickerInfo
	Errs  map[string][]error

	mu    sync.Mutex
	calls map[string]int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, symbol string, days int) ([]model.OHLCV, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[symbol]++

	if q := m.Errs[symbol]; len(q) > 0 {
		err := q[0]
		m.Errs[symbol] = q[1:]
		return nil, err
	}
	if bars, ok := m.Bars[symbol]; ok {
		return bars, nil
	}
	price := m.Price
	if price == 0 {
		price = 50
	}
	return GenerateTrend(tradingDays(days), price, 0.002, 1_000_000), nil
}

func (m *MockFetcher) FetchInfo(_ context.Context, symbol string) (*model.TickerInfo, error) {
	if info, ok := m.Info[symbol]; ok {
		return info, nil
	}
	return nil, fmt.Errorf("mock %s: %w", symbol, ErrInfoUnavailable)
}

// Calls reports how many times bars were requested for symbol.
func (m *MockFetcher) Calls(symbol string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[symbol]
}

func tradingDays(calendarDays int) int {
	return calendarDays * 5 / 7
}

// GenerateTrend builds count daily bars ending near endPrice that rise by
// drift per bar with a small oscillation, so swing points and a non-zero
// ATR exist.
func GenerateTrend(count int, endPrice, drift, volume float64) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	for i := 0; i < count; i++ {
		back := float64(count - 1 - i)
		p := endPrice / math.Pow(1+drift, back) * (1 + 0.01*math.Sin(float64(i)/2))
		bars[i] = model.OHLCV{
			Time:   end.AddDate(0, 0, -(count - 1 - i)),
			Open:   p * 0.998,
			High:   p * 1.01,
			Low:    p * 0.99,
			Close:  p,
			Volume: volume,
		}
	}
	return bars
}
