package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"SwingScreener/internal/model"
)

// barsClient is the part of marketdata.Client the fetcher uses.
type barsClient interface {
	GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error)
}

// AlpacaFetcher implements Fetcher using Alpaca's market data API.
// Alpaca carries no fundamentals, so FetchInfo always reports ErrInfoUnavailable.
type AlpacaFetcher struct {
	client barsClient
	now    func() time.Time
}

// NewAlpacaFetcher creates a fetcher authenticated with the given key pair.
func NewAlpacaFetcher(apiKey, apiSecret string) *AlpacaFetcher {
	return &AlpacaFetcher{
		client: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    apiKey,
			APISecret: apiSecret,
		}),
		now: time.Now,
	}
}

func (f *AlpacaFetcher) Name() string { return "alpaca" }

func (f *AlpacaFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// The free feed rejects requests touching the last 15 minutes.
	end := f.now().Add(-15 * time.Minute)
	bars, err := f.client.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame:  marketdata.OneDay,
		Adjustment: marketdata.All,
		Start:      end.AddDate(0, 0, -days),
		End:        end,
	})
	if err != nil {
		return nil, fmt.Errorf("alpaca bars %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("alpaca %s: %w", symbol, ErrNoData)
	}

	out := make([]model.OHLCV, len(bars))
	for i, b := range bars {
		out[i] = model.OHLCV{
			Time:   b.Timestamp.UTC(),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: float64(b.Volume),
		}
	}
	return out, nil
}

func (f *AlpacaFetcher) FetchInfo(_ context.Context, symbol string) (*model.TickerInfo, error) {
	return nil, fmt.Errorf("alpaca %s: %w", symbol, ErrInfoUnavailable)
}
