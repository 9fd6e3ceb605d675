package collector

import (
	"context"

	"SwingScreener/internal/model"
)

// Fetcher loads daily history and metadata for one symbol.
type Fetcher interface {
	// FetchDailyBars returns daily bars covering roughly the last days calendar days,
	// oldest first.
	FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error)
	FetchInfo(ctx context.Context, symbol string) (*model.TickerInfo, error)
	Name() string
}
