package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartJSON = `{"chart":{"result":[{"timestamp":[1700179200,1700006400,1700092800],
"indicators":{"quote":[{"open":[12,10,null],"high":[13,11,null],"low":[11,9,null],"close":[12.5,10.5,null],"volume":[3000,1000,null]}]}}],"error":null}}`

const summaryJSON = `{"quoteSummary":{"result":[{"price":{"longName":"Acme Corporation","shortName":"Acme","marketCap":{"raw":2500000000,"fmt":"2.5B"}},
"summaryProfile":{"sector":"Technology"},"summaryDetail":{"beta":{}},"defaultKeyStatistics":{"beta":{"raw":1.3,"fmt":"1.30"}}}],"error":null}}`

const testCrumb = "crumb-1"

// serveYahooSession adds the cookie and crumb endpoints: the crumb is only
// handed out to clients holding the session cookie.
func serveYahooSession(mux *http.ServeMux, crumb func() string) {
	mux.HandleFunc("/consent", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "A3", Value: "session", Path: "/"})
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/v1/test/getcrumb", func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie("A3"); err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, crumb())
	})
}

func newYahooFetcher(t *testing.T, mux *http.ServeMux) *YahooFetcher {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	f := NewYahooFetcher("", 0)
	f.BaseURL = srv.URL
	f.CookieURL = srv.URL + "/consent"
	return f
}

func newYahooServer(t *testing.T, handler http.HandlerFunc) *YahooFetcher {
	t.Helper()
	mux := http.NewServeMux()
	serveYahooSession(mux, func() string { return testCrumb })
	mux.Handle("/", handler)
	return newYahooFetcher(t, mux)
}

func TestYahooFetcher_FetchDailyBars(t *testing.T) {
	var gotPath, gotQuery, gotUA string
	f := newYahooServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery, gotUA = r.URL.Path, r.URL.RawQuery, r.UserAgent()
		fmt.Fprint(w, chartJSON)
	})

	bars, err := f.FetchDailyBars(context.Background(), "ACME", 180)
	require.NoError(t, err)

	assert.Equal(t, "/v8/finance/chart/ACME", gotPath)
	assert.Contains(t, gotQuery, "range=6mo")
	assert.Contains(t, gotQuery, "interval=1d")
	assert.Equal(t, "Mozilla/5.0", gotUA)

	require.Len(t, bars, 2, "null bar is skipped")
	assert.True(t, bars[0].Time.Before(bars[1].Time))
	assert.Equal(t, 10.5, bars[0].Close)
	assert.Equal(t, 12.5, bars[1].Close)
	assert.Equal(t, 3000.0, bars[1].Volume)
}

func TestYahooFetcher_RateLimited(t *testing.T) {
	f := newYahooServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
	})

	_, err := f.FetchDailyBars(context.Background(), "ACME", 30)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.True(t, IsRateLimited(err))
}

func TestYahooFetcher_APIError(t *testing.T) {
	f := newYahooServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`)
	})

	_, err := f.FetchDailyBars(context.Background(), "GONE", 30)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delisted")
	assert.False(t, IsRateLimited(err))
}

func TestYahooFetcher_FetchInfo(t *testing.T) {
	f := newYahooServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Path, "/v10/finance/quoteSummary/"))
		assert.Equal(t, testCrumb, r.URL.Query().Get("crumb"))
		_, err := r.Cookie("A3")
		assert.NoError(t, err, "session cookie is sent")
		fmt.Fprint(w, summaryJSON)
	})

	info, err := f.FetchInfo(context.Background(), "ACME")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corporation", info.LongName)
	assert.Equal(t, "Technology", info.Sector)
	assert.Equal(t, 2.5e9, info.MarketCap.Value)
	assert.True(t, info.Beta.Valid)
	assert.Equal(t, 1.3, info.Beta.Value)
}

// crumbServer rejects quoteSummary calls unless they carry the latest crumb.
type crumbServer struct {
	mu        sync.Mutex
	issued    int
	summaries int
	rejectAll bool
}

func (c *crumbServer) crumb() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issued++
	return fmt.Sprintf("crumb-%d", c.issued)
}

func (c *crumbServer) summary(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.summaries++
	if c.rejectAll || r.URL.Query().Get("crumb") != fmt.Sprintf("crumb-%d", c.issued) {
		http.Error(w, `{"finance":{"error":{"code":"Unauthorized","description":"Invalid Crumb"}}}`, http.StatusUnauthorized)
		return
	}
	fmt.Fprint(w, summaryJSON)
}

func (c *crumbServer) counts() (issued, summaries int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.issued, c.summaries
}

func newCrumbFetcher(t *testing.T) (*YahooFetcher, *crumbServer) {
	t.Helper()
	cs := &crumbServer{}
	mux := http.NewServeMux()
	serveYahooSession(mux, cs.crumb)
	mux.HandleFunc("/v10/finance/quoteSummary/", cs.summary)
	return newYahooFetcher(t, mux), cs
}

func TestYahooFetcher_FetchInfoCrumb(t *testing.T) {
	t.Run("handshake once then reuse", func(t *testing.T) {
		f, cs := newCrumbFetcher(t)

		for i := 0; i < 2; i++ {
			info, err := f.FetchInfo(context.Background(), "ACME")
			require.NoError(t, err)
			assert.Equal(t, "Technology", info.Sector)
		}
		issued, summaries := cs.counts()
		assert.Equal(t, 1, issued)
		assert.Equal(t, 2, summaries)
	})

	t.Run("stale crumb is refreshed once", func(t *testing.T) {
		f, cs := newCrumbFetcher(t)
		_, err := f.FetchInfo(context.Background(), "ACME")
		require.NoError(t, err)

		f.crumb = "expired"
		info, err := f.FetchInfo(context.Background(), "ACME")
		require.NoError(t, err)
		assert.True(t, info.Beta.Valid)
		issued, summaries := cs.counts()
		assert.Equal(t, 2, issued)
		assert.Equal(t, 3, summaries)
	})

	t.Run("persistent 401 is an error", func(t *testing.T) {
		f, cs := newCrumbFetcher(t)
		cs.mu.Lock()
		cs.rejectAll = true
		cs.mu.Unlock()

		_, err := f.FetchInfo(context.Background(), "ACME")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid Crumb")
		assert.False(t, IsRateLimited(err))
		issued, summaries := cs.counts()
		assert.Equal(t, 2, issued)
		assert.Equal(t, 2, summaries)
	})
}

func TestChartRange(t *testing.T) {
	assert.Equal(t, "1mo", chartRange(30))
	assert.Equal(t, "3mo", chartRange(60))
	assert.Equal(t, "6mo", chartRange(180))
	assert.Equal(t, "1y", chartRange(200))
	assert.Equal(t, "2y", chartRange(500))
}

func TestIsRateLimited(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{ErrRateLimited, true},
		{fmt.Errorf("wrapped: %w", ErrRateLimited), true},
		{errors.New("HTTP 429"), true},
		{errors.New("Too Many Requests"), true},
		{errors.New("Rate limit exceeded"), true},
		{errors.New("connection reset"), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsRateLimited(tt.err), "%v", tt.err)
	}
}

type recordedSleep struct {
	waits []time.Duration
}

func (r *recordedSleep) sleep(_ context.Context, d time.Duration) error {
	r.waits = append(r.waits, d)
	return nil
}

func TestRetry(t *testing.T) {
	t.Run("retries retryable errors with exponential backoff", func(t *testing.T) {
		rec := &recordedSleep{}
		calls := 0
		err := Retry(context.Background(), 3, IsRateLimited, rec.sleep, func() error {
			calls++
			if calls < 3 {
				return ErrRateLimited
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
		assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, rec.waits)
	})

	t.Run("gives up after the last attempt", func(t *testing.T) {
		rec := &recordedSleep{}
		calls := 0
		err := Retry(context.Background(), 2, IsRateLimited, rec.sleep, func() error {
			calls++
			return ErrRateLimited
		})
		assert.ErrorIs(t, err, ErrRateLimited)
		assert.Equal(t, 2, calls)
		assert.Len(t, rec.waits, 1)
	})

	t.Run("fails fast on other errors", func(t *testing.T) {
		rec := &recordedSleep{}
		boom := errors.New("boom")
		calls := 0
		err := Retry(context.Background(), 3, IsRateLimited, rec.sleep, func() error {
			calls++
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, calls)
		assert.Empty(t, rec.waits)
	})

	t.Run("stops when the context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := Retry(ctx, 3, nil, Sleep, func() error { return ErrRateLimited })
		assert.ErrorIs(t, err, context.Canceled)
	})
}

type fakeBars struct {
	req  marketdata.GetBarsRequest
	bars []marketdata.Bar
	err  error
}

func (f *fakeBars) GetBars(_ string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error) {
	f.req = req
	return f.bars, f.err
}

func TestAlpacaFetcher(t *testing.T) {
	now := time.Date(2025, 3, 10, 21, 0, 0, 0, time.UTC)
	fake := &fakeBars{bars: []marketdata.Bar{
		{Timestamp: now.AddDate(0, 0, -1), Open: 10, High: 11, Low: 9, Close: 10.5, Volume: 1200},
		{Timestamp: now, Open: 10.5, High: 12, Low: 10, Close: 11.5, Volume: 1500},
	}}
	f := &AlpacaFetcher{client: fake, now: func() time.Time { return now }}

	bars, err := f.FetchDailyBars(context.Background(), "ACME", 180)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 1500.0, bars[1].Volume)
	assert.Equal(t, marketdata.OneDay, fake.req.TimeFrame)
	assert.Equal(t, now.Add(-15*time.Minute).AddDate(0, 0, -180), fake.req.Start)

	_, err = f.FetchInfo(context.Background(), "ACME")
	assert.ErrorIs(t, err, ErrInfoUnavailable)

	fake.bars = nil
	_, err = f.FetchDailyBars(context.Background(), "ACME", 180)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestMockFetcher(t *testing.T) {
	m := &MockFetcher{Errs: map[string][]error{"ACME": {ErrRateLimited}}}

	_, err := m.FetchDailyBars(context.Background(), "ACME", 180)
	assert.ErrorIs(t, err, ErrRateLimited)

	bars, err := m.FetchDailyBars(context.Background(), "ACME", 180)
	require.NoError(t, err)
	assert.Len(t, bars, 128)
	assert.Equal(t, 2, m.Calls("ACME"))
}
