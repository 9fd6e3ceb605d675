package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"SwingScreener/internal/model"
)

const (
	defaultYahooBaseURL   = "https://query1.finance.yahoo.com"
	defaultYahooCookieURL = "https://fc.yahoo.com"
)

// errUnauthorized is a 401, which quoteSummary returns for a missing or stale crumb.
var errUnauthorized = errors.New("unauthorized")

// YahooFetcher implements Fetcher using the Yahoo Finance public API.
// Chart requests are anonymous; quoteSummary needs a session cookie and the
// matching crumb, fetched once and refreshed on 401.
type YahooFetcher struct {
	Client    *http.Client
	BaseURL   string
	CookieURL string
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
	limiter   *rate.Limiter

	crumbMu sync.Mutex
	crumb   string
}

// NewYahooFetcher creates a fetcher paced to requestsPerSecond (0 disables pacing).
func NewYahooFetcher(proxyURL string, requestsPerSecond float64) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	// cookiejar.New only fails on a bad PublicSuffixList.
	jar, _ := cookiejar.New(nil)
	return &YahooFetcher{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
			Jar:       jar,
		},
		BaseURL:   defaultYahooBaseURL,
		CookieURL: defaultYahooCookieURL,
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"BRK.B":  "BRK-B",
			"BF.B":   "BF-B",
		},
		limiter: rate.NewLimiter(limit, 1),
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from the chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// yahooValue is the {"raw": .., "fmt": ..} wrapper used by quoteSummary.
type yahooValue struct {
	Raw *float64 `json:"raw"`
}

func (v yahooValue) metric() model.Metric {
	if v.Raw == nil {
		return model.Unavailable
	}
	return model.Some(*v.Raw)
}

type yahooSummary struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				LongName  string     `json:"longName"`
				ShortName string     `json:"shortName"`
				MarketCap yahooValue `json:"marketCap"`
			} `json:"price"`
			SummaryProfile struct {
				Sector string `json:"sector"`
			} `json:"summaryProfile"`
			SummaryDetail struct {
				Beta yahooValue `json:"beta"`
			} `json:"summaryDetail"`
			DefaultKeyStatistics struct {
				Beta yahooValue `json:"beta"`
			} `json:"defaultKeyStatistics"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

// do performs a paced GET and returns the status and body whatever the status.
func (f *YahooFetcher) do(ctx context.Context, u string) (int, []byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return 0, nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("yahoo read body: %w", err)
	}
	return resp.StatusCode, body, nil
}

func (f *YahooFetcher) get(ctx context.Context, u string) ([]byte, error) {
	status, body, err := f.do(ctx, u)
	if err != nil {
		return nil, err
	}
	switch status {
	case http.StatusOK:
		return body, nil
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("yahoo: %w", ErrRateLimited)
	case http.StatusUnauthorized:
		return nil, fmt.Errorf("yahoo: %w: %.200s", errUnauthorized, string(body))
	default:
		return nil, fmt.Errorf("yahoo: status %d, body: %.200s", status, string(body))
	}
}

// session returns the current crumb, running the cookie and crumb handshake
// when there is none or when the caller's crumb was rejected as stale.
func (f *YahooFetcher) session(ctx context.Context, stale string) (string, error) {
	f.crumbMu.Lock()
	defer f.crumbMu.Unlock()
	if f.crumb != "" && f.crumb != stale {
		return f.crumb, nil
	}

	// The cookie host answers 404 but still sets the session cookie.
	if _, _, err := f.do(ctx, f.CookieURL); err != nil {
		return "", fmt.Errorf("yahoo cookie: %w", err)
	}
	body, err := f.get(ctx, f.BaseURL+"/v1/test/getcrumb")
	if err != nil {
		return "", fmt.Errorf("yahoo crumb: %w", err)
	}
	crumb := strings.TrimSpace(string(body))
	if crumb == "" {
		return "", errors.New("yahoo crumb: empty response")
	}
	f.crumb = crumb
	return crumb, nil
}

func (f *YahooFetcher) summaryURL(symbol, crumb string) string {
	return fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=price,summaryProfile,summaryDetail,defaultKeyStatistics&crumb=%s",
		f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)), url.QueryEscape(crumb))
}

func (f *YahooFetcher) fetchChart(ctx context.Context, symbol, interval, rng string) ([]model.OHLCV, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)), interval, rng)

	body, err := f.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, ErrNoData)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make([]model.OHLCV, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || i >= len(quote.Open) || i >= len(quote.High) ||
			i >= len(quote.Low) || i >= len(quote.Volume) {
			break
		}
		o := toFloat(quote.Open[i])
		h := toFloat(quote.High[i])
		l := toFloat(quote.Low[i])
		c := toFloat(quote.Close[i])
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue // skip null bars (holidays etc.)
		}
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: toFloat(quote.Volume[i]),
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

// chartRange maps a calendar lookback onto Yahoo's fixed ranges.
func chartRange(days int) string {
	switch {
	case days <= 30:
		return "1mo"
	case days <= 90:
		return "3mo"
	case days <= 180:
		return "6mo"
	case days <= 365:
		return "1y"
	default:
		return "2y"
	}
}

func (f *YahooFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error) {
	return f.fetchChart(ctx, symbol, "1d", chartRange(days))
}

func (f *YahooFetcher) FetchInfo(ctx context.Context, symbol string) (*model.TickerInfo, error) {
	crumb, err := f.session(ctx, "")
	if err != nil {
		return nil, err
	}
	body, err := f.get(ctx, f.summaryURL(symbol, crumb))
	if errors.Is(err, errUnauthorized) {
		if crumb, err = f.session(ctx, crumb); err != nil {
			return nil, err
		}
		body, err = f.get(ctx, f.summaryURL(symbol, crumb))
	}
	if err != nil {
		return nil, err
	}
	var summary yahooSummary
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, fmt.Errorf("yahoo decode summary: %w", err)
	}
	if summary.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", summary.QuoteSummary.Error.Description)
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, ErrInfoUnavailable)
	}

	r := summary.QuoteSummary.Result[0]
	beta := r.SummaryDetail.Beta.metric()
	if !beta.Valid {
		beta = r.DefaultKeyStatistics.Beta.metric()
	}
	return &model.TickerInfo{
		MarketCap: r.Price.MarketCap.metric(),
		Beta:      beta,
		Sector:    r.SummaryProfile.Sector,
		LongName:  r.Price.LongName,
		ShortName: r.Price.ShortName,
	}, nil
}
