package screener

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"SwingScreener/internal/calculator"
	"SwingScreener/internal/collector"
	"SwingScreener/internal/gate"
	"SwingScreener/internal/model"
)

// ReasonRateLimit is recorded when the provider kept throttling after retries.
const ReasonRateLimit = "rate limit"

// minBenchmarkBars is one trailing 5-bar return plus its base bar.
const minBenchmarkBars = 6

// Screener fetches history for a universe and ranks the survivors.
type Screener struct {
	fetcher collector.Fetcher
	cfg     Config
	log     zerolog.Logger
	sleep   collector.SleepFunc
	now     func() time.Time
}

func New(fetcher collector.Fetcher, cfg Config, log zerolog.Logger) *Screener {
	return &Screener{
		fetcher: fetcher,
		cfg:     cfg,
		log:     log.With().Str("component", "screener").Str("source", fetcher.Name()).Logger(),
		sleep:   collector.Sleep,
		now:     time.Now,
	}
}

// Config returns the run configuration.
func (s *Screener) Config() Config { return s.cfg }

// Benchmark computes the benchmark's trailing 5-bar return. Any fetch error
// is retried; a short history is not. On failure the return is Unavailable
// and relative strength is skipped for the whole run.
func (s *Screener) Benchmark(ctx context.Context) model.Benchmark {
	bench := model.Benchmark{Symbol: s.cfg.BenchmarkSymbol}
	log := s.log.With().Str("symbol", bench.Symbol).Logger()

	var closes []float64
	retryable := func(err error) bool {
		return !errors.Is(err, calculator.ErrInsufficientData)
	}
	err := collector.Retry(ctx, s.cfg.BenchmarkRetries, retryable, s.logSleep(log), func() error {
		bars, err := s.fetcher.FetchDailyBars(ctx, bench.Symbol, s.cfg.BenchmarkDays)
		if err != nil {
			return err
		}
		if len(bars) < minBenchmarkBars {
			return fmt.Errorf("%d bars: %w", len(bars), calculator.ErrInsufficientData)
		}
		series := model.PriceSeries{Symbol: bench.Symbol, Bars: bars}
		closes = series.Closes()
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Msg("benchmark unavailable, relative strength disabled")
		return bench
	}

	ret, err := calculator.TrailingReturn(closes, 5)
	if err != nil {
		log.Warn().Err(err).Msg("benchmark return not computable")
		return bench
	}
	bench.Return5D = model.Some(ret)
	log.Info().Float64("return_5d", calculator.Round2(ret)).Msg("benchmark loaded")
	return bench
}

// AnalyzeSymbol fetches one symbol and runs Analyze. Throttling is retried
// with exponential backoff; other fetch failures are an insufficient-data
// reject. A panic anywhere in the pipeline is recovered and returned as an
// error alongside a reject record, so one bad symbol never stops a run.
func (s *Screener) AnalyzeSymbol(ctx context.Context, stock model.UniverseStock, bench model.Benchmark) (res *model.AnalysisResult, err error) {
	log := s.log.With().Str("symbol", stock.Symbol).Logger()
	defer func() {
		if r := recover(); r != nil {
			errType := fmt.Sprintf("%T", r)
			log.Error().Str("err_type", errType).Interface("panic", r).Msg("analysis failed")
			res = model.Rejected(stock.Symbol, "error: "+errType)
			err = fmt.Errorf("analyze %s: panic: %v", stock.Symbol, r)
		}
	}()

	var bars []model.OHLCV
	fetchErr := collector.Retry(ctx, s.cfg.MaxRetries, collector.IsRateLimited, s.logSleep(log), func() error {
		var err error
		bars, err = s.fetcher.FetchDailyBars(ctx, stock.Symbol, s.cfg.LookbackDays)
		return err
	})
	switch {
	case fetchErr == nil:
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case collector.IsRateLimited(fetchErr):
		log.Warn().Err(fetchErr).Msg("rate limit persisted")
		return model.Rejected(stock.Symbol, ReasonRateLimit), nil
	default:
		log.Debug().Err(fetchErr).Str("err_type", fmt.Sprintf("%T", fetchErr)).Msg("fetch failed")
		return model.Rejected(stock.Symbol, gate.ReasonInsufficientData), nil
	}

	info, infoErr := s.fetcher.FetchInfo(ctx, stock.Symbol)
	if infoErr != nil {
		// Providers without metadata say so with ErrInfoUnavailable; anything
		// else means beta and sector checks are running on defaults.
		ev := log.Warn()
		if errors.Is(infoErr, collector.ErrInfoUnavailable) {
			ev = log.Debug()
		}
		ev.Err(infoErr).Msg("no ticker info, using universe metadata")
		info = nil
	}

	series := &model.PriceSeries{Symbol: stock.Symbol, Bars: bars, FetchedAt: s.now()}
	return Analyze(series, stock, info, bench, s.cfg), nil
}

// logSleep wraps the sleep function with a retry warning.
func (s *Screener) logSleep(log zerolog.Logger) collector.SleepFunc {
	return func(ctx context.Context, d time.Duration) error {
		log.Warn().Dur("delay", d).Msg("retrying fetch")
		return s.sleep(ctx, d)
	}
}

// Run screens stocks in batches and returns the ranked report. Only
// context cancellation ends a run early; the partial report is returned
// with the context error.
func (s *Screener) Run(ctx context.Context, stocks []model.UniverseStock) (*model.RunReport, error) {
	report := &model.RunReport{
		StartedAt: s.now(),
		Profile:   s.cfg.Profile.Name,
		Stats:     model.RunStats{Total: len(stocks), Rejections: make(map[string]int)},
	}
	finish := func(err error) (*model.RunReport, error) {
		Rank(report.Candidates)
		report.Stats.Candidates = len(report.Candidates)
		report.Top = TopN(report.Candidates, s.cfg.TopN)
		report.FinishedAt = s.now()
		s.log.Info().
			Int("total", report.Stats.Total).
			Int("stage1", report.Stats.Stage1Passed).
			Int("processed", report.Stats.Processed).
			Int("candidates", report.Stats.Candidates).
			Int("errors", report.Stats.Errors).
			Dur("elapsed", report.Duration()).
			Msg("screening finished")
		return report, err
	}

	report.Benchmark = s.Benchmark(ctx)

	batches := (len(stocks) + s.cfg.BatchSize - 1) / s.cfg.BatchSize
	s.log.Info().Int("symbols", len(stocks)).Int("batches", batches).Str("profile", s.cfg.Profile.Name).Msg("screening started")

	for b := 0; b < batches; b++ {
		start := b * s.cfg.BatchSize
		end := min(start+s.cfg.BatchSize, len(stocks))
		s.log.Debug().Int("batch", b+1).Int("from", start+1).Int("to", end).Msg("batch started")

		for _, stock := range stocks[start:end] {
			if err := ctx.Err(); err != nil {
				return finish(err)
			}
			if reason := s.preCheck(stock); reason != "" {
				report.Stats.Rejections[reason]++
				continue
			}
			report.Stats.Stage1Passed++

			res, err := s.AnalyzeSymbol(ctx, stock, report.Benchmark)
			if err != nil && ctx.Err() != nil {
				return finish(ctx.Err())
			}
			report.Stats.Processed++
			if err != nil {
				report.Stats.Errors++
			}
			s.record(report, res)

			if s.cfg.ProgressEvery > 0 && report.Stats.Processed%s.cfg.ProgressEvery == 0 {
				s.log.Info().
					Int("processed", report.Stats.Processed).
					Int("total", report.Stats.Total).
					Int("stage1", report.Stats.Stage1Passed).
					Int("candidates", len(report.Candidates)).
					Msg("progress")
			}
		}

		if b < batches-1 {
			if err := s.sleep(ctx, s.cfg.BatchPause); err != nil {
				return finish(err)
			}
		}
	}
	return finish(nil)
}

func (s *Screener) preCheck(stock model.UniverseStock) string {
	if !hasMetadata(stock) {
		return ""
	}
	return gate.PreCheck(stock, s.cfg.Gate)
}

func (s *Screener) record(report *model.RunReport, res *model.AnalysisResult) {
	if res == nil {
		return
	}
	if !res.PassesAllFilters {
		report.Stats.Rejections[res.RejectReason]++
		return
	}
	report.Candidates = append(report.Candidates, *res)
	s.log.Info().
		Str("symbol", res.Symbol).
		Float64("price", res.CurrentPrice).
		Float64("score", res.Scores.Total).
		Str("setup", string(res.SetupType)).
		Str("rr", res.Risk.RiskRewardRatio).
		Int("rank", len(report.Candidates)).
		Msg("candidate")
}

// Rank sorts candidates by total score, highest first, ties by symbol.
func Rank(candidates []model.AnalysisResult) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Scores.Total != b.Scores.Total {
			return a.Scores.Total > b.Scores.Total
		}
		return a.Symbol < b.Symbol
	})
}

// TopN copies the first n ranked candidates.
func TopN(ranked []model.AnalysisResult, n int) []model.AnalysisResult {
	if n > len(ranked) {
		n = len(ranked)
	}
	top := make([]model.AnalysisResult, n)
	copy(top, ranked[:n])
	return top
}
