package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"SwingScreener/internal/calculator"
	"SwingScreener/internal/collector"
	"SwingScreener/internal/gate"
	"SwingScreener/internal/model"
	"SwingScreener/internal/screener"
	"SwingScreener/internal/universe"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze SYMBOL...",
	Short: "Walk single symbols through every screening stage",
	Long: `Prints the indicators, gate outcome, scores, risk levels and the
final decision for each symbol, plus its past appearances when a history
database is configured.

Example:
  screener analyze AAPL NVDA --profile profit`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

var analyzeProfile string

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&analyzeProfile, "profile", "", "scoring profile (swing|profit)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	if analyzeProfile != "" {
		a.cfg.Screening.Profile = analyzeProfile
	}
	scfg, err := a.cfg.ScreenerConfig()
	if err != nil {
		return err
	}
	fetcher, err := a.fetcher()
	if err != nil {
		return err
	}
	rec := a.recorder()
	defer rec.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := screener.New(fetcher, scfg, a.log)
	bench := s.Benchmark(ctx)
	out := cmd.OutOrStdout()

	for _, arg := range args {
		sym := universe.NormalizeSymbol(arg)
		fmt.Fprintf(out, "\n=== %s (%s profile) ===\n", sym, scfg.Profile.Name)

		var bars []model.OHLCV
		err := collector.Retry(ctx, scfg.MaxRetries, collector.IsRateLimited, nil, func() error {
			var err error
			bars, err = fetcher.FetchDailyBars(ctx, sym, scfg.LookbackDays)
			return err
		})
		if err != nil {
			fmt.Fprintf(out, "fetch failed: %v\n", err)
			continue
		}
		info, err := fetcher.FetchInfo(ctx, sym)
		if err != nil {
			info = nil
		}
		series := &model.PriceSeries{Symbol: sym, Bars: bars}
		ind := calculator.Compute(series, bench)

		printIndicators(out, series, ind, bench)
		if reason := gate.TechnicalCheck(ind, info, scfg.Gate); reason != "" {
			fmt.Fprintf(out, "Technical gate: FAIL (%s)\n", reason)
		} else {
			fmt.Fprintln(out, "Technical gate: pass")
		}

		res := screener.Analyze(series, model.UniverseStock{Symbol: sym}, info, bench, scfg)
		printAnalysis(out, res)

		hist, err := rec.History(sym, 5)
		if err == nil && len(hist) > 0 {
			printHistory(out, hist)
		}
	}
	return nil
}
