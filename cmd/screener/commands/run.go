package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"SwingScreener/internal/report"
	"SwingScreener/internal/scheduler"
	"SwingScreener/internal/screener"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Screen the universe once and write the results",
	Long: `Runs one screening pass and writes screening_results_<ts>.csv,
top<N>_<ts>.csv, run_<ts>.json and latest.json to the output directory.

Example:
  screener run --symbols AAPL,MSFT,AMD
  screener run --universe data/universe.csv --profile profit --notify`,
	RunE: runRun,
}

var (
	runSymbols  string
	runUniverse string
	runProfile  string
	runTop      int
	runOut      string
	runNotify   bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runSymbols, "symbols", "", "comma separated symbols to screen")
	runCmd.Flags().StringVar(&runUniverse, "universe", "", "universe CSV file")
	runCmd.Flags().StringVar(&runProfile, "profile", "", "scoring profile (swing|profit)")
	runCmd.Flags().IntVar(&runTop, "top", 0, "number of top picks to keep")
	runCmd.Flags().StringVar(&runOut, "out", "", "output directory")
	runCmd.Flags().BoolVar(&runNotify, "notify", false, "send the top picks to Telegram")
}

func runRun(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	if runProfile != "" {
		a.cfg.Screening.Profile = runProfile
	}
	if runTop > 0 {
		a.cfg.Screening.TopN = runTop
	}
	if runOut != "" {
		a.cfg.Output.Dir = runOut
	}
	if runNotify {
		a.cfg.Telegram.Enabled = true
	}
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	scfg, err := a.cfg.ScreenerConfig()
	if err != nil {
		return err
	}
	fetcher, err := a.fetcher()
	if err != nil {
		return err
	}
	source, err := a.universe(runSymbols, runUniverse)
	if err != nil {
		return err
	}
	rec := a.recorder()
	defer rec.Close()

	opts := scheduler.Options{
		Runner:   screener.New(fetcher, scfg, a.log),
		Universe: source,
		Writer:   report.NewWriter(a.cfg.Output.Dir, scfg.TopN),
		Recorder: rec,
		TopN:     scfg.TopN,
	}
	if tn := a.telegram(); tn != nil {
		opts.Sender = tn
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run, err := scheduler.NewScheduler(ctx, opts, a.log).RunNow(ctx)
	if run != nil {
		printRun(cmd.OutOrStdout(), run)
		fmt.Fprintf(cmd.OutOrStdout(), "\nResults written to %s\n", a.cfg.Output.Dir)
	}
	return err
}
