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

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the daily screening schedule and answer Telegram commands",
	Long: `Starts the cron schedule (schedule.run_cron) and, when Telegram is
enabled, long-polls for /top, /run, /status and /history commands.
Stops on SIGINT or SIGTERM after any in-flight run finishes.

Example:
  screener serve --config configs/config.yaml`,
	RunE: runServe,
}

var serveUniverse string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveUniverse, "universe", "", "universe CSV file")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
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
	source, err := a.universe("", serveUniverse)
	if err != nil {
		return err
	}
	rec := a.recorder()
	defer rec.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := scheduler.Options{
		Runner:   screener.New(fetcher, scfg, a.log),
		Universe: source,
		Writer:   report.NewWriter(a.cfg.Output.Dir, scfg.TopN),
		Recorder: rec,
		TopN:     scfg.TopN,
	}
	tn := a.telegram()
	if tn != nil {
		opts.Sender = tn
	}

	sched := scheduler.NewScheduler(ctx, opts, a.log)
	if err := sched.RegisterAll(a.cfg.Schedule.RunCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		a.log.Info().Msg("telegram polling started")
	}
	if a.cfg.Schedule.RunOnStart {
		a.log.Info().Msg("run_on_start enabled, screening now")
		sched.HandleCommand(ctx, "/run")
	}

	a.log.Info().Str("cron", a.cfg.Schedule.RunCron).Msg("screener is running, press Ctrl+C to stop")
	<-ctx.Done()
	a.log.Info().Msg("shutdown signal received, stopping")
	return nil
}
