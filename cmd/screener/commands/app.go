package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"SwingScreener/internal/collector"
	"SwingScreener/internal/config"
	"SwingScreener/internal/logger"
	"SwingScreener/internal/notifier"
	"SwingScreener/internal/recorder"
	"SwingScreener/internal/universe"
)

// app holds what every command needs after startup.
type app struct {
	cfg *config.Config
	log zerolog.Logger
}

func loadApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	return &app{cfg: cfg, log: log}, nil
}

func (a *app) fetcher() (collector.Fetcher, error) {
	ds := a.cfg.DataSource
	var f collector.Fetcher
	switch ds.Provider {
	case config.ProviderYahoo:
		f = collector.NewYahooFetcher(a.cfg.Proxy, ds.RequestsPerSecond)
	case config.ProviderAlpaca:
		f = collector.NewAlpacaFetcher(ds.AlpacaAPIKey, ds.AlpacaAPISecret)
	case config.ProviderMock:
		f = &collector.MockFetcher{}
	default:
		return nil, fmt.Errorf("unknown data provider %q", ds.Provider)
	}
	a.log.Info().Str("source", f.Name()).Msg("data source ready")
	return f, nil
}

// universe picks the symbol source: explicit symbols, then a CSV file,
// then the symbols listed in the config.
func (a *app) universe(symbols, file string) (universe.Source, error) {
	switch {
	case symbols != "":
		return universe.ParseSymbols(symbols), nil
	case file != "":
		return universe.File{Path: file, Strict: a.cfg.Universe.Strict}, nil
	case a.cfg.Universe.File != "":
		return universe.File{Path: a.cfg.Universe.File, Strict: a.cfg.Universe.Strict}, nil
	case len(a.cfg.Universe.Symbols) > 0:
		return universe.Static(a.cfg.Universe.Symbols), nil
	}
	return nil, fmt.Errorf("no universe: pass --symbols or --universe, or set universe.file in the config")
}

// recorder opens the history database, falling back to a no-op recorder.
func (a *app) recorder() recorder.Recorder {
	path := a.cfg.Database.SQLitePath
	if path == "" {
		return recorder.NewNoopRecorder()
	}
	rec, err := recorder.NewSQLiteRecorder(path, a.log)
	if err != nil {
		a.log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		return recorder.NewNoopRecorder()
	}
	return rec
}

// telegram returns nil when notifications are disabled.
func (a *app) telegram() *notifier.TelegramNotifier {
	if !a.cfg.Telegram.Enabled {
		return nil
	}
	return notifier.NewTelegramNotifier(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.cfg.Proxy, a.log)
}
