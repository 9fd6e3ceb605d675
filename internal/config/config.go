package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"SwingScreener/internal/gate"
	"SwingScreener/internal/screener"
	"SwingScreener/internal/strategy"
)

// Data providers.
const (
	ProviderYahoo  = "yahoo"
	ProviderAlpaca = "alpaca"
	ProviderMock   = "mock"
)

// Config holds all application configuration.
type Config struct {
	Log struct {
		Level  string `yaml:"level" envconfig:"LOG_LEVEL"`
		Format string `yaml:"format" envconfig:"LOG_FORMAT"`
	} `yaml:"log"`
	DataSource struct {
		Provider          string  `yaml:"provider" envconfig:"DATA_PROVIDER"`
		LookbackDays      int     `yaml:"lookback_days"`
		Benchmark         string  `yaml:"benchmark" envconfig:"BENCHMARK_SYMBOL"`
		BenchmarkDays     int     `yaml:"benchmark_days"`
		RequestsPerSecond float64 `yaml:"requests_per_second" envconfig:"REQUESTS_PER_SECOND"`
		AlpacaAPIKey      string  `yaml:"alpaca_api_key" envconfig:"ALPACA_API_KEY"`
		AlpacaAPISecret   string  `yaml:"alpaca_api_secret" envconfig:"ALPACA_API_SECRET"`
	} `yaml:"data_source"`
	Universe struct {
		File    string   `yaml:"file" envconfig:"UNIVERSE_FILE"`
		Symbols []string `yaml:"symbols" envconfig:"UNIVERSE_SYMBOLS"`
		Strict  bool     `yaml:"strict"`
	} `yaml:"universe"`
	Screening struct {
		Profile          string            `yaml:"profile" envconfig:"SCREENING_PROFILE"`
		MaxLossPct       float64           `yaml:"max_loss_pct"`
		MinRiskReward    float64           `yaml:"min_risk_reward"`
		Weights          *strategy.Weights `yaml:"weights" ignored:"true"`
		BatchSize        int               `yaml:"batch_size"`
		BatchPause       time.Duration     `yaml:"batch_pause"`
		MaxRetries       int               `yaml:"max_retries"`
		BenchmarkRetries int               `yaml:"benchmark_retries"`
		TopN             int               `yaml:"top_n" envconfig:"TOP_N"`
		Gate             gate.Config       `yaml:"gate" ignored:"true"`
	} `yaml:"screening"`
	Output struct {
		Dir string `yaml:"dir" envconfig:"OUTPUT_DIR"`
	} `yaml:"output"`
	Telegram struct {
		Enabled  bool   `yaml:"enabled" envconfig:"TELEGRAM_ENABLED"`
		BotToken string `yaml:"bot_token" envconfig:"TELEGRAM_BOT_TOKEN"`
		ChatID   string `yaml:"chat_id" envconfig:"TELEGRAM_CHAT_ID"`
	} `yaml:"telegram"`
	Schedule struct {
		RunCron    string `yaml:"run_cron" envconfig:"CRON_RUN"`
		RunOnStart bool   `yaml:"run_on_start" envconfig:"RUN_ON_START"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path" envconfig:"SQLITE_PATH"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy" envconfig:"HTTPS_PROXY"`
}

// Load reads config from a YAML file, then .env, then environment
// overrides, then fills defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.Screening.Gate = gate.DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env never overrides variables already set in the environment.
	_ = godotenv.Load()
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("env overrides: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	def := screener.DefaultConfig()

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = ProviderYahoo
	}
	c.DataSource.Provider = strings.ToLower(c.DataSource.Provider)
	if c.DataSource.LookbackDays == 0 {
		c.DataSource.LookbackDays = def.LookbackDays
	}
	if c.DataSource.Benchmark == "" {
		c.DataSource.Benchmark = def.BenchmarkSymbol
	}
	if c.DataSource.BenchmarkDays == 0 {
		c.DataSource.BenchmarkDays = def.BenchmarkDays
	}
	if c.Screening.Profile == "" {
		c.Screening.Profile = strategy.ProfileSwing
	}
	if c.Screening.BatchSize == 0 {
		c.Screening.BatchSize = def.BatchSize
	}
	if c.Screening.BatchPause == 0 {
		c.Screening.BatchPause = def.BatchPause
	}
	if c.Screening.MaxRetries == 0 {
		c.Screening.MaxRetries = def.MaxRetries
	}
	if c.Screening.BenchmarkRetries == 0 {
		c.Screening.BenchmarkRetries = def.BenchmarkRetries
	}
	if c.Screening.TopN == 0 {
		c.Screening.TopN = def.TopN
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "data/results"
	}
	if c.Schedule.RunCron == "" {
		c.Schedule.RunCron = "0 30 22 * * 1-5"
	}
}

var cronParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Validate checks ranges and required fields.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case ProviderYahoo, ProviderMock:
	case ProviderAlpaca:
		if c.DataSource.AlpacaAPIKey == "" || c.DataSource.AlpacaAPISecret == "" {
			return fmt.Errorf("data_source.alpaca_api_key and alpaca_api_secret are required for alpaca")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not one of yahoo, alpaca, mock", c.DataSource.Provider)
	}
	if c.DataSource.RequestsPerSecond < 0 {
		return fmt.Errorf("data_source.requests_per_second must not be negative")
	}
	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required")
		}
	}
	if _, err := cronParser.Parse(c.Schedule.RunCron); err != nil {
		return fmt.Errorf("schedule.run_cron: %w", err)
	}
	g := c.Screening.Gate
	if g.MinMarketCap > g.MaxMarketCap || g.MinPrice > g.MaxPrice {
		return fmt.Errorf("screening.gate: min above max")
	}
	_, err := c.ScreenerConfig()
	return err
}

// ScreenerConfig converts the file shape into the run configuration.
func (c *Config) ScreenerConfig() (screener.Config, error) {
	profile, err := strategy.ProfileByName(c.Screening.Profile)
	if err != nil {
		return screener.Config{}, err
	}
	if c.Screening.MaxLossPct > 0 {
		profile.MaxLossPct = c.Screening.MaxLossPct
	}
	if c.Screening.MinRiskReward > 0 {
		profile.MinRiskReward = c.Screening.MinRiskReward
	}
	if c.Screening.Weights != nil {
		profile.Weights = *c.Screening.Weights
	}

	sc := screener.DefaultConfig()
	sc.Gate = c.Screening.Gate
	sc.Profile = profile
	sc.LookbackDays = c.DataSource.LookbackDays
	sc.BenchmarkSymbol = c.DataSource.Benchmark
	sc.BenchmarkDays = c.DataSource.BenchmarkDays
	sc.BatchSize = c.Screening.BatchSize
	sc.BatchPause = c.Screening.BatchPause
	sc.MaxRetries = c.Screening.MaxRetries
	sc.BenchmarkRetries = c.Screening.BenchmarkRetries
	sc.TopN = c.Screening.TopN
	if err := sc.Validate(); err != nil {
		return screener.Config{}, err
	}
	return sc, nil
}
