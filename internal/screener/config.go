package screener

import (
	"fmt"
	"time"

	"SwingScreener/internal/gate"
	"SwingScreener/internal/strategy"
)

// Config controls one screening run.
type Config struct {
	Gate    gate.Config
	Profile strategy.Profile

	LookbackDays     int
	BenchmarkSymbol  string
	BenchmarkDays    int
	BatchSize        int
	BatchPause       time.Duration
	MaxRetries       int
	BenchmarkRetries int
	TopN             int
	ProgressEvery    int
}

// DefaultConfig returns the swing profile with the standard run pacing.
func DefaultConfig() Config {
	return Config{
		Gate:             gate.DefaultConfig(),
		Profile:          strategy.SwingProfile(),
		LookbackDays:     180,
		BenchmarkSymbol:  "SPY",
		BenchmarkDays:    30,
		BatchSize:        100,
		BatchPause:       3 * time.Second,
		MaxRetries:       2,
		BenchmarkRetries: 3,
		TopN:             10,
		ProgressEvery:    25,
	}
}

func (c Config) Validate() error {
	if err := c.Profile.Validate(); err != nil {
		return err
	}
	if c.LookbackDays <= 0 || c.BenchmarkDays <= 0 {
		return fmt.Errorf("lookback days must be positive")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", c.BatchSize)
	}
	if c.MaxRetries < 1 || c.BenchmarkRetries < 1 {
		return fmt.Errorf("retry attempts must be at least 1")
	}
	if c.TopN <= 0 {
		return fmt.Errorf("top n must be positive, got %d", c.TopN)
	}
	return nil
}
