package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SwingScreener/internal/model"
)

func sampleRun() *model.RunReport {
	acme := model.AnalysisResult{
		Symbol:       "ACME",
		CompanyName:  "Acme, Inc.",
		Sector:       "Technology",
		MarketCap:    2.5e9,
		CurrentPrice: 100,
		Scores:       model.ScoreBreakdown{Total: 151.2, Momentum: 80},
		Risk: model.RiskLevels{
			StopLoss:               model.StopLoss{Price: 96, LossPercentage: -4, Method: "technical support"},
			TakeProfit:             model.TakeProfit{Price: 110, GainPercentage: 10, Method: "technical resistance"},
			RiskRewardRatio:        "1:2.5",
			RiskRewardRatioNumeric: 2.5,
		},
		SetupType:        model.SetupMomentumPullback,
		EntrySignals:     []string{"Outperform SPY +6.0%", "Healthy pullback"},
		Technical:        model.Technical{RSI: 58.2, RelativeStrength: model.Some(6)},
		PassesAllFilters: true,
	}
	beta := acme
	beta.Symbol, beta.Scores.Total, beta.Technical.RelativeStrength = "BETA", 120, model.Unavailable
	beta.Timing = &model.Timing{ExpectedDays: 6, GainPerDay: 1.67}

	return &model.RunReport{
		StartedAt:  time.Date(2025, 6, 30, 22, 30, 0, 0, time.UTC),
		FinishedAt: time.Date(2025, 6, 30, 22, 41, 5, 0, time.UTC),
		Profile:    "swing",
		Benchmark:  model.Benchmark{Symbol: "SPY", Return5D: model.Some(1.2)},
		Stats:      model.RunStats{Total: 10, Candidates: 2, Rejections: map[string]int{"no uptrend": 8}},
		Candidates: []model.AnalysisResult{acme, beta},
		Top:        []model.AnalysisResult{acme},
	}
}

func TestWriterWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	files, err := NewWriter(dir, 10).Write(sampleRun())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "screening_results_20250630_223000.csv"), files.Results)
	assert.Equal(t, filepath.Join(dir, "top10_20250630_223000.csv"), files.Top)
	assert.Equal(t, filepath.Join(dir, "run_20250630_223000.json"), files.Run)

	f, err := os.Open(files.Results)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, header, rows[0])

	col := func(name string) int {
		for i, h := range header {
			if h == name {
				return i
			}
		}
		t.Fatalf("no column %s", name)
		return -1
	}
	assert.Equal(t, "Acme, Inc.", rows[1][col("company_name")])
	assert.Equal(t, "2500", rows[1][col("market_cap_millions")])
	assert.Equal(t, "-4", rows[1][col("stop_loss_pct")])
	assert.Equal(t, "Outperform SPY +6.0%; Healthy pullback", rows[1][col("entry_signals")])
	assert.Equal(t, "6", rows[1][col("relative_strength_5d")])
	assert.Equal(t, "", rows[2][col("relative_strength_5d")])
	assert.Equal(t, "6", rows[2][col("expected_days")])

	top, err := os.ReadFile(files.Top)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(top), "\n"))
}

func TestLoadLatest(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadLatest(dir)
	assert.ErrorIs(t, err, ErrNoRun)

	run := sampleRun()
	_, err = NewWriter(dir, 5).Write(run)
	require.NoError(t, err)

	got, err := LoadLatest(dir)
	require.NoError(t, err)
	assert.Equal(t, run.Profile, got.Profile)
	assert.True(t, run.StartedAt.Equal(got.StartedAt))
	assert.Equal(t, run.Stats, got.Stats)
	require.Len(t, got.Candidates, 2)
	assert.False(t, got.Candidates[1].Technical.RelativeStrength.Valid)
	assert.Equal(t, 1.2, got.Benchmark.Return5D.Value)
	assert.Equal(t, 11*time.Minute+5*time.Second, got.Duration())
}

func TestLoadRun_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err := LoadRun(path)
	assert.Error(t, err)
}
