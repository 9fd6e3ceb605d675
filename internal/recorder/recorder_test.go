package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SwingScreener/internal/model"
)

func candidate(sym string, total float64) model.AnalysisResult {
	return model.AnalysisResult{
		Symbol:       sym,
		CurrentPrice: 42,
		Scores:       model.ScoreBreakdown{Total: total},
		SetupType:    model.SetupBreakoutAnticipation,
		Risk: model.RiskLevels{
			StopLoss:               model.StopLoss{Price: 40},
			TakeProfit:             model.TakeProfit{Price: 48},
			RiskRewardRatioNumeric: 3,
		},
	}
}

func run(start time.Time, syms ...string) *model.RunReport {
	r := &model.RunReport{
		StartedAt:  start,
		FinishedAt: start.Add(10 * time.Minute),
		Profile:    "swing",
		Benchmark:  model.Benchmark{Symbol: "SPY"},
		Stats:      model.RunStats{Total: 100, Rejections: map[string]int{"no uptrend": 60, "low liquidity": 20}},
	}
	for i, s := range syms {
		r.Candidates = append(r.Candidates, candidate(s, 150-float64(i)))
	}
	r.Top = r.Candidates[:1]
	r.Stats.Candidates = len(r.Candidates)
	return r
}

func TestSQLiteRecorder(t *testing.T) {
	rec, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "history.db"), zerolog.Nop())
	require.NoError(t, err)
	defer rec.Close()

	day := time.Date(2025, 6, 2, 22, 30, 0, 0, time.UTC)
	id1, err := rec.RecordRun(run(day, "ACME", "BETA"))
	require.NoError(t, err)
	id2, err := rec.RecordRun(run(day.AddDate(0, 0, 1), "BETA", "ACME"))
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	hist, err := rec.History("ACME", 10)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, id2, hist[0].RunID)
	assert.Equal(t, 2, hist[0].Rank)
	assert.False(t, hist[0].InTop)
	assert.Equal(t, 1, hist[1].Rank)
	assert.True(t, hist[1].InTop)
	assert.Equal(t, "Breakout Anticipation", hist[1].SetupType)
	assert.True(t, hist[1].StartedAt.Equal(day))

	limited, err := rec.History("ACME", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	none, err := rec.History("ZZZ", 10)
	require.NoError(t, err)
	assert.Empty(t, none)

	var reasons int
	require.NoError(t, rec.db.QueryRow(`SELECT COUNT(*) FROM rejections WHERE run_id = ?`, id1).Scan(&reasons))
	assert.Equal(t, 2, reasons)
}

func TestSQLiteRecorder_ReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	rec, err := NewSQLiteRecorder(path, zerolog.Nop())
	require.NoError(t, err)
	_, err = rec.RecordRun(run(time.Now(), "ACME"))
	require.NoError(t, err)
	require.NoError(t, rec.Close())

	rec, err = NewSQLiteRecorder(path, zerolog.Nop())
	require.NoError(t, err)
	defer rec.Close()
	hist, err := rec.History("ACME", 5)
	require.NoError(t, err)
	assert.Len(t, hist, 1)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	id, err := r.RecordRun(run(time.Now(), "ACME"))
	assert.NoError(t, err)
	assert.Zero(t, id)
	assert.NoError(t, r.Close())
}
