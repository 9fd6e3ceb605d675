package recorder

import (
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"SwingScreener/internal/model"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets report readers query while a run is being written.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log.With().Str("component", "recorder").Logger()}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS screening_runs (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at       INTEGER NOT NULL,
			finished_at      INTEGER NOT NULL,
			profile          TEXT,
			benchmark        TEXT,
			benchmark_return REAL,
			total            INTEGER,
			stage1_passed    INTEGER,
			processed        INTEGER,
			candidates       INTEGER,
			errors           INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON screening_runs(started_at)`,

		`CREATE TABLE IF NOT EXISTS candidates (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id        INTEGER NOT NULL REFERENCES screening_runs(id),
			rank          INTEGER NOT NULL,
			in_top        INTEGER NOT NULL,
			symbol        TEXT NOT NULL,
			total_score   REAL,
			setup_type    TEXT,
			price         REAL,
			stop_loss     REAL,
			take_profit   REAL,
			risk_reward   REAL,
			rel_strength  REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_candidates_symbol ON candidates(symbol)`,

		`CREATE TABLE IF NOT EXISTS rejections (
			run_id INTEGER NOT NULL REFERENCES screening_runs(id),
			reason TEXT NOT NULL,
			count  INTEGER NOT NULL
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// nullable maps an unavailable metric to SQL NULL.
func nullable(m model.Metric) sql.NullFloat64 {
	return sql.NullFloat64{Float64: m.Value, Valid: m.Valid}
}

// RecordRun stores the run, its ranked candidates and its reject counts in
// one transaction and returns the run id.
func (r *SQLiteRecorder) RecordRun(run *model.RunReport) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO screening_runs
		(started_at, finished_at, profile, benchmark, benchmark_return,
		 total, stage1_passed, processed, candidates, errors)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		run.StartedAt.Unix(), run.FinishedAt.Unix(), run.Profile,
		run.Benchmark.Symbol, nullable(run.Benchmark.Return5D),
		run.Stats.Total, run.Stats.Stage1Passed, run.Stats.Processed,
		run.Stats.Candidates, run.Stats.Errors,
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	top := make(map[string]bool, len(run.Top))
	for _, c := range run.Top {
		top[c.Symbol] = true
	}
	for i, c := range run.Candidates {
		_, err := tx.Exec(`INSERT INTO candidates
			(run_id, rank, in_top, symbol, total_score, setup_type, price,
			 stop_loss, take_profit, risk_reward, rel_strength)
			VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
			runID, i+1, top[c.Symbol], c.Symbol, c.Scores.Total, string(c.SetupType),
			c.CurrentPrice, c.Risk.StopLoss.Price, c.Risk.TakeProfit.Price,
			c.Risk.RiskRewardRatioNumeric, nullable(c.Technical.RelativeStrength),
		)
		if err != nil {
			return 0, fmt.Errorf("insert candidate %s: %w", c.Symbol, err)
		}
	}

	reasons := make([]string, 0, len(run.Stats.Rejections))
	for reason := range run.Stats.Rejections {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		if _, err := tx.Exec(`INSERT INTO rejections (run_id, reason, count) VALUES (?,?,?)`,
			runID, reason, run.Stats.Rejections[reason]); err != nil {
			return 0, fmt.Errorf("insert rejection: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	r.log.Debug().Int64("run_id", runID).Int("candidates", len(run.Candidates)).Msg("run recorded")
	return runID, nil
}

// History returns the most recent runs in which symbol was a candidate,
// newest first.
func (r *SQLiteRecorder) History(symbol string, limit int) ([]Appearance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT c.run_id, s.started_at, s.profile, c.rank, c.in_top,
			c.total_score, c.price, c.setup_type
		FROM candidates c JOIN screening_runs s ON s.id = c.run_id
		WHERE c.symbol = ?
		ORDER BY s.started_at DESC, c.run_id DESC
		LIMIT ?`, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []Appearance
	for rows.Next() {
		var a Appearance
		var started int64
		if err := rows.Scan(&a.RunID, &started, &a.Profile, &a.Rank, &a.InTop,
			&a.TotalScore, &a.Price, &a.SetupType); err != nil {
			return nil, err
		}
		a.StartedAt = time.Unix(started, 0).UTC()
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
