package recorder

import (
	"time"

	"SwingScreener/internal/model"
)

// Appearance is one past run in which a symbol ranked as a candidate.
type Appearance struct {
	RunID      int64
	StartedAt  time.Time
	Profile    string
	Rank       int
	InTop      bool
	TotalScore float64
	Price      float64
	SetupType  string
}

// Recorder persists run history for later review.
type Recorder interface {
	RecordRun(run *model.RunReport) (int64, error)
	History(symbol string, limit int) ([]Appearance, error)
	Close() error
}
