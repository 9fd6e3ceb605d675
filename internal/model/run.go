package model

import "time"

// RunStats counts how symbols moved through a run.
type RunStats struct {
	Total        int            `json:"total"`
	Stage1Passed int            `json:"stage1_passed"`
	Processed    int            `json:"processed"`
	Candidates   int            `json:"candidates"`
	Errors       int            `json:"errors"`
	Rejections   map[string]int `json:"rejections"`
}

// RunReport is the outcome of one screening pass.
type RunReport struct {
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
	Profile    string           `json:"profile"`
	Benchmark  Benchmark        `json:"benchmark"`
	Stats      RunStats         `json:"stats"`
	Candidates []AnalysisResult `json:"candidates"`
	Top        []AnalysisResult `json:"top"`
}

// Duration is the wall time of the run.
func (r *RunReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
