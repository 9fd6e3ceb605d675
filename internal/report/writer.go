package report

import (
	"fmt"
	"os"
	"path/filepath"

	"SwingScreener/internal/model"
)

const timestampLayout = "20060102_150405"

// Files lists what Write produced.
type Files struct {
	Results string
	Top     string
	Run     string
	Latest  string
}

// Writer stores each run under Dir.
type Writer struct {
	Dir  string
	TopN int
}

func NewWriter(dir string, topN int) *Writer {
	return &Writer{Dir: dir, TopN: topN}
}

// Write stores the full ranked candidate table, the top-N table, the run
// snapshot and a copy of it as latest.json.
func (w *Writer) Write(run *model.RunReport) (Files, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return Files{}, fmt.Errorf("create output dir: %w", err)
	}
	ts := run.StartedAt.Format(timestampLayout)
	files := Files{
		Results: filepath.Join(w.Dir, "screening_results_"+ts+".csv"),
		Top:     filepath.Join(w.Dir, fmt.Sprintf("top%d_%s.csv", w.TopN, ts)),
		Run:     filepath.Join(w.Dir, "run_"+ts+".json"),
		Latest:  filepath.Join(w.Dir, LatestFile),
	}

	if err := writeCSVFile(files.Results, run.Candidates); err != nil {
		return files, err
	}
	if err := writeCSVFile(files.Top, run.Top); err != nil {
		return files, err
	}
	if err := saveJSON(files.Run, run); err != nil {
		return files, fmt.Errorf("write %s: %w", files.Run, err)
	}
	if err := saveJSON(files.Latest, run); err != nil {
		return files, fmt.Errorf("write %s: %w", files.Latest, err)
	}
	return files, nil
}

func writeCSVFile(path string, results []model.AnalysisResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteCSV(f, results); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
