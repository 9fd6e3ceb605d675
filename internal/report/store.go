// Package report persists screening runs as CSV tables and JSON snapshots.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"SwingScreener/internal/model"
)

// LatestFile is the snapshot of the most recent run inside the output dir.
const LatestFile = "latest.json"

// ErrNoRun is returned by LoadLatest before any run was written.
var ErrNoRun = errors.New("no screening run recorded")

// LoadLatest reads the most recent run snapshot from dir.
func LoadLatest(dir string) (*model.RunReport, error) {
	return LoadRun(filepath.Join(dir, LatestFile))
}

// LoadRun reads one run snapshot.
func LoadRun(path string) (*model.RunReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoRun
		}
		return nil, err
	}
	var run model.RunReport
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &run, nil
}

// saveJSON writes v through a temp file so readers never see a partial snapshot.
func saveJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
