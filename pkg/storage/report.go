package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"igpilot/pkg/session"
)

// ReportWriter persists session report snapshots as JSON files, one
// per session id.
type ReportWriter struct {
	dir string
}

// NewReportWriter creates the report directory if needed.
func NewReportWriter(dir string) (*ReportWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}
	return &ReportWriter{dir: dir}, nil
}

// Write saves the report atomically: the file is fully written and
// synced under a temporary name, then renamed into place, so a crash
// mid-write never leaves a truncated report.
func (w *ReportWriter) Write(report session.Report) error {
	path := filepath.Join(w.dir, fmt.Sprintf("%s.json", report.ID))
	tempPath := path + ".tmp"

	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary report file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync report file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close report file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace report file: %w", err)
	}

	return nil
}

// List returns the report file paths present in the directory.
func (w *ReportWriter) List() ([]string, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read report directory: %w", err)
	}
	var paths []string
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			paths = append(paths, filepath.Join(w.dir, entry.Name()))
		}
	}
	return paths, nil
}
