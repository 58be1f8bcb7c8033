package ctrf

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultOutputPath is where reports are written when no path is given.
const DefaultOutputPath = "ctrf/ctrf-report.json"

// ResolveOutputPath returns path, or DefaultOutputPath when empty, as an
// absolute path relative to the working directory.
func ResolveOutputPath(path string) (string, error) {
	if path == "" {
		path = DefaultOutputPath
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve output path: %w", err)
	}
	return abs, nil
}

// Write stores the report as indented JSON, creating parent directories.
func Write(path string, report *Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
