package newsorder

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pevans/newsorder/config"
	"github.com/pevans/newsorder/report"
)

// WriteReports writes every report whose path is configured. It keeps going
// after a failed report and returns the first error.
func WriteReports(result *Result, cfg config.Config) error {
	run := result.Report()
	var firstErr error

	record := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if cfg.CSVPath != "" {
		record(writeFile(cfg.CSVPath, func(w io.Writer) error {
			return report.WriteCSV(w, run.Items)
		}))
	}

	if cfg.JUnitPath != "" {
		record(writeFile(cfg.JUnitPath, func(w io.Writer) error {
			return report.WriteJUnit(w, run)
		}))
	}

	if cfg.JSONPath != "" {
		if err := ensureDir(cfg.JSONPath); err != nil {
			record(err)
		} else {
			record(report.WriteJSON(cfg.JSONPath, run))
		}
	}

	return firstErr
}

func writeFile(path string, write func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return err
	}

	if err := ensureDir(path); err != nil {
		return err
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}

func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	return nil
}
