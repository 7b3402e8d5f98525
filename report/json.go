package report

import (
	"encoding/json"
	"fmt"
	"os"
)

// WriteJSON saves the run snapshot to path.
func WriteJSON(path string, run Run) error {
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	// 0600: owner-only read/write
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write run: %w", err)
	}

	return nil
}

// ReadJSON loads a run snapshot written by WriteJSON.
func ReadJSON(path string) (*Run, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read run: %w", err)
	}

	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run: %w", err)
	}

	return &run, nil
}
