// Package history keeps a local record of processed runs so past replays
// can be listed without re-reading their reports.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// DefaultPath is the default location for history.json relative to the
// working directory.
const DefaultPath = ".mcpmetrics/history.json"

// RunStatus describes how a recorded run ended.
type RunStatus string

// Run statuses.
const (
	StatusCompleted RunStatus = "completed"
	StatusAborted   RunStatus = "aborted"
)

// Entry captures metadata from a single processed run.
type Entry struct {
	Source       string    `json:"source"`
	ReportPath   string    `json:"report_path"`
	PlanPath     string    `json:"plan_path"`
	StartedAt    time.Time `json:"started_at"`
	RecordedAt   time.Time `json:"recorded_at"`
	Duration     float64   `json:"duration_seconds"`
	Suites       int       `json:"suites"`
	InputTokens  int       `json:"input_tokens"`
	OutputTokens int       `json:"output_tokens"`
	ToolCalls    int       `json:"tool_calls"`
	Status       RunStatus `json:"status"`
}

// History holds all recorded runs.
type History struct {
	Entries []Entry `json:"entries"`
}

// Load reads history from disk. Returns an empty History if the file does
// not exist.
func Load(path string) (*History, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &History{}, nil
		}
		return nil, fmt.Errorf("reading history: %w", err)
	}

	var h History
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("parsing history: %w", err)
	}
	return &h, nil
}

// Save writes history to disk.
func Save(path string, h *History) error {
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling history: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing history: %w", err)
	}
	return nil
}

// Last returns the most recent entry, or nil if there are none.
func (h *History) Last() *Entry {
	if len(h.Entries) == 0 {
		return nil
	}
	return &h.Entries[len(h.Entries)-1]
}
