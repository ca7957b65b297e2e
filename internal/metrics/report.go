package metrics

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SuiteReport is the sealed record of one completed (or aborted) suite.
type SuiteReport struct {
	SuiteName       *string         `json:"suite_name"`
	SuiteIndex      int             `json:"suite_index"`
	SuiteTotal      int             `json:"suite_total"`
	StartedAt       string          `json:"started_at"`
	CompletedAt     string          `json:"completed_at"`
	DurationSeconds float64         `json:"duration_seconds"`
	UpdatesCount    int             `json:"updates_count"`
	TotalTextChars  int             `json:"total_text_chars"`
	Usage           *Usage          `json:"usage"`
	Screenshots     ScreenshotStats `json:"screenshots"`
	Response        ResponseMeta    `json:"response"`
	ToolCalls       []ToolCall      `json:"tool_calls"`
	StreamEvents    []StreamEvent   `json:"stream_events"`
	Aborted         bool            `json:"aborted,omitempty"`
}

// ScreenshotStats accounts for screenshot tool payloads within one suite.
// Counters are null rather than zero when nothing was seen, to distinguish
// "no screenshots" from "zero-cost screenshots".
type ScreenshotStats struct {
	Calls                int  `json:"calls"`
	Base64CharsTotal     *int `json:"base64_chars_total"`
	BytesTotal           *int `json:"bytes_total"`
	EstimatedInputTokens *int `json:"estimated_input_tokens"`
}

// ResponseMeta describes the aggregated response a suite's update stream
// folds into.
type ResponseMeta struct {
	ResponseID           *string `json:"response_id"`
	CreatedAt            any     `json:"created_at"`
	AdditionalProperties any     `json:"additional_properties"`
	MessageCount         int     `json:"message_count"`
	TextExcerpt          any     `json:"text_excerpt"`
}

// RunReport is the consolidated output of a whole run.
type RunReport struct {
	Run    RunSummary     `json:"run"`
	Suites []*SuiteReport `json:"suites"`
}

// RunSummary holds run-level identity, timing, and aggregate totals.
type RunSummary struct {
	RunID           string         `json:"run_id"`
	PlanPath        string         `json:"plan_path"`
	BaseURL         *string        `json:"base_url"`
	SuiteTotal      int            `json:"suite_total"`
	StartedAt       string         `json:"started_at"`
	CompletedAt     string         `json:"completed_at"`
	DurationSeconds float64        `json:"duration_seconds"`
	Usage           *Usage         `json:"usage"`
	Screenshots     RunScreenshots `json:"screenshots"`
	Error           string         `json:"error,omitempty"`
}

// RunScreenshots aggregates screenshot accounting across all suites.
type RunScreenshots struct {
	Calls                *int `json:"calls"`
	EstimatedInputTokens *int `json:"estimated_input_tokens"`
}

// WriteReportFile persists a run report as indented JSON, creating parent
// directories as needed.
func WriteReportFile(path string, report *RunReport) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("creating report dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// ReadReportFile loads a previously persisted run report.
func ReadReportFile(path string) (*RunReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}

	var report RunReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parsing report %s: %w", filepath.Base(path), err)
	}
	return &report, nil
}
