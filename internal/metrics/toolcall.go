package metrics

import (
	"strings"
	"time"
)

// toolCallState correlates the fragments of a single tool invocation by call
// ID: start, accumulated arguments, completion, accumulated output.
type toolCallState struct {
	callID       string
	name         string
	serverName   string
	startedAt    time.Time
	completedAt  time.Time
	argFragments []any
	outFragments []any
	err          bool
}

// recordStart sets the start timestamp once. Later call fragments for the
// same ID must not overwrite it.
func (s *toolCallState) recordStart(now time.Time) {
	if s.startedAt.IsZero() {
		s.startedAt = now
	}
}

// recordCompletion stamps the completion time. Last result fragment wins.
func (s *toolCallState) recordCompletion(now time.Time) {
	s.completedAt = now
}

// isScreenshotTool reports whether the recorded tool name looks like a
// screenshot capture.
func (s *toolCallState) isScreenshotTool() bool {
	name := strings.ToLower(s.name)
	return name == "take_screenshot" || strings.Contains(name, "screenshot")
}

// report seals the state into its serialized form.
func (s *toolCallState) report() ToolCall {
	tc := ToolCall{
		CallID:      s.callID,
		ToolName:    optString(s.name),
		ServerName:  optString(s.serverName),
		StartedAt:   optTimestamp(s.startedAt),
		CompletedAt: optTimestamp(s.completedAt),
		Error:       s.err,
	}
	if !s.startedAt.IsZero() && !s.completedAt.IsZero() {
		d := s.completedAt.Sub(s.startedAt).Seconds()
		if d < 0 {
			d = 0
		}
		tc.DurationSeconds = &d
	}
	if len(s.argFragments) > 0 {
		tc.Arguments = s.argFragments
	}
	if len(s.outFragments) > 0 {
		tc.Output = s.outFragments
	}
	return tc
}

// ToolCall is the serialized record of one correlated tool invocation.
type ToolCall struct {
	CallID          string   `json:"call_id"`
	ToolName        *string  `json:"tool_name"`
	ServerName      *string  `json:"server_name"`
	StartedAt       *string  `json:"started_at"`
	CompletedAt     *string  `json:"completed_at"`
	DurationSeconds *float64 `json:"duration_seconds"`
	Arguments       any      `json:"arguments"`
	Output          any      `json:"output"`
	Error           bool     `json:"error"`
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optInt(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}

func optTimestamp(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.UTC().Format(time.RFC3339Nano)
	return &s
}
