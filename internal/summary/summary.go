// Package summary renders the human-readable view of a run report.
package summary

import (
	"fmt"
	"io"

	"github.com/benwilkes9/mcpmetrics/internal/metrics"
)

// FormatTokens formats a token count for display (e.g. "45.3k", "1.5M").
// Uses floor (integer division) so displayed values never round up.
func FormatTokens(n int) string {
	switch {
	case n >= 1_000_000:
		whole := n / 100_000
		return fmt.Sprintf("%d.%dM", whole/10, whole%10)
	case n >= 1_000:
		whole := n / 100
		return fmt.Sprintf("%d.%dk", whole/10, whole%10)
	default:
		return fmt.Sprintf("%d", n)
	}
}

// PrintBox renders the final run summary box.
//
//nolint:errcheck // display output, best-effort writes
func PrintBox(w io.Writer, report *metrics.RunReport) {
	var input, output int
	if u := report.Run.Usage; u != nil {
		input = u.InputTokens
		output = u.OutputTokens
	}

	toolCalls, toolErrors, aborted := 0, 0, 0
	for _, s := range report.Suites {
		toolCalls += len(s.ToolCalls)
		for _, tc := range s.ToolCalls {
			if tc.Error {
				toolErrors++
			}
		}
		if s.Aborted {
			aborted++
		}
	}

	fmt.Fprintln(w, "┌──────────────────────────────────────┐")
	fmt.Fprintln(w, "│         RUN SUMMARY                  │")
	fmt.Fprintln(w, "├──────────────────────────────────────┤")
	fmt.Fprintf(w, "│  Suites           %-19s│\n", suiteLabel(len(report.Suites), aborted))
	fmt.Fprintf(w, "│  Wall time        %-19s│\n", formatDuration(report.Run.DurationSeconds))
	fmt.Fprintf(w, "│  Input tokens     %-19s│\n", FormatTokens(input))
	fmt.Fprintf(w, "│  Output tokens    %-19s│\n", FormatTokens(output))
	fmt.Fprintf(w, "│  Tool calls       %-19s│\n", toolLabel(toolCalls, toolErrors))
	if report.Run.Screenshots.EstimatedInputTokens != nil {
		fmt.Fprintf(w, "│  Screenshot toks  %-19s│\n", FormatTokens(*report.Run.Screenshots.EstimatedInputTokens))
	}
	fmt.Fprintln(w, "└──────────────────────────────────────┘")
}

// PrintSuites writes a one-line-per-suite breakdown under the box.
//
//nolint:errcheck // display output, best-effort writes
func PrintSuites(w io.Writer, report *metrics.RunReport) {
	for _, s := range report.Suites {
		name := "(unnamed)"
		if s.SuiteName != nil {
			name = *s.SuiteName
		}
		marker := "✓"
		if s.Aborted {
			marker = "✗"
		}
		tokens := 0
		if s.Usage != nil {
			tokens = s.Usage.TotalTokens
		}
		fmt.Fprintf(w, "  %s %d/%d %s — %s, %d updates, %d tool calls, %s tokens\n",
			marker, s.SuiteIndex, s.SuiteTotal, name,
			formatDuration(s.DurationSeconds), s.UpdatesCount, len(s.ToolCalls),
			FormatTokens(tokens))
	}
}

func suiteLabel(total, aborted int) string {
	if aborted > 0 {
		return fmt.Sprintf("%d (%d aborted)", total, aborted)
	}
	return fmt.Sprintf("%d", total)
}

func toolLabel(calls, errs int) string {
	if errs > 0 {
		return fmt.Sprintf("%d (%d errors)", calls, errs)
	}
	return fmt.Sprintf("%d", calls)
}

func formatDuration(seconds float64) string {
	total := int(seconds)
	m := total / 60
	s := total % 60
	return fmt.Sprintf("%dm %ds", m, s)
}
