// Package compare computes KPIs from persisted run reports and renders
// side-by-side comparison output for multiple MCP backends.
package compare

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/benwilkes9/mcpmetrics/internal/metrics"
)

// KPI is the derived per-run scorecard used for comparisons.
type KPI struct {
	Name              string      `json:"name"`
	RuntimeSeconds    float64     `json:"runtime_seconds"`
	SuiteTotal        int         `json:"suite_total"`
	InputTokens       int         `json:"input_tokens"`
	OutputTokens      int         `json:"output_tokens"`
	TokensPerSecond   *float64    `json:"tokens_per_second"`
	OutputPerInput    *float64    `json:"output_per_input"`
	AvgSuiteDuration  *float64    `json:"avg_suite_duration"`
	ToolCallsTotal    int         `json:"tool_calls_total"`
	ToolErrors        int         `json:"tool_errors"`
	TopTools          []ToolCount `json:"top_tools"`
	AvgToolDuration   *float64    `json:"avg_tool_duration"`
	ScreenshotTokens  int         `json:"screenshot_tokens"`
	ScreenshotCalls   int         `json:"screenshot_calls"`
	AbortedSuiteCount int         `json:"aborted_suites"`
	UpdatesCount      int         `json:"updates_count"`
	TotalTextChars    int         `json:"total_text_chars"`
}

// ToolCount pairs a tool name with its invocation count.
type ToolCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Comparison holds the computed KPIs plus any inputs that could not be read.
type Comparison struct {
	Comparisons []KPI    `json:"comparisons"`
	Missing     []string `json:"missing"`
}

const topToolsLimit = 10

// ComputeKPIs derives a scorecard from one run report.
func ComputeKPIs(name string, report *metrics.RunReport) KPI {
	kpi := KPI{
		Name:           name,
		RuntimeSeconds: report.Run.DurationSeconds,
		SuiteTotal:     report.Run.SuiteTotal,
	}
	if kpi.SuiteTotal == 0 {
		kpi.SuiteTotal = len(report.Suites)
	}
	if u := report.Run.Usage; u != nil {
		kpi.InputTokens = u.InputTokens
		kpi.OutputTokens = u.OutputTokens
	}
	if kpi.RuntimeSeconds > 0 {
		v := float64(kpi.InputTokens) / kpi.RuntimeSeconds
		kpi.TokensPerSecond = &v
	}
	if kpi.InputTokens > 0 {
		v := float64(kpi.OutputTokens) / float64(kpi.InputTokens)
		kpi.OutputPerInput = &v
	}

	if len(report.Suites) > 0 {
		var total float64
		for _, s := range report.Suites {
			total += s.DurationSeconds
		}
		avg := total / float64(len(report.Suites))
		kpi.AvgSuiteDuration = &avg
	}

	toolCounts := map[string]int{}
	var toolDurationSum float64
	for _, s := range report.Suites {
		kpi.UpdatesCount += s.UpdatesCount
		kpi.TotalTextChars += s.TotalTextChars
		if s.Aborted {
			kpi.AbortedSuiteCount++
		}
		kpi.ScreenshotCalls += s.Screenshots.Calls
		if s.Screenshots.EstimatedInputTokens != nil {
			kpi.ScreenshotTokens += *s.Screenshots.EstimatedInputTokens
		}
		for _, tc := range s.ToolCalls {
			kpi.ToolCallsTotal++
			if tc.Error {
				kpi.ToolErrors++
			}
			if tc.ToolName != nil {
				toolCounts[*tc.ToolName]++
			}
			if tc.DurationSeconds != nil {
				toolDurationSum += *tc.DurationSeconds
			}
		}
	}
	if kpi.ToolCallsTotal > 0 {
		avg := toolDurationSum / float64(kpi.ToolCallsTotal)
		kpi.AvgToolDuration = &avg
	}
	kpi.TopTools = topTools(toolCounts, topToolsLimit)
	return kpi
}

// topTools returns the most-invoked tools, count descending with name as the
// tiebreak so output is deterministic.
func topTools(counts map[string]int, limit int) []ToolCount {
	out := make([]ToolCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, ToolCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// RenderMarkdown writes the comparison as a concise Markdown summary.
func RenderMarkdown(w io.Writer, c *Comparison) error {
	var b strings.Builder
	b.WriteString("# MCP Comparison (Runtime, Tokens, Tools)\n\n")

	for _, r := range c.Comparisons {
		fmt.Fprintf(&b, "## %s\n", r.Name)
		fmt.Fprintf(&b, "- Runtime: %.2fs\n", r.RuntimeSeconds)
		fmt.Fprintf(&b, "- Suites: %d", r.SuiteTotal)
		if r.AbortedSuiteCount > 0 {
			fmt.Fprintf(&b, " (%d aborted)", r.AbortedSuiteCount)
		}
		b.WriteString("\n")
		fmt.Fprintf(&b, "- Input tokens: %d\n", r.InputTokens)
		fmt.Fprintf(&b, "- Output tokens: %d\n", r.OutputTokens)
		if r.TokensPerSecond != nil {
			fmt.Fprintf(&b, "- Tokens/sec: %.2f\n", *r.TokensPerSecond)
		}
		if r.OutputPerInput != nil {
			fmt.Fprintf(&b, "- Output/Input ratio: %.6f\n", *r.OutputPerInput)
		}
		if r.AvgSuiteDuration != nil {
			fmt.Fprintf(&b, "- Avg suite duration: %.2fs\n", *r.AvgSuiteDuration)
		}
		fmt.Fprintf(&b, "- Tool calls: %d\n", r.ToolCallsTotal)
		fmt.Fprintf(&b, "- Tool errors: %d\n", r.ToolErrors)
		if r.AvgToolDuration != nil {
			fmt.Fprintf(&b, "- Avg tool duration: %.2fs\n", *r.AvgToolDuration)
		}
		if r.ScreenshotCalls > 0 {
			fmt.Fprintf(&b, "- Screenshots: %d calls, ~%d input tokens\n",
				r.ScreenshotCalls, r.ScreenshotTokens)
		}
		if len(r.TopTools) > 0 {
			parts := make([]string, 0, len(r.TopTools))
			for _, tc := range r.TopTools {
				parts = append(parts, fmt.Sprintf("%s(%d)", tc.Name, tc.Count))
			}
			fmt.Fprintf(&b, "- Top tools: %s\n", strings.Join(parts, ", "))
		}
		b.WriteString("\n")
	}

	if len(c.Missing) > 0 {
		b.WriteString("## Missing\n")
		for _, m := range c.Missing {
			fmt.Fprintf(&b, "- %s\n", m)
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("writing comparison markdown: %w", err)
	}
	return nil
}
