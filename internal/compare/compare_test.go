package compare

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benwilkes9/mcpmetrics/internal/metrics"
)

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

func f64Ptr(v float64) *float64 { return &v }

func sampleReport() *metrics.RunReport {
	return &metrics.RunReport{
		Run: metrics.RunSummary{
			RunID:           "run-1",
			PlanPath:        "plans/site.md",
			SuiteTotal:      2,
			DurationSeconds: 120,
			Usage:           &metrics.Usage{InputTokens: 2400, OutputTokens: 240, TotalTokens: 2640},
		},
		Suites: []*metrics.SuiteReport{
			{
				SuiteName:       strPtr("login"),
				DurationSeconds: 80,
				UpdatesCount:    6,
				TotalTextChars:  400,
				Screenshots:     metrics.ScreenshotStats{Calls: 1, EstimatedInputTokens: intPtr(100)},
				ToolCalls: []metrics.ToolCall{
					{CallID: "c1", ToolName: strPtr("browser_navigate"), DurationSeconds: f64Ptr(2)},
					{CallID: "c2", ToolName: strPtr("browser_click"), DurationSeconds: f64Ptr(1)},
					{CallID: "c3", ToolName: strPtr("browser_click"), DurationSeconds: f64Ptr(3), Error: true},
				},
			},
			{
				SuiteName:       strPtr("checkout"),
				DurationSeconds: 40,
				UpdatesCount:    2,
				TotalTextChars:  100,
				Aborted:         true,
				ToolCalls: []metrics.ToolCall{
					{CallID: "c4", ToolName: strPtr("browser_navigate"), DurationSeconds: f64Ptr(2)},
				},
			},
		},
	}
}

func TestComputeKPIs(t *testing.T) {
	kpi := ComputeKPIs("Playwright MCP", sampleReport())

	assert.Equal(t, "Playwright MCP", kpi.Name)
	assert.Equal(t, 120.0, kpi.RuntimeSeconds)
	assert.Equal(t, 2, kpi.SuiteTotal)
	assert.Equal(t, 2400, kpi.InputTokens)
	assert.Equal(t, 240, kpi.OutputTokens)

	require.NotNil(t, kpi.TokensPerSecond)
	assert.InDelta(t, 20.0, *kpi.TokensPerSecond, 0.001)
	require.NotNil(t, kpi.OutputPerInput)
	assert.InDelta(t, 0.1, *kpi.OutputPerInput, 0.0001)
	require.NotNil(t, kpi.AvgSuiteDuration)
	assert.InDelta(t, 60.0, *kpi.AvgSuiteDuration, 0.001)

	assert.Equal(t, 4, kpi.ToolCallsTotal)
	assert.Equal(t, 1, kpi.ToolErrors)
	require.NotNil(t, kpi.AvgToolDuration)
	assert.InDelta(t, 2.0, *kpi.AvgToolDuration, 0.001)

	assert.Equal(t, 1, kpi.AbortedSuiteCount)
	assert.Equal(t, 8, kpi.UpdatesCount)
	assert.Equal(t, 500, kpi.TotalTextChars)
	assert.Equal(t, 1, kpi.ScreenshotCalls)
	assert.Equal(t, 100, kpi.ScreenshotTokens)

	require.Len(t, kpi.TopTools, 2)
	assert.Equal(t, ToolCount{Name: "browser_click", Count: 2}, kpi.TopTools[0])
	assert.Equal(t, ToolCount{Name: "browser_navigate", Count: 2}, kpi.TopTools[1])
}

func TestComputeKPIsEmptyReport(t *testing.T) {
	kpi := ComputeKPIs("empty", &metrics.RunReport{})

	assert.Equal(t, 0, kpi.SuiteTotal)
	assert.Nil(t, kpi.TokensPerSecond)
	assert.Nil(t, kpi.OutputPerInput)
	assert.Nil(t, kpi.AvgSuiteDuration)
	assert.Nil(t, kpi.AvgToolDuration)
	assert.Empty(t, kpi.TopTools)
}

func TestTopToolsDeterministicOrder(t *testing.T) {
	out := topTools(map[string]int{"b": 2, "a": 2, "c": 5}, 10)
	assert.Equal(t, []ToolCount{{"c", 5}, {"a", 2}, {"b", 2}}, out)
}

func TestTopToolsLimit(t *testing.T) {
	counts := map[string]int{}
	for _, name := range []string{"a", "b", "c", "d"} {
		counts[name] = 1
	}
	assert.Len(t, topTools(counts, 2), 2)
}

func TestRenderMarkdown(t *testing.T) {
	comp := &Comparison{
		Comparisons: []KPI{ComputeKPIs("Playwright MCP", sampleReport())},
		Missing:     []string{"Selenium MCP → artifacts/selenium.metrics.json"},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderMarkdown(&buf, comp))
	out := buf.String()

	assert.Contains(t, out, "# MCP Comparison")
	assert.Contains(t, out, "## Playwright MCP")
	assert.Contains(t, out, "- Runtime: 120.00s")
	assert.Contains(t, out, "- Suites: 2 (1 aborted)")
	assert.Contains(t, out, "- Tool calls: 4")
	assert.Contains(t, out, "browser_click(2)")
	assert.Contains(t, out, "## Missing")
}
