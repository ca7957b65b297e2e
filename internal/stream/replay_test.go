package stream

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benwilkes9/mcpmetrics/internal/metrics"
)

func TestCountSuites(t *testing.T) {
	f := openFixture(t, "testdata/two_suites.jsonl")
	n, err := CountSuites(f)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCountSuitesUnmarked(t *testing.T) {
	f := openFixture(t, "testdata/unmarked.jsonl")
	n, err := CountSuites(f)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCountSuitesEmpty(t *testing.T) {
	n, err := CountSuites(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestReplayTwoSuites(t *testing.T) {
	f := openFixture(t, "testdata/two_suites.jsonl")

	c := metrics.NewCollector(metrics.Options{PlanPath: "plan.md", SuiteTotal: 2})
	require.NoError(t, Replay(f, c))

	run, err := c.FinalizeRun()
	require.NoError(t, err)
	require.Len(t, run.Suites, 2)

	login := run.Suites[0]
	assert.Equal(t, "Login flow", *login.SuiteName)
	assert.Equal(t, 6, login.UpdatesCount)
	require.NotNil(t, login.Usage)
	assert.Equal(t, 1200, login.Usage.InputTokens)
	require.Len(t, login.ToolCalls, 2)
	assert.Equal(t, "browser_navigate", *login.ToolCalls[0].ToolName)
	assert.Equal(t, 1, login.Screenshots.Calls)
	require.NotNil(t, login.Screenshots.Base64CharsTotal)

	checkout := run.Suites[1]
	assert.Equal(t, "Checkout flow", *checkout.SuiteName)
	require.Len(t, checkout.ToolCalls, 1)
	assert.True(t, checkout.ToolCalls[0].Error, "exception in result sets the error flag")
	assert.Equal(t, 412, checkout.Usage.AdditionalCounts["cache_read_tokens"])

	require.NotNil(t, run.Run.Usage)
	assert.Equal(t, 2000, run.Run.Usage.InputTokens)
	assert.Equal(t, 275, run.Run.Usage.OutputTokens)
}

func TestReplayUnmarkedStreamFormsOneSuite(t *testing.T) {
	f := openFixture(t, "testdata/unmarked.jsonl")

	c := metrics.NewCollector(metrics.Options{PlanPath: "plan.md", SuiteTotal: 1})
	require.NoError(t, Replay(f, c))

	run, err := c.FinalizeRun()
	require.NoError(t, err)
	require.Len(t, run.Suites, 1)

	s := run.Suites[0]
	assert.Nil(t, s.SuiteName)
	assert.False(t, s.Aborted)
	assert.Equal(t, 2, s.UpdatesCount)
	require.NotNil(t, s.Usage)
	assert.Equal(t, 58, s.Usage.TotalTokens)
}

func TestReplayTruncatedStreamAbortsOpenSuite(t *testing.T) {
	in := strings.Join([]string{
		`{"event":"suite_start","suite_name":"cut short"}`,
		`{"event":"update","text":"working..."}`,
	}, "\n")

	c := metrics.NewCollector(metrics.Options{PlanPath: "plan.md", SuiteTotal: 1})
	require.NoError(t, Replay(strings.NewReader(in), c))

	run, err := c.FinalizeRun()
	require.NoError(t, err)
	require.Len(t, run.Suites, 1)
	assert.True(t, run.Suites[0].Aborted)
}

func TestReplaySuiteAbortMarker(t *testing.T) {
	in := strings.Join([]string{
		`{"event":"suite_start","suite_name":"flaky"}`,
		`{"event":"update","text":"step"}`,
		`{"event":"suite_abort"}`,
		`{"event":"suite_start","suite_name":"stable"}`,
		`{"event":"suite_end"}`,
	}, "\n")

	c := metrics.NewCollector(metrics.Options{PlanPath: "plan.md", SuiteTotal: 2})
	require.NoError(t, Replay(strings.NewReader(in), c))

	run, err := c.FinalizeRun()
	require.NoError(t, err)
	require.Len(t, run.Suites, 2)
	assert.True(t, run.Suites[0].Aborted)
	assert.False(t, run.Suites[1].Aborted)
}
