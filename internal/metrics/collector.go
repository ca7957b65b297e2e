// Package metrics captures structured metrics from agent streaming runs:
// per-suite timing, token usage, tool-call correlation, and screenshot
// payload estimates, consolidated into a JSON run report.
package metrics

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Lifecycle errors. These indicate caller misuse of the suite state machine
// and are the only errors this package ever propagates.
var (
	ErrSuiteActive   = errors.New("a suite is already active; finish it before continuing")
	ErrNoActiveSuite = errors.New("no active suite")
)

// Options configures a Collector for one run.
type Options struct {
	PlanPath   string
	BaseURL    string
	SuiteTotal int
}

// Collector accumulates per-suite and aggregate metrics for one run. It is
// driven sequentially by the agent-execution loop: StartSuite, then
// RecordUpdate per streamed fragment, then FinishSuite (or AbortActiveSuite
// on the error path), and finally FinalizeRun. Not safe for concurrent use.
type Collector struct {
	planPath   string
	baseURL    string
	suiteTotal int

	runID     string
	startedAt time.Time

	active    *suiteRecord
	completed []*SuiteReport
	usage     *Usage

	now func() time.Time
}

// NewCollector creates a collector and stamps the run start.
func NewCollector(opts Options) *Collector {
	c := &Collector{
		planPath:   opts.PlanPath,
		baseURL:    opts.BaseURL,
		suiteTotal: opts.SuiteTotal,
		runID:      uuid.NewString(),
		now:        time.Now,
	}
	c.startedAt = c.now()
	return c
}

// StartSuite opens a new suite. Exactly one suite may be active at a time.
func (c *Collector) StartSuite(name string, index int) error {
	if c.active != nil {
		return ErrSuiteActive
	}
	c.active = newSuiteRecord(name, index, c.suiteTotal, c.now())
	return nil
}

// RecordUpdate appends a streamed fragment to the active suite. Updates
// arriving with no active suite (late fragments from a cancelled stream) are
// dropped silently.
func (c *Collector) RecordUpdate(u *Update) {
	if c.active == nil || u == nil {
		return
	}
	c.active.appendUpdate(u, c.now())
}

// FinishSuite seals the active suite into a report and folds its usage into
// the run aggregate.
func (c *Collector) FinishSuite() (*SuiteReport, error) {
	if c.active == nil {
		return nil, ErrNoActiveSuite
	}
	return c.sealActive(false), nil
}

// AbortActiveSuite seals the active suite like FinishSuite but marks the
// report aborted. Returns nil when no suite is active, so error paths can
// call it unconditionally.
func (c *Collector) AbortActiveSuite() *SuiteReport {
	if c.active == nil {
		return nil
	}
	return c.sealActive(true)
}

func (c *Collector) sealActive(aborted bool) *SuiteReport {
	report, usage := c.active.finalize(c.now())
	report.Aborted = aborted
	if usage != nil {
		if c.usage == nil {
			c.usage = &Usage{}
		}
		c.usage.Add(usage)
	}
	c.completed = append(c.completed, report)
	c.active = nil
	return report
}

// FinalizeRun produces the consolidated run report. The active suite must
// have been finished or aborted first.
func (c *Collector) FinalizeRun() (*RunReport, error) {
	if c.active != nil {
		return nil, ErrSuiteActive
	}
	completedAt := c.now()
	duration := completedAt.Sub(c.startedAt).Seconds()
	if duration < 0 {
		duration = 0
	}

	screenshotCalls := 0
	screenshotTokens := 0
	for _, s := range c.completed {
		screenshotCalls += s.Screenshots.Calls
		if s.Screenshots.EstimatedInputTokens != nil {
			screenshotTokens += *s.Screenshots.EstimatedInputTokens
		}
	}

	return &RunReport{
		Run: RunSummary{
			RunID:           c.runID,
			PlanPath:        c.planPath,
			BaseURL:         optString(c.baseURL),
			SuiteTotal:      c.suiteTotal,
			StartedAt:       c.startedAt.UTC().Format(time.RFC3339Nano),
			CompletedAt:     completedAt.UTC().Format(time.RFC3339Nano),
			DurationSeconds: duration,
			Usage:           c.usage.clone(),
			Screenshots: RunScreenshots{
				Calls:                optInt(screenshotCalls),
				EstimatedInputTokens: optInt(screenshotTokens),
			},
		},
		Suites: append([]*SuiteReport(nil), c.completed...),
	}, nil
}

// CompletedSuites returns the reports sealed so far, in completion order.
func (c *Collector) CompletedSuites() []*SuiteReport {
	return append([]*SuiteReport(nil), c.completed...)
}
