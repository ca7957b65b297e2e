package metrics

import (
	"sort"
	"time"
	"unicode/utf8"
)

// suiteRecord is the working state of the currently active suite. It is
// sealed into a SuiteReport by finalize and never reused.
type suiteRecord struct {
	name      string
	index     int
	total     int
	startedAt time.Time

	updates []*Update
	events  []StreamEvent

	toolCalls map[string]*toolCallState
	toolOrder []string

	totalTextChars int

	screenshotCalls    int
	screenshotB64Chars int
	screenshotBytes    int
}

func newSuiteRecord(name string, index, total int, now time.Time) *suiteRecord {
	return &suiteRecord{
		name:      name,
		index:     index,
		total:     total,
		startedAt: now,
		toolCalls: map[string]*toolCallState{},
	}
}

// StreamEvent is the derived per-update summary kept alongside the raw
// update, for detailed replay and debugging.
type StreamEvent struct {
	Ordinal              int      `json:"ordinal"`
	ReceivedAt           string   `json:"received_at"`
	Text                 any      `json:"text"`
	ContentTypes         []string `json:"content_types,omitempty"`
	FinishReason         any      `json:"finish_reason"`
	AdditionalProperties any      `json:"additional_properties"`
	UsageDetails         []*Usage `json:"usage_details,omitempty"`
}

func (r *suiteRecord) appendUpdate(u *Update, now time.Time) {
	r.updates = append(r.updates, u)
	r.totalTextChars += utf8.RuneCountInString(u.Text)

	event := StreamEvent{
		Ordinal:    len(r.updates),
		ReceivedAt: now.UTC().Format(time.RFC3339Nano),
	}
	if u.Text != "" {
		event.Text = safeSerialize(u.Text, maxStringPreview)
	}
	if u.FinishReason != "" {
		event.FinishReason = u.FinishReason
	}
	if u.AdditionalProperties != nil {
		event.AdditionalProperties = safeSerialize(u.AdditionalProperties, maxStringPreview)
	}

	var types []string
	for _, c := range u.Contents {
		types = append(types, c.Type)
		r.inspectToolContent(c, now)
		if c.Type == ContentUsage {
			event.UsageDetails = append(event.UsageDetails, c.Usage.clone())
		}
	}
	event.ContentTypes = uniqueSorted(types)

	r.events = append(r.events, event)
}

func (r *suiteRecord) ensureToolState(callID string) *toolCallState {
	state, ok := r.toolCalls[callID]
	if !ok {
		state = &toolCallState{callID: callID}
		r.toolCalls[callID] = state
		r.toolOrder = append(r.toolOrder, callID)
	}
	return state
}

func (r *suiteRecord) inspectToolContent(c Content, now time.Time) {
	switch c.Type {
	case ContentFunctionCall, ContentMCPServerToolCall:
		if c.CallID == "" {
			return
		}
		state := r.ensureToolState(c.CallID)
		state.recordStart(now)
		if state.name == "" {
			state.name = c.Name
		}
		if state.serverName == "" {
			state.serverName = c.ServerName
		}
		state.argFragments = append(state.argFragments, safeSerialize(c.Arguments, maxStringPreview))

	case ContentFunctionResult, ContentMCPServerToolResult:
		if c.CallID == "" {
			return
		}
		state := r.ensureToolState(c.CallID)
		// A result without a prior call is tolerated: backfill the start so
		// the duration is still computable.
		state.recordStart(now)
		state.outFragments = append(state.outFragments, safeSerialize(c.Result, maxStringPreview))
		if c.Exception != "" {
			state.err = true
		}
		if state.isScreenshotTool() {
			r.recordScreenshotPayload(c.Result)
		}
		state.recordCompletion(now)
	}
}

// recordScreenshotPayload accumulates payload size from a screenshot tool's
// raw result. Base64 content is preferred; otherwise the size of any
// referenced file is used. Fragments of one call may feed both counters;
// this stays an estimate, not an exact accounting.
func (r *suiteRecord) recordScreenshotPayload(output any) {
	r.screenshotCalls++
	if n := base64PayloadLen(output); n > 0 {
		r.screenshotB64Chars += n
		return
	}
	r.screenshotBytes += pathBytes(output)
}

// finalize seals the suite into its report and returns the suite's usage for
// run-level aggregation.
func (r *suiteRecord) finalize(now time.Time) (*SuiteReport, *Usage) {
	duration := now.Sub(r.startedAt).Seconds()
	if duration < 0 {
		duration = 0
	}

	agg := aggregate(r.updates)

	response := ResponseMeta{}
	var usage *Usage
	if agg != nil {
		response.ResponseID = optString(agg.responseID)
		if agg.createdAt != "" {
			response.CreatedAt = agg.createdAt
		}
		if agg.additional != nil {
			response.AdditionalProperties = safeSerialize(agg.additional, maxStringPreview)
		}
		response.MessageCount = agg.messageCount
		if agg.text != "" {
			response.TextExcerpt = safeSerialize(agg.text, maxStringPreview)
		}
		usage = agg.usage
	}

	toolRecords := make([]ToolCall, 0, len(r.toolOrder))
	for _, callID := range r.toolOrder {
		toolRecords = append(toolRecords, r.toolCalls[callID].report())
	}

	report := &SuiteReport{
		SuiteName:       optString(r.name),
		SuiteIndex:      r.index,
		SuiteTotal:      r.total,
		StartedAt:       r.startedAt.UTC().Format(time.RFC3339Nano),
		CompletedAt:     now.UTC().Format(time.RFC3339Nano),
		DurationSeconds: duration,
		UpdatesCount:    len(r.updates),
		TotalTextChars:  r.totalTextChars,
		Usage:           usage.clone(),
		Screenshots: ScreenshotStats{
			Calls:                r.screenshotCalls,
			Base64CharsTotal:     optInt(r.screenshotB64Chars),
			BytesTotal:           optInt(r.screenshotBytes),
			EstimatedInputTokens: optInt(estimateScreenshotTokens(r.screenshotB64Chars, r.screenshotBytes)),
		},
		Response:     response,
		ToolCalls:    toolRecords,
		StreamEvents: r.events,
	}
	return report, usage
}

func uniqueSorted(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := map[string]bool{}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
