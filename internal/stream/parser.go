// Package stream reads recorded agent streams: the JSONL transcript the
// orchestrator tees to disk while an agent run is in flight. Each line is
// either a suite lifecycle marker or one streamed response update.
package stream

import (
	"bufio"
	"encoding/json"
	"io"

	"github.com/benwilkes9/mcpmetrics/internal/metrics"
)

// Line event kinds.
const (
	EventSuiteStart = "suite_start"
	EventSuiteEnd   = "suite_end"
	EventSuiteAbort = "suite_abort"
	EventUpdate     = "update"
)

// Event represents a single JSONL line from a recorded stream. Marker lines
// carry only Event (and SuiteName for suite_start); update lines carry the
// response fragment fields.
type Event struct {
	Event     string `json:"event"`
	SuiteName string `json:"suite_name,omitempty"`

	Text                 string         `json:"text,omitempty"`
	FinishReason         string         `json:"finish_reason,omitempty"`
	ResponseID           string         `json:"response_id,omitempty"`
	MessageID            string         `json:"message_id,omitempty"`
	CreatedAt            string         `json:"created_at,omitempty"`
	AdditionalProperties map[string]any `json:"additional_properties,omitempty"`
	Contents             []ContentItem  `json:"contents,omitempty"`
}

// ContentItem is one typed content element within an update line.
type ContentItem struct {
	Type       string         `json:"type"`
	CallID     string         `json:"call_id,omitempty"`
	Name       string         `json:"name,omitempty"`
	ServerName string         `json:"server_name,omitempty"`
	Arguments  any            `json:"arguments,omitempty"`
	Result     any            `json:"result,omitempty"`
	Exception  string         `json:"exception,omitempty"`
	Usage      *metrics.Usage `json:"usage,omitempty"`
}

// Update converts an update line into the collector's input contract.
func (e *Event) Update() *metrics.Update {
	u := &metrics.Update{
		Text:                 e.Text,
		FinishReason:         e.FinishReason,
		ResponseID:           e.ResponseID,
		MessageID:            e.MessageID,
		CreatedAt:            e.CreatedAt,
		AdditionalProperties: e.AdditionalProperties,
	}
	for _, c := range e.Contents {
		u.Contents = append(u.Contents, metrics.Content{
			Type:       c.Type,
			CallID:     c.CallID,
			Name:       c.Name,
			ServerName: c.ServerName,
			Arguments:  c.Arguments,
			Result:     c.Result,
			Exception:  c.Exception,
			Usage:      c.Usage,
		})
	}
	return u
}

// Parser reads JSONL lines and emits Events.
type Parser struct {
	scanner *bufio.Scanner
}

// NewParser creates a Parser that reads from r.
func NewParser(r io.Reader) *Parser {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 1024*1024), 1024*1024) // 1MB line buffer
	return &Parser{scanner: s}
}

// Next reads the next event. Returns io.EOF when done. Blank and malformed
// lines are skipped; lines without an event tag default to updates.
func (p *Parser) Next() (*Event, error) {
	for p.scanner.Scan() {
		line := p.scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var evt Event
		if err := json.Unmarshal(line, &evt); err != nil {
			// Skip malformed lines
			continue
		}
		if evt.Event == "" {
			evt.Event = EventUpdate
		}
		return &evt, nil
	}

	if err := p.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}
