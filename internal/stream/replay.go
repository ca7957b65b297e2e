package stream

import (
	"errors"
	"fmt"
	"io"

	"github.com/benwilkes9/mcpmetrics/internal/metrics"
)

// CountSuites scans a recorded stream and returns the number of suites it
// contains: the count of suite_start markers, or 1 if the stream has updates
// but no markers at all.
func CountSuites(r io.Reader) (int, error) {
	p := NewParser(r)
	starts := 0
	updates := 0
	for {
		evt, err := p.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("scanning stream: %w", err)
		}
		switch evt.Event {
		case EventSuiteStart:
			starts++
		case EventUpdate:
			updates++
		}
	}
	if starts == 0 && updates > 0 {
		return 1, nil
	}
	return starts, nil
}

// Replay drives a collector from a recorded stream. Marker lines open and
// seal suites; a stream with no markers is treated as one unnamed suite. A
// stream that ends with a suite still open is sealed as aborted (the
// recording was cut short).
func Replay(r io.Reader, c *metrics.Collector) error {
	p := NewParser(r)
	index := 0
	active := false
	implicit := false

	for {
		evt, err := p.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("reading stream: %w", err)
		}

		switch evt.Event {
		case EventSuiteStart:
			index++
			if err := c.StartSuite(evt.SuiteName, index); err != nil {
				return fmt.Errorf("suite %d (%s): %w", index, evt.SuiteName, err)
			}
			active = true

		case EventSuiteEnd:
			if !active {
				continue // stray marker, tolerated
			}
			if _, err := c.FinishSuite(); err != nil {
				return fmt.Errorf("finishing suite %d: %w", index, err)
			}
			active = false

		case EventSuiteAbort:
			c.AbortActiveSuite()
			active = false

		case EventUpdate:
			if !active && index == 0 {
				// No markers in this recording: open one implicit suite.
				index++
				if err := c.StartSuite("", index); err != nil {
					return fmt.Errorf("starting implicit suite: %w", err)
				}
				active = true
				implicit = true
			}
			c.RecordUpdate(evt.Update())
		}
	}

	if active {
		if implicit {
			if _, err := c.FinishSuite(); err != nil {
				return fmt.Errorf("finishing implicit suite: %w", err)
			}
		} else {
			c.AbortActiveSuite()
		}
	}
	return nil
}
