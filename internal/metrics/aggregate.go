package metrics

import "strings"

// aggregated is the folded view of a suite's update stream: the final
// response a non-streaming call would have returned.
type aggregated struct {
	responseID   string
	createdAt    string
	additional   map[string]any
	messageCount int
	text         string
	usage        *Usage
}

// aggregate replays a sequence of partial updates into one final response
// view. Returns nil when there were no updates, so callers can distinguish
// "empty suite" from "suite with empty responses".
func aggregate(updates []*Update) *aggregated {
	if len(updates) == 0 {
		return nil
	}

	agg := &aggregated{}
	var text strings.Builder
	seenMessages := map[string]bool{}

	for _, u := range updates {
		text.WriteString(u.Text)
		if agg.responseID == "" {
			agg.responseID = u.ResponseID
		}
		if u.CreatedAt != "" {
			agg.createdAt = u.CreatedAt
		}
		if u.MessageID != "" && !seenMessages[u.MessageID] {
			seenMessages[u.MessageID] = true
			agg.messageCount++
		}
		for key, val := range u.AdditionalProperties {
			if agg.additional == nil {
				agg.additional = map[string]any{}
			}
			agg.additional[key] = val
		}
		for _, c := range u.Contents {
			if c.Type == ContentUsage && c.Usage != nil {
				if agg.usage == nil {
					agg.usage = &Usage{}
				}
				agg.usage.Add(c.Usage)
			}
		}
	}

	// Updates without message IDs still belong to one logical message.
	if agg.messageCount == 0 {
		agg.messageCount = 1
	}
	agg.text = text.String()
	return agg
}
