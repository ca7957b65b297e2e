package metrics

// Content type tags recognized by the collector. Anything else is recorded
// in the stream event's content_types list but otherwise ignored.
const (
	ContentFunctionCall        = "function_call"
	ContentFunctionResult      = "function_result"
	ContentMCPServerToolCall   = "mcp_server_tool_call"
	ContentMCPServerToolResult = "mcp_server_tool_result"
	ContentUsage               = "usage"
)

// Content is a single typed content item attached to an Update. Which fields
// are meaningful depends on Type: calls carry CallID/Name/Arguments (and
// ServerName for MCP-hosted tools), results carry CallID/Result/Exception,
// and usage items carry Usage.
type Content struct {
	Type       string
	CallID     string
	Name       string
	ServerName string
	Arguments  any
	Result     any
	Exception  string
	Usage      *Usage
}

// Update is one streamed response fragment from an agent run. All fields are
// optional; the zero value is a valid (empty) update.
type Update struct {
	Text                 string
	FinishReason         string
	ResponseID           string
	MessageID            string
	CreatedAt            string
	AdditionalProperties map[string]any
	Contents             []Content
}

// Usage holds token accounting reported by the underlying model client.
type Usage struct {
	InputTokens      int            `json:"input_token_count"`
	OutputTokens     int            `json:"output_token_count"`
	TotalTokens      int            `json:"total_token_count"`
	AdditionalCounts map[string]int `json:"additional_counts,omitempty"`
}

// Add folds other into u, summing numeric fields elementwise and unioning
// additional counts.
func (u *Usage) Add(other *Usage) {
	if other == nil {
		return
	}
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
	u.TotalTokens += other.TotalTokens
	for name, count := range other.AdditionalCounts {
		if u.AdditionalCounts == nil {
			u.AdditionalCounts = map[string]int{}
		}
		u.AdditionalCounts[name] += count
	}
}

// clone returns an independent copy of u, or nil if u is nil.
func (u *Usage) clone() *Usage {
	if u == nil {
		return nil
	}
	c := *u
	if u.AdditionalCounts != nil {
		c.AdditionalCounts = make(map[string]int, len(u.AdditionalCounts))
		for name, count := range u.AdditionalCounts {
			c.AdditionalCounts[name] = count
		}
	}
	return &c
}
