// Package anthropic implements [rework.Gateway] for the Anthropic Messages API.
//
// Each call is a single non-streaming request holding one user message. The
// text blocks of the reply are concatenated into the answer.
package anthropic

const (
	defaultBaseURL   = "https://api.anthropic.com"
	defaultMaxTokens = 8192
	apiVersion       = "2023-06-01"
	messagesPath     = "/v1/messages"

	// DefaultModel is the model used when none is configured.
	DefaultModel = "claude-sonnet-4-20250514"
)

// apiRequest is the JSON body sent to the Anthropic Messages API.
type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	Stream    bool         `json:"stream"`
	Messages  []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string            `json:"role"`
	Content []apiContentBlock `json:"content"`
}

type apiContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// apiResponse is the JSON body of a successful reply. Content is a pointer
// so a missing field can be told apart from an empty one.
type apiResponse struct {
	ID         string             `json:"id"`
	Model      string             `json:"model"`
	Content    *[]apiContentBlock `json:"content"`
	StopReason string             `json:"stop_reason"`
}
