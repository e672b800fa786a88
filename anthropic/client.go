package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fwojciec/rework"
)

// Interface compliance check.
var _ rework.Gateway = (*Client)(nil)

// Client implements [rework.Gateway] for the Anthropic Messages API.
type Client struct {
	apiKey     string
	baseURL    string
	maxTokens  int
	httpClient *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the API base URL. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithMaxTokens caps the length of each answer.
func WithMaxTokens(n int) Option {
	return func(c *Client) { c.maxTokens = n }
}

// New creates a new Anthropic [Client] with the given API key and options.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		maxTokens:  defaultMaxTokens,
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Execute sends req.Prompt as a single user message and returns the reply
// text. Every error is a *rework.Failure.
func (c *Client) Execute(ctx context.Context, req rework.Request) (string, error) {
	body, err := json.Marshal(c.buildRequest(req))
	if err != nil {
		return "", rework.NewConnectionError(fmt.Errorf("anthropic: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+messagesPath, bytes.NewReader(body))
	if err != nil {
		return "", rework.NewConnectionError(fmt.Errorf("anthropic: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Api-Key", c.apiKey)
	httpReq.Header.Set("Anthropic-Version", apiVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", rework.NewConnectionError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", rework.NewBackendError(resp.StatusCode, string(respBody))
	}
	if err != nil {
		return "", rework.NewConnectionError(fmt.Errorf("anthropic: read body: %w", err))
	}
	return extractText(respBody)
}

func (c *Client) buildRequest(req rework.Request) apiRequest {
	model := req.Model
	if model == "" {
		model = DefaultModel
	}
	return apiRequest{
		Model:     model,
		MaxTokens: c.maxTokens,
		Stream:    false,
		Messages: []apiMessage{{
			Role:    "user",
			Content: []apiContentBlock{{Type: "text", Text: req.Prompt}},
		}},
	}
}

// extractText joins the text blocks of a reply. A reply without a content
// array, or whose content holds no text block, is malformed.
func extractText(body []byte) (string, error) {
	var ar apiResponse
	if err := json.Unmarshal(body, &ar); err != nil {
		return "", rework.NewMalformedResponse(string(body), err)
	}
	if ar.Content == nil {
		return "", rework.NewMalformedResponse(string(body), nil)
	}
	var b strings.Builder
	found := false
	for _, block := range *ar.Content {
		if block.Type != "text" {
			continue
		}
		found = true
		b.WriteString(block.Text)
	}
	if !found {
		return "", rework.NewMalformedResponse(string(body), nil)
	}
	return b.String(), nil
}
