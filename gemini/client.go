package gemini

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/fwojciec/rework"
	"google.golang.org/genai"
)

// Interface compliance check.
var _ rework.Gateway = (*Client)(nil)

// Client implements [rework.Gateway] for the Google Gemini API.
type Client struct {
	client     *genai.Client
	model      string
	maxTokens  int32
	baseURL    string
	httpClient *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithModel sets the fallback model ID used when a request names none.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// WithMaxTokens caps the length of each answer.
func WithMaxTokens(n int32) Option {
	return func(c *Client) { c.maxTokens = n }
}

// WithBaseURL overrides the API endpoint.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a new Gemini [Client] with the given API key and options.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	c := &Client{
		model:     DefaultModel,
		maxTokens: defaultMaxTokens,
	}
	for _, o := range opts {
		o(c)
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  c.httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: c.baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	c.client = gc
	return c, nil
}

// Execute sends req.Prompt as a single user turn and returns the reply text.
// Every error is a *rework.Failure.
func (c *Client) Execute(ctx context.Context, req rework.Request) (string, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}
	resp, err := c.client.Models.GenerateContent(ctx, model, genai.Text(req.Prompt), BuildConfig(c.maxTokens))
	if err != nil {
		return "", ConvertError(err)
	}
	return ExtractText(resp)
}

// BuildConfig returns the generation config for a request.
// Exported for testing.
func BuildConfig(maxTokens int32) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{MaxOutputTokens: maxTokens}
}

// ExtractText joins the non-thought text parts of the first candidate. A
// response without candidates or text parts is malformed.
// Exported for testing.
func ExtractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", rework.NewMalformedResponse(describe(resp), nil)
	}
	var b strings.Builder
	found := false
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought || part.FunctionCall != nil || part.InlineData != nil {
			continue
		}
		found = true
		b.WriteString(part.Text)
	}
	if !found {
		return "", rework.NewMalformedResponse(describe(resp), nil)
	}
	return b.String(), nil
}

// ConvertError maps an SDK error onto the failure taxonomy: API errors carry
// their status code, transport errors are connection errors, anything else
// is treated as a malformed reply.
// Exported for testing.
func ConvertError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return rework.NewBackendError(apiErr.Code, apiErr.Message)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return rework.NewBackendError(apiErrPtr.Code, apiErrPtr.Message)
	}
	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return rework.NewConnectionError(err)
	}
	return rework.NewMalformedResponse(err.Error(), err)
}

func describe(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return "empty response"
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return fmt.Sprintf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason != "" {
		return fmt.Sprintf("no text in response (finish reason %s)", resp.Candidates[0].FinishReason)
	}
	return "no text in response"
}
