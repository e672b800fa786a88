package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/rework"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Interface compliance check.
var _ rework.Gateway = (*Client)(nil)

// Client implements [rework.Gateway] against an Ollama /api/generate
// endpoint. It makes exactly one attempt per call.
type Client struct {
	baseURL    string
	endpoint   Endpoint
	header     http.Header
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the server address, or the full relay URL when used with
// [WithEndpoint](Relay). Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithEndpoint selects direct or relay addressing.
func WithEndpoint(e Endpoint) Option {
	return func(c *Client) { c.endpoint = e }
}

// WithHeader adds a header to every request, e.g. relay credentials.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.header.Add(key, value) }
}

// WithRateLimit paces calls to at most r per second with the given burst.
// A call waiting for its turn gives up when its context is done.
func WithRateLimit(r rate.Limit, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(r, burst) }
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a new [Client] with the given options.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		header:     make(http.Header),
		httpClient: http.DefaultClient,
		logger:     zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Execute sends one generate request and returns the model's text. Every
// error is a *rework.Failure.
func (c *Client) Execute(ctx context.Context, req rework.Request) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", rework.NewConnectionError(fmt.Errorf("ollama: rate limit: %w", err))
		}
	}

	body, err := json.Marshal(generateRequest{Model: req.Model, Prompt: req.Prompt, Stream: false})
	if err != nil {
		return "", rework.NewConnectionError(fmt.Errorf("ollama: %w", err))
	}

	url := c.generateURL()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", rework.NewConnectionError(fmt.Errorf("ollama: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.setHeaders(httpReq)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Debug("ollama request failed", zap.String("url", url), zap.Error(err))
		return "", rework.NewConnectionError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	c.logger.Debug("ollama response",
		zap.String("url", url),
		zap.String("model", req.Model),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(respBody)),
		zap.Duration("duration", time.Since(start)))

	if !isSuccess(resp.StatusCode) {
		return "", rework.NewBackendError(resp.StatusCode, string(respBody))
	}
	if err != nil {
		return "", rework.NewConnectionError(fmt.Errorf("ollama: read body: %w", err))
	}
	return decodeGenerate(respBody)
}

// decodeGenerate validates a 2xx body. A missing or null "response" field is
// malformed; an empty string is a valid answer.
func decodeGenerate(body []byte) (string, error) {
	var gr generateResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return "", rework.NewMalformedResponse(string(body), err)
	}
	if gr.Response == nil {
		return "", rework.NewMalformedResponse(string(body), nil)
	}
	return *gr.Response, nil
}

// Ping lists the models installed on a direct server. Relays do not expose
// the tags endpoint, so Ping returns an error wrapping errors.ErrUnsupported
// for them.
func (c *Client) Ping(ctx context.Context) ([]string, error) {
	if c.endpoint == Relay {
		return nil, fmt.Errorf("ollama: ping relay endpoint: %w", errors.ErrUnsupported)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.directURL(tagsPath), nil)
	if err != nil {
		return nil, rework.NewConnectionError(fmt.Errorf("ollama: %w", err))
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, rework.NewConnectionError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if !isSuccess(resp.StatusCode) {
		return nil, rework.NewBackendError(resp.StatusCode, string(body))
	}
	if err != nil {
		return nil, rework.NewConnectionError(fmt.Errorf("ollama: read body: %w", err))
	}

	var tr tagsResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, rework.NewMalformedResponse(string(body), err)
	}
	names := make([]string, 0, len(tr.Models))
	for _, m := range tr.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

func (c *Client) generateURL() string {
	if c.endpoint == Relay {
		return c.baseURL
	}
	return c.directURL(generatePath)
}

func (c *Client) directURL(path string) string {
	return strings.TrimRight(c.baseURL, "/") + path
}

func (c *Client) setHeaders(r *http.Request) {
	for k, vs := range c.header {
		for _, v := range vs {
			r.Header.Add(k, v)
		}
	}
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
