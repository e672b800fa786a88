package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/rework"
	"github.com/fwojciec/rework/anthropic"
	"github.com/fwojciec/rework/config"
	"github.com/fwojciec/rework/gemini"
	"github.com/fwojciec/rework/ollama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func configFor(provider string) *config.Config {
	cfg := config.Default()
	cfg.Provider = provider
	return cfg
}

func TestResolveGateway_Ollama(t *testing.T) {
	t.Parallel()
	gw, err := resolveGateway(context.Background(), configFor(config.ProviderOllama), apiKeys{}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &ollama.Client{}, gw)
}

func TestResolveGateway_Anthropic(t *testing.T) {
	t.Parallel()
	gw, err := resolveGateway(context.Background(), configFor(config.ProviderAnthropic), apiKeys{anthropic: "sk-test"}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &anthropic.Client{}, gw)
}

func TestResolveGateway_Gemini(t *testing.T) {
	t.Parallel()
	cfg := configFor(config.ProviderGemini)
	cfg.Gemini.MaxTokens = 1024
	gw, err := resolveGateway(context.Background(), cfg, apiKeys{gemini: "gk-test"}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &gemini.Client{}, gw)
}

func TestResolveGateway_AnthropicMissingKey(t *testing.T) {
	t.Parallel()
	_, err := resolveGateway(context.Background(), configFor(config.ProviderAnthropic), apiKeys{gemini: "gk-test"}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY not set")
}

func TestResolveGateway_GeminiMissingKey(t *testing.T) {
	t.Parallel()
	_, err := resolveGateway(context.Background(), configFor(config.ProviderGemini), apiKeys{anthropic: "sk-test"}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY not set")
}

func TestResolveGateway_UnknownProvider(t *testing.T) {
	t.Parallel()
	_, err := resolveGateway(context.Background(), configFor("openai"), apiKeys{}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestNewOllama_Relay(t *testing.T) {
	t.Parallel()

	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_, _ = w.Write([]byte(`{"response":"ok"}`))
	}))
	defer srv.Close()

	cfg := config.Default().Ollama
	cfg.BaseURL = srv.URL + "/proxy/generate"
	cfg.Endpoint = "relay"

	text, err := newOllama(cfg, zap.NewNop()).Execute(context.Background(), rework.Request{Model: "codegemma", Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, "/proxy/generate", path)
}

func TestNewOllama_RateLimitHonoursContext(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"response":"ok"}`))
	}))
	defer srv.Close()

	cfg := config.Default().Ollama
	cfg.BaseURL = srv.URL
	cfg.RateLimit = 0.001
	cfg.RateBurst = 1
	client := newOllama(cfg, zap.NewNop())

	_, err := client.Execute(context.Background(), rework.Request{Model: "m", Prompt: "1"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = client.Execute(ctx, rework.Request{Model: "m", Prompt: "2"})
	kind, ok := rework.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, rework.ConnectionError, kind)
	assert.Equal(t, int32(1), calls.Load())
}
