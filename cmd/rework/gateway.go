package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fwojciec/rework"
	"github.com/fwojciec/rework/anthropic"
	"github.com/fwojciec/rework/config"
	"github.com/fwojciec/rework/gemini"
	"github.com/fwojciec/rework/ollama"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// resolveGateway builds the gateway for cfg.Provider. API keys are passed in
// as values; env is only read in main().
func resolveGateway(ctx context.Context, cfg *config.Config, keys apiKeys, logger *zap.Logger) (rework.Gateway, error) {
	switch cfg.Provider {
	case config.ProviderOllama:
		return newOllama(cfg.Ollama, logger), nil
	case config.ProviderAnthropic:
		if keys.anthropic == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
		}
		var opts []anthropic.Option
		if cfg.Anthropic.MaxTokens > 0 {
			opts = append(opts, anthropic.WithMaxTokens(cfg.Anthropic.MaxTokens))
		}
		return anthropic.New(keys.anthropic, opts...), nil
	case config.ProviderGemini:
		if keys.gemini == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY not set")
		}
		opts := []gemini.Option{gemini.WithModel(cfg.Gemini.Model)}
		if cfg.Gemini.MaxTokens > 0 {
			opts = append(opts, gemini.WithMaxTokens(int32(cfg.Gemini.MaxTokens)))
		}
		client, err := gemini.New(ctx, keys.gemini, opts...)
		if err != nil {
			return nil, fmt.Errorf("gemini: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown provider %q: must be \"ollama\", \"anthropic\" or \"gemini\"", cfg.Provider)
	}
}

func newOllama(cfg config.OllamaConfig, logger *zap.Logger) *ollama.Client {
	endpoint, _ := ollama.ParseEndpoint(cfg.Endpoint)
	opts := []ollama.Option{
		ollama.WithBaseURL(cfg.BaseURL),
		ollama.WithEndpoint(endpoint),
		ollama.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		ollama.WithLogger(logger.Named("ollama")),
	}
	for k, v := range cfg.Headers {
		opts = append(opts, ollama.WithHeader(k, v))
	}
	if cfg.RateLimit > 0 {
		opts = append(opts, ollama.WithRateLimit(rate.Limit(cfg.RateLimit), cfg.RateBurst))
	}
	return ollama.New(opts...)
}
