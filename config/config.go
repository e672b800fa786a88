// Package config loads rework settings from a YAML file and the environment.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/rework"
	"github.com/fwojciec/rework/anthropic"
	"github.com/fwojciec/rework/gemini"
	"github.com/fwojciec/rework/ollama"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap/zapcore"
)

const (
	maxConfigFileSize = 1024 * 1024 // 1MB
	envPrefix         = "REWORK_"
)

// Providers.
const (
	ProviderOllama    = "ollama"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// Config holds all settings.
type Config struct {
	Provider  string         `koanf:"provider"`
	Ollama    OllamaConfig   `koanf:"ollama"`
	Anthropic ModelConfig    `koanf:"anthropic"`
	Gemini    ModelConfig    `koanf:"gemini"`
	Models    StageOverrides `koanf:"models"`
	Log       LogConfig      `koanf:"log"`
}

// OllamaConfig configures the Ollama gateway.
type OllamaConfig struct {
	BaseURL   string            `koanf:"base_url"`
	Endpoint  string            `koanf:"endpoint"` // "direct" or "relay"
	Model     string            `koanf:"model"`
	Timeout   time.Duration     `koanf:"timeout"`    // 0 waits forever
	RateLimit float64           `koanf:"rate_limit"` // requests per second, 0 disables
	RateBurst int               `koanf:"rate_burst"`
	Headers   map[string]string `koanf:"headers"` // sent with every request, e.g. relay credentials
}

// ModelConfig configures a hosted gateway.
type ModelConfig struct {
	Model     string `koanf:"model"`
	MaxTokens int    `koanf:"max_tokens"`
}

// StageOverrides replaces the provider model for individual stages.
type StageOverrides struct {
	Brainstorm string `koanf:"brainstorm"`
	Execute    string `koanf:"execute"`
	Verify     string `koanf:"verify"`
}

// LogConfig configures the diagnostic log.
type LogConfig struct {
	File  string `koanf:"file"`
	Level string `koanf:"level"`
}

// DefaultPath returns ~/.config/rework/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "rework", "config.yaml"), nil
}

// Load reads the YAML file at path, then overrides it with REWORK_*
// environment variables. A missing file is not an error. An empty path means
// [DefaultPath].
//
// Environment variables map onto keys by splitting on the first underscore
// after the prefix:
//
//	REWORK_PROVIDER        -> provider
//	REWORK_OLLAMA_BASE_URL -> ollama.base_url
//	REWORK_MODELS_VERIFY   -> models.verify
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	content, err := readConfigFile(path)
	if err != nil {
		return nil, err
	}
	if content != nil {
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// readConfigFile returns nil content when the file does not exist.
func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("config path %s is a directory: %w", path, rework.ErrValidation)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large (%d bytes, max %d): %w", info.Size(), maxConfigFileSize, rework.ErrValidation)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	section, field, ok := strings.Cut(lower, "_")
	if !ok {
		return lower
	}
	return section + "." + field
}

// Default returns a Config with every default applied.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Provider == "" {
		cfg.Provider = ProviderOllama
	}
	if cfg.Ollama.BaseURL == "" {
		cfg.Ollama.BaseURL = ollama.DefaultBaseURL
	}
	if cfg.Ollama.Endpoint == "" {
		cfg.Ollama.Endpoint = ollama.Direct.String()
	}
	if cfg.Ollama.Model == "" {
		cfg.Ollama.Model = ollama.DefaultModel
	}
	if cfg.Ollama.RateLimit > 0 && cfg.Ollama.RateBurst == 0 {
		cfg.Ollama.RateBurst = 1
	}
	if cfg.Anthropic.Model == "" {
		cfg.Anthropic.Model = anthropic.DefaultModel
	}
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = gemini.DefaultModel
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderOllama, ProviderAnthropic, ProviderGemini:
	default:
		return fmt.Errorf("unknown provider %q: %w", c.Provider, rework.ErrValidation)
	}
	if _, ok := ollama.ParseEndpoint(c.Ollama.Endpoint); !ok {
		return fmt.Errorf("unknown ollama endpoint %q: %w", c.Ollama.Endpoint, rework.ErrValidation)
	}
	if c.Ollama.Timeout < 0 {
		return fmt.Errorf("ollama timeout must not be negative: %w", rework.ErrValidation)
	}
	if c.Ollama.RateLimit < 0 || c.Ollama.RateBurst < 0 {
		return fmt.Errorf("ollama rate limit must not be negative: %w", rework.ErrValidation)
	}
	if c.Anthropic.MaxTokens < 0 || c.Gemini.MaxTokens < 0 {
		return fmt.Errorf("max tokens must not be negative: %w", rework.ErrValidation)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log level %q: %w", c.Log.Level, rework.ErrValidation)
	}
	return c.StageModels().Validate()
}

// Model returns the model configured for the active provider.
func (c *Config) Model() string {
	switch c.Provider {
	case ProviderAnthropic:
		return c.Anthropic.Model
	case ProviderGemini:
		return c.Gemini.Model
	default:
		return c.Ollama.Model
	}
}

// SetModel replaces the model of the active provider.
func (c *Config) SetModel(model string) {
	switch c.Provider {
	case ProviderAnthropic:
		c.Anthropic.Model = model
	case ProviderGemini:
		c.Gemini.Model = model
	default:
		c.Ollama.Model = model
	}
}

// StageModels returns the model for each pipeline stage, falling back to the
// active provider's model.
func (c *Config) StageModels() rework.StageModels {
	m := rework.SingleModel(c.Model())
	if c.Models.Brainstorm != "" {
		m.Brainstorm = c.Models.Brainstorm
	}
	if c.Models.Execute != "" {
		m.Execute = c.Models.Execute
	}
	if c.Models.Verify != "" {
		m.Verify = c.Models.Verify
	}
	return m
}
