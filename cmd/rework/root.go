package main

import (
	"context"
	"fmt"
	"io"

	"github.com/fwojciec/rework"
	bt "github.com/fwojciec/rework/bubbletea"
	"github.com/fwojciec/rework/config"
	"github.com/fwojciec/rework/goldmark"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type apiKeys struct {
	anthropic string
	gemini    string
}

// app holds state shared by all subcommands. Flags are bound to its fields
// and setup turns them into cfg and logger before any subcommand runs.
type app struct {
	keys apiKeys

	configPath string
	provider   string
	endpoint   string
	model      string
	logFile    string

	cfg    *config.Config
	logger *zap.Logger

	// runTUI hosts an interactive session. Replaced in tests.
	runTUI func(ctx context.Context, run bt.RunFunc) error
}

func newApp(keys apiKeys) *app {
	return &app{keys: keys, logger: zap.NewNop(), runTUI: runTerminal}
}

func newRootCmd(keys apiKeys) *cobra.Command {
	return newApp(keys).rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "rework",
		Short: "Rewrite code with a language model, one approved change at a time",
		Long: `rework asks a language model to propose strategies for changing a piece of
code, lets you pick one, has the model apply and review it, and writes the
result back only after you approve it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.setup()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default ~/.config/rework/config.yaml)")
	pf.StringVar(&a.provider, "provider", "", "model provider: ollama, anthropic, gemini")
	pf.StringVar(&a.endpoint, "endpoint", "", "ollama endpoint style: direct, relay")
	pf.StringVar(&a.model, "model", "", "model for every stage (overrides the config file)")
	pf.StringVar(&a.logFile, "log-file", "", "write diagnostic logs to this file")

	root.AddCommand(
		newTransformCmd(a),
		newExplainCmd(a),
		newAskCmd(a),
		newHealthCmd(a),
	)
	return root
}

// setup loads the config and applies flag overrides.
func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.provider != "" {
		cfg.Provider = a.provider
	}
	if a.endpoint != "" {
		cfg.Ollama.Endpoint = a.endpoint
	}
	if a.model != "" {
		cfg.SetModel(a.model)
		cfg.Models = config.StageOverrides{}
	}
	if a.logFile != "" {
		cfg.Log.File = a.logFile
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	a.cfg = cfg
	a.logger = logger
	a.logger.Debug("config loaded",
		zap.String("provider", cfg.Provider),
		zap.String("model", cfg.Model()))
	return nil
}

// close flushes the logger. It runs after every command, including failed ones.
func (a *app) close() {
	_ = a.logger.Sync()
}

func (a *app) gateway(ctx context.Context) (rework.Gateway, error) {
	return resolveGateway(ctx, a.cfg, a.keys, a.logger)
}

func runTerminal(ctx context.Context, run bt.RunFunc) error {
	return bt.Run(ctx, bt.New(ctx, run, rework.DefaultTheme()))
}

// printMarkdown writes a model answer to w as styled terminal text.
func printMarkdown(w io.Writer, answer string) error {
	_, err := fmt.Fprintln(w, goldmark.Render(answer, 0, rework.DefaultTheme()))
	return err
}
