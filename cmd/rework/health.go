package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/fwojciec/rework/config"
	"github.com/spf13/cobra"
)

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the Ollama server is reachable",
		Long: `Check that the Ollama server is reachable and list its installed models.
Only direct endpoints can be checked.

Examples:
  rework health
  REWORK_OLLAMA_BASE_URL=http://gpu-box:11434 rework health`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.Provider != config.ProviderOllama {
				return fmt.Errorf("health: provider %q cannot be checked, only %q", a.cfg.Provider, config.ProviderOllama)
			}
			models, err := newOllama(a.cfg.Ollama, a.logger).Ping(cmd.Context())
			if err != nil {
				return fmt.Errorf("health: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Ollama at %s is reachable.\n", a.cfg.Ollama.BaseURL)
			if len(models) == 0 {
				fmt.Fprintln(out, "No models installed.")
			} else {
				fmt.Fprintln(out, "Installed models:")
				for _, m := range models {
					fmt.Fprintf(out, "  %s\n", m)
				}
			}
			for _, m := range uniqueModels(a.cfg) {
				if !installed(models, m) {
					fmt.Fprintf(out, "Warning: configured model %q is not installed.\n", m)
				}
			}
			return nil
		},
	}
}

func uniqueModels(cfg *config.Config) []string {
	sm := cfg.StageModels()
	var out []string
	for _, m := range []string{sm.Brainstorm, sm.Execute, sm.Verify} {
		if !slices.Contains(out, m) {
			out = append(out, m)
		}
	}
	return out
}

// installed reports whether model is in models. A name without a tag matches
// its ":latest" variant, as Ollama resolves it.
func installed(models []string, model string) bool {
	for _, m := range models {
		if m == model || strings.TrimSuffix(m, ":latest") == model {
			return true
		}
	}
	return false
}
