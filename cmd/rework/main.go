// Command rework rewrites a region of a file with a language model. The model
// proposes strategies, the user picks one, the model applies and reviews it,
// and nothing is written until the user approves the result.
//
// Usage:
//
//	rework transform --file main.py --lines 10:24
//	rework explain --file main.py --lines 10:24
//	rework ask what is a closure
//	rework health
//
// Settings come from ~/.config/rework/config.yaml, then REWORK_* environment
// variables, then flags. The hosted providers read ANTHROPIC_API_KEY and
// GEMINI_API_KEY.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "rework: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Handle OS signals for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Env vars are read here and passed as values.
	a := newApp(apiKeys{
		anthropic: os.Getenv("ANTHROPIC_API_KEY"),
		gemini:    os.Getenv("GEMINI_API_KEY"),
	})
	defer a.close()
	return a.rootCmd().ExecuteContext(ctx)
}
