package main

import (
	"context"
	"fmt"

	"github.com/fwojciec/rework"
	"github.com/fwojciec/rework/fs"
	reworkjson "github.com/fwojciec/rework/json"
	"github.com/spf13/cobra"
)

func newTransformCmd(a *app) *cobra.Command {
	var file, lines, objective, record string

	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Rewrite a region of a file",
		Long: `Rewrite a region of a file in an interactive session.

The model proposes strategies for your objective. You pick one, the model
applies it and reviews the result, and the file is written only if you
approve the change.

Examples:
  # Rewrite lines 10 to 24
  rework transform --file main.py --lines 10:24

  # Skip the objective prompt and keep a record of the session
  rework transform --file main.py --objective "add type hints" --record session.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lr, err := fs.ParseLineRange(lines)
			if err != nil {
				return err
			}
			region, err := fs.Open(file, lr)
			if err != nil {
				return err
			}
			gw, err := a.gateway(cmd.Context())
			if err != nil {
				return err
			}

			pipeline := rework.NewPipeline(gw, a.cfg.StageModels(), rework.WithLogger(a.logger))
			started := make(chan struct{})
			finished := make(chan *rework.Session, 1)
			run := func(ctx context.Context, ui rework.UI) error {
				close(started)
				if objective != "" {
					ui = presetObjective{UI: ui, objective: objective}
				}
				finished <- pipeline.Run(ctx, region, ui)
				return nil
			}

			if err := a.runTUI(cmd.Context(), run); err != nil {
				return fmt.Errorf("TUI: %w", err)
			}

			// The TUI may quit on a signal before the session ends. Every
			// checkpoint honours the cancelled context, so the wait is short.
			select {
			case <-started:
			default:
				return nil
			}
			s := <-finished

			// The alt screen is gone; repeat the result on the main one.
			fmt.Fprintln(cmd.OutOrStdout(), rework.Summary(s))
			return recordSession(record, s)
		},
	}

	f := cmd.Flags()
	f.StringVar(&file, "file", "", "file to rewrite")
	f.StringVar(&lines, "lines", "", "line range A:B, A: or A (default: whole file)")
	f.StringVar(&objective, "objective", "", "objective to use instead of asking for one")
	f.StringVar(&record, "record", "", "write a JSON record of the session to this path")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func recordSession(path string, s *rework.Session) error {
	if path == "" {
		return nil
	}
	if err := reworkjson.Save(path, s); err != nil {
		return fmt.Errorf("record session: %w", err)
	}
	return nil
}

// presetObjective answers the objective question without asking.
type presetObjective struct {
	rework.UI
	objective string
}

func (p presetObjective) PromptUser(context.Context, string, string) (string, bool) {
	return p.objective, true
}
