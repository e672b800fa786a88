package main

import (
	"strings"

	"github.com/fwojciec/rework"
	"github.com/fwojciec/rework/fs"
	"github.com/spf13/cobra"
)

func newExplainCmd(a *app) *cobra.Command {
	var file, lines string

	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Explain a region of a file",
		Long: `Ask the model to explain a region of a file. Nothing is modified.

Examples:
  rework explain --file main.py --lines 10:24`,
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
			answer, err := rework.Explain(cmd.Context(), gw, a.cfg.Model(), region.Selection())
			if err != nil {
				return err
			}
			return printMarkdown(cmd.OutOrStdout(), answer)
		},
	}

	f := cmd.Flags()
	f.StringVar(&file, "file", "", "file to read")
	f.StringVar(&lines, "lines", "", "line range A:B, A: or A (default: whole file)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newAskCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ask QUESTION...",
		Short: "Ask the model a question",
		Long: `Send a question to the model as-is, without any code context.

Examples:
  rework ask what is a closure`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gw, err := a.gateway(cmd.Context())
			if err != nil {
				return err
			}
			answer, err := rework.Ask(cmd.Context(), gw, a.cfg.Model(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return printMarkdown(cmd.OutOrStdout(), answer)
		},
	}
}
