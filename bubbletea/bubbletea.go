// Package bubbletea provides a Bubble Tea TUI that hosts a rework session.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/rework"
)

// RunFunc runs a session against ui. It blocks until the session finishes or
// the context is cancelled.
type RunFunc func(ctx context.Context, ui rework.UI) error

// Run creates and runs the Bubble Tea TUI program. It blocks until the program
// exits. When ctx is cancelled, the program quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// RequestKind identifies what a RequestMsg asks of the user.
type RequestKind int

const (
	RequestText RequestKind = iota + 1
	RequestChoice
	RequestConfirm
)

// RequestMsg asks the user for input. The model sends exactly one Answer on
// Reply.
type RequestMsg struct {
	Kind        RequestKind
	Question    string
	Placeholder string
	Options     []string
	Message     string
	Reply       chan<- Answer
}

// Answer is the user's reply to a RequestMsg. OK is false when the user
// cancelled. For confirmations OK carries the decision.
type Answer struct {
	Text string
	OK   bool
}

// ProgressMsg reports that a long-running step started.
type ProgressMsg struct {
	Label string
}

// ResultMsg carries the final summary of a session.
type ResultMsg struct {
	Text string
}

// DoneMsg signals that the RunFunc returned.
type DoneMsg struct {
	Err error
}
