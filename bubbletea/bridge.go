package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/rework"
)

const choiceQuestion = "Choose a strategy:"

var _ rework.UI = (*Bridge)(nil)

// Bridge implements rework.UI by sending messages to a Bubble Tea model and
// waiting for its answers. Every blocking call returns a cancellation once
// ctx is done.
type Bridge struct {
	ctx context.Context
	ch  chan<- tea.Msg
}

// NewBridge creates a Bridge that delivers messages on ch until ctx is done.
func NewBridge(ctx context.Context, ch chan<- tea.Msg) *Bridge {
	return &Bridge{ctx: ctx, ch: ch}
}

// PromptUser implements rework.UI.
func (b *Bridge) PromptUser(ctx context.Context, question, placeholder string) (string, bool) {
	a := b.ask(ctx, RequestMsg{Kind: RequestText, Question: question, Placeholder: placeholder})
	return a.Text, a.OK
}

// PresentChoices implements rework.UI.
func (b *Bridge) PresentChoices(ctx context.Context, options []string) (string, bool) {
	a := b.ask(ctx, RequestMsg{Kind: RequestChoice, Question: choiceQuestion, Options: options})
	return a.Text, a.OK
}

// Confirm implements rework.UI.
func (b *Bridge) Confirm(ctx context.Context, message string) bool {
	return b.ask(ctx, RequestMsg{Kind: RequestConfirm, Message: message}).OK
}

// ReportProgress implements rework.UI.
func (b *Bridge) ReportProgress(label string) {
	b.send(b.ctx, ProgressMsg{Label: label})
}

// ReportResult implements rework.UI.
func (b *Bridge) ReportResult(text string) {
	b.send(b.ctx, ResultMsg{Text: text})
}

func (b *Bridge) ask(ctx context.Context, req RequestMsg) Answer {
	reply := make(chan Answer, 1)
	req.Reply = reply
	if !b.send(ctx, req) {
		return Answer{}
	}
	select {
	case a := <-reply:
		return a
	case <-ctx.Done():
		return Answer{}
	case <-b.ctx.Done():
		return Answer{}
	}
}

func (b *Bridge) send(ctx context.Context, msg tea.Msg) bool {
	select {
	case b.ch <- msg:
		return true
	case <-ctx.Done():
		return false
	case <-b.ctx.Done():
		return false
	}
}
