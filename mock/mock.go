// Package mock provides test doubles for rework interfaces using function fields.
package mock

import (
	"context"

	"github.com/fwojciec/rework"
)

// Interface compliance checks.
var (
	_ rework.Gateway = (*Gateway)(nil)
	_ rework.Buffer  = (*Buffer)(nil)
	_ rework.UI      = (*UI)(nil)
)

// Gateway is a test double for rework.Gateway.
// Set ExecuteFn before calling Execute.
type Gateway struct {
	ExecuteFn func(ctx context.Context, req rework.Request) (string, error)
}

// Execute delegates to ExecuteFn.
func (g *Gateway) Execute(ctx context.Context, req rework.Request) (string, error) {
	return g.ExecuteFn(ctx, req)
}

// Buffer is a test double for rework.Buffer.
// SelectionFn panics when nil to catch missing setup. ApplyReplacementFn is
// nil-safe because most tests only assert that it was not called.
type Buffer struct {
	SelectionFn        func() string
	ApplyReplacementFn func(text string) error
}

// Selection delegates to SelectionFn.
func (b *Buffer) Selection() string {
	return b.SelectionFn()
}

// ApplyReplacement delegates to ApplyReplacementFn. Returns nil when
// ApplyReplacementFn is not set.
func (b *Buffer) ApplyReplacement(text string) error {
	if b.ApplyReplacementFn == nil {
		return nil
	}
	return b.ApplyReplacementFn(text)
}

// UI is a test double for rework.UI.
// The interactive functions panic when nil. ReportProgressFn and
// ReportResultFn are nil-safe (no-op).
type UI struct {
	PromptUserFn     func(ctx context.Context, question, placeholder string) (string, bool)
	PresentChoicesFn func(ctx context.Context, options []string) (string, bool)
	ConfirmFn        func(ctx context.Context, message string) bool
	ReportProgressFn func(label string)
	ReportResultFn   func(text string)
}

// PromptUser delegates to PromptUserFn.
func (u *UI) PromptUser(ctx context.Context, question, placeholder string) (string, bool) {
	return u.PromptUserFn(ctx, question, placeholder)
}

// PresentChoices delegates to PresentChoicesFn.
func (u *UI) PresentChoices(ctx context.Context, options []string) (string, bool) {
	return u.PresentChoicesFn(ctx, options)
}

// Confirm delegates to ConfirmFn.
func (u *UI) Confirm(ctx context.Context, message string) bool {
	return u.ConfirmFn(ctx, message)
}

// ReportProgress delegates to ReportProgressFn when set.
func (u *UI) ReportProgress(label string) {
	if u.ReportProgressFn != nil {
		u.ReportProgressFn(label)
	}
}

// ReportResult delegates to ReportResultFn when set.
func (u *UI) ReportResult(text string) {
	if u.ReportResultFn != nil {
		u.ReportResultFn(text)
	}
}
