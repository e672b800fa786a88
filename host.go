package rework

import "context"

// Buffer owns the text the user selected.
type Buffer interface {
	// Selection returns the currently selected text. It may be empty.
	Selection() string
	// ApplyReplacement replaces the selected region with text.
	ApplyReplacement(text string) error
}

// UI is the human side of the pipeline. Every prompt can be cancelled; a
// cancelled prompt reports ok == false. Implementations should also treat a
// done ctx as a cancellation.
type UI interface {
	// PromptUser asks for a single line of free text.
	PromptUser(ctx context.Context, question, placeholder string) (answer string, ok bool)
	// PresentChoices asks the user to pick one option.
	PresentChoices(ctx context.Context, options []string) (choice string, ok bool)
	// Confirm asks for a binary approval.
	Confirm(ctx context.Context, message string) bool
	// ReportProgress and ReportResult are best-effort feedback.
	ReportProgress(label string)
	ReportResult(text string)
}
