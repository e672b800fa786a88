package rework

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a request or configuration failed validation.
	ErrValidation = errors.New("validation error")

	// ErrStageOrder indicates a transition was attempted from the wrong stage.
	ErrStageOrder = errors.New("stage out of order")

	// ErrTerminal indicates an operation on a session that already finished.
	ErrTerminal = errors.New("session already finished")

	// ErrUnknownCandidate indicates a selection that is not one of the
	// session's candidates.
	ErrUnknownCandidate = errors.New("unknown candidate")

	// ErrEmptySelection indicates there is no selected text to work on.
	ErrEmptySelection = errors.New("empty selection")

	// ErrEmptyPrompt indicates a blank question or objective.
	ErrEmptyPrompt = errors.New("empty prompt")
)
