package rework

import (
	"context"
	"fmt"
	"strings"
)

// Gateway sends a single prompt to a remote text-generation service.
//
// Implementations perform exactly one attempt per call and never retry. Every
// non-nil error they return is a *Failure. A Gateway has no knowledge of the
// pipeline stage it is serving.
type Gateway interface {
	Execute(ctx context.Context, req Request) (string, error)
}

// Request carries the model identifier and the prompt text.
type Request struct {
	Model  string // model ID recognized by the remote service; required
	Prompt string // not validated locally
}

// Validate checks the constraints shared by all gateways.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Model) == "" {
		return fmt.Errorf("model must not be empty: %w", ErrValidation)
	}
	return nil
}

// StageModels selects a model for each remote call of the pipeline.
type StageModels struct {
	Brainstorm string
	Execute    string
	Verify     string
}

// SingleModel uses the same model for all three calls.
func SingleModel(model string) StageModels {
	return StageModels{Brainstorm: model, Execute: model, Verify: model}
}

// Validate checks that every stage has a model.
func (m StageModels) Validate() error {
	for _, s := range []struct{ name, model string }{
		{"brainstorm", m.Brainstorm},
		{"execute", m.Execute},
		{"verify", m.Verify},
	} {
		if strings.TrimSpace(s.model) == "" {
			return fmt.Errorf("%s model must not be empty: %w", s.name, ErrValidation)
		}
	}
	return nil
}
