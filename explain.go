package rework

import (
	"context"
	"strings"
)

// Explain asks model to explain code. It never modifies anything.
func Explain(ctx context.Context, gateway Gateway, model, code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", ErrEmptySelection
	}
	req := Request{Model: model, Prompt: explainPrompt(code)}
	if err := req.Validate(); err != nil {
		return "", err
	}
	return gateway.Execute(ctx, req)
}

// Ask sends question to model verbatim, without any code context.
func Ask(ctx context.Context, gateway Gateway, model, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", ErrEmptyPrompt
	}
	req := Request{Model: model, Prompt: question}
	if err := req.Validate(); err != nil {
		return "", err
	}
	return gateway.Execute(ctx, req)
}
