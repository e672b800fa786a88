// Package gemini implements [rework.Gateway] for the Google Gemini API.
//
// It wraps the google.golang.org/genai SDK. Each call is a single
// GenerateContent request; SDK errors are mapped onto the rework failure
// taxonomy.
package gemini

const (
	// DefaultModel is the model used when none is configured.
	DefaultModel     = "gemini-3.1-pro-preview"
	defaultMaxTokens = 65536
)
