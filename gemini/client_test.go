package gemini_test

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/fwojciec/rework"
	"github.com/fwojciec/rework/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func response(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Role: "model", Parts: parts},
		}},
	}
}

func TestExtractText(t *testing.T) {
	t.Parallel()

	t.Run("joins text parts", func(t *testing.T) {
		t.Parallel()
		got, err := gemini.ExtractText(response(&genai.Part{Text: "Hello"}, &genai.Part{Text: " world"}))
		require.NoError(t, err)
		assert.Equal(t, "Hello world", got)
	})

	t.Run("skips thoughts", func(t *testing.T) {
		t.Parallel()
		got, err := gemini.ExtractText(response(
			&genai.Part{Text: "reasoning", Thought: true},
			&genai.Part{Text: "Answer"},
		))
		require.NoError(t, err)
		assert.Equal(t, "Answer", got)
	})

	t.Run("empty text part is a valid answer", func(t *testing.T) {
		t.Parallel()
		got, err := gemini.ExtractText(response(&genai.Part{Text: ""}))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("no candidates", func(t *testing.T) {
		t.Parallel()
		_, err := gemini.ExtractText(&genai.GenerateContentResponse{})
		kind, ok := rework.KindOf(err)
		require.True(t, ok)
		assert.Equal(t, rework.MalformedResponse, kind)
	})

	t.Run("only thoughts", func(t *testing.T) {
		t.Parallel()
		_, err := gemini.ExtractText(response(&genai.Part{Text: "hmm", Thought: true}))
		kind, ok := rework.KindOf(err)
		require.True(t, ok)
		assert.Equal(t, rework.MalformedResponse, kind)
	})

	t.Run("nil response", func(t *testing.T) {
		t.Parallel()
		_, err := gemini.ExtractText(nil)
		var f *rework.Failure
		require.ErrorAs(t, err, &f)
		assert.Equal(t, "empty response", f.Body)
	})
}

func TestConvertError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		kind rework.FailureKind
	}{
		{"api error", genai.APIError{Code: 429, Message: "quota exceeded"}, rework.BackendError},
		{"wrapped api error pointer", fmt.Errorf("call: %w", &genai.APIError{Code: 400, Message: "bad model"}), rework.BackendError},
		{"network error", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, rework.ConnectionError},
		{"cancelled", context.Canceled, rework.ConnectionError},
		{"deadline", fmt.Errorf("wait: %w", context.DeadlineExceeded), rework.ConnectionError},
		{"unexpected", errors.New("unexpected end of JSON input"), rework.MalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			kind, ok := rework.KindOf(gemini.ConvertError(tt.err))
			require.True(t, ok)
			assert.Equal(t, tt.kind, kind)
		})
	}

	t.Run("api error keeps status and message", func(t *testing.T) {
		t.Parallel()
		var f *rework.Failure
		require.ErrorAs(t, gemini.ConvertError(genai.APIError{Code: 404, Message: "model not found"}), &f)
		assert.Equal(t, 404, f.Status)
		assert.Equal(t, "model not found", f.Body)
	})
}

func TestBuildConfig(t *testing.T) {
	t.Parallel()

	cfg := gemini.BuildConfig(1024)
	assert.Equal(t, int32(1024), cfg.MaxOutputTokens)
}
