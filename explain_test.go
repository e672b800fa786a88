package rework_test

import (
	"context"
	"testing"

	"github.com/fwojciec/rework"
	"github.com/fwojciec/rework/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExplain(t *testing.T) {
	t.Parallel()

	t.Run("embeds the code", func(t *testing.T) {
		t.Parallel()
		gw := &mock.Gateway{
			ExecuteFn: func(_ context.Context, req rework.Request) (string, error) {
				assert.Equal(t, "codegemma", req.Model)
				assert.Contains(t, req.Prompt, "explain")
				assert.Contains(t, req.Prompt, "x := 1")
				return "It assigns one to x.", nil
			},
		}
		got, err := rework.Explain(context.Background(), gw, "codegemma", "x := 1")
		require.NoError(t, err)
		assert.Equal(t, "It assigns one to x.", got)
	})

	t.Run("empty selection", func(t *testing.T) {
		t.Parallel()
		_, err := rework.Explain(context.Background(), &mock.Gateway{}, "codegemma", " \n")
		assert.ErrorIs(t, err, rework.ErrEmptySelection)
	})

	t.Run("missing model is rejected before the call", func(t *testing.T) {
		t.Parallel()
		_, err := rework.Explain(context.Background(), &mock.Gateway{}, "", "x := 1")
		assert.ErrorIs(t, err, rework.ErrValidation)
	})

	t.Run("gateway failure is returned", func(t *testing.T) {
		t.Parallel()
		gw := &mock.Gateway{
			ExecuteFn: func(context.Context, rework.Request) (string, error) {
				return "", rework.NewBackendError(404, "model not found")
			},
		}
		_, err := rework.Explain(context.Background(), gw, "codegemma", "x := 1")
		kind, ok := rework.KindOf(err)
		require.True(t, ok)
		assert.Equal(t, rework.BackendError, kind)
	})
}

func TestAsk(t *testing.T) {
	t.Parallel()

	t.Run("sends the question verbatim", func(t *testing.T) {
		t.Parallel()
		gw := &mock.Gateway{
			ExecuteFn: func(_ context.Context, req rework.Request) (string, error) {
				assert.Equal(t, "What is a goroutine?", req.Prompt)
				return "A lightweight thread.", nil
			},
		}
		got, err := rework.Ask(context.Background(), gw, "codegemma", "What is a goroutine?")
		require.NoError(t, err)
		assert.Equal(t, "A lightweight thread.", got)
	})

	t.Run("empty question", func(t *testing.T) {
		t.Parallel()
		_, err := rework.Ask(context.Background(), &mock.Gateway{}, "codegemma", "")
		assert.ErrorIs(t, err, rework.ErrEmptyPrompt)
	})

	t.Run("missing model is rejected before the call", func(t *testing.T) {
		t.Parallel()
		_, err := rework.Ask(context.Background(), &mock.Gateway{}, " ", "hi")
		assert.ErrorIs(t, err, rework.ErrValidation)
	})
}
