package bubbletea_test

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/fwojciec/rework"
	bt "github.com/fwojciec/rework/bubbletea"
	"github.com/fwojciec/rework/goldmark"
	"github.com/stretchr/testify/assert"
)

func TestPromptBlock(t *testing.T) {
	t.Parallel()

	styles := bt.NewStyles(rework.DefaultTheme())

	t.Run("shows question before an answer", func(t *testing.T) {
		t.Parallel()
		b := bt.NewPromptBlock("What change?", styles)
		view := ansi.Strip(b.View(80))
		assert.Contains(t, view, "What change?")
		assert.NotContains(t, view, ">")
	})

	t.Run("shows answer", func(t *testing.T) {
		t.Parallel()
		b := bt.NewPromptBlock("What change?", styles)
		b.SetAnswer("add type hints")
		assert.Contains(t, ansi.Strip(b.View(80)), "> add type hints")
	})

	t.Run("shows cancellation", func(t *testing.T) {
		t.Parallel()
		b := bt.NewPromptBlock("What change?", styles)
		b.SetCancelled()
		assert.Contains(t, ansi.Strip(b.View(80)), "(cancelled)")
	})
}

func TestChoiceBlock(t *testing.T) {
	t.Parallel()

	styles := bt.NewStyles(rework.DefaultTheme())
	options := []string{"Add parameter annotations", "Add a return annotation", "Add docstring"}

	t.Run("numbers options and marks the cursor", func(t *testing.T) {
		t.Parallel()
		b := bt.NewChoiceBlock("Choose a strategy:", options, styles)
		view := ansi.Strip(b.View(80))
		assert.Contains(t, view, "Choose a strategy:")
		assert.Contains(t, view, "> 1. Add parameter annotations")
		assert.Contains(t, view, "  2. Add a return annotation")
		assert.Contains(t, view, "  3. Add docstring")
	})

	t.Run("cursor moves and wraps", func(t *testing.T) {
		t.Parallel()
		b := bt.NewChoiceBlock("", options, styles)

		b.Update(key(tea.KeyDown))
		assert.Equal(t, 1, b.Cursor())
		b.Update(runes("j"))
		assert.Equal(t, 2, b.Cursor())
		b.Update(key(tea.KeyDown))
		assert.Equal(t, 0, b.Cursor())
		b.Update(key(tea.KeyUp))
		assert.Equal(t, 2, b.Cursor())
		b.Update(runes("k"))
		assert.Equal(t, 1, b.Cursor())
	})

	t.Run("pick freezes the cursor", func(t *testing.T) {
		t.Parallel()
		b := bt.NewChoiceBlock("", options, styles)

		choice, ok := b.Pick(2)
		assert.True(t, ok)
		assert.Equal(t, "Add docstring", choice)

		b.Update(key(tea.KeyDown))
		assert.Equal(t, 2, b.Cursor())
	})

	t.Run("pick out of range", func(t *testing.T) {
		t.Parallel()
		b := bt.NewChoiceBlock("", options, styles)
		_, ok := b.Pick(3)
		assert.False(t, ok)
		_, ok = b.Pick(-1)
		assert.False(t, ok)
	})

	t.Run("long options are truncated unless highlighted", func(t *testing.T) {
		t.Parallel()
		long := strings.Repeat("word ", 20)
		b := bt.NewChoiceBlock("", []string{long, long}, styles)
		lines := strings.Split(ansi.Strip(b.View(30)), "\n")
		for _, line := range lines {
			assert.LessOrEqual(t, ansi.StringWidth(line), 30)
		}
		assert.Contains(t, ansi.Strip(b.View(30)), "…")
		// Highlighted option wraps over several lines, the other takes one.
		assert.Greater(t, len(lines), 3)
	})

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()
		b := bt.NewChoiceBlock("", options, styles)
		b.SetCancelled()
		view := ansi.Strip(b.View(80))
		assert.Contains(t, view, "(cancelled)")
		assert.NotContains(t, view, ">")
	})
}

func TestMarkdownBlock(t *testing.T) {
	t.Parallel()

	r := goldmark.New(rework.DefaultTheme())
	b := bt.NewMarkdownBlock("**Strategy:** Add docstring\n\n```\ndef add(a, b): ...\n```", r)
	view := ansi.Strip(b.View(80))
	assert.Contains(t, view, "Strategy: Add docstring")
	assert.Contains(t, view, "│ def add(a, b): ...")
}

func TestResultBlock(t *testing.T) {
	t.Parallel()

	styles := bt.NewStyles(rework.DefaultTheme())
	b := bt.NewResultBlock("The change was applied.", styles, goldmark.New(rework.DefaultTheme()))
	view := ansi.Strip(b.View(80))
	assert.Contains(t, view, "Result")
	assert.Contains(t, view, "The change was applied.")
}

func TestNoteBlock(t *testing.T) {
	t.Parallel()

	b := bt.NewNoteBlock("Verifying result...", bt.NewStyles(rework.DefaultTheme()))
	assert.Equal(t, "· Verifying result...", ansi.Strip(b.View(80)))
}
