package bubbletea

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/rework/goldmark"
)

var _ MessageBlock = (*MarkdownBlock)(nil)

// MarkdownBlock renders markdown text such as a change proposal.
type MarkdownBlock struct {
	text     string
	renderer *goldmark.Renderer
}

// NewMarkdownBlock creates a MarkdownBlock.
func NewMarkdownBlock(text string, renderer *goldmark.Renderer) *MarkdownBlock {
	return &MarkdownBlock{text: text, renderer: renderer}
}

func (b *MarkdownBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	return b, nil
}

func (b *MarkdownBlock) View(width int) string {
	return b.renderer.Render(b.text, width)
}
