package bubbletea

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/rework/goldmark"
)

var _ MessageBlock = (*ResultBlock)(nil)

// ResultBlock shows the final summary of a session.
type ResultBlock struct {
	text     string
	styles   Styles
	renderer *goldmark.Renderer
}

// NewResultBlock creates a ResultBlock.
func NewResultBlock(text string, styles Styles, renderer *goldmark.Renderer) *ResultBlock {
	return &ResultBlock{text: text, styles: styles, renderer: renderer}
}

func (b *ResultBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	return b, nil
}

func (b *ResultBlock) View(width int) string {
	return b.styles.Accent.Render("Result") + "\n" + b.renderer.Render(b.text, width)
}
