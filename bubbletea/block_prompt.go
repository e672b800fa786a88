package bubbletea

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var _ MessageBlock = (*PromptBlock)(nil)

// PromptBlock shows a question and, once given, the user's answer.
type PromptBlock struct {
	question  string
	answer    string
	answered  bool
	cancelled bool
	styles    Styles
}

// NewPromptBlock creates a PromptBlock awaiting an answer.
func NewPromptBlock(question string, styles Styles) *PromptBlock {
	return &PromptBlock{question: question, styles: styles}
}

// SetAnswer records the user's answer.
func (b *PromptBlock) SetAnswer(answer string) {
	b.answer = answer
	b.answered = true
}

// SetCancelled marks the question as dismissed.
func (b *PromptBlock) SetCancelled() {
	b.cancelled = true
}

func (b *PromptBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	return b, nil
}

func (b *PromptBlock) View(width int) string {
	style := lipgloss.NewStyle().Width(width)
	out := style.Render(b.styles.Prompt.Render(b.question))
	switch {
	case b.answered:
		out += "\n" + style.Render("> "+b.answer)
	case b.cancelled:
		out += "\n" + b.styles.Muted.Render("(cancelled)")
	}
	return out
}
