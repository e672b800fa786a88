package bubbletea

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var _ MessageBlock = (*ChoiceBlock)(nil)

// ChoiceBlock is a picker over a list of options. The highlighted option is
// wrapped to the full width; the others are truncated to a single line.
type ChoiceBlock struct {
	title     string
	options   []string
	cursor    int
	done      bool
	cancelled bool
	styles    Styles
}

// NewChoiceBlock creates a ChoiceBlock with the first option highlighted.
func NewChoiceBlock(title string, options []string, styles Styles) *ChoiceBlock {
	return &ChoiceBlock{title: title, options: options, styles: styles}
}

// Cursor returns the index of the highlighted option.
func (b *ChoiceBlock) Cursor() int { return b.cursor }

// Len returns the number of options.
func (b *ChoiceBlock) Len() int { return len(b.options) }

// Pick highlights option i and freezes the block. It reports false when i is
// out of range.
func (b *ChoiceBlock) Pick(i int) (string, bool) {
	if i < 0 || i >= len(b.options) {
		return "", false
	}
	b.cursor = i
	b.done = true
	return b.options[i], true
}

// SetCancelled freezes the block without a choice.
func (b *ChoiceBlock) SetCancelled() {
	b.done = true
	b.cancelled = true
}

func (b *ChoiceBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || b.done || len(b.options) == 0 {
		return b, nil
	}
	switch key.String() {
	case "up", "k":
		b.cursor = (b.cursor - 1 + len(b.options)) % len(b.options)
	case "down", "j":
		b.cursor = (b.cursor + 1) % len(b.options)
	case "home":
		b.cursor = 0
	case "end":
		b.cursor = len(b.options) - 1
	}
	return b, nil
}

func (b *ChoiceBlock) View(width int) string {
	var sb strings.Builder
	sb.WriteString(b.styles.Prompt.Render(b.title))
	for i, opt := range b.options {
		sb.WriteString("\n")
		label := fmt.Sprintf("%d. %s", i+1, opt)
		if i != b.cursor || b.cancelled {
			if width > 2 {
				label = runewidth.Truncate(label, width-2, "…")
			}
			sb.WriteString("  " + b.styles.Muted.Render(label))
			continue
		}
		if width > 2 {
			label = lipgloss.NewStyle().Width(width - 2).Render(label)
		}
		marker := "> "
		for j, line := range strings.Split(label, "\n") {
			if j > 0 {
				sb.WriteString("\n")
				marker = "  "
			}
			sb.WriteString(b.styles.Selected.Render(marker + line))
		}
	}
	if b.cancelled {
		sb.WriteString("\n" + b.styles.Muted.Render("(cancelled)"))
	}
	return sb.String()
}
