package bubbletea

import tea "github.com/charmbracelet/bubbletea"

var _ MessageBlock = (*NoteBlock)(nil)

// NoteBlock is a single muted line, used for progress.
type NoteBlock struct {
	text   string
	styles Styles
}

// NewNoteBlock creates a NoteBlock.
func NewNoteBlock(text string, styles Styles) *NoteBlock {
	return &NoteBlock{text: text, styles: styles}
}

func (b *NoteBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	return b, nil
}

func (b *NoteBlock) View(width int) string {
	return b.styles.Muted.Render("· " + b.text)
}
