// Package goldmark renders model answers written in markdown as ANSI-styled
// terminal text, using goldmark for parsing and lipgloss for styling.
package goldmark

import "github.com/fwojciec/rework"

const defaultWidth = 80

// Render parses markdown source and returns ANSI-styled terminal output.
// Paragraphs and list items are word-wrapped to width. Code blocks are kept
// verbatim so proposed changes are shown exactly as they would be applied.
func Render(source string, width int, theme rework.Theme) string {
	return New(theme).Render(source, width)
}
