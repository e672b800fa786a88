package goldmark

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Sanitize makes model text safe to print on a terminal. It strips ANSI
// escape sequences and control characters other than tab and newline, and
// turns "\r\n" and lone "\r" into "\n".
func Sanitize(s string) string {
	s = ansi.Strip(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Map(func(r rune) rune {
		if r == '\t' || r == '\n' || (r > 0x1F && r != 0x7F) {
			return r
		}
		return -1
	}, s)
}
