package goldmark

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/rework"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// Renderer turns markdown into styled terminal text. It is safe for
// concurrent use.
type Renderer struct {
	md goldmark.Markdown

	strong  lipgloss.Style
	em      lipgloss.Style
	strike  lipgloss.Style
	heading lipgloss.Style
	code    lipgloss.Style
	muted   lipgloss.Style
	link    lipgloss.Style
}

// New creates a Renderer with colors from theme.
func New(theme rework.Theme) *Renderer {
	return &Renderer{
		md:      goldmark.New(goldmark.WithExtensions(extension.Strikethrough)),
		strong:  lipgloss.NewStyle().Bold(true),
		em:      lipgloss.NewStyle().Italic(true),
		strike:  lipgloss.NewStyle().Strikethrough(true),
		heading: lipgloss.NewStyle().Foreground(ansiColor(theme.Accent)).Bold(true),
		code:    lipgloss.NewStyle().Foreground(ansiColor(theme.Code)),
		muted:   lipgloss.NewStyle().Foreground(ansiColor(theme.Muted)).Faint(true),
		link:    lipgloss.NewStyle().Underline(true),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}

// Render returns source as styled text wrapped to width. A width of zero or
// less means 80 columns. Source is passed through [Sanitize] first.
func (r *Renderer) Render(source string, width int) string {
	source = Sanitize(source)
	if source == "" {
		return ""
	}
	if width <= 0 {
		width = defaultWidth
	}
	src := []byte(source)
	doc := r.md.Parser().Parse(text.NewReader(src))

	var buf bytes.Buffer
	r.blocks(doc, src, width, &buf)
	return strings.TrimRight(buf.String(), "\n")
}

func (r *Renderer) blocks(node ast.Node, src []byte, width int, buf *bytes.Buffer) {
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		r.block(c, src, width, buf)
		if c.NextSibling() != nil && !isHTML(c) {
			buf.WriteString("\n")
		}
	}
}

func isHTML(n ast.Node) bool {
	_, ok := n.(*ast.HTMLBlock)
	return ok
}

func (r *Renderer) block(node ast.Node, src []byte, width int, buf *bytes.Buffer) {
	switch n := node.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		r.wrapped(buf, r.inline(n, src), width)

	case *ast.Heading:
		r.wrapped(buf, r.heading.Render(r.inline(n, src)), width)

	case *ast.FencedCodeBlock:
		if lang := string(n.Language(src)); lang != "" {
			buf.WriteString(r.muted.Render(lang) + "\n")
		}
		r.codeLines(buf, n.Lines(), src)

	case *ast.CodeBlock:
		r.codeLines(buf, n.Lines(), src)

	case *ast.List:
		r.list(n, src, width, buf, 0)

	case *ast.Blockquote:
		var inner bytes.Buffer
		r.blocks(n, src, width-2, &inner)
		bar := r.muted.Render("▎") + " "
		for _, line := range strings.Split(strings.TrimRight(inner.String(), "\n"), "\n") {
			buf.WriteString(bar + line + "\n")
		}

	case *ast.ThematicBreak:
		buf.WriteString(r.muted.Render("---") + "\n")

	case *ast.HTMLBlock:
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(src))
		}

	default:
		r.blocks(node, src, width, buf)
	}
}

func (r *Renderer) wrapped(buf *bytes.Buffer, s string, width int) {
	buf.WriteString(lipgloss.NewStyle().Width(width).Render(s))
	buf.WriteString("\n")
}

// codeLines writes code verbatim behind a gutter, without reflow.
func (r *Renderer) codeLines(buf *bytes.Buffer, lines *text.Segments, src []byte) {
	gutter := r.code.Render("│") + " "
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.WriteString(gutter + strings.TrimRight(string(seg.Value(src)), "\n") + "\n")
	}
}

func (r *Renderer) list(node *ast.List, src []byte, width int, buf *bytes.Buffer, depth int) {
	indent := strings.Repeat("  ", depth)
	n := node.Start
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		item, ok := c.(*ast.ListItem)
		if !ok {
			continue
		}
		marker := "- "
		if node.IsOrdered() {
			marker = fmt.Sprintf("%d. ", n)
			n++
		}

		var content bytes.Buffer
		for ic := item.FirstChild(); ic != nil; ic = ic.NextSibling() {
			switch in := ic.(type) {
			case *ast.Paragraph, *ast.TextBlock:
				content.WriteString(r.inline(in, src))
			case *ast.List:
				if content.Len() > 0 {
					r.item(buf, indent+marker, content.String(), width)
					content.Reset()
				}
				r.list(in, src, width, buf, depth+1)
				marker = strings.Repeat(" ", len(marker))
			default:
				r.block(ic, src, width, &content)
			}
		}
		if content.Len() > 0 {
			r.item(buf, indent+marker, content.String(), width)
		}
	}
}

// item writes one list item, indenting continuation lines under the text.
func (r *Renderer) item(buf *bytes.Buffer, prefix, content string, width int) {
	w := max(width-len(prefix), 10)
	hang := strings.Repeat(" ", len(prefix))
	for i, line := range strings.Split(lipgloss.NewStyle().Width(w).Render(content), "\n") {
		if i == 0 {
			buf.WriteString(prefix + line + "\n")
			continue
		}
		buf.WriteString(hang + line + "\n")
	}
}

func (r *Renderer) inline(node ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		r.span(c, src, &buf)
	}
	return buf.String()
}

func (r *Renderer) span(node ast.Node, src []byte, buf *bytes.Buffer) {
	switch n := node.(type) {
	case *ast.Text:
		buf.Write(n.Segment.Value(src))
		switch {
		case n.HardLineBreak():
			buf.WriteByte('\n')
		case n.SoftLineBreak():
			buf.WriteByte(' ')
		}

	case *ast.String:
		buf.Write(n.Value)

	case *ast.Emphasis:
		if n.Level == 1 {
			buf.WriteString(r.em.Render(r.inline(n, src)))
		} else {
			buf.WriteString(r.strong.Render(r.inline(n, src)))
		}

	case *east.Strikethrough:
		buf.WriteString(r.strike.Render(r.inline(n, src)))

	case *ast.CodeSpan:
		buf.WriteString(r.strong.Render(r.inline(n, src)))

	case *ast.Link:
		buf.WriteString(r.link.Render(r.inline(n, src)))
		buf.WriteString(" " + r.muted.Render("("+string(n.Destination)+")"))

	case *ast.AutoLink:
		buf.WriteString(r.link.Render(string(n.URL(src))))

	case *ast.Image:
		buf.WriteString(r.link.Render(r.inline(n, src)))
		buf.WriteString(" " + r.muted.Render("("+string(n.Destination)+")"))

	case *ast.RawHTML:
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			buf.Write(seg.Value(src))
		}

	default:
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			r.span(c, src, buf)
		}
	}
}
