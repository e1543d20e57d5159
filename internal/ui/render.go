package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// ParagraphRenderer turns one paragraph into display lines no wider than width.
type ParagraphRenderer interface {
	Render(text string, width int) []string
}

// plainRenderer word-wraps prose and styles "#" headings.
type plainRenderer struct {
	body    lipgloss.Style
	heading lipgloss.Style
}

func newPlainRenderer(s styles) *plainRenderer {
	return &plainRenderer{body: s.body, heading: s.heading}
}

func (r *plainRenderer) Render(text string, width int) []string {
	if width <= 0 {
		return nil
	}
	st := r.body
	if h := strings.TrimLeft(text, "#"); h != text && strings.HasPrefix(h, " ") {
		text, st = strings.TrimSpace(h), r.heading
	}
	return strings.Split(st.Width(width).Render(text), "\n")
}

// markdownRenderer renders through glamour, one renderer per wrap width.
type markdownRenderer struct {
	width    int
	term     *glamour.TermRenderer
	fallback ParagraphRenderer
}

func newMarkdownRenderer(fallback ParagraphRenderer) *markdownRenderer {
	return &markdownRenderer{fallback: fallback}
}

func (r *markdownRenderer) Render(text string, width int) []string {
	if width <= 0 {
		return nil
	}
	if r.term == nil || r.width != width {
		term, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(width))
		if err != nil {
			return r.fallback.Render(text, width)
		}
		r.term, r.width = term, width
	}
	out, err := r.term.Render(text)
	if err != nil {
		return r.fallback.Render(text, width)
	}
	out = strings.Trim(out, "\n")
	if out == "" {
		return []string{""}
	}
	return strings.Split(out, "\n")
}

type cachedParagraph struct {
	text  string
	lines []string
}

// renderCache keeps rendered lines per paragraph index for one width.
type renderCache struct {
	width   int
	entries map[int]cachedParagraph
}

func newRenderCache() *renderCache { return &renderCache{entries: map[int]cachedParagraph{}} }

func (c *renderCache) lines(r ParagraphRenderer, i int, text string, width int) []string {
	if width != c.width {
		c.reset()
		c.width = width
	}
	if e, ok := c.entries[i]; ok && e.text == text {
		return e.lines
	}
	lines := r.Render(text, width)
	c.entries[i] = cachedParagraph{text: text, lines: lines}
	return lines
}

// retain drops every entry outside [start, end).
func (c *renderCache) retain(start, end int) {
	for i := range c.entries {
		if i < start || i >= end {
			delete(c.entries, i)
		}
	}
}

func (c *renderCache) reset() {
	c.width = 0
	clear(c.entries)
}

func (c *renderCache) len() int { return len(c.entries) }
