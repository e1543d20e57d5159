package layout

import (
	"github.com/mattn/go-runewidth"
)

// Metrics are the fixed typographic constants used to turn text length into height.
// Units are whatever the host viewport measures in (pixels on a desktop, cells in a terminal).
type Metrics struct {
	CharWidth       int // average width of one display column
	LineHeight      int
	ParagraphGap    int // space below every paragraph
	MinCharsPerLine int
}

var (
	// PixelMetrics approximates the desktop reader's body font.
	PixelMetrics = Metrics{CharWidth: 8, LineHeight: 24, ParagraphGap: 16, MinCharsPerLine: 12}
	// CellMetrics maps one column to one cell and one line to one row, with a blank row between paragraphs.
	CellMetrics = Metrics{CharWidth: 1, LineHeight: 1, ParagraphGap: 1, MinCharsPerLine: 12}
)

// CharsPerLine is the number of display columns that fit in width, never below MinCharsPerLine.
func (m Metrics) CharsPerLine(width int) int {
	cw := m.CharWidth
	if cw < 1 {
		cw = 1
	}
	if width < 0 {
		width = 0
	}
	n := width / cw
	if n < m.MinCharsPerLine {
		n = m.MinCharsPerLine
	}
	if n < 1 {
		n = 1
	}
	return n
}

// TextWidth is the length of text in display columns. Wide runes count twice.
func TextWidth(text string) int { return runewidth.StringWidth(text) }

// EstimateHeight returns the estimated rendered height of a paragraph without laying it out.
// The result only depends on the text's display width, the viewport width and m.
func EstimateHeight(text string, width int, m Metrics) int {
	cpl := m.CharsPerLine(width)
	lines := (TextWidth(text) + cpl - 1) / cpl
	if lines < 1 {
		lines = 1
	}
	return lines*m.LineHeight + m.ParagraphGap
}

// EstimateHeights estimates every paragraph at the given width.
func EstimateHeights(paragraphs []string, width int, m Metrics) []int {
	heights := make([]int, len(paragraphs))
	for i, p := range paragraphs {
		heights[i] = EstimateHeight(p, width, m)
	}
	return heights
}

// BuildOffsets returns prefix sums: offsets[i] is the total height of paragraphs 0..i-1.
func BuildOffsets(heights []int) []int {
	offsets := make([]int, len(heights))
	for i := 1; i < len(heights); i++ {
		offsets[i] = offsets[i-1] + heights[i-1]
	}
	return offsets
}

// TotalHeight is the height of the whole sequence, 0 when empty.
func TotalHeight(offsets, heights []int) int {
	n := len(offsets)
	if n == 0 || len(heights) < n {
		return 0
	}
	return offsets[n-1] + heights[n-1]
}
