package ui

import (
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var idSeq atomic.Int64

const wheelStep = 3

// ScrollPane is a fixed-size scroll container. It owns the scroll offset; content
// placed in it only tells it how tall the content is.
type ScrollPane struct {
	id            PaneID
	width         int
	height        int
	offset        int
	contentHeight int
	keys          paneKeys

	// Follow keeps the pane at the bottom when content grows while it was already there.
	Follow bool
}

func NewScrollPane() *ScrollPane {
	return &ScrollPane{id: PaneID(idSeq.Add(1)), keys: defaultPaneKeys()}
}

func (p *ScrollPane) ID() PaneID { return p.id }
func (p *ScrollPane) Width() int { return p.width }
func (p *ScrollPane) Height() int { return p.height }
func (p *ScrollPane) Offset() int { return p.offset }
func (p *ScrollPane) ContentHeight() int { return p.contentHeight }

// MaxOffset is the largest valid scroll offset.
func (p *ScrollPane) MaxOffset() int {
	return max(0, p.contentHeight-p.height)
}

func (p *ScrollPane) AtBottom() bool { return p.offset >= p.MaxOffset() }

// SetSize resizes the pane. It reports the new size and, when the offset had to be
// clamped, the new offset.
func (p *ScrollPane) SetSize(width, height int) tea.Cmd {
	width, height = max(0, width), max(0, height)
	if width == p.width && height == p.height {
		return nil
	}
	p.width, p.height = width, height
	return tea.Batch(emit(ResizeMsg{Pane: p.id, Width: width, Height: height}), p.scrollTo(p.offset))
}

// SetContentHeight updates the scroll range.
func (p *ScrollPane) SetContentHeight(h int) tea.Cmd {
	h = max(0, h)
	if h == p.contentHeight {
		return nil
	}
	follow := p.Follow && h > p.contentHeight && p.AtBottom()
	p.contentHeight = h
	if follow {
		return p.scrollTo(p.MaxOffset())
	}
	return p.scrollTo(p.offset)
}

// ScrollTo moves to offset, clamped to the scroll range.
func (p *ScrollPane) ScrollTo(offset int) tea.Cmd { return p.scrollTo(offset) }

func (p *ScrollPane) ScrollBy(delta int) tea.Cmd { return p.scrollTo(p.offset + delta) }

func (p *ScrollPane) scrollTo(offset int) tea.Cmd {
	offset = min(max(0, offset), p.MaxOffset())
	if offset == p.offset {
		return nil
	}
	p.offset = offset
	return emit(ScrollMsg{Pane: p.id, Offset: offset})
}

// Update handles scroll keys and the mouse wheel.
func (p *ScrollPane) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		page := max(1, p.height-1)
		switch {
		case key.Matches(msg, p.keys.LineUp):
			return p.ScrollBy(-1)
		case key.Matches(msg, p.keys.LineDown):
			return p.ScrollBy(1)
		case key.Matches(msg, p.keys.PageUp):
			return p.ScrollBy(-page)
		case key.Matches(msg, p.keys.PageDown):
			return p.ScrollBy(page)
		case key.Matches(msg, p.keys.HalfUp):
			return p.ScrollBy(-max(1, p.height/2))
		case key.Matches(msg, p.keys.HalfDown):
			return p.ScrollBy(max(1, p.height/2))
		case key.Matches(msg, p.keys.Top):
			return p.ScrollTo(0)
		case key.Matches(msg, p.keys.Bottom):
			return p.ScrollTo(p.MaxOffset())
		}
	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			return nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			return p.ScrollBy(-wheelStep)
		case tea.MouseButtonWheelDown:
			return p.ScrollBy(wheelStep)
		}
	}
	return nil
}

// Compose draws the visible rows of f. Rows outside the rendered block are blank,
// which is what keeps skipped paragraphs taking up space.
func (p *ScrollPane) Compose(f Frame) string {
	if p.height <= 0 || p.width <= 0 {
		return ""
	}
	clip := lipgloss.NewStyle().MaxWidth(p.width)
	rows := make([]string, p.height)
	for r := range rows {
		line := ""
		if i := p.offset + r - f.Top; i >= 0 && i < len(f.Lines) {
			line = clip.Render(f.Lines[i])
		}
		if pad := p.width - lipgloss.Width(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		rows[r] = line
	}
	return strings.Join(rows, "\n")
}
