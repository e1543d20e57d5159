package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/DaanHessen/storywindow/internal/layout"
)

// Frame is what a text window wants drawn: Lines start at row Top of a virtual
// content area Height rows tall.
type Frame struct {
	Top    int
	Lines  []string
	Height int
}

// TextWindow shows a growing paragraph sequence inside a ScrollPane. Below the
// windowing thresholds it renders everything; above them it renders only the
// paragraphs around the viewport and reserves space for the rest.
type TextWindow struct {
	id       int64
	cfg      layout.Config
	renderer ParagraphRenderer
	cache    *renderCache
	table    *layout.Table
	delay    time.Duration

	pane     *ScrollPane
	owned    bool
	attached bool

	paragraphs []string
	geom       layout.Geometry
	window     layout.Window

	pending    bool
	pendingTop int
	gen        uint64
}

func NewTextWindow(cfg layout.Config, r ParagraphRenderer) *TextWindow {
	return &TextWindow{
		id:       idSeq.Add(1),
		cfg:      cfg,
		renderer: r,
		cache:    newRenderCache(),
		table:    layout.NewTable(cfg.Metrics),
		delay:    frameInterval,
	}
}

// Attach starts observing p. A nil pane makes the window create and own its root pane.
func (t *TextWindow) Attach(p *ScrollPane) tea.Cmd {
	if t.attached {
		t.Detach()
	}
	t.owned = p == nil
	if t.owned {
		p = NewScrollPane()
	}
	t.pane = p
	t.attached = true
	t.geom = layout.Geometry{Width: p.Width(), Height: p.Height(), ScrollTop: p.Offset()}.Normalize()
	return t.refresh()
}

// Detach stops observing the pane. A frame tick that is already scheduled becomes a no-op.
func (t *TextWindow) Detach() {
	t.attached = false
	t.pending = false
	t.gen++
	t.geom = layout.Geometry{}
	t.window = layout.Window{}
	t.table.Reset()
	t.cache.reset()
	if t.owned {
		t.pane = nil
		t.owned = false
	}
}

func (t *TextWindow) Pane() *ScrollPane { return t.pane }
func (t *TextWindow) Attached() bool { return t.attached }
func (t *TextWindow) Window() layout.Window { return t.window }
func (t *TextWindow) Geometry() layout.Geometry { return t.geom }
func (t *TextWindow) Len() int { return len(t.paragraphs) }
func (t *TextWindow) FramePending() bool { return t.pending }

// Mode is re-derived on every call from the current count and width.
func (t *TextWindow) Mode() layout.Mode {
	return layout.SelectMode(len(t.paragraphs), t.geom.Width, t.cfg.Thresholds)
}

// SetRenderer swaps the paragraph renderer and drops every cached line.
func (t *TextWindow) SetRenderer(r ParagraphRenderer) tea.Cmd {
	t.renderer = r
	t.cache.reset()
	if !t.attached {
		return nil
	}
	return t.refresh()
}

// SetParagraphs replaces the observed sequence. Callers append to the same story;
// the window never reorders or edits it.
func (t *TextWindow) SetParagraphs(paragraphs []string) tea.Cmd {
	t.paragraphs = paragraphs
	if !t.attached {
		return nil
	}
	return t.refresh()
}

// Update reacts to the attached pane. When the window owns its pane it also feeds it
// keys, mouse events and the terminal size.
func (t *TextWindow) Update(msg tea.Msg) tea.Cmd {
	if !t.attached {
		return nil
	}
	switch msg := msg.(type) {
	case ResizeMsg:
		if msg.Pane != t.pane.ID() {
			return nil
		}
		t.geom.Width, t.geom.Height = msg.Width, msg.Height
		t.geom = t.geom.Normalize()
		return t.refresh()
	case ScrollMsg:
		if msg.Pane != t.pane.ID() {
			return nil
		}
		t.pendingTop = msg.Offset
		if t.pending {
			return nil
		}
		t.pending = true
		id, gen := t.id, t.gen
		return tea.Tick(t.delay, func(time.Time) tea.Msg { return frameMsg{window: id, gen: gen} })
	case frameMsg:
		if msg.window != t.id || msg.gen != t.gen || !t.pending {
			return nil
		}
		t.pending = false
		t.geom.ScrollTop = t.pendingTop
		t.geom = t.geom.Normalize()
		t.selectWindow()
		return t.pane.SetContentHeight(t.contentHeight())
	}
	if !t.owned {
		return nil
	}
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		return t.pane.SetSize(ws.Width, ws.Height)
	}
	return t.pane.Update(msg)
}

// refresh rebuilds derived state synchronously after a resize, attach or growth.
func (t *TextWindow) refresh() tea.Cmd {
	if t.Mode() == layout.ModeWindowed {
		t.table.Sync(t.paragraphs, t.geom.Width)
	}
	t.selectWindow()
	return t.pane.SetContentHeight(t.contentHeight())
}

// selectWindow only reads the table; refresh is the one place that rebuilds it.
func (t *TextWindow) selectWindow() {
	if t.Mode() == layout.ModeFixed {
		t.window = layout.Window{Start: 0, End: len(t.paragraphs)}
		return
	}
	t.window = t.table.Window(t.geom.ScrollTop, t.geom.Height, t.cfg.Overscan)
}

func (t *TextWindow) contentHeight() int { return t.Frame().Height }

// drawWindow is the range to draw now. The pane moves before its ScrollMsg and the
// frame tick are handled, so until then the range is looked up from the pane's offset.
func (t *TextWindow) drawWindow() layout.Window {
	if t.Mode() == layout.ModeFixed {
		return layout.Window{Start: 0, End: len(t.paragraphs)}
	}
	if off := t.pane.Offset(); off != t.geom.ScrollTop {
		return t.table.Window(off, t.geom.Height, t.cfg.Overscan)
	}
	return t.window
}

// Frame renders the current window. Cached lines of paragraphs outside it are dropped.
// In windowed mode a paragraph takes at least its estimated rows, so the rendered block
// never ends above the offsets that placed it.
func (t *TextWindow) Frame() Frame {
	if !t.attached || t.geom.Width <= 0 || len(t.paragraphs) == 0 {
		return Frame{}
	}
	w := t.drawWindow()
	w.End = min(w.End, len(t.paragraphs))
	w.Start = min(w.Start, w.End)
	t.cache.retain(w.Start, w.End)

	windowed := t.Mode() == layout.ModeWindowed
	heights := t.table.Heights()
	var lines []string
	for i := w.Start; i < w.End; i++ {
		n := len(lines)
		lines = append(lines, t.cache.lines(t.renderer, i, t.paragraphs[i], t.geom.Width)...)
		for g := 0; g < t.gapRows(); g++ {
			lines = append(lines, "")
		}
		if windowed && i < len(heights) {
			for len(lines)-n < t.rows(heights[i]) {
				lines = append(lines, "")
			}
		}
	}
	if !windowed {
		return Frame{Lines: lines, Height: len(lines)}
	}
	top := t.rows(layout.TopPadding(t.table.Offsets(), w.Start))
	return Frame{Top: top, Lines: lines, Height: max(t.rows(t.table.Total()), top+len(lines))}
}

// rows converts an estimate in layout units to display rows.
func (t *TextWindow) rows(units int) int {
	if lh := t.cfg.Metrics.LineHeight; lh > 1 {
		return (units + lh - 1) / lh
	}
	return units
}

func (t *TextWindow) gapRows() int {
	m := t.cfg.Metrics
	if m.LineHeight <= 0 {
		return 0
	}
	return m.ParagraphGap / m.LineHeight
}

// View composes the visible rows through the pane.
func (t *TextWindow) View() string {
	if !t.attached {
		return ""
	}
	return t.pane.Compose(t.Frame())
}
