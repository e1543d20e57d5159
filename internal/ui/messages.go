package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/DaanHessen/storywindow/internal/engine"
)

// PaneID identifies one scroll pane, so several story windows can share a program.
type PaneID int64

// ScrollMsg reports a new scroll offset of a pane.
type ScrollMsg struct {
	Pane   PaneID
	Offset int
}

// ResizeMsg reports new dimensions of a pane.
type ResizeMsg struct {
	Pane   PaneID
	Width  int
	Height int
}

// frameMsg is the display-cadence tick a text window schedules after a scroll.
type frameMsg struct {
	window int64
	gen    uint64
}

// frameInterval stands in for one animation frame.
const frameInterval = time.Second / 60

// beatMsg carries a narrator response back to the event loop.
type beatMsg struct {
	beat    engine.Beat
	choice  engine.Choice
	resumed bool // only the choices apply; the paragraphs are already on screen
	err     error
}

// loadedMsg carries a resumed transcript.
type loadedMsg struct {
	paragraphs []string
	err        error
}

type savedMsg struct{ err error }

type exportedMsg struct {
	path string
	err  error
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
