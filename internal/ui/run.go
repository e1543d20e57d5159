package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/DaanHessen/storywindow/internal/text"
	"github.com/DaanHessen/storywindow/internal/util"
)

// Run boots the TUI program and blocks until it exits. preload is shown ahead of the
// narrator's opening; journal may be nil.
func Run(ctx context.Context, narrator text.Narrator, journal Journal, cfg util.Config, preload []string) error {
	m := initialModel(ctx, narrator, journal, cfg, preload)
	program := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := program.Run()
	return err
}
