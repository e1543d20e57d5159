package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
)

// exportDir is where transcripts are written, relative to the home directory.
var exportDir = filepath.Join(".storywindow", "exports")

type storyIdentifier interface {
	StoryID() string
}

func (m model) exportCmd() tea.Cmd {
	if len(m.paragraphs) == 0 {
		return emit(exportedMsg{err: errors.New("nothing to export")})
	}
	name := "story_" + time.Now().UTC().Format("20060102T150405") + ".md"
	if id, ok := m.journal.(storyIdentifier); ok {
		name = "story_" + id.StoryID() + ".md"
	}
	seed := m.cfg.SeedText
	paragraphs := m.paragraphs
	return func() tea.Msg {
		home, err := os.UserHomeDir()
		if err != nil {
			return exportedMsg{err: errors.Wrap(err, "home dir")}
		}
		path, err := writeTranscript(filepath.Join(home, exportDir), name, seed, paragraphs)
		return exportedMsg{path: path, err: err}
	}
}

// writeTranscript writes paragraphs as markdown into dir/name and returns the file path.
func writeTranscript(dir, name, seed string, paragraphs []string) (string, error) {
	var b strings.Builder
	b.WriteString("# Story Export\n")
	b.WriteString(fmt.Sprintf("Seed: %s\n\n", seed))
	for _, p := range paragraphs {
		b.WriteString(p)
		b.WriteString("\n\n")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", errors.Wrap(err, "create export dir")
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		return "", errors.Wrap(err, "write export")
	}
	return path, nil
}
