package ui

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/DaanHessen/storywindow/internal/engine"
	"github.com/DaanHessen/storywindow/internal/layout"
	"github.com/DaanHessen/storywindow/internal/text"
	"github.com/DaanHessen/storywindow/internal/util"
)

const (
	viewReader = "reader"
	viewHelp   = "help"
)

const (
	sidebarWidth    = 30
	narratorTimeout = 20 * time.Second
	journalTimeout  = 10 * time.Second
)

// Journal persists the transcript. A nil Journal keeps the story in memory only.
type Journal interface {
	Load(ctx context.Context) ([]string, error)
	Record(ctx context.Context, start int, paragraphs []string, choice string) error
}

type model struct {
	ctx      context.Context
	narrator text.Narrator
	journal  Journal
	cfg      util.Config

	keys      readerKeys
	themeName string
	styles    styles

	// the story pane is owned here so its size follows the layout, not the terminal
	pane  *ScrollPane
	story *TextWindow

	paragraphs []string
	preload    []string
	choices    []engine.Choice

	input   textinput.Model
	spinner spinner.Model
	busy    bool
	unsaved bool
	status  string
	view    string

	width  int
	height int
}

func initialModel(ctx context.Context, narrator text.Narrator, journal Journal, cfg util.Config, preload []string) model {
	theme := cfg.Theme
	if _, ok := palettes[theme]; !ok {
		theme = defaultTheme
	}
	st := newStyles(paletteFor(theme))

	in := textinput.New()
	in.Placeholder = "describe your own action"
	in.CharLimit = 280
	in.Prompt = "> "

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	pane := NewScrollPane()
	pane.Follow = cfg.Follow

	return model{
		ctx:       ctx,
		narrator:  narrator,
		journal:   journal,
		cfg:       cfg,
		keys:      defaultReaderKeys(),
		themeName: theme,
		styles:    st,
		pane:      pane,
		story:     NewTextWindow(layout.CellConfig, newRenderer(st, cfg.Markdown)),
		preload:   preload,
		input:     in,
		spinner:   sp,
		view:      viewReader,
		busy:      true,
		unsaved:   journal == nil,
	}
}

func newRenderer(st styles, markdown bool) ParagraphRenderer {
	plain := newPlainRenderer(st)
	if markdown {
		return newMarkdownRenderer(plain)
	}
	return plain
}

func (m model) Init() tea.Cmd {
	next := m.openCmd(false)
	if m.resuming() {
		next = m.loadCmd()
	}
	return tea.Batch(m.story.Attach(m.pane), m.spinner.Tick, next)
}

// tea.Model implementation ---------------------------------------------------

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		cmd := m.layoutPane()
		return m, cmd
	case ScrollMsg, ResizeMsg, frameMsg:
		return m, m.story.Update(msg)
	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case loadedMsg:
		return m.handleLoaded(msg)
	case beatMsg:
		return m.handleBeat(msg)
	case savedMsg:
		if msg.err != nil {
			log.Printf("journal: %v", msg.err)
			m.unsaved = true
			m.status = "not saved: " + msg.err.Error()
		}
		return m, nil
	case exportedMsg:
		if msg.err != nil {
			log.Printf("export: %v", msg.err)
			m.status = "export failed: " + msg.err.Error()
		} else {
			m.status = "exported " + msg.path
		}
		return m, nil
	case tea.MouseMsg:
		return m, m.pane.Update(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Force) {
		return m, tea.Quit
	}
	if m.input.Focused() {
		switch {
		case key.Matches(msg, m.keys.Blur):
			m.input.Blur()
			return m, nil
		case key.Matches(msg, m.keys.Submit):
			action := engine.Custom(m.input.Value())
			if action.Label == "" || m.busy {
				return m, nil
			}
			m.input.Reset()
			m.input.Blur()
			cmd := m.choose(action)
			return m, cmd
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	if m.view == viewHelp {
		if key.Matches(msg, m.keys.Help, m.keys.Blur, m.keys.Quit) {
			m.view = viewReader
		}
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.view = viewHelp
		return m, nil
	case key.Matches(msg, m.keys.Choose):
		i := int(msg.Runes[0] - '1')
		if m.busy || i < 0 || i >= len(m.choices) {
			return m, nil
		}
		cmd := m.choose(m.choices[i])
		return m, cmd
	case key.Matches(msg, m.keys.Focus):
		cmd := m.input.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Theme):
		cmd := m.cycleTheme()
		return m, cmd
	case key.Matches(msg, m.keys.Follow):
		m.pane.Follow = !m.pane.Follow
		if m.pane.Follow {
			m.status = "following new text"
			return m, m.pane.ScrollTo(m.pane.MaxOffset())
		}
		m.status = "follow off"
		return m, nil
	case key.Matches(msg, m.keys.Export):
		return m, m.exportCmd()
	}
	return m, m.pane.Update(msg)
}

func (m *model) choose(c engine.Choice) tea.Cmd {
	m.busy = true
	m.status = ""
	history := append([]string(nil), m.paragraphs...)
	ctx, narrator := m.ctx, m.narrator
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		cctx, cancel := context.WithTimeout(ctx, narratorTimeout)
		defer cancel()
		b, err := narrator.Continue(cctx, history, c)
		return beatMsg{beat: b, choice: c, err: err}
	})
}

func (m model) resuming() bool { return m.cfg.Resume && m.journal != nil }

func (m model) openCmd(resumed bool) tea.Cmd {
	ctx, narrator := m.ctx, m.narrator
	return func() tea.Msg {
		cctx, cancel := context.WithTimeout(ctx, narratorTimeout)
		defer cancel()
		b, err := narrator.Open(cctx)
		return beatMsg{beat: b, resumed: resumed, err: err}
	}
}

func (m model) loadCmd() tea.Cmd {
	ctx, j := m.ctx, m.journal
	return func() tea.Msg {
		cctx, cancel := context.WithTimeout(ctx, journalTimeout)
		defer cancel()
		ps, err := j.Load(cctx)
		return loadedMsg{paragraphs: ps, err: err}
	}
}

func (m model) recordCmd(start int, paragraphs []string, choice string) tea.Cmd {
	if m.journal == nil || len(paragraphs) == 0 {
		return nil
	}
	ctx, j := m.ctx, m.journal
	return func() tea.Msg {
		cctx, cancel := context.WithTimeout(ctx, journalTimeout)
		defer cancel()
		return savedMsg{err: j.Record(cctx, start, paragraphs, choice)}
	}
}

func (m model) handleLoaded(msg loadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		log.Printf("resume: %v", msg.err)
		m.status = "resume failed: " + msg.err.Error()
		return m, m.openCmd(false)
	}
	m.status = fmt.Sprintf("resumed %d paragraphs", len(msg.paragraphs))
	cmds := []tea.Cmd{m.appendParagraphs(msg.paragraphs)}
	cmds = append(cmds, m.flushPreload()...)
	return m, tea.Batch(append(cmds, m.openCmd(true))...)
}

func (m model) handleBeat(msg beatMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	if msg.err != nil {
		log.Printf("narrator: %v", msg.err)
		m.status = "narrator: " + msg.err.Error()
		return m, nil
	}
	m.choices = msg.beat.Choices
	if msg.resumed {
		return m, nil
	}
	cmds := m.flushPreload()
	start := len(m.paragraphs)
	cmds = append(cmds, m.recordCmd(start, msg.beat.Paragraphs, msg.choice.Label), m.appendParagraphs(msg.beat.Paragraphs))
	return m, tea.Batch(cmds...)
}

// flushPreload moves demo or imported text into the story ahead of the first beat.
func (m *model) flushPreload() []tea.Cmd {
	if len(m.preload) == 0 {
		return nil
	}
	pre := m.preload
	m.preload = nil
	return []tea.Cmd{m.recordCmd(len(m.paragraphs), pre, ""), m.appendParagraphs(pre)}
}

// appendParagraphs grows the story. The slice is reallocated rather than shared with the
// journal goroutine.
func (m *model) appendParagraphs(ps []string) tea.Cmd {
	if len(ps) == 0 {
		return nil
	}
	next := make([]string, 0, len(m.paragraphs)+len(ps))
	next = append(append(next, m.paragraphs...), ps...)
	m.paragraphs = next
	return m.story.SetParagraphs(m.paragraphs)
}

func (m *model) cycleTheme() tea.Cmd {
	m.themeName = nextThemeName(m.themeName, 1)
	m.styles = newStyles(paletteFor(m.themeName))
	m.status = "theme " + m.themeName
	return m.story.SetRenderer(newRenderer(m.styles, m.cfg.Markdown))
}

// layoutPane sizes the story pane to the space left by the bars and the sidebar.
func (m *model) layoutPane() tea.Cmd {
	w := m.width
	if m.sidebarVisible() {
		w -= sidebarWidth
	}
	return m.pane.SetSize(w, m.height-3)
}

func (m model) sidebarVisible() bool { return m.width >= 60 }

// Layout rendering -----------------------------------------------------------

func (m model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	top := m.renderTopBar()
	var body string
	if m.view == viewHelp {
		body = lipgloss.NewStyle().Width(m.width).Height(m.height - 3).Render(m.renderHelp())
	} else {
		body = m.story.View()
		if m.sidebarVisible() {
			side := m.styles.side.Width(sidebarWidth - 2).Height(max(0, m.height-5)).Render(m.renderSidebar())
			body = lipgloss.JoinHorizontal(lipgloss.Top, body, side)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, top, body, m.renderBottomBar())
}

func (m model) renderTopBar() string {
	left := "STORYWINDOW • " + m.cfg.SeedText
	w := m.story.Window()
	right := fmt.Sprintf("%d ¶  %s [%d,%d)", len(m.paragraphs), m.story.Mode(), w.Start, w.End)
	if m.pane.Follow {
		right += "  follow"
	}
	gap := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	return m.styles.title.MaxWidth(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m model) renderSidebar() string {
	var b strings.Builder
	b.WriteString(m.styles.heading.Render("CHOICES") + "\n")
	if m.busy {
		b.WriteString(m.spinner.View() + " the story continues\n")
	} else if len(m.choices) == 0 {
		b.WriteString(m.styles.muted.Render("(none)") + "\n")
	}
	for i, c := range m.choices {
		if i >= 9 {
			break
		}
		b.WriteString(m.styles.choice.Render(fmt.Sprintf("[%d]", i+1)) + " " + c.Label + "\n")
	}
	b.WriteString("\n" + m.styles.muted.Render(fmt.Sprintf("row %d/%d", m.pane.Offset(), m.pane.MaxOffset())))
	return b.String()
}

func (m model) renderBottomBar() string {
	var line string
	if m.input.Focused() {
		line = m.styles.input.Width(m.width).Render(m.input.View())
	} else {
		line = m.styles.muted.Render(helpLine(m.keys.help()))
	}
	status := m.status
	if m.unsaved {
		status = strings.TrimSpace(status + "  [unsaved]")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().MaxWidth(m.width).Render(line),
		m.styles.status.Width(m.width).MaxWidth(m.width).Render(status))
}

func (m model) renderHelp() string {
	var b strings.Builder
	b.WriteString(m.styles.heading.Render("Reading") + "\n")
	for _, k := range m.keys.help() {
		b.WriteString(fmt.Sprintf("  %-8s %s\n", k.Help().Key, k.Help().Desc))
	}
	b.WriteString("\n" + m.styles.heading.Render("Scrolling") + "\n")
	for _, k := range m.pane.keys.help() {
		b.WriteString(fmt.Sprintf("  %-8s %s\n", k.Help().Key, k.Help().Desc))
	}
	b.WriteString("\n" + m.styles.muted.Render("themes: "+strings.Join(themeNames(), ", ")))
	return b.String()
}

func helpLine(keys []key.Binding) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, "["+k.Help().Key+"] "+k.Help().Desc)
	}
	return strings.Join(parts, "  ")
}
