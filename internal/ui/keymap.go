package ui

import "github.com/charmbracelet/bubbles/key"

// paneKeys scroll a pane. None of them are printable so they never collide with text input.
type paneKeys struct {
	LineUp   key.Binding
	LineDown key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	HalfUp   key.Binding
	HalfDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
}

func defaultPaneKeys() paneKeys {
	return paneKeys{
		LineUp:   key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "line up")),
		LineDown: key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "line down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+b"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+f"), key.WithHelp("pgdn", "page down")),
		HalfUp:   key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "half page up")),
		HalfDown: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "half page down")),
		Top:      key.NewBinding(key.WithKeys("home"), key.WithHelp("home", "beginning")),
		Bottom:   key.NewBinding(key.WithKeys("end"), key.WithHelp("end", "latest")),
	}
}

type readerKeys struct {
	Choose key.Binding
	Focus  key.Binding
	Submit key.Binding
	Blur   key.Binding
	Help   key.Binding
	Theme  key.Binding
	Follow key.Binding
	Export key.Binding
	Quit   key.Binding
	Force  key.Binding
}

func defaultReaderKeys() readerKeys {
	return readerKeys{
		Choose: key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "choose")),
		Focus:  key.NewBinding(key.WithKeys("tab", "i"), key.WithHelp("tab", "custom action")),
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "commit")),
		Blur:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Theme:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Follow: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "follow")),
		Export: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
		Quit:   key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		Force:  key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k readerKeys) help() []key.Binding {
	return []key.Binding{k.Choose, k.Focus, k.Submit, k.Follow, k.Theme, k.Export, k.Help, k.Quit}
}

func (k paneKeys) help() []key.Binding {
	return []key.Binding{k.LineUp, k.LineDown, k.PageUp, k.PageDown, k.HalfUp, k.HalfDown, k.Top, k.Bottom}
}
