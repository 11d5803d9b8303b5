package gui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ncmu-dev/ncmu/internal/nav"
)

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Expand   key.Binding
	Collapse key.Binding
	Parent   key.Binding
	Top      key.Binding
	Bottom   key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Detail   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Expand:   key.NewBinding(key.WithKeys("enter", "right", "l"), key.WithHelp("enter/→", "expand")),
		Collapse: key.NewBinding(key.WithKeys("esc", "left", "h"), key.WithHelp("esc/←", "collapse")),
		Parent:   key.NewBinding(key.WithKeys("backspace", "p"), key.WithHelp("p", "parent")),
		Top:      key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom:   key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
		Detail:   key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "detail")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Expand, k.Collapse, k.Detail, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Expand, k.Collapse, k.Parent},
		{k.Top, k.Bottom},
		{k.Detail, k.Help, k.Quit},
	}
}

// event maps a key press to a navigation event.
func (k keyMap) event(msg tea.KeyMsg) (nav.Event, bool) {
	switch {
	case key.Matches(msg, k.Quit):
		return nav.Quit, true
	case key.Matches(msg, k.Up):
		return nav.MoveUp, true
	case key.Matches(msg, k.Down):
		return nav.MoveDown, true
	case key.Matches(msg, k.Expand):
		return nav.Expand, true
	case key.Matches(msg, k.Collapse):
		return nav.Collapse, true
	case key.Matches(msg, k.Parent):
		return nav.Parent, true
	case key.Matches(msg, k.Top):
		return nav.Top, true
	case key.Matches(msg, k.Bottom):
		return nav.Bottom, true
	case key.Matches(msg, k.PageUp):
		return nav.PageUp, true
	case key.Matches(msg, k.PageDown):
		return nav.PageDown, true
	}
	return 0, false
}
