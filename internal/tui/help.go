package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Quit        key.Binding
	Send        key.Binding
	NewSession  key.Binding
	NextSession key.Binding
	Delete      key.Binding
	Theme       key.Binding
	Export      key.Binding
	Like        key.Binding
	Dislike     key.Binding
	Help        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		NewSession: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "new chat"),
		),
		NextSession: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "next chat"),
		),
		Delete: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "delete chat"),
		),
		Theme: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "switch theme"),
		),
		Export: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "export chat"),
		),
		Like: key.NewBinding(
			key.WithKeys("f2"),
			key.WithHelp("f2", "like last reply"),
		),
		Dislike: key.NewBinding(
			key.WithKeys("f3"),
			key.WithHelp("f3", "dislike last reply"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "help"),
		),
	}
}

func (m *Model) helpView() string {
	var b strings.Builder
	bindings := []key.Binding{
		m.keys.Send, m.keys.NewSession, m.keys.NextSession, m.keys.Delete,
		m.keys.Theme, m.keys.Export, m.keys.Like, m.keys.Dislike, m.keys.Quit,
	}
	for _, bind := range bindings {
		h := bind.Help()
		b.WriteString(fmt.Sprintf("  %s  %s\n", m.theme.TopBarTitle.Render(h.Key), h.Desc))
	}
	return b.String()
}

func (m *Model) footerView() string {
	hints := []string{}
	for _, bind := range []key.Binding{m.keys.Send, m.keys.NewSession, m.keys.NextSession, m.keys.Help} {
		h := bind.Help()
		hints = append(hints, h.Key+" "+h.Desc)
	}
	return m.theme.Footer.Render(strings.Join(hints, " | "))
}
