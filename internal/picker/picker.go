// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package picker is the interactive snapshot selector used by diff --pick.
package picker

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/hexilium/swagger-api-compare/internal/store"
)

var (
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	selectedStyle = lipgloss.NewStyle().Bold(true)
	helpStyle     = lipgloss.NewStyle().Faint(true)
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Accept key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k")),
	Down:   key.NewBinding(key.WithKeys("down", "j")),
	Toggle: key.NewBinding(key.WithKeys(" ")),
	Accept: key.NewBinding(key.WithKeys("enter")),
	Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c")),
}

// SelectSnapshots runs the picker over the given history, newest first, and
// returns the chosen snapshots in the order picked: two to compare against
// each other, or one to compare against a live document or the latest. Nil
// means the user bailed out.
func SelectSnapshots(items []store.Snapshot) []store.Snapshot {
	if len(items) == 0 {
		return nil
	}
	p := tea.NewProgram(model{items: items})
	m, err := p.Run()
	if err != nil {
		return nil
	}
	return m.(model).selected
}

type model struct {
	items    []store.Snapshot
	cursor   int
	selected []store.Snapshot
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.Quit):
		m.selected = nil
		return m, tea.Quit
	case key.Matches(keyMsg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, keys.Toggle):
		cur := m.items[m.cursor]
		if i := indexOf(m.selected, cur); i >= 0 {
			m.selected = append(m.selected[:i], m.selected[i+1:]...)
		} else if len(m.selected) < 2 {
			m.selected = append(m.selected, cur)
		}
	case key.Matches(keyMsg, keys.Accept):
		if len(m.selected) > 0 {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m model) View() string {
	s := "Select one or two snapshots:\n\n"
	for i, snap := range m.items {
		cursor := " "
		if m.cursor == i {
			cursor = cursorStyle.Render(">")
		}
		mark := " "
		line := fmt.Sprintf("%s  %s  (%s)",
			snap.Resource,
			store.FormatStamp(snap.Timestamp),
			humanize.Time(snap.Timestamp))
		if indexOf(m.selected, snap) >= 0 {
			mark = "x"
			line = selectedStyle.Render(line)
		}
		s += fmt.Sprintf("%s [%s] %s\n", cursor, mark, line)
	}
	return s + helpStyle.Render("\nSPACE: toggle, ENTER: go, Q/ESCAPE: quit") + "\n"
}

func indexOf(snaps []store.Snapshot, snap store.Snapshot) int {
	for i, s := range snaps {
		if s.Resource == snap.Resource && s.Timestamp.Equal(snap.Timestamp) {
			return i
		}
	}
	return -1
}
