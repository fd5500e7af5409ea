package main

import tea "github.com/charmbracelet/bubbletea"

// handleNavigation nudges the selected sprite through its position prop.
func (m *model) handleNavigation(key string, speed int) tea.Cmd {
	s := m.stage.Selected()
	if s == nil {
		return nil
	}
	step := nudgeStep * speed
	switch key {
	case "h", "left", "H", "shift+left":
		return m.stage.Nudge(s.ID(), -step, 0)
	case "l", "right", "L", "shift+right":
		return m.stage.Nudge(s.ID(), step, 0)
	case "k", "up", "K", "shift+up":
		return m.stage.Nudge(s.ID(), 0, -step)
	case "j", "down", "J", "shift+down":
		return m.stage.Nudge(s.ID(), 0, step)
	}
	return nil
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 2
	default:
		return 1
	}
}
