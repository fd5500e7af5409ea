package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// copyProgram puts the selected sprite's program on the clipboard as YAML.
func (m *model) copyProgram() {
	s := m.stage.Selected()
	if s == nil {
		m.errorMessage = "no sprite selected"
		return
	}
	data, err := MarshalCommands(s.Commands())
	if err == nil {
		err = clipboardWrite(string(data))
	}
	if err != nil {
		m.errorMessage = fmt.Sprintf("copy failed: %v", err)
		Log.Warn("clipboard write failed", zap.Error(err))
		return
	}
	m.errorMessage = ""
	m.successMessage = fmt.Sprintf("Copied %d blocks from %s", len(s.Commands()), s.ID())
}

// pasteProgram replaces the selected sprite's program with the one on the
// clipboard.
func (m *model) pasteProgram() tea.Cmd {
	s := m.stage.Selected()
	if s == nil {
		m.errorMessage = "no sprite selected"
		return nil
	}
	text, err := clipboardRead()
	if err != nil {
		m.errorMessage = fmt.Sprintf("paste failed: %v", err)
		Log.Warn("clipboard read failed", zap.Error(err))
		return nil
	}
	commands, err := ParseCommands([]byte(cleanClipboardText(text)))
	if err != nil {
		m.errorMessage = fmt.Sprintf("paste failed: %v", err)
		return nil
	}
	m.errorMessage = ""
	m.successMessage = fmt.Sprintf("Pasted %d blocks into %s", len(commands), s.ID())
	return m.stage.SetCommands(s.ID(), commands)
}
