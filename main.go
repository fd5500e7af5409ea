package main

import (
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

func main() {
	config := loadConfig()
	syncLog, err := initLogger(config)
	if err != nil {
		log.Fatal(err)
	}
	defer syncLog()

	var prog *ProgramFile
	if len(os.Args) > 1 {
		prog, err = LoadProgram(os.Args[1])
		if err != nil {
			log.Fatal(err)
		}
		Log.Info("program loaded", zap.String("path", os.Args[1]), zap.Int("sprites", len(prog.Sprites)))
	}

	p := tea.NewProgram(
		initialModel(config, prog),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
}

// initialModel builds the stage from prog, or a single demo sprite when
// prog is nil.
func initialModel(config *Config, prog *ProgramFile, opts ...StageOption) model {
	if config == nil {
		config = defaultConfig()
	}
	stage := NewStage(DefaultRegistry(), opts...)
	var cmds []tea.Cmd
	if prog == nil {
		_, cmd := stage.Add("cat", Point{X: 40, Y: 80}, demoProgram())
		cmds = append(cmds, cmd)
	} else {
		for _, spec := range prog.Sprites {
			_, cmd := stage.Add(spec.ID, spec.Position, spec.Commands)
			cmds = append(cmds, cmd)
		}
	}
	return model{
		stage:   stage,
		config:  config,
		mode:    ModeNormal,
		initCmd: tea.Batch(cmds...),
	}
}

func (m model) Init() tea.Cmd {
	return m.initCmd
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case stepMsg, shakeMsg:
		return m, m.stage.Update(msg)

	case tea.MouseMsg:
		cmd := m.handleMouse(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg.String())
	}
	return m, nil
}

func (m model) handleKey(key string) (tea.Model, tea.Cmd) {
	if m.help {
		switch key {
		case "esc", "q", "?":
			m.help = false
			m.helpScroll = 0
		case "j", "down":
			if m.helpScroll < len(helpLines)-1 {
				m.helpScroll++
			}
		case "k", "up":
			if m.helpScroll > 0 {
				m.helpScroll--
			}
		}
		return m, nil
	}

	if m.mode == ModeConfirm {
		return m.handleConfirm(key)
	}

	m.errorMessage = ""
	m.successMessage = ""

	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case "q":
		if m.config.Confirmations {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmQuit
			return m, nil
		}
		return m, tea.Quit
	case "?":
		m.help = true
	case "tab":
		return m, m.stage.SelectNext()
	case "n":
		id, cmd := m.stage.Add("", m.spawnPoint(), demoProgram())
		m.successMessage = "Added " + id
		return m, tea.Batch(cmd, m.stage.Click(id))
	case "x":
		s := m.stage.Selected()
		if s == nil {
			return m, nil
		}
		if m.config.Confirmations {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmDeleteSprite
			m.confirmSprite = s.ID()
			return m, nil
		}
		cmd := m.deleteSprite(s.ID())
		return m, cmd
	case "r":
		if s := m.stage.Selected(); s != nil {
			return m, m.stage.Activate(s.ID())
		}
	case "R":
		return m, m.stage.ActivateAll()
	case "y":
		m.copyProgram()
	case "p":
		cmd := m.pasteProgram()
		return m, cmd
	case "S":
		m.export(FileOpSavePNG)
	case "T":
		m.export(FileOpSaveVisualTXT)
	case "h", "j", "k", "l", "H", "J", "K", "L",
		"left", "right", "up", "down",
		"shift+left", "shift+right", "shift+up", "shift+down":
		return m, m.handleNavigation(key, m.getMoveSpeed(key))
	}
	return m, nil
}

func (m model) handleConfirm(key string) (tea.Model, tea.Cmd) {
	m.mode = ModeNormal
	if key != "y" && key != "Y" {
		return m, nil
	}
	switch m.confirmAction {
	case ConfirmQuit:
		return m, tea.Quit
	case ConfirmDeleteSprite:
		id := m.confirmSprite
		m.confirmSprite = ""
		cmd := m.deleteSprite(id)
		return m, cmd
	}
	return m, nil
}

func (m *model) deleteSprite(id string) tea.Cmd {
	removed, cmd := m.stage.Remove(id)
	if removed {
		m.successMessage = "Deleted " + id
	}
	return cmd
}

// handleMouse selects on press and drags on motion. A press and release
// without motion is a plain click and does not move the sprite.
func (m *model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	p := newLayout(m.config).toStage(msg.X, msg.Y)
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		id, ok := m.stage.SpriteAt(p)
		if !ok {
			return nil
		}
		m.dragging = id
		m.dragMoved = false
		m.mode = ModeDrag
		return m.stage.Click(id)

	case msg.Action == tea.MouseActionMotion && m.dragging != "":
		m.dragMoved = true
		return m.stage.Drag(m.dragging, p.X, p.Y)

	case msg.Action == tea.MouseActionRelease && m.dragging != "":
		id, moved := m.dragging, m.dragMoved
		m.dragging = ""
		m.dragMoved = false
		m.mode = ModeNormal
		if !moved {
			return nil
		}
		return m.stage.Drag(id, p.X, p.Y)
	}
	return nil
}

func (m model) spawnPoint() Point {
	n := m.stage.Len()
	return Point{X: 40 + 96*(n%6), Y: 80 + 112*(n/6)}
}

func (m model) canvasSize() (int, int) {
	width := m.width
	if width < 1 {
		width = 80
	}
	height := m.height - 1 // status line
	if m.height < 1 {
		height = 24
	}
	if height < 1 {
		height = 1
	}
	return width, height
}

func (m model) View() string {
	if m.help {
		return m.helpView()
	}

	width, height := m.canvasSize()
	canvas := renderStage(m.stage, newLayout(m.config), width, height)

	var result strings.Builder
	for _, line := range canvas.Render() {
		result.WriteString(line)
		result.WriteString("\n")
	}

	status := m.statusLine()
	if r := []rune(status); lipgloss.Width(status) > width && len(r) > width {
		status = string(r[:width])
	}
	result.WriteString(status)
	return result.String()
}
