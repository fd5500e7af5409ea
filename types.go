package main

import tea "github.com/charmbracelet/bubbletea"

// Point is a position in stage units.
type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// State is the visual state owned by a single sprite.
type State struct {
	Position  Point
	Rotation  int // degrees, accumulates without wrapping
	SayText   string
	ThinkText string
	Colliding bool
}

// Props is the input a host hands to a sprite.
type Props struct {
	ID         string
	Commands   []Command
	Position   Point
	IsActive   bool
	IsSelected bool
}

// Callbacks are the notifications a sprite sends to its host. All of them
// are optional.
type Callbacks struct {
	OnSelect         func()
	OnExecutionDone  func(id string)
	OnPositionUpdate func(id string, pos Point)
}

type model struct {
	width          int
	height         int
	stage          *Stage
	config         *Config
	mode           Mode
	help           bool
	helpScroll     int
	dragging       string
	dragMoved      bool
	confirmAction  ConfirmAction
	confirmSprite  string
	errorMessage   string
	successMessage string
	initCmd        tea.Cmd
}
