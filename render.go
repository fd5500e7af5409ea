package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var catArt = []string{
	` /\_/\  `,
	`( o.o ) `,
	` > ^ <  `,
}

var thoughtBorder = lipgloss.Border{
	Top:         "~",
	Bottom:      "~",
	Left:        "(",
	Right:       ")",
	TopLeft:     ".",
	TopRight:    ".",
	BottomLeft:  "'",
	BottomRight: "'",
}

// headings are indexed by eighths of a turn, clockwise from facing right.
var headings = []rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}

func headingGlyph(rotation int) rune {
	deg := ((rotation % 360) + 360) % 360
	return headings[((deg+22)/45)%len(headings)]
}

// layout converts between stage units and terminal cells.
type layout struct {
	cellWidth  int
	cellHeight int
}

func newLayout(cfg *Config) layout {
	l := layout{cellWidth: defaultCellWidth, cellHeight: defaultCellHeight}
	if cfg != nil {
		if cfg.CellWidth > 0 {
			l.cellWidth = cfg.CellWidth
		}
		if cfg.CellHeight > 0 {
			l.cellHeight = cfg.CellHeight
		}
	}
	return l
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func (l layout) toCell(p Point) (int, int) {
	return floorDiv(p.X, l.cellWidth), floorDiv(p.Y, l.cellHeight)
}

func (l layout) toStage(cx, cy int) Point {
	return Point{X: cx * l.cellWidth, Y: cy * l.cellHeight}
}

func (l layout) spriteCells() (int, int) {
	w, h := spriteSize/l.cellWidth, spriteSize/l.cellHeight
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// spriteArt returns the h rows of the sprite body, each exactly w cells
// wide. The last row carries the heading and the raw rotation.
func spriteArt(rotation, w, h int) []string {
	rows := make([]string, 0, h)
	for i := 0; i < h-1 && i < len(catArt); i++ {
		rows = append(rows, fitWidth(catArt[i], w))
	}
	for len(rows) < h-1 {
		rows = append(rows, fitWidth("", w))
	}
	rows = append(rows, fitWidth(fmt.Sprintf("%c%d°", headingGlyph(rotation), rotation), w))
	return rows
}

func fitWidth(s string, w int) string {
	r := []rune(s)
	if len(r) > w {
		return string(r[:w])
	}
	return s + strings.Repeat(" ", w-len(r))
}

func drawSprite(c *Canvas, s *Sprite, l layout) {
	st := s.State()
	cx, cy := l.toCell(st.Position)
	cx += s.ShakeOffset()
	w, h := l.spriteCells()

	c.Fill(cx, cy, w, h)
	rows := spriteArt(st.Rotation, w, h)
	for i, row := range rows {
		style := styleSprite
		if i == len(rows)-1 {
			style = styleLabel
		}
		c.WriteString(cx, cy+i, row, style)
	}
	switch {
	case s.Props().IsSelected:
		c.DrawBox(cx-1, cy-1, w+2, h+2, lipgloss.RoundedBorder(), styleSelected)
	case st.Colliding:
		c.DrawBox(cx-1, cy-1, w+2, h+2, lipgloss.ThickBorder(), styleColliding)
	}

	if st.SayText != "" {
		drawBubble(c, cx, cy-1, st.SayText, lipgloss.RoundedBorder(), styleBubble)
	}
	if st.ThinkText != "" {
		drawBubble(c, cx, cy-1, "◦ "+st.ThinkText, thoughtBorder, styleThought)
	}
}

// drawBubble draws text in a box whose bottom edge sits just above row
// bottom.
func drawBubble(c *Canvas, x, bottom int, text string, b lipgloss.Border, style cellStyle) {
	lines := strings.Split(text, "\n")
	width := 0
	for _, line := range lines {
		if n := len([]rune(line)); n > width {
			width = n
		}
	}
	w, h := width+4, len(lines)+2
	y := bottom - h
	c.Fill(x, y, w, h)
	c.DrawBox(x, y, w, h, b, style)
	for i, line := range lines {
		c.WriteString(x+2, y+1+i, line, style)
	}
}

// renderStage draws every sprite, selected last so it sits on top.
func renderStage(st *Stage, l layout, width, height int) *Canvas {
	c := NewCanvas(width, height)
	for _, s := range st.Sprites() {
		drawSprite(c, s, l)
	}
	return c
}

func (m model) statusLine() string {
	var b strings.Builder
	b.WriteString("Mode: ")
	b.WriteString(m.modeString())
	if s := m.stage.Selected(); s != nil {
		st := s.State()
		fmt.Fprintf(&b, " | %s (%s) | pos %d,%d | rot %d° | %d blocks",
			s.ID(), s.RunState(), st.Position.X, st.Position.Y, st.Rotation, len(s.Commands()))
		if s.LastFault() != nil {
			b.WriteString(" | last run aborted")
		}
	} else {
		b.WriteString(" | no sprites, 'n' adds one")
	}
	switch {
	case m.mode == ModeConfirm:
		b.WriteString(" | " + m.confirmPrompt())
	case m.errorMessage != "":
		b.WriteString(" | Error: " + m.errorMessage)
	case m.successMessage != "":
		b.WriteString(" | " + m.successMessage)
	default:
		b.WriteString(" | ?=help")
	}
	return b.String()
}

func (m model) confirmPrompt() string {
	switch m.confirmAction {
	case ConfirmDeleteSprite:
		return fmt.Sprintf("Delete %s? (y/n)", m.confirmSprite)
	case ConfirmQuit:
		return "Quit? (y/n)"
	}
	return "Confirm? (y/n)"
}

func (m model) modeString() string {
	switch m.mode {
	case ModeNormal:
		return "NORMAL"
	case ModeDrag:
		return "DRAG"
	case ModeConfirm:
		return "CONFIRM"
	default:
		return "UNKNOWN"
	}
}

var helpLines = []string{
	"catstage help",
	"=============",
	"",
	"Sprites:",
	"--------",
	"  tab              Select next sprite",
	"  n                Add a sprite running the demo program",
	"  x                Delete selected sprite",
	"  h/j/k/l, arrows  Nudge selected sprite (Shift: faster)",
	"  mouse            Click to select, drag to move",
	"",
	"Programs:",
	"---------",
	"  r                Run selected sprite",
	"  R                Run all sprites",
	"  y                Copy selected program to clipboard (YAML)",
	"  p                Paste program from clipboard into selected sprite",
	"",
	"Snapshots:",
	"----------",
	"  S                Export stage as PNG",
	"  T                Export stage as text",
	"",
	"  ?                Toggle help (j/k to scroll)",
	"  q                Quit",
}

func (m model) helpView() string {
	height := m.height
	if height < 1 {
		height = len(helpLines)
	}
	start := m.helpScroll
	if start > len(helpLines)-1 {
		start = len(helpLines) - 1
	}
	if start < 0 {
		start = 0
	}
	end := start + height
	if end > len(helpLines) {
		end = len(helpLines)
	}
	return strings.Join(helpLines[start:end], "\n")
}
