package main

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

type cellStyle uint8

const (
	styleNone cellStyle = iota
	styleSprite
	styleSelected
	styleColliding
	styleBubble
	styleThought
	styleLabel
)

var cellStyles = map[cellStyle]lipgloss.Style{
	styleSprite:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	styleSelected:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
	styleColliding: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	styleBubble:    lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	styleThought:   lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Italic(true),
	styleLabel:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
}

type cell struct {
	r     rune
	style cellStyle
}

// Canvas is a fixed-size grid of styled terminal cells. Writes outside the
// grid are clipped.
type Canvas struct {
	width  int
	height int
	cells  [][]cell
}

func NewCanvas(width, height int) *Canvas {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	cells := make([][]cell, height)
	for y := range cells {
		cells[y] = make([]cell, width)
		for x := range cells[y] {
			cells[y][x] = cell{r: ' '}
		}
	}
	return &Canvas{width: width, height: height, cells: cells}
}

func (c *Canvas) Set(x, y int, r rune, style cellStyle) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	c.cells[y][x] = cell{r: r, style: style}
}

func (c *Canvas) At(x, y int) rune {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return 0
	}
	return c.cells[y][x].r
}

func (c *Canvas) WriteString(x, y int, s string, style cellStyle) {
	for _, r := range s {
		c.Set(x, y, r, style)
		x++
	}
}

// Fill blanks a rectangle so the layers drawn beneath it do not show
// through.
func (c *Canvas) Fill(x, y, w, h int) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			c.Set(col, row, ' ', styleNone)
		}
	}
}

// DrawBox outlines a w by h rectangle with the glyphs of b.
func (c *Canvas) DrawBox(x, y, w, h int, b lipgloss.Border, style cellStyle) {
	if w < 2 || h < 2 {
		return
	}
	top, bottom := firstRune(b.Top), firstRune(b.Bottom)
	left, right := firstRune(b.Left), firstRune(b.Right)
	for col := x + 1; col < x+w-1; col++ {
		c.Set(col, y, top, style)
		c.Set(col, y+h-1, bottom, style)
	}
	for row := y + 1; row < y+h-1; row++ {
		c.Set(x, row, left, style)
		c.Set(x+w-1, row, right, style)
	}
	c.Set(x, y, firstRune(b.TopLeft), style)
	c.Set(x+w-1, y, firstRune(b.TopRight), style)
	c.Set(x, y+h-1, firstRune(b.BottomLeft), style)
	c.Set(x+w-1, y+h-1, firstRune(b.BottomRight), style)
}

func firstRune(s string) rune {
	if s == "" {
		return ' '
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

// Lines returns the grid as plain text.
func (c *Canvas) Lines() []string {
	lines := make([]string, c.height)
	for y, row := range c.cells {
		var b strings.Builder
		b.Grow(len(row))
		for _, cl := range row {
			b.WriteRune(cl.r)
		}
		lines[y] = b.String()
	}
	return lines
}

// Render returns the grid with styles applied, grouping runs of cells that
// share a style so each run is rendered once.
func (c *Canvas) Render() []string {
	lines := make([]string, c.height)
	for y, row := range c.cells {
		var b, run strings.Builder
		current := styleNone
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if st, ok := cellStyles[current]; ok {
				b.WriteString(st.Render(run.String()))
			} else {
				b.WriteString(run.String())
			}
			run.Reset()
		}
		for _, cl := range row {
			if cl.style != current {
				flush()
				current = cl.style
			}
			run.WriteRune(cl.r)
		}
		flush()
		lines[y] = b.String()
	}
	return lines
}
