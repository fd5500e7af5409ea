package main

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

var errEmptyStage = errors.New("nothing to export")

// maxExportSide bounds each side of an exported PNG. Larger stages are
// scaled down to fit.
const maxExportSide = 4096

// exportVisualTXT writes the stage exactly as the terminal shows it, minus
// styling.
func (m *model) exportVisualTXT(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filename, err)
	}
	defer file.Close()

	width, height := m.canvasSize()
	canvas := renderStage(m.stage, newLayout(m.config), width, height)
	for _, line := range canvas.Lines() {
		fmt.Fprintln(file, strings.TrimRight(line, " "))
	}
	Log.Info("exported text snapshot", zap.String("path", filename))
	return nil
}

// ExportPNG draws the stage at stage resolution, scaled down when the
// sprites spread wider than maxExportSide. Unlike the terminal view the PNG
// shows true rotation and the shake tilt of colliding sprites.
func ExportPNG(st *Stage, filename string) error {
	sprites := st.Sprites()
	if len(sprites) == 0 {
		return errEmptyStage
	}

	padding := 80
	minX, minY := sprites[0].State().Position.X, sprites[0].State().Position.Y
	maxX, maxY := minX, minY
	for _, s := range sprites {
		p := s.State().Position
		minX, minY = min(minX, p.X), min(minY, p.Y)
		maxX, maxY = max(maxX, p.X+spriteSize), max(maxY, p.Y+spriteSize)
	}
	minX -= padding
	minY -= padding
	maxX += padding
	maxY += padding

	width, height := float64(maxX-minX), float64(maxY-minY)
	scale := math.Min(1, math.Min(maxExportSide/width, maxExportSide/height))
	dc := gg.NewContext(
		min(maxExportSide, max(1, int(math.Ceil(width*scale)))),
		min(maxExportSide, max(1, int(math.Ceil(height*scale)))),
	)
	dc.SetColor(color.White)
	dc.Clear()
	dc.Scale(scale, scale)

	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return fmt.Errorf("failed to parse font: %w", err)
	}
	dc.SetFontFace(truetype.NewFace(ttfFont, &truetype.Options{
		Size:    11,
		DPI:     72,
		Hinting: font.HintingFull,
	}))

	for _, s := range sprites {
		drawSpritePNG(dc, s, float64(minX), float64(minY))
	}

	if err := dc.SavePNG(filename); err != nil {
		return fmt.Errorf("saving %s: %w", filename, err)
	}
	Log.Info("exported png snapshot",
		zap.String("path", filename),
		zap.Int("sprites", len(sprites)),
		zap.Float64("scale", scale))
	return nil
}

func drawSpritePNG(dc *gg.Context, s *Sprite, originX, originY float64) {
	st := s.State()
	x := float64(st.Position.X) - originX
	y := float64(st.Position.Y) - originY
	size := float64(spriteSize)
	cx, cy := x+size/2, y+size/2

	angle := float64(st.Rotation)
	if st.Colliding {
		angle += float64(5 * s.ShakeOffset())
	}

	dc.Push()
	dc.RotateAbout(gg.Radians(angle), cx, cy)
	dc.SetRGB(1, 0.8, 0.4)
	dc.DrawRoundedRectangle(x, y, size, size, 8)
	dc.Fill()
	dc.SetColor(color.Black)
	for i, line := range catArt {
		dc.DrawStringAnchored(strings.TrimRight(line, " "), cx, y+14+float64(i)*14, 0.5, 0.5)
	}
	switch {
	case s.Props().IsSelected:
		dc.SetRGB(0, 0, 1)
	case st.Colliding:
		dc.SetRGB(1, 0, 0)
	default:
		dc.SetRGBA(0, 0, 0, 0)
	}
	dc.SetLineWidth(3)
	dc.DrawCircle(cx, cy, size/2+4)
	dc.Stroke()
	dc.Pop()

	if st.SayText != "" {
		drawBubblePNG(dc, x, y, st.SayText, 6)
	}
	if st.ThinkText != "" {
		drawBubblePNG(dc, x, y, st.ThinkText, 20)
	}
}

func drawBubblePNG(dc *gg.Context, x, spriteTop float64, text string, radius float64) {
	w, h := dc.MeasureString(text)
	w, h = w+16, h+12
	top := spriteTop - h - 12
	dc.SetColor(color.White)
	dc.DrawRoundedRectangle(x, top, w, h, radius)
	dc.FillPreserve()
	dc.SetColor(color.Black)
	dc.SetLineWidth(1)
	dc.Stroke()
	dc.DrawStringAnchored(text, x+w/2, top+h/2, 0.5, 0.5)
}

func (m *model) export(op FileOperation) {
	var err error
	var path string
	switch op {
	case FileOpSavePNG:
		path = m.config.GetSavePath("stage.png")
		err = ExportPNG(m.stage, path)
	case FileOpSaveVisualTXT:
		path = m.config.GetSavePath("stage.txt")
		err = m.exportVisualTXT(path)
	}
	if err != nil {
		m.errorMessage = err.Error()
		m.successMessage = ""
		Log.Warn("export failed", zap.String("path", path), zap.Error(err))
		return
	}
	m.errorMessage = ""
	m.successMessage = "Saved " + path
}
