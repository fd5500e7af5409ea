package main

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportPNG(t *testing.T) {
	st, _ := newTestStage()
	id, _ := st.Add("cat", Point{X: 10, Y: 10}, []Command{{Type: CommandSay, Message: "meow", Time: "1"}})
	st.Add("dog", Point{X: 50, Y: 30}, nil)
	st.Activate(id)

	path := filepath.Join(t.TempDir(), "stage.png")
	require.NoError(t, ExportPNG(st, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 40+64+160, img.Bounds().Dx())
	assert.Equal(t, 20+64+160, img.Bounds().Dy())
}

func TestExportPNG_FarApartSpritesAreScaledDown(t *testing.T) {
	st, _ := newTestStage()
	st.Add("near", Point{X: 0, Y: 0}, nil)
	st.Add("far", Point{X: 20000000, Y: 20000000}, nil)

	path := filepath.Join(t.TempDir(), "stage.png")
	require.NoError(t, ExportPNG(st, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, maxExportSide, cfg.Width)
	assert.Equal(t, maxExportSide, cfg.Height)
}

func TestExportPNG_EmptyStage(t *testing.T) {
	st, _ := newTestStage()
	err := ExportPNG(st, filepath.Join(t.TempDir(), "stage.png"))
	assert.ErrorIs(t, err, errEmptyStage)
}

func TestExport_VisualTXT(t *testing.T) {
	cfg := defaultConfig()
	cfg.SaveDirectory = t.TempDir()
	m, _ := newTestModel(cfg, nil)

	m.export(FileOpSaveVisualTXT)
	path := filepath.Join(cfg.SaveDirectory, "stage.txt")
	assert.Equal(t, "Saved "+path, m.successMessage)
	assert.Empty(t, m.errorMessage)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(string(data), "\n")
	assert.Contains(t, string(data), "( o.o )")
	for _, line := range lines {
		assert.Equal(t, strings.TrimRight(line, " "), line)
	}
}

func TestExport_ReportsFailure(t *testing.T) {
	cfg := defaultConfig()
	m, _ := newTestModel(cfg, nil)
	_, _ = m.stage.Remove("cat")

	m.export(FileOpSavePNG)
	assert.Equal(t, errEmptyStage.Error(), m.errorMessage)
	assert.Empty(t, m.successMessage)
}
