package main

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

type Config struct {
	SaveDirectory string
	LogFile       string
	Debug         bool
	CellWidth     int
	CellHeight    int
	Confirmations bool
}

func defaultConfig() *Config {
	return &Config{
		CellWidth:     defaultCellWidth,
		CellHeight:    defaultCellHeight,
		Confirmations: true,
	}
}

// loadConfig reads ~/.catstagerc. A missing or unreadable file leaves the
// defaults in place.
func loadConfig() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return defaultConfig()
	}
	return loadConfigFile(filepath.Join(homeDir, ".catstagerc"), homeDir)
}

func loadConfigFile(path, homeDir string) *Config {
	file, err := os.Open(path)
	if err != nil {
		return defaultConfig()
	}
	defer file.Close()
	return parseConfig(file, homeDir)
}

func parseConfig(r io.Reader, homeDir string) *Config {
	config := defaultConfig()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch strings.ToLower(key) {
		case "savedirectory", "save_directory", "savedir":
			config.SaveDirectory = expandPath(value, homeDir)
		case "logfile", "log_file", "log":
			config.LogFile = expandPath(value, homeDir)
		case "debug":
			config.Debug = strings.ToLower(value) == "true"
		case "cellwidth", "cell_width":
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				config.CellWidth = n
			}
		case "cellheight", "cell_height":
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				config.CellHeight = n
			}
		case "confirmations", "confirm":
			config.Confirmations = strings.ToLower(value) == "true"
		}
	}

	return config
}

func expandPath(value, homeDir string) string {
	if value == "" {
		return value
	}
	if strings.HasPrefix(value, "~") && homeDir != "" {
		value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
	}
	if !filepath.IsAbs(value) {
		if absPath, err := filepath.Abs(value); err == nil {
			value = absPath
		}
	}
	return value
}

func (c *Config) GetSavePath(filename string) string {
	if c.SaveDirectory == "" {
		return filename
	}
	if err := os.MkdirAll(c.SaveDirectory, 0755); err != nil {
		Log.Warn("cannot create save directory", zap.String("dir", c.SaveDirectory), zap.Error(err))
	}
	return filepath.Join(c.SaveDirectory, filename)
}
