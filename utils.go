package main

import (
	"math"
	"os/exec"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/atotto/clipboard"
)

// Block inputs are free-form text. The numeric helpers below are lenient on
// purpose: anything that does not start with a number reads as 0 instead of
// failing the run.

var floatPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// parseIntOr0 reads the leading integer of s, ignoring leading whitespace
// and any trailing text. "12px" is 12, "3.9" is 3, "abc" and "" are 0.
func parseIntOr0(s string) int {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	sign := 1
	if s != "" && (s[0] == '+' || s[0] == '-') {
		if s[0] == '-' {
			sign = -1
		}
		s = s[1:]
	}
	base := 10
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base = 16
		s = s[2:]
	}
	end := 0
	for end < len(s) && isDigit(s[end], base) {
		end++
	}
	if end == 0 {
		return 0
	}
	// Only digits remain, so the sole possible error is overflow, where
	// ParseInt saturates.
	n, _ := strconv.ParseInt(s[:end], base, 64)
	// Positions and rotations accumulate in int; a per-command cap keeps
	// long programs from wrapping around.
	if n > math.MaxInt32 {
		n = math.MaxInt32
	}
	return sign * int(n)
}

func isDigit(b byte, base int) bool {
	switch {
	case b >= '0' && b <= '9':
		return true
	case base == 16 && ((b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')):
		return true
	}
	return false
}

// parseFloatOr0 reads the leading decimal number of s. Malformed input is 0.
func parseFloatOr0(s string) float64 {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	for _, inf := range []string{"Infinity", "+Infinity"} {
		if strings.HasPrefix(s, inf) {
			return math.Inf(1)
		}
	}
	if strings.HasPrefix(s, "-Infinity") {
		return math.Inf(-1)
	}
	m := floatPrefix.FindString(s)
	if m == "" {
		return 0
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil && !math.IsInf(f, 0) {
		return 0
	}
	return f
}

// numberOrNaN converts the whole of s to a number, returning NaN when any
// part of it is not numeric. Blank input is 0.
func numberOrNaN(s string) float64 {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return 0
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	lower := strings.ToLower(s)
	if strings.Contains(lower, "inf") || strings.Contains(lower, "nan") || strings.Contains(s, "_") {
		return math.NaN()
	}
	if strings.HasPrefix(lower, "0x") {
		n, err := strconv.ParseUint(s[2:], 16, 64)
		if err != nil {
			return math.NaN()
		}
		return float64(n)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// secondsToDelay turns a seconds value into a timer delay. NaN, negative and
// overlong values all fire immediately.
func secondsToDelay(seconds float64) time.Duration {
	if math.IsNaN(seconds) || seconds <= 0 {
		return 0
	}
	ms := seconds * 1000
	if ms > float64(maxTimerDelay/time.Millisecond) {
		return 0
	}
	return time.Duration(ms * float64(time.Millisecond))
}

var (
	clipboardWrite = clipboard.WriteAll
	clipboardRead  = readClipboardText
)

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

func isHTML(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "<") &&
		(strings.Contains(text, "<html") || strings.Contains(text, "<body") || strings.Contains(text, "<pre"))
}

func extractTextFromHTML(html string) string {
	var result strings.Builder
	result.Grow(len(html))
	inTag := false
	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			result.WriteRune(r)
		}
	}
	return strings.NewReplacer(
		"&lt;", "<", "&gt;", ">", "&amp;", "&", "&quot;", "\"", "&#39;", "'", "&nbsp;", " ",
	).Replace(result.String())
}

// cleanClipboardText normalizes pasted program text: markup is stripped,
// control characters other than whitespace are dropped, and line endings
// become \n. Tabs turn into spaces since YAML rejects them for indentation.
func cleanClipboardText(text string) string {
	if isHTML(text) {
		text = extractTextFromHTML(text)
	}
	var result strings.Builder
	result.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\t':
			result.WriteString("  ")
		case r == '\n' || r == '\r' || r >= 32:
			result.WriteRune(r)
		}
	}
	normalized := strings.ReplaceAll(result.String(), "\r\n", "\n")
	return strings.ReplaceAll(normalized, "\r", "\n")
}
