package testfixtures

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"
)

// Initialize test environment
func init() {
	// Set Ascii profile to disable color output for consistent renders across CI/platforms
	lipgloss.Writer.Profile = colorprofile.Ascii
}

// Canonical terminal size for all tests
const (
	TestTermWidth  = 120
	TestTermHeight = 40
)

// Render draws into a screen buffer of the given size and returns the
// rendered text without styling, trailing spaces trimmed from every line.
func Render(width, height int, draw func(scr uv.Screen, area uv.Rectangle)) string {
	canvas := uv.NewScreenBuffer(width, height)
	draw(canvas, uv.Rect(0, 0, width, height))
	return TrimLines(ansi.Strip(canvas.Render()))
}

// RenderDefault renders at the canonical terminal size.
func RenderDefault(draw func(scr uv.Screen, area uv.Rectangle)) string {
	return Render(TestTermWidth, TestTermHeight, draw)
}

// TrimLines removes trailing whitespace from each line and trailing blank lines.
func TrimLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \r")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// Line returns line n of s, or "" when out of range.
func Line(s string, n int) string {
	lines := strings.Split(s, "\n")
	if n < 0 || n >= len(lines) {
		return ""
	}
	return lines[n]
}
