package tui

import (
	"strings"

	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mark3labs/bitgrid/internal/tui/theme"
)

// DrawText renders plain text at a position
func DrawText(scr uv.Screen, area uv.Rectangle, text string) {
	uv.NewStyledString(text).Draw(scr, area)
}

// DrawStyled renders lipgloss-styled content at a position
func DrawStyled(scr uv.Screen, area uv.Rectangle, style lipgloss.Style, text string) {
	content := style.Width(area.Dx()).Height(area.Dy()).Render(text)
	uv.NewStyledString(content).Draw(scr, area)
}

// DrawPanel renders a panel with a title header and returns the inner content area.
// The header shows "Title ────────" with a trailing rule line.
func DrawPanel(scr uv.Screen, area uv.Rectangle, title string) uv.Rectangle {
	if title == "" || area.Dy() < 1 {
		return area
	}

	st := theme.Current().S()
	styledTitle := st.PanelTitle.Render(truncateString(title, max(area.Dx()-2, 0)))
	ruleWidth := max(area.Dx()-lipgloss.Width(styledTitle)-1, 0) // -1 for space
	header := styledTitle + " " + st.PanelRule.Render(strings.Repeat("─", ruleWidth))
	uv.NewStyledString(header).Draw(scr, uv.Rect(area.Min.X, area.Min.Y, area.Dx(), 1))

	return uv.Rectangle{
		Min: uv.Position{X: area.Min.X, Y: area.Min.Y + 1},
		Max: area.Max,
	}
}
