package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mark3labs/bitgrid/internal/selection"
	"github.com/mark3labs/bitgrid/internal/tui/theme"
)

// GridInfo is the grid summary shown in the status bar.
type GridInfo struct {
	Name      string
	Rows      int
	Cols      int
	Active    int
	Phase     selection.Phase
	Selection int // cells inside the drag rectangle
}

// StatusBar displays grid info (left) and drag/bus status (right).
type StatusBar struct {
	width      int
	height     int
	info       GridInfo
	busEnabled bool
	connected  bool
	layoutMode LayoutMode
}

// NewStatusBar creates a new StatusBar component.
func NewStatusBar() *StatusBar {
	return &StatusBar{}
}

// Draw renders the status bar to the screen.
// Format: bitgrid | name | 6x9 | 4 active     dragging 4 . release toggle . esc cancel . ● nats
func (s *StatusBar) Draw(scr uv.Screen, area uv.Rectangle) *tea.Cursor {
	if area.Dx() <= 0 || area.Dy() <= 0 {
		return nil
	}

	left := s.buildLeft()
	right := s.buildRight()

	totalWidth := area.Dx() - 2 // Account for padding
	padding := totalWidth - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	content := left + strings.Repeat(" ", padding) + right
	DrawStyled(scr, area, theme.Current().S().StatusBar, content)
	return nil
}

func (s *StatusBar) buildLeft() string {
	st := theme.Current().S()
	sep := st.HeaderSeparator.Render(" | ")

	left := st.HeaderTitle.Render("bitgrid")
	if s.info.Name != "" {
		left += sep + st.HeaderInfo.Render(s.info.Name)
	}
	left += sep + st.HeaderInfo.Render(fmt.Sprintf("%dx%d", s.info.Rows, s.info.Cols))
	left += sep + st.StatusActive.Render(fmt.Sprintf("%d active", s.info.Active))
	return left
}

func (s *StatusBar) buildRight() string {
	st := theme.Current().S()
	var parts []string

	if s.info.Phase == selection.Dragging {
		parts = append(parts, st.StatusDragging.Render(fmt.Sprintf("dragging %d", s.info.Selection)))
		if s.layoutMode != LayoutCompact {
			parts = append(parts, HintDragging())
		}
	} else if s.layoutMode != LayoutCompact {
		parts = append(parts, HintIdle())
	}
	if s.busEnabled {
		parts = append(parts, s.getConnectionStatus())
	}
	return strings.Join(parts, " "+st.HintSeparator.Render(".")+" ")
}

// getConnectionStatus returns the bus indicator.
// ● = connected, ○ = disconnected
func (s *StatusBar) getConnectionStatus() string {
	st := theme.Current().S()
	if s.layoutMode == LayoutCompact {
		if s.connected {
			return st.StatusOnline.Render("●")
		}
		return st.StatusOffline.Render("○")
	}
	if s.connected {
		return st.StatusOnline.Render("●") + " nats"
	}
	return st.StatusOffline.Render("○") + " nats"
}

// SetSize updates the component dimensions.
func (s *StatusBar) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// SetInfo updates the grid summary.
func (s *StatusBar) SetInfo(info GridInfo) {
	s.info = info
}

// Info returns the grid summary last set.
func (s *StatusBar) Info() GridInfo {
	return s.info
}

// SetConnectionStatus enables the bus indicator and sets its state.
func (s *StatusBar) SetConnectionStatus(connected bool) {
	s.busEnabled = true
	s.connected = connected
}

// SetLayoutMode updates the layout mode (desktop/compact).
func (s *StatusBar) SetLayoutMode(mode LayoutMode) {
	s.layoutMode = mode
}

// truncateString truncates a string to fit within maxWidth, adding "..." if truncated.
func truncateString(s string, maxWidth int) string {
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return string([]rune(s)[:max(maxWidth, 0)])
	}

	runes := []rune(s)
	targetLen := maxWidth - 3 // Reserve space for "..."
	if targetLen >= len(runes) {
		return s
	}
	return string(runes[:targetLen]) + "..."
}
