package theme

import "charm.land/lipgloss/v2"

// Styles contains all pre-built lipgloss styles for the TUI.
type Styles struct {
	HeaderTitle     lipgloss.Style
	HeaderSeparator lipgloss.Style
	HeaderInfo      lipgloss.Style

	// Panels
	PanelTitle lipgloss.Style
	PanelRule  lipgloss.Style

	// Grid cells
	CellOn        lipgloss.Style
	CellOff       lipgloss.Style
	CellSelecting lipgloss.Style

	// Axis labels
	RowLabel lipgloss.Style
	ColLabel lipgloss.Style

	// Status bar
	StatusBar      lipgloss.Style
	StatusActive   lipgloss.Style
	StatusDragging lipgloss.Style
	StatusOnline   lipgloss.Style
	StatusOffline  lipgloss.Style

	// Hints
	HintKey       lipgloss.Style
	HintDesc      lipgloss.Style
	HintSeparator lipgloss.Style

	Toast lipgloss.Style
}
