package theme

import (
	"sync"

	"charm.land/lipgloss/v2"
)

// Theme defines the color palette for the TUI.
type Theme struct {
	Name   string
	IsDark bool

	// Semantic colors
	Primary   string // hex, e.g. "#cba6f7"
	Secondary string
	Tertiary  string

	// Background hierarchy (dark→light)
	BgCrust    string
	BgBase     string
	BgMantle   string
	BgSurface0 string
	BgSurface1 string

	// Foreground hierarchy (dim→bright)
	FgMuted  string
	FgSubtle string
	FgBase   string
	FgBright string

	// Status colors
	Success string
	Warning string
	Error   string
	Info    string

	// Grid colors
	CellOn        string
	CellOff       string
	CellSelecting string

	// Lazy-built styles
	styles     *Styles
	stylesOnce sync.Once
}

var (
	currentMu sync.RWMutex
	current   = NewCatppuccinMocha()
)

// Current returns the active theme.
func Current() *Theme {
	currentMu.RLock()
	defer currentMu.RUnlock()
	return current
}

// SetCurrent replaces the active theme. nil is ignored.
func SetCurrent(t *Theme) {
	if t == nil {
		return
	}
	currentMu.Lock()
	defer currentMu.Unlock()
	current = t
}

// S returns the pre-built styles for this theme.
// Styles are lazily initialized on first call.
func (t *Theme) S() *Styles {
	t.stylesOnce.Do(func() {
		t.styles = t.buildStyles()
	})
	return t.styles
}

// buildStyles constructs the pre-built styles from theme colors.
func (t *Theme) buildStyles() *Styles {
	return &Styles{
		HeaderTitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Primary)).
			Bold(true),
		HeaderSeparator: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.FgMuted)),
		HeaderInfo: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.FgSubtle)),

		PanelTitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Primary)).
			Bold(true),
		PanelRule: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.BgSurface1)),

		CellOn: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.CellOn)).
			Bold(true),
		CellOff: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.CellOff)),
		CellSelecting: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.BgBase)).
			Background(lipgloss.Color(t.CellSelecting)),

		RowLabel: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.FgBase)),
		ColLabel: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Secondary)),

		StatusBar: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.FgBase)).
			Background(lipgloss.Color(t.BgMantle)).
			Padding(0, 1),
		StatusActive: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)),
		StatusDragging: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)).
			Bold(true),
		StatusOnline: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)),
		StatusOffline: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Error)),

		HintKey: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.FgSubtle)),
		HintDesc: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.FgMuted)),
		HintSeparator: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.BgSurface1)),

		Toast: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.BgBase)).
			Background(lipgloss.Color(t.Warning)).
			Padding(0, 1).
			Bold(true),
	}
}
