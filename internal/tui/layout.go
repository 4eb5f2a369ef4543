package tui

import uv "github.com/charmbracelet/ultraviolet"

// Layout breakpoints and dimensions
const (
	// CompactWidthBreakpoint is the minimum width for desktop mode
	CompactWidthBreakpoint = 60
	// StatusHeight is the height of the status bar in rows
	StatusHeight = 1
	// GridPadding is the margin around the grid
	GridPadding = 1
)

// LayoutMode represents the layout mode based on terminal size
type LayoutMode int

const (
	// LayoutDesktop shows full status text
	LayoutDesktop LayoutMode = iota
	// LayoutCompact shortens the status bar
	LayoutCompact
)

// Layout defines the rectangular regions for all UI components
type Layout struct {
	Mode   LayoutMode
	Area   uv.Rectangle
	Grid   uv.Rectangle
	Help   uv.Rectangle
	Status uv.Rectangle
}

// IsCompact returns true if the layout is in compact mode
func (l Layout) IsCompact() bool {
	return l.Mode == LayoutCompact
}

// CalculateLayout computes the layout rectangles based on terminal
// dimensions and the height of the help footer.
func CalculateLayout(width, height, helpHeight int) Layout {
	mode := LayoutDesktop
	if width < CompactWidthBreakpoint {
		mode = LayoutCompact
	}

	area := uv.Rectangle{
		Max: uv.Position{X: max(width, 0), Y: max(height, 0)},
	}

	footer := min(StatusHeight+helpHeight, area.Dy())
	contentRect, rest := uv.SplitVertical(area, uv.Fixed(area.Dy()-footer))
	helpRect, statusRect := uv.SplitVertical(rest, uv.Fixed(rest.Dy()-min(StatusHeight, rest.Dy())))

	gridRect := contentRect
	if gridRect.Dx() > 2*GridPadding && gridRect.Dy() > 2*GridPadding {
		gridRect = uv.Rect(
			gridRect.Min.X+GridPadding,
			gridRect.Min.Y+GridPadding,
			gridRect.Dx()-2*GridPadding,
			gridRect.Dy()-2*GridPadding,
		)
	}

	return Layout{
		Mode:   mode,
		Area:   area,
		Grid:   gridRect,
		Help:   helpRect,
		Status: statusRect,
	}
}
