package widget

import "github.com/mark3labs/bitgrid/internal/grid"

// Flag is a per-cell visual marker on a rendering surface.
type Flag uint8

const (
	// FlagActive marks a cell whose matrix value is true.
	FlagActive Flag = 1 << iota
	// FlagSelecting marks a cell inside the rectangle being dragged.
	FlagSelecting
)

// String returns the string representation of a flag
func (f Flag) String() string {
	switch f {
	case FlagActive:
		return "active"
	case FlagSelecting:
		return "selecting"
	default:
		return "unknown"
	}
}

// Surface is the render target a widget draws its cells on.
// Implementations keep per-cell flags addressable in O(1) so the widget can
// update only the cells that changed.
type Surface interface {
	// Build discards any existing cells and creates a rows×cols grid
	// with all flags cleared.
	Build(rows, cols int, rowLabels, colLabels []string)
	// Relabel replaces labels without touching cells.
	Relabel(rowLabels, colLabels []string)
	// SetFlag turns flag on or off for a cell.
	SetFlag(cell grid.Cell, flag Flag, on bool)
	// HasFlag reports whether flag is set on a cell.
	HasFlag(cell grid.Cell, flag Flag) bool
	// CellAt resolves a screen coordinate to a cell, or ok=false on a miss.
	CellAt(x, y int) (cell grid.Cell, ok bool)
	// Ready reports whether the surface can accept Build and hit tests.
	Ready() bool
}
