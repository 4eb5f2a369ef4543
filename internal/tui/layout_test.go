package tui

import (
	"testing"
)

// TestCalculateLayout_Standard tests layout at 80x24
func TestCalculateLayout_Standard(t *testing.T) {
	width, height := 80, 24
	layout := CalculateLayout(width, height, 1)

	if layout.Mode != LayoutDesktop {
		t.Errorf("Expected LayoutDesktop mode at %dx%d, got %v", width, height, layout.Mode)
	}
	if layout.Area.Dx() != width || layout.Area.Dy() != height {
		t.Errorf("Area size mismatch: got %dx%d, want %dx%d",
			layout.Area.Dx(), layout.Area.Dy(), width, height)
	}
	if layout.Status.Dy() != StatusHeight {
		t.Errorf("Status height mismatch: got %d, want %d", layout.Status.Dy(), StatusHeight)
	}
	if layout.Status.Min.Y != height-1 {
		t.Errorf("Status should be the last row, got y=%d", layout.Status.Min.Y)
	}
	if layout.Help.Dy() != 1 || layout.Help.Min.Y != height-2 {
		t.Errorf("Help should be one row above status, got %v", layout.Help)
	}

	// Grid is inset by padding inside the content region (rows 0..21).
	if layout.Grid.Min.X != GridPadding || layout.Grid.Min.Y != GridPadding {
		t.Errorf("Grid origin mismatch: got %v", layout.Grid.Min)
	}
	if layout.Grid.Dx() != width-2*GridPadding || layout.Grid.Dy() != height-2-2*GridPadding {
		t.Errorf("Grid size mismatch: got %dx%d", layout.Grid.Dx(), layout.Grid.Dy())
	}
}

// TestCalculateLayout_Compact tests the narrow breakpoint
func TestCalculateLayout_Compact(t *testing.T) {
	layout := CalculateLayout(CompactWidthBreakpoint-1, 20, 1)
	if !layout.IsCompact() {
		t.Errorf("Expected compact layout below %d columns", CompactWidthBreakpoint)
	}

	layout = CalculateLayout(CompactWidthBreakpoint, 20, 1)
	if layout.IsCompact() {
		t.Errorf("Expected desktop layout at %d columns", CompactWidthBreakpoint)
	}
}

// TestCalculateLayout_TallHelp tests that full help shrinks the grid
func TestCalculateLayout_TallHelp(t *testing.T) {
	short := CalculateLayout(80, 24, 1)
	tall := CalculateLayout(80, 24, 3)

	if tall.Help.Dy() != 3 {
		t.Errorf("Help height mismatch: got %d, want 3", tall.Help.Dy())
	}
	if tall.Grid.Dy() != short.Grid.Dy()-2 {
		t.Errorf("Grid should shrink by 2 rows, got %d vs %d", tall.Grid.Dy(), short.Grid.Dy())
	}
}

// TestCalculateLayout_Tiny tests degenerate sizes do not produce negative rectangles
func TestCalculateLayout_Tiny(t *testing.T) {
	sizes := [][2]int{{0, 0}, {1, 1}, {2, 2}, {10, 1}}
	for _, sz := range sizes {
		layout := CalculateLayout(sz[0], sz[1], 1)
		for name, r := range map[string]interface{ Dx() int }{
			"grid": layout.Grid, "help": layout.Help, "status": layout.Status,
		} {
			if r.Dx() < 0 {
				t.Errorf("%dx%d: %s has negative width", sz[0], sz[1], name)
			}
		}
		if layout.Grid.Dy() < 0 || layout.Help.Dy() < 0 || layout.Status.Dy() < 0 {
			t.Errorf("%dx%d: negative height in %+v", sz[0], sz[1], layout)
		}
	}
}
