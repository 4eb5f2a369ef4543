package tui

import (
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mark3labs/bitgrid/internal/grid"
	"github.com/mark3labs/bitgrid/internal/tui/testfixtures"
	"github.com/mark3labs/bitgrid/internal/widget"
	"github.com/stretchr/testify/require"
)

// newTestSurface builds a 2x3 grid at the origin:
//
//	       G   Z   C      <- header rows 0..2 (vertical labels)
//	       o   i
//	           g
//	                      <- separator row 3
//	Alice  ·   ·   ·      <- row 4, cells at x=6,10,14
//	Bob    ·   ·   ·      <- row 5
func newTestSurface() *GridSurface {
	s := NewGridSurface()
	s.SetArea(uv.Rect(0, 0, 40, 10))
	s.Build(2, 3, []string{"Alice", "Bob"}, []string{"Go", "Zig", "C"})
	return s
}

func TestGridSurface_ReadyNeedsArea(t *testing.T) {
	t.Parallel()

	s := NewGridSurface()
	require.False(t, s.Ready())
	s.SetArea(uv.Rect(0, 0, 10, 0))
	require.False(t, s.Ready())
	s.SetArea(uv.Rect(0, 0, 10, 5))
	require.True(t, s.Ready())
}

func TestGridSurface_Layout(t *testing.T) {
	t.Parallel()

	s := newTestSurface()
	require.Equal(t, uv.Position{X: 6, Y: 4}, s.Origin())

	rect, ok := s.CellRect(grid.Cell{Row: 1, Col: 2})
	require.True(t, ok)
	require.Equal(t, uv.Rect(14, 5, CellWidth, 1), rect)

	_, ok = s.CellRect(grid.Cell{Row: 2, Col: 0})
	require.False(t, ok)

	w, h := s.Size()
	require.Equal(t, 6+3*CellWidth+2*CellGap, w)
	require.Equal(t, 6, h)
}

func TestGridSurface_CellAt(t *testing.T) {
	t.Parallel()

	s := newTestSurface()

	tests := []struct {
		name string
		x, y int
		want grid.Cell
		ok   bool
	}{
		{"first cell left edge", 6, 4, grid.Cell{Row: 0, Col: 0}, true},
		{"first cell right edge", 8, 4, grid.Cell{Row: 0, Col: 0}, true},
		{"gap after first cell", 9, 4, grid.Cell{}, false},
		{"middle cell", 10, 5, grid.Cell{Row: 1, Col: 1}, true},
		{"last cell", 16, 5, grid.Cell{Row: 1, Col: 2}, true},
		{"row label", 2, 4, grid.Cell{}, false},
		{"label spacer", 5, 4, grid.Cell{}, false},
		{"header", 7, 1, grid.Cell{}, false},
		{"below grid", 6, 6, grid.Cell{}, false},
		{"right of grid", 18, 4, grid.Cell{}, false},
		{"outside area", 50, 4, grid.Cell{}, false},
		{"negative", -1, -1, grid.Cell{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.CellAt(tt.x, tt.y)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestGridSurface_CellAtRespectsAreaOffset(t *testing.T) {
	t.Parallel()

	s := NewGridSurface()
	s.SetArea(uv.Rect(5, 3, 20, 5))
	s.Build(2, 2, nil, nil)

	require.Equal(t, uv.Position{X: 5, Y: 3}, s.Origin(), "no labels means no label column or header")
	cell, ok := s.CellAt(9, 4)
	require.True(t, ok)
	require.Equal(t, grid.Cell{Row: 1, Col: 1}, cell)
}

func TestGridSurface_ClippedCellsMiss(t *testing.T) {
	t.Parallel()

	s := NewGridSurface()
	s.SetArea(uv.Rect(0, 0, 6, 1))
	s.Build(3, 3, nil, nil)

	_, ok := s.CellAt(0, 0)
	require.True(t, ok)
	_, ok = s.CellAt(4, 0)
	require.True(t, ok)
	_, ok = s.CellAt(8, 0)
	require.False(t, ok, "cells beyond the area are not hit")
	_, ok = s.CellAt(0, 1)
	require.False(t, ok)
}

func TestGridSurface_Flags(t *testing.T) {
	t.Parallel()

	s := newTestSurface()
	c := grid.Cell{Row: 1, Col: 1}

	s.SetFlag(c, widget.FlagActive, true)
	s.SetFlag(c, widget.FlagSelecting, true)
	require.True(t, s.HasFlag(c, widget.FlagActive))
	require.True(t, s.HasFlag(c, widget.FlagSelecting))

	s.SetFlag(c, widget.FlagSelecting, false)
	require.True(t, s.HasFlag(c, widget.FlagActive))
	require.False(t, s.HasFlag(c, widget.FlagSelecting))

	s.SetFlag(grid.Cell{Row: 7, Col: 7}, widget.FlagActive, true)
	require.False(t, s.HasFlag(grid.Cell{Row: 7, Col: 7}, widget.FlagActive))

	s.Relabel([]string{"A", "B"}, []string{"x", "y", "z"})
	require.True(t, s.HasFlag(c, widget.FlagActive), "relabel keeps flags")
	require.Equal(t, uv.Position{X: 2, Y: 2}, s.Origin())

	s.Build(2, 3, nil, nil)
	require.False(t, s.HasFlag(c, widget.FlagActive), "build discards flags")
}

func TestGridSurface_Draw(t *testing.T) {
	t.Parallel()

	s := newTestSurface()
	s.SetFlag(grid.Cell{Row: 0, Col: 1}, widget.FlagActive, true)
	s.SetFlag(grid.Cell{Row: 1, Col: 2}, widget.FlagSelecting, true)

	out := testfixtures.Render(40, 10, func(scr uv.Screen, area uv.Rectangle) {
		s.Draw(scr, area)
	})

	require.Equal(t, "       G   Z   C", testfixtures.Line(out, 0))
	require.Equal(t, "       o   i", testfixtures.Line(out, 1))
	require.Equal(t, "           g", testfixtures.Line(out, 2))
	require.Equal(t, "", testfixtures.Line(out, 3))
	require.Equal(t, "Alice  "+grid.GlyphOff+"   "+grid.GlyphOn+"   "+grid.GlyphOff, testfixtures.Line(out, 4))
	require.Equal(t, "Bob    "+grid.GlyphOff+"   "+grid.GlyphOff+"  ["+grid.GlyphOff+"]", testfixtures.Line(out, 5))
}

func TestGridSurface_DrawTruncatesLongRowLabels(t *testing.T) {
	t.Parallel()

	s := NewGridSurface()
	s.SetArea(uv.Rect(0, 0, 60, 4))
	s.Build(1, 1, []string{"an extraordinarily long label"}, nil)

	out := testfixtures.Render(60, 4, func(scr uv.Screen, area uv.Rectangle) {
		s.Draw(scr, area)
	})
	require.Equal(t, "an extraordin...  "+grid.GlyphOff, testfixtures.Line(out, 0))
}
