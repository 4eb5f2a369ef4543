package tui

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mark3labs/bitgrid/internal/grid"
	"github.com/mark3labs/bitgrid/internal/tui/theme"
	"github.com/mark3labs/bitgrid/internal/widget"
)

// Grid geometry in terminal cells.
const (
	// CellWidth is the width of one grid cell, e.g. " ■ ".
	CellWidth = 3
	// CellGap is the blank column between adjacent cells.
	CellGap = 1
	// MaxRowLabelWidth caps the row label column.
	MaxRowLabelWidth = 16
	// MaxHeaderHeight caps the vertical column label header.
	MaxHeaderHeight = 8
)

// GridSurface draws a bit grid onto a terminal screen: row labels on the
// left, column labels written vertically above each column, and one
// CellWidth-wide cell per matrix entry. It implements widget.Surface.
type GridSurface struct {
	area      uv.Rectangle
	rows      int
	cols      int
	rowLabels []string
	colLabels []string
	flags     [][]widget.Flag

	// Derived layout
	labelWidth   int
	headerHeight int
	origin       uv.Position
}

// NewGridSurface creates an empty surface. It is not ready until SetArea
// gives it a non-empty area.
func NewGridSurface() *GridSurface {
	return &GridSurface{}
}

// SetArea places the surface on screen and recomputes the layout.
func (s *GridSurface) SetArea(area uv.Rectangle) {
	s.area = area
	s.layout()
}

// Area returns the screen area the surface occupies.
func (s *GridSurface) Area() uv.Rectangle {
	return s.area
}

// Ready reports whether the surface has somewhere to draw.
func (s *GridSurface) Ready() bool {
	return s.area.Dx() > 0 && s.area.Dy() > 0
}

// Build discards all cells and creates a rows x cols grid with no flags.
func (s *GridSurface) Build(rows, cols int, rowLabels, colLabels []string) {
	s.rows, s.cols = rows, cols
	s.flags = make([][]widget.Flag, rows)
	for r := range s.flags {
		s.flags[r] = make([]widget.Flag, cols)
	}
	s.setLabels(rowLabels, colLabels)
	s.layout()
}

// Relabel replaces the labels, keeping cells and flags.
func (s *GridSurface) Relabel(rowLabels, colLabels []string) {
	s.setLabels(rowLabels, colLabels)
	s.layout()
}

func (s *GridSurface) setLabels(rowLabels, colLabels []string) {
	s.rowLabels = append([]string(nil), rowLabels...)
	s.colLabels = append([]string(nil), colLabels...)
}

// SetFlag turns flag on or off for cell. Unknown cells are ignored.
func (s *GridSurface) SetFlag(cell grid.Cell, flag widget.Flag, on bool) {
	if !s.has(cell) {
		return
	}
	if on {
		s.flags[cell.Row][cell.Col] |= flag
	} else {
		s.flags[cell.Row][cell.Col] &^= flag
	}
}

// HasFlag reports whether cell carries flag.
func (s *GridSurface) HasFlag(cell grid.Cell, flag widget.Flag) bool {
	return s.has(cell) && s.flags[cell.Row][cell.Col]&flag != 0
}

func (s *GridSurface) has(cell grid.Cell) bool {
	return cell.Row >= 0 && cell.Row < len(s.flags) &&
		cell.Col >= 0 && cell.Col < len(s.flags[cell.Row])
}

// layout derives label column width, header height and the grid origin.
func (s *GridSurface) layout() {
	s.labelWidth = 0
	for _, l := range s.rowLabels {
		if w := lipgloss.Width(l); w > s.labelWidth {
			s.labelWidth = w
		}
	}
	if s.labelWidth > MaxRowLabelWidth {
		s.labelWidth = MaxRowLabelWidth
	}

	s.headerHeight = 0
	for _, l := range s.colLabels {
		if n := len([]rune(l)); n > s.headerHeight {
			s.headerHeight = n
		}
	}
	if s.headerHeight > MaxHeaderHeight {
		s.headerHeight = MaxHeaderHeight
	}

	x := s.area.Min.X
	if s.labelWidth > 0 {
		x += s.labelWidth + 1
	}
	y := s.area.Min.Y
	if s.headerHeight > 0 {
		y += s.headerHeight + 1
	}
	s.origin = uv.Position{X: x, Y: y}
}

// Origin returns the screen position of cell (0, 0).
func (s *GridSurface) Origin() uv.Position {
	return s.origin
}

// CellRect returns the screen rectangle of cell.
func (s *GridSurface) CellRect(cell grid.Cell) (uv.Rectangle, bool) {
	if !s.has(cell) {
		return uv.Rectangle{}, false
	}
	x := s.origin.X + cell.Col*(CellWidth+CellGap)
	y := s.origin.Y + cell.Row
	return uv.Rect(x, y, CellWidth, 1), true
}

// CellAt maps a screen position to the cell under it. Labels, gaps between
// cells and anything clipped by the surface area miss.
func (s *GridSurface) CellAt(x, y int) (grid.Cell, bool) {
	if !(uv.Position{X: x, Y: y}).In(s.area) {
		return grid.Cell{}, false
	}
	dx, dy := x-s.origin.X, y-s.origin.Y
	if dx < 0 || dy < 0 {
		return grid.Cell{}, false
	}
	stride := CellWidth + CellGap
	if dx%stride >= CellWidth {
		return grid.Cell{}, false
	}
	cell := grid.Cell{Row: dy, Col: dx / stride}
	if !s.has(cell) {
		return grid.Cell{}, false
	}
	return cell, true
}

// Size returns the width and height needed to show the whole grid.
func (s *GridSurface) Size() (width, height int) {
	width = s.origin.X - s.area.Min.X
	if s.cols > 0 {
		width += s.cols*(CellWidth+CellGap) - CellGap
	}
	height = s.origin.Y - s.area.Min.Y + s.rows
	return width, height
}

// Draw renders labels and cells clipped to area. A different area than the
// last SetArea moves the surface first.
func (s *GridSurface) Draw(scr uv.Screen, area uv.Rectangle) *tea.Cursor {
	if area != s.area {
		s.SetArea(area)
	}
	if !s.Ready() {
		return nil
	}

	st := theme.Current().S()

	// Column labels, one rune per line, above each column.
	for c := 0; c < s.cols && c < len(s.colLabels); c++ {
		runes := []rune(s.colLabels[c])
		x := s.origin.X + c*(CellWidth+CellGap) + CellWidth/2
		for i := 0; i < len(runes) && i < s.headerHeight; i++ {
			s.drawText(scr, uv.Rect(x, s.area.Min.Y+i, 1, 1), st.ColLabel.Render(string(runes[i])))
		}
	}

	for r := 0; r < s.rows; r++ {
		y := s.origin.Y + r
		if y >= s.area.Max.Y {
			break
		}
		if s.labelWidth > 0 && r < len(s.rowLabels) {
			label := truncateString(s.rowLabels[r], s.labelWidth)
			s.drawText(scr, uv.Rect(s.area.Min.X, y, s.labelWidth, 1), st.RowLabel.Render(label))
		}
		for c := 0; c < s.cols; c++ {
			rect, _ := s.CellRect(grid.Cell{Row: r, Col: c})
			s.drawText(scr, rect, renderCell(s.flags[r][c], st))
		}
	}
	return nil
}

func (s *GridSurface) drawText(scr uv.Screen, rect uv.Rectangle, text string) {
	rect = rect.Intersect(s.area)
	if rect.Empty() {
		return
	}
	uv.NewStyledString(text).Draw(scr, rect)
}

// renderCell returns the CellWidth-wide text for a cell's flags. Selecting
// cells are bracketed so the selection stays visible without color.
func renderCell(f widget.Flag, st *theme.Styles) string {
	glyph := grid.GlyphOff
	style := st.CellOff
	if f&widget.FlagActive != 0 {
		glyph = grid.GlyphOn
		style = st.CellOn
	}
	if f&widget.FlagSelecting != 0 {
		return st.CellSelecting.Render("[" + glyph + "]")
	}
	return style.Render(" " + glyph + " ")
}

// Compile-time interface checks
var _ widget.Surface = (*GridSurface)(nil)
