package grid

// Cell addresses a single matrix entry.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Bounds is an inclusive rectangle of cells.
type Bounds struct {
	MinRow int `json:"min_row"`
	MaxRow int `json:"max_row"`
	MinCol int `json:"min_col"`
	MaxCol int `json:"max_col"`
}

// Normalize returns the rectangle spanned by two arbitrary cells.
// The result does not depend on argument order.
func Normalize(a, b Cell) Bounds {
	return Bounds{
		MinRow: min(a.Row, b.Row),
		MaxRow: max(a.Row, b.Row),
		MinCol: min(a.Col, b.Col),
		MaxCol: max(a.Col, b.Col),
	}
}

// Contains reports whether (row, col) lies inside the rectangle.
func (b Bounds) Contains(row, col int) bool {
	return row >= b.MinRow && row <= b.MaxRow &&
		col >= b.MinCol && col <= b.MaxCol
}

// Area returns the number of cells covered by the rectangle.
func (b Bounds) Area() int {
	if b.MaxRow < b.MinRow || b.MaxCol < b.MinCol {
		return 0
	}
	return (b.MaxRow - b.MinRow + 1) * (b.MaxCol - b.MinCol + 1)
}

// Clip intersects the rectangle with a rows×cols grid.
// The returned flag is false when nothing of the rectangle remains.
func (b Bounds) Clip(rows, cols int) (Bounds, bool) {
	out := Bounds{
		MinRow: max(b.MinRow, 0),
		MaxRow: min(b.MaxRow, rows-1),
		MinCol: max(b.MinCol, 0),
		MaxCol: min(b.MaxCol, cols-1),
	}
	if out.MinRow > out.MaxRow || out.MinCol > out.MaxCol {
		return Bounds{}, false
	}
	return out, true
}

// InBounds reports whether the cell addresses a real entry of a rows×cols grid.
// Cells failing this check must never reach drag tracking or matrix mutation.
func InBounds(c Cell, rows, cols int) bool {
	return c.Row >= 0 && c.Row < rows && c.Col >= 0 && c.Col < cols
}
