// Package grid holds the boolean matrix behind a bit grid together with the
// pure geometry used to select rectangles of it.
package grid

import (
	"errors"
	"fmt"
)

// ErrInvalidDimensions is returned when matrix data is empty, has an empty
// first row, or has rows of differing width.
var ErrInvalidDimensions = errors.New("grid: invalid dimensions")

// Default label prefixes.
const (
	RowPrefix = "row"
	ColPrefix = "col"
)

// Matrix is a rows×cols boolean grid with row and column labels.
// Storage is row-major. Out-of-range access never panics.
type Matrix struct {
	rows, cols int
	cells      [][]bool
	rowLabels  []string
	colLabels  []string
}

// New creates an all-false rows×cols matrix with generated labels.
func New(rows, cols int) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("new %dx%d: %w", rows, cols, ErrInvalidDimensions)
	}
	return &Matrix{
		rows:      rows,
		cols:      cols,
		cells:     makeCells(rows, cols, false),
		rowLabels: GenerateLabels(rows, RowPrefix),
		colLabels: GenerateLabels(cols, ColPrefix),
	}, nil
}

// FromData builds a matrix from a copy of data. Labels that are nil or whose
// length does not match the data are regenerated.
func FromData(data [][]bool, rowLabels, colLabels []string) (*Matrix, error) {
	rows, cols, err := Shape(data)
	if err != nil {
		return nil, err
	}
	m := &Matrix{rows: rows, cols: cols, cells: cloneCells(data)}
	m.rowLabels = fitLabels(rowLabels, rows, RowPrefix)
	m.colLabels = fitLabels(colLabels, cols, ColPrefix)
	return m, nil
}

// Shape validates data and returns its dimensions.
func Shape(data [][]bool) (rows, cols int, err error) {
	if len(data) == 0 || len(data[0]) == 0 {
		return 0, 0, ErrInvalidDimensions
	}
	rows, cols = len(data), len(data[0])
	for i, row := range data {
		if len(row) != cols {
			return 0, 0, fmt.Errorf("row %d has %d cells, want %d: %w", i, len(row), cols, ErrInvalidDimensions)
		}
	}
	return rows, cols, nil
}

// Replace swaps in a copy of data. When data is malformed the matrix is left
// untouched and ErrInvalidDimensions is returned. Nil labels keep the current
// ones if they still fit.
func (m *Matrix) Replace(data [][]bool, rowLabels, colLabels []string) (dimensionsChanged bool, err error) {
	rows, cols, err := Shape(data)
	if err != nil {
		return false, err
	}
	dimensionsChanged = rows != m.rows || cols != m.cols
	m.rows, m.cols = rows, cols
	m.cells = cloneCells(data)
	m.SetLabels(rowLabels, colLabels)
	return dimensionsChanged, nil
}

// Resize discards the contents and allocates an all-false rows×cols grid.
// Non-positive dimensions are ignored.
func (m *Matrix) Resize(rows, cols int) bool {
	if rows <= 0 || cols <= 0 {
		return false
	}
	if rows == m.rows && cols == m.cols {
		return false
	}
	m.rows, m.cols = rows, cols
	m.cells = makeCells(rows, cols, false)
	m.rowLabels = fitLabels(m.rowLabels, rows, RowPrefix)
	m.colLabels = fitLabels(m.colLabels, cols, ColPrefix)
	return true
}

// SetLabels replaces the labels. A nil slice keeps the current labels;
// any label set whose length does not match its dimension is regenerated.
func (m *Matrix) SetLabels(rowLabels, colLabels []string) {
	if rowLabels == nil {
		rowLabels = m.rowLabels
	}
	if colLabels == nil {
		colLabels = m.colLabels
	}
	m.rowLabels = fitLabels(rowLabels, m.rows, RowPrefix)
	m.colLabels = fitLabels(colLabels, m.cols, ColPrefix)
}

// Get returns the value at (row, col). ok is false when out of range.
func (m *Matrix) Get(row, col int) (value, ok bool) {
	if !m.valid(row, col) {
		return false, false
	}
	return m.cells[row][col], true
}

// Set stores value at (row, col) and reports whether the stored value changed.
// Out-of-range coordinates are a no-op.
func (m *Matrix) Set(row, col int, value bool) bool {
	if !m.valid(row, col) || m.cells[row][col] == value {
		return false
	}
	m.cells[row][col] = value
	return true
}

// Toggle flips (row, col). Returns false when out of range.
func (m *Matrix) Toggle(row, col int) bool {
	if !m.valid(row, col) {
		return false
	}
	m.cells[row][col] = !m.cells[row][col]
	return true
}

// ToggleRect flips every cell inside b. b is clipped to the matrix first.
func (m *Matrix) ToggleRect(b Bounds) {
	b, ok := b.Clip(m.rows, m.cols)
	if !ok {
		return
	}
	for r := b.MinRow; r <= b.MaxRow; r++ {
		row := m.cells[r]
		for c := b.MinCol; c <= b.MaxCol; c++ {
			row[c] = !row[c]
		}
	}
}

// Fill sets every cell to value.
func (m *Matrix) Fill(value bool) {
	for _, row := range m.cells {
		for c := range row {
			row[c] = value
		}
	}
}

// Reset clears every cell.
func (m *Matrix) Reset() {
	m.Fill(false)
}

// Count returns the number of true cells.
func (m *Matrix) Count() int {
	n := 0
	for _, row := range m.cells {
		for _, v := range row {
			if v {
				n++
			}
		}
	}
	return n
}

// Data returns the live cell storage. Callers must not modify it.
func (m *Matrix) Data() [][]bool { return m.cells }

// Snapshot returns a deep copy of the cells.
func (m *Matrix) Snapshot() [][]bool { return cloneCells(m.cells) }

// Rows returns the row count.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the column count.
func (m *Matrix) Cols() int { return m.cols }

// RowLabels returns the row labels.
func (m *Matrix) RowLabels() []string { return m.rowLabels }

// ColLabels returns the column labels.
func (m *Matrix) ColLabels() []string { return m.colLabels }

func (m *Matrix) valid(row, col int) bool {
	return InBounds(Cell{Row: row, Col: col}, m.rows, m.cols)
}

// GenerateLabels returns n labels of the form "<prefix>.<1-based index>".
func GenerateLabels(n int, prefix string) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = fmt.Sprintf("%s.%d", prefix, i+1)
	}
	return labels
}

func fitLabels(labels []string, n int, prefix string) []string {
	if len(labels) != n {
		return GenerateLabels(n, prefix)
	}
	out := make([]string, n)
	copy(out, labels)
	return out
}

func makeCells(rows, cols int, value bool) [][]bool {
	cells := make([][]bool, rows)
	for r := range cells {
		cells[r] = make([]bool, cols)
		if value {
			for c := range cells[r] {
				cells[r][c] = true
			}
		}
	}
	return cells
}

func cloneCells(data [][]bool) [][]bool {
	out := make([][]bool, len(data))
	for r, row := range data {
		out[r] = make([]bool, len(row))
		copy(out[r], row)
	}
	return out
}
