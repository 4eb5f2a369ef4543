package testfixtures

import (
	"time"

	"github.com/mark3labs/bitgrid/internal/widget"
)

// Fixed test values for consistent output
const (
	FixedGridName = "skills"
)

var (
	FixedTime = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	// People and languages used by the demo grid.
	DemoRowLabels = []string{"Alice", "Bob", "Carol", "Dave", "Eve", "Frank"}
	DemoColLabels = []string{"Bash", "Go", "JQ", "JS", "Lisp", "Lua", "Rust", "Swift", "Zig"}
)

// EmptyMatrix returns an all-false rows x cols matrix.
func EmptyMatrix(rows, cols int) [][]bool {
	out := make([][]bool, rows)
	for r := range out {
		out[r] = make([]bool, cols)
	}
	return out
}

// DiagonalMatrix returns an n x n matrix with the main diagonal set.
func DiagonalMatrix(n int) [][]bool {
	out := EmptyMatrix(n, n)
	for i := 0; i < n; i++ {
		out[i][i] = true
	}
	return out
}

// DemoOptions returns options for the labelled demo grid with throttling
// disabled, so every change notifies.
func DemoOptions() widget.Options {
	return widget.Options{
		Name:          FixedGridName,
		RowLabels:     append([]string(nil), DemoRowLabels...),
		ColLabels:     append([]string(nil), DemoColLabels...),
		DebounceMs:    -1,
		FrameInterval: -1,
	}
}

// SquareOptions returns options for an unlabelled n x n grid with
// throttling disabled.
func SquareOptions(n int) widget.Options {
	return widget.Options{
		Name:          FixedGridName,
		Rows:          n,
		Cols:          n,
		DebounceMs:    -1,
		FrameInterval: -1,
	}
}
