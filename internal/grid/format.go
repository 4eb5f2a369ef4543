package grid

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Glyphs used by Format.
const (
	GlyphOn  = "■"
	GlyphOff = "·"
)

const maxLabelWidth = 16

// Format renders data as a plain text table: a header line with column
// labels, then one line per row with its label and a glyph per cell.
// Columns are as wide as their label (minimum one cell) so that line-based
// diffs of two formatted grids stay aligned.
func Format(data [][]bool, rowLabels, colLabels []string) string {
	rows, cols, err := Shape(data)
	if err != nil {
		return ""
	}
	rowLabels = fitLabels(rowLabels, rows, RowPrefix)
	colLabels = fitLabels(colLabels, cols, ColPrefix)

	labelWidth := 0
	for _, l := range rowLabels {
		labelWidth = max(labelWidth, cellWidth(truncate(l, maxLabelWidth)))
	}

	widths := make([]int, cols)
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", labelWidth))
	for c, l := range colLabels {
		l = truncate(l, maxLabelWidth)
		widths[c] = max(1, cellWidth(l))
		b.WriteString(" ")
		b.WriteString(l)
	}
	b.WriteString("\n")

	for r, row := range data {
		l := truncate(rowLabels[r], maxLabelWidth)
		b.WriteString(l)
		b.WriteString(strings.Repeat(" ", labelWidth-cellWidth(l)))
		for c, v := range row {
			glyph := GlyphOff
			if v {
				glyph = GlyphOn
			}
			b.WriteString(" ")
			b.WriteString(pad(glyph, widths[c]))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func pad(s string, width int) string {
	n := width - cellWidth(s)
	if n <= 0 {
		return s
	}
	left := n / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", n-left)
}

func truncate(s string, n int) string {
	return ansi.Truncate(s, n, "…")
}

func cellWidth(s string) int {
	return ansi.StringWidth(s)
}
