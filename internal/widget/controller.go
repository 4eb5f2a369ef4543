package widget

import (
	"strings"

	"github.com/mark3labs/bitgrid/internal/grid"
)

// HandleEvent processes one input event. Events that do not resolve to a
// cell, or that arrive in the wrong drag phase, are ignored.
func (w *Widget) HandleEvent(ev InputEvent) {
	switch ev.Kind {
	case PointerDown:
		w.pointerDown(ev)
	case PointerMove:
		w.pointerMove(ev)
	case PointerUp:
		w.pointerUp()
	case TouchStart:
		w.touchStart(ev)
	case KeyDown:
		if cancelKeys[strings.ToLower(ev.Key)] {
			w.CancelDrag()
		}
	}
}

func (w *Widget) pointerDown(ev InputEvent) {
	if ev.Button != ButtonPrimary {
		return
	}
	cell, ok := w.cellAt(ev.X, ev.Y)
	if !ok || !w.drag.Begin(cell) {
		return
	}
	w.frames.Do(w.syncSelection)
}

func (w *Widget) pointerMove(ev InputEvent) {
	if !w.drag.Dragging() {
		return
	}
	cell, ok := w.cellAt(ev.X, ev.Y)
	if !ok {
		return
	}
	w.drag.Extend(cell)
	w.frames.Do(w.syncSelection)
}

// pointerUp commits the drag. It is never throttled.
func (w *Widget) pointerUp() {
	if !w.drag.Dragging() {
		return
	}
	bounds, ok := w.drag.Commit()
	if !ok {
		w.clearSelection()
		return
	}

	w.matrix.ToggleRect(bounds)
	w.syncActive()
	w.emit()
	w.clearSelection()
}

// touchStart toggles the touched cell. Touch never starts a drag and does
// not disturb one in progress.
func (w *Widget) touchStart(ev InputEvent) {
	cell, ok := w.cellAt(ev.X, ev.Y)
	if !ok || !w.matrix.Toggle(cell.Row, cell.Col) {
		return
	}
	w.syncCell(cell.Row, cell.Col)
	w.emit()
}

// CancelDrag abandons any drag without touching the matrix.
func (w *Widget) CancelDrag() {
	w.drag.Cancel()
	w.clearSelection()
}

func (w *Widget) cellAt(x, y int) (grid.Cell, bool) {
	if w.surface == nil || !w.built {
		return grid.Cell{}, false
	}
	cell, ok := w.surface.CellAt(x, y)
	if !ok || !grid.InBounds(cell, w.matrix.Rows(), w.matrix.Cols()) {
		return grid.Cell{}, false
	}
	return cell, true
}

// rebuild recreates every surface cell and restores active marks.
func (w *Widget) rebuild() {
	w.surface.Build(w.matrix.Rows(), w.matrix.Cols(), w.matrix.RowLabels(), w.matrix.ColLabels())
	w.rebuilds++
	w.built = true
	w.selectionShown = false
	w.syncActive()
}

// syncActive sets FlagActive on exactly the true cells, touching only cells
// whose mark disagrees with the matrix.
func (w *Widget) syncActive() {
	if !w.built {
		return
	}
	for r, row := range w.matrix.Data() {
		for c, v := range row {
			cell := grid.Cell{Row: r, Col: c}
			if w.surface.HasFlag(cell, FlagActive) != v {
				w.surface.SetFlag(cell, FlagActive, v)
			}
		}
	}
}

func (w *Widget) syncCell(row, col int) {
	if !w.built {
		return
	}
	v, _ := w.matrix.Get(row, col)
	cell := grid.Cell{Row: row, Col: col}
	if w.surface.HasFlag(cell, FlagActive) != v {
		w.surface.SetFlag(cell, FlagActive, v)
	}
}

// syncSelection sets FlagSelecting on exactly the cells inside the drag
// rectangle, touching only cells whose membership changed.
func (w *Widget) syncSelection() {
	if !w.built {
		return
	}
	bounds, ok := w.drag.Bounds()
	if !ok {
		w.clearSelection()
		return
	}
	for r := 0; r < w.matrix.Rows(); r++ {
		for c := 0; c < w.matrix.Cols(); c++ {
			cell := grid.Cell{Row: r, Col: c}
			inside := bounds.Contains(r, c)
			if w.surface.HasFlag(cell, FlagSelecting) != inside {
				w.surface.SetFlag(cell, FlagSelecting, inside)
			}
		}
	}
	w.selectionShown = true
}

func (w *Widget) clearSelection() {
	if !w.built || !w.selectionShown {
		return
	}
	for r := 0; r < w.matrix.Rows(); r++ {
		for c := 0; c < w.matrix.Cols(); c++ {
			cell := grid.Cell{Row: r, Col: c}
			if w.surface.HasFlag(cell, FlagSelecting) {
				w.surface.SetFlag(cell, FlagSelecting, false)
			}
		}
	}
	w.selectionShown = false
}
