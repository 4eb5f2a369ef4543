package widget

import (
	"time"

	"github.com/mark3labs/bitgrid/internal/logger"
	"github.com/mark3labs/bitgrid/internal/notify"
)

// Data returns the live matrix. Callers must treat it as read-only.
func (w *Widget) Data() [][]bool {
	return w.matrix.Data()
}

// Snapshot returns a copy of the matrix.
func (w *Widget) Snapshot() [][]bool {
	return w.matrix.Snapshot()
}

// Cell returns the value at (row, col); ok is false when out of range.
func (w *Widget) Cell(row, col int) (value, ok bool) {
	return w.matrix.Get(row, col)
}

// SetCell stores value at (row, col) and reports whether it changed.
// Unless silent, every in-range call notifies listeners, changed or not.
func (w *Widget) SetCell(row, col int, value, silent bool) bool {
	if _, ok := w.matrix.Get(row, col); !ok {
		return false
	}
	changed := w.matrix.Set(row, col, value)
	if changed {
		w.syncCell(row, col)
	}
	if !silent {
		w.emit()
	}
	return changed
}

// ToggleCell flips (row, col). Returns false when out of range.
func (w *Widget) ToggleCell(row, col int, silent bool) bool {
	if !w.matrix.Toggle(row, col) {
		return false
	}
	w.syncCell(row, col)
	if !silent {
		w.emit()
	}
	return true
}

// Fill sets every cell to value, notifying unless silent.
func (w *Widget) Fill(value, silent bool) {
	w.matrix.Fill(value)
	w.syncActive()
	if !silent {
		w.emit()
	}
}

// Reset clears every cell without notifying.
func (w *Widget) Reset() {
	w.matrix.Reset()
	w.syncActive()
}

// SetData replaces the matrix. Malformed data is ignored and reported as
// false. Unless silent, a replacement notifies listeners.
func (w *Widget) SetData(data [][]bool, silent bool) bool {
	res := w.Update(Options{Data: data})
	if !res.DataReplaced {
		return false
	}
	if !silent {
		w.emit()
	}
	return true
}

// SetLabels replaces the labels. Labels of a new length resize the grid.
func (w *Widget) SetLabels(rowLabels, colLabels []string) UpdateResult {
	return w.Update(Options{RowLabels: rowLabels, ColLabels: colLabels})
}

// Update applies a partial reconfiguration. Valid Data replaces the matrix;
// without Data, label lengths (or Rows/Cols) drive the dimensions and a
// resize clears the grid. A dimension change cancels any drag and rebuilds
// the surface; otherwise labels and active marks are refreshed in place.
// Update never notifies listeners.
func (w *Widget) Update(opts Options) UpdateResult {
	var res UpdateResult

	if opts.Data != nil {
		changed, err := w.matrix.Replace(opts.Data, opts.RowLabels, opts.ColLabels)
		if err != nil {
			logger.Warn("Ignoring grid data update: %v", err)
		} else {
			res.DataReplaced = true
			res.DimensionsChanged = changed
		}
	}

	if !res.DataReplaced {
		rows := pickDimension(len(opts.RowLabels), opts.Rows, w.matrix.Rows())
		cols := pickDimension(len(opts.ColLabels), opts.Cols, w.matrix.Cols())
		if w.matrix.Resize(rows, cols) {
			res.DimensionsChanged = true
		}
		w.matrix.SetLabels(opts.RowLabels, opts.ColLabels)
	}

	if opts.Name != "" {
		w.name = opts.Name
	}
	if opts.DebounceMs != 0 {
		w.notifier.SetInterval(debounce(opts.DebounceMs))
	}
	if opts.FrameInterval != 0 {
		w.frames = notify.NewThrottle(frameInterval(opts.FrameInterval))
	}
	if opts.OnChange != nil {
		w.notifier.SetOnChange(opts.OnChange)
	}
	if opts.OnReady != nil {
		w.onReady = opts.OnReady
	}

	if res.DimensionsChanged {
		w.drag.Resize(w.matrix.Rows(), w.matrix.Cols())
		if w.built {
			w.rebuild()
			res.Rebuilt = true
		}
		return res
	}

	if w.built {
		w.surface.Relabel(w.matrix.RowLabels(), w.matrix.ColLabels())
		w.syncActive()
	}
	return res
}

// emit sends a change notification, subject to the notifier's throttle.
func (w *Widget) emit() {
	w.notifier.Notify(func() notify.Change {
		return notify.Change{
			ID:        notify.NewChangeID(),
			Name:      w.name,
			Rows:      w.matrix.Rows(),
			Cols:      w.matrix.Cols(),
			Active:    w.matrix.Count(),
			Data:      w.matrix.Data(),
			RowLabels: w.matrix.RowLabels(),
			ColLabels: w.matrix.ColLabels(),
			At:        time.Now(),
		}
	})
}
