// Package widget implements an interactive grid of boolean cells: click-drag
// rectangle toggling, touch single-cell toggling, escape cancellation and a
// mutation API that notifies listeners, drawn incrementally onto a Surface.
//
// A Widget is not safe for concurrent use. All calls, including input events,
// must come from one goroutine.
package widget

import (
	"time"

	"github.com/mark3labs/bitgrid/internal/grid"
	"github.com/mark3labs/bitgrid/internal/logger"
	"github.com/mark3labs/bitgrid/internal/notify"
	"github.com/mark3labs/bitgrid/internal/selection"
)

// Defaults applied when options leave a value unset.
const (
	DefaultRows          = 5
	DefaultCols          = 5
	DefaultDebounceMs    = 100
	DefaultFrameInterval = 16 * time.Millisecond
)

// Options configures a widget at construction or through Update.
// Zero values mean "not supplied".
type Options struct {
	// Name identifies the grid in change events.
	Name string
	// Data is the initial matrix. It must be non-empty and rectangular,
	// otherwise it is ignored.
	Data [][]bool
	// RowLabels and ColLabels label the axes. Without Data their lengths
	// define the dimensions.
	RowLabels []string
	ColLabels []string
	// Rows and Cols size an all-false grid when neither Data nor labels are given.
	Rows int
	Cols int
	// DebounceMs is the change notification window in milliseconds.
	// Negative delivers every change.
	DebounceMs int
	// FrameInterval limits how often drag selection marks are redrawn.
	// Zero selects DefaultFrameInterval; negative redraws on every move.
	FrameInterval time.Duration
	// OnChange receives change notifications.
	OnChange notify.Listener
	// OnReady is called once, when the widget is first mounted.
	OnReady func()
}

// UpdateResult describes what an Update did.
type UpdateResult struct {
	// DataReplaced is true when Options.Data was valid and swapped in.
	DataReplaced bool
	// DimensionsChanged is true when rows or cols changed.
	DimensionsChanged bool
	// Rebuilt is true when the surface was rebuilt from scratch.
	Rebuilt bool
}

// Widget is a bit grid bound to a rendering surface.
type Widget struct {
	name     string
	matrix   *grid.Matrix
	drag     *selection.Machine
	surface  Surface
	notifier *notify.Notifier
	frames   *notify.Throttle
	onReady  func()

	unsubscribe    func()
	built          bool
	mounted        bool
	readyFired     bool
	selectionShown bool
	rebuilds       int
}

// New creates a widget drawing on surface. Malformed options fall back to
// defaults instead of failing.
func New(surface Surface, opts Options) *Widget {
	m := newMatrix(opts)
	return &Widget{
		name:     opts.Name,
		matrix:   m,
		drag:     selection.NewMachine(m.Rows(), m.Cols()),
		surface:  surface,
		notifier: notify.NewNotifier(debounce(opts.DebounceMs), opts.OnChange),
		frames:   notify.NewThrottle(frameInterval(opts.FrameInterval)),
		onReady:  opts.OnReady,
	}
}

func newMatrix(opts Options) *grid.Matrix {
	if opts.Data != nil {
		m, err := grid.FromData(opts.Data, opts.RowLabels, opts.ColLabels)
		if err == nil {
			return m
		}
		logger.Warn("Ignoring initial grid data: %v", err)
	}

	rows := pickDimension(len(opts.RowLabels), opts.Rows, DefaultRows)
	cols := pickDimension(len(opts.ColLabels), opts.Cols, DefaultCols)
	m, _ := grid.New(rows, cols) // dimensions are always positive here
	m.SetLabels(opts.RowLabels, opts.ColLabels)
	return m
}

func pickDimension(labels, explicit, fallback int) int {
	switch {
	case labels > 0:
		return labels
	case explicit > 0:
		return explicit
	default:
		return fallback
	}
}

func debounce(ms int) time.Duration {
	switch {
	case ms == 0:
		return DefaultDebounceMs * time.Millisecond
	case ms < 0:
		return -1
	default:
		return time.Duration(ms) * time.Millisecond
	}
}

func frameInterval(d time.Duration) time.Duration {
	switch {
	case d == 0:
		return DefaultFrameInterval
	case d < 0:
		return 0
	default:
		return d
	}
}

// Mount builds the surface and starts listening to src. It returns false,
// leaving the widget unmounted, while the surface is not ready; callers
// retry once it is. The ready callback fires on the first successful mount.
func (w *Widget) Mount(src InputSource) bool {
	if w.mounted {
		return true
	}
	if w.surface == nil || !w.surface.Ready() {
		return false
	}

	w.rebuild()
	w.Attach(src)
	w.mounted = true
	logger.Debug("Grid %q mounted (%dx%d)", w.name, w.matrix.Rows(), w.matrix.Cols())

	if !w.readyFired {
		w.readyFired = true
		if w.onReady != nil {
			w.onReady()
		}
	}
	return true
}

// Attach subscribes to src, releasing any previous subscription first.
func (w *Widget) Attach(src InputSource) {
	w.Detach()
	if src == nil {
		return
	}
	w.unsubscribe = src.Subscribe(w.HandleEvent)
}

// Detach releases the input subscription. Safe to call repeatedly.
func (w *Widget) Detach() {
	if w.unsubscribe == nil {
		return
	}
	w.unsubscribe()
	w.unsubscribe = nil
}

// Close cancels any drag and releases input. The widget can be mounted again.
func (w *Widget) Close() {
	w.CancelDrag()
	w.Detach()
	w.mounted = false
}

// Mounted reports whether the widget is bound to a ready surface.
func (w *Widget) Mounted() bool { return w.mounted }

// Attached reports whether an input subscription is held.
func (w *Widget) Attached() bool { return w.unsubscribe != nil }

// Name returns the grid name used in change events.
func (w *Widget) Name() string { return w.name }

// Rows returns the row count.
func (w *Widget) Rows() int { return w.matrix.Rows() }

// Cols returns the column count.
func (w *Widget) Cols() int { return w.matrix.Cols() }

// RowLabels returns the row labels.
func (w *Widget) RowLabels() []string { return w.matrix.RowLabels() }

// ColLabels returns the column labels.
func (w *Widget) ColLabels() []string { return w.matrix.ColLabels() }

// Labels returns the row and column labels.
func (w *Widget) Labels() (rowLabels, colLabels []string) {
	return w.matrix.RowLabels(), w.matrix.ColLabels()
}

// Count returns the number of true cells.
func (w *Widget) Count() int { return w.matrix.Count() }

// Rebuilds returns how many times the surface was built from scratch.
func (w *Widget) Rebuilds() int { return w.rebuilds }

// DragState returns a snapshot of the drag state machine.
func (w *Widget) DragState() selection.State { return w.drag.State() }

// Selection returns the rectangle being dragged, if any.
func (w *Widget) Selection() (grid.Bounds, bool) { return w.drag.Bounds() }

// NotifyInterval returns the change notification window.
func (w *Widget) NotifyInterval() time.Duration { return w.notifier.Interval() }

// Subscribe registers a change listener alongside OnChange.
func (w *Widget) Subscribe(fn notify.Listener) (unsubscribe func()) {
	return w.notifier.Subscribe(fn)
}
