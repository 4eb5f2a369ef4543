// Package testfixtures provides mock implementations and test utilities for
// grid widget and TUI tests.
//
// This file contains mocks for the widget's collaborators:
//   - MockSurface: records Build/Relabel/SetFlag calls and maps coordinates to cells
//   - MockInputSource: fan-out event source with subscription counting
//   - ChangeRecorder: collects change notifications for assertions
//
// All mocks are thread-safe and provide verification methods for assertions in tests.
//
// Example usage:
//
//	surface := testfixtures.NewMockSurface()
//	src := testfixtures.NewMockInputSource()
//	rec := testfixtures.NewChangeRecorder()
//	w := widget.New(surface, widget.Options{Rows: 3, Cols: 3, OnChange: rec.Record})
//	w.Mount(src)
//	src.Emit(testfixtures.Down(0, 0))
//	require.Equal(t, 1, surface.BuildCalls())
package testfixtures

import (
	"sync"

	"github.com/mark3labs/bitgrid/internal/grid"
	"github.com/mark3labs/bitgrid/internal/notify"
	"github.com/mark3labs/bitgrid/internal/widget"
)

// MockSurface is an in-memory widget.Surface. By default surface coordinate
// (x, y) maps to cell (row y, col x); set Mapper to change that.
type MockSurface struct {
	mu sync.Mutex

	// NotReady makes Ready report false.
	NotReady bool
	// Mapper overrides the default coordinate mapping.
	Mapper func(x, y int) (grid.Cell, bool)

	rows, cols int
	rowLabels  []string
	colLabels  []string
	flags      map[grid.Cell]widget.Flag

	buildCalls   int
	relabelCalls int
	setFlagCalls int
}

// NewMockSurface creates a ready surface.
func NewMockSurface() *MockSurface {
	return &MockSurface{flags: map[grid.Cell]widget.Flag{}}
}

// Build discards all cells and recreates a rows x cols surface.
func (m *MockSurface) Build(rows, cols int, rowLabels, colLabels []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows, m.cols = rows, cols
	m.rowLabels = append([]string(nil), rowLabels...)
	m.colLabels = append([]string(nil), colLabels...)
	m.flags = map[grid.Cell]widget.Flag{}
	m.buildCalls++
}

// Relabel replaces labels in place.
func (m *MockSurface) Relabel(rowLabels, colLabels []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rowLabels = append([]string(nil), rowLabels...)
	m.colLabels = append([]string(nil), colLabels...)
	m.relabelCalls++
}

// SetFlag sets or clears flag on cell.
func (m *MockSurface) SetFlag(cell grid.Cell, flag widget.Flag, on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if on {
		m.flags[cell] |= flag
	} else {
		m.flags[cell] &^= flag
	}
	m.setFlagCalls++
}

// HasFlag reports whether cell carries flag.
func (m *MockSurface) HasFlag(cell grid.Cell, flag widget.Flag) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flags[cell]&flag != 0
}

// CellAt maps a coordinate to a cell of the last build.
func (m *MockSurface) CellAt(x, y int) (grid.Cell, bool) {
	m.mu.Lock()
	mapper := m.Mapper
	rows, cols := m.rows, m.cols
	m.mu.Unlock()

	if mapper != nil {
		return mapper(x, y)
	}
	if x < 0 || y < 0 || y >= rows || x >= cols {
		return grid.Cell{}, false
	}
	return grid.Cell{Row: y, Col: x}, true
}

// Ready reports whether the surface can be built.
func (m *MockSurface) Ready() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.NotReady
}

// SetReady toggles readiness.
func (m *MockSurface) SetReady(ready bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NotReady = !ready
}

// BuildCalls returns how many times Build ran.
func (m *MockSurface) BuildCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buildCalls
}

// RelabelCalls returns how many times Relabel ran.
func (m *MockSurface) RelabelCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.relabelCalls
}

// SetFlagCalls returns how many times SetFlag ran.
func (m *MockSurface) SetFlagCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setFlagCalls
}

// Labels returns the labels currently shown.
func (m *MockSurface) Labels() (rowLabels, colLabels []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.rowLabels...), append([]string(nil), m.colLabels...)
}

// Size returns the dimensions of the last build.
func (m *MockSurface) Size() (rows, cols int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows, m.cols
}

// Flagged returns the cells carrying flag in row-major order.
func (m *MockSurface) Flagged(flag widget.Flag) []grid.Cell {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []grid.Cell
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.cols; c++ {
			cell := grid.Cell{Row: r, Col: c}
			if m.flags[cell]&flag != 0 {
				out = append(out, cell)
			}
		}
	}
	return out
}

// ActiveMatrix renders FlagActive marks as a matrix for comparison with widget data.
func (m *MockSurface) ActiveMatrix() [][]bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]bool, m.rows)
	for r := range out {
		out[r] = make([]bool, m.cols)
		for c := range out[r] {
			out[r][c] = m.flags[grid.Cell{Row: r, Col: c}]&widget.FlagActive != 0
		}
	}
	return out
}

// MockInputSource is a controllable widget.InputSource.
type MockInputSource struct {
	mu       sync.Mutex
	handlers map[int]func(widget.InputEvent)
	nextID   int

	subscribeCalls   int
	unsubscribeCalls int
}

// NewMockInputSource creates an input source with no subscribers.
func NewMockInputSource() *MockInputSource {
	return &MockInputSource{handlers: map[int]func(widget.InputEvent){}}
}

// Subscribe registers handler. The returned function is idempotent.
func (m *MockInputSource) Subscribe(handler func(widget.InputEvent)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.handlers[id] = handler
	m.subscribeCalls++

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			delete(m.handlers, id)
			m.unsubscribeCalls++
		})
	}
}

// Emit delivers events to every subscriber, in order.
func (m *MockInputSource) Emit(events ...widget.InputEvent) {
	for _, ev := range events {
		m.mu.Lock()
		handlers := make([]func(widget.InputEvent), 0, len(m.handlers))
		for id := 0; id < m.nextID; id++ {
			if h, ok := m.handlers[id]; ok {
				handlers = append(handlers, h)
			}
		}
		m.mu.Unlock()

		for _, h := range handlers {
			h(ev)
		}
	}
}

// Subscribers returns the number of live subscriptions.
func (m *MockInputSource) Subscribers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.handlers)
}

// Calls returns subscribe and unsubscribe counts.
func (m *MockInputSource) Calls() (subscribe, unsubscribe int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.subscribeCalls, m.unsubscribeCalls
}

// Down is a primary-button press on the cell at (row, col) of a MockSurface.
func Down(row, col int) widget.InputEvent {
	return widget.InputEvent{Kind: widget.PointerDown, X: col, Y: row, Button: widget.ButtonPrimary}
}

// Move is a pointer move over (row, col).
func Move(row, col int) widget.InputEvent {
	return widget.InputEvent{Kind: widget.PointerMove, X: col, Y: row}
}

// Up is a pointer release anywhere.
func Up() widget.InputEvent {
	return widget.InputEvent{Kind: widget.PointerUp, X: -1, Y: -1}
}

// Touch is a touch start on (row, col).
func Touch(row, col int) widget.InputEvent {
	return widget.InputEvent{Kind: widget.TouchStart, X: col, Y: row}
}

// Key is a key press.
func Key(name string) widget.InputEvent {
	return widget.InputEvent{Kind: widget.KeyDown, Key: name}
}

// ChangeRecorder collects change notifications.
type ChangeRecorder struct {
	mu      sync.Mutex
	changes []notify.Change
}

// NewChangeRecorder creates an empty recorder.
func NewChangeRecorder() *ChangeRecorder {
	return &ChangeRecorder{}
}

// Record is a notify.Listener. Data is copied since the widget passes its live matrix.
func (r *ChangeRecorder) Record(c notify.Change) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.Data = copyMatrix(c.Data)
	r.changes = append(r.changes, c)
}

// Count returns the number of recorded changes.
func (r *ChangeRecorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.changes)
}

// Last returns the most recent change.
func (r *ChangeRecorder) Last() (notify.Change, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.changes) == 0 {
		return notify.Change{}, false
	}
	return r.changes[len(r.changes)-1], true
}

// Changes returns every recorded change.
func (r *ChangeRecorder) Changes() []notify.Change {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Change(nil), r.changes...)
}

// Reset forgets recorded changes.
func (r *ChangeRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = nil
}

func copyMatrix(data [][]bool) [][]bool {
	if data == nil {
		return nil
	}
	out := make([][]bool, len(data))
	for i, row := range data {
		out[i] = append([]bool(nil), row...)
	}
	return out
}
