// Package selection tracks the lifecycle of a rectangular drag over a grid.
package selection

import "github.com/mark3labs/bitgrid/internal/grid"

// Phase is the drag lifecycle phase.
type Phase int

const (
	// Idle means no drag is in progress.
	Idle Phase = iota
	// Dragging means a pointer is held down over the grid.
	Dragging
)

// String returns the string representation of a phase
func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// State is a read-only snapshot of the machine.
type State struct {
	Phase   Phase
	Anchor  *grid.Cell
	Current *grid.Cell
}

// boundsCache memoizes the rectangle for one (anchor, current) pair.
type boundsCache struct {
	valid   bool
	anchor  grid.Cell
	current grid.Cell
	bounds  grid.Bounds
}

// Machine is the drag state machine. Anchor and current are both set
// exactly while dragging, and always address in-range cells.
type Machine struct {
	rows, cols int
	phase      Phase
	anchor     *grid.Cell
	current    *grid.Cell
	cache      boundsCache
}

// NewMachine creates an idle machine for a rows×cols grid.
func NewMachine(rows, cols int) *Machine {
	return &Machine{rows: rows, cols: cols}
}

// Begin starts a drag at cell. Out-of-range cells are rejected.
// Beginning while already dragging re-anchors at cell.
func (m *Machine) Begin(cell grid.Cell) bool {
	if !grid.InBounds(cell, m.rows, m.cols) {
		return false
	}
	anchor, current := cell, cell
	m.phase = Dragging
	m.anchor = &anchor
	m.current = &current
	m.cache.valid = false
	return true
}

// Extend moves the drag endpoint. Ignored while idle, for out-of-range
// cells, and when the endpoint does not change.
func (m *Machine) Extend(cell grid.Cell) bool {
	if m.phase != Dragging || !grid.InBounds(cell, m.rows, m.cols) {
		return false
	}
	if m.current != nil && *m.current == cell {
		return false
	}
	current := cell
	m.current = &current
	m.cache.valid = false
	return true
}

// Bounds returns the current selection rectangle.
func (m *Machine) Bounds() (grid.Bounds, bool) {
	if m.phase != Dragging || m.anchor == nil || m.current == nil {
		return grid.Bounds{}, false
	}
	if m.cache.valid && m.cache.anchor == *m.anchor && m.cache.current == *m.current {
		return m.cache.bounds, true
	}
	m.cache = boundsCache{
		valid:   true,
		anchor:  *m.anchor,
		current: *m.current,
		bounds:  grid.Normalize(*m.anchor, *m.current),
	}
	return m.cache.bounds, true
}

// Commit ends the drag and returns the rectangle to apply.
// ok is false when there was nothing to commit; the machine is idle afterwards either way.
func (m *Machine) Commit() (b grid.Bounds, ok bool) {
	b, ok = m.Bounds()
	m.reset()
	return b, ok
}

// Cancel ends the drag without a commit. Reports whether a drag was active.
func (m *Machine) Cancel() bool {
	wasDragging := m.phase == Dragging
	m.reset()
	return wasDragging
}

// Resize updates the grid extent. Any drag in progress is cancelled since
// its cells may no longer exist.
func (m *Machine) Resize(rows, cols int) {
	m.rows, m.cols = rows, cols
	m.reset()
}

// Dragging reports whether a drag is in progress.
func (m *Machine) Dragging() bool {
	return m.phase == Dragging
}

// State returns a snapshot of the machine.
func (m *Machine) State() State {
	s := State{Phase: m.phase}
	if m.anchor != nil {
		a := *m.anchor
		s.Anchor = &a
	}
	if m.current != nil {
		c := *m.current
		s.Current = &c
	}
	return s
}

func (m *Machine) reset() {
	m.phase = Idle
	m.anchor = nil
	m.current = nil
	m.cache.valid = false
}
