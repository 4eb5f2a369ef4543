package notify

import (
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"
)

// DefaultInterval is the notification window used when none is configured.
const DefaultInterval = 100 * time.Millisecond

// Change is the payload delivered to change listeners.
// Data references the live matrix; listeners must treat it as read-only
// and Clone it if they keep it past the callback.
type Change struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	Rows      int       `json:"rows"`
	Cols      int       `json:"cols"`
	Active    int       `json:"active"`
	Data      [][]bool  `json:"data"`
	RowLabels []string  `json:"row_labels"`
	ColLabels []string  `json:"col_labels"`
	At        time.Time `json:"at"`
}

// Clone returns a copy of c that shares no slices with the matrix.
func (c Change) Clone() Change {
	if c.Data != nil {
		data := make([][]bool, len(c.Data))
		for i, row := range c.Data {
			data[i] = slices.Clone(row)
		}
		c.Data = data
	}
	c.RowLabels = slices.Clone(c.RowLabels)
	c.ColLabels = slices.Clone(c.ColLabels)
	return c
}

// NewChangeID returns a fresh change identifier.
func NewChangeID() string {
	return uuid.NewString()
}

// Listener receives change notifications.
type Listener func(Change)

// Notifier delivers changes to a primary callback and any subscribers,
// at most once per throttle window.
type Notifier struct {
	throttle  *Throttle
	onChange  Listener
	listeners map[int]Listener
	nextID    int
	sent      int
	dropped   int
	emitting  bool
}

// NewNotifier creates a notifier. A zero interval selects DefaultInterval;
// a negative one delivers every change.
func NewNotifier(interval time.Duration, onChange Listener) *Notifier {
	return &Notifier{
		throttle:  NewThrottle(window(interval)),
		onChange:  onChange,
		listeners: make(map[int]Listener),
	}
}

// SetInterval replaces the throttle window. The new window starts open.
func (n *Notifier) SetInterval(interval time.Duration) {
	interval = window(interval)
	if interval == n.throttle.Interval() {
		return
	}
	n.throttle = NewThrottle(interval)
}

// Interval returns the current throttle window.
func (n *Notifier) Interval() time.Duration {
	return n.throttle.Interval()
}

// SetOnChange replaces the primary callback. nil removes it.
func (n *Notifier) SetOnChange(fn Listener) {
	n.onChange = fn
}

// Subscribe registers fn and returns a function that removes it.
// The returned function is safe to call more than once.
func (n *Notifier) Subscribe(fn Listener) (unsubscribe func()) {
	id := n.nextID
	n.nextID++
	n.listeners[id] = fn
	return func() {
		delete(n.listeners, id)
	}
}

// Notify emits the change produced by build if the throttle window is open.
// build is not called for dropped notifications. A Notify from inside a
// listener is dropped. Reports whether it was sent.
func (n *Notifier) Notify(build func() Change) bool {
	if n.emitting {
		n.dropped++
		return false
	}
	sent := n.throttle.Do(func() {
		n.emitting = true
		defer func() { n.emitting = false }()

		change := build()
		if n.onChange != nil {
			n.onChange(change)
		}
		for _, id := range n.listenerIDs() {
			if fn, ok := n.listeners[id]; ok {
				fn(change)
			}
		}
	})
	if sent {
		n.sent++
	} else {
		n.dropped++
	}
	return sent
}

// Stats returns how many notifications were sent and dropped.
func (n *Notifier) Stats() (sent, dropped int) {
	return n.sent, n.dropped
}

func window(interval time.Duration) time.Duration {
	switch {
	case interval == 0:
		return DefaultInterval
	case interval < 0:
		return 0
	default:
		return interval
	}
}

// listenerIDs returns subscriber ids in registration order.
func (n *Notifier) listenerIDs() []int {
	ids := make([]int, 0, len(n.listeners))
	for id := range n.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
