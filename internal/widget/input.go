package widget

// EventKind identifies an input event.
type EventKind int

const (
	// PointerDown starts a drag on the cell under the pointer.
	PointerDown EventKind = iota
	// PointerMove extends an active drag.
	PointerMove
	// PointerUp commits an active drag.
	PointerUp
	// TouchStart toggles the touched cell without dragging.
	TouchStart
	// KeyDown carries a key name; "esc" cancels a drag.
	KeyDown
)

// String returns the string representation of an event kind
func (k EventKind) String() string {
	switch k {
	case PointerDown:
		return "pointer-down"
	case PointerMove:
		return "pointer-move"
	case PointerUp:
		return "pointer-up"
	case TouchStart:
		return "touch-start"
	case KeyDown:
		return "key-down"
	default:
		return "unknown"
	}
}

// Button identifies a pointer button.
type Button int

const (
	// ButtonNone means no button was reported.
	ButtonNone Button = iota
	// ButtonPrimary is the left button; only it starts a drag.
	ButtonPrimary
	// ButtonSecondary is the right button.
	ButtonSecondary
	// ButtonMiddle is the middle button.
	ButtonMiddle
)

// InputEvent is a raw event delivered by an InputSource.
// X and Y are surface coordinates; Key is set for KeyDown.
type InputEvent struct {
	Kind   EventKind
	X, Y   int
	Button Button
	Key    string
}

// InputSource delivers input events to subscribers.
type InputSource interface {
	// Subscribe registers handler and returns a function releasing it.
	Subscribe(handler func(InputEvent)) (unsubscribe func())
}

// Keys that cancel a drag.
var cancelKeys = map[string]bool{
	"esc":    true,
	"escape": true,
}
