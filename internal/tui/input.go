package tui

import (
	"sort"

	tea "charm.land/bubbletea/v2"
	"github.com/mark3labs/bitgrid/internal/widget"
)

// TouchMsg is a touch start at a screen position. Terminals do not report
// touch, so hosts that receive touch input send it to the program directly.
type TouchMsg struct {
	X, Y int
}

// InputBus fans bubbletea input out to widget subscribers. It implements
// widget.InputSource and is only used from the Update loop.
type InputBus struct {
	handlers map[int]func(widget.InputEvent)
	nextID   int
}

// NewInputBus creates a bus with no subscribers.
func NewInputBus() *InputBus {
	return &InputBus{handlers: make(map[int]func(widget.InputEvent))}
}

// Subscribe registers handler and returns a function releasing it.
func (b *InputBus) Subscribe(handler func(widget.InputEvent)) func() {
	id := b.nextID
	b.nextID++
	b.handlers[id] = handler
	return func() {
		delete(b.handlers, id)
	}
}

// Publish delivers ev to every subscriber in registration order.
func (b *InputBus) Publish(ev widget.InputEvent) {
	ids := make([]int, 0, len(b.handlers))
	for id := range b.handlers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if h, ok := b.handlers[id]; ok {
			h(ev)
		}
	}
}

// Len returns the number of subscribers.
func (b *InputBus) Len() int {
	return len(b.handlers)
}

// TranslateMsg converts a bubbletea input message into a widget event.
// Messages that are not pointer, touch or key input report false.
func TranslateMsg(msg tea.Msg) (widget.InputEvent, bool) {
	switch msg := msg.(type) {
	case tea.MouseClickMsg:
		m := msg.Mouse()
		return widget.InputEvent{Kind: widget.PointerDown, X: m.X, Y: m.Y, Button: translateButton(m.Button)}, true
	case tea.MouseMotionMsg:
		m := msg.Mouse()
		return widget.InputEvent{Kind: widget.PointerMove, X: m.X, Y: m.Y, Button: translateButton(m.Button)}, true
	case tea.MouseReleaseMsg:
		m := msg.Mouse()
		return widget.InputEvent{Kind: widget.PointerUp, X: m.X, Y: m.Y, Button: translateButton(m.Button)}, true
	case TouchMsg:
		return widget.InputEvent{Kind: widget.TouchStart, X: msg.X, Y: msg.Y}, true
	case tea.KeyPressMsg:
		return widget.InputEvent{Kind: widget.KeyDown, Key: msg.String()}, true
	}
	return widget.InputEvent{}, false
}

func translateButton(b tea.MouseButton) widget.Button {
	switch b {
	case tea.MouseLeft:
		return widget.ButtonPrimary
	case tea.MouseRight:
		return widget.ButtonSecondary
	case tea.MouseMiddle:
		return widget.ButtonMiddle
	default:
		return widget.ButtonNone
	}
}

// Compile-time interface checks
var _ widget.InputSource = (*InputBus)(nil)
