package tui

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	tea "charm.land/bubbletea/v2"
	"github.com/mark3labs/bitgrid/internal/widget"
)

// ExecMsg runs Fn against the widget on the Update loop, then closes Done.
// Fn is skipped when Ctx is already done or the sender gave up waiting.
type ExecMsg struct {
	Ctx  context.Context
	Fn   func(w *widget.Widget)
	Done chan struct{}

	state *atomic.Int32
}

// Exec states. Exactly one of the Update loop and the waiting caller moves
// a message out of execPending.
const (
	execPending int32 = iota
	execRunning
	execAbandoned
)

// claim reports whether Fn may run.
func (m ExecMsg) claim() bool {
	if m.Ctx != nil && m.Ctx.Err() != nil {
		if m.state != nil {
			m.state.CompareAndSwap(execPending, execAbandoned)
		}
		return false
	}
	if m.state == nil {
		return true
	}
	return m.state.CompareAndSwap(execPending, execRunning)
}

// ConfigReloadedMsg applies reloaded options to the widget.
type ConfigReloadedMsg struct {
	Options widget.Options
}

// ConnectionStatusMsg reports the change bus connection state.
type ConnectionStatusMsg struct {
	Connected bool
}

// ErrExecutorClosed is returned by Exec after Close.
var ErrExecutorClosed = errors.New("tui: executor closed")

// Sender delivers messages to a running program. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// ProgramExecutor runs widget calls from other goroutines on the program's
// Update loop, so the widget is only ever touched from one goroutine.
type ProgramExecutor struct {
	sender    Sender
	closed    chan struct{}
	closeOnce sync.Once
}

// NewProgramExecutor creates an executor sending to s.
func NewProgramExecutor(s Sender) *ProgramExecutor {
	return &ProgramExecutor{sender: s, closed: make(chan struct{})}
}

// Exec runs fn on the Update loop and waits for it to finish. An error
// means fn did not run and never will.
func (e *ProgramExecutor) Exec(ctx context.Context, fn func(w *widget.Widget)) error {
	select {
	case <-e.closed:
		return ErrExecutorClosed
	default:
	}

	msg := ExecMsg{Ctx: ctx, Fn: fn, Done: make(chan struct{}), state: new(atomic.Int32)}
	go e.sender.Send(msg)

	var err error
	select {
	case <-msg.Done:
	case <-e.closed:
		err = ErrExecutorClosed
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err == nil || msg.state.CompareAndSwap(execPending, execAbandoned) {
		return err
	}
	if msg.state.Load() == execAbandoned {
		return err
	}
	// The Update loop already started fn.
	<-msg.Done
	return nil
}

// Close makes pending and future Exec calls return ErrExecutorClosed.
func (e *ProgramExecutor) Close() {
	e.closeOnce.Do(func() { close(e.closed) })
}
