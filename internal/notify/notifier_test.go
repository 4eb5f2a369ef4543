package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThrottle_LeadingEdgeDropsWithinWindow(t *testing.T) {
	th := NewThrottle(50 * time.Millisecond)

	calls := 0
	assert.True(t, th.Do(func() { calls++ }), "first call runs immediately")
	assert.False(t, th.Do(func() { calls++ }), "second call inside window is dropped")
	assert.False(t, th.Do(func() { calls++ }))
	assert.Equal(t, 1, calls)

	time.Sleep(70 * time.Millisecond)

	assert.True(t, th.Do(func() { calls++ }), "window elapsed")
	assert.Equal(t, 2, calls, "dropped calls are never replayed")
}

func TestThrottle_ZeroIntervalRunsEveryCall(t *testing.T) {
	th := NewThrottle(0)

	calls := 0
	for i := 0; i < 5; i++ {
		th.Do(func() { calls++ })
	}
	assert.Equal(t, 5, calls)
}

func TestNotifier_DefaultInterval(t *testing.T) {
	n := NewNotifier(0, nil)
	assert.Equal(t, DefaultInterval, n.Interval())
}

func TestNotifier_ThrottlesCallbackAndSubscribers(t *testing.T) {
	var primary, secondary []Change
	n := NewNotifier(50*time.Millisecond, func(c Change) { primary = append(primary, c) })
	n.Subscribe(func(c Change) { secondary = append(secondary, c) })

	builds := 0
	build := func() Change {
		builds++
		return Change{ID: NewChangeID(), Rows: 1, Cols: 1}
	}

	assert.True(t, n.Notify(build))
	assert.False(t, n.Notify(build))
	assert.Equal(t, 1, builds, "payload is only built for sent notifications")
	require.Len(t, primary, 1)
	require.Len(t, secondary, 1)
	assert.Equal(t, primary[0].ID, secondary[0].ID)

	time.Sleep(70 * time.Millisecond)

	assert.True(t, n.Notify(build))
	assert.Len(t, primary, 2)

	sent, dropped := n.Stats()
	assert.Equal(t, 2, sent)
	assert.Equal(t, 1, dropped)
}

func TestNotifier_Unsubscribe(t *testing.T) {
	n := NewNotifier(time.Millisecond, nil)

	calls := 0
	unsubscribe := n.Subscribe(func(Change) { calls++ })
	n.Notify(func() Change { return Change{} })
	require.Equal(t, 1, calls)

	unsubscribe()
	unsubscribe()

	time.Sleep(5 * time.Millisecond)
	n.Notify(func() Change { return Change{} })
	assert.Equal(t, 1, calls)
}

func TestNotifier_SubscribersInRegistrationOrder(t *testing.T) {
	n := NewNotifier(time.Millisecond, nil)

	var order []int
	for i := 0; i < 4; i++ {
		n.Subscribe(func(Change) { order = append(order, i) })
	}
	n.Notify(func() Change { return Change{} })

	assert.Equal(t, []int{0, 1, 2, 3}, order)
}

func TestNotifier_SetIntervalReopensWindow(t *testing.T) {
	calls := 0
	n := NewNotifier(time.Hour, func(Change) { calls++ })

	n.Notify(func() Change { return Change{} })
	n.Notify(func() Change { return Change{} })
	require.Equal(t, 1, calls)

	n.SetInterval(time.Hour)
	n.Notify(func() Change { return Change{} })
	assert.Equal(t, 1, calls, "same interval keeps the current window")

	n.SetInterval(2 * time.Hour)
	n.Notify(func() Change { return Change{} })
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2*time.Hour, n.Interval())
}

func TestNotifier_SetOnChange(t *testing.T) {
	n := NewNotifier(time.Millisecond, nil)
	assert.True(t, n.Notify(func() Change { return Change{} }), "no callback is not an error")

	got := 0
	n.SetOnChange(func(Change) { got++ })
	time.Sleep(5 * time.Millisecond)
	n.Notify(func() Change { return Change{} })
	assert.Equal(t, 1, got)
}

func TestNotifier_NegativeIntervalDeliversEverything(t *testing.T) {
	calls := 0
	n := NewNotifier(-1, func(Change) { calls++ })
	for i := 0; i < 5; i++ {
		require.True(t, n.Notify(func() Change { return Change{} }))
	}
	assert.Equal(t, 5, calls)
	assert.Equal(t, time.Duration(0), n.Interval())

	n.SetInterval(0)
	assert.Equal(t, DefaultInterval, n.Interval())
}

func TestThrottle_NestedCallIsDropped(t *testing.T) {
	th := NewThrottle(time.Second)

	nested := true
	done := make(chan struct{})
	go func() {
		defer close(done)
		th.Do(func() {
			nested = th.Do(func() {})
		})
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("nested Do blocked")
	}
	assert.False(t, nested, "nested call falls inside the window")
}

func TestNotifier_NotifyFromListenerIsDropped(t *testing.T) {
	var n *Notifier
	calls := 0
	n = NewNotifier(-1, func(Change) {
		calls++
		assert.False(t, n.Notify(func() Change { return Change{} }))
	})

	require.True(t, n.Notify(func() Change { return Change{} }))
	assert.Equal(t, 1, calls)

	sent, dropped := n.Stats()
	assert.Equal(t, 1, sent)
	assert.Equal(t, 1, dropped)
}

func TestChange_Clone(t *testing.T) {
	orig := Change{
		ID:        "c1",
		Data:      [][]bool{{true, false}},
		RowLabels: []string{"a"},
		ColLabels: []string{"x", "y"},
	}
	c := orig.Clone()
	orig.Data[0][0] = false
	orig.RowLabels[0] = "changed"
	orig.ColLabels[1] = "changed"

	assert.Equal(t, [][]bool{{true, false}}, c.Data)
	assert.Equal(t, []string{"a"}, c.RowLabels)
	assert.Equal(t, []string{"x", "y"}, c.ColLabels)
	assert.Equal(t, "c1", c.ID)
	assert.Nil(t, Change{}.Clone().Data)
}
