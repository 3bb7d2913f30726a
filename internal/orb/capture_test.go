package orb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCaptureKeepsGestureAfterLeave(t *testing.T) {
	w := New(testEntries())
	c := NewCapture(w)

	c.Apply(Event{Type: EventDown, Pointer: 1})
	c.Apply(Event{Type: EventLeave, Pointer: 1})
	c.Apply(Event{Type: EventMove, Pointer: 1, X: 50})

	assert.True(t, c.Active())
	assert.Equal(t, 28.0, w.State().Charge)

	c.Apply(Event{Type: EventUp, Pointer: 1})
	assert.False(t, c.Active())
	assert.False(t, w.State().Dragging)
}

func TestCaptureIgnoresOtherPointers(t *testing.T) {
	w := New(testEntries())
	c := NewCapture(w)

	c.Down(1, Point{})
	c.Down(2, Point{})
	c.Move(2, Point{X: 100})
	c.Up(2)

	assert.True(t, c.Active())
	assert.Equal(t, 1, c.Pointer())
	assert.Equal(t, 18.0, w.State().Charge)

	c.Apply(Event{Type: EventCancel, Pointer: 1})
	assert.False(t, c.Active())
}

func TestCaptureTapReveals(t *testing.T) {
	w := New(testEntries())
	c := NewCapture(w)
	c.Down(3, Point{})

	assert.True(t, c.Apply(Event{Type: EventTap, Pointer: 3}))
	assert.False(t, c.Active())
	assert.True(t, w.State().Revealed)
	assert.False(t, c.Apply(Event{Type: "wiggle"}))
}

func TestCaptureOnEmptyWidget(t *testing.T) {
	c := NewCapture(New(nil))
	c.Down(1, Point{})
	assert.False(t, c.Active())
}
