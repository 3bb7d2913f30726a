package orb

// EventType names a pointer event delivered to a Capture.
type EventType string

const (
	EventDown   EventType = "down"
	EventMove   EventType = "move"
	EventUp     EventType = "up"
	EventCancel EventType = "cancel"
	EventLeave  EventType = "leave"
	EventTap    EventType = "tap"
)

// Event is a single pointer event.
type Event struct {
	Type    EventType `json:"type"`
	Pointer int       `json:"pointer"`
	X       float64   `json:"x"`
	Y       float64   `json:"y"`
}

// Capture binds one pointer gesture to a widget. Once Down is received, all
// move, up and cancel events for the same pointer are routed to the widget
// even after the pointer leaves the surface, until the gesture ends.
type Capture struct {
	w       *Widget
	pointer int
	active  bool
}

// NewCapture returns a capture delivering gestures to w.
func NewCapture(w *Widget) *Capture {
	return &Capture{w: w}
}

// Active reports whether a gesture is captured.
func (c *Capture) Active() bool { return c.active }

// Pointer returns the captured pointer id; meaningful only while Active.
func (c *Capture) Pointer() int { return c.pointer }

// Down starts a gesture for pointer. A second pointer pressed while a
// gesture is captured is ignored.
func (c *Capture) Down(pointer int, p Point) {
	if c.active || c.w.Empty() {
		return
	}
	c.active = true
	c.pointer = pointer
	c.w.BeginInteraction(p)
}

// Move forwards movement of the captured pointer.
func (c *Capture) Move(pointer int, p Point) {
	if !c.owns(pointer) {
		return
	}
	c.w.ContinueInteraction(p)
}

// Up ends the gesture of the captured pointer. Cancel behaves the same.
func (c *Capture) Up(pointer int) {
	if !c.owns(pointer) {
		return
	}
	c.active = false
	c.w.EndInteraction()
}

// Leave is ignored while a pointer is captured.
func (c *Capture) Leave(pointer int) {}

// Release drops any captured gesture, e.g. when the entry changes.
func (c *Capture) Release() {
	if c.active {
		c.active = false
		c.w.EndInteraction()
	}
}

// Apply dispatches ev and reports whether it was a known event type.
func (c *Capture) Apply(ev Event) bool {
	p := Point{X: ev.X, Y: ev.Y}
	switch ev.Type {
	case EventDown:
		c.Down(ev.Pointer, p)
	case EventMove:
		c.Move(ev.Pointer, p)
	case EventUp, EventCancel:
		c.Up(ev.Pointer)
	case EventLeave:
		c.Leave(ev.Pointer)
	case EventTap:
		c.Release()
		c.w.InstantReveal()
	default:
		return false
	}
	return true
}

func (c *Capture) owns(pointer int) bool {
	return c.active && c.pointer == pointer
}
