// Package orb implements the crystal orb reveal widget: a surface that is
// charged by pointer movement until its details panel is revealed, plus
// cyclic navigation over an ordered list of timeline entries.
package orb

import "math"

const (
	// RevealThreshold is the charge at which the details become visible.
	RevealThreshold = 70.0
	// MaxCharge is the upper clamp for charge.
	MaxCharge = 100.0
	// TapCharge is applied as soon as a gesture begins.
	TapCharge = 18.0

	minMoveCharge = 1.0
	maxMoveCharge = 10.0
)

// Entry is one timeline record shown by the orb.
type Entry struct {
	ID          string   `yaml:"id" json:"id"`
	Org         string   `yaml:"org" json:"org"`
	Title       string   `yaml:"title" json:"title"`
	Timeframe   string   `yaml:"timeframe" json:"timeframe"`
	Status      string   `yaml:"status" json:"status"`
	Description string   `yaml:"description" json:"description"`
	LogoSrc     string   `yaml:"logo_src" json:"logoSrc"`
	LogoAlt     string   `yaml:"logo_alt" json:"logoAlt"`
	Runes       []string `yaml:"runes,omitempty" json:"runes,omitempty"`
}

// Point is a pointer position in surface coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// State is the interaction state for the current entry.
type State struct {
	Index    int
	Dragging bool
	Revealed bool
	Charge   float64
	Last     *Point
}

// Widget holds the entries and the interaction state. It is not safe for
// concurrent use; callers that share a widget must serialize access.
type Widget struct {
	entries []Entry
	state   State
}

// New builds a widget over a copy of entries. A nil or empty list yields a
// widget that renders nothing and ignores every operation.
func New(entries []Entry) *Widget {
	cp := make([]Entry, len(entries))
	for i, e := range entries {
		e.Runes = append([]string(nil), e.Runes...)
		cp[i] = e
	}
	return &Widget{entries: cp}
}

// Len returns the number of entries.
func (w *Widget) Len() int { return len(w.entries) }

// Empty reports whether the widget has no entries.
func (w *Widget) Empty() bool { return len(w.entries) == 0 }

// State returns a copy of the interaction state.
func (w *Widget) State() State {
	s := w.state
	if s.Last != nil {
		p := *s.Last
		s.Last = &p
	}
	return s
}

// Current returns the selected entry. ok is false for an empty widget.
func (w *Widget) Current() (e Entry, ok bool) {
	if w.Empty() {
		return Entry{}, false
	}
	return w.entries[w.state.Index], true
}

// SelectNext moves to the following entry, wrapping at the end.
func (w *Widget) SelectNext() { w.selectOffset(1) }

// SelectPrevious moves to the preceding entry, wrapping at the start.
func (w *Widget) SelectPrevious() { w.selectOffset(-1) }

func (w *Widget) selectOffset(delta int) {
	n := len(w.entries)
	if n == 0 {
		return
	}
	w.state.Index = ((w.state.Index+delta)%n + n) % n
	w.reset()
}

func (w *Widget) reset() {
	w.state.Dragging = false
	w.state.Revealed = false
	w.state.Charge = 0
	w.state.Last = nil
}

// BeginInteraction starts a drag at p and applies the tap charge.
func (w *Widget) BeginInteraction(p Point) {
	if w.Empty() {
		return
	}
	w.state.Dragging = true
	w.state.Last = &p
	w.applyCharge(TapCharge)
}

// ContinueInteraction charges the orb by the distance moved since the last
// position. It does nothing unless a drag is in progress.
func (w *Widget) ContinueInteraction(p Point) {
	if !w.state.Dragging || w.state.Last == nil {
		return
	}
	dist := math.Hypot(p.X-w.state.Last.X, p.Y-w.state.Last.Y)
	w.state.Last = &p
	w.applyCharge(moveIncrement(dist))
}

// EndInteraction stops the drag. Charge and reveal state are kept.
func (w *Widget) EndInteraction() {
	w.state.Dragging = false
	w.state.Last = nil
}

// InstantReveal fully charges the orb and reveals the details.
func (w *Widget) InstantReveal() {
	if w.Empty() {
		return
	}
	w.state.Charge = MaxCharge
	w.state.Revealed = true
}

func (w *Widget) applyCharge(inc float64) {
	if math.IsNaN(inc) || inc < 0 {
		inc = 0
	}
	w.state.Charge = math.Min(MaxCharge, w.state.Charge+inc)
	if w.state.Charge >= RevealThreshold {
		w.state.Revealed = true
	}
}

// moveIncrement maps a movement distance onto [1,10] so a single fast swipe
// cannot max out the charge.
func moveIncrement(dist float64) float64 {
	if math.IsNaN(dist) {
		return minMoveCharge
	}
	return math.Min(maxMoveCharge, math.Max(minMoveCharge, dist/2))
}
