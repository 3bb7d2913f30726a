// Package sessions keeps one orb widget per site visitor.
package sessions

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/helasrebellion/arcana-forges/internal/orb"
)

// Handle owns a visitor's widget. Callers go through Do so that events
// from concurrent requests are applied one at a time.
type Handle struct {
	mu       sync.Mutex
	widget   *orb.Widget
	capture  *orb.Capture
	lastSeen time.Time
}

// Do runs fn with exclusive access to the widget and its capture.
func (h *Handle) Do(fn func(w *orb.Widget, c *orb.Capture)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fn(h.widget, h.capture)
}

// View snapshots the widget.
func (h *Handle) View() orb.View {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.widget.View()
}

type Registry struct {
	mu      sync.Mutex
	entries []orb.Entry
	handles map[string]*Handle
	now     func() time.Time
}

func NewRegistry(entries []orb.Entry) *Registry {
	return &Registry{
		entries: entries,
		handles: make(map[string]*Handle),
		now:     time.Now,
	}
}

// NewID returns a fresh visitor id.
func NewID() string {
	return uuid.NewString()
}

// Valid reports whether id looks like one issued by NewID.
func Valid(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// SetEntries changes the list used for handles created from now on.
// Existing widgets keep the entries they were built with.
func (r *Registry) SetEntries(entries []orb.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = entries
}

// Get returns the handle for id, creating it on first use.
func (r *Registry) Get(id string) *Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.handles[id]
	if !ok {
		w := orb.New(r.entries)
		h = &Handle{widget: w, capture: orb.NewCapture(w)}
		r.handles[id] = h
	}
	h.lastSeen = r.now()
	return h
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}

// Sweep drops handles idle for longer than idle and returns how many went.
func (r *Registry) Sweep(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-idle)
	n := 0
	for id, h := range r.handles {
		if h.lastSeen.Before(cutoff) {
			delete(r.handles, id)
			n++
		}
	}
	return n
}
