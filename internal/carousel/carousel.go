// Package carousel keeps the selected slide of an image carousel and
// advances it on a timer.
package carousel

import (
	"context"
	"sync"
	"time"
)

// DefaultInterval is the auto-advance period.
const DefaultInterval = 3 * time.Second

// Image is a single slide.
type Image struct {
	Src string `yaml:"src" json:"src"`
	Alt string `yaml:"alt" json:"alt"`
}

// Carousel is safe for concurrent use so that Run can advance it while
// manual navigation happens on another goroutine.
type Carousel struct {
	mu      sync.Mutex
	images  []Image
	current int
}

func New(images []Image) *Carousel {
	cp := make([]Image, len(images))
	copy(cp, images)
	return &Carousel{images: cp}
}

func (c *Carousel) Len() int { return len(c.images) }

// Images returns a copy of the slides.
func (c *Carousel) Images() []Image {
	return append([]Image(nil), c.images...)
}

// Current returns the selected index.
func (c *Carousel) Current() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *Carousel) Next() int { return c.step(1) }

func (c *Carousel) Previous() int { return c.step(-1) }

// GoTo selects i, wrapping out-of-range values.
func (c *Carousel) GoTo(i int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n := len(c.images); n > 0 {
		c.current = wrap(i, n)
	}
	return c.current
}

func (c *Carousel) step(delta int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n := len(c.images); n > 0 {
		c.current = wrap(c.current+delta, n)
	}
	return c.current
}

// Run advances the carousel every interval until ctx is done, calling
// onAdvance with each new index. It returns immediately when there is at
// most one image.
func (c *Carousel) Run(ctx context.Context, interval time.Duration, onAdvance func(int)) {
	if c.Len() <= 1 {
		return
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			i := c.Next()
			if onAdvance != nil {
				onAdvance(i)
			}
		}
	}
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}
