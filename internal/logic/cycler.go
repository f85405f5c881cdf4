package logic

import (
	"sync"
	"time"
)

// DefaultDebounce is the minimum gap between accepted presses.
const DefaultDebounce = 250 * time.Millisecond

// Cycler holds a state in [0, n) that advances by one on each debounced press.
// Press is called from the GPIO event goroutine while the run loop reads
// Current, so state and timestamp are kept together behind one mutex.
type Cycler struct {
	mu       sync.Mutex
	device   Device
	n        int
	debounce time.Duration
	state    int
	last     time.Time
	counts   PressCounts
}

// NewCycler creates a Cycler with n states starting at 0.
// It panics if n < 1.
func NewCycler(device Device, n int, debounce time.Duration) *Cycler {
	if n < 1 {
		panic("logic: cycler needs at least one state")
	}
	return &Cycler{
		device:   device,
		n:        n,
		debounce: debounce,
	}
}

// Press registers a falling edge at now. It returns the resulting transition
// and true if the press was accepted, or false if it fell inside the debounce
// window of the previous accepted press.
func (c *Cycler) Press(now time.Time) (Transition, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// The zero time means no press has been accepted yet.
	if !c.last.IsZero() && now.Sub(c.last) < c.debounce {
		c.counts.Ignored++
		return Transition{}, false
	}

	c.last = now
	c.state = (c.state + 1) % c.n
	c.counts.Accepted++
	return Transition{
		Time:   now,
		Device: c.device,
		State:  c.state,
		Label:  Label(c.device, c.state),
	}, true
}

// Current returns the current state.
func (c *Cycler) Current() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Counts returns a copy of the press counters.
func (c *Cycler) Counts() PressCounts {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts
}
