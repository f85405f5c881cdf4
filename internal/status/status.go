// Package status provides a thread-safe status tracker for the LED programs.
// It is written by the button callback and run loop, and read by the HTTP
// server and lifecycle events.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/pi-lights/internal/logic"
)

// Config contains program configuration for display.
type Config struct {
	Pins       map[string]int
	DebounceMs int64
	BounceMs   int64
	Broker     string
	HTTPAddr   string
}

// Snapshot is a point-in-time view of program state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Device        logic.Device
	State         int
	Label         string
	Counts        logic.PressCounts
	LastChange    time.Time // zero until the first accepted press
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the program started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable program state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
	now  func() time.Time
}

// NewTracker creates a Tracker for device in its initial state 0.
func NewTracker(device logic.Device, startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			Device:    device,
			Label:     logic.Label(device, 0),
			StartTime: startTime,
			Config:    cfg,
		},
		now: time.Now,
	}
}

// Update records an accepted transition and the current press counts.
func (t *Tracker) Update(tr logic.Transition, counts logic.PressCounts) {
	t.mu.Lock()
	t.snap.State = tr.State
	t.snap.Label = tr.Label
	t.snap.LastChange = tr.Time
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetCounts records the press counts without a state change.
func (t *Tracker) SetCounts(counts logic.PressCounts) {
	t.mu.Lock()
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the program state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Config.Pins = copyPins(s.Config.Pins)
	s.Now = t.now()
	return s
}

func copyPins(pins map[string]int) map[string]int {
	if pins == nil {
		return nil
	}
	out := make(map[string]int, len(pins))
	for k, v := range pins {
		out[k] = v
	}
	return out
}
