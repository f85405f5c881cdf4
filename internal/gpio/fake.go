package gpio

import (
	"fmt"
	"sync"
	"time"
)

// Write records a single output change on a FakeDriver.
type Write struct {
	Pin int
	On  bool
}

// FakeDriver is a test double that records output writes and lets tests
// trigger button presses. Safe for concurrent use.
type FakeDriver struct {
	mu sync.Mutex

	outputs map[int]bool // pin -> level
	buttons map[int]func(time.Time)
	bounces map[int]time.Duration
	writes  []Write
	duties  map[int][]int // pin -> duty cycles set via PWM
	pwmOn   map[int]bool
	closed  bool

	// SetupError, if set, is returned by SetupOutput and SetupButton.
	SetupError error

	// WriteError, if set, is returned by Write.
	WriteError error

	// OnWrite, if set, is called after every recorded write with the levels
	// of all outputs at that instant.
	OnWrite func(levels map[int]bool)
}

// NewFakeDriver creates an empty FakeDriver.
func NewFakeDriver() *FakeDriver {
	return &FakeDriver{
		outputs: make(map[int]bool),
		buttons: make(map[int]func(time.Time)),
		bounces: make(map[int]time.Duration),
		duties:  make(map[int][]int),
		pwmOn:   make(map[int]bool),
	}
}

// SetupOutput records pin as an output driven low.
func (f *FakeDriver) SetupOutput(pin int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SetupError != nil {
		return f.SetupError
	}
	f.outputs[pin] = false
	return nil
}

// SetupButton registers onPress for pin.
func (f *FakeDriver) SetupButton(pin int, bounce time.Duration, onPress func(time.Time)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SetupError != nil {
		return f.SetupError
	}
	if _, ok := f.buttons[pin]; ok {
		return fmt.Errorf("button pin %d already requested", pin)
	}
	f.buttons[pin] = onPress
	f.bounces[pin] = bounce
	return nil
}

// Write records the level of pin.
func (f *FakeDriver) Write(pin int, on bool) error {
	f.mu.Lock()
	if f.WriteError != nil {
		err := f.WriteError
		f.mu.Unlock()
		return err
	}
	if _, ok := f.outputs[pin]; !ok {
		f.mu.Unlock()
		return fmt.Errorf("pin %d not configured as output", pin)
	}
	f.outputs[pin] = on
	f.writes = append(f.writes, Write{Pin: pin, On: on})
	hook := f.OnWrite
	levels := f.levelsLocked()
	f.mu.Unlock()

	if hook != nil {
		hook(levels)
	}
	return nil
}

// StartPWM records duty cycle changes for pin instead of toggling it.
func (f *FakeDriver) StartPWM(pin int, freqHz int) (PWM, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.outputs[pin]; !ok {
		return nil, fmt.Errorf("pin %d not configured as output", pin)
	}
	if freqHz <= 0 {
		return nil, fmt.Errorf("invalid pwm frequency %d", freqHz)
	}
	if f.pwmOn[pin] {
		return nil, fmt.Errorf("pwm already running on pin %d", pin)
	}
	f.pwmOn[pin] = true
	return &fakePWM{f: f, pin: pin}, nil
}

// Close marks the driver as closed and drives every output low.
func (f *FakeDriver) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for pin := range f.outputs {
		f.outputs[pin] = false
	}
	f.closed = true
	return nil
}

// Press simulates a falling edge on the button pin at t.
// Returns false if no button is registered on pin.
func (f *FakeDriver) Press(pin int, t time.Time) bool {
	f.mu.Lock()
	onPress, ok := f.buttons[pin]
	f.mu.Unlock()
	if !ok {
		return false
	}
	onPress(t)
	return true
}

// Level returns the current level of an output pin.
func (f *FakeDriver) Level(pin int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.outputs[pin]
}

// Levels returns a copy of all output levels.
func (f *FakeDriver) Levels() map[int]bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.levelsLocked()
}

// Writes returns a copy of all recorded writes.
func (f *FakeDriver) Writes() []Write {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Write(nil), f.writes...)
}

// Duties returns the duty cycles set on pin's PWM, in order.
func (f *FakeDriver) Duties(pin int) []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.duties[pin]...)
}

// PWMRunning reports whether a PWM is active on pin.
func (f *FakeDriver) PWMRunning(pin int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pwmOn[pin]
}

// HasButton reports whether a button callback is registered on pin.
func (f *FakeDriver) HasButton(pin int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.buttons[pin]
	return ok
}

// Bounce returns the driver debounce requested for a button pin.
func (f *FakeDriver) Bounce(pin int) time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bounces[pin]
}

// Closed reports whether Close was called.
func (f *FakeDriver) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Reset clears recorded writes and duty cycles.
func (f *FakeDriver) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = nil
	f.duties = make(map[int][]int)
}

func (f *FakeDriver) levelsLocked() map[int]bool {
	levels := make(map[int]bool, len(f.outputs))
	for pin, on := range f.outputs {
		levels[pin] = on
	}
	return levels
}

type fakePWM struct {
	f       *FakeDriver
	pin     int
	stopped bool
}

func (p *fakePWM) SetDutyCycle(percent int) error {
	if percent < 0 || percent > 100 {
		return fmt.Errorf("%d: invalid duty cycle percentage", percent)
	}
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	if p.stopped {
		return fmt.Errorf("pwm stopped")
	}
	p.f.duties[p.pin] = append(p.f.duties[p.pin], percent)
	return nil
}

func (p *fakePWM) Stop() error {
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	if p.stopped {
		return nil
	}
	p.stopped = true
	p.f.pwmOn[p.pin] = false
	p.f.outputs[p.pin] = false
	return nil
}
