//go:build linux

package gpio

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// RealDriver drives GPIO on actual hardware using Linux GPIO character device.
type RealDriver struct {
	chip *gpiocdev.Chip

	mu      sync.Mutex
	outputs map[int]*gpiocdev.Line
	inputs  map[int]*gpiocdev.Line
}

// NewRealDriver opens the named GPIO chip, e.g. "gpiochip0".
func NewRealDriver(chipName string) (*RealDriver, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}
	return &RealDriver{
		chip:    chip,
		outputs: make(map[int]*gpiocdev.Line),
		inputs:  make(map[int]*gpiocdev.Line),
	}, nil
}

// SetupOutput requests pin as an output driven low.
func (d *RealDriver) SetupOutput(pin int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.outputs[pin]; ok {
		return nil
	}
	line, err := d.chip.RequestLine(pin, gpiocdev.AsOutput(0))
	if err != nil {
		return fmt.Errorf("request output pin %d: %w", pin, err)
	}
	d.outputs[pin] = line
	return nil
}

// SetupButton requests pin as a pull-up input with falling edge detection.
// The kernel applies the bounce period before events reach onPress.
func (d *RealDriver) SetupButton(pin int, bounce time.Duration, onPress func(time.Time)) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.inputs[pin]; ok {
		return fmt.Errorf("button pin %d already requested", pin)
	}

	handler := func(evt gpiocdev.LineEvent) {
		if evt.Type != gpiocdev.LineEventFallingEdge {
			return
		}
		onPress(time.Now())
	}

	opts := []gpiocdev.LineReqOption{
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithFallingEdge,
		gpiocdev.WithEventHandler(handler),
	}
	if bounce > 0 {
		opts = append(opts, gpiocdev.WithDebounce(bounce))
	}

	line, err := d.chip.RequestLine(pin, opts...)
	if err != nil {
		return fmt.Errorf("request button pin %d: %w", pin, err)
	}
	d.inputs[pin] = line
	return nil
}

// Write drives an output pin.
func (d *RealDriver) Write(pin int, on bool) error {
	line, err := d.output(pin)
	if err != nil {
		return err
	}
	if err := line.SetValue(level(on)); err != nil {
		return fmt.Errorf("write pin %d: %w", pin, err)
	}
	return nil
}

// StartPWM starts a software pulse-width signal on an output pin.
// The character device has no hardware PWM, so the line is toggled from a
// goroutine until Stop is called.
func (d *RealDriver) StartPWM(pin int, freqHz int) (PWM, error) {
	line, err := d.output(pin)
	if err != nil {
		return nil, err
	}
	return newSoftPWM(func(on bool) error {
		return line.SetValue(level(on))
	}, freqHz)
}

func (d *RealDriver) output(pin int) (*gpiocdev.Line, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	line, ok := d.outputs[pin]
	if !ok {
		return nil, fmt.Errorf("pin %d not configured as output", pin)
	}
	return line, nil
}

// Close releases GPIO resources.
// Reconfigures every requested line as a plain input before closing so no
// LED is left driven after exit.
func (d *RealDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var errs []error

	for _, pin := range sortedPins(d.outputs) {
		line := d.outputs[pin]
		if err := line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("clear pin %d: %w", pin, err))
		}
		if err := line.Reconfigure(gpiocdev.AsInput); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure pin %d: %w", pin, err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close pin %d: %w", pin, err))
		}
		delete(d.outputs, pin)
	}
	for _, pin := range sortedPins(d.inputs) {
		if err := d.inputs[pin].Close(); err != nil {
			errs = append(errs, fmt.Errorf("close button pin %d: %w", pin, err))
		}
		delete(d.inputs, pin)
	}
	if d.chip != nil {
		if err := d.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
		d.chip = nil
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

func level(on bool) int {
	if on {
		return 1
	}
	return 0
}

func sortedPins(m map[int]*gpiocdev.Line) []int {
	pins := make([]int, 0, len(m))
	for p := range m {
		pins = append(pins, p)
	}
	sort.Ints(pins)
	return pins
}
