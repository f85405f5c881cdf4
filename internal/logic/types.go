// Package logic contains the pure state logic for the LED programs.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import (
	"fmt"
	"time"
)

// Device identifies which program owns a state.
type Device string

const (
	DeviceBlinker      Device = "blinker"
	DeviceTrafficLight Device = "traffic-light"
)

// Mode is a blink pattern selected by the button.
type Mode int

const (
	ModeSlow Mode = iota
	ModeFast
	ModeDouble
	ModeFade
)

// ModeCount is the number of blink modes.
const ModeCount = 4

var modeLabels = [ModeCount]string{"slow", "fast", "double", "fade"}

// String returns the mode label, e.g. "slow".
func (m Mode) String() string {
	if m < 0 || int(m) >= ModeCount {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeLabels[m]
}

// Color is a traffic light state.
type Color int

const (
	ColorRed Color = iota
	ColorGreen
	ColorYellow
)

// ColorCount is the number of traffic light colors.
const ColorCount = 3

var colorLabels = [ColorCount]string{"red", "green", "yellow"}

// String returns the color label, e.g. "red".
func (c Color) String() string {
	if c < 0 || int(c) >= ColorCount {
		return fmt.Sprintf("color(%d)", int(c))
	}
	return colorLabels[c]
}

// Label returns the display label of state for the given device.
func Label(d Device, state int) string {
	switch d {
	case DeviceBlinker:
		return Mode(state).String()
	case DeviceTrafficLight:
		return Color(state).String()
	}
	return fmt.Sprintf("%d", state)
}

// Transition is an accepted button press that advanced the state.
type Transition struct {
	Time   time.Time
	Device Device
	State  int
	Label  string
}

// PressCounts tracks button presses since startup.
type PressCounts struct {
	Accepted int
	Ignored  int // rejected by the debounce window
}
