// Package gpio provides LED output and button input with hardware abstraction.
// The real implementation uses Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

import "time"

// Driver drives output pins and reports button presses.
type Driver interface {
	// SetupOutput requests pin as an output, initially low.
	SetupOutput(pin int) error

	// SetupButton requests pin as a pull-up input and calls onPress on every
	// falling edge (button to ground). bounce is the driver level debounce,
	// 0 disables it. onPress runs on the driver's event goroutine and must
	// not block.
	SetupButton(pin int, bounce time.Duration, onPress func(time.Time)) error

	// Write drives an output pin high (true) or low (false).
	Write(pin int, on bool) error

	// StartPWM starts a pulse-width signal on an output pin at 0% duty.
	StartPWM(pin int, freqHz int) (PWM, error)

	// Close releases all requested pins.
	Close() error
}

// PWM is a running pulse-width signal.
type PWM interface {
	// SetDutyCycle sets the on fraction of each period, 0 to 100.
	SetDutyCycle(percent int) error

	// Stop ends the signal and leaves the pin low.
	Stop() error
}

// Default pin definitions (BCM numbering)
const (
	DefaultPinLED    = 18
	DefaultPinButton = 17
	DefaultPinRed    = 18
	DefaultPinGreen  = 23
	DefaultPinYellow = 25
)

// DefaultChip is the GPIO character device on a Raspberry Pi.
const DefaultChip = "gpiochip0"

// DefaultBounce is the driver level debounce applied to button lines.
const DefaultBounce = 200 * time.Millisecond
