//go:build !linux

package gpio

import (
	"errors"
	"time"
)

var errUnsupported = errors.New("gpio: not supported")

// RealDriver is not available on non-Linux platforms.
type RealDriver struct{}

// NewRealDriver returns an error on non-Linux platforms.
func NewRealDriver(chipName string) (*RealDriver, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// SetupOutput is not implemented on non-Linux platforms.
func (d *RealDriver) SetupOutput(pin int) error { return errUnsupported }

// SetupButton is not implemented on non-Linux platforms.
func (d *RealDriver) SetupButton(pin int, bounce time.Duration, onPress func(time.Time)) error {
	return errUnsupported
}

// Write is not implemented on non-Linux platforms.
func (d *RealDriver) Write(pin int, on bool) error { return errUnsupported }

// StartPWM is not implemented on non-Linux platforms.
func (d *RealDriver) StartPWM(pin int, freqHz int) (PWM, error) { return nil, errUnsupported }

// Close is not implemented on non-Linux platforms.
func (d *RealDriver) Close() error {
	return nil
}
