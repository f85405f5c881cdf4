package render

import (
	"fmt"

	"github.com/sweeney/pi-lights/internal/gpio"
	"github.com/sweeney/pi-lights/internal/logic"
)

// TrafficPins holds the BCM pin of each light.
type TrafficPins struct {
	Red    int
	Green  int
	Yellow int
}

// TrafficLight drives three LEDs so that at most one is on.
type TrafficLight struct {
	driver gpio.Driver
	pins   [logic.ColorCount]int
}

// NewTrafficLight creates a TrafficLight. The pins must already be set up as
// outputs.
func NewTrafficLight(driver gpio.Driver, pins TrafficPins) *TrafficLight {
	return &TrafficLight{
		driver: driver,
		pins:   [logic.ColorCount]int{pins.Red, pins.Green, pins.Yellow},
	}
}

// Show turns every light off and then the light for c on.
func (t *TrafficLight) Show(c logic.Color) error {
	if c < 0 || int(c) >= logic.ColorCount {
		return fmt.Errorf("unknown color %d", int(c))
	}
	if err := t.AllOff(); err != nil {
		return err
	}
	return t.driver.Write(t.pins[c], true)
}

// AllOff turns every light off. Calling it repeatedly has no further effect.
func (t *TrafficLight) AllOff() error {
	for _, pin := range t.pins {
		if err := t.driver.Write(pin, false); err != nil {
			return err
		}
	}
	return nil
}
