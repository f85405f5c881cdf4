package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sweeney/pi-lights/internal/logic"
)

// ValidationError accumulates config validation errors.
type ValidationError struct {
	Errors []string
}

func (v *ValidationError) Error() string {
	return "config validation failed:\n  - " + strings.Join(v.Errors, "\n  - ")
}

// HasErrors reports whether any validation errors have been recorded.
func (v *ValidationError) HasErrors() bool {
	return len(v.Errors) > 0
}

// Add records a formatted validation error.
func (v *ValidationError) Add(format string, args ...interface{}) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

// Validate checks the parts of cfg used by device. It returns a
// *ValidationError listing every problem found.
func Validate(cfg *Config, device logic.Device) error {
	ve := &ValidationError{}

	if cfg.Chip == "" {
		ve.Add("chip must be set")
	}
	if cfg.Debounce < 0 {
		ve.Add("debounce must be >= 0")
	}
	if cfg.Bounce < 0 {
		ve.Add("bounce must be >= 0")
	}
	if cfg.Yield <= 0 {
		ve.Add("yield must be > 0")
	}
	if cfg.Cycles < 0 {
		ve.Add("cycles must be >= 0")
	}

	switch device {
	case logic.DeviceBlinker:
		pins := map[string]int{"blinker.led": cfg.Blinker.LED}
		if cfg.Cycles == 0 {
			pins["blinker.button"] = cfg.Blinker.Button
		}
		validatePins(pins, ve)
	case logic.DeviceTrafficLight:
		if cfg.Cycles != 0 {
			ve.Add("cycles is only supported by the blinker")
		}
		validatePins(map[string]int{
			"traffic_light.red":    cfg.Traffic.Red,
			"traffic_light.green":  cfg.Traffic.Green,
			"traffic_light.yellow": cfg.Traffic.Yellow,
			"traffic_light.button": cfg.Traffic.Button,
		}, ve)
	default:
		ve.Add("unknown device %q", device)
	}

	if cfg.MQTT.Broker != "" && cfg.MQTT.ClientID == "" {
		ve.Add("mqtt.client_id must be set when mqtt.broker is set")
	}

	if ve.HasErrors() {
		return ve
	}
	return nil
}

// validatePins checks pins are non-negative and no two names share a pin.
func validatePins(pins map[string]int, ve *ValidationError) {
	names := make([]string, 0, len(pins))
	for name := range pins {
		names = append(names, name)
	}
	sort.Strings(names)

	owner := make(map[int]string)
	for _, name := range names {
		pin := pins[name]
		if pin < 0 {
			ve.Add("%s: invalid pin %d", name, pin)
			continue
		}
		if other, ok := owner[pin]; ok {
			ve.Add("%s: pin %d already used by %s", name, pin, other)
			continue
		}
		owner[pin] = name
	}
}
