// Package config loads pin assignments and timing for the LED programs.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/pi-lights/internal/gpio"
	"github.com/sweeney/pi-lights/internal/logic"
)

// Config is the full program configuration. A YAML file provides values,
// command line flags override them.
type Config struct {
	Chip     string        `yaml:"chip"`
	Debounce time.Duration `yaml:"debounce"` // application debounce window
	Bounce   time.Duration `yaml:"bounce"`   // driver line debounce, 0 disables
	Yield    time.Duration `yaml:"yield"`    // pause between loop iterations

	Blinker BlinkerPins `yaml:"blinker"`
	Traffic TrafficPins `yaml:"traffic_light"`

	// Cycles > 0 renders slow blink that many times without a button.
	Cycles int `yaml:"cycles"`

	MQTT MQTTConfig `yaml:"mqtt"`
	HTTP string     `yaml:"http"` // status server address, empty disables
}

// BlinkerPins are the BCM pins of the blinker.
type BlinkerPins struct {
	LED    int `yaml:"led"`
	Button int `yaml:"button"`
}

// TrafficPins are the BCM pins of the traffic light.
type TrafficPins struct {
	Red    int `yaml:"red"`
	Green  int `yaml:"green"`
	Yellow int `yaml:"yellow"`
	Button int `yaml:"button"`
}

// MQTTConfig configures event publishing. An empty broker disables it.
type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
}

// Default yields between loop iterations.
const (
	BlinkerYield = 10 * time.Millisecond
	TrafficYield = 100 * time.Millisecond
)

// Defaults returns the configuration for device with the stock wiring.
func Defaults(device logic.Device) *Config {
	cfg := &Config{
		Chip:     gpio.DefaultChip,
		Debounce: logic.DefaultDebounce,
		Bounce:   gpio.DefaultBounce,
		Yield:    BlinkerYield,
		Blinker: BlinkerPins{
			LED:    gpio.DefaultPinLED,
			Button: gpio.DefaultPinButton,
		},
		Traffic: TrafficPins{
			Red:    gpio.DefaultPinRed,
			Green:  gpio.DefaultPinGreen,
			Yellow: gpio.DefaultPinYellow,
			Button: gpio.DefaultPinButton,
		},
		MQTT: MQTTConfig{ClientID: "pi-lights-" + string(device)},
	}
	if device == logic.DeviceTrafficLight {
		cfg.Yield = TrafficYield
	}
	return cfg
}

// Load reads a YAML config file over the defaults for device. An empty path
// or a missing file yields the defaults.
func Load(path string, device logic.Device) (*Config, error) {
	cfg := Defaults(device)
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
