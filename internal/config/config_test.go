package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/pi-lights/internal/logic"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults(logic.DeviceBlinker)
	if cfg.Chip != "gpiochip0" {
		t.Errorf("Chip = %q, want gpiochip0", cfg.Chip)
	}
	if cfg.Debounce != 250*time.Millisecond {
		t.Errorf("Debounce = %v, want 250ms", cfg.Debounce)
	}
	if cfg.Bounce != 200*time.Millisecond {
		t.Errorf("Bounce = %v, want 200ms", cfg.Bounce)
	}
	if cfg.Yield != 10*time.Millisecond {
		t.Errorf("Yield = %v, want 10ms", cfg.Yield)
	}
	if cfg.Blinker.LED != 18 || cfg.Blinker.Button != 17 {
		t.Errorf("Blinker pins = %+v, want led=18 button=17", cfg.Blinker)
	}
	if cfg.MQTT.Broker != "" {
		t.Errorf("MQTT should be disabled by default, got broker %q", cfg.MQTT.Broker)
	}
	if cfg.HTTP != "" {
		t.Errorf("HTTP should be disabled by default, got %q", cfg.HTTP)
	}
	if err := Validate(cfg, logic.DeviceBlinker); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestDefaultsTrafficLight(t *testing.T) {
	cfg := Defaults(logic.DeviceTrafficLight)
	if cfg.Yield != 100*time.Millisecond {
		t.Errorf("Yield = %v, want 100ms", cfg.Yield)
	}
	want := TrafficPins{Red: 18, Green: 23, Yellow: 25, Button: 17}
	if cfg.Traffic != want {
		t.Errorf("Traffic pins = %+v, want %+v", cfg.Traffic, want)
	}
	if cfg.MQTT.ClientID != "pi-lights-traffic-light" {
		t.Errorf("ClientID = %q", cfg.MQTT.ClientID)
	}
	if err := Validate(cfg, logic.DeviceTrafficLight); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("", logic.DeviceBlinker)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Blinker.LED != 18 {
		t.Errorf("expected defaults, got LED=%d", cfg.Blinker.LED)
	}
}

func TestLoadNonExistentReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), logic.DeviceTrafficLight)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Traffic.Yellow != 25 {
		t.Errorf("expected defaults, got Yellow=%d", cfg.Traffic.Yellow)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lights.yaml")
	content := `
chip: gpiochip4
debounce: 300ms
bounce: 0s
traffic_light:
  yellow: 24
mqtt:
  broker: tcp://192.168.1.200:1883
http: ":8080"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, logic.DeviceTrafficLight)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Chip != "gpiochip4" {
		t.Errorf("Chip = %q, want gpiochip4", cfg.Chip)
	}
	if cfg.Debounce != 300*time.Millisecond {
		t.Errorf("Debounce = %v, want 300ms", cfg.Debounce)
	}
	if cfg.Bounce != 0 {
		t.Errorf("Bounce = %v, want 0", cfg.Bounce)
	}
	if cfg.Traffic.Yellow != 24 {
		t.Errorf("Yellow = %d, want 24", cfg.Traffic.Yellow)
	}
	// Unset keys keep their defaults
	if cfg.Traffic.Red != 18 || cfg.Traffic.Green != 23 {
		t.Errorf("unexpected traffic pins: %+v", cfg.Traffic)
	}
	if cfg.Yield != 100*time.Millisecond {
		t.Errorf("Yield = %v, want default 100ms", cfg.Yield)
	}
	if cfg.MQTT.Broker != "tcp://192.168.1.200:1883" {
		t.Errorf("Broker = %q", cfg.MQTT.Broker)
	}
	if cfg.MQTT.ClientID != "pi-lights-traffic-light" {
		t.Errorf("ClientID = %q, want default", cfg.MQTT.ClientID)
	}
	if cfg.HTTP != ":8080" {
		t.Errorf("HTTP = %q, want :8080", cfg.HTTP)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("blinker: [not, a, map"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path, logic.DeviceBlinker); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidateDuplicatePins(t *testing.T) {
	cfg := Defaults(logic.DeviceTrafficLight)
	cfg.Traffic.Green = cfg.Traffic.Red

	err := Validate(cfg, logic.DeviceTrafficLight)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if len(ve.Errors) != 1 || !strings.Contains(ve.Errors[0], "pin 18 already used") {
		t.Errorf("unexpected errors: %v", ve.Errors)
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Defaults(logic.DeviceBlinker)
	cfg.Chip = ""
	cfg.Yield = 0
	cfg.Blinker.LED = -1
	cfg.Debounce = -time.Second

	err := Validate(cfg, logic.DeviceBlinker)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if len(ve.Errors) != 4 {
		t.Errorf("expected 4 errors, got %d: %v", len(ve.Errors), ve.Errors)
	}
	if !strings.HasPrefix(err.Error(), "config validation failed:") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestValidateCyclesIgnoresButton(t *testing.T) {
	cfg := Defaults(logic.DeviceBlinker)
	cfg.Cycles = 5
	cfg.Blinker.Button = cfg.Blinker.LED

	if err := Validate(cfg, logic.DeviceBlinker); err != nil {
		t.Errorf("button pin should not be checked in fixed cycle mode: %v", err)
	}
}

func TestValidateCyclesRejectedForTrafficLight(t *testing.T) {
	cfg := Defaults(logic.DeviceTrafficLight)
	cfg.Cycles = 5
	if err := Validate(cfg, logic.DeviceTrafficLight); err == nil {
		t.Error("expected error for cycles on traffic light")
	}
}

func TestValidateMQTTClientID(t *testing.T) {
	cfg := Defaults(logic.DeviceBlinker)
	cfg.MQTT.Broker = "tcp://localhost:1883"
	cfg.MQTT.ClientID = ""
	if err := Validate(cfg, logic.DeviceBlinker); err == nil {
		t.Error("expected error for missing client id")
	}
}

func TestValidateUnknownDevice(t *testing.T) {
	cfg := Defaults(logic.DeviceBlinker)
	if err := Validate(cfg, logic.Device("lamp")); err == nil {
		t.Error("expected error for unknown device")
	}
}
