package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sweeney/pi-lights/internal/logic"
)

func TestFormatPayload(t *testing.T) {
	tr := logic.Transition{
		Time:   time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC),
		Device: logic.DeviceBlinker,
		State:  1,
		Label:  "fast",
	}

	payload, err := FormatPayload(tr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed Payload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Light.Timestamp != "2026-02-02T22:18:12Z" {
		t.Errorf("unexpected timestamp: %s", parsed.Light.Timestamp)
	}
	if parsed.Light.Device != "blinker" {
		t.Errorf("unexpected device: %s", parsed.Light.Device)
	}
	if parsed.Light.State != 1 {
		t.Errorf("unexpected state: %d", parsed.Light.State)
	}
	if parsed.Light.Label != "fast" {
		t.Errorf("unexpected label: %s", parsed.Light.Label)
	}
}

func TestFormatPayloadExactJSON(t *testing.T) {
	tr := logic.Transition{
		Time:   time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC),
		Device: logic.DeviceTrafficLight,
		State:  2,
		Label:  "yellow",
	}

	payload, err := FormatPayload(tr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"light":{"timestamp":"2026-02-02T22:18:12Z","device":"traffic-light","state":2,"label":"yellow"}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(payload), expected)
	}
}

func TestFormatPayloadTimezoneConversion(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	tr := logic.Transition{
		Time:   time.Date(2026, 2, 2, 12, 0, 0, 0, loc),
		Device: logic.DeviceBlinker,
	}

	payload, err := FormatPayload(tr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed Payload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Light.Timestamp != "2026-02-02T10:00:00Z" {
		t.Errorf("expected UTC timestamp, got %s", parsed.Light.Timestamp)
	}
}

func TestTopics(t *testing.T) {
	tests := []struct {
		device     logic.Device
		wantEvents string
		wantSystem string
	}{
		{logic.DeviceBlinker, "pi-lights/blinker/events", "pi-lights/blinker/system"},
		{logic.DeviceTrafficLight, "pi-lights/traffic-light/events", "pi-lights/traffic-light/system"},
	}
	for _, tt := range tests {
		if got := Topic(tt.device); got != tt.wantEvents {
			t.Errorf("Topic(%s) = %s, want %s", tt.device, got, tt.wantEvents)
		}
		if got := TopicSystem(tt.device); got != tt.wantSystem {
			t.Errorf("TopicSystem(%s) = %s, want %s", tt.device, got, tt.wantSystem)
		}
	}
}

func TestFormatSystemPayloadExactJSON(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 3, 10, 30, 45, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"system":{"timestamp":"2026-02-03T10:30:45Z","event":"SHUTDOWN","reason":"SIGTERM"}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(payload), expected)
	}
}

func TestFormatSystemPayloadOmitsEmptyReason(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 10, 14, 30, 0, 0, time.UTC),
		Event:     "RECONNECTED",
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"system":{"timestamp":"2026-02-10T14:30:00Z","event":"RECONNECTED"}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(payload), expected)
	}
}

func TestFormatSystemPayloadRawPayload(t *testing.T) {
	raw := []byte(`{"status":{"event":"STARTUP"}}`)
	payload, err := FormatSystemPayload(SystemEvent{Event: "STARTUP", RawPayload: raw})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(payload) != string(raw) {
		t.Errorf("expected raw payload, got %s", payload)
	}
}

func TestWillPayload(t *testing.T) {
	payload, err := WillPayload()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed SystemPayload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.System.Event != "OFFLINE" {
		t.Errorf("expected OFFLINE event, got %s", parsed.System.Event)
	}
	if parsed.System.Reason != "LWT" {
		t.Errorf("expected LWT reason, got %s", parsed.System.Reason)
	}
}

func TestFakePublisher(t *testing.T) {
	f := NewFakePublisher()
	tr := logic.Transition{Time: time.Now(), Device: logic.DeviceBlinker, State: 3, Label: "fade"}

	if err := f.Publish(tr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.Transitions) != 1 {
		t.Fatalf("expected 1 transition, got %d", len(f.Transitions))
	}
	if f.Transitions[0] != tr {
		t.Errorf("unexpected transition: %+v", f.Transitions[0])
	}
	if len(f.Payloads) != 1 {
		t.Errorf("expected 1 payload, got %d", len(f.Payloads))
	}
}

func TestFakePublisherError(t *testing.T) {
	f := NewFakePublisher()
	f.PublishError = errors.New("broker down")
	f.PublishSystemError = errors.New("broker down")

	if err := f.Publish(logic.Transition{}); err == nil {
		t.Error("expected publish error")
	}
	if err := f.PublishSystem(SystemEvent{Event: "STARTUP"}); err == nil {
		t.Error("expected publish system error")
	}
	if len(f.Transitions) != 0 || len(f.SystemEvents) != 0 {
		t.Error("failed publishes should not be recorded")
	}
}

func TestFakePublisherSystemEvents(t *testing.T) {
	f := NewFakePublisher()
	f.PublishSystem(SystemEvent{Event: "STARTUP", Retained: true})
	f.PublishSystem(SystemEvent{Event: "SHUTDOWN", Reason: "SIGINT", Retained: true})

	if len(f.SystemEvents) != 2 {
		t.Fatalf("expected 2 system events, got %d", len(f.SystemEvents))
	}
	if f.SystemEvents[0].Event != "STARTUP" || f.SystemEvents[1].Event != "SHUTDOWN" {
		t.Errorf("unexpected order: %+v", f.SystemEvents)
	}
	if !f.SystemEvents[1].Retained {
		t.Error("expected retained flag to be recorded")
	}
	if len(f.SystemPayloads) != 2 {
		t.Errorf("expected 2 system payloads, got %d", len(f.SystemPayloads))
	}
}

func TestFakePublisherCloseAndReset(t *testing.T) {
	f := NewFakePublisher()
	f.Connected = true
	f.Publish(logic.Transition{})
	f.Close()

	if !f.Closed {
		t.Error("should be closed after Close()")
	}
	if !f.IsConnected() {
		t.Error("expected connected")
	}

	f.Reset()

	if f.Closed || f.IsConnected() {
		t.Error("reset should clear closed and connected")
	}
	if f.Transitions != nil || f.Payloads != nil {
		t.Error("reset should clear recorded transitions")
	}
}
