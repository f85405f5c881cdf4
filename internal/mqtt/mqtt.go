// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/pi-lights/internal/logic"
)

// TopicPrefix is the root of every topic published by pi-lights.
const TopicPrefix = "pi-lights"

// Topic returns the topic for state change events of device.
func Topic(device logic.Device) string {
	return TopicPrefix + "/" + string(device) + "/events"
}

// TopicSystem returns the topic for lifecycle events of device.
func TopicSystem(device logic.Device) string {
	return TopicPrefix + "/" + string(device) + "/system"
}

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a state change to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(tr logic.Transition) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "RECONNECTED"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Light LightPayload `json:"light"`
}

// LightPayload contains the state change details.
type LightPayload struct {
	Timestamp string `json:"timestamp"`
	Device    string `json:"device"`
	State     int    `json:"state"`
	Label     string `json:"label"`
}

// FormatPayload creates the JSON payload for a state change.
func FormatPayload(tr logic.Transition) ([]byte, error) {
	payload := Payload{
		Light: LightPayload{
			Timestamp: tr.Time.UTC().Format(time.RFC3339),
			Device:    string(tr.Device),
			State:     tr.State,
			Label:     tr.Label,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events (LWT, RECONNECTED) that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
