package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string     `json:"event,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	Device        string     `json:"device"`
	State         int        `json:"state"`
	Label         string     `json:"label"`
	LastChange    string     `json:"last_change,omitempty"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	MQTT          MQTTStatus `json:"mqtt"`
	Presses       PressJSON  `json:"presses"`
	Config        ConfigJSON `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker,omitempty"`
}

// PressJSON is the JSON representation of press counts.
type PressJSON struct {
	Accepted int `json:"accepted"`
	Ignored  int `json:"ignored"`
}

// ConfigJSON is the JSON representation of program config.
type ConfigJSON struct {
	Pins       map[string]int `json:"pins"`
	DebounceMs int64          `json:"debounce_ms"`
	BounceMs   int64          `json:"bounce_ms"`
	HTTPAddr   string         `json:"http_addr,omitempty"`
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		Device:        string(snap.Device),
		State:         snap.State,
		Label:         snap.Label,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Presses: PressJSON{
			Accepted: snap.Counts.Accepted,
			Ignored:  snap.Counts.Ignored,
		},
		Config: ConfigJSON{
			Pins:       snap.Config.Pins,
			DebounceMs: snap.Config.DebounceMs,
			BounceMs:   snap.Config.BounceMs,
			HTTPAddr:   snap.Config.HTTPAddr,
		},
	}
	if !snap.LastChange.IsZero() {
		inner.LastChange = snap.LastChange.UTC().Format(time.RFC3339)
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
