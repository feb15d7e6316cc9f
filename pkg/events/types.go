package events

import "encoding/json"

// Event name constants
const (
	LevelChanged = "battery.level"
	ReadFailed   = "battery.error"
)

// Event is a server-sent event from the daemon.
type Event struct {
	Name string          // SSE event name
	Data json.RawMessage // Raw JSON payload
}

// LevelChangedEvent is the payload of battery.level. From is empty for the
// first successful reading after start.
type LevelChangedEvent struct {
	From    string  `json:"from,omitempty"`
	To      string  `json:"to"`
	Voltage float64 `json:"voltage"`
	Ts      int64   `json:"ts"`
}

// ReadFailedEvent is the payload of battery.error.
type ReadFailedEvent struct {
	Error string `json:"error"`
	Ts    int64  `json:"ts"`
}

// DecodeAs decodes the event payload into T. Empty data decodes to the zero
// value of T.
func DecodeAs[T any](e Event) (T, error) {
	var zero T
	if len(e.Data) == 0 {
		return zero, nil
	}
	var v T
	if err := json.Unmarshal(e.Data, &v); err != nil {
		return zero, err
	}
	return v, nil
}
