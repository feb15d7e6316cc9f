package types

import (
	"github.com/charlie0129/i2cbatt/pkg/battery"
)

// Status is the daemon's view of the battery. It is shared between the
// daemon and client packages.
type Status struct {
	// Reading is the last successful reading, nil before the first one.
	Reading *battery.Reading `json:"reading,omitempty"`
	// LastError is the error of the most recent sample, if it failed.
	LastError           string `json:"lastError,omitempty"`
	PollIntervalSeconds int    `json:"pollIntervalSeconds"`
	HistoryLength       int    `json:"historyLength"`
}
