package config

import "time"

type Config interface {
	// Bus is the I2C bus number of the battery ADC. A negative value selects
	// the default bus of the host.
	Bus() int
	PollInterval() time.Duration
	HistorySize() int
	AllowNonRootAccess() bool
	MQTT() MQTT

	SetBus(int)
	SetPollInterval(time.Duration)
	SetAllowNonRootAccess(bool)

	// Load reads the configuration from the source.
	Load() error
	// Save saves the configuration to the source.
	Save() error
}

// MQTT configures publishing of readings to an MQTT broker. Publishing is
// disabled when Server is empty.
type MQTT struct {
	Server      string `json:"server,omitempty" yaml:"server,omitempty"`
	ClientID    string `json:"clientId,omitempty" yaml:"clientId,omitempty"`
	TopicPrefix string `json:"topicPrefix,omitempty" yaml:"topicPrefix,omitempty"`
	Retain      *bool  `json:"retain,omitempty" yaml:"retain,omitempty"`
}

// Enabled reports whether a broker is configured.
func (m MQTT) Enabled() bool {
	return m.Server != ""
}
