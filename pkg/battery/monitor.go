// Package battery reads the pack voltage from the board's ADC over I2C and
// classifies it into a coarse charge level.
package battery

import (
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/charlie0129/i2cbatt/pkg/i2c"
)

// Fixed protocol parameters of the battery ADC.
const (
	Address        uint16 = 0x1B
	SampleRegister byte   = 0x00
	SampleLength   int    = 2
)

// Options configures a Monitor. The zero value uses the host I2C drivers on
// their default bus.
type Options struct {
	// Opener provides the device. Nil means i2c.NewHostOpener().
	Opener i2c.Opener
	// Bus selects the bus number. Nil means the opener's default bus.
	Bus *int
	// Logger receives the voltage of every sample. Nil means the logrus
	// standard logger.
	Logger logrus.FieldLogger
}

// Reading is the result of one sample.
type Reading struct {
	Raw     uint16      `json:"raw"`
	Voltage float64     `json:"voltage"`
	Level   ChargeLevel `json:"level"`
	Time    time.Time   `json:"time"`
}

// Monitor samples the battery ADC. It is not safe for concurrent use.
type Monitor struct {
	device i2c.Device
	logger logrus.FieldLogger
}

// New opens the battery ADC. Errors match ErrDeviceUnavailable.
func New(opts Options) (*Monitor, error) {
	opener := opts.Opener
	if opener == nil {
		opener = i2c.NewHostOpener()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	dev, err := opener.Open(Address, opts.Bus)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDeviceUnavailable, err)
	}

	return &Monitor{
		device: dev,
		logger: logger,
	}, nil
}

// Read takes one sample and classifies it. Device errors match
// ErrReadFailure. A voltage that falls in no band yields a Reading with
// Level Unknown and an error matching ErrUnclassifiedVoltage.
func (m *Monitor) Read() (Reading, error) {
	b, err := m.device.ReadBlock(SampleRegister, SampleLength)
	if err != nil {
		return Reading{}, fmt.Errorf("%w: %w", ErrReadFailure, err)
	}
	if len(b) < SampleLength {
		return Reading{}, fmt.Errorf("%w: got %d bytes, want %d", ErrReadFailure, len(b), SampleLength)
	}

	r := Reading{
		Raw:  RawFromBytes(b[0], b[1]),
		Time: time.Now(),
	}
	r.Voltage = RawToVoltage(r.Raw)

	m.logger.WithFields(logrus.Fields{
		"raw":     r.Raw,
		"voltage": r.Voltage,
	}).Info("battery voltage")

	r.Level = Classify(r.Voltage)
	if r.Level == Unknown {
		return r, fmt.Errorf("%w: %s V", ErrUnclassifiedVoltage, formatVoltage(r.Voltage))
	}

	return r, nil
}

// Update takes one sample and returns its charge level.
func (m *Monitor) Update() (ChargeLevel, error) {
	r, err := m.Read()
	if err != nil {
		return Unknown, err
	}
	return r.Level, nil
}

// Close releases the device.
func (m *Monitor) Close() error {
	return m.device.Close()
}

func formatVoltage(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.3f", v)
}
