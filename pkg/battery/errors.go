package battery

import "errors"

var (
	// ErrDeviceUnavailable is returned by New when the ADC cannot be opened.
	ErrDeviceUnavailable = errors.New("battery monitor device unavailable")

	// ErrReadFailure is returned when sampling the ADC fails.
	ErrReadFailure = errors.New("battery voltage read failed")

	// ErrUnclassifiedVoltage is returned when a voltage falls in no band.
	ErrUnclassifiedVoltage = errors.New("voltage matches no charge level")
)
