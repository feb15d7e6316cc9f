package battery

// Fixed conversion constants of the board's 10-bit ADC.
const (
	FullScaleVoltage = 13.3
	FullScaleCode    = 1023.0
)

// Charging ladder thresholds, lower bounds checked from the top.
const (
	chargingHigh   = 12.0
	chargingMedium = 11.1
	chargingLow    = 10.05
)

// Discharging ladder thresholds, upper bounds checked from the bottom.
const (
	dischargingEmpty  = 9.9
	dischargingLow    = 10.95
	dischargingMedium = 11.85
)

// RawFromBytes combines the high and low bytes of a sample.
func RawFromBytes(high, low byte) uint16 {
	return uint16(high)<<8 + uint16(low)
}

// RawToVoltage converts an ADC code to volts.
func RawToVoltage(raw uint16) float64 {
	return float64(raw) * FullScaleVoltage / FullScaleCode
}

// Classify maps a voltage to a charge level. The charging ladder is always
// evaluated first and the discharging ladder only when it did not match, so
// the overlapping bands resolve in favour of the charging ladder.
//
// Unknown is returned only when neither ladder matches, which for finite
// voltages cannot happen.
func Classify(voltage float64) ChargeLevel {
	switch {
	case voltage >= chargingHigh:
		return BatteryHigh
	case voltage >= chargingMedium:
		return BatteryMedium
	case voltage >= chargingLow:
		return BatteryLow
	}

	switch {
	case voltage <= dischargingEmpty:
		return BatteryEmpty
	case voltage <= dischargingLow:
		return BatteryLow
	case voltage <= dischargingMedium:
		return BatteryMedium
	}

	return Unknown
}
