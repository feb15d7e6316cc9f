package battery

import (
	"fmt"
)

// ChargeLevel is a coarse battery charge label.
type ChargeLevel int

// Representation of ChargeLevel. Unknown is the zero value and is never the
// result of classifying a finite voltage.
const (
	Unknown ChargeLevel = iota
	BatteryEmpty
	BatteryLow
	BatteryMedium
	BatteryHigh
)

var levelNames = map[ChargeLevel]string{
	Unknown:       "Battery_Unknown",
	BatteryEmpty:  "Battery_Empty",
	BatteryLow:    "Battery_Low",
	BatteryMedium: "Battery_Medium",
	BatteryHigh:   "Battery_High",
}

func (l ChargeLevel) String() string {
	if s, ok := levelNames[l]; ok {
		return s
	}
	return fmt.Sprintf("ChargeLevel(%d)", int(l))
}

// ParseChargeLevel parses the name returned by String.
func ParseChargeLevel(s string) (ChargeLevel, error) {
	for l, name := range levelNames {
		if name == s {
			return l, nil
		}
	}
	return Unknown, fmt.Errorf("unknown charge level %q", s)
}

func (l ChargeLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *ChargeLevel) UnmarshalText(b []byte) error {
	v, err := ParseChargeLevel(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}
