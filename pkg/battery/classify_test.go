package battery

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		voltage float64
		want    ChargeLevel
	}{
		{name: "full scale", voltage: 13.3, want: BatteryHigh},
		{name: "high boundary", voltage: 12.0, want: BatteryHigh},
		{name: "just below high", voltage: 11.99, want: BatteryMedium},
		{name: "medium boundary", voltage: 11.1, want: BatteryMedium},
		{name: "inside overlap of both ladders", voltage: 11.0, want: BatteryLow},
		{name: "discharging low upper bound is charging low", voltage: 10.95, want: BatteryLow},
		{name: "low boundary", voltage: 10.05, want: BatteryLow},
		{name: "below charging ladder", voltage: 10.0, want: BatteryLow},
		{name: "just above empty", voltage: 9.91, want: BatteryLow},
		{name: "empty boundary", voltage: 9.9, want: BatteryEmpty},
		{name: "zero", voltage: 0, want: BatteryEmpty},
		{name: "negative", voltage: -1, want: BatteryEmpty},
		{name: "positive infinity", voltage: math.Inf(1), want: BatteryHigh},
		{name: "negative infinity", voltage: math.Inf(-1), want: BatteryEmpty},
		{name: "not a number", voltage: math.NaN(), want: Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.voltage))
		})
	}
}

func TestClassifyAllCodes(t *testing.T) {
	for raw := 0; raw <= math.MaxUint16; raw++ {
		v := RawToVoltage(uint16(raw))
		got := Classify(v)

		var want ChargeLevel
		switch {
		case v >= 12.0:
			want = BatteryHigh
		case v >= 11.1:
			want = BatteryMedium
		case v >= 10.05:
			want = BatteryLow
		case v <= 9.9:
			want = BatteryEmpty
		default:
			want = BatteryLow
		}
		if got != want {
			t.Fatalf("Classify(%v) for raw %d = %v, want %v", v, raw, got, want)
		}
	}
}

func TestRawToVoltage(t *testing.T) {
	tests := []struct {
		name      string
		high, low byte
		wantRaw   uint16
		wantLevel ChargeLevel
	}{
		{name: "1000", high: 0x03, low: 0xE8, wantRaw: 1000, wantLevel: BatteryHigh},
		{name: "first high code", high: 0x03, low: 0x9C, wantRaw: 924, wantLevel: BatteryHigh},
		{name: "last medium code", high: 0x03, low: 0x9B, wantRaw: 923, wantLevel: BatteryMedium},
		{name: "first medium code", high: 0x03, low: 0x56, wantRaw: 854, wantLevel: BatteryMedium},
		{name: "last low code", high: 0x03, low: 0x55, wantRaw: 853, wantLevel: BatteryLow},
		{name: "first empty code", high: 0x02, low: 0xF9, wantRaw: 761, wantLevel: BatteryEmpty},
		{name: "last low code above empty", high: 0x02, low: 0xFA, wantRaw: 762, wantLevel: BatteryLow},
		{name: "zero", high: 0x00, low: 0x00, wantRaw: 0, wantLevel: BatteryEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := RawFromBytes(tt.high, tt.low)
			assert.Equal(t, tt.wantRaw, raw)
			assert.Equal(t, tt.wantLevel, Classify(RawToVoltage(raw)))
		})
	}

	assert.InDelta(t, 13.001, RawToVoltage(1000), 0.001)
	assert.InDelta(t, 13.3, RawToVoltage(1023), 1e-9)
}

func TestChargeLevelString(t *testing.T) {
	assert.Equal(t, "Battery_High", BatteryHigh.String())
	assert.Equal(t, "Battery_Medium", BatteryMedium.String())
	assert.Equal(t, "Battery_Low", BatteryLow.String())
	assert.Equal(t, "Battery_Empty", BatteryEmpty.String())
	assert.Equal(t, "Battery_Unknown", Unknown.String())
	assert.Equal(t, "ChargeLevel(42)", ChargeLevel(42).String())

	l, err := ParseChargeLevel("Battery_Medium")
	assert.NoError(t, err)
	assert.Equal(t, BatteryMedium, l)

	_, err = ParseChargeLevel("medium")
	assert.Error(t, err)
}
