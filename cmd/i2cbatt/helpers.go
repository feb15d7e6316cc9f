package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"

	"github.com/charlie0129/i2cbatt/pkg/battery"
)

func parseIntArg(args []string, valueName string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("invalid number of arguments")
	}

	value, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", valueName, err)
	}

	return value, nil
}

// levelText colors a charge level by urgency.
func levelText(l battery.ChargeLevel) string {
	switch l {
	case battery.BatteryHigh:
		return color.New(color.Bold, color.FgGreen).Sprint(l)
	case battery.BatteryMedium:
		return color.New(color.Bold, color.FgYellow).Sprint(l)
	case battery.BatteryLow:
		return color.New(color.Bold, color.FgRed).Sprint(l)
	case battery.BatteryEmpty:
		return color.New(color.Bold, color.FgHiRed, color.BlinkSlow).Sprint(l)
	default:
		return bold("%s", l)
	}
}

func bool2Text(b bool) string {
	if b {
		return color.New(color.Bold, color.FgGreen).Sprint("✔")
	}
	return color.New(color.Bold, color.FgRed).Sprint("✘")
}

func bold(format string, a ...interface{}) string {
	return color.New(color.Bold).Sprintf(format, a...)
}

func printReading(w io.Writer, r *battery.Reading) {
	fmt.Fprintf(w, "  Voltage: %s\n", bold("%.2f V", r.Voltage))
	fmt.Fprintf(w, "  Level: %s\n", levelText(r.Level))
	fmt.Fprintf(w, "  Raw ADC code: %d\n", r.Raw)
	fmt.Fprintf(w, "  Sampled at: %s\n", r.Time.Local().Format("2006-01-02 15:04:05"))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
