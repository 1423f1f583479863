package util

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

func FormatValueFactor(value float64, unit string) string {
	absValue := math.Abs(value)
	switch {
	case absValue >= 1e3:
		return FormatSI(value, unit)
	case absValue >= 1:
		return fmt.Sprintf("%.3f %s", value, unit)
	case absValue >= 1e-3:
		return fmt.Sprintf("%.3f m%s", value*1e3, unit)
	case absValue >= 1e-6:
		return fmt.Sprintf("%.3f u%s", value*1e6, unit)
	case absValue >= 1e-9:
		return fmt.Sprintf("%.3f n%s", value*1e9, unit)
	case value == 0:
		return fmt.Sprintf("%.3f %s", value, unit)
	default:
		return fmt.Sprintf("%.3e %s", value, unit)
	}
}

// FormatSI - 12500 W -> "12.5 kW"
func FormatSI(value float64, unit string) string {
	return humanize.SIWithDigits(value, 3, unit)
}

// FormatFrequency labels a spectrum bin, the 0 Hz bin is DC.
func FormatFrequency(freq float64) string {
	if freq == 0 {
		return "DC"
	}
	return FormatSI(freq, "Hz")
}

// FormatCoeff prints a loss coefficient term, unused terms as "-".
func FormatCoeff(value float64) string {
	if value == 0 {
		return "-"
	}
	return fmt.Sprintf("%.4e", value)
}

func FormatPower(watts float64) string {
	return FormatSI(watts, "W")
}
