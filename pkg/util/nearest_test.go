package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNearestIndex(t *testing.T) {
	tests := []struct {
		name string
		axis []float64
		x    float64
		want int
	}{
		{"between bins", []float64{0, 10, 20}, 14, 1},
		{"exact hit", []float64{0, 10, 20}, 20, 2},
		{"tie goes low", []float64{0, 10}, 5, 0},
		{"tie goes low mid", []float64{0, 10, 20}, 15, 1},
		{"below axis", []float64{0, 10, 20}, -3, 0},
		{"above axis", []float64{0, 10, 20}, 100, 2},
		{"repeated value", []float64{0, 10, 10, 20}, 11, 1},
		{"repeated tail", []float64{0, 10, 10}, 50, 1},
		{"single bin", []float64{50}, 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NearestIndex(tt.axis, tt.x))
		})
	}
}

func TestNearestIndexEmpty(t *testing.T) {
	assert.Equal(t, -1, NearestIndex(nil, 1))
}

func TestCheckAscending(t *testing.T) {
	assert.NoError(t, CheckAscending([]float64{0, 0, 1}))
	assert.Error(t, CheckAscending(nil))
	assert.Error(t, CheckAscending([]float64{1, 0}))
}

func TestLinspaceAndUnique(t *testing.T) {
	assert.Equal(t, []float64{0, 250, 500, 750, 1000}, Linspace(0, 1000, 5))
	assert.Equal(t, []float64{3}, Linspace(3, 9, 1))
	assert.Equal(t, []float64{-1, 0, 2}, Unique([]float64{2, 0, -1, 0, 2}))
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "12.5 kW", FormatPower(12500))
	assert.Equal(t, "1.250 Ohm", FormatValueFactor(1.25, "Ohm"))
	assert.Equal(t, "32.000 mOhm", FormatValueFactor(0.032, "Ohm"))
	assert.Equal(t, "50 Hz", FormatFrequency(50))
	assert.Equal(t, "2.5 kHz", FormatFrequency(2500))
	assert.Equal(t, "DC", FormatFrequency(0))
	assert.Equal(t, "-", FormatCoeff(0))
	assert.Equal(t, "1.2340e+02", FormatCoeff(123.4))
}
