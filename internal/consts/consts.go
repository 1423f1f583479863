package consts

import "math"

const (
	KELVIN = 273.15         // Kelvin temperature (K)
	MU0    = 4e-7 * math.Pi // Vacuum permeability (H/m)
	TREF   = 20.0           // Reference temperature of material data (degC)
	RHOCU  = 1.73e-8        // Copper resistivity at TREF (Ohm.m)
	ALPHCU = 3.93e-3        // Copper temperature coefficient (1/K)
	EPSCUR = 1e-9           // Current magnitude treated as zero (A)
)
