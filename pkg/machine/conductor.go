package machine

import (
	"fmt"
	"math"
)

type Conductor interface {
	GetType() string
	SurfaceActive() float64    // conducting cross-section of one conductor (m2)
	HeightEquivalent() float64 // radial height of one strand for the slot skin model (m)
	NbRadialStrands() int
	GetMaterial() Material
}

// CondType11 - rectangular strands
type CondType11 struct {
	Hwire    float64
	Wwire    float64
	NwppcRad int
	NwppcTan int
	WinsWire float64
	Cond     Material
}

func NewCondType11(hwire, wwire float64, nrad, ntan int, winsWire float64, mat Material) (*CondType11, error) {
	if hwire <= 0 || wwire <= 0 {
		return nil, fmt.Errorf("cond11: wire dimensions must be > 0 (h=%g, w=%g)", hwire, wwire)
	}
	if nrad < 1 || ntan < 1 {
		return nil, fmt.Errorf("cond11: strands per conductor must be >= 1 (rad=%d, tan=%d)", nrad, ntan)
	}
	if winsWire < 0 {
		return nil, fmt.Errorf("cond11: negative wire insulation %g", winsWire)
	}
	return &CondType11{Hwire: hwire, Wwire: wwire, NwppcRad: nrad, NwppcTan: ntan, WinsWire: winsWire, Cond: mat}, nil
}

func (c *CondType11) GetType() string { return "11" }

func (c *CondType11) SurfaceActive() float64 {
	return float64(c.NwppcRad*c.NwppcTan) * c.Hwire * c.Wwire
}

func (c *CondType11) HeightEquivalent() float64 { return c.Hwire }
func (c *CondType11) NbRadialStrands() int { return c.NwppcRad }
func (c *CondType11) GetMaterial() Material { return c.Cond }

// CondType12 - round strands in parallel
type CondType12 struct {
	Wwire    float64
	Nwppc    int
	WinsWire float64
	Cond     Material
}

func NewCondType12(wwire float64, nwppc int, winsWire float64, mat Material) (*CondType12, error) {
	if wwire <= 0 {
		return nil, fmt.Errorf("cond12: wire diameter must be > 0, got %g", wwire)
	}
	if nwppc < 1 {
		return nil, fmt.Errorf("cond12: strands per conductor must be >= 1, got %d", nwppc)
	}
	if winsWire < 0 {
		return nil, fmt.Errorf("cond12: negative wire insulation %g", winsWire)
	}
	return &CondType12{Wwire: wwire, Nwppc: nwppc, WinsWire: winsWire, Cond: mat}, nil
}

func (c *CondType12) GetType() string { return "12" }

func (c *CondType12) SurfaceActive() float64 {
	return float64(c.Nwppc) * math.Pi * c.Wwire * c.Wwire / 4
}

// Round wire replaced by the square of equal area
func (c *CondType12) HeightEquivalent() float64 { return c.Wwire * math.Sqrt(math.Pi) / 2 }
func (c *CondType12) NbRadialStrands() int { return int(math.Ceil(math.Sqrt(float64(c.Nwppc)))) }
func (c *CondType12) GetMaterial() Material { return c.Cond }

// CondType13 - round wires arranged in radial x tangential bundles
type CondType13 struct {
	Wwire    float64
	NwppcRad int
	NwppcTan int
	WinsWire float64
	WinsCond float64
	Kwoh     float64 // overhang factor
	Cond     Material
}

func NewCondType13(wwire float64, nrad, ntan int, winsWire, winsCond, kwoh float64, mat Material) (*CondType13, error) {
	if wwire <= 0 {
		return nil, fmt.Errorf("cond13: wire diameter must be > 0, got %g", wwire)
	}
	if nrad < 1 || ntan < 1 {
		return nil, fmt.Errorf("cond13: strands per conductor must be >= 1 (rad=%d, tan=%d)", nrad, ntan)
	}
	if winsWire < 0 || winsCond < 0 {
		return nil, fmt.Errorf("cond13: negative insulation (wire=%g, cond=%g)", winsWire, winsCond)
	}
	if kwoh < 0 {
		return nil, fmt.Errorf("cond13: negative overhang factor %g", kwoh)
	}
	return &CondType13{
		Wwire:    wwire,
		NwppcRad: nrad,
		NwppcTan: ntan,
		WinsWire: winsWire,
		WinsCond: winsCond,
		Kwoh:     kwoh,
		Cond:     mat,
	}, nil
}

func (c *CondType13) GetType() string { return "13" }

func (c *CondType13) SurfaceActive() float64 {
	return float64(c.NwppcRad*c.NwppcTan) * math.Pi * c.Wwire * c.Wwire / 4
}

func (c *CondType13) HeightEquivalent() float64 { return c.Wwire * math.Sqrt(math.Pi) / 2 }
func (c *CondType13) NbRadialStrands() int { return c.NwppcRad }
func (c *CondType13) GetMaterial() Material { return c.Cond }

// Hcond - conductor height including insulation
func (c *CondType13) Hcond() float64 {
	return float64(c.NwppcRad)*(c.Wwire+2*c.WinsWire) + 2*c.WinsCond
}

// Wcond - conductor width including insulation
func (c *CondType13) Wcond() float64 {
	return float64(c.NwppcTan)*(c.Wwire+2*c.WinsWire) + 2*c.WinsCond
}
