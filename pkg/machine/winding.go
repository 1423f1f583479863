package machine

import (
	"fmt"
	"math"
)

type Winding struct {
	Qs        int     // phases
	Zs        int     // slots
	Nlayer    int     // layers per slot
	Ntcoil    int     // turns per coil
	Npcpp     int     // parallel circuits per phase
	CoilPitch int     // coil span in slots
	Lewout    float64 // straight end-winding extension (m)
	Rwind     float64 // mean winding radius (m)
	Conductor Conductor
}

func NewWinding(qs, zs, nlayer, ntcoil, npcpp, coilPitch int, lewout, rwind float64, cond Conductor) (*Winding, error) {
	if qs < 1 {
		return nil, fmt.Errorf("winding: qs must be >= 1, got %d", qs)
	}
	if zs < 1 {
		return nil, fmt.Errorf("winding: zs must be >= 1, got %d", zs)
	}
	if nlayer < 1 || nlayer > 2 {
		return nil, fmt.Errorf("winding: nlayer must be 1 or 2, got %d", nlayer)
	}
	if ntcoil < 1 {
		return nil, fmt.Errorf("winding: ntcoil must be >= 1, got %d", ntcoil)
	}
	if npcpp < 1 {
		return nil, fmt.Errorf("winding: npcpp must be >= 1, got %d", npcpp)
	}
	if coilPitch < 0 || coilPitch > 1000 {
		return nil, fmt.Errorf("winding: coil pitch must be in [0, 1000], got %d", coilPitch)
	}
	if lewout < 0 || rwind < 0 {
		return nil, fmt.Errorf("winding: negative length (lewout=%g, rwind=%g)", lewout, rwind)
	}
	if cond == nil {
		return nil, fmt.Errorf("winding: conductor is required")
	}

	return &Winding{
		Qs:        qs,
		Zs:        zs,
		Nlayer:    nlayer,
		Ntcoil:    ntcoil,
		Npcpp:     npcpp,
		CoilPitch: coilPitch,
		Lewout:    lewout,
		Rwind:     rwind,
		Conductor: cond,
	}, nil
}

// Ntspc - turns in series per phase
func (w *Winding) Ntspc() float64 {
	return float64(w.Zs*w.Nlayer*w.Ntcoil) / float64(2*w.Qs*w.Npcpp)
}

// EndWindingLength - one side: straight extensions plus a half circle over the coil span
func (w *Winding) EndWindingLength() float64 {
	span := float64(w.CoilPitch) * 2 * math.Pi * w.Rwind / float64(w.Zs)
	return 2*w.Lewout + math.Pi*span/2
}

func (w *Winding) TurnLength(lfe float64) float64 {
	return 2*lfe + 2*w.EndWindingLength()
}

// ResistanceDC - phase resistance at temp (degC)
func (w *Winding) ResistanceDC(temp, lfe float64) float64 {
	rho := w.Conductor.GetMaterial().Resistivity(temp)
	lwire := w.Ntspc() * w.TurnLength(lfe)
	return rho * lwire / (float64(w.Npcpp) * w.Conductor.SurfaceActive())
}
