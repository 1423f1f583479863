// Package eec identifies the equivalent electrical circuit parameters of a
// synchronous machine from a flux look-up table.
package eec

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/edp1096/toy-machine/internal/consts"
	"github.com/edp1096/toy-machine/pkg/errs"
	"github.com/edp1096/toy-machine/pkg/lut"
	"github.com/edp1096/toy-machine/pkg/machine"
)

// LUT is what the engine reads from a reference table.
type LUT interface {
	GetEEC() lut.ReferenceEEC
	GetPhiDqhMagMean() ([2]float64, error)
	InterpPhiDqh(id, iq float64) ([2]float64, error)
	GetLDqh(id, iq float64, phi [2]float64) ([2]float64, error)
}

type Params struct {
	R1       float64 `json:"r1"`
	Ld       float64 `json:"ld"`
	Lq       float64 `json:"lq"`
	Phid     float64 `json:"phid"`
	Phiq     float64 `json:"phiq"`
	XkrSkinS float64 `json:"xkr_skin_s"`
	XkeSkinS float64 `json:"xke_skin_s"`
	XkrSkinR float64 `json:"xkr_skin_r"`
	XkeSkinR float64 `json:"xke_skin_r"`
}

// EEC is not safe for concurrent use.
type EEC struct {
	Machine    *machine.Machine
	OP         *OperatingPoint
	Tsta       float64 // stator temperature (degC)
	Trot       float64 // rotor temperature (degC)
	SkinEffect bool
	Params
}

func New(m *machine.Machine, op *OperatingPoint, tsta, trot float64, skinEffect bool) *EEC {
	return &EEC{
		Machine:    m,
		OP:         op,
		Tsta:       tsta,
		Trot:       trot,
		SkinEffect: skinEffect,
		Params: Params{
			XkrSkinS: 1,
			XkeSkinS: 1,
			XkrSkinR: 1,
			XkeSkinR: 1,
		},
	}
}

// SetOP replaces the operating point used by the next update.
func (e *EEC) SetOP(op OperatingPoint) {
	e.OP = &op
}

// statorMaterial - winding conductor material, copper when unknown
func (e *EEC) statorMaterial() machine.Material {
	if e.Machine != nil && e.Machine.Stator.Winding != nil {
		return e.Machine.Stator.Winding.Conductor.GetMaterial()
	}
	return machine.Copper()
}

// CompR1 returns the stator phase resistance at Tsta including the skin factor
// xkrS. With r1Ref == nil the winding geometry is used, otherwise r1Ref (a DC
// value at tref) is scaled to Tsta.
func (e *EEC) CompR1(r1Ref *float64, tref, xkrS float64) (float64, error) {
	if r1Ref == nil {
		if e.Machine == nil {
			return 0, errs.Configf("no reference R1 and no machine to compute it from")
		}
		rdc, err := e.Machine.StatorResistance(e.Tsta)
		if err != nil {
			return 0, errs.Configf("%v", err)
		}
		return rdc * xkrS, nil
	}

	return *r1Ref * e.statorMaterial().TempFactor(e.Tsta, tref) * xkrS, nil
}

// UpdateFromRef refreshes R1, Ld, Lq, Phid and Phiq from the reference table.
// Nothing is modified when any step fails.
func (e *EEC) UpdateFromRef(ref LUT) error {
	if ref == nil {
		return fmt.Errorf("update from reference: %w", errs.Configf("nil look-up table"))
	}

	next := e.Params
	eecRef := ref.GetEEC()

	if e.SkinEffect {
		xkrS, xkeS, xkrR, xkeR, err := e.CompSkinEffect()
		if err != nil {
			return fmt.Errorf("update from reference: %w", errs.Step("skin_effect", err))
		}
		next.XkrSkinS, next.XkeSkinS = xkrS, xkeS
		next.XkrSkinR, next.XkeSkinR = xkrR, xkeR
	}

	// R1 (DC value at reference temperature) rescaled with own temperature and skin factor
	var r1 float64
	var err error
	if eecRef.R1 == nil {
		r1, err = e.CompR1(nil, consts.TREF, next.XkrSkinS)
	} else if !(eecRef.XkrSkinS > 0) {
		err = errs.Configf("reference Xkr_skinS must be > 0, got %g", eecRef.XkrSkinS)
	} else {
		r1dc := *eecRef.R1 / eecRef.XkrSkinS
		r1, err = e.CompR1(&r1dc, eecRef.Tsta, next.XkrSkinS)
	}
	if err != nil {
		return fmt.Errorf("update from reference: %w", errs.Step("resistance", err))
	}
	next.R1 = r1

	mag, err := ref.GetPhiDqhMagMean()
	if err != nil {
		return fmt.Errorf("update from reference: %w", errs.Step("flux_mag_mean", err))
	}
	next.Phid, next.Phiq = mag[0], mag[1]

	if e.OP != nil {
		id, iq := e.OP.IdIq()

		phi, err := ref.InterpPhiDqh(id, iq)
		if err != nil {
			return fmt.Errorf("update from reference: %w", errs.Step("flux", err))
		}
		next.Phid, next.Phiq = phi[0], phi[1]

		L, err := ref.GetLDqh(id, iq, phi)
		if err != nil {
			return fmt.Errorf("update from reference: %w", errs.Step("inductance", err))
		}
		next.Ld, next.Lq = L[0], L[1]
	} else {
		log.Warn("no operating point, flux left at open-circuit mean and inductances unchanged")
	}

	e.Params = next

	log.WithFields(log.Fields{
		"R1":   e.R1,
		"Ld":   e.Ld,
		"Lq":   e.Lq,
		"Phid": e.Phid,
		"Phiq": e.Phiq,
	}).Debug("eec updated from reference")

	return nil
}
