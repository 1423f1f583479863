package eec

import (
	"math"

	"github.com/edp1096/toy-machine/internal/consts"
	"github.com/edp1096/toy-machine/pkg/errs"
)

// SkinFactors returns the resistance and inductance factors of zt conductor
// layers of height h stacked in a slot, at frequency f (Dowell slot model).
func SkinFactors(h float64, zt int, f, sigma, mur float64) (kr, kx float64) {
	if zt < 1 {
		zt = 1
	}
	xi := h * math.Sqrt(math.Pi*f*consts.MU0*mur*sigma)
	if !(xi > 1e-3) {
		return 1, 1
	}

	var phi, psi, phiL, psiL float64
	if xi > 20 {
		phi = xi
		psi = 2 * xi
		phiL = 3 / (2 * xi)
		psiL = 1 / xi
	} else {
		s2, c2 := math.Sinh(2*xi), math.Cosh(2*xi)
		sn2, cs2 := math.Sin(2*xi), math.Cos(2*xi)
		s1, c1 := math.Sinh(xi), math.Cosh(xi)
		sn1, cs1 := math.Sin(xi), math.Cos(xi)

		phi = xi * (s2 + sn2) / (c2 - cs2)
		psi = 2 * xi * (s1 - sn1) / (c1 + cs1)
		phiL = 3 / (2 * xi) * (s2 - sn2) / (c2 - cs2)
		psiL = 1 / xi * (s1 + sn1) / (c1 + cs1)
	}

	z2 := float64(zt * zt)
	kr = phi + (z2-1)/3*psi
	kx = (phiL + (z2-1)*psiL) / z2
	return kr, kx
}

// CompSkinEffect computes the live skin-effect factors of the stator winding
// at the engine's operating point and stator temperature. Rotors without
// windings keep unit factors.
func (e *EEC) CompSkinEffect() (xkrS, xkeS, xkrR, xkeR float64, err error) {
	if e.Machine == nil || e.Machine.Stator.Winding == nil {
		return 0, 0, 0, 0, errs.Configf("skin effect needs a machine with a stator winding")
	}

	felec := 0.0
	if e.OP != nil {
		felec = e.Machine.Felec(e.OP.N0())
	}

	w := e.Machine.Stator.Winding
	cond := w.Conductor
	mat := cond.GetMaterial()
	zt := w.Nlayer * w.Ntcoil * cond.NbRadialStrands()

	xkrS, xkeS = SkinFactors(cond.HeightEquivalent(), zt, felec, mat.Conductivity(e.Tsta), mat.Mur)
	if math.IsNaN(xkrS) || math.IsNaN(xkeS) {
		return 0, 0, 0, 0, errs.Computef("skin effect factors not finite at %g Hz", felec)
	}
	return xkrS, xkeS, 1, 1, nil
}
