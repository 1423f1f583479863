// Package lut holds look-up tables of flux linkage sampled over the (Id, Iq)
// plane and answers interpolated flux and inductance queries.
package lut

import (
	"math"

	"github.com/edp1096/toy-machine/internal/consts"
	"github.com/edp1096/toy-machine/pkg/errs"
	"github.com/edp1096/toy-machine/pkg/util"
)

// Sample is one field solution of the table.
type Sample struct {
	Id   float64 `json:"id"`
	Iq   float64 `json:"iq"`
	Phid float64 `json:"phid"`
	Phiq float64 `json:"phiq"`
}

// ReferenceEEC is the circuit snapshot recorded when the table was computed.
// A nil R1 means the reference resistance was never set.
type ReferenceEEC struct {
	R1       *float64 `json:"r1,omitempty"`
	Tsta     float64  `json:"tsta"`
	Trot     float64  `json:"trot"`
	XkrSkinS float64  `json:"xkr_skin_s"`
	XkeSkinS float64  `json:"xke_skin_s"`
	XkrSkinR float64  `json:"xkr_skin_r"`
	XkeSkinR float64  `json:"xke_skin_r"`
}

func DefaultReference() ReferenceEEC {
	return ReferenceEEC{
		Tsta:     consts.TREF,
		Trot:     consts.TREF,
		XkrSkinS: 1,
		XkeSkinS: 1,
		XkrSkinR: 1,
		XkeSkinR: 1,
	}
}

func (r ReferenceEEC) Validate() error {
	factors := []struct {
		name string
		v    float64
	}{
		{"Xkr_skinS", r.XkrSkinS},
		{"Xke_skinS", r.XkeSkinS},
		{"Xkr_skinR", r.XkrSkinR},
		{"Xke_skinR", r.XkeSkinR},
	}
	for _, f := range factors {
		if !(f.v > 0) || math.IsInf(f.v, 0) {
			return errs.Configf("reference %s must be finite and > 0, got %g", f.name, f.v)
		}
	}
	if r.R1 != nil && !(*r.R1 >= 0) {
		return errs.Configf("reference R1 must be >= 0, got %g", *r.R1)
	}
	return nil
}

type LUTdq struct {
	Name    string
	ref     ReferenceEEC
	samples []Sample
	phiMag  [][2]float64
	ids     []float64
	iqs     []float64
	surf    surface
	opts    Options
}

// NewLUTdq validates the samples and builds the interpolation surface.
func NewLUTdq(name string, samples []Sample, phiMag [][2]float64, ref ReferenceEEC, opts Options) (*LUTdq, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	for _, s := range samples {
		if !finite(s.Id, s.Iq, s.Phid, s.Phiq) {
			return nil, errs.Configf("non-finite sample %+v", s)
		}
	}
	for k, p := range phiMag {
		if !finite(p[0], p[1]) {
			return nil, errs.Configf("non-finite open-circuit flux sample %d", k)
		}
	}

	idv := make([]float64, len(samples))
	iqv := make([]float64, len(samples))
	for k, s := range samples {
		idv[k] = s.Id
		iqv[k] = s.Iq
	}
	ids := util.Unique(idv)
	iqs := util.Unique(iqv)
	if len(ids) < 2 || len(iqs) < 2 {
		return nil, errs.Configf("table %s needs at least 2 distinct values along Id and Iq (got %d x %d)",
			name, len(ids), len(iqs))
	}

	l := &LUTdq{
		Name:    name,
		ref:     ref,
		samples: append([]Sample(nil), samples...),
		phiMag:  append([][2]float64(nil), phiMag...),
		ids:     ids,
		iqs:     iqs,
		opts:    opts,
	}

	var err error
	switch opts.Interpolation {
	case Bilinear:
		l.surf, err = newBilinear(samples, ids, iqs)
	case Polyfit:
		l.surf, err = newPolySurface(samples, ids, iqs, opts.Degree)
	default:
		err = errs.Configf("unsupported interpolation %s", opts.Interpolation)
	}
	if err != nil {
		return nil, errs.Step("lut "+name, err)
	}

	return l, nil
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (l *LUTdq) GetEEC() ReferenceEEC {
	ref := l.ref
	if l.ref.R1 != nil {
		r1 := *l.ref.R1
		ref.R1 = &r1
	}
	return ref
}

// GetPhiDqhMagMean returns the mean open-circuit (magnet) flux linkage.
// Without stored open-circuit samples the surface is read at Id = Iq = 0.
func (l *LUTdq) GetPhiDqhMagMean() ([2]float64, error) {
	if len(l.phiMag) == 0 {
		phi, err := l.InterpPhiDqh(0, 0)
		if err != nil {
			return [2]float64{}, errs.Step("get_Phi_dqh_mag_mean", err)
		}
		return phi, nil
	}

	var sum [2]float64
	for _, p := range l.phiMag {
		sum[0] += p[0]
		sum[1] += p[1]
	}
	n := float64(len(l.phiMag))
	return [2]float64{sum[0] / n, sum[1] / n}, nil
}

// InterpPhiDqh returns (Phid, Phiq) at (id, iq).
func (l *LUTdq) InterpPhiDqh(id, iq float64) ([2]float64, error) {
	id, iq, err := l.project(id, iq)
	if err != nil {
		return [2]float64{}, errs.Step("interp_Phi_dqh", err)
	}
	return l.surf.eval(id, iq), nil
}

func (l *LUTdq) project(id, iq float64) (float64, float64, error) {
	if !finite(id, iq) {
		return 0, 0, errs.Domainf("non-finite query Id=%g Iq=%g", id, iq)
	}

	idLo, idHi, iqLo, iqHi := l.Bounds()
	inside := id >= idLo && id <= idHi && iq >= iqLo && iq <= iqHi
	if inside {
		return id, iq, nil
	}

	switch l.opts.Extrapolation {
	case Clamp:
		return math.Min(math.Max(id, idLo), idHi), math.Min(math.Max(iq, iqLo), iqHi), nil
	case Linear:
		return id, iq, nil
	default:
		return 0, 0, errs.Domainf("query Id=%g Iq=%g outside Id[%g, %g] Iq[%g, %g]", id, iq, idLo, idHi, iqLo, iqHi)
	}
}

// GetLDqh returns (Ld, Lq) at (id, iq) for the flux phi already evaluated at
// that point. The secant (phi - phi_mag)/I is used; along an axis where the
// current is zero the incremental inductance dphi/dI replaces it.
func (l *LUTdq) GetLDqh(id, iq float64, phi [2]float64) ([2]float64, error) {
	mag, err := l.GetPhiDqhMagMean()
	if err != nil {
		return [2]float64{}, errs.Step("get_L_dqh", err)
	}

	var L [2]float64
	if math.Abs(id) > consts.EPSCUR {
		L[0] = (phi[0] - mag[0]) / id
	} else {
		L[0], err = l.slope(0, id, iq)
		if err != nil {
			return [2]float64{}, errs.Step("get_L_dqh", err)
		}
	}
	if math.Abs(iq) > consts.EPSCUR {
		L[1] = (phi[1] - mag[1]) / iq
	} else {
		L[1], err = l.slope(1, id, iq)
		if err != nil {
			return [2]float64{}, errs.Step("get_L_dqh", err)
		}
	}

	return L, nil
}

// slope - central difference of flux component k along its own current axis,
// kept inside the sampled box
func (l *LUTdq) slope(k int, id, iq float64) (float64, error) {
	axis := l.ids
	x := id
	if k == 1 {
		axis = l.iqs
		x = iq
	}

	x = math.Min(math.Max(x, axis[0]), axis[len(axis)-1])
	h := minStep(axis) / 2
	lo := math.Max(x-h, axis[0])
	hi := math.Min(x+h, axis[len(axis)-1])
	if !(hi > lo) {
		return 0, errs.Computef("zero differencing interval at %g", x)
	}

	var p0, p1 [2]float64
	var err error
	if k == 0 {
		p0, err = l.InterpPhiDqh(lo, iq)
		if err == nil {
			p1, err = l.InterpPhiDqh(hi, iq)
		}
	} else {
		p0, err = l.InterpPhiDqh(id, lo)
		if err == nil {
			p1, err = l.InterpPhiDqh(id, hi)
		}
	}
	if err != nil {
		return 0, err
	}

	return (p1[k] - p0[k]) / (hi - lo), nil
}

func (l *LUTdq) Samples() []Sample {
	return append([]Sample(nil), l.samples...)
}

func (l *LUTdq) PhiMag() [][2]float64 {
	return append([][2]float64(nil), l.phiMag...)
}

func (l *LUTdq) Options() Options {
	return l.opts
}

// Bounds returns the sampled box as (idLo, idHi, iqLo, iqHi).
func (l *LUTdq) Bounds() (float64, float64, float64, float64) {
	return l.ids[0], l.ids[len(l.ids)-1], l.iqs[0], l.iqs[len(l.iqs)-1]
}
