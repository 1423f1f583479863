package lut

import (
	"math"
	"sort"

	"github.com/edp1096/toy-machine/pkg/errs"
	"github.com/edp1096/toy-machine/pkg/matrix"
)

type surface interface {
	eval(id, iq float64) [2]float64
}

// bilinear - piecewise bilinear patches on a complete rectilinear grid
type bilinear struct {
	ids []float64
	iqs []float64
	phi [][][2]float64 // [id index][iq index]
}

func newBilinear(samples []Sample, ids, iqs []float64) (*bilinear, error) {
	phi := make([][][2]float64, len(ids))
	seen := make([][]bool, len(ids))
	for i := range phi {
		phi[i] = make([][2]float64, len(iqs))
		seen[i] = make([]bool, len(iqs))
	}

	for _, s := range samples {
		i := sort.SearchFloat64s(ids, s.Id)
		j := sort.SearchFloat64s(iqs, s.Iq)
		if seen[i][j] {
			return nil, errs.Configf("duplicate sample at Id=%g Iq=%g", s.Id, s.Iq)
		}
		seen[i][j] = true
		phi[i][j] = [2]float64{s.Phid, s.Phiq}
	}

	for i := range seen {
		for j := range seen[i] {
			if !seen[i][j] {
				return nil, errs.Configf("incomplete grid: no sample at Id=%g Iq=%g", ids[i], iqs[j])
			}
		}
	}

	return &bilinear{ids: ids, iqs: iqs, phi: phi}, nil
}

// cell returns the lower corner index of the patch used for x.
// Points outside the axis use the edge patch.
func cell(axis []float64, x float64) int {
	i := sort.SearchFloat64s(axis, x) - 1
	if i < 0 {
		i = 0
	}
	if i > len(axis)-2 {
		i = len(axis) - 2
	}
	return i
}

func (b *bilinear) eval(id, iq float64) [2]float64 {
	i := cell(b.ids, id)
	j := cell(b.iqs, iq)

	t := (id - b.ids[i]) / (b.ids[i+1] - b.ids[i])
	u := (iq - b.iqs[j]) / (b.iqs[j+1] - b.iqs[j])

	var out [2]float64
	for k := range out {
		f00 := b.phi[i][j][k]
		f10 := b.phi[i+1][j][k]
		f01 := b.phi[i][j+1][k]
		f11 := b.phi[i+1][j+1][k]
		out[k] = (1-t)*(1-u)*f00 + t*(1-u)*f10 + (1-t)*u*f01 + t*u*f11
	}
	return out
}

// polySurface - least-squares bivariate polynomial of total degree n,
// evaluated on coordinates scaled to [-1, 1].
type polySurface struct {
	degree     int
	idLo, idHi float64
	iqLo, iqHi float64
	terms      [][2]int
	coef       [2][]float64
}

func polyTerms(degree int) [][2]int {
	var terms [][2]int
	for total := 0; total <= degree; total++ {
		for a := total; a >= 0; a-- {
			terms = append(terms, [2]int{a, total - a})
		}
	}
	return terms
}

func scale(x, lo, hi float64) float64 {
	return (2*x - (hi + lo)) / (hi - lo)
}

func (p *polySurface) basis(id, iq float64) []float64 {
	x := scale(id, p.idLo, p.idHi)
	y := scale(iq, p.iqLo, p.iqHi)

	row := make([]float64, len(p.terms))
	for k, tm := range p.terms {
		row[k] = math.Pow(x, float64(tm[0])) * math.Pow(y, float64(tm[1]))
	}
	return row
}

func newPolySurface(samples []Sample, ids, iqs []float64, degree int) (*polySurface, error) {
	if degree < 1 {
		return nil, errs.Configf("polyfit degree must be >= 1, got %d", degree)
	}
	if degree >= len(ids) || degree >= len(iqs) {
		return nil, errs.Configf("polyfit degree %d needs more than %d distinct values per axis (Id: %d, Iq: %d)",
			degree, degree, len(ids), len(iqs))
	}

	p := &polySurface{
		degree: degree,
		idLo:   ids[0],
		idHi:   ids[len(ids)-1],
		iqLo:   iqs[0],
		iqHi:   iqs[len(iqs)-1],
		terms:  polyTerms(degree),
	}
	if len(samples) < len(p.terms) {
		return nil, errs.Configf("polyfit degree %d needs %d samples, got %d", degree, len(p.terms), len(samples))
	}

	sys, err := matrix.NewNormalSystem(len(p.terms), 2)
	if err != nil {
		return nil, errs.Computef("polyfit: %v", err)
	}
	defer sys.Destroy()

	for _, s := range samples {
		sys.AddRow(p.basis(s.Id, s.Iq), []float64{s.Phid, s.Phiq}, 1)
	}

	sol, err := sys.Solve()
	if err != nil {
		return nil, errs.Computef("polyfit: %v", err)
	}
	for k := range p.coef {
		for _, c := range sol[k] {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				return nil, errs.Computef("polyfit: singular normal equations")
			}
		}
		p.coef[k] = sol[k]
	}

	return p, nil
}

func (p *polySurface) eval(id, iq float64) [2]float64 {
	row := p.basis(id, iq)

	var out [2]float64
	for k := range out {
		for t, c := range p.coef[k] {
			out[k] += c * row[t]
		}
	}
	return out
}

// minStep - smallest spacing of an ascending unique axis
func minStep(axis []float64) float64 {
	step := math.Inf(1)
	for i := 1; i < len(axis); i++ {
		step = math.Min(step, axis[i]-axis[i-1])
	}
	return step
}
