package loss

import (
	"math"

	"github.com/edp1096/toy-machine/pkg/errs"
)

// Spectrum - field amplitude per frequency sample and region element
type Spectrum struct {
	Freqs  []float64
	Values [][]float64
}

// FieldSolution holds the solver output consumed by the built-in models:
// flux density B (T) and current density J (A/m2) spectra per region.
type FieldSolution struct {
	B map[string]*Spectrum
	J map[string]*Spectrum
}

func NewFieldSolution() *FieldSolution {
	return &FieldSolution{
		B: make(map[string]*Spectrum),
		J: make(map[string]*Spectrum),
	}
}

func addSample(specs map[string]*Spectrum, region string, f float64, values []float64) error {
	s, ok := specs[region]
	if !ok {
		s = &Spectrum{}
		specs[region] = s
	}
	if len(s.Values) > 0 && len(values) != len(s.Values[0]) {
		return errs.Configf("region %q: sample at %g Hz has %d values, previous samples have %d",
			region, f, len(values), len(s.Values[0]))
	}
	s.Freqs = append(s.Freqs, f)
	s.Values = append(s.Values, append([]float64(nil), values...))
	return nil
}

func (fs *FieldSolution) AddB(region string, f float64, values []float64) error {
	return addSample(fs.B, region, f, values)
}

func (fs *FieldSolution) AddJ(region string, f float64, values []float64) error {
	return addSample(fs.J, region, f, values)
}

type MagnetCoeffs struct {
	Sigma float64 `json:"sigma"` // magnet conductivity (S/m)
	Width float64 `json:"width"` // segment width across the eddy path (m)
}

// SpectrumModels turns field spectra into loss densities:
//
//	core       p = Ch f B^2 + Ce f^2 B^2
//	proximity  core expression with Ch = 0, Ce = Cp on the winding
//	magnet     p = pi^2 sigma w^2 f^2 B^2 / 6
//	joule      p = rho J^2 / 2
type SpectrumModels struct {
	Field   *FieldSolution
	Core    map[string]CoreCoeffs
	Cp      float64
	Magnet  MagnetCoeffs
	Rho     float64              // winding resistivity at working temperature (Ohm.m)
	Felec   float64              // fundamental electrical frequency (Hz)
	Volumes map[string][]float64 // element volumes per region (m3)
}

func (s *SpectrumModels) fluxDensity(region string) *Spectrum {
	if s.Field == nil {
		return nil
	}
	return s.Field.B[region]
}

func (s *SpectrumModels) currentDensity(region string) *Spectrum {
	if s.Field == nil {
		return nil
	}
	return s.Field.J[region]
}

func (s *SpectrumModels) CoreDensity(region string, coeffs *CoeffDict) (Density, error) {
	var cc CoreCoeffs
	if region == RegionStatorWinding {
		cc = CoreCoeffs{Ch: 0, Ce: s.Cp}
	} else {
		var ok bool
		cc, ok = s.Core[region]
		if !ok {
			return Density{}, errs.Configf("no core loss coefficients for %q", region)
		}
	}

	spec := s.fluxDensity(region)
	if spec == nil {
		return Density{}, nil
	}
	if err := checkSpectrum(region, spec); err != nil {
		return Density{}, err
	}

	d := evalDensity(spec, func(f, b float64) float64 {
		return cc.Ch*f*b*b + cc.Ce*f*f*b*b
	})

	err := s.fitCoeff(region, spec, coeffs, func(r, b float64) (float64, float64, float64) {
		return cc.Ch * r * b * b, cc.Ce * r * r * b * b, 0
	})
	return d, err
}

func (s *SpectrumModels) MagnetDensity(region string, coeffs *CoeffDict) (Density, error) {
	spec := s.fluxDensity(region)
	if spec == nil {
		return Density{}, nil
	}
	if !(s.Magnet.Sigma > 0) || !(s.Magnet.Width > 0) {
		return Density{}, errs.Configf("magnet model needs sigma > 0 and width > 0")
	}
	if err := checkSpectrum(region, spec); err != nil {
		return Density{}, err
	}

	k := math.Pi * math.Pi * s.Magnet.Sigma * s.Magnet.Width * s.Magnet.Width / 6
	d := evalDensity(spec, func(f, b float64) float64 {
		return k * f * f * b * b
	})

	err := s.fitCoeff(region, spec, coeffs, func(r, b float64) (float64, float64, float64) {
		return 0, k * r * r * b * b, 0
	})
	return d, err
}

func (s *SpectrumModels) JouleDensity(region string) (Density, error) {
	spec := s.currentDensity(region)
	if spec == nil {
		return Density{}, nil
	}
	if !(s.Rho > 0) {
		return Density{}, errs.Configf("joule model needs a winding resistivity > 0")
	}
	if err := checkSpectrum(region, spec); err != nil {
		return Density{}, err
	}

	return evalDensity(spec, func(_, j float64) float64 {
		return s.Rho * j * j / 2
	}), nil
}

// checkSpectrum requires one frequency per spectrum row.
func checkSpectrum(region string, spec *Spectrum) error {
	if len(spec.Values) != len(spec.Freqs) {
		return errs.Computef("region %q: %d spectrum rows for %d frequencies", region, len(spec.Values), len(spec.Freqs))
	}
	return nil
}

func evalDensity(spec *Spectrum, p func(f, x float64) float64) Density {
	d := Density{
		Freqs:  append([]float64{}, spec.Freqs...),
		Values: make([][]float64, len(spec.Values)),
	}
	for m, row := range spec.Values {
		out := make([]float64, len(row))
		for k, x := range row {
			out[k] = p(spec.Freqs[m], x)
		}
		d.Values[m] = out
	}
	return d
}

// fitCoeff integrates the density over the region volume and records it as
// frequency-polynomial terms normalised by Felec. term returns the (f^1, f^2,
// f^0) contributions per unit volume for frequency ratio r = f/Felec.
func (s *SpectrumModels) fitCoeff(region string, spec *Spectrum, coeffs *CoeffDict, term func(r, x float64) (float64, float64, float64)) error {
	if coeffs == nil || !(s.Felec > 0) {
		return nil
	}
	vol, ok := s.Volumes[region]
	if !ok {
		return nil
	}

	var c Coeff
	c.Ea, c.Eb, c.Ec = 1, 2, 0
	for m, row := range spec.Values {
		if len(row) != len(vol) {
			return errs.Computef("region %q: %d values for %d element volumes", region, len(row), len(vol))
		}
		r := spec.Freqs[m] / s.Felec
		for k, x := range row {
			a, b, cc := term(r, x)
			c.A += a * vol[k]
			c.B += b * vol[k]
			c.C += cc * vol[k]
		}
	}

	coeffs.Set(region, c)
	return nil
}
