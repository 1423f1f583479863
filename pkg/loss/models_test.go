package loss

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edp1096/toy-machine/pkg/errs"
)

func testField(t *testing.T) *FieldSolution {
	t.Helper()
	fs := NewFieldSolution()
	require.NoError(t, fs.AddB(RegionStatorCore, 50, []float64{1.5, 1.0}))
	require.NoError(t, fs.AddB(RegionStatorCore, 250, []float64{0.2, 0.1}))
	require.NoError(t, fs.AddB(RegionStatorWinding, 50, []float64{0.05}))
	require.NoError(t, fs.AddB(RegionRotorMagnets, 300, []float64{0.1, 0.3}))
	require.NoError(t, fs.AddJ(RegionStatorWinding, 50, []float64{4e6}))
	return fs
}

func TestCoreDensity(t *testing.T) {
	sm := &SpectrumModels{
		Field: testField(t),
		Core:  map[string]CoreCoeffs{RegionStatorCore: {Ch: 100, Ce: 0.1}},
	}

	d, err := sm.CoreDensity(RegionStatorCore, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{50, 250}, d.Freqs)
	assert.InDelta(t, 100*50*2.25+0.1*2500*2.25, d.Values[0][0], 1e-9)
	assert.InDelta(t, 100*250*0.01+0.1*62500*0.01, d.Values[1][1], 1e-9)

	_, err = sm.CoreDensity(RegionRotorCore, nil)
	assert.True(t, errors.Is(err, errs.ErrConfiguration))
}

func TestProximityUsesCp(t *testing.T) {
	sm := &SpectrumModels{Field: testField(t), Cp: 2}

	d, err := sm.CoreDensity(RegionStatorWinding, nil)
	require.NoError(t, err)
	assert.InDelta(t, 2*2500*0.0025, d.Values[0][0], 1e-12)
}

func TestMagnetDensity(t *testing.T) {
	sm := &SpectrumModels{Field: testField(t), Magnet: MagnetCoeffs{Sigma: 6e5, Width: 0.01}}

	d, err := sm.MagnetDensity(RegionRotorMagnets, nil)
	require.NoError(t, err)
	k := math.Pi * math.Pi * 6e5 * 1e-4 / 6
	assert.InDelta(t, k*90000*0.09, d.Values[0][1], 1e-6)

	sm.Magnet = MagnetCoeffs{}
	_, err = sm.MagnetDensity(RegionRotorMagnets, nil)
	assert.True(t, errors.Is(err, errs.ErrConfiguration))

	// no spectrum for the region means not applicable
	d, err = (&SpectrumModels{}).MagnetDensity(RegionRotorMagnets, nil)
	require.NoError(t, err)
	assert.False(t, d.Applicable())
}

func TestJouleDensity(t *testing.T) {
	sm := &SpectrumModels{Field: testField(t), Rho: 2e-8}

	d, err := sm.JouleDensity(RegionStatorWinding)
	require.NoError(t, err)
	assert.InDelta(t, 2e-8*16e12/2, d.Values[0][0], 1e-6)

	sm.Rho = 0
	_, err = sm.JouleDensity(RegionStatorWinding)
	assert.True(t, errors.Is(err, errs.ErrConfiguration))
}

func TestCoeffFitMatchesIntegratedPower(t *testing.T) {
	fs := NewFieldSolution()
	require.NoError(t, fs.AddB(RegionStatorCore, 50, []float64{1.2, 0.8}))

	vol := []float64{2e-6, 3e-6}
	sm := &SpectrumModels{
		Field:   fs,
		Core:    map[string]CoreCoeffs{RegionStatorCore: {Ch: 150, Ce: 0.04}},
		Felec:   50,
		Volumes: map[string][]float64{RegionStatorCore: vol},
	}

	coeffs := NewCoeffDict()
	d, err := sm.CoreDensity(RegionStatorCore, coeffs)
	require.NoError(t, err)

	c, ok := coeffs.Snapshot()[RegionStatorCore]
	require.True(t, ok)
	assert.Equal(t, 1.0, c.Ea)
	assert.Equal(t, 2.0, c.Eb)

	power := d.Values[0][0]*vol[0] + d.Values[0][1]*vol[1]
	assert.InDelta(t, power, c.Eval(50), 1e-12)

	// one volume per region element
	sm.Volumes[RegionStatorCore] = []float64{1e-6}
	assert.True(t, errors.Is(func() error {
		_, err := sm.CoreDensity(RegionStatorCore, coeffs)
		return err
	}(), errs.ErrComputation))
}

func TestFieldSolutionShape(t *testing.T) {
	fs := NewFieldSolution()
	require.NoError(t, fs.AddB("r", 50, []float64{1, 2}))
	assert.Error(t, fs.AddB("r", 100, []float64{1}))
	assert.NoError(t, fs.AddB("r", 100, []float64{3, 4}))
	assert.Equal(t, []float64{50, 100}, fs.B["r"].Freqs)
}

func TestCoeffDictSnapshot(t *testing.T) {
	d := NewCoeffDict()
	d.Set("a", Coeff{A: 1})
	snap := d.Snapshot()
	d.Set("b", Coeff{B: 2})

	assert.Len(t, snap, 1)
	assert.Len(t, d.Snapshot(), 2)
}

func TestDensityRowsWithoutFrequency(t *testing.T) {
	bad := &Spectrum{Freqs: []float64{50}, Values: [][]float64{{1}, {2}}}
	sm := &SpectrumModels{
		Field: &FieldSolution{
			B: map[string]*Spectrum{RegionStatorCore: bad, RegionRotorMagnets: bad},
			J: map[string]*Spectrum{RegionStatorWinding: bad},
		},
		Core:    map[string]CoreCoeffs{RegionStatorCore: {Ch: 100, Ce: 0.1}},
		Magnet:  MagnetCoeffs{Sigma: 6e5, Width: 0.01},
		Rho:     2e-8,
		Felec:   50,
		Volumes: map[string][]float64{RegionStatorCore: {1e-6}, RegionRotorMagnets: {1e-6}},
	}

	_, err := sm.CoreDensity(RegionStatorCore, NewCoeffDict())
	assert.True(t, errors.Is(err, errs.ErrComputation))
	_, err = sm.MagnetDensity(RegionRotorMagnets, NewCoeffDict())
	assert.True(t, errors.Is(err, errs.ErrComputation))
	_, err = sm.JouleDensity(RegionStatorWinding)
	assert.True(t, errors.Is(err, errs.ErrComputation))
}
