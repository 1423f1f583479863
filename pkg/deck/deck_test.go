package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edp1096/toy-machine/pkg/loss"
	"github.com/edp1096/toy-machine/pkg/lut"
	"github.com/edp1096/toy-machine/pkg/machine"
)

const ipmsmDeck = `* IPMSM test machine
.machine ipmsm p=4 lfe=100m magnets=8
.winding qs=3 zs=48 nlayer=2 ntcoil=5 npcpp=2 pitch=5
+ lewout=15m rwind=70m
.cond 12 wwire=0.8m nwppc=9
.temp tsta=80 trot=60
.skin on
.ref r1=30m tsta=20 trot=20 * measured cold

.lut id=-100 iq=0 phid=0.02 phiq=0
.lut id=0 iq=0 phid=0.1 phiq=0
.lut id=-100 iq=100 phid=0.015 phiq=0.08
.lut id=0 iq=100 phid=0.095 phiq=0.09
.phimag phid=0.1 phiq=0
.op id=-50 iq=50 n0=3000
.op id=0 iq=0 n0=1500

.freqs lin 0 1k 5
.mesh ncell=6 area=1u
.group stator_core 0-1
.group rotor_magnets 4 5
.area 5 2u
.core stator_core ch=120 ce=0.05
.cp 1e-4
.magnet sigma=0.7meg width=5m
.spectrum stator_core B 200 1.2 1.1
.spectrum rotor_magnets B 400 0.1 0.2
.eec
.loss
`

func TestParseDeck(t *testing.T) {
	d, err := Parse(ipmsmDeck)
	require.NoError(t, err)

	assert.Equal(t, "IPMSM test machine", d.Title)
	require.NotNil(t, d.Machine)
	assert.Equal(t, MachineParam{Type: "ipmsm", P: 4, Lfe: 0.1, Magnets: 8}, *d.Machine)

	require.NotNil(t, d.Winding)
	assert.Equal(t, 48, d.Winding.Zs)
	assert.Equal(t, 5, d.Winding.Ntcoil)
	assert.InDelta(t, 0.015, d.Winding.Lewout, 1e-15)
	assert.InDelta(t, 0.07, d.Winding.Rwind, 1e-15)

	assert.Equal(t, 80.0, d.Tsta)
	assert.Equal(t, 60.0, d.Trot)
	assert.True(t, d.Skin)

	require.NotNil(t, d.Ref.R1)
	assert.InDelta(t, 0.03, *d.Ref.R1, 1e-15)
	assert.Equal(t, 1.0, d.Ref.XkrSkinS)

	assert.Len(t, d.Samples, 4)
	assert.Equal(t, lut.Sample{Id: -100, Iq: 100, Phid: 0.015, Phiq: 0.08}, d.Samples[2])
	assert.Equal(t, [][2]float64{{0.1, 0}}, d.PhiMag)
	assert.Equal(t, []OPParam{{-50, 50, 3000}, {0, 0, 1500}}, d.OPs)

	assert.Equal(t, []float64{0, 250, 500, 750, 1000}, d.Freqs)
	assert.Equal(t, &MeshParam{NCell: 6, Area: 1e-6}, d.Mesh)
	assert.Equal(t, []int{0, 1}, d.Groups[loss.RegionStatorCore])
	assert.Equal(t, []int{4, 5}, d.Groups[loss.RegionRotorMagnets])
	assert.Equal(t, map[int]float64{5: 2e-6}, d.Areas)
	assert.Equal(t, loss.CoreCoeffs{Ch: 120, Ce: 0.05}, d.Core[loss.RegionStatorCore])
	assert.Equal(t, 1e-4, d.Cp)
	assert.InDelta(t, 7e5, d.Magnet.Sigma, 1e-9)
	require.Len(t, d.Spectra, 2)
	assert.Equal(t, "B", d.Spectra[1].Kind)
	assert.Equal(t, []float64{0.1, 0.2}, d.Spectra[1].Values)

	assert.True(t, d.HasAnalysis(AnalysisEEC))
	assert.True(t, d.HasAnalysis(AnalysisLoss))
}

func TestCreateFromDeck(t *testing.T) {
	d, err := Parse(ipmsmDeck)
	require.NoError(t, err)

	m, err := d.CreateMachine()
	require.NoError(t, err)
	assert.Equal(t, machine.IPMSM, m.Type)
	assert.True(t, m.HasMagnet())
	require.NotNil(t, m.Stator.Winding)
	assert.Equal(t, "12", m.Stator.Winding.Conductor.GetType())

	l, err := d.CreateLUT(lut.DefaultOptions())
	require.NoError(t, err)
	phi, err := l.InterpPhiDqh(0, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.1, phi[0], 1e-12)

	ops, err := d.CreateOPs()
	require.NoError(t, err)
	require.Len(t, ops, 2)
	assert.Equal(t, 3000.0, ops[0].N0())

	msh, err := d.CreateMesh()
	require.NoError(t, err)
	assert.Equal(t, 6, msh.NbCell())
	assert.Equal(t, 2e-6, msh.Area(5))
	assert.Equal(t, 1e-6, msh.Area(4))

	fs, err := d.CreateField()
	require.NoError(t, err)
	require.Contains(t, fs.B, loss.RegionStatorCore)
	assert.Equal(t, []float64{200}, fs.B[loss.RegionStatorCore].Freqs)
}

func TestConductorVariants(t *testing.T) {
	tests := []struct {
		card string
		typ  string
	}{
		{".cond 11 hwire=2m wwire=4m nwppc_rad=2 nwppc_tan=1", "11"},
		{".cond 12 wwire=1m", "12"},
		{".cond 13 wwire=0.5m nwppc_rad=3 nwppc_tan=2 kwoh=1.1 rho20=2.8e-8 alpha=4e-3", "13"},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			d, err := Parse("title\n" + tt.card)
			require.NoError(t, err)
			c, err := d.CreateConductor()
			require.NoError(t, err)
			assert.Equal(t, tt.typ, c.GetType())
		})
	}

	d, err := Parse("title\n.cond 13 wwire=0.5m rho20=2.8e-8")
	require.NoError(t, err)
	c, err := d.CreateConductor()
	require.NoError(t, err)
	assert.Equal(t, 2.8e-8, c.GetMaterial().Rho20)
	assert.Equal(t, machine.Copper().Alpha, c.GetMaterial().Alpha)

	d, err = Parse("title\n.cond 11 wwire=1m")
	require.NoError(t, err)
	_, err = d.CreateConductor()
	assert.Error(t, err)
}

func TestWindingDefaults(t *testing.T) {
	d, err := Parse("title\n.winding zs=24")
	require.NoError(t, err)

	want := DefaultWinding()
	want.Zs = 24
	assert.Equal(t, want, *d.Winding)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		deck string
	}{
		{"unknown card", "t\n.foo 1"},
		{"element line", "t\nR1 1 0 1k"},
		{"unknown parameter", "t\n.op id=1 iq=2 speed=3"},
		{"bad value", "t\n.op id=1x"},
		{"missing lut value", "t\n.lut id=0 iq=0 phid=1"},
		{"fractional pole pairs", "t\n.machine ipmsm p=2.5 lfe=0.1"},
		{"bad skin", "t\n.skin maybe"},
		{"descending freqs", "t\n.freqs list 10 5"},
		{"bad sweep", "t\n.freqs dec 1 10 3"},
		{"bad range", "t\n.group stator_core 5-2"},
		{"bad spectrum kind", "t\n.spectrum stator_core H 50 1"},
		{"dangling continuation", "t\n+ id=1"},
		{"bad conductor", "t\n.cond 14 wwire=1m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.deck)
			assert.Error(t, err)
		})
	}
}

func TestErrorCarriesLine(t *testing.T) {
	_, err := Parse("t\n.op id=1 iq=2 speed=3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".op id=1 iq=2 speed=3")
}

func TestCreateWithoutCards(t *testing.T) {
	d, err := Parse("empty")
	require.NoError(t, err)

	_, err = d.CreateMachine()
	assert.Error(t, err)
	_, err = d.CreateLUT(lut.DefaultOptions())
	assert.Error(t, err)

	msh, err := d.CreateMesh()
	assert.NoError(t, err)
	assert.Nil(t, msh)
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1k", 1e3},
		{"2.5meg", 2.5e6},
		{"100m", 0.1},
		{"-3u", -3e-6},
		{"1e-3", 1e-3},
		{"4.7n", 4.7e-9},
		{"+12", 12},
	}

	for _, tt := range tests {
		v, err := ParseValue(tt.in)
		require.NoError(t, err, tt.in)
		assert.InDelta(t, tt.want, v, 1e-12*abs(tt.want)+1e-30, tt.in)
	}

	for _, in := range []string{"abc", "2M", "1x"} {
		_, err := ParseValue(in)
		assert.Error(t, err, in)
	}

	_, err := Parse("t\n.freqs list 0 1M 2M")
	assert.Error(t, err)
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
