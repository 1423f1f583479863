package analysis

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edp1096/toy-machine/internal/config"
	"github.com/edp1096/toy-machine/pkg/deck"
	"github.com/edp1096/toy-machine/pkg/eec"
	"github.com/edp1096/toy-machine/pkg/errs"
	"github.com/edp1096/toy-machine/pkg/simulation"
)

const testDeck = `* analysis ipmsm
.machine ipmsm p=4 lfe=0.1 magnets=8
.winding zs=48 rwind=70m
.cond 12 wwire=0.8m nwppc=9
.temp tsta=80 trot=60
.ref r1=30m
.lut id=-100 iq=0 phid=0.02 phiq=0
.lut id=0 iq=0 phid=0.1 phiq=0
.lut id=-100 iq=100 phid=0.015 phiq=0.08
.lut id=0 iq=100 phid=0.095 phiq=0.09
.phimag phid=0.1 phiq=0
.op id=-50 iq=50 n0=3000
.op id=-100 iq=100 n0=1500
.freqs lin 0 1k 5
.mesh ncell=6 area=1u
.group stator_core 0-1
.group rotor_magnets 4 5
.area 5 2u
.core stator_core ch=120 ce=0.05
.magnet sigma=0.7meg width=5m
.spectrum stator_core B 200 1.2 1.1
.spectrum rotor_magnets B 400 0.1 0.2
`

func newSim(t *testing.T, src string) *simulation.Simulation {
	t.Helper()
	d, err := deck.Parse(src)
	require.NoError(t, err)
	sim, err := simulation.New(d, config.Default())
	require.NoError(t, err)
	return sim
}

func TestEECSweep(t *testing.T) {
	sim := newSim(t, testDeck)

	es := NewEECSweep()
	require.NoError(t, es.Setup(sim))
	require.NoError(t, es.Execute())

	res := es.GetResults()
	for _, key := range []string{"ID", "IQ", "N0", "R1", "LD", "LQ", "PHID", "PHIQ"} {
		assert.Len(t, res[key], 2, key)
	}
	assert.Equal(t, []float64{-50, -100}, res["ID"])
	assert.Equal(t, []float64{3000, 1500}, res["N0"])

	r1 := 0.03 * (1 + 3.93e-3*60)
	assert.InDelta(t, r1, res["R1"][0], 1e-12)
	assert.InDelta(t, 0.0575, res["PHID"][0], 1e-12)
	assert.InDelta(t, 0.0425, res["PHIQ"][0], 1e-12)
	assert.InDelta(t, 0.00085, res["LD"][0], 1e-12)
	assert.InDelta(t, 0.00085, res["LQ"][0], 1e-12)

	// corner sample
	assert.InDelta(t, 0.015, res["PHID"][1], 1e-12)
	assert.InDelta(t, (0.015-0.1)/-100, res["LD"][1], 1e-12)
	assert.InDelta(t, 0.08/100, res["LQ"][1], 1e-12)

	require.Len(t, es.Params(), 2)
	assert.Equal(t, res["LD"][1], es.Params()[1].Ld)
}

func TestEECSweepRestoresOperatingPoint(t *testing.T) {
	sim := newSim(t, testDeck)

	before := NewLossAnalysis(context.Background())
	require.NoError(t, before.Setup(sim))
	require.NoError(t, before.Execute())

	es := NewEECSweep()
	require.NoError(t, es.Setup(sim))
	require.NoError(t, es.Execute())

	require.NotNil(t, sim.EEC.OP)
	assert.Equal(t, sim.OPs[0], *sim.EEC.OP)
	assert.Equal(t, 0.0, sim.EEC.Params.R1)

	after := NewLossAnalysis(context.Background())
	require.NoError(t, after.Setup(sim))
	require.NoError(t, after.Execute())
	assert.Equal(t, before.Output().CoeffDict, after.Output().CoeffDict)
	assert.Equal(t, before.Output().Power, after.Output().Power)
}

func TestEECSweepOutsideTable(t *testing.T) {
	sim := newSim(t, testDeck)

	es := NewEECSweep()
	require.NoError(t, es.Setup(sim))
	op, err := eec.NewOperatingPoint(-200, 50, 1000)
	require.NoError(t, err)
	es.SetOPs([]eec.OperatingPoint{op})

	err = es.Execute()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrDomain))
	assert.Equal(t, "interp_Phi_dqh", errs.StepOf(err))
	assert.Empty(t, es.GetResults())
}

func TestEECSweepSetup(t *testing.T) {
	es := NewEECSweep()
	assert.Error(t, es.Setup(newSim(t, "* no table\n.machine srm p=2 lfe=0.1\n")))
	assert.Error(t, es.Execute())
}

func TestLossAnalysis(t *testing.T) {
	sim := newSim(t, testDeck)

	la := NewLossAnalysis(context.Background())
	require.NoError(t, la.Setup(sim))
	require.NoError(t, la.Execute())

	res := la.GetResults()
	assert.Equal(t, []float64{0, 250, 500, 750, 1000}, res["FREQ"])
	require.Contains(t, res, "P(stator core)")
	require.Contains(t, res, "P(magnet)")
	assert.NotContains(t, res, "P(joule)")

	// 200 Hz lands in the 250 Hz bin
	core := (37440.0 + 31460.0) * 1e-6 * 0.1
	assert.InDelta(t, core, res["P(stator core)"][1], 1e-9)
	assert.Equal(t, 0.0, res["P(stator core)"][0])

	k := math.Pi * math.Pi * 0.7e6 * 25e-6 / 6
	magnet := k * 400 * 400 * (0.01*1e-6 + 0.04*2e-6) * 0.1
	assert.InDelta(t, magnet, res["P(magnet)"][2], 1e-9)

	out := la.Output()
	require.NotNil(t, out)
	r, c := out.LossDensity.Dims()
	assert.Equal(t, 5, r)
	assert.Equal(t, 6, c)
	assert.Contains(t, out.CoeffDict, "stator core")
	assert.Contains(t, out.CoeffDict, "rotor magnets")
}

func TestLossAnalysisCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	la := NewLossAnalysis(ctx)
	require.NoError(t, la.Setup(newSim(t, testDeck)))
	assert.ErrorIs(t, la.Execute(), context.Canceled)
}
