package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edp1096/toy-machine/pkg/loss"
)

func testOutput() *loss.Output {
	return &loss.Output{
		ID:    uuid.New(),
		Freqs: []float64{0, 500, 1000},
		Power: map[string][]float64{
			"stator core": {0, 12.5, 3},
			"magnet":      {0, 0, 0.25},
		},
		CoeffDict: map[string]loss.Coeff{
			"stator core": {A: 1.5, Ea: 1, B: 0.01, Eb: 2},
		},
	}
}

func TestPrintEEC(t *testing.T) {
	var buf bytes.Buffer
	PrintEEC(&buf, map[string][]float64{
		"ID":   {-50},
		"IQ":   {50},
		"N0":   {3000},
		"R1":   {0.037},
		"LD":   {8.5e-4},
		"LQ":   {8.5e-4},
		"PHID": {0.0575},
		"PHIQ": {0.0425},
	})

	s := buf.String()
	assert.Contains(t, s, "(1 operating points)")
	assert.Contains(t, s, "3,000 rpm")
	assert.Contains(t, s, "37.000 mOhm")
	assert.Contains(t, s, "850.000 uH")
}

func TestPrintLoss(t *testing.T) {
	var buf bytes.Buffer
	out := testOutput()
	PrintLoss(&buf, out)

	s := buf.String()
	assert.Contains(t, s, out.ID.String())
	assert.Contains(t, s, "magnet")
	assert.Contains(t, s, "12.5 W")
	assert.Contains(t, s, "15.75 W")
	assert.Contains(t, s, "Loss coefficients")

	buf.Reset()
	PrintLoss(&buf, &loss.Output{ID: uuid.New()})
	assert.Contains(t, buf.String(), "mesh solution disabled")
}

func TestPlotSpectrum(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loss.png")
	require.NoError(t, PlotSpectrum(testOutput(), "test", path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	assert.Error(t, PlotSpectrum(&loss.Output{}, "empty", path))
}
