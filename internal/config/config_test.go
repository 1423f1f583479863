package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edp1096/toy-machine/pkg/errs"
	"github.com/edp1096/toy-machine/pkg/lut"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, lut.DefaultOptions(), cfg.LUT)
	assert.Nil(t, cfg.EEC.SkinEffect)
	assert.Nil(t, cfg.EEC.Tsta)
	assert.True(t, cfg.Loss.MeshSolution)
	assert.False(t, cfg.Loss.Parallel)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "memory", cfg.Store.Backend)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.ini"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toymachine.ini")
	data := `
[lut]
interpolation = polyfit
degree = 2
extrapolation = clamp

[eec]
skin_effect = true
tsta = 90

[loss]
mesh_solution = false
parallel = true

[log]
level = debug
json = true

[store]
backend = sqlite
path = /tmp/x.db
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, lut.Options{Interpolation: lut.Polyfit, Degree: 2, Extrapolation: lut.Clamp}, cfg.LUT)
	require.NotNil(t, cfg.EEC.SkinEffect)
	assert.True(t, *cfg.EEC.SkinEffect)
	require.NotNil(t, cfg.EEC.Tsta)
	assert.Equal(t, 90.0, *cfg.EEC.Tsta)
	assert.Nil(t, cfg.EEC.Trot)
	assert.False(t, cfg.Loss.MeshSolution)
	assert.True(t, cfg.Loss.Parallel)
	assert.Equal(t, "sqlite", cfg.Store.Backend)
	assert.Equal(t, "/tmp/x.db", cfg.Store.Path)

	require.NoError(t, cfg.SetupLogging())
	assert.Equal(t, log.DebugLevel, log.GetLevel())
	log.SetLevel(log.InfoLevel)
	log.SetFormatter(&log.TextFormatter{})
}

func TestInvalidValues(t *testing.T) {
	tests := []string{
		"[lut]\ninterpolation = spline",
		"[lut]\nextrapolation = wrap",
		"[eec]\ntsta = hot",
		"[eec]\nskin_effect = perhaps",
		"[store]\nbackend = redis",
	}

	for _, data := range tests {
		_, err := Parse([]byte(data))
		require.Error(t, err, data)
		assert.True(t, errors.Is(err, errs.ErrConfiguration), data)
	}

	cfg := Default()
	cfg.Log.Level = "loud"
	assert.Error(t, cfg.SetupLogging())
}
