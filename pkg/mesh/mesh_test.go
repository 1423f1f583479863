package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeshGroups(t *testing.T) {
	m, err := New(6, 1e-6)
	require.NoError(t, err)

	require.NoError(t, m.AddGroup("stator core", 0, 1, 2))
	require.NoError(t, m.AddGroup("stator winding", 3))
	require.NoError(t, m.AddGroup("stator winding", 4))
	require.NoError(t, m.SetArea(4, 2e-6))

	g, ok := m.Group("stator winding")
	require.True(t, ok)
	assert.Equal(t, []int{3, 4}, g)

	areas, ok := m.GroupAreas("stator winding")
	require.True(t, ok)
	assert.Equal(t, []float64{1e-6, 2e-6}, areas)

	_, ok = m.Group("rotor magnets")
	assert.False(t, ok)

	assert.Equal(t, []string{"stator core", "stator winding"}, m.GroupNames())
	assert.Equal(t, 6, m.NbCell())
}

func TestMeshBounds(t *testing.T) {
	_, err := New(0, 1)
	assert.Error(t, err)

	m, err := New(2, 1)
	require.NoError(t, err)
	assert.Error(t, m.AddGroup("rotor core", 2))
	assert.Error(t, m.SetArea(-1, 1))
	assert.Error(t, m.SetArea(0, -1))
	assert.Equal(t, 0.0, m.Area(5))
}
