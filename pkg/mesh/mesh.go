package mesh

import (
	"fmt"
	"sort"
)

// Mesh is the read-only view of a solved field mesh: cell count, named element
// groups and per-cell area.
type Mesh struct {
	nbCell int
	groups map[string][]int
	areas  []float64
}

func New(nbCell int, defaultArea float64) (*Mesh, error) {
	if nbCell <= 0 {
		return nil, fmt.Errorf("mesh: cell count must be > 0, got %d", nbCell)
	}
	if defaultArea < 0 {
		return nil, fmt.Errorf("mesh: negative area %g", defaultArea)
	}

	areas := make([]float64, nbCell)
	for i := range areas {
		areas[i] = defaultArea
	}

	return &Mesh{
		nbCell: nbCell,
		groups: make(map[string][]int),
		areas:  areas,
	}, nil
}

func (m *Mesh) NbCell() int {
	return m.nbCell
}

// AddGroup appends element indices to a named region.
func (m *Mesh) AddGroup(name string, elems ...int) error {
	for _, e := range elems {
		if e < 0 || e >= m.nbCell {
			return fmt.Errorf("mesh: group %q element %d outside [0, %d)", name, e, m.nbCell)
		}
	}
	m.groups[name] = append(m.groups[name], elems...)
	return nil
}

func (m *Mesh) Group(name string) ([]int, bool) {
	g, ok := m.groups[name]
	return g, ok
}

func (m *Mesh) GroupNames() []string {
	names := make([]string, 0, len(m.groups))
	for name := range m.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *Mesh) SetArea(elem int, area float64) error {
	if elem < 0 || elem >= m.nbCell {
		return fmt.Errorf("mesh: element %d outside [0, %d)", elem, m.nbCell)
	}
	if area < 0 {
		return fmt.Errorf("mesh: negative area %g at element %d", area, elem)
	}
	m.areas[elem] = area
	return nil
}

func (m *Mesh) Area(elem int) float64 {
	if elem < 0 || elem >= m.nbCell {
		return 0
	}
	return m.areas[elem]
}

// GroupAreas returns the areas of a region's elements, in group order.
func (m *Mesh) GroupAreas(name string) ([]float64, bool) {
	g, ok := m.groups[name]
	if !ok {
		return nil, false
	}
	out := make([]float64, len(g))
	for k, e := range g {
		out[k] = m.areas[e]
	}
	return out, true
}
