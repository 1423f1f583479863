// Package loss aggregates per-phenomenon loss densities of an electrical
// machine onto a shared [frequency bin][mesh element] grid.
package loss

import (
	"context"
	"math"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/edp1096/toy-machine/pkg/errs"
	"github.com/edp1096/toy-machine/pkg/util"
)

type Topology interface {
	IsSynchronous() bool
	HasMagnet() bool
}

type MeshProvider interface {
	NbCell() int
	Group(name string) ([]int, bool)
}

// AreaProvider is implemented by meshes that know their element areas.
type AreaProvider interface {
	Area(elem int) float64
}

// Density holds loss density samples of one region: Values[m][k] (W/m3) at
// frequency Freqs[m] for the k-th element of the region's group.
// The zero Density means "not applicable".
type Density struct {
	Values [][]float64
	Freqs  []float64
}

func (d Density) Applicable() bool {
	return d.Values != nil || d.Freqs != nil
}

type DensityModels interface {
	CoreDensity(region string, coeffs *CoeffDict) (Density, error)
	MagnetDensity(region string, coeffs *CoeffDict) (Density, error)
	JouleDensity(region string) (Density, error)
}

type CoreCoeffs struct {
	Ch float64 `json:"ch"` // hysteresis (W/m3 per Hz per T2)
	Ce float64 `json:"ce"` // eddy current (W/m3 per Hz2 per T2)
}

type Model struct {
	ModelDict         map[string]CoreCoeffs // core regions with a loss model
	Cp                float64               // proximity coefficient, 0 disables
	IsGetMeshSolution bool
	Parallel          bool
	Length            float64 // axial length for per-bin power (m), 0 skips
	Densities         DensityModels
}

type Output struct {
	ID          uuid.UUID            `json:"id"`
	CoeffDict   map[string]Coeff     `json:"coeff_dict"`
	Freqs       []float64            `json:"freqs,omitempty"`
	LossDensity *mat.Dense           `json:"-"`
	Power       map[string][]float64 `json:"power,omitempty"` // phenomenon -> W per bin
}

// TotalPower sums the per-bin power of one phenomenon, or of all when name is "".
func (o *Output) TotalPower(name string) float64 {
	total := 0.0
	for k, bins := range o.Power {
		if name != "" && k != name {
			continue
		}
		for _, p := range bins {
			total += p
		}
	}
	return total
}

// Enabled lists the phenomena evaluated for machine, in merge order.
func (m *Model) Enabled(machine Topology) []Phenomenon {
	var on []Phenomenon
	for _, p := range Phenomena() {
		switch p {
		case StatorCore, RotorCore:
			if _, ok := m.ModelDict[p.Region()]; !ok {
				continue
			}
		case Joule:
			if !m.IsGetMeshSolution {
				continue
			}
		case Proximity:
			if !(m.Cp > 0) {
				continue
			}
		case Magnet:
			if !(machine.IsSynchronous() && machine.HasMagnet()) {
				continue
			}
		}
		on = append(on, p)
	}
	return on
}

func (m *Model) evaluate(p Phenomenon, coeffs *CoeffDict) (Density, error) {
	switch p {
	case StatorCore, RotorCore, Proximity:
		// proximity shares the core expression on the winding region
		return m.Densities.CoreDensity(p.Region(), coeffs)
	case Magnet:
		return m.Densities.MagnetDensity(p.Region(), coeffs)
	case Joule:
		return m.Densities.JouleDensity(p.Region())
	default:
		return Density{}, errs.Configf("unknown phenomenon %d", int(p))
	}
}

func (m *Model) evaluateAll(ctx context.Context, on []Phenomenon, coeffs *CoeffDict) ([]Density, error) {
	dens := make([]Density, numPhenomena)

	if !m.Parallel {
		for _, p := range on {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			d, err := m.evaluate(p, coeffs)
			if err != nil {
				return nil, errs.Step(p.String(), err)
			}
			dens[p] = d
		}
		return dens, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, p := range on {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			d, err := m.evaluate(p, coeffs)
			if err != nil {
				return errs.Step(p.String(), err)
			}
			dens[p] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dens, nil
}

// CompLoss evaluates the enabled loss phenomena and, when the mesh solution is
// requested, merges their densities onto the freqs x NbCell grid.
func (m *Model) CompLoss(ctx context.Context, machine Topology, mesh MeshProvider, freqs []float64) (*Output, error) {
	if m.Densities == nil {
		return nil, errs.Configf("loss model has no density models")
	}
	if machine == nil {
		return nil, errs.Configf("loss model needs a machine")
	}

	on := m.Enabled(machine)
	names := make([]string, len(on))
	for i, p := range on {
		names[i] = p.String()
	}
	log.WithFields(log.Fields{
		"phenomena":     names,
		"mesh_solution": m.IsGetMeshSolution,
		"parallel":      m.Parallel,
	}).Info("computing losses")

	coeffs := NewCoeffDict()
	dens, err := m.evaluateAll(ctx, on, coeffs)
	if err != nil {
		return nil, err
	}

	out := &Output{
		ID:        uuid.New(),
		CoeffDict: coeffs.Snapshot(),
	}
	if !m.IsGetMeshSolution {
		return out, nil
	}

	if mesh == nil {
		return nil, errs.Configf("mesh solution requested without a mesh")
	}
	if err := util.CheckAscending(freqs); err != nil {
		return nil, errs.Configf("frequency axis: %v", err)
	}
	nelem := mesh.NbCell()
	if nelem <= 0 {
		return nil, errs.Configf("mesh has no elements")
	}

	grid := mat.NewDense(len(freqs), nelem, nil)
	var areas AreaProvider
	if ap, ok := mesh.(AreaProvider); ok && m.Length > 0 {
		areas = ap
		out.Power = make(map[string][]float64)
	}

	for _, p := range on {
		d := dens[p]
		if !d.Applicable() {
			continue
		}
		var power []float64
		if areas != nil {
			power = make([]float64, len(freqs))
		}
		if err := m.merge(grid, p, d, mesh, freqs, areas, power); err != nil {
			return nil, errs.Step(p.String(), err)
		}
		if power != nil {
			out.Power[p.String()] = power
		}

		log.WithFields(log.Fields{
			"phenomenon": p.String(),
			"samples":    len(d.Freqs),
		}).Debug("loss density merged")
	}

	out.Freqs = append([]float64(nil), freqs...)
	out.LossDensity = grid
	return out, nil
}

// merge adds every density sample to the row of its nearest frequency bin.
// Repeated bins and elements accumulate.
func (m *Model) merge(grid *mat.Dense, p Phenomenon, d Density, mesh MeshProvider, freqs []float64, areas AreaProvider, power []float64) error {
	region := p.Region()
	elems, ok := mesh.Group(region)
	if !ok {
		return errs.Configf("mesh group %q missing", region)
	}

	_, nelem := grid.Dims()
	for _, e := range elems {
		if e < 0 || e >= nelem {
			return errs.Configf("group %q element %d outside [0, %d)", region, e, nelem)
		}
	}
	if len(d.Values) != len(d.Freqs) {
		return errs.Computef("%d density samples for %d frequencies", len(d.Values), len(d.Freqs))
	}

	for s, f := range d.Freqs {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return errs.Computef("non-finite frequency at sample %d", s)
		}
		row := d.Values[s]
		if len(row) != len(elems) {
			return errs.Computef("sample %d has %d values for %d elements of %q", s, len(row), len(elems), region)
		}

		i := util.NearestIndex(freqs, f)
		for k, e := range elems {
			grid.Set(i, e, grid.At(i, e)+row[k])
			if power != nil {
				power[i] += row[k] * areas.Area(e) * m.Length
			}
		}
	}
	return nil
}
