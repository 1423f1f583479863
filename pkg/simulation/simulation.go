// Package simulation assembles a machine, its reference table, the EEC
// engine and the loss model from an input deck and a run configuration.
package simulation

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/edp1096/toy-machine/internal/config"
	"github.com/edp1096/toy-machine/pkg/deck"
	"github.com/edp1096/toy-machine/pkg/eec"
	"github.com/edp1096/toy-machine/pkg/loss"
	"github.com/edp1096/toy-machine/pkg/lut"
	"github.com/edp1096/toy-machine/pkg/machine"
	"github.com/edp1096/toy-machine/pkg/mesh"
)

type Simulation struct {
	name    string
	Deck    *deck.Deck
	Config  config.Config
	Machine *machine.Machine
	LUT     *lut.LUTdq // nil when the deck carries no table
	EEC     *eec.EEC
	OPs     []eec.OperatingPoint
	Mesh    *mesh.Mesh // nil when the deck carries no mesh
	Freqs   []float64
	Field   *loss.FieldSolution
	Loss    *loss.Model
	models  *loss.SpectrumModels
}

func New(d *deck.Deck, cfg config.Config) (*Simulation, error) {
	var err error

	s := &Simulation{
		name:   d.Title,
		Deck:   d,
		Config: cfg,
		Freqs:  d.Freqs,
	}

	s.Machine, err = d.CreateMachine()
	if err != nil {
		return nil, fmt.Errorf("creating machine: %v", err)
	}

	s.OPs, err = d.CreateOPs()
	if err != nil {
		return nil, err
	}

	if len(d.Samples) > 0 {
		s.LUT, err = d.CreateLUT(cfg.LUT)
		if err != nil {
			return nil, fmt.Errorf("creating lut: %w", err)
		}
	}

	tsta, trot, skin := d.Tsta, d.Trot, d.Skin
	if cfg.EEC.Tsta != nil {
		tsta = *cfg.EEC.Tsta
	}
	if cfg.EEC.Trot != nil {
		trot = *cfg.EEC.Trot
	}
	if cfg.EEC.SkinEffect != nil {
		skin = *cfg.EEC.SkinEffect
	}

	var op *eec.OperatingPoint
	if len(s.OPs) > 0 {
		op = &s.OPs[0]
	}
	s.EEC = eec.New(s.Machine, op, tsta, trot, skin)

	s.Mesh, err = d.CreateMesh()
	if err != nil {
		return nil, fmt.Errorf("creating mesh: %v", err)
	}
	s.Field, err = d.CreateField()
	if err != nil {
		return nil, fmt.Errorf("creating field solution: %v", err)
	}

	s.setupLoss()

	log.WithFields(log.Fields{
		"machine": s.Machine.Type.String(),
		"ops":     len(s.OPs),
		"lut":     s.LUT != nil,
		"mesh":    s.Mesh != nil,
	}).Info("simulation ready")

	return s, nil
}

func (s *Simulation) setupLoss() {
	d := s.Deck

	meshSolution := s.Config.Loss.MeshSolution
	if meshSolution && s.Mesh == nil {
		log.Warn("mesh solution requested but the deck has no .mesh card, disabled")
		meshSolution = false
	}

	s.models = &loss.SpectrumModels{
		Field:   s.Field,
		Core:    d.Core,
		Cp:      d.Cp,
		Magnet:  d.Magnet,
		Rho:     s.windingMaterial().Resistivity(s.EEC.Tsta),
		Volumes: s.volumes(),
	}
	if s.EEC.OP != nil {
		s.models.Felec = s.Machine.Felec(s.EEC.OP.N0())
	}

	s.Loss = &loss.Model{
		ModelDict:         d.Core,
		Cp:                d.Cp,
		IsGetMeshSolution: meshSolution,
		Parallel:          s.Config.Loss.Parallel,
		Length:            s.Machine.Lfe,
		Densities:         s.models,
	}
}

func (s *Simulation) windingMaterial() machine.Material {
	if w := s.Machine.Stator.Winding; w != nil {
		return w.Conductor.GetMaterial()
	}
	return machine.Copper()
}

// volumes - element volumes per mesh group, area times lamination length
func (s *Simulation) volumes() map[string][]float64 {
	vols := make(map[string][]float64)
	if s.Mesh == nil {
		return vols
	}
	for _, name := range s.Mesh.GroupNames() {
		areas, _ := s.Mesh.GroupAreas(name)
		v := make([]float64, len(areas))
		for k, a := range areas {
			v[k] = a * s.Machine.Lfe
		}
		vols[name] = v
	}
	return vols
}

func (s *Simulation) Name() string {
	return s.name
}

// SetOP moves the engine to op and rescales the loss coefficients to its
// electrical frequency.
func (s *Simulation) SetOP(op eec.OperatingPoint) {
	s.EEC.SetOP(op)
	s.models.Felec = s.Machine.Felec(op.N0())
}

// SetLUT swaps the reference table, e.g. one loaded from a store.
func (s *Simulation) SetLUT(l *lut.LUTdq) {
	s.LUT = l
}

// MeshProvider returns the mesh as an interface value, nil when absent.
func (s *Simulation) MeshProvider() loss.MeshProvider {
	if s.Mesh == nil {
		return nil
	}
	return s.Mesh
}
