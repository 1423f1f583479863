package deck

import (
	"fmt"

	"github.com/edp1096/toy-machine/pkg/eec"
	"github.com/edp1096/toy-machine/pkg/loss"
	"github.com/edp1096/toy-machine/pkg/lut"
	"github.com/edp1096/toy-machine/pkg/machine"
	"github.com/edp1096/toy-machine/pkg/mesh"
)

func (d *Deck) HasAnalysis(a AnalysisType) bool {
	for _, x := range d.Analyses {
		if x == a {
			return true
		}
	}
	return false
}

// CreateMaterial - copper unless the cond card overrides rho20, alpha or mur
func (d *Deck) CreateMaterial() (machine.Material, error) {
	cu := machine.Copper()
	if d.Cond == nil {
		return cu, nil
	}
	p := d.Cond.Params
	if _, ok := p["rho20"]; !ok {
		if _, ok := p["alpha"]; !ok {
			if _, ok := p["mur"]; !ok {
				return cu, nil
			}
		}
	}
	return machine.NewMaterial("cond", valueOr(p, "rho20", cu.Rho20), valueOr(p, "alpha", cu.Alpha), valueOr(p, "mur", cu.Mur))
}

func (d *Deck) CreateConductor() (machine.Conductor, error) {
	if d.Cond == nil {
		return nil, fmt.Errorf("deck has no .cond card")
	}
	mat, err := d.CreateMaterial()
	if err != nil {
		return nil, err
	}

	p := d.Cond.Params
	intParam := func(name string, def float64) (int, error) {
		return toInt(name, valueOr(p, name, def))
	}

	switch d.Cond.Type {
	case "11":
		if err := requireParams(p, "hwire", "wwire"); err != nil {
			return nil, fmt.Errorf("cond11: %v", err)
		}
		nrad, err := intParam("nwppc_rad", 1)
		if err != nil {
			return nil, err
		}
		ntan, err := intParam("nwppc_tan", 1)
		if err != nil {
			return nil, err
		}
		return machine.NewCondType11(p["hwire"], p["wwire"], nrad, ntan, p["wins_wire"], mat)

	case "12":
		if err := requireParams(p, "wwire"); err != nil {
			return nil, fmt.Errorf("cond12: %v", err)
		}
		n, err := intParam("nwppc", 1)
		if err != nil {
			return nil, err
		}
		return machine.NewCondType12(p["wwire"], n, p["wins_wire"], mat)

	case "13":
		if err := requireParams(p, "wwire"); err != nil {
			return nil, fmt.Errorf("cond13: %v", err)
		}
		nrad, err := intParam("nwppc_rad", 1)
		if err != nil {
			return nil, err
		}
		ntan, err := intParam("nwppc_tan", 1)
		if err != nil {
			return nil, err
		}
		return machine.NewCondType13(p["wwire"], nrad, ntan, p["wins_wire"], p["wins_cond"], p["kwoh"], mat)
	}

	return nil, fmt.Errorf("unsupported conductor type: %s", d.Cond.Type)
}

// CreateMachine builds the machine topology. The stator winding is only
// attached when the deck carries a .winding card.
func (d *Deck) CreateMachine() (*machine.Machine, error) {
	if d.Machine == nil {
		return nil, fmt.Errorf("deck has no .machine card")
	}
	typ, err := machine.ParseType(d.Machine.Type)
	if err != nil {
		return nil, err
	}

	var stator machine.Stator
	if d.Winding != nil {
		cond, err := d.CreateConductor()
		if err != nil {
			return nil, err
		}
		w := d.Winding
		stator.Winding, err = machine.NewWinding(w.Qs, w.Zs, w.Nlayer, w.Ntcoil, w.Npcpp, w.Pitch, w.Lewout, w.Rwind, cond)
		if err != nil {
			return nil, err
		}
	}

	name := d.Title
	if name == "" {
		name = typ.String()
	}
	return machine.New(name, typ, d.Machine.P, d.Machine.Lfe, stator, machine.Rotor{Magnets: d.Machine.Magnets})
}

func (d *Deck) CreateLUT(opts lut.Options) (*lut.LUTdq, error) {
	if len(d.Samples) == 0 {
		return nil, fmt.Errorf("deck has no .lut samples")
	}
	return lut.NewLUTdq(d.Title, d.Samples, d.PhiMag, d.Ref, opts)
}

func (d *Deck) CreateOPs() ([]eec.OperatingPoint, error) {
	ops := make([]eec.OperatingPoint, 0, len(d.OPs))
	for k, o := range d.OPs {
		op, err := eec.NewOperatingPoint(o.Id, o.Iq, o.N0)
		if err != nil {
			return nil, fmt.Errorf("op %d: %v", k, err)
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// CreateMesh returns nil when the deck has no .mesh card.
func (d *Deck) CreateMesh() (*mesh.Mesh, error) {
	if d.Mesh == nil {
		return nil, nil
	}
	m, err := mesh.New(d.Mesh.NCell, d.Mesh.Area)
	if err != nil {
		return nil, err
	}
	for name, elems := range d.Groups {
		if err := m.AddGroup(name, elems...); err != nil {
			return nil, err
		}
	}
	for elem, a := range d.Areas {
		if err := m.SetArea(elem, a); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (d *Deck) CreateField() (*loss.FieldSolution, error) {
	fs := loss.NewFieldSolution()
	for _, s := range d.Spectra {
		var err error
		switch s.Kind {
		case "B":
			err = fs.AddB(s.Region, s.Freq, s.Values)
		case "J":
			err = fs.AddJ(s.Region, s.Freq, s.Values)
		}
		if err != nil {
			return nil, err
		}
	}
	return fs, nil
}
