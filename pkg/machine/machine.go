package machine

import (
	"fmt"
	"strings"
)

type Type int

const (
	IPMSM Type = iota // Interior permanent magnet synchronous
	SPMSM             // Surface permanent magnet synchronous
	WRSM              // Wound rotor synchronous
	SyRM              // Synchronous reluctance
	SRM               // Switched reluctance
	SCIM              // Squirrel cage induction
	DFIM              // Doubly fed induction
)

var typeNames = [...]string{"IPMSM", "SPMSM", "WRSM", "SyRM", "SRM", "SCIM", "DFIM"}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

func ParseType(s string) (Type, error) {
	for i, name := range typeNames {
		if strings.EqualFold(name, s) {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("unknown machine type: %s", s)
}

func (t Type) IsSynchronous() bool {
	return t != SCIM && t != DFIM
}

// magnets are only carried by PM rotors
func (t Type) hasMagnetRotor() bool {
	return t == IPMSM || t == SPMSM
}

type Rotor struct {
	Magnets int // magnets per pole
}

func (r Rotor) HasMagnet() bool {
	return r.Magnets > 0
}

type Stator struct {
	Winding *Winding
}

type Machine struct {
	Name   string
	Type   Type
	P      int     // pole pairs
	Lfe    float64 // lamination length (m)
	Stator Stator
	Rotor  Rotor
}

func New(name string, typ Type, p int, lfe float64, stator Stator, rotor Rotor) (*Machine, error) {
	if typ < 0 || int(typ) >= len(typeNames) {
		return nil, fmt.Errorf("machine %s: invalid type %d", name, int(typ))
	}
	if p < 1 {
		return nil, fmt.Errorf("machine %s: pole pairs must be >= 1, got %d", name, p)
	}
	if lfe <= 0 {
		return nil, fmt.Errorf("machine %s: lamination length must be > 0, got %g", name, lfe)
	}
	if rotor.Magnets < 0 {
		return nil, fmt.Errorf("machine %s: negative magnet count", name)
	}
	if rotor.HasMagnet() && !typ.hasMagnetRotor() {
		return nil, fmt.Errorf("machine %s: %s rotor cannot carry magnets", name, typ)
	}
	if !rotor.HasMagnet() && typ.hasMagnetRotor() {
		return nil, fmt.Errorf("machine %s: %s rotor needs at least one magnet", name, typ)
	}

	return &Machine{
		Name:   name,
		Type:   typ,
		P:      p,
		Lfe:    lfe,
		Stator: stator,
		Rotor:  rotor,
	}, nil
}

func (m *Machine) IsSynchronous() bool {
	return m.Type.IsSynchronous()
}

func (m *Machine) HasMagnet() bool {
	return m.Rotor.HasMagnet()
}

// Felec - electrical frequency (Hz) at mechanical speed n0 (rpm)
func (m *Machine) Felec(n0 float64) float64 {
	return n0 * float64(m.P) / 60
}

// StatorResistance - DC phase resistance of the stator winding at temp (degC)
func (m *Machine) StatorResistance(temp float64) (float64, error) {
	if m.Stator.Winding == nil {
		return 0, fmt.Errorf("machine %s: no stator winding", m.Name)
	}
	return m.Stator.Winding.ResistanceDC(temp, m.Lfe), nil
}
