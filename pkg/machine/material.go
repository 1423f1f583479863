package machine

import (
	"fmt"

	"github.com/edp1096/toy-machine/internal/consts"
)

type Material struct {
	Name  string
	Rho20 float64 // resistivity at 20 degC (Ohm.m)
	Alpha float64 // temperature coefficient (1/K)
	Mur   float64 // relative permeability
}

func NewMaterial(name string, rho20, alpha, mur float64) (Material, error) {
	if rho20 <= 0 {
		return Material{}, fmt.Errorf("material %s: rho20 must be > 0, got %g", name, rho20)
	}
	if alpha < 0 {
		return Material{}, fmt.Errorf("material %s: alpha must be >= 0, got %g", name, alpha)
	}
	if mur < 1 {
		return Material{}, fmt.Errorf("material %s: mur must be >= 1, got %g", name, mur)
	}
	return Material{Name: name, Rho20: rho20, Alpha: alpha, Mur: mur}, nil
}

func Copper() Material {
	return Material{Name: "copper", Rho20: consts.RHOCU, Alpha: consts.ALPHCU, Mur: 1}
}

// TempFactor - 1 + alpha*(temp - tref)
func (m Material) TempFactor(temp, tref float64) float64 {
	return 1 + m.Alpha*(temp-tref)
}

func (m Material) Resistivity(temp float64) float64 {
	return m.Rho20 * m.TempFactor(temp, consts.TREF)
}

func (m Material) Conductivity(temp float64) float64 {
	return 1 / m.Resistivity(temp)
}
