package eec

import (
	"fmt"
	"math"
)

// OperatingPoint is an immutable (Id, Iq, N0) triple.
type OperatingPoint struct {
	id float64
	iq float64
	n0 float64
}

func NewOperatingPoint(id, iq, n0 float64) (OperatingPoint, error) {
	for _, v := range []float64{id, iq, n0} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return OperatingPoint{}, fmt.Errorf("operating point: non-finite value (Id=%g, Iq=%g, N0=%g)", id, iq, n0)
		}
	}
	if n0 < 0 {
		return OperatingPoint{}, fmt.Errorf("operating point: speed must be >= 0, got %g", n0)
	}
	return OperatingPoint{id: id, iq: iq, n0: n0}, nil
}

func (op OperatingPoint) IdIq() (float64, float64) {
	return op.id, op.iq
}

// N0 - mechanical speed (rpm)
func (op OperatingPoint) N0() float64 {
	return op.n0
}

func (op OperatingPoint) String() string {
	return fmt.Sprintf("Id=%g A, Iq=%g A, N0=%g rpm", op.id, op.iq, op.n0)
}
