package loss

import "fmt"

// Phenomenon values are declared in merge order.
type Phenomenon int

const (
	StatorCore Phenomenon = iota
	RotorCore
	Joule
	Proximity
	Magnet
	numPhenomena
)

const (
	RegionStatorCore    = "stator core"
	RegionRotorCore     = "rotor core"
	RegionStatorWinding = "stator winding"
	RegionRotorMagnets  = "rotor magnets"
)

func (p Phenomenon) String() string {
	switch p {
	case StatorCore:
		return "stator core"
	case RotorCore:
		return "rotor core"
	case Joule:
		return "joule"
	case Proximity:
		return "proximity"
	case Magnet:
		return "magnet"
	default:
		return fmt.Sprintf("Phenomenon(%d)", int(p))
	}
}

// Region - mesh group the phenomenon's density lives on
func (p Phenomenon) Region() string {
	switch p {
	case StatorCore:
		return RegionStatorCore
	case RotorCore:
		return RegionRotorCore
	case Joule, Proximity:
		return RegionStatorWinding
	case Magnet:
		return RegionRotorMagnets
	default:
		return ""
	}
}

func Phenomena() []Phenomenon {
	return []Phenomenon{StatorCore, RotorCore, Joule, Proximity, Magnet}
}
