package lut

import (
	"fmt"
	"strings"

	"github.com/edp1096/toy-machine/pkg/errs"
)

type Interpolation int

const (
	Bilinear Interpolation = iota
	Polyfit
)

func (m Interpolation) String() string {
	switch m {
	case Bilinear:
		return "bilinear"
	case Polyfit:
		return "polyfit"
	default:
		return fmt.Sprintf("Interpolation(%d)", int(m))
	}
}

func ParseInterpolation(s string) (Interpolation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "bilinear":
		return Bilinear, nil
	case "polyfit", "poly":
		return Polyfit, nil
	default:
		return 0, errs.Configf("unknown interpolation method %q", s)
	}
}

// Extrapolation decides what happens to queries outside the sampled (Id, Iq) box.
type Extrapolation int

const (
	Reject Extrapolation = iota // ErrDomain
	Clamp                       // project onto the box
	Linear                      // extend the edge cell / evaluate the fitted surface
)

func (e Extrapolation) String() string {
	switch e {
	case Reject:
		return "reject"
	case Clamp:
		return "clamp"
	case Linear:
		return "linear"
	default:
		return fmt.Sprintf("Extrapolation(%d)", int(e))
	}
}

func ParseExtrapolation(s string) (Extrapolation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reject":
		return Reject, nil
	case "clamp":
		return Clamp, nil
	case "linear":
		return Linear, nil
	default:
		return 0, errs.Configf("unknown extrapolation policy %q", s)
	}
}

type Options struct {
	Interpolation Interpolation
	Degree        int // polyfit total degree
	Extrapolation Extrapolation
}

func DefaultOptions() Options {
	return Options{
		Interpolation: Bilinear,
		Degree:        3,
		Extrapolation: Reject,
	}
}
