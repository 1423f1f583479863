package analysis

import (
	"fmt"

	"github.com/edp1096/toy-machine/pkg/eec"
	"github.com/edp1096/toy-machine/pkg/simulation"
)

// EECSweep identifies the circuit parameters at every operating point of the
// deck, in deck order.
type EECSweep struct {
	BaseAnalysis
	ops    []eec.OperatingPoint
	params []eec.Params
}

func NewEECSweep() *EECSweep {
	return &EECSweep{BaseAnalysis: *NewBaseAnalysis()}
}

func (es *EECSweep) Setup(sim *simulation.Simulation) error {
	if sim.LUT == nil {
		return fmt.Errorf("eec sweep needs a reference table")
	}
	if len(sim.OPs) == 0 {
		return fmt.Errorf("eec sweep needs at least one operating point")
	}
	es.Simulation = sim
	es.ops = sim.OPs
	return nil
}

// SetOPs overrides the deck operating points.
func (es *EECSweep) SetOPs(ops []eec.OperatingPoint) {
	es.ops = ops
}

func (es *EECSweep) Execute() error {
	if es.Simulation == nil {
		return fmt.Errorf("simulation not set")
	}
	sim := es.Simulation

	// restore the deck operating point so a following loss analysis uses its Felec
	prevOP, prevParams := sim.EEC.OP, sim.EEC.Params
	defer func() {
		if prevOP != nil {
			sim.SetOP(*prevOP)
		}
		sim.EEC.Params = prevParams
	}()

	for _, op := range es.ops {
		sim.SetOP(op)
		if err := sim.EEC.UpdateFromRef(sim.LUT); err != nil {
			return fmt.Errorf("op %s: %w", op, err)
		}

		p := sim.EEC.Params
		es.params = append(es.params, p)

		id, iq := op.IdIq()
		es.StoreRow(map[string]float64{
			"ID":   id,
			"IQ":   iq,
			"N0":   op.N0(),
			"R1":   p.R1,
			"LD":   p.Ld,
			"LQ":   p.Lq,
			"PHID": p.Phid,
			"PHIQ": p.Phiq,
		})
	}

	return nil
}

// Params returns the identified parameter sets, one per executed point.
func (es *EECSweep) Params() []eec.Params {
	return es.params
}

func (es *EECSweep) OPs() []eec.OperatingPoint {
	return es.ops
}
