package analysis

import (
	"context"
	"fmt"

	"github.com/edp1096/toy-machine/pkg/loss"
	"github.com/edp1096/toy-machine/pkg/simulation"
)

// LossAnalysis runs the loss aggregator and exposes per-bin power as
// FREQ and P(<phenomenon>) vectors.
type LossAnalysis struct {
	BaseAnalysis
	ctx    context.Context
	output *loss.Output
}

func NewLossAnalysis(ctx context.Context) *LossAnalysis {
	if ctx == nil {
		ctx = context.Background()
	}
	return &LossAnalysis{
		BaseAnalysis: *NewBaseAnalysis(),
		ctx:          ctx,
	}
}

func (la *LossAnalysis) Setup(sim *simulation.Simulation) error {
	if sim.Loss == nil {
		return fmt.Errorf("loss model not set")
	}
	la.Simulation = sim
	return nil
}

func (la *LossAnalysis) Execute() error {
	if la.Simulation == nil {
		return fmt.Errorf("simulation not set")
	}
	sim := la.Simulation

	out, err := sim.Loss.CompLoss(la.ctx, sim.Machine, sim.MeshProvider(), sim.Freqs)
	if err != nil {
		return fmt.Errorf("computing losses: %w", err)
	}
	la.output = out

	if out.Freqs != nil {
		la.StoreSeries("FREQ", out.Freqs)
	}
	for name, bins := range out.Power {
		la.StoreSeries(fmt.Sprintf("P(%s)", name), bins)
	}

	return nil
}

func (la *LossAnalysis) Output() *loss.Output {
	return la.output
}
