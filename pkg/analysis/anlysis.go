package analysis

import (
	"github.com/edp1096/toy-machine/pkg/simulation"
)

type Analysis interface {
	Setup(sim *simulation.Simulation) error
	Execute() error
	GetResults() map[string][]float64
}

type BaseAnalysis struct {
	Simulation *simulation.Simulation
	results    map[string][]float64 // key: variable name, value: result by sweep point
}

func NewBaseAnalysis() *BaseAnalysis {
	return &BaseAnalysis{results: make(map[string][]float64)}
}

// StoreRow appends one sweep point. Every row must carry the same keys.
func (a *BaseAnalysis) StoreRow(row map[string]float64) {
	for name, value := range row {
		if _, exists := a.results[name]; !exists {
			a.results[name] = make([]float64, 0)
		}
		a.results[name] = append(a.results[name], value)
	}
}

// StoreSeries replaces a whole result vector.
func (a *BaseAnalysis) StoreSeries(name string, values []float64) {
	a.results[name] = append([]float64(nil), values...)
}

func (a *BaseAnalysis) GetResults() map[string][]float64 {
	return a.results
}
