package loss

import (
	"math"
	"sync"
)

// Coeff - total loss of a region as A*f^a + B*f^b + C*f^c with f the
// fundamental electrical frequency
type Coeff struct {
	A  float64 `json:"A"`
	Ea float64 `json:"a"`
	B  float64 `json:"B"`
	Eb float64 `json:"b"`
	C  float64 `json:"C"`
	Ec float64 `json:"c"`
}

func (c Coeff) Eval(f float64) float64 {
	return c.A*math.Pow(f, c.Ea) + c.B*math.Pow(f, c.Eb) + c.C*math.Pow(f, c.Ec)
}

// CoeffDict is shared by density models that may run concurrently.
type CoeffDict struct {
	mu sync.Mutex
	m  map[string]Coeff
}

func NewCoeffDict() *CoeffDict {
	return &CoeffDict{m: make(map[string]Coeff)}
}

func (d *CoeffDict) Set(name string, c Coeff) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.m[name] = c
}

func (d *CoeffDict) Snapshot() map[string]Coeff {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[string]Coeff, len(d.m))
	for k, v := range d.m {
		out[k] = v
	}
	return out
}
