package matrix

import (
	"fmt"

	"github.com/edp1096/sparse"
)

// NormalSystem collects least-squares normal equations (A'A) x = A'b for one or
// more right-hand sides sharing the same design matrix.
type NormalSystem struct {
	Size   int
	NRHS   int
	matrix *sparse.Matrix
	rhs    [][]float64
	config *sparse.Configuration
}

func NewNormalSystem(size, nrhs int) (*NormalSystem, error) {
	if size <= 0 || nrhs <= 0 {
		return nil, fmt.Errorf("invalid system size %dx%d", size, nrhs)
	}

	config := &sparse.Configuration{
		Real:                    true,
		Complex:                 false,
		SeparatedComplexVectors: false,
		Expandable:              true,
		Translate:               false,
		ModifiedNodal:           false,
		TiesMultiplier:          5,
		PrinterWidth:            140,
		Annotate:                0,
	}

	mat, err := sparse.Create(int64(size), config)
	if err != nil {
		return nil, fmt.Errorf("creating sparse matrix: %v", err)
	}

	rhs := make([][]float64, nrhs)
	for k := range rhs {
		rhs[k] = make([]float64, size+1) // 1-based indexing
	}

	s := &NormalSystem{
		Size:   size,
		NRHS:   nrhs,
		matrix: mat,
		rhs:    rhs,
		config: config,
	}
	s.setupElements()

	return s, nil
}

// Normal equations are dense, so every element is allocated up front.
func (s *NormalSystem) setupElements() {
	for i := 1; i <= s.Size; i++ {
		for j := 1; j <= s.Size; j++ {
			s.matrix.GetElement(int64(i), int64(j))
		}
	}
}

func (s *NormalSystem) AddElement(i, j int, value float64) {
	if i <= 0 || j <= 0 || i > s.Size || j > s.Size {
		return
	}
	s.matrix.GetElement(int64(i), int64(j)).Real += value
}

func (s *NormalSystem) AddRHSAt(k, i int, value float64) {
	if k < 0 || k >= s.NRHS || i <= 0 || i > s.Size {
		return
	}
	s.rhs[k][i] += value
}

// AddRow accumulates one observation: row holds the basis values of a sample
// and targets its observed values, one per right-hand side.
func (s *NormalSystem) AddRow(row []float64, targets []float64, weight float64) {
	for i, ai := range row {
		if ai == 0 {
			continue
		}
		for j, aj := range row {
			s.AddElement(i+1, j+1, weight*ai*aj)
		}
		for k, y := range targets {
			s.AddRHSAt(k, i+1, weight*ai*y)
		}
	}
}

// Solve factors once and returns the 0-based solution for every right-hand side.
func (s *NormalSystem) Solve() ([][]float64, error) {
	err := s.matrix.Factor()
	if err != nil {
		return nil, fmt.Errorf("matrix factorization failed: %v", err)
	}

	out := make([][]float64, s.NRHS)
	for k := range s.rhs {
		sol, err := s.matrix.Solve(s.rhs[k])
		if err != nil {
			return nil, fmt.Errorf("matrix solve failed: %v", err)
		}
		if len(sol) < s.Size+1 {
			return nil, fmt.Errorf("matrix solve returned %d values, want %d", len(sol), s.Size+1)
		}
		x := make([]float64, s.Size)
		copy(x, sol[1:s.Size+1])
		out[k] = x
	}

	return out, nil
}

func (s *NormalSystem) Destroy() {
	if s.matrix != nil {
		s.matrix.Destroy()
		s.matrix = nil
	}
}
