package util

import (
	"fmt"
	"math"
	"sort"
)

// CheckAscending - axis must be non-empty, finite and non-decreasing
func CheckAscending(axis []float64) error {
	if len(axis) == 0 {
		return fmt.Errorf("empty axis")
	}
	for i, v := range axis {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("non-finite axis value at %d", i)
		}
		if i > 0 && v < axis[i-1] {
			return fmt.Errorf("axis not ascending at %d (%g < %g)", i, v, axis[i-1])
		}
	}
	return nil
}

// NearestIndex returns argmin |axis[i]-x| on an ascending axis.
// Ties resolve to the lowest index.
func NearestIndex(axis []float64, x float64) int {
	n := len(axis)
	if n == 0 {
		return -1
	}

	// first index with axis[i] >= x
	hi := sort.SearchFloat64s(axis, x)
	if hi == 0 {
		return 0
	}
	if hi == n {
		return firstOf(axis, n-1)
	}

	lo := hi - 1
	if x-axis[lo] <= axis[hi]-x {
		return firstOf(axis, lo)
	}
	return hi
}

// walk back over repeated values
func firstOf(axis []float64, i int) int {
	for i > 0 && axis[i-1] == axis[i] {
		i--
	}
	return i
}

// Linspace - n points from start to stop inclusive
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{start}
	}
	out := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range n {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}

// Unique returns the sorted distinct values of vals.
func Unique(vals []float64) []float64 {
	out := make([]float64, len(vals))
	copy(out, vals)
	sort.Float64s(out)

	k := 0
	for i, v := range out {
		if i == 0 || v != out[k-1] {
			out[k] = v
			k++
		}
	}
	return out[:k]
}
