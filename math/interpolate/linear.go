package interpolate

import (
	"log"
)

// Linear represents a piecewise linear curve which can be used to
// interpolate between points. Points outside the tabulated range are
// extrapolated along the nearest segment.
type Linear struct {
	xs, ys []float64
	dx     float64
}

// NewLinear creates a piecewise linear curve from a table of x and y values.
// The x values must be sorted in increasing order.
func NewLinear(xs, ys []float64) *Linear {
	if len(xs) != len(ys) {
		log.Fatalf(
			"Table given to NewLinear() has len(xs) = %d but len(ys) = %d.",
			len(xs), len(ys),
		)
	} else if len(xs) <= 1 {
		log.Fatalf("Table given to NewLinear() has length of %d.", len(xs))
	}
	for i := 0; i < len(xs)-1; i++ {
		if xs[i+1] <= xs[i] {
			log.Fatal("Table given to NewLinear() not increasing.")
		}
	}

	lin := &Linear{}
	lin.xs = make([]float64, len(xs))
	lin.ys = make([]float64, len(ys))
	copy(lin.xs, xs)
	copy(lin.ys, ys)
	lin.dx = (xs[len(xs)-1] - xs[0]) / float64(len(xs)-1)

	return lin
}

// NewUniformLinear creates a piecewise linear curve from y values tabulated
// at x0, x0 + dx, x0 + 2 dx, and so on.
func NewUniformLinear(x0, dx float64, ys []float64) *Linear {
	if len(ys) <= 1 {
		log.Fatalf("Table given to NewUniformLinear() has length of %d.",
			len(ys))
	} else if dx <= 0 {
		log.Fatalf("NewUniformLinear() given dx = %g.", dx)
	}

	xs := make([]float64, len(ys))
	for i := range xs {
		xs[i] = x0 + float64(i)*dx
	}
	return NewLinear(xs, ys)
}

// Eval computes the value of the curve at the given point.
func (lin *Linear) Eval(x float64) float64 {
	i := lin.bsearch(x)
	slope := (lin.ys[i+1] - lin.ys[i]) / (lin.xs[i+1] - lin.xs[i])
	return lin.ys[i] + slope*(x-lin.xs[i])
}

// EvalAll computes the value of the curve at every given point. If an
// output buffer is supplied it is used, otherwise a new slice is allocated.
func (lin *Linear) EvalAll(xs []float64, out ...[]float64) []float64 {
	var buf []float64
	if len(out) > 0 {
		buf = out[0]
	} else {
		buf = make([]float64, len(xs))
	}
	for i, x := range xs {
		buf[i] = lin.Eval(x)
	}
	return buf
}

// bsearch returns the index of the segment containing x, clamped to the
// first and last segments for out of range points.
func (lin *Linear) bsearch(x float64) int {
	if x <= lin.xs[0] {
		return 0
	} else if x >= lin.xs[len(lin.xs)-1] {
		return len(lin.xs) - 2
	}

	// Guess under the assumption of uniform spacing.
	guess := int((x - lin.xs[0]) / lin.dx)
	if guess >= 0 && guess < len(lin.xs)-1 &&
		lin.xs[guess] <= x && x <= lin.xs[guess+1] {

		return guess
	}

	lo, hi := 0, len(lin.xs)-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if x >= lin.xs[mid] {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}
