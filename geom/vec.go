package geom

import (
	"math"
)

// Vec is a three dimensional vector.
type Vec [3]float64

// AddSelf adds u to v in place.
func (v *Vec) AddSelf(u *Vec) {
	v[0] += u[0]
	v[1] += u[1]
	v[2] += u[2]
}

// SubSelf subtracts u from v in place.
func (v *Vec) SubSelf(u *Vec) {
	v[0] -= u[0]
	v[1] -= u[1]
	v[2] -= u[2]
}

// ScaleSelf multiplies every component of v by s.
func (v *Vec) ScaleSelf(s float64) {
	v[0] *= s
	v[1] *= s
	v[2] *= s
}

// ModSelf wraps every component of v into [0, width). It remains correct
// for components which are many box widths out of range.
func (v *Vec) ModSelf(width float64) {
	for k := 0; k < 3; k++ {
		x := v[k]
		for x < 0 {
			x += width
		}
		for x >= width {
			x -= width
		}
		v[k] = x
	}
}

// Norm returns the Euclidean norm of v.
func (v *Vec) Norm() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// ScaleVecs multiplies every vector in vs by scale and wraps it into
// [0, width).
func ScaleVecs(vs []Vec, scale, width float64) {
	for i := range vs {
		vs[i].ScaleSelf(scale)
		vs[i].ModSelf(width)
	}
}
