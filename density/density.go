/*package density assigns particle mass onto a periodic density grid and
samples grid fields back at particle positions.
*/
package density

import (
	"log"

	"github.com/phil-mansfield/gopm/geom"
)

// Kernel selects the shape used to spread a particle across its
// neighboring cells. The same kernel must be used when sampling a
// field back at a particle position, or particles feel a force from
// their own mass.
type Kernel int

const (
	NearestGridPoint Kernel = iota
	CloudInCell
)

type Interpolator interface {
	// Interpolate adds ptVal to the grid around each of the positions
	// xs[low: high]. Positions are in grid units and wrap periodically.
	Interpolate(rhos []float64, xs []geom.Vec, ptVal float64, low, high int)
	// Eval samples a grid field at the positions xs[low: high],
	// writing to the corresponding elements of out.
	Eval(field []float64, xs []geom.Vec, out []float64, low, high int)
}

type ngp struct { g *geom.Grid }
type cic struct { g *geom.Grid }

func NewInterpolator(kernel Kernel, g *geom.Grid) Interpolator {
	switch kernel {
	case NearestGridPoint:
		return &ngp{g}
	case CloudInCell:
		return &cic{g}
	}
	log.Fatalf("Unrecognized kernel %d.", kernel)
	panic("Impossible")
}

func (intr *ngp) Interpolate(
	rhos []float64, xs []geom.Vec, ptVal float64, low, high int,
) {
	g := intr.g
	for i := low; i < high; i++ {
		x, y, z := nearestCell(&xs[i], g.Length)
		rhos[g.Idx(x, y, z)] += ptVal
	}
}

func (intr *ngp) Eval(
	field []float64, xs []geom.Vec, out []float64, low, high int,
) {
	g := intr.g
	for i := low; i < high; i++ {
		x, y, z := nearestCell(&xs[i], g.Length)
		out[i] = field[g.Idx(x, y, z)]
	}
}

// nearestCell gives the cell whose center is closest to v. Cell
// centers sit at integer coordinates.
func nearestCell(v *geom.Vec, width int) (x, y, z int) {
	x = int(v[0] + 0.5)
	y = int(v[1] + 0.5)
	z = int(v[2] + 0.5)
	if x == width { x = 0 }
	if y == width { y = 0 }
	if z == width { z = 0 }
	return x, y, z
}

func (intr *cic) Interpolate(
	rhos []float64, xs []geom.Vec, ptVal float64, low, high int,
) {
	g := intr.g
	for i := low; i < high; i++ {
		x0, y0, z0, dx, dy, dz := cellOffset(&xs[i])
		x1, y1, z1 := x0+1, y0+1, z0+1
		if x1 == g.Length { x1 = 0 }
		if y1 == g.Length { y1 = 0 }
		if z1 == g.Length { z1 = 0 }

		tx, ty, tz := 1-dx, 1-dy, 1-dz

		rhos[g.Idx(x0, y0, z0)] += ptVal * tx * ty * tz
		rhos[g.Idx(x1, y0, z0)] += ptVal * dx * ty * tz
		rhos[g.Idx(x0, y1, z0)] += ptVal * tx * dy * tz
		rhos[g.Idx(x1, y1, z0)] += ptVal * dx * dy * tz
		rhos[g.Idx(x0, y0, z1)] += ptVal * tx * ty * dz
		rhos[g.Idx(x1, y0, z1)] += ptVal * dx * ty * dz
		rhos[g.Idx(x0, y1, z1)] += ptVal * tx * dy * dz
		rhos[g.Idx(x1, y1, z1)] += ptVal * dx * dy * dz
	}
}

func (intr *cic) Eval(
	field []float64, xs []geom.Vec, out []float64, low, high int,
) {
	g := intr.g
	for i := low; i < high; i++ {
		x0, y0, z0, dx, dy, dz := cellOffset(&xs[i])
		x1, y1, z1 := x0+1, y0+1, z0+1
		if x1 == g.Length { x1 = 0 }
		if y1 == g.Length { y1 = 0 }
		if z1 == g.Length { z1 = 0 }

		tx, ty, tz := 1-dx, 1-dy, 1-dz

		out[i] = field[g.Idx(x0, y0, z0)]*tx*ty*tz +
			field[g.Idx(x1, y0, z0)]*dx*ty*tz +
			field[g.Idx(x0, y1, z0)]*tx*dy*tz +
			field[g.Idx(x1, y1, z0)]*dx*dy*tz +
			field[g.Idx(x0, y0, z1)]*tx*ty*dz +
			field[g.Idx(x1, y0, z1)]*dx*ty*dz +
			field[g.Idx(x0, y1, z1)]*tx*dy*dz +
			field[g.Idx(x1, y1, z1)]*dx*dy*dz
	}
}

// cellOffset splits a position into the cell at its lower corner and
// the fractional offsets from that cell's center along each axis.
func cellOffset(v *geom.Vec) (x, y, z int, dx, dy, dz float64) {
	x, y, z = int(v[0]), int(v[1]), int(v[2])
	dx, dy, dz = v[0]-float64(x), v[1]-float64(y), v[2]-float64(z)
	return x, y, z, dx, dy, dz
}
