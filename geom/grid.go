package geom

// Grid provides an interface for reasoning over a 1D slice as if it were a
// periodic 3D grid.
type Grid struct {
	Length, Area, Volume int
}

// NewGrid returns a new Grid instance with the given number of cells on
// each side.
func NewGrid(width int) *Grid {
	g := &Grid{}
	g.Init(width)
	return g
}

// Init initializes a Grid instance.
func (g *Grid) Init(width int) {
	g.Length = width
	g.Area = width * width
	g.Volume = width * width * width
}

// Idx returns the grid index corresponding to a set of coordinates.
func (g *Grid) Idx(x, y, z int) int {
	return x + y*g.Length + z*g.Area
}

// PIdx returns the grid index corresponding to a set of coordinates after
// wrapping each of them back into the grid.
func (g *Grid) PIdx(x, y, z int) int {
	return pMod(x, g.Length) + pMod(y, g.Length)*g.Length +
		pMod(z, g.Length)*g.Area
}

// Coords returns the x, y, z coordinates of a point from its grid index.
func (g *Grid) Coords(idx int) (x, y, z int) {
	x = idx % g.Length
	y = (idx % g.Area) / g.Length
	z = idx / g.Area
	return x, y, z
}

// BoundsCheck returns true if the given coordinates are within the Grid and
// false otherwise.
func (g *Grid) BoundsCheck(x, y, z int) bool {
	return (0 <= x && 0 <= y && 0 <= z) &&
		(x < g.Length && y < g.Length && z < g.Length)
}

// pMod computes the positive modulo x % y.
func pMod(x, y int) int {
	m := x % y
	if m < 0 {
		m += y
	}
	return m
}
