/*package gopm evolves a periodic box of collisionless particles under
cosmological gravity with a particle mesh force.

Each step deposits particle masses onto a grid with a cloud in cell
kernel, solves the Poisson equation for the potential in Fourier
space, differentiates it into force grids, and moves the particles
with a kick drift leapfrog in the scale factor. Initial conditions
come from the Zel'dovich approximation applied to a user supplied
transfer function.

The unit conventions follow the usual particle mesh ones. Positions
are measured in grid cells, momenta are a^2 (dx/dt) / H0 in the same
length units, and the scale factor is the time variable. Snapshots
convert back to comoving Mpc/h and km/s when written.
*/
package gopm

import (
	"github.com/phil-mansfield/gopm/geom"
)

// Particles is the phase space state of a simulation.
type Particles struct {
	X, P []geom.Vec
	Mass float64 // Mass of a single particle in M_sun/h.
}

// State labels the stage of a Simulation's life cycle.
type State int

const (
	// Initialized simulations have not taken any steps yet.
	Initialized State = iota
	// Stepping simulations have taken at least one step.
	Stepping
	// Finished simulations have taken every requested step.
	Finished
	// Failed simulations hit an unrecoverable error and cannot
	// continue.
	Failed
)

func (s State) String() string {
	switch s {
	case Initialized:
		return "Initialized"
	case Stepping:
		return "Stepping"
	case Finished:
		return "Finished"
	case Failed:
		return "Failed"
	}
	panic("Impossible")
}
