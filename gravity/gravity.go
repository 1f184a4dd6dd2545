/*package gravity solves the Poisson equation on a periodic density
grid and differentiates the potential into per axis force grids.

All lengths are in grid units, so the equation solved is
grad^2 phi = (3 OmegaM / 2) (rho - 1) / a and the resulting forces
are comoving accelerations with respect to the scale factor.
*/
package gravity

import (
	"fmt"

	"github.com/phil-mansfield/gopm/fourier"
)

type Solver struct {
	width, volume int

	t     *fourier.Transform
	freqs []float64

	// Rho is the density grid in units of the mean density. Fill it
	// with a deposit, then call Solve to fill Force.
	Rho     []float64
	Force   [3][]float64
	delta   []complex128
	scratch []complex128
}

func NewSolver(width, threads int) (*Solver, error) {
	if width <= 0 {
		return nil, fmt.Errorf("Grid width %d must be positive.", width)
	}

	t, err := fourier.NewTransform(width, threads)
	if err != nil { return nil, err }

	volume := width * width * width
	sol := &Solver{
		width:  width,
		volume: volume,

		t:     t,
		freqs: fourier.Freqs(width, float64(width)),

		Rho:     make([]float64, volume),
		delta:   make([]complex128, volume),
		scratch: make([]complex128, volume),
	}
	for dim := 0; dim < 3; dim++ {
		sol.Force[dim] = make([]float64, volume)
	}

	return sol, nil
}

// Solve computes the force grids from the current contents of Rho at
// the given scale factor. The zero mode of the density is dropped, so
// only contrast against the mean sources a force.
func (sol *Solver) Solve(a, omegaM float64) error {
	for i, rho := range sol.Rho {
		sol.delta[i] = complex(rho, 0)
	}

	if err := sol.t.Forward(sol.delta); err != nil { return err }
	sol.delta[0] = 0

	for dim := 0; dim < 3; dim++ {
		sol.gradient(dim, a, omegaM)
		if err := sol.t.Inverse(sol.scratch); err != nil { return err }

		// The imaginary parts hold only the self conjugate Nyquist
		// terms, so dropping them keeps the difference kernel odd.
		force := sol.Force[dim]
		for i := range force {
			force[i] = real(sol.scratch[i])
		}
	}

	return nil
}

// Delta returns the Fourier transform of the density contrast
// computed by the last call to Solve.
func (sol *Solver) Delta() []complex128 { return sol.delta }

// gradient fills scratch with the transform of the force along the
// given axis, i k G(k) delta(k) with G the periodic Green's function.
func (sol *Solver) gradient(dim int, a, omegaM float64) {
	amp := 3 * omegaM / (2 * a)
	w := sol.width

	idx := 0
	for z := 0; z < w; z++ {
		kz := sol.freqs[z]
		for y := 0; y < w; y++ {
			ky := sol.freqs[y]
			for x := 0; x < w; x++ {
				kx := sol.freqs[x]

				k2 := kx*kx + ky*ky + kz*kz
				if k2 == 0 {
					sol.scratch[idx] = 0
					idx++
					continue
				}

				var k float64
				switch dim {
				case 0:
					k = kx
				case 1:
					k = ky
				default:
					k = kz
				}

				sol.scratch[idx] = sol.delta[idx] * complex(0, amp*k/k2)
				idx++
			}
		}
	}
}
