/*package ic generates initial conditions with the Zel'dovich
approximation. A Gaussian density field with the target linear power
spectrum is inverted into a displacement field, and particles on a
uniform lattice are moved and given momenta along it.
*/
package ic

import (
	"math"

	"golang.org/x/exp/rand"

	"github.com/phil-mansfield/gopm/cosmo"
	"github.com/phil-mansfield/gopm/density"
	"github.com/phil-mansfield/gopm/fourier"
	"github.com/phil-mansfield/gopm/geom"
	"github.com/phil-mansfield/gopm/io"
	"github.com/phil-mansfield/gopm/math/interpolate"
)

// Generate returns Zel'dovich initial conditions for the given config.
// Positions are in grid cells and momenta are the conjugate momenta
// used by the integrator, a^2 (dx/dt) / H0. Runs with the same seed
// and config produce bit-identical output, so the transforms here are
// run on a single thread.
func Generate(
	con *io.NbodyConfig, plin *cosmo.PowerSpectrum,
) (xs, ps []geom.Vec, err error) {
	gw, pw := con.GridWidth, con.ParticleWidth
	g := geom.NewGrid(gw)

	t, err := fourier.NewTransform(gw, 1)
	if err != nil {
		return nil, nil, err
	}

	delta := whiteNoise(con.Seed, g.Volume)
	if err := t.Forward(delta); err != nil {
		return nil, nil, err
	}
	scaleToPowerSpectrum(delta, con, plin)

	xs = lattice(pw, float64(gw)/float64(pw))
	ps = make([]geom.Vec, len(xs))

	psi := make([]complex128, g.Volume)
	field := make([]float64, g.Volume)
	buf := make([]float64, len(xs))
	intr := density.NewInterpolator(density.CloudInCell, g)
	freqs := fourier.Freqs(gw, float64(gw))

	for dim := 0; dim < 3; dim++ {
		displacementModes(psi, delta, freqs, g, dim)
		if err := t.Inverse(psi); err != nil {
			return nil, nil, err
		}
		for i := range field {
			field[i] = real(psi[i])
		}
		intr.Eval(field, xs, buf, 0, len(xs))
		for i := range buf {
			ps[i][dim] = buf[i]
		}
	}

	qp := momentumPrefactor(con)
	width := float64(gw)
	for i := range xs {
		xs[i].AddSelf(&ps[i])
		xs[i].ModSelf(width)
		ps[i].ScaleSelf(qp)
	}

	return xs, ps, nil
}

// whiteNoise returns real unit variance Gaussian noise. The Fourier
// transform of a real field is Hermitian on its own, so no explicit
// mode pairing is needed.
func whiteNoise(seed int64, n int) []complex128 {
	rng := rand.New(rand.NewSource(uint64(seed)))
	delta := make([]complex128, n)
	for i := range delta {
		delta[i] = complex(rng.NormFloat64(), 0)
	}
	return delta
}

// scaleToPowerSpectrum scales white noise modes so that the grid has
// the linear power spectrum at the starting scale factor. A forward
// transform of unit variance noise gives modes with variance Ng^3,
// while a field with spectrum P has mode variance P D^2 Ng^6 / L^3,
// so every mode is scaled by sqrt(P D^2 Ng^3 / L^3).
func scaleToPowerSpectrum(
	delta []complex128, con *io.NbodyConfig, plin *cosmo.PowerSpectrum,
) {
	gw, L := con.GridWidth, con.BoxWidth
	g := geom.NewGrid(gw)
	freqs := fourier.Freqs(gw, L)
	d := cosmo.GrowthFactor(con.OmegaM, con.OmegaL, con.ScaleFactorStart)
	norm := d * d * float64(g.Volume) / (L * L * L)
	table := powerTable(plin, con)

	idx := 0
	k := [3]float64{}
	for z := 0; z < gw; z++ {
		k[2] = freqs[z]
		for y := 0; y < gw; y++ {
			k[1] = freqs[y]
			for x := 0; x < gw; x++ {
				k[0] = freqs[x]
				k2 := k[0]*k[0] + k[1]*k[1] + k[2]*k[2]
				if k2 == 0 {
					delta[idx] = 0
				} else {
					p := table.Eval(math.Log(k2) / 2)
					delta[idx] *= complex(math.Sqrt(p*norm), 0)
				}
				idx++
			}
		}
	}
}

// powerTable tabulates the power spectrum in log k across the
// wavenumbers the box can hold, so the mode loop doesn't pay for a
// spline evaluation at every mode.
func powerTable(
	plin *cosmo.PowerSpectrum, con *io.NbodyConfig,
) *interpolate.Linear {
	kMin := 0.9 * 2 * math.Pi / con.BoxWidth
	kMax := 1.1 * math.Sqrt(3) * math.Pi *
		float64(con.GridWidth) / con.BoxWidth
	lnMin := math.Log(kMin)
	dx := (math.Log(kMax) - lnMin) / float64(powerTableLen-1)

	ps := make([]float64, powerTableLen)
	for i := range ps {
		ps[i] = plin.At(math.Exp(lnMin + dx*float64(i)))
	}
	return interpolate.NewUniformLinear(lnMin, dx, ps)
}

const powerTableLen = 4096

// displacementModes fills psi with the modes of the displacement field
// along dim, psi = i k_dim delta / k^2. Wavenumbers in grid units give
// displacements in grid cells.
func displacementModes(
	psi, delta []complex128, freqs []float64, g *geom.Grid, dim int,
) {
	idx := 0
	k := [3]float64{}
	for z := 0; z < g.Length; z++ {
		k[2] = freqs[z]
		for y := 0; y < g.Length; y++ {
			k[1] = freqs[y]
			for x := 0; x < g.Length; x++ {
				k[0] = freqs[x]
				k2 := k[0]*k[0] + k[1]*k[1] + k[2]*k[2]
				if k2 == 0 {
					psi[idx] = 0
				} else {
					psi[idx] = delta[idx] * complex(0, k[dim]/k2)
				}
				idx++
			}
		}
	}
}

// lattice returns width^3 points at the given spacing in grid cells.
func lattice(width int, spacing float64) []geom.Vec {
	xs := make([]geom.Vec, width*width*width)
	idx := 0
	for z := 0; z < width; z++ {
		for y := 0; y < width; y++ {
			for x := 0; x < width; x++ {
				xs[idx] = geom.Vec{
					float64(x) * spacing,
					float64(y) * spacing,
					float64(z) * spacing,
				}
				idx++
			}
		}
	}
	return xs
}

// momentumPrefactor converts a displacement at the starting scale
// factor into a conjugate momentum. Linear growth moves particles at
// dx/dt = f H psi, so p = a^2 (dx/dt) / H0 = a^2 E(a) f(a) psi. In an
// Einstein-de Sitter universe this reduces to sqrt(a) psi.
func momentumPrefactor(con *io.NbodyConfig) float64 {
	a := con.ScaleFactorStart
	e := cosmo.HubbleE(con.OmegaM, con.OmegaL, a)
	f := cosmo.GrowthRate(con.OmegaM, con.OmegaL, a)
	return a * a * e * f
}
