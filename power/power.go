/*package power bins a Fourier space density contrast into radial
shells, giving the power spectrum of the field.
*/
package power

import (
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/floats"

	"github.com/phil-mansfield/gopm/fourier"
)

// Spectrum holds the mean power and mode count of every non empty
// shell. Wavenumbers are in comoving units of the box, h/Mpc when the
// box width is in Mpc/h.
type Spectrum struct {
	Ks, Ps []float64
	Counts []int
}

// Estimate bins |delta(k)|^2 into logarithmic shells between the
// fundamental mode and the Nyquist mode of the grid. Power follows
// the convention P(k) = |delta(k)|^2 L^3 / Ng^6, which is volume
// independent for a fixed underlying field. Shells containing no
// modes are left out of the result.
func Estimate(
	delta []complex128, width int, boxWidth float64, bins int,
) (*Spectrum, error) {
	volume := width * width * width
	if len(delta) != volume {
		return nil, fmt.Errorf(
			"Spectrum length %d does not match grid volume %d.",
			len(delta), volume,
		)
	}
	if bins <= 0 {
		return nil, fmt.Errorf("Bin count %d must be positive.", bins)
	}
	if boxWidth <= 0 {
		return nil, fmt.Errorf("Box width %g must be positive.", boxWidth)
	}

	kMin := 2 * math.Pi / boxWidth
	kMax := math.Pi * float64(width) / boxWidth
	edges := floats.Span(make([]float64, bins+1), math.Log(kMin), math.Log(kMax))
	dln := (edges[bins] - edges[0]) / float64(bins)

	norm := boxWidth * boxWidth * boxWidth /
		(float64(volume) * float64(volume))
	freqs := fourier.Freqs(width, boxWidth)

	ks := make([]float64, bins)
	ps := make([]float64, bins)
	counts := make([]int, bins)

	idx := 0
	for z := 0; z < width; z++ {
		kz := freqs[z]
		for y := 0; y < width; y++ {
			ky := freqs[y]
			for x := 0; x < width; x++ {
				kx := freqs[x]
				k2 := kx*kx + ky*ky + kz*kz

				// Skips the zero mode and the corner modes past the
				// Nyquist sphere.
				if k2 == 0 || k2 > kMax*kMax {
					idx++
					continue
				}

				k := math.Sqrt(k2)
				b := int((math.Log(k) - edges[0]) / dln)
				if b >= bins { b = bins - 1 }

				c := delta[idx]
				ks[b] += k
				ps[b] += (real(c)*real(c) + imag(c)*imag(c)) * norm
				counts[b]++

				idx++
			}
		}
	}

	sp := &Spectrum{}
	for b := 0; b < bins; b++ {
		if counts[b] == 0 { continue }
		n := float64(counts[b])
		sp.Ks = append(sp.Ks, ks[b]/n)
		sp.Ps = append(sp.Ps, ps[b]/n)
		sp.Counts = append(sp.Counts, counts[b])
	}

	return sp, nil
}

// Write writes the spectrum as a three column text table of
// wavenumber, power, and mode count.
func (sp *Spectrum) Write(fname string) error {
	f, err := os.Create(fname)
	if err != nil { return err }
	defer f.Close()

	if _, err := fmt.Fprintf(f, "# k P(k) modes\n"); err != nil {
		return err
	}
	for i := range sp.Ks {
		_, err := fmt.Fprintf(
			f, "%.10g %.10g %d\n", sp.Ks[i], sp.Ps[i], sp.Counts[i],
		)
		if err != nil { return err }
	}

	return nil
}
