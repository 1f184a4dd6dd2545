/*package fourier computes in-place three dimensional Fourier transforms
over cubic grids stored in flat x-major order.
*/
package fourier

import (
	"fmt"
	"math"
	"runtime"

	"github.com/mjibson/go-dsp/fft"
)

// Lines are parallelized here, one goroutine per worker, so go-dsp's
// internal pool is held at a single worker.
func init() { fft.SetWorkerPoolSize(1) }

// Transform computes forward and inverse 3D transforms by applying 1D
// transforms along each axis in turn. The inverse carries a 1/n factor
// per axis, so a forward transform followed by an inverse one returns
// the original grid.
type Transform struct {
	width, area, volume int
	threads             int
	bufs                [][]complex128
}

func NewTransform(width, threads int) (*Transform, error) {
	if width <= 0 {
		return nil, fmt.Errorf("Grid width %d must be positive.", width)
	}
	if threads <= 0 { threads = runtime.NumCPU() }
	if threads > width*width { threads = width * width }

	t := &Transform{
		width:  width,
		area:   width * width,
		volume: width * width * width,

		threads: threads,
		bufs:    make([][]complex128, threads),
	}
	for i := range t.bufs {
		t.bufs[i] = make([]complex128, width)
	}

	return t, nil
}

func (t *Transform) Forward(data []complex128) error {
	return t.apply(data, false)
}

func (t *Transform) Inverse(data []complex128) error {
	return t.apply(data, true)
}

func (t *Transform) apply(data []complex128, inverse bool) error {
	if len(data) != t.volume {
		return fmt.Errorf(
			"Data length %d does not match grid volume %d.",
			len(data), t.volume,
		)
	}

	for axis := 0; axis < 3; axis++ {
		out := make(chan int, t.threads)

		for id := 0; id < t.threads-1; id++ {
			go t.chanTransform(id, axis, data, inverse, out)
		}
		t.chanTransform(t.threads-1, axis, data, inverse, out)

		for i := 0; i < t.threads; i++ { <-out }
	}

	return nil
}

// chanTransform transforms every threads'th line of the given axis,
// starting at line id. Lines owned by different workers are disjoint.
func (t *Transform) chanTransform(
	id, axis int, data []complex128, inverse bool, out chan<- int,
) {
	buf := t.bufs[id]

	for i := id; i < t.area; i += t.threads {
		start, stride := t.line(axis, i)

		for j := 0; j < t.width; j++ {
			buf[j] = data[start+j*stride]
		}

		var res []complex128
		if inverse {
			res = fft.IFFT(buf)
		} else {
			res = fft.FFT(buf)
		}

		for j := 0; j < t.width; j++ {
			data[start+j*stride] = res[j]
		}
	}

	out <- id
}

// line gives the flat index of the first cell of the ith line along
// the given axis and the stride between cells in that line.
func (t *Transform) line(axis, i int) (start, stride int) {
	switch axis {
	case 0:
		return i * t.width, 1
	case 1:
		x, z := i%t.width, i/t.width
		return x + z*t.area, t.width
	default:
		return i, t.area
	}
}

// Freqs returns the angular wavenumber of every mode index of a
// transformed sequence of the given width, for a periodic domain of
// size boxWidth. Indices past width/2 map to negative wavenumbers.
func Freqs(width int, boxWidth float64) []float64 {
	freqs := make([]float64, width)
	scale := 2 * math.Pi / boxWidth

	for i := range freqs {
		if i < (width+1)/2 {
			freqs[i] = scale * float64(i)
		} else {
			freqs[i] = scale * float64(i-width)
		}
	}

	return freqs
}
