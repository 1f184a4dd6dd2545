package cosmo

import (
	"fmt"
	"math"

	"github.com/phil-mansfield/table"

	"github.com/phil-mansfield/gopm/math/interpolate"
)

// TransferFunction is a smooth fit to a tabulated transfer function. It
// can be evaluated at any positive wavenumber: inside the tabulated range
// it follows a cubic spline through the table in log-log space, and
// outside it continues the power law of the nearest table segment.
type TransferFunction struct {
	lnKs, lnTs []float64
	fit        interpolate.Interpolator

	lowSlope, highSlope float64
}

// ReadTransferFunction reads a two column (wavenumber, amplitude) table
// from the given file and fits it.
func ReadTransferFunction(fname string) (*TransferFunction, error) {
	cols, err := table.ReadTable(fname, []int{0, 1}, nil)
	if err != nil {
		return nil, fmt.Errorf(
			"Could not read transfer function table %s: %s", fname, err.Error(),
		)
	}
	return NewTransferFunction(cols[0], cols[1])
}

// NewTransferFunction fits a table of wavenumbers and amplitudes. The
// wavenumbers must be positive and strictly increasing, the amplitudes
// positive, and the table at least two rows long.
func NewTransferFunction(ks, ts []float64) (*TransferFunction, error) {
	if len(ks) != len(ts) {
		return nil, fmt.Errorf(
			"Transfer function table has %d wavenumbers but %d amplitudes.",
			len(ks), len(ts),
		)
	} else if len(ks) < 2 {
		return nil, fmt.Errorf(
			"Transfer function table has %d rows, but at least 2 are needed.",
			len(ks),
		)
	}

	for i := range ks {
		if ks[i] <= 0 {
			return nil, fmt.Errorf(
				"Transfer function table contains the non-positive "+
					"wavenumber %g.", ks[i],
			)
		} else if ts[i] <= 0 {
			return nil, fmt.Errorf(
				"Transfer function table contains the non-positive "+
					"amplitude %g.", ts[i],
			)
		}
		if i > 0 && ks[i] <= ks[i-1] {
			return nil, fmt.Errorf(
				"Transfer function table wavenumbers are not strictly "+
					"increasing at row %d.", i,
			)
		}
	}

	tf := &TransferFunction{}
	tf.lnKs = make([]float64, len(ks))
	tf.lnTs = make([]float64, len(ts))
	for i := range ks {
		tf.lnKs[i] = math.Log(ks[i])
		tf.lnTs[i] = math.Log(ts[i])
	}

	tf.fit = interpolate.NewSpline(tf.lnKs, tf.lnTs)

	n := len(ks)
	tf.lowSlope = (tf.lnTs[1] - tf.lnTs[0]) / (tf.lnKs[1] - tf.lnKs[0])
	tf.highSlope = (tf.lnTs[n-1] - tf.lnTs[n-2]) / (tf.lnKs[n-1] - tf.lnKs[n-2])

	return tf, nil
}

// At evaluates the fitted transfer function at the wavenumber k.
// Non-positive wavenumbers return 0.
func (tf *TransferFunction) At(k float64) float64 {
	if k <= 0 {
		return 0
	}

	lnK := math.Log(k)
	n := len(tf.lnKs)
	if lnK < tf.lnKs[0] {
		return math.Exp(tf.lnTs[0] + tf.lowSlope*(lnK-tf.lnKs[0]))
	} else if lnK > tf.lnKs[n-1] {
		return math.Exp(tf.lnTs[n-1] + tf.highSlope*(lnK-tf.lnKs[n-1]))
	}
	return math.Exp(tf.fit.Eval(lnK))
}

// PowerSpectrum is a linear z = 0 power spectrum,
// P(k) = Amp k^Index T(k)^2, with the amplitude fixed by sigma8.
type PowerSpectrum struct {
	T     *TransferFunction
	Index float64
	Amp   float64
}

// NewPowerSpectrum normalizes a power spectrum with the given spectral
// index so that the top hat variance at 8 Mpc/h equals sigma8^2.
func NewPowerSpectrum(
	tf *TransferFunction, index, sigma8 float64,
) *PowerSpectrum {
	p := &PowerSpectrum{tf, index, 1}
	p.Amp = sigma8 * sigma8 / p.sigma2(8)
	return p
}

// At evaluates the power spectrum at the wavenumber k.
func (p *PowerSpectrum) At(k float64) float64 {
	if k <= 0 {
		return 0
	}
	t := p.T.At(k)
	return p.Amp * math.Pow(k, p.Index) * t * t
}

// sigma2 computes the variance of the density field smoothed with a top
// hat window of the given radius.
func (p *PowerSpectrum) sigma2(r float64) float64 {
	f := func(lnK float64) float64 {
		k := math.Exp(lnK)
		w := topHat(k * r)
		return k * k * k * p.At(k) * w * w / (2 * math.Pi * math.Pi)
	}
	return simpson(f, math.Log(1e-4), math.Log(1e2), 1024)
}

// topHat is the Fourier transform of a real space top hat window.
func topHat(x float64) float64 {
	if x < 1e-3 {
		return 1 - x*x/10
	}
	return 3 * (math.Sin(x) - x*math.Cos(x)) / (x * x * x)
}
