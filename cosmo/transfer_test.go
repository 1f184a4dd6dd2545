package cosmo

import (
	"io/ioutil"
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func powerLawTable(amp, slope float64, n int) (ks, ts []float64) {
	ks = make([]float64, n)
	ts = make([]float64, n)
	for i := range ks {
		lnK := math.Log(1e-2) + float64(i)*math.Log(1e4)/float64(n-1)
		ks[i] = math.Exp(lnK)
		ts[i] = amp * math.Pow(ks[i], slope)
	}
	return ks, ts
}

// A pure power law is linear in log-log space, so the fit reproduces it
// exactly both inside and outside the tabulated range.
func TestTransferPowerLaw(t *testing.T) {
	ks, ts := powerLawTable(2, -1.5, 20)
	tf, err := NewTransferFunction(ks, ts)
	assert.NoError(t, err)

	for _, k := range []float64{1e-4, 1e-2, 0.3, 1, 57, 1e2, 1e4} {
		want := 2 * math.Pow(k, -1.5)
		assert.InEpsilon(t, want, tf.At(k), 1e-8, "k = %g", k)
	}

	assert.Equal(t, 0.0, tf.At(0), "T at k = 0")
	assert.Equal(t, 0.0, tf.At(-1), "T at negative k")
}

func TestTransferCurvedTable(t *testing.T) {
	n := 200
	ks := make([]float64, n)
	ts := make([]float64, n)
	for i := range ks {
		lnK := math.Log(1e-3) + float64(i)*math.Log(1e4)/float64(n-1)
		ks[i] = math.Exp(lnK)
		ts[i] = math.Exp(-lnK * lnK / 8)
	}

	tf, err := NewTransferFunction(ks, ts)
	assert.NoError(t, err)

	for i := range ks {
		assert.InEpsilon(t, ts[i], tf.At(ks[i]), 1e-8, "table row %d", i)
	}

	// Midpoints well inside the table.
	for i := 50; i < 150; i++ {
		k := math.Sqrt(ks[i] * ks[i+1])
		want := math.Exp(-math.Log(k) * math.Log(k) / 8)
		assert.InEpsilon(t, want, tf.At(k), 1e-3, "midpoint %d", i)
	}
}

func TestTransferBadTables(t *testing.T) {
	_, err := NewTransferFunction([]float64{1}, []float64{1})
	assert.Error(t, err, "one row")

	_, err = NewTransferFunction([]float64{1, 2}, []float64{1})
	assert.Error(t, err, "mismatched lengths")

	_, err = NewTransferFunction([]float64{1, 2, 2}, []float64{1, 1, 1})
	assert.Error(t, err, "non increasing wavenumbers")

	_, err = NewTransferFunction([]float64{2, 1}, []float64{1, 1})
	assert.Error(t, err, "decreasing wavenumbers")

	_, err = NewTransferFunction([]float64{0, 1}, []float64{1, 1})
	assert.Error(t, err, "zero wavenumber")

	_, err = NewTransferFunction([]float64{1, 2}, []float64{1, -1})
	assert.Error(t, err, "negative amplitude")
}

func TestReadTransferFunction(t *testing.T) {
	f, err := ioutil.TempFile("", "transfer_test")
	assert.NoError(t, err)
	defer os.Remove(f.Name())

	body := `# k T
0.01 1.0
0.1 0.8
1.0 0.2
10.0 0.01
`
	_, err = f.WriteString(body)
	assert.NoError(t, err)
	assert.NoError(t, f.Close())

	tf, err := ReadTransferFunction(f.Name())
	assert.NoError(t, err)
	assert.InEpsilon(t, 0.8, tf.At(0.1), 1e-8, "table value")

	_, err = ReadTransferFunction(f.Name() + ".does_not_exist")
	assert.Error(t, err, "missing file")
}

func TestPowerSpectrumNormalization(t *testing.T) {
	ks, ts := powerLawTable(1, 0, 10)
	tf, err := NewTransferFunction(ks, ts)
	assert.NoError(t, err)

	p := NewPowerSpectrum(tf, 1, 0.8)
	assert.Greater(t, p.Amp, 0.0, "positive amplitude")

	s2 := p.sigma2(8)
	assert.InEpsilon(t, 0.64, s2, 1e-8, "sigma8 self consistency")

	// P(k) = Amp k for a flat transfer function with index 1.
	assert.InEpsilon(t, p.Amp*0.3, p.At(0.3), 1e-8, "power law form")
	assert.Equal(t, 0.0, p.At(0), "P at k = 0")
}
