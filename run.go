package gopm

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/phil-mansfield/gopm/cosmo"
	"github.com/phil-mansfield/gopm/fourier"
	"github.com/phil-mansfield/gopm/geom"
	"github.com/phil-mansfield/gopm/ic"
	"github.com/phil-mansfield/gopm/io"
	"github.com/phil-mansfield/gopm/power"
)

// RunInfo describes the outputs of a run.
type RunInfo struct {
	Steps       int
	ScaleFactor float64

	Initial      string
	Snapshots    []string
	PowerSpectra []string
}

// Run generates initial conditions from the given config, steps them
// to the final scale factor, and writes snapshots and power spectra
// along the way. The returned RunInfo lists every file written, even
// when an error cuts the run short.
func Run(con *io.NbodyConfig) (*RunInfo, error) {
	if err := validateConfig(con); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(con.OutputDir, 0755); err != nil {
		return nil, &ConfigError{"OutputDir", err.Error()}
	}

	tf, err := cosmo.ReadTransferFunction(con.TransferFunctionFile)
	if err != nil {
		return nil, &ConfigError{"TransferFunctionFile", err.Error()}
	}
	plin := cosmo.NewPowerSpectrum(tf, con.SpectralIndex, con.Sigma8)

	start := time.Now()
	xs, ps, err := ic.Generate(con, plin)
	if err != nil {
		return nil, &AllocationError{err}
	}
	log.Printf("Generated %d^3 particles in %v.",
		con.ParticleWidth, time.Since(start))

	parts := &Particles{X: xs, P: ps, Mass: particleMass(con)}
	sim, err := NewSimulation(con, parts)
	if err != nil {
		return nil, err
	}

	r, err := newRunner(con, sim)
	if err != nil {
		return nil, err
	}

	path, err := r.writeSnapshot(con.SnapshotPrefix + ".zel")
	if err != nil {
		return r.info, err
	}
	r.info.Initial = path

	for sim.State == Initialized || sim.State == Stepping {
		stepStart := time.Now()
		if err := sim.Advance(); err != nil {
			return r.info, err
		}
		r.info.Steps = sim.Step
		r.info.ScaleFactor = sim.A
		log.Printf("Step %d / %d (a = %.4f) took %v.",
			sim.Step, con.Steps, sim.A, time.Since(stepStart))

		if err := r.writeOutputs(); err != nil {
			return r.info, err
		}
	}

	return r.info, nil
}

// particleMass returns the mass in M_sun/h which makes the box's mean
// density the cosmological mean.
func particleMass(con *io.NbodyConfig) float64 {
	rho := cosmo.RhoAverage(100*con.H100, con.OmegaM, con.OmegaL, 0)
	pw := con.ParticleWidth
	n := float64(pw) * float64(pw) * float64(pw)
	L := con.BoxWidth
	return rho * L * L * L / n
}

// runner owns the output buffers of a run, so snapshot and spectrum
// writes don't allocate grids of their own each time.
type runner struct {
	con  *io.NbodyConfig
	sim  *Simulation
	info *RunInfo

	t          *fourier.Transform
	modes      []complex128
	xbuf, vbuf []geom.Vec
	bins       int
}

func newRunner(con *io.NbodyConfig, sim *Simulation) (*runner, error) {
	gw := con.GridWidth
	t, err := fourier.NewTransform(gw, con.Threads)
	if err != nil {
		return nil, &AllocationError{err}
	}

	bins := con.PowerSpectrumBins
	if bins == 0 {
		bins = gw / 2
	}

	n := len(sim.Parts.X)
	return &runner{
		con: con, sim: sim,
		info:  &RunInfo{ScaleFactor: con.ScaleFactorStart},
		t:     t,
		modes: make([]complex128, gw*gw*gw),
		xbuf:  make([]geom.Vec, n),
		vbuf:  make([]geom.Vec, n),
		bins:  bins,
	}, nil
}

// writeOutputs writes whichever output files are due after the step
// which just completed. The final step always writes both.
func (r *runner) writeOutputs() error {
	con, sim := r.con, r.sim
	last := sim.Step == con.Steps

	if last || sim.Step%con.SnapshotEvery == 0 {
		name := fmt.Sprintf("%s.nbody_%03d", con.SnapshotPrefix, sim.Step)
		path, err := r.writeSnapshot(name)
		if err != nil {
			return err
		}
		r.info.Snapshots = append(r.info.Snapshots, path)
	}

	due := con.PowerSpectrumEvery > 0 &&
		sim.Step%con.PowerSpectrumEvery == 0
	if last || due {
		path, err := r.writeSpectrum(sim.Step)
		if err != nil {
			return err
		}
		r.info.PowerSpectra = append(r.info.PowerSpectra, path)
	}
	return nil
}

// writeSnapshot converts the particles to comoving Mpc/h positions
// and km/s peculiar velocities and writes them under the given name
// in the output directory.
func (r *runner) writeSnapshot(name string) (string, error) {
	con, sim := r.con, r.sim
	a := sim.A
	cell := con.BoxWidth / float64(con.GridWidth)
	vconv := 100 * cell / a

	xs, ps := sim.Parts.X, sim.Parts.P
	copy(r.xbuf, xs)
	geom.ScaleVecs(r.xbuf, cell, con.BoxWidth)
	for i := range ps {
		for k := 0; k < 3; k++ {
			r.vbuf[i][k] = ps[i][k] * vconv
		}
	}

	hd := &io.SnapshotHeader{
		Cosmo: io.CosmologyHeader{
			Z:      1/a - 1,
			OmegaM: con.OmegaM,
			OmegaL: con.OmegaL,
			H100:   con.H100,
		},
		Mass:  sim.Parts.Mass,
		Count: int64(len(xs)), CountWidth: int64(con.ParticleWidth),
		GridWidth: int64(con.GridWidth), Step: int64(sim.Step),
		ScaleFactor: a, TotalWidth: con.BoxWidth,
	}

	path := filepath.Join(con.OutputDir, name)
	if err := io.WriteSnapshot(path, hd, r.xbuf, r.vbuf); err != nil {
		return "", err
	}
	return path, nil
}

// writeSpectrum deposits the current particles, transforms the grid,
// and writes the binned power spectrum for the given step.
func (r *runner) writeSpectrum(step int) (string, error) {
	con, sim := r.con, r.sim
	gw := con.GridWidth
	ptVal := float64(gw*gw*gw) / float64(len(sim.Parts.X))

	rho := sim.sol.Rho
	for i := range rho {
		rho[i] = 0
	}
	sim.man.Interpolate(rho, sim.Parts.X, ptVal)
	for i := range rho {
		r.modes[i] = complex(rho[i], 0)
	}

	if err := r.t.Forward(r.modes); err != nil {
		return "", &TransformError{step, err}
	}

	sp, err := power.Estimate(r.modes, gw, con.BoxWidth, r.bins)
	if err != nil {
		return "", err
	}

	path := filepath.Join(con.OutputDir, fmt.Sprintf("pk.%03d", step))
	if err := sp.Write(path); err != nil {
		return "", err
	}
	return path, nil
}
