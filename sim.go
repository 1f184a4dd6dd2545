package gopm

import (
	"fmt"
	"math"

	"github.com/phil-mansfield/gopm/cosmo"
	"github.com/phil-mansfield/gopm/density"
	"github.com/phil-mansfield/gopm/gravity"
	"github.com/phil-mansfield/gopm/io"
)

// Simulation steps a set of Particles forward with a particle mesh
// force.
type Simulation struct {
	Parts *Particles
	State State
	Step  int     // completed steps
	A     float64 // scale factor of the current positions

	con   *io.NbodyConfig
	man   *density.Manager
	sol   *gravity.Solver
	accel []float64
	da    float64
}

// NewSimulation validates con and allocates the grids needed to step
// the given particles. The particles are stepped in place.
func NewSimulation(con *io.NbodyConfig, parts *Particles) (*Simulation, error) {
	if err := validateConfig(con); err != nil {
		return nil, err
	}
	if len(parts.X) != len(parts.P) {
		return nil, &AllocationError{fmt.Errorf(
			"There are %d positions, but %d momenta.",
			len(parts.X), len(parts.P),
		)}
	} else if len(parts.X) == 0 {
		return nil, &AllocationError{fmt.Errorf("There are no particles.")}
	}

	sol, err := gravity.NewSolver(con.GridWidth, con.Threads)
	if err != nil {
		return nil, &AllocationError{err}
	}

	return &Simulation{
		Parts: parts,
		State: Initialized,
		A:     con.ScaleFactorStart,

		con:   con,
		man:   density.NewManager(density.CloudInCell, con.GridWidth, con.Threads),
		sol:   sol,
		accel: make([]float64, len(parts.X)),
		da: (con.ScaleFactorEnd - con.ScaleFactorStart) /
			float64(con.Steps),
	}, nil
}

// Advance takes one kick drift step. The first kick is a half step, so
// momenta sit half a step behind positions for the rest of the run.
func (sim *Simulation) Advance() error {
	if sim.State == Finished || sim.State == Failed {
		return fmt.Errorf("A %v simulation cannot advance.", sim.State)
	}

	a := sim.A
	gw := sim.con.GridWidth
	ptVal := float64(gw*gw*gw) / float64(len(sim.Parts.X))

	rho := sim.sol.Rho
	for i := range rho {
		rho[i] = 0
	}
	sim.man.Interpolate(rho, sim.Parts.X, ptVal)

	if err := sim.sol.Solve(a, sim.con.OmegaM); err != nil {
		sim.State = Failed
		return &TransformError{sim.Step + 1, err}
	}

	sim.kick(a)
	sim.drift(a)

	if err := sim.checkFinite(); err != nil {
		sim.State = Failed
		return err
	}

	sim.Step++
	sim.A = sim.con.ScaleFactorStart + sim.da*float64(sim.Step)
	if sim.Step == sim.con.Steps {
		sim.State = Finished
	} else {
		sim.State = Stepping
	}
	return nil
}

// kick updates momenta with the force sampled at the current particle
// positions.
func (sim *Simulation) kick(a float64) {
	dKick := sim.da
	if sim.Step == 0 {
		dKick /= 2
	}
	amp := sim.f(a) * dKick

	ps := sim.Parts.P
	for dim := 0; dim < 3; dim++ {
		sim.man.Eval(sim.sol.Force[dim], sim.Parts.X, sim.accel)
		for i := range ps {
			ps[i][dim] += amp * sim.accel[i]
		}
	}
}

// drift moves positions with the momenta, which now sit at the half
// step, and wraps them back into the box.
func (sim *Simulation) drift(a float64) {
	aHalf := a + sim.da/2
	amp := sim.f(aHalf) / (aHalf * aHalf) * sim.da
	width := float64(sim.con.GridWidth)

	xs, ps := sim.Parts.X, sim.Parts.P
	for i := range xs {
		xs[i][0] += amp * ps[i][0]
		xs[i][1] += amp * ps[i][1]
		xs[i][2] += amp * ps[i][2]
		xs[i].ModSelf(width)
	}
}

// f is the measure converting time derivatives into scale factor
// derivatives, 1 / (a E(a)).
func (sim *Simulation) f(a float64) float64 {
	return 1 / (a * cosmo.HubbleE(sim.con.OmegaM, sim.con.OmegaL, a))
}

func (sim *Simulation) checkFinite() error {
	for i := range sim.Parts.X {
		for k := 0; k < 3; k++ {
			if !finite(sim.Parts.X[i][k]) {
				return &InstabilityError{sim.Step + 1, "position"}
			}
			if !finite(sim.Parts.P[i][k]) {
				return &InstabilityError{sim.Step + 1, "momentum"}
			}
		}
	}
	return nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// validateConfig converts the first failing Valid method into a
// ConfigError naming the offending parameter.
func validateConfig(con *io.NbodyConfig) error {
	switch {
	case !con.ValidBoxWidth():
		return configErrorf("BoxWidth",
			"BoxWidth = %g, but it must be positive.", con.BoxWidth)
	case !con.ValidGridWidth():
		return configErrorf("GridWidth",
			"GridWidth = %d, but it must be a power of two between "+
				"8 and 1024.", con.GridWidth)
	case !con.ValidParticleWidth():
		return configErrorf("ParticleWidth",
			"ParticleWidth = %d, but it must be at least 2.",
			con.ParticleWidth)
	case !con.ValidOmegaM():
		return configErrorf("OmegaM",
			"OmegaM = %g, but it must be in (0, 1].", con.OmegaM)
	case !con.ValidOmegaL():
		return configErrorf("OmegaL",
			"OmegaL = %g, but it must be in [0, 1].", con.OmegaL)
	case !con.ValidH100():
		return configErrorf("H100",
			"H100 = %g, but it must be positive.", con.H100)
	case !con.ValidSigma8():
		return configErrorf("Sigma8",
			"Sigma8 = %g, but it must be positive.", con.Sigma8)
	case !con.ValidSpectralIndex():
		return configErrorf("SpectralIndex",
			"SpectralIndex = %g, but it must be positive.",
			con.SpectralIndex)
	case !con.ValidScaleFactorStart():
		return configErrorf("ScaleFactorStart",
			"ScaleFactorStart = %g, but it must be positive.",
			con.ScaleFactorStart)
	case !con.ValidScaleFactorEnd():
		return configErrorf("ScaleFactorEnd",
			"ScaleFactorEnd = %g, but it must be larger than "+
				"ScaleFactorStart = %g.",
			con.ScaleFactorEnd, con.ScaleFactorStart)
	case !con.ValidSteps():
		return configErrorf("Steps",
			"Steps = %d, but it must be positive.", con.Steps)
	case !con.ValidTransferFunctionFile():
		return configErrorf("TransferFunctionFile",
			"No TransferFunctionFile was given.")
	case !con.ValidOutputDir():
		return configErrorf("OutputDir", "No OutputDir was given.")
	case !con.ValidSnapshotPrefix():
		return configErrorf("SnapshotPrefix", "SnapshotPrefix is empty.")
	case !con.ValidSnapshotEvery():
		return configErrorf("SnapshotEvery",
			"SnapshotEvery = %d, but it must be positive.",
			con.SnapshotEvery)
	case !con.ValidPowerSpectrumEvery():
		return configErrorf("PowerSpectrumEvery",
			"PowerSpectrumEvery = %d, but it cannot be negative.",
			con.PowerSpectrumEvery)
	case !con.ValidPowerSpectrumBins():
		return configErrorf("PowerSpectrumBins",
			"PowerSpectrumBins = %d, but it cannot be negative.",
			con.PowerSpectrumBins)
	case !con.ValidThreads():
		return configErrorf("Threads",
			"Threads = %d, but it cannot be negative.", con.Threads)
	}
	return nil
}

func configErrorf(field, format string, args ...interface{}) *ConfigError {
	return &ConfigError{field, fmt.Sprintf(format, args...)}
}
