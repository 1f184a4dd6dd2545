package io

import (
	"gopkg.in/gcfg.v1"
)

const ExampleNbodyFile = `[nbody]

#######################
# Required Parameters #
#######################

# Comoving width of the simulation box in Mpc/h.
BoxWidth = 64

# Number of grid cells across one side of the box. Must be a power of
# two between 8 and 1024.
GridWidth = 32

# Number of particles across one side of the box. The total particle
# count is ParticleWidth^3. It does not need to match GridWidth.
ParticleWidth = 32

# Cosmological parameters: matter density, vacuum density, and the
# Hubble constant in units of 100 km/s/Mpc.
OmegaM = 0.27
OmegaL = 0.73
H100 = 0.70

# Normalization of the linear power spectrum at z = 0 and its
# primordial slope.
Sigma8 = 0.80
SpectralIndex = 0.96

# Scale factor range covered by the run and the number of equal scale
# factor steps taken across it.
ScaleFactorStart = 0.02
ScaleFactorEnd = 1.0
Steps = 200

# Two column text table giving wavenumbers in h/Mpc and the transfer
# function at those wavenumbers, ordered by increasing wavenumber.
TransferFunctionFile = path/to/transfer.dat

# Directory which output files will be written to.
OutputDir = path/to/output/dir

#######################
# Optional Parameters #
#######################

# Seed for the initial condition generator. Runs with the same seed
# and parameters produce bit-identical initial conditions.
# Seed = 0

# Leading text of snapshot file names. A run writes <prefix>.zel for
# the initial conditions and <prefix>.nbody_000, <prefix>.nbody_001,
# ... for the stepped snapshots.
# SnapshotPrefix = sim

# Write a particle snapshot every this many steps. The final step is
# always written.
# SnapshotEvery = 1

# Write a power spectrum every this many steps. When 0, only the
# spectrum of the final step is written.
# PowerSpectrumEvery = 0

# Number of radial shells in each power spectrum. Defaults to half
# the grid width.
# PowerSpectrumBins = 16

# Number of worker goroutines. Defaults to the number of CPUs.
# Threads = 4

# Output files which are useful for profiling and debugging. Generally, there
# isn't a reason to use these unless something goes wrong.
# ProfileFile = prof.out
# LogFile = log.out`

type NbodyConfig struct {
	// Required
	BoxWidth                         float64
	GridWidth, ParticleWidth         int
	OmegaM, OmegaL, H100             float64
	Sigma8, SpectralIndex            float64
	ScaleFactorStart, ScaleFactorEnd float64
	Steps                            int
	TransferFunctionFile             string
	OutputDir                        string

	// Optional
	Seed                 int64
	SnapshotPrefix       string
	SnapshotEvery        int
	PowerSpectrumEvery   int
	PowerSpectrumBins    int
	Threads              int
	LogFile, ProfileFile string
}

type NbodyWrapper struct {
	Nbody NbodyConfig
}

func DefaultNbodyWrapper() *NbodyWrapper {
	con := NbodyConfig{}
	con.SnapshotPrefix = "sim"
	con.SnapshotEvery = 1
	return &NbodyWrapper{con}
}

// ReadNbodyConfig parses a config file without validating it. Callers
// check the Valid methods so that they can name the offending field.
func ReadNbodyConfig(fname string) (*NbodyConfig, error) {
	wrap := DefaultNbodyWrapper()
	if err := gcfg.ReadFileInto(wrap, fname); err != nil {
		return nil, err
	}
	return &wrap.Nbody, nil
}

func (con *NbodyConfig) ValidBoxWidth() bool {
	return con.BoxWidth > 0
}

func (con *NbodyConfig) ValidGridWidth() bool {
	w := con.GridWidth
	if w < 8 || w > 1024 {
		return false
	}
	for w%2 == 0 {
		w /= 2
	}
	return w == 1
}

func (con *NbodyConfig) ValidParticleWidth() bool {
	return con.ParticleWidth >= 2
}

func (con *NbodyConfig) ValidOmegaM() bool {
	return con.OmegaM > 0 && con.OmegaM <= 1
}

func (con *NbodyConfig) ValidOmegaL() bool {
	return con.OmegaL >= 0 && con.OmegaL <= 1
}

func (con *NbodyConfig) ValidH100() bool {
	return con.H100 > 0
}

func (con *NbodyConfig) ValidSigma8() bool {
	return con.Sigma8 > 0
}

func (con *NbodyConfig) ValidSpectralIndex() bool {
	return con.SpectralIndex > 0
}

func (con *NbodyConfig) ValidScaleFactorStart() bool {
	return con.ScaleFactorStart > 0
}

func (con *NbodyConfig) ValidScaleFactorEnd() bool {
	return con.ScaleFactorEnd > con.ScaleFactorStart
}

func (con *NbodyConfig) ValidSteps() bool {
	return con.Steps > 0
}

func (con *NbodyConfig) ValidTransferFunctionFile() bool {
	return con.TransferFunctionFile != ""
}

func (con *NbodyConfig) ValidOutputDir() bool {
	return con.OutputDir != ""
}

func (con *NbodyConfig) ValidSnapshotPrefix() bool {
	return con.SnapshotPrefix != ""
}

func (con *NbodyConfig) ValidSnapshotEvery() bool {
	return con.SnapshotEvery > 0
}

func (con *NbodyConfig) ValidPowerSpectrumEvery() bool {
	return con.PowerSpectrumEvery >= 0
}

func (con *NbodyConfig) ValidPowerSpectrumBins() bool {
	return con.PowerSpectrumBins >= 0
}

func (con *NbodyConfig) ValidThreads() bool {
	return con.Threads >= 0
}
