package gopm

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/phil-mansfield/gopm/geom"
	"github.com/phil-mansfield/gopm/io"
)

func testConfig() *io.NbodyConfig {
	return &io.NbodyConfig{
		BoxWidth: 32, GridWidth: 16, ParticleWidth: 8,
		OmegaM: 0.27, OmegaL: 0.73, H100: 0.7,
		Sigma8: 0.8, SpectralIndex: 0.96,
		ScaleFactorStart: 0.1, ScaleFactorEnd: 1, Steps: 5,
		TransferFunctionFile: "transfer.dat", OutputDir: ".",
		SnapshotPrefix: "sim", SnapshotEvery: 1,
		Threads: 2, Seed: 1,
	}
}

func randomParticles(n int, width float64) *Particles {
	xs := make([]geom.Vec, n)
	ps := make([]geom.Vec, n)
	for i := range xs {
		for k := 0; k < 3; k++ {
			xs[i][k] = rand.Float64() * width
			ps[i][k] = (rand.Float64() - 0.5) * 0.1
		}
	}
	return &Particles{X: xs, P: ps, Mass: 1}
}

func cloneParticles(parts *Particles) *Particles {
	out := &Particles{
		X:    make([]geom.Vec, len(parts.X)),
		P:    make([]geom.Vec, len(parts.P)),
		Mass: parts.Mass,
	}
	copy(out.X, parts.X)
	copy(out.P, parts.P)
	return out
}

func TestValidateConfig(t *testing.T) {
	if err := validateConfig(testConfig()); err != nil {
		t.Fatalf("A valid config failed validation: %s", err.Error())
	}

	table := []struct {
		field  string
		mutate func(*io.NbodyConfig)
	}{
		{"BoxWidth", func(c *io.NbodyConfig) { c.BoxWidth = -1 }},
		{"GridWidth", func(c *io.NbodyConfig) { c.GridWidth = 100 }},
		{"ParticleWidth", func(c *io.NbodyConfig) { c.ParticleWidth = 0 }},
		{"OmegaM", func(c *io.NbodyConfig) { c.OmegaM = 0 }},
		{"OmegaL", func(c *io.NbodyConfig) { c.OmegaL = 2 }},
		{"H100", func(c *io.NbodyConfig) { c.H100 = 0 }},
		{"Sigma8", func(c *io.NbodyConfig) { c.Sigma8 = 0 }},
		{"SpectralIndex", func(c *io.NbodyConfig) { c.SpectralIndex = 0 }},
		{"ScaleFactorStart",
			func(c *io.NbodyConfig) { c.ScaleFactorStart = 0 }},
		{"ScaleFactorEnd",
			func(c *io.NbodyConfig) { c.ScaleFactorEnd = 0.05 }},
		{"Steps", func(c *io.NbodyConfig) { c.Steps = 0 }},
		{"TransferFunctionFile",
			func(c *io.NbodyConfig) { c.TransferFunctionFile = "" }},
		{"OutputDir", func(c *io.NbodyConfig) { c.OutputDir = "" }},
		{"SnapshotPrefix",
			func(c *io.NbodyConfig) { c.SnapshotPrefix = "" }},
		{"SnapshotEvery",
			func(c *io.NbodyConfig) { c.SnapshotEvery = 0 }},
		{"PowerSpectrumEvery",
			func(c *io.NbodyConfig) { c.PowerSpectrumEvery = -1 }},
		{"PowerSpectrumBins",
			func(c *io.NbodyConfig) { c.PowerSpectrumBins = -2 }},
		{"Threads", func(c *io.NbodyConfig) { c.Threads = -1 }},
	}

	for i, test := range table {
		con := testConfig()
		test.mutate(con)

		err := validateConfig(con)
		if err == nil {
			t.Errorf("%d) Expected %s to fail validation.", i, test.field)
			continue
		}
		cerr, ok := err.(*ConfigError)
		if !ok {
			t.Errorf("%d) Expected a ConfigError, got %T.", i, err)
		} else if cerr.Field != test.field {
			t.Errorf("%d) Expected an error for %s, got one for %s.",
				i, test.field, cerr.Field)
		}
	}
}

func TestNewSimulationChecks(t *testing.T) {
	con := testConfig()
	parts := randomParticles(100, float64(con.GridWidth))

	bad := testConfig()
	bad.GridWidth = 100
	if _, err := NewSimulation(bad, parts); err == nil {
		t.Errorf("Expected an error for an invalid config.")
	} else if _, ok := err.(*ConfigError); !ok {
		t.Errorf("Expected a ConfigError, got %T.", err)
	}

	short := &Particles{X: parts.X, P: parts.P[:50], Mass: 1}
	if _, err := NewSimulation(con, short); err == nil {
		t.Errorf("Expected an error for mismatched position and " +
			"momentum counts.")
	} else if _, ok := err.(*AllocationError); !ok {
		t.Errorf("Expected an AllocationError, got %T.", err)
	}

	if _, err := NewSimulation(con, &Particles{}); err == nil {
		t.Errorf("Expected an error for an empty particle set.")
	}
}

func TestStateMachine(t *testing.T) {
	con := testConfig()
	con.Steps = 3
	parts := randomParticles(64, float64(con.GridWidth))

	sim, err := NewSimulation(con, parts)
	if err != nil {
		t.Fatalf(err.Error())
	}

	if sim.State != Initialized || sim.Step != 0 {
		t.Fatalf("Expected a new simulation in state %v at step 0, "+
			"got %v at step %d.", Initialized, sim.State, sim.Step)
	}
	if sim.A != con.ScaleFactorStart {
		t.Fatalf("Expected a = %g, got %g.", con.ScaleFactorStart, sim.A)
	}

	states := []State{Stepping, Stepping, Finished}
	for i, want := range states {
		if err := sim.Advance(); err != nil {
			t.Fatalf(err.Error())
		}
		if sim.State != want {
			t.Errorf("%d) Expected state %v, got %v.", i, want, sim.State)
		}
		if sim.Step != i+1 {
			t.Errorf("%d) Expected step %d, got %d.", i, i+1, sim.Step)
		}
	}

	if math.Abs(sim.A-con.ScaleFactorEnd) > 1e-10 {
		t.Errorf("Expected a final scale factor of %g, got %g.",
			con.ScaleFactorEnd, sim.A)
	}

	if err := sim.Advance(); err == nil {
		t.Errorf("Expected an error when advancing a finished simulation.")
	}
}

func TestAdvanceDeterminism(t *testing.T) {
	con := testConfig()
	parts1 := randomParticles(200, float64(con.GridWidth))
	parts2 := cloneParticles(parts1)

	sim1, err := NewSimulation(con, parts1)
	if err != nil {
		t.Fatalf(err.Error())
	}
	sim2, err := NewSimulation(con, parts2)
	if err != nil {
		t.Fatalf(err.Error())
	}

	for step := 0; step < 3; step++ {
		if err := sim1.Advance(); err != nil {
			t.Fatalf(err.Error())
		}
		if err := sim2.Advance(); err != nil {
			t.Fatalf(err.Error())
		}
	}

	for i := range parts1.X {
		if parts1.X[i] != parts2.X[i] || parts1.P[i] != parts2.P[i] {
			t.Fatalf("Particle %d differs between identical simulations.", i)
		}
	}
}

func TestMomentumConservation(t *testing.T) {
	con := testConfig()
	parts := randomParticles(512, float64(con.GridWidth))

	before := totalMomentum(parts)

	sim, err := NewSimulation(con, parts)
	if err != nil {
		t.Fatalf(err.Error())
	}
	for sim.State != Finished {
		if err := sim.Advance(); err != nil {
			t.Fatalf(err.Error())
		}
	}

	after := totalMomentum(parts)
	for k := 0; k < 3; k++ {
		if math.Abs(after[k]-before[k]) > 1e-8 {
			t.Errorf("Total momentum along dimension %d drifted from "+
				"%g to %g.", k, before[k], after[k])
		}
	}
}

func totalMomentum(parts *Particles) geom.Vec {
	sum := geom.Vec{}
	for i := range parts.P {
		sum.AddSelf(&parts.P[i])
	}
	return sum
}

func TestSingleParticleAtRest(t *testing.T) {
	con := testConfig()
	x0 := geom.Vec{3.3, 7.9, 1.2}
	parts := &Particles{
		X:    []geom.Vec{x0},
		P:    []geom.Vec{{0, 0, 0}},
		Mass: 1,
	}

	sim, err := NewSimulation(con, parts)
	if err != nil {
		t.Fatalf(err.Error())
	}
	for sim.State != Finished {
		if err := sim.Advance(); err != nil {
			t.Fatalf(err.Error())
		}
	}

	// A lone particle only feels its own deposit, which the odd force
	// kernel cancels.
	for k := 0; k < 3; k++ {
		if math.Abs(parts.X[0][k]-x0[k]) > 1e-9 {
			t.Errorf("The particle moved from %g to %g along "+
				"dimension %d.", x0[k], parts.X[0][k], k)
		}
		if math.Abs(parts.P[0][k]) > 1e-9 {
			t.Errorf("The particle gained momentum %g along "+
				"dimension %d.", parts.P[0][k], k)
		}
	}
}

func TestInstability(t *testing.T) {
	con := testConfig()
	parts := randomParticles(64, float64(con.GridWidth))
	parts.P[10][1] = math.NaN()

	sim, err := NewSimulation(con, parts)
	if err != nil {
		t.Fatalf(err.Error())
	}

	err = sim.Advance()
	if err == nil {
		t.Fatalf("Expected a NaN momentum to fail the step.")
	}
	if _, ok := err.(*InstabilityError); !ok {
		t.Fatalf("Expected an InstabilityError, got %T.", err)
	}
	if sim.State != Failed {
		t.Errorf("Expected state %v, got %v.", Failed, sim.State)
	}
	if err := sim.Advance(); err == nil {
		t.Errorf("Expected a failed simulation to refuse to advance.")
	}
}

func TestStatusCode(t *testing.T) {
	table := []struct {
		err  error
		code int
	}{
		{nil, 0},
		{&ConfigError{"BoxWidth", "BoxWidth = 0."}, 1},
		{&AllocationError{fmt.Errorf("Out of memory.")}, 2},
		{&TransformError{3, fmt.Errorf("Bad grid.")}, 3},
		{&InstabilityError{4, "position"}, 4},
		{fmt.Errorf("Some other error."), 1},
	}

	for i, test := range table {
		if code := StatusCode(test.err); code != test.code {
			t.Errorf("%d) Expected status %d, got %d.", i, test.code, code)
		}
	}
}
