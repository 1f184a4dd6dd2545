package gopm

import (
	"fmt"
)

// ConfigError reports a config parameter with a disallowed value.
type ConfigError struct {
	Field   string
	Message string
}

func (err *ConfigError) Error() string { return err.Message }

// AllocationError reports a failure to set up the grids, transforms,
// or particles backing a simulation.
type AllocationError struct {
	Err error
}

func (err *AllocationError) Error() string {
	return fmt.Sprintf("Could not set up the simulation. %s",
		err.Err.Error())
}

// TransformError reports a Fourier transform failure during a step.
type TransformError struct {
	Step int
	Err  error
}

func (err *TransformError) Error() string {
	return fmt.Sprintf("Step %d could not run its transforms. %s",
		err.Step, err.Err.Error())
}

// InstabilityError reports non-finite particle state after a step,
// which usually means the time steps are too large for the forces in
// the box.
type InstabilityError struct {
	Step     int
	Quantity string
}

func (err *InstabilityError) Error() string {
	return fmt.Sprintf("Step %d produced a non-finite %s.",
		err.Step, err.Quantity)
}

// StatusCode maps an error returned by a run onto a process exit
// code. nil maps to 0 and errors from outside the simulation map
// to 1.
func StatusCode(err error) int {
	switch err.(type) {
	case nil:
		return 0
	case *ConfigError:
		return 1
	case *AllocationError:
		return 2
	case *TransformError:
		return 3
	case *InstabilityError:
		return 4
	}
	return 1
}
