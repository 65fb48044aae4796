package chambolle

import (
	"fmt"
	"math"
)

// Config holds the solver parameters.
type Config struct {
	// Mi is the regularization weight. Larger values move more of the image
	// into the fringe component.
	Mi float64

	// Tau is the dual step size. Tau <= 1/8 guarantees convergence; 0.25
	// works in practice and is the default. Larger values are accepted and
	// policed at run time: a growing residual (DivergenceFactor) or a
	// period-2 oscillation of the iterate ends the solve with
	// ErrNumericalDivergence.
	Tau float64

	// Tolerance is the stopping threshold of the convergence policy.
	Tolerance float64

	// StagnationWindow is the number of steps without a new best error
	// after which the reference policy gives up.
	StagnationWindow int

	// MaxIterations bounds every solve. Reaching it is a Stagnated outcome.
	MaxIterations int

	// DivergenceFactor is how far the fidelity residual ‖x − f‖ may grow
	// above its running minimum before the solve is declared divergent.
	DivergenceFactor float64

	// OnStep, if set, is called after every step.
	OnStep func(StepInfo)
}

// StepInfo reports the state of a solve after one step.
type StepInfo struct {
	Step     int
	Error    float64 // Error metric of this step
	Best     float64 // Best error metric so far
	Residual float64 // Fidelity residual ‖x − f‖₂
}

// DefaultConfig returns the default solver parameters.
func DefaultConfig() Config {
	return Config{
		Mi:               100,
		Tau:              0.25,
		Tolerance:        1e-5,
		StagnationWindow: 100,
		MaxIterations:    10000,
		DivergenceFactor: 4,
	}
}

// Validate checks that all parameters are in range.
func (c Config) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"mi", c.Mi},
		{"tau", c.Tau},
		{"tolerance", c.Tolerance},
	}
	for _, p := range positive {
		if !(p.value > 0) || math.IsInf(p.value, 1) {
			return fmt.Errorf("%w: %s must be positive and finite, got %g", ErrInvalidConfig, p.name, p.value)
		}
	}
	if c.StagnationWindow <= 0 {
		return fmt.Errorf("%w: stagnation window must be positive, got %d", ErrInvalidConfig, c.StagnationWindow)
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("%w: max iterations must be positive, got %d", ErrInvalidConfig, c.MaxIterations)
	}
	if !(c.DivergenceFactor > 1) {
		return fmt.Errorf("%w: divergence factor must exceed 1, got %g", ErrInvalidConfig, c.DivergenceFactor)
	}
	return nil
}
