package chambolle

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrShapeMismatch indicates empty inputs or inputs whose shapes differ.
	ErrShapeMismatch = errors.New("chambolle: shape mismatch")

	// ErrNumericalDivergence indicates a non-finite error metric or a
	// runaway fidelity residual, typically from a step size above the
	// stability bound.
	ErrNumericalDivergence = errors.New("chambolle: numerical divergence")

	// ErrInvalidConfig indicates a configuration value out of range.
	ErrInvalidConfig = errors.New("chambolle: invalid config")
)

// DivergenceError describes where and how a solve diverged.
type DivergenceError struct {
	Step   int     // Step that produced the offending value
	Value  float64 // Offending error metric or residual
	Reason string
}

// Error implements the error interface.
func (e *DivergenceError) Error() string {
	return fmt.Sprintf("%v at step %d: %s (value %g)", ErrNumericalDivergence, e.Step, e.Reason, e.Value)
}

// Unwrap returns ErrNumericalDivergence.
func (e *DivergenceError) Unwrap() error {
	return ErrNumericalDivergence
}
