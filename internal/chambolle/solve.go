package chambolle

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/fringelab/chambolle/internal/tensor"
)

// Result is the outcome of a solve.
type Result struct {
	// Reconstruction is the fringe component: the best one seen under
	// ReferencePolicy, the latest one under SelfPolicy.
	Reconstruction Grid
	// Iterations is the step that produced Reconstruction.
	Iterations int
	// Steps is the number of update steps executed.
	Steps int
	// Error is the policy's error metric for Reconstruction.
	Error   float64
	Outcome Outcome
	// Backend names the backend that ran the solve.
	Backend string
	Elapsed time.Duration
}

// SolveReference decomposes f, stopping on the RMS error against the known
// fringe reference fRef.
func SolveReference(ctx context.Context, backend tensor.Backend, f, fRef Grid, cfg Config) (Result, error) {
	return Solve(ctx, backend, f, ReferencePolicy{Reference: fRef}, cfg)
}

// SolveSelf decomposes f, stopping when successive reconstructions stop
// changing.
func SolveSelf(ctx context.Context, backend tensor.Backend, f Grid, cfg Config) (Result, error) {
	return Solve(ctx, backend, f, SelfPolicy{}, cfg)
}

// Solve decomposes f on backend until policy stops it or cfg.MaxIterations
// steps have run.
//
// Invalid configuration and shape errors are returned before iterating.
// When ctx is cancelled, or the iteration diverges, the partial Result is
// returned together with the error.
func Solve(ctx context.Context, backend tensor.Backend, f Grid, policy Policy, cfg Config) (Result, error) {
	start := time.Now()
	result := Result{Backend: backend.Name()}

	if err := cfg.Validate(); err != nil {
		return result, err
	}
	if err := f.validate(); err != nil {
		return result, fmt.Errorf("image: %w", err)
	}

	input, err := f.upload(backend)
	if err != nil {
		return result, err
	}
	monitor, err := policy.NewMonitor(backend, input, cfg)
	if err != nil {
		return result, err
	}

	it := NewIterator(backend, input, cfg.Mi, cfg.Tau)
	guard := newDivergenceGuard(backend, input, cfg.DivergenceFactor)

	finish := func(outcome Outcome) Result {
		result.Outcome = outcome
		if x, step, e := monitor.Reconstruction(); x != nil {
			result.Reconstruction = gridOf(x)
			result.Iterations = step
			result.Error = e
		}
		result.Elapsed = time.Since(start)
		return result
	}

	for step := 1; step <= cfg.MaxIterations; step++ {
		x := it.Step()
		result.Steps = step

		residual, err := guard.check(step, x)
		if err != nil {
			return finish(Unfinished), err
		}

		verdict := monitor.Observe(step, x)
		if math.IsNaN(verdict.Error) || math.IsInf(verdict.Error, 0) {
			return finish(Unfinished), &DivergenceError{Step: step, Value: verdict.Error, Reason: "non-finite " + policy.Name() + " error"}
		}
		if cfg.OnStep != nil {
			cfg.OnStep(StepInfo{Step: step, Error: verdict.Error, Best: verdict.Best, Residual: residual})
		}
		if verdict.Done {
			return finish(verdict.Outcome), nil
		}

		if err := ctx.Err(); err != nil {
			return finish(Unfinished), fmt.Errorf("chambolle: stopped after %d steps: %w", step, err)
		}
	}
	return finish(Stagnated), nil
}

// oscillationSteps is the number of consecutive alternating steps that
// mark the iteration as trapped in a period-2 cycle.
const oscillationSteps = 10

// divergenceGuard watches the iterates for the two ways a solve fails above
// the stability bound. The fidelity residual ‖x − f‖₂ may grow far past
// anything a converging run produces, or the dual field may saturate into
// an alternating pattern in which x flips between two states while the
// residual stays bounded.
type divergenceGuard struct {
	backend     tensor.Backend
	f           *tensor.RawTensor
	factor      float64
	minResidual float64

	last, beforeLast *tensor.RawTensor
	alternating      int
}

func newDivergenceGuard(backend tensor.Backend, f *tensor.RawTensor, factor float64) *divergenceGuard {
	return &divergenceGuard{
		backend:     backend,
		f:           f,
		factor:      factor,
		minResidual: backend.Norm(f), // residual of x = 0
	}
}

func (g *divergenceGuard) check(step int, x *tensor.RawTensor) (float64, error) {
	r := g.backend.Norm(g.backend.Sub(x, g.f))
	switch {
	case math.IsNaN(r) || math.IsInf(r, 0):
		return r, &DivergenceError{Step: step, Value: r, Reason: "non-finite residual"}
	case g.minResidual > 0 && r > g.factor*g.minResidual:
		return r, &DivergenceError{
			Step:   step,
			Value:  r,
			Reason: fmt.Sprintf("residual exceeds %g× its minimum %g", g.factor, g.minResidual),
		}
	}
	g.minResidual = math.Min(g.minResidual, r)

	if g.alternates(x) {
		g.alternating++
	} else {
		g.alternating = 0
	}
	g.beforeLast, g.last = g.last, x
	if g.alternating >= oscillationSteps {
		return r, &DivergenceError{
			Step:   step,
			Value:  r,
			Reason: fmt.Sprintf("period-2 oscillation for %d steps", g.alternating),
		}
	}
	return r, nil
}

// alternates reports whether x jumped further than its own magnitude from
// the previous iterate while landing close to the one before it:
// ‖x − x₋₁‖ > ‖x‖ and ‖x − x₋₂‖ < ½‖x − x₋₁‖. Converging runs move by a
// small fraction of ‖x‖ per step.
func (g *divergenceGuard) alternates(x *tensor.RawTensor) bool {
	if g.beforeLast == nil {
		return false
	}
	jump := g.backend.Norm(g.backend.Sub(x, g.last))
	if jump == 0 || jump <= g.backend.Norm(x) {
		return false
	}
	return g.backend.Norm(g.backend.Sub(x, g.beforeLast)) < jump/2
}
