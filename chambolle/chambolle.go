// Copyright 2025 Fringelab. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package chambolle separates interferometric fringe images into a fringe
// component and a smooth background with Chambolle's total variation
// projection.
//
// # Basic Usage
//
//	import (
//	    "github.com/fringelab/chambolle/backend/cpu"
//	    "github.com/fringelab/chambolle/chambolle"
//	)
//
//	func main() {
//	    img := chambolle.NewGrid(256, 256)
//	    // ... fill img.Data ...
//
//	    res, err := chambolle.SolveSelf(context.Background(), cpu.New(), img, chambolle.DefaultConfig())
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(res.Outcome, res.Iterations, res.Error)
//	}
//
// # Stopping Policies
//
// SolveReference compares each reconstruction against a known fringe
// reference and returns the best one. SolveSelf needs no reference and
// stops when successive reconstructions stop changing. Both are bounded by
// Config.MaxIterations.
package chambolle

import (
	"context"

	"github.com/fringelab/chambolle/internal/chambolle"
	"github.com/fringelab/chambolle/tensor"
)

// Backend is the compute backend a solve runs on.
type Backend = tensor.Backend

// Grid is a row-major image.
type Grid = chambolle.Grid

// Config holds the solver parameters.
type Config = chambolle.Config

// StepInfo is passed to Config.OnStep after every step.
type StepInfo = chambolle.StepInfo

// Result is the outcome of a solve.
type Result = chambolle.Result

// Outcome is the terminal state of a solve.
type Outcome = chambolle.Outcome

// Outcomes.
const (
	Unfinished = chambolle.Unfinished
	Converged  = chambolle.Converged
	Stagnated  = chambolle.Stagnated
)

// Policy decides when a solve stops.
type Policy = chambolle.Policy

// Monitor holds the per-solve state of a Policy.
type Monitor = chambolle.Monitor

// Verdict is a Monitor's assessment of one step.
type Verdict = chambolle.Verdict

// ReferencePolicy stops on the RMS error against a known fringe reference.
type ReferencePolicy = chambolle.ReferencePolicy

// SelfPolicy stops when successive reconstructions stop changing.
type SelfPolicy = chambolle.SelfPolicy

// DivergenceError describes where and how a solve diverged.
type DivergenceError = chambolle.DivergenceError

// Sentinel errors.
var (
	ErrShapeMismatch       = chambolle.ErrShapeMismatch
	ErrNumericalDivergence = chambolle.ErrNumericalDivergence
	ErrInvalidConfig       = chambolle.ErrInvalidConfig
)

// NewGrid allocates a zeroed rows×cols grid.
func NewGrid(rows, cols int) Grid {
	return chambolle.NewGrid(rows, cols)
}

// DefaultConfig returns mi=100, tau=0.25, tolerance=1e-5, a stagnation
// window of 100 and at most 10000 steps.
func DefaultConfig() Config {
	return chambolle.DefaultConfig()
}

// SolveReference decomposes f, stopping on the RMS error against fRef.
func SolveReference(ctx context.Context, backend Backend, f, fRef Grid, cfg Config) (Result, error) {
	return chambolle.SolveReference(ctx, backend, f, fRef, cfg)
}

// SolveSelf decomposes f without a reference.
func SolveSelf(ctx context.Context, backend Backend, f Grid, cfg Config) (Result, error) {
	return chambolle.SolveSelf(ctx, backend, f, cfg)
}

// Solve decomposes f under any Policy.
func Solve(ctx context.Context, backend Backend, f Grid, policy Policy, cfg Config) (Result, error) {
	return chambolle.Solve(ctx, backend, f, policy, cfg)
}

// Background returns f − x, the smooth part left after removing the fringe
// reconstruction x.
func Background(f, x Grid) (Grid, error) {
	return chambolle.Background(f, x)
}
