// Copyright 2025 Fringelab. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/fringelab/chambolle/internal/backend/cpu"
	"github.com/fringelab/chambolle/internal/parallel"
	"github.com/fringelab/chambolle/tensor"
)

// Backend represents the CPU backend implementation.
//
// The CPU backend computes in float64. Element-wise kernels run on the
// calling goroutine unless WithParallel enables chunking.
type Backend = internalcpu.CPUBackend

// Option configures a Backend.
type Option = internalcpu.Option

// ParallelConfig controls how element-wise kernels are split across goroutines.
type ParallelConfig = parallel.Config

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new CPU backend.
//
// Example:
//
//	import (
//	    "github.com/fringelab/chambolle/backend/cpu"
//	    "github.com/fringelab/chambolle/chambolle"
//	)
//
//	func main() {
//	    backend := cpu.New(cpu.WithParallel(cpu.DefaultParallel()))
//	    res, err := chambolle.SolveSelf(ctx, backend, img, chambolle.DefaultConfig())
//	}
func New(opts ...Option) *Backend {
	return internalcpu.New(opts...)
}

// WithParallel enables chunked element-wise kernels.
func WithParallel(cfg ParallelConfig) Option {
	return internalcpu.WithParallel(cfg)
}

// DefaultParallel returns a parallel configuration sized to the host.
func DefaultParallel() ParallelConfig {
	return parallel.DefaultConfig()
}

// Features lists the SIMD extensions detected on the host CPU.
func Features() []string {
	return internalcpu.Features()
}
