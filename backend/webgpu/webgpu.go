// Copyright 2025 Fringelab. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the WebGPU backend for GPU-accelerated solves.
//
// Every backend operation compiles to one WGSL compute dispatch in float32.
// Reductions are finished on the host in float64. The native wgpu library
// is loaded on Windows; on other platforms New returns ErrUnavailable.
//
// Example:
//
//	import (
//	    "github.com/fringelab/chambolle/backend/cpu"
//	    "github.com/fringelab/chambolle/backend/webgpu"
//	    "github.com/fringelab/chambolle/chambolle"
//	)
//
//	func main() {
//	    var backend chambolle.Backend = cpu.New()
//	    if gpu, err := webgpu.New(); err == nil {
//	        defer gpu.Release()
//	        backend = gpu
//	    }
//	    res, err := chambolle.SolveReference(ctx, backend, img, ref, chambolle.DefaultConfig())
//	}
package webgpu

import (
	internalwebgpu "github.com/fringelab/chambolle/internal/backend/webgpu"
	"github.com/fringelab/chambolle/tensor"
)

// Backend represents the WebGPU backend implementation.
type Backend = internalwebgpu.Backend

// ErrUnavailable is returned by New when no adapter or native library can
// be loaded.
var ErrUnavailable = internalwebgpu.ErrUnavailable

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new WebGPU backend.
//
// Call Release when done to free GPU resources.
func New() (*Backend, error) {
	return internalwebgpu.New()
}

// IsAvailable checks if WebGPU is available on the current system.
//
// It attempts to request an adapter, which makes it useful for a graceful
// fallback to the CPU backend.
func IsAvailable() bool {
	return internalwebgpu.IsAvailable()
}
