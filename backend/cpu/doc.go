// Copyright 2025 Fringelab. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for the Chambolle solver.
//
// # Overview
//
// This package implements a CPU backend with:
//   - Pure Go implementation (no CGO)
//   - Float64 arithmetic
//   - Optional chunked parallel element-wise kernels
//   - Reductions through gonum
//
// # Determinism
//
// Chunks never change the order of operations on a single element and
// reductions always run sequentially, so sequential and parallel backends
// produce bit-identical reconstructions.
//
// # Thread Safety
//
// The CPU backend is safe for concurrent use. Each operation allocates
// its own output and does not share mutable state.
package cpu
