// Copyright 2025 Fringelab. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor exposes the storage and backend contract the Chambolle
// solver runs on.
//
// # Overview
//
// A RawTensor is a flat, row-major buffer with a Shape and a DataType. The
// solver never touches the buffer directly: every arithmetic step goes
// through a Backend, so the same algorithm runs on the CPU (float64) and on
// a GPU through WebGPU (float32).
//
// # Basic Usage
//
//	import (
//	    "github.com/fringelab/chambolle/backend/cpu"
//	    "github.com/fringelab/chambolle/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    x, _ := tensor.FromFloat64([]float64{1, 2, 3, 4}, tensor.Shape{2, 2},
//	        backend.DType(), backend.Device())
//	    y := backend.MulScalar(x, 2)
//	    fmt.Println(y.Float64s()) // [2 4 6 8]
//	}
//
// # Backends
//
// Backends never mutate their inputs. Every operation returns a fresh
// tensor, which lets callers keep earlier results without copying.
package tensor
