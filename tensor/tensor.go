// Copyright 2025 Fringelab. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/fringelab/chambolle/internal/tensor"

// Backend is the set of primitive operations a compute device provides.
//
// Implementations:
//   - backend/cpu: pure Go, float64, optionally chunked across goroutines
//   - backend/webgpu: WGSL compute shaders, float32
type Backend = tensor.Backend

// RawTensor is an untyped, contiguous tensor buffer.
type RawTensor = tensor.RawTensor

// Shape lists the size of each dimension, outermost first.
type Shape = tensor.Shape

// DataType identifies the element type of a RawTensor.
type DataType = tensor.DataType

// Device identifies where a tensor's computation happens.
type Device = tensor.Device

// Element types.
const (
	Float32 = tensor.Float32
	Float64 = tensor.Float64
)

// Devices.
const (
	CPU    = tensor.CPU
	WebGPU = tensor.WebGPU
)

// NewRaw allocates a zeroed tensor.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}

// FromFloat64 builds a tensor from row-major values, converting them to
// dtype.
func FromFloat64(values []float64, shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.FromFloat64(values, shape, dtype, device)
}

// Full builds a tensor with every element set to value.
func Full(shape Shape, value float64, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.Full(shape, value, dtype, device)
}
