// Package webgpu implements the WebGPU compute backend for the Chambolle
// solver. Uses go-webgpu (github.com/go-webgpu/webgpu) for zero-CGO WebGPU
// bindings; the native wgpu library is loaded on Windows only, other
// platforms build a stub whose New always fails.
package webgpu

import "errors"

// ErrUnavailable is returned by New when no WebGPU adapter can be used.
var ErrUnavailable = errors.New("webgpu: not available")
