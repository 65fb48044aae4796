// Package cpu implements the CPU compute backend for the Chambolle solver.
package cpu

import (
	"fmt"
	"strings"

	"github.com/fringelab/chambolle/internal/parallel"
	"github.com/fringelab/chambolle/internal/tensor"
	hostcpu "golang.org/x/sys/cpu"
)

// CPUBackend implements tensor.Backend in pure Go on float64 grids.
//
// Element-wise kernels run sequentially by default; WithParallel splits them
// into contiguous chunks across goroutines. Reductions always run
// sequentially, so parallel and sequential backends agree bit for bit.
type CPUBackend struct {
	device   tensor.Device
	parallel parallel.Config
}

// Option configures a CPUBackend.
type Option func(*CPUBackend)

// WithParallel enables chunked parallel element-wise kernels.
func WithParallel(cfg parallel.Config) Option {
	return func(b *CPUBackend) {
		b.parallel = cfg
	}
}

// New creates a new CPU backend.
func New(opts ...Option) *CPUBackend {
	b := &CPUBackend{
		device:   tensor.CPU,
		parallel: parallel.Sequential(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns the backend name, including the detected SIMD features.
func (b *CPUBackend) Name() string {
	mode := "sequential"
	if b.parallel.Enabled {
		mode = fmt.Sprintf("parallel x%d", b.parallel.NumWorkers)
	}
	if features := Features(); len(features) > 0 {
		return fmt.Sprintf("CPU (%s; %s)", mode, strings.Join(features, ","))
	}
	return fmt.Sprintf("CPU (%s)", mode)
}

// Device returns the compute device.
func (b *CPUBackend) Device() tensor.Device {
	return b.device
}

// DType returns the element type the backend computes in.
func (b *CPUBackend) DType() tensor.DataType {
	return tensor.Float64
}

// Parallel returns the backend's parallel configuration.
func (b *CPUBackend) Parallel() parallel.Config {
	return b.parallel
}

// Zeros creates a zero-filled float64 tensor.
func (b *CPUBackend) Zeros(shape tensor.Shape) *tensor.RawTensor {
	result, err := tensor.NewRaw(shape, tensor.Float64, b.device)
	if err != nil {
		panic(fmt.Sprintf("zeros: %v", err))
	}
	return result
}

// Features reports the SIMD extensions of the host CPU.
func Features() []string {
	var features []string
	switch {
	case hostcpu.X86.HasAVX512F:
		features = append(features, "AVX512F")
	case hostcpu.X86.HasAVX2:
		features = append(features, "AVX2")
	case hostcpu.X86.HasSSE41:
		features = append(features, "SSE4.1")
	}
	if hostcpu.X86.HasFMA {
		features = append(features, "FMA")
	}
	if hostcpu.ARM64.HasASIMD {
		features = append(features, "NEON")
	}
	if hostcpu.ARM64.HasSVE {
		features = append(features, "SVE")
	}
	return features
}

// newResult allocates the output tensor for an element-wise operation on x.
func (b *CPUBackend) newResult(op string, x *tensor.RawTensor) *tensor.RawTensor {
	result, err := tensor.NewRaw(x.Shape(), x.DType(), b.device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", op, err))
	}
	return result
}

// chunks runs f over [0, n) using the backend's parallel configuration.
func (b *CPUBackend) chunks(n int, f func(start, end int)) {
	parallel.Range(n, f, b.parallel)
}
