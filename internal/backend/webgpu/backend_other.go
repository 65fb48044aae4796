//go:build !windows

package webgpu

import "github.com/fringelab/chambolle/internal/tensor"

// Backend is unavailable on this platform; New always fails.
type Backend struct{}

// New reports ErrUnavailable: the native wgpu library is only loaded on
// Windows builds.
func New() (*Backend, error) {
	return nil, ErrUnavailable
}

// IsAvailable reports whether WebGPU can be used. Always false here.
func IsAvailable() bool {
	return false
}

func unavailable() {
	panic(ErrUnavailable)
}

func (b *Backend) Release()                                     {}
func (b *Backend) Name() string                                 { return "WebGPU (unavailable)" }
func (b *Backend) Device() tensor.Device                        { return tensor.WebGPU }
func (b *Backend) DType() tensor.DataType                       { return tensor.Float32 }
func (b *Backend) Zeros(tensor.Shape) *tensor.RawTensor         { unavailable(); return nil }
func (b *Backend) Add(_, _ *tensor.RawTensor) *tensor.RawTensor { unavailable(); return nil }
func (b *Backend) Sub(_, _ *tensor.RawTensor) *tensor.RawTensor { unavailable(); return nil }
func (b *Backend) Mul(_, _ *tensor.RawTensor) *tensor.RawTensor { unavailable(); return nil }
func (b *Backend) Div(_, _ *tensor.RawTensor) *tensor.RawTensor { unavailable(); return nil }
func (b *Backend) Sqrt(*tensor.RawTensor) *tensor.RawTensor     { unavailable(); return nil }
func (b *Backend) Sum(*tensor.RawTensor) float64                { unavailable(); return 0 }
func (b *Backend) Variance(*tensor.RawTensor) float64           { unavailable(); return 0 }
func (b *Backend) Norm(*tensor.RawTensor) float64               { unavailable(); return 0 }

func (b *Backend) AddScalar(*tensor.RawTensor, float64) *tensor.RawTensor {
	unavailable()
	return nil
}

func (b *Backend) MulScalar(*tensor.RawTensor, float64) *tensor.RawTensor {
	unavailable()
	return nil
}

func (b *Backend) Pow(*tensor.RawTensor, float64) *tensor.RawTensor {
	unavailable()
	return nil
}

func (b *Backend) Narrow(*tensor.RawTensor, int, int, int) *tensor.RawTensor {
	unavailable()
	return nil
}

func (b *Backend) Cat([]*tensor.RawTensor, int) *tensor.RawTensor {
	unavailable()
	return nil
}

func (b *Backend) PoolStats() (hits, misses uint64, pooled int) {
	return 0, 0, 0
}
