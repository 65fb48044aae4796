package cpu

import (
	"fmt"

	"github.com/fringelab/chambolle/internal/tensor"
)

// Scalar operations - element-wise operations with a scalar value.

// MulScalar multiplies each element of the tensor by a scalar value.
func (b *CPUBackend) MulScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	return b.unary("mulScalar", x,
		func(dst, src []float32) { mulScalarKernel(dst, src, float32(scalar)) },
		func(dst, src []float64) { mulScalarKernel(dst, src, scalar) },
	)
}

// AddScalar adds a scalar value to each element of the tensor.
func (b *CPUBackend) AddScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	return b.unary("addScalar", x,
		func(dst, src []float32) { addScalarKernel(dst, src, float32(scalar)) },
		func(dst, src []float64) { addScalarKernel(dst, src, scalar) },
	)
}

// unary runs a dtype-specific element-wise kernel over chunks of x.
func (b *CPUBackend) unary(
	op string,
	x *tensor.RawTensor,
	k32 func(dst, src []float32),
	k64 func(dst, src []float64),
) *tensor.RawTensor {
	result := b.newResult(op, x)
	switch x.DType() {
	case tensor.Float32:
		dst, src := result.AsFloat32(), x.AsFloat32()
		b.chunks(len(dst), func(s, e int) { k32(dst[s:e], src[s:e]) })
	case tensor.Float64:
		dst, src := result.AsFloat64(), x.AsFloat64()
		b.chunks(len(dst), func(s, e int) { k64(dst[s:e], src[s:e]) })
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", op, x.DType()))
	}
	return result
}

func mulScalarKernel[T float](dst, src []T, scalar T) {
	for i, v := range src {
		dst[i] = v * scalar
	}
}

func addScalarKernel[T float](dst, src []T, scalar T) {
	for i, v := range src {
		dst[i] = v + scalar
	}
}
