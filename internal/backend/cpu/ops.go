package cpu

import (
	"fmt"

	"github.com/fringelab/chambolle/internal/tensor"
)

type float interface {
	~float32 | ~float64
}

// Add performs element-wise addition: a + b.
func (b *CPUBackend) Add(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binary("add", x, y, addKernel[float32], addKernel[float64])
}

// Sub performs element-wise subtraction: a - b.
func (b *CPUBackend) Sub(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binary("sub", x, y, subKernel[float32], subKernel[float64])
}

// Mul performs element-wise multiplication: a * b.
func (b *CPUBackend) Mul(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binary("mul", x, y, mulKernel[float32], mulKernel[float64])
}

// Div performs element-wise division: a / b.
func (b *CPUBackend) Div(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binary("div", x, y, divKernel[float32], divKernel[float64])
}

// binary validates the operands and runs the dtype-specific kernel over
// (possibly parallel) chunks of the output.
func (b *CPUBackend) binary(
	op string,
	x, y *tensor.RawTensor,
	k32 func(dst, a, b []float32),
	k64 func(dst, a, b []float64),
) *tensor.RawTensor {
	if !x.Shape().Equal(y.Shape()) {
		panic(fmt.Sprintf("%s: shape mismatch: %v vs %v", op, x.Shape(), y.Shape()))
	}
	if x.DType() != y.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch: %s vs %s", op, x.DType(), y.DType()))
	}

	result := b.newResult(op, x)
	switch x.DType() {
	case tensor.Float32:
		dst, a, c := result.AsFloat32(), x.AsFloat32(), y.AsFloat32()
		b.chunks(len(dst), func(s, e int) { k32(dst[s:e], a[s:e], c[s:e]) })
	case tensor.Float64:
		dst, a, c := result.AsFloat64(), x.AsFloat64(), y.AsFloat64()
		b.chunks(len(dst), func(s, e int) { k64(dst[s:e], a[s:e], c[s:e]) })
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", op, x.DType()))
	}
	return result
}

func addKernel[T float](dst, a, b []T) {
	for i := range dst {
		dst[i] = a[i] + b[i]
	}
}

func subKernel[T float](dst, a, b []T) {
	for i := range dst {
		dst[i] = a[i] - b[i]
	}
}

func mulKernel[T float](dst, a, b []T) {
	for i := range dst {
		dst[i] = a[i] * b[i]
	}
}

func divKernel[T float](dst, a, b []T) {
	for i := range dst {
		dst[i] = a[i] / b[i]
	}
}
