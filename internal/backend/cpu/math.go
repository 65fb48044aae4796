package cpu

import (
	"math"

	"github.com/fringelab/chambolle/internal/tensor"
)

// Sqrt computes element-wise square root: sqrt(x).
func (b *CPUBackend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unary("sqrt", x,
		func(dst, src []float32) {
			for i, v := range src {
				dst[i] = float32(math.Sqrt(float64(v)))
			}
		},
		func(dst, src []float64) {
			for i, v := range src {
				dst[i] = math.Sqrt(v)
			}
		},
	)
}

// Pow computes element-wise power: x^exponent.
// Squaring is computed as x*x so it stays exact for negative inputs.
func (b *CPUBackend) Pow(x *tensor.RawTensor, exponent float64) *tensor.RawTensor {
	if exponent == 2 {
		return b.Mul(x, x)
	}
	return b.unary("pow", x,
		func(dst, src []float32) {
			for i, v := range src {
				dst[i] = float32(math.Pow(float64(v), exponent))
			}
		},
		func(dst, src []float64) {
			for i, v := range src {
				dst[i] = math.Pow(v, exponent)
			}
		},
	)
}
