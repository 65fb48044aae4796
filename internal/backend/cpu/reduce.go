package cpu

import (
	"github.com/fringelab/chambolle/internal/tensor"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Sum computes the total sum of all elements in the tensor.
func (b *CPUBackend) Sum(x *tensor.RawTensor) float64 {
	return floats.Sum(values(x))
}

// Variance computes the population variance of all elements (divides by N).
func (b *CPUBackend) Variance(x *tensor.RawTensor) float64 {
	return stat.PopVariance(values(x), nil)
}

// Norm computes the L2 (Frobenius) norm of all elements.
func (b *CPUBackend) Norm(x *tensor.RawTensor) float64 {
	return floats.Norm(values(x), 2)
}

// values returns x as float64 without copying when x already is float64.
func values(x *tensor.RawTensor) []float64 {
	if x.DType() == tensor.Float64 {
		return x.AsFloat64()
	}
	return x.Float64s()
}
