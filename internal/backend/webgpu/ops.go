//go:build windows

package webgpu

import (
	"fmt"
	"math"

	"github.com/fringelab/chambolle/internal/tensor"
	"github.com/go-webgpu/webgpu/wgpu"
	"gonum.org/v1/gonum/floats"
)

// Add performs element-wise addition on GPU.
func (b *Backend) Add(a, other *tensor.RawTensor) *tensor.RawTensor {
	return must("Add")(b.runBinaryOp(a, other, "add", addShader))
}

// Sub performs element-wise subtraction on GPU.
func (b *Backend) Sub(a, other *tensor.RawTensor) *tensor.RawTensor {
	return must("Sub")(b.runBinaryOp(a, other, "sub", subShader))
}

// Mul performs element-wise multiplication on GPU.
func (b *Backend) Mul(a, other *tensor.RawTensor) *tensor.RawTensor {
	return must("Mul")(b.runBinaryOp(a, other, "mul", mulShader))
}

// Div performs element-wise division on GPU.
func (b *Backend) Div(a, other *tensor.RawTensor) *tensor.RawTensor {
	return must("Div")(b.runBinaryOp(a, other, "div", divShader))
}

// MulScalar multiplies tensor elements by a scalar on GPU.
func (b *Backend) MulScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	return must("MulScalar")(b.runScalarOp(x, float32(scalar), "scalarMul", scalarMulShader))
}

// AddScalar adds a scalar to tensor elements on GPU.
func (b *Backend) AddScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	return must("AddScalar")(b.runScalarOp(x, float32(scalar), "scalarAdd", scalarAddShader))
}

// Sqrt computes element-wise square root on GPU.
func (b *Backend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	return must("Sqrt")(b.runUnaryOp(x, "sqrt", sqrtShader))
}

// Pow computes element-wise power on GPU.
func (b *Backend) Pow(x *tensor.RawTensor, exponent float64) *tensor.RawTensor {
	return must("Pow")(b.runPow(x, exponent))
}

// Narrow returns the slice [start, start+length) of x along dim.
func (b *Backend) Narrow(x *tensor.RawTensor, dim, start, length int) *tensor.RawTensor {
	shape := x.Shape()
	dim = shape.NormalizeDim(dim)
	outer, size, inner := shape.Split(dim)
	if start < 0 || length <= 0 || start+length > size {
		panic(fmt.Sprintf("webgpu: Narrow: range [%d, %d) out of bounds for dimension %d of size %d",
			start, start+length, dim, size))
	}
	if err := checkFloat32(x); err != nil {
		panic("webgpu: Narrow: " + err.Error())
	}

	outShape := shape.Clone()
	outShape[dim] = length
	block := length * inner
	return must("Narrow")(b.gather(outShape, func(dst *wgpu.Buffer, dstSize uint64) error {
		return b.runStridedCopy(dst, dstSize, x, outer, block, size*inner, start*inner, block, 0)
	}))
}

// Cat concatenates tensors along dim on GPU.
func (b *Backend) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	if len(tensors) == 0 {
		panic("webgpu: Cat: at least one tensor required")
	}
	shape := tensors[0].Shape()
	dim = shape.NormalizeDim(dim)

	total := 0
	for i, t := range tensors {
		if err := checkFloat32(t); err != nil {
			panic("webgpu: Cat: " + err.Error())
		}
		ts := t.Shape()
		if len(ts) != len(shape) {
			panic(fmt.Sprintf("webgpu: Cat: tensor %d has %d dimensions, expected %d", i, len(ts), len(shape)))
		}
		for d := range ts {
			if d != dim && ts[d] != shape[d] {
				panic(fmt.Sprintf("webgpu: Cat: tensor %d dimension %d is %d, expected %d", i, d, ts[d], shape[d]))
			}
		}
		total += ts[dim]
	}

	outShape := shape.Clone()
	outShape[dim] = total
	outer, _, inner := outShape.Split(dim)
	return must("Cat")(b.gather(outShape, func(dst *wgpu.Buffer, dstSize uint64) error {
		offset := 0
		for _, t := range tensors {
			block := t.Shape()[dim] * inner
			if err := b.runStridedCopy(dst, dstSize, t, outer, block, block, 0, total*inner, offset); err != nil {
				return err
			}
			offset += block
		}
		return nil
	}))
}

// Sum computes the total sum of all elements.
func (b *Backend) Sum(x *tensor.RawTensor) float64 {
	return floats.Sum(mustReduce("Sum")(b.reduce(x, 0, "sum", sumShader)))
}

// Variance computes the population variance of all elements.
func (b *Backend) Variance(x *tensor.RawTensor) float64 {
	n := float64(x.NumElements())
	mean := b.Sum(x) / n
	deviations := mustReduce("Variance")(b.reduce(x, float32(mean), "squaredDeviation", squaredDeviationShader))
	return floats.Sum(deviations) / n
}

// Norm computes the L2 (Frobenius) norm of all elements.
func (b *Backend) Norm(x *tensor.RawTensor) float64 {
	squares := mustReduce("Norm")(b.reduce(x, 0, "squaredDeviation", squaredDeviationShader))
	return math.Sqrt(floats.Sum(squares))
}

// reduce runs a partial-sum shader and widens the partials to float64.
func (b *Backend) reduce(x *tensor.RawTensor, center float32, shaderName, shaderCode string) ([]float64, error) {
	partials, err := b.runPartialSums(x, center, shaderName, shaderCode)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(partials))
	for i, p := range partials {
		out[i] = float64(p)
	}
	return out, nil
}

func must(op string) func(*tensor.RawTensor, error) *tensor.RawTensor {
	return func(result *tensor.RawTensor, err error) *tensor.RawTensor {
		if err != nil {
			panic("webgpu: " + op + ": " + err.Error())
		}
		return result
	}
}

func mustReduce(op string) func([]float64, error) []float64 {
	return func(values []float64, err error) []float64 {
		if err != nil {
			panic("webgpu: " + op + ": " + err.Error())
		}
		return values
	}
}
