package cpu

import (
	"fmt"

	"github.com/fringelab/chambolle/internal/tensor"
)

// Narrow returns the slice [start, start+length) of x along dim.
//
// Supports negative dim indexing (-1 = last dimension).
//
// Example:
//
//	// x: [4, 5]
//	rows := backend.Narrow(x, 0, 1, 3) // rows 1..3, shape [3, 5]
//	last := backend.Narrow(x, 1, 4, 1) // last column, shape [4, 1]
func (b *CPUBackend) Narrow(x *tensor.RawTensor, dim, start, length int) *tensor.RawTensor {
	shape := x.Shape()
	dim = shape.NormalizeDim(dim)
	outer, size, inner := shape.Split(dim)
	if start < 0 || length <= 0 || start+length > size {
		panic(fmt.Sprintf("narrow: range [%d, %d) out of bounds for dimension %d of size %d",
			start, start+length, dim, size))
	}

	outShape := shape.Clone()
	outShape[dim] = length
	result, err := tensor.NewRaw(outShape, x.DType(), b.device)
	if err != nil {
		panic(fmt.Sprintf("narrow: %v", err))
	}

	elem := x.DType().Size()
	src, dst := x.Data(), result.Data()
	block := length * inner * elem
	for o := 0; o < outer; o++ {
		from := (o*size + start) * inner * elem
		copy(dst[o*block:(o+1)*block], src[from:from+block])
	}
	return result
}

// Cat concatenates tensors along the specified dimension.
//
// All tensors must have the same shape except along the concatenation dimension.
// Supports negative dim indexing (-1 = last dimension).
//
// Example:
//
//	a := ... // [2, 3]
//	c := ... // [2, 5]
//	r := backend.Cat([]*tensor.RawTensor{a, c}, 1) // Shape: [2, 8]
func (b *CPUBackend) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	if len(tensors) == 0 {
		panic("cat: at least one tensor required")
	}

	shape := tensors[0].Shape()
	ndim := len(shape)
	dtype := tensors[0].DType()
	dim = shape.NormalizeDim(dim)

	// Validate shapes and calculate total size along concat dimension
	totalDim := 0
	for i, t := range tensors {
		tShape := t.Shape()
		if len(tShape) != ndim {
			panic(fmt.Sprintf("cat: tensor %d has %d dimensions, expected %d", i, len(tShape), ndim))
		}
		if t.DType() != dtype {
			panic(fmt.Sprintf("cat: tensor %d has dtype %s, expected %s", i, t.DType(), dtype))
		}
		for d := 0; d < ndim; d++ {
			if d == dim {
				totalDim += tShape[d]
			} else if tShape[d] != shape[d] {
				panic(fmt.Sprintf("cat: tensor %d dimension %d is %d, expected %d", i, d, tShape[d], shape[d]))
			}
		}
	}

	outShape := shape.Clone()
	outShape[dim] = totalDim
	result, err := tensor.NewRaw(outShape, dtype, b.device)
	if err != nil {
		panic(fmt.Sprintf("cat: %v", err))
	}

	elem := dtype.Size()
	outer, _, inner := outShape.Split(dim)
	dst := result.Data()
	rowBytes := totalDim * inner * elem
	offset := 0
	for _, t := range tensors {
		block := t.Shape()[dim] * inner * elem
		src := t.Data()
		for o := 0; o < outer; o++ {
			at := o*rowBytes + offset
			copy(dst[at:at+block], src[o*block:(o+1)*block])
		}
		offset += block
	}
	return result
}
