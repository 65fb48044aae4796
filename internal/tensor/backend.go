package tensor

// Backend defines the capability set the Chambolle solver needs from a
// compute device. Every operation is element-wise or a whole-grid reduction,
// so each one can run as a single data-parallel kernel.
//
// Operations never modify their inputs and always return a fresh tensor
// on the backend's device. Implementations panic on programmer errors
// (mismatched shapes, foreign dtypes); callers validate shapes up front.
//
// Implementations:
//   - CPU: pure Go, float64, optional chunked parallelism
//   - WebGPU: WGSL compute shaders, float32
type Backend interface {
	// Creation
	Zeros(shape Shape) *RawTensor

	// Element-wise binary operations (shapes must match)
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// Scalar operations
	AddScalar(x *RawTensor, scalar float64) *RawTensor
	MulScalar(x *RawTensor, scalar float64) *RawTensor

	// Math operations (element-wise)
	Sqrt(x *RawTensor) *RawTensor
	Pow(x *RawTensor, exponent float64) *RawTensor

	// Manipulation operations
	Narrow(x *RawTensor, dim, start, length int) *RawTensor // slice [start, start+length) along dim
	Cat(tensors []*RawTensor, dim int) *RawTensor           // concatenate along dim

	// Reduction operations
	Sum(x *RawTensor) float64
	Variance(x *RawTensor) float64 // population variance
	Norm(x *RawTensor) float64     // L2 (Frobenius) norm

	// Metadata
	Name() string
	Device() Device
	DType() DataType
}
