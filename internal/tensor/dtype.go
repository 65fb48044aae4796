// Package tensor provides the grid storage and the compute backend contract
// shared by the Chambolle solver and its CPU and WebGPU backends.
package tensor

import "fmt"

// DataType represents runtime type information for tensors.
type DataType int

// Supported element types. CPU backends compute in Float64, GPU backends in
// Float32.
const (
	Float32 DataType = iota
	Float64
)

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float32:
		return 4
	case Float64:
		return 8
	default:
		panic(fmt.Sprintf("unknown data type %d", int(dt)))
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return "unknown"
	}
}
