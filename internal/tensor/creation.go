package tensor

import "fmt"

// FromFloat64 creates a tensor of the given dtype from row-major float64
// values. Float32 tensors round each value to the nearest float32.
func FromFloat64(values []float64, shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	if shape.NumElements() != len(values) {
		return nil, fmt.Errorf("tensor: %d values do not fill shape %v", len(values), shape)
	}

	raw, err := NewRaw(shape, dtype, device)
	if err != nil {
		return nil, err
	}

	switch dtype {
	case Float64:
		copy(raw.AsFloat64(), values)
	case Float32:
		dst := raw.AsFloat32()
		for i, v := range values {
			dst[i] = float32(v)
		}
	default:
		return nil, fmt.Errorf("tensor: unsupported dtype %s", dtype)
	}
	return raw, nil
}

// Full creates a tensor filled with a specific value.
func Full(shape Shape, value float64, dtype DataType, device Device) (*RawTensor, error) {
	values := make([]float64, shape.NumElements())
	for i := range values {
		values[i] = value
	}
	return FromFloat64(values, shape, dtype, device)
}
