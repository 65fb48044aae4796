//go:build windows

package webgpu

import (
	"math"
	"testing"

	"github.com/fringelab/chambolle/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackend(t *testing.T) *Backend {
	t.Helper()
	backend, err := New()
	if err != nil {
		t.Logf("WebGPU not available: %v", err)
		t.Skip("WebGPU not available on this system")
	}
	t.Cleanup(backend.Release)
	return backend
}

func grid(t *testing.T, rows, cols int, values ...float64) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.FromFloat64(values, tensor.Shape{rows, cols}, tensor.Float32, tensor.WebGPU)
	require.NoError(t, err)
	return raw
}

func TestIsAvailable(t *testing.T) {
	t.Logf("WebGPU available: %v", IsAvailable())
}

func TestNew(t *testing.T) {
	backend := newBackend(t)

	assert.NotEmpty(t, backend.Name())
	assert.Equal(t, tensor.WebGPU, backend.Device())
	assert.Equal(t, tensor.Float32, backend.DType())
}

func TestElementwise(t *testing.T) {
	backend := newBackend(t)
	a := grid(t, 2, 2, 1, 2, 3, 4)
	c := grid(t, 2, 2, 2, 4, 6, 8)

	assert.InDeltaSlice(t, []float64{3, 6, 9, 12}, backend.Add(a, c).Float64s(), 1e-6)
	assert.InDeltaSlice(t, []float64{-1, -2, -3, -4}, backend.Sub(a, c).Float64s(), 1e-6)
	assert.InDeltaSlice(t, []float64{2, 8, 18, 32}, backend.Mul(a, c).Float64s(), 1e-6)
	assert.InDeltaSlice(t, []float64{0.5, 0.5, 0.5, 0.5}, backend.Div(a, c).Float64s(), 1e-6)
	assert.InDeltaSlice(t, []float64{2.5, 5, 7.5, 10}, backend.MulScalar(a, 2.5).Float64s(), 1e-6)
	assert.InDeltaSlice(t, []float64{0, 1, 2, 3}, backend.AddScalar(a, -1).Float64s(), 1e-6)
	assert.InDeltaSlice(t, []float64{1, math.Sqrt2, math.Sqrt(3), 2}, backend.Sqrt(a).Float64s(), 1e-6)
}

func TestPow_NegativeBase(t *testing.T) {
	backend := newBackend(t)
	x := grid(t, 1, 3, -3, 2, -0.5)

	assert.InDeltaSlice(t, []float64{9, 4, 0.25}, backend.Pow(x, 2).Float64s(), 1e-6)
	assert.InDeltaSlice(t, []float64{-27, 8, -0.125}, backend.Pow(x, 3).Float64s(), 1e-6)
}

func TestNarrowCat(t *testing.T) {
	backend := newBackend(t)
	x := grid(t, 3, 3, 1, 2, 3, 4, 5, 6, 7, 8, 9)

	rows := backend.Narrow(x, 0, 1, 2)
	assert.Equal(t, tensor.Shape{2, 3}, rows.Shape())
	assert.InDeltaSlice(t, []float64{4, 5, 6, 7, 8, 9}, rows.Float64s(), 0)

	cols := backend.Narrow(x, 1, 2, 1)
	assert.InDeltaSlice(t, []float64{3, 6, 9}, cols.Float64s(), 0)

	joined := backend.Cat([]*tensor.RawTensor{backend.Narrow(x, 1, 0, 2), cols}, 1)
	assert.Equal(t, tensor.Shape{3, 3}, joined.Shape())
	assert.InDeltaSlice(t, x.Float64s(), joined.Float64s(), 0)
}

func TestReductions(t *testing.T) {
	backend := newBackend(t)

	// Larger than one workgroup so the host finishes several partials.
	n := 1000
	values := make([]float64, n)
	for i := range values {
		values[i] = float64(i%10) * 0.5
	}
	x, err := tensor.FromFloat64(values, tensor.Shape{10, 100}, tensor.Float32, tensor.WebGPU)
	require.NoError(t, err)

	assert.InDelta(t, 2250.0, backend.Sum(x), 1e-3)
	// Values 0,0.5..4.5 uniformly: variance = 0.25 * 8.25.
	assert.InDelta(t, 2.0625, backend.Variance(x), 1e-4)

	var squares float64
	for _, v := range values {
		squares += v * v
	}
	assert.InDelta(t, math.Sqrt(squares), backend.Norm(x), 1e-3)
}

func TestBufferPoolReuse(t *testing.T) {
	backend := newBackend(t)
	a := grid(t, 2, 2, 1, 2, 3, 4)

	backend.Add(a, a)
	_, missesBefore, _ := backend.PoolStats()
	backend.Add(a, a)
	hits, missesAfter, _ := backend.PoolStats()

	assert.Equal(t, missesBefore, missesAfter, "second dispatch should reuse pooled buffers")
	assert.Positive(t, hits)
}

func TestSizeClass(t *testing.T) {
	assert.Equal(t, minBufferClass, sizeClass(1))
	assert.Equal(t, minBufferClass, sizeClass(256))
	assert.Equal(t, 9, sizeClass(257))
	assert.Equal(t, 20, sizeClass(1<<20))
}
