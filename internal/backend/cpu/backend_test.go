package cpu

import (
	"math"
	"strings"
	"testing"

	"github.com/fringelab/chambolle/internal/parallel"
	"github.com/fringelab/chambolle/internal/tensor"
)

func grid(t *testing.T, rows, cols int, values ...float64) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.FromFloat64(values, tensor.Shape{rows, cols}, tensor.Float64, tensor.CPU)
	if err != nil {
		t.Fatalf("FromFloat64: %v", err)
	}
	return raw
}

func assertValues(t *testing.T, got *tensor.RawTensor, want ...float64) {
	t.Helper()
	data := got.Float64s()
	if len(data) != len(want) {
		t.Fatalf("Expected %d values, got %d", len(want), len(data))
	}
	for i := range want {
		if math.Abs(data[i]-want[i]) > 1e-12 {
			t.Errorf("index %d: expected %v, got %v", i, want[i], data[i])
		}
	}
}

func TestNew(t *testing.T) {
	backend := New()

	if backend.Device() != tensor.CPU {
		t.Errorf("Expected device CPU, got %v", backend.Device())
	}
	if backend.DType() != tensor.Float64 {
		t.Errorf("Expected dtype float64, got %v", backend.DType())
	}
	if !strings.HasPrefix(backend.Name(), "CPU (sequential") {
		t.Errorf("Unexpected name %q", backend.Name())
	}
	if backend.Parallel().Enabled {
		t.Error("Default backend should be sequential")
	}
}

func TestNew_WithParallel(t *testing.T) {
	backend := New(WithParallel(parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 1}))

	if !strings.HasPrefix(backend.Name(), "CPU (parallel x4") {
		t.Errorf("Unexpected name %q", backend.Name())
	}
}

func TestZeros(t *testing.T) {
	backend := New()
	z := backend.Zeros(tensor.Shape{2, 3})

	if !z.Shape().Equal(tensor.Shape{2, 3}) {
		t.Errorf("Expected shape [2, 3], got %v", z.Shape())
	}
	assertValues(t, z, 0, 0, 0, 0, 0, 0)
}

func TestBinaryOps(t *testing.T) {
	backend := New()
	a := grid(t, 2, 2, 1, 2, 3, 4)
	b := grid(t, 2, 2, 2, 4, 6, 8)

	assertValues(t, backend.Add(a, b), 3, 6, 9, 12)
	assertValues(t, backend.Sub(a, b), -1, -2, -3, -4)
	assertValues(t, backend.Mul(a, b), 2, 8, 18, 32)
	assertValues(t, backend.Div(a, b), 0.5, 0.5, 0.5, 0.5)

	// Inputs are never modified.
	assertValues(t, a, 1, 2, 3, 4)
	assertValues(t, b, 2, 4, 6, 8)
}

func TestBinaryOps_ShapeMismatchPanics(t *testing.T) {
	backend := New()
	a := grid(t, 2, 2, 1, 2, 3, 4)
	b := grid(t, 1, 4, 1, 2, 3, 4)

	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic on shape mismatch")
		}
	}()
	backend.Add(a, b)
}

func TestScalarOps(t *testing.T) {
	backend := New()
	x := grid(t, 1, 3, 1, -2, 3)

	assertValues(t, backend.MulScalar(x, 2.5), 2.5, -5, 7.5)
	assertValues(t, backend.AddScalar(x, 1), 2, -1, 4)
}

func TestMathOps(t *testing.T) {
	backend := New()

	assertValues(t, backend.Sqrt(grid(t, 1, 3, 0, 4, 9)), 0, 2, 3)
	assertValues(t, backend.Pow(grid(t, 1, 3, -3, 2, 0.5), 2), 9, 4, 0.25)
	assertValues(t, backend.Pow(grid(t, 1, 2, 8, 27), 1.0/3.0), 2, 3)
}

func TestNarrow(t *testing.T) {
	backend := New()
	// [[1 2 3]
	//  [4 5 6]
	//  [7 8 9]]
	x := grid(t, 3, 3, 1, 2, 3, 4, 5, 6, 7, 8, 9)

	rows := backend.Narrow(x, 0, 1, 2)
	if !rows.Shape().Equal(tensor.Shape{2, 3}) {
		t.Errorf("Expected shape [2, 3], got %v", rows.Shape())
	}
	assertValues(t, rows, 4, 5, 6, 7, 8, 9)

	cols := backend.Narrow(x, -1, 2, 1)
	if !cols.Shape().Equal(tensor.Shape{3, 1}) {
		t.Errorf("Expected shape [3, 1], got %v", cols.Shape())
	}
	assertValues(t, cols, 3, 6, 9)
}

func TestNarrow_OutOfRangePanics(t *testing.T) {
	backend := New()
	x := grid(t, 2, 2, 1, 2, 3, 4)

	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for out-of-range narrow")
		}
	}()
	backend.Narrow(x, 0, 1, 2)
}

func TestCat(t *testing.T) {
	backend := New()
	a := grid(t, 2, 1, 1, 2)
	b := grid(t, 2, 2, 3, 4, 5, 6)

	cols := backend.Cat([]*tensor.RawTensor{a, b}, 1)
	if !cols.Shape().Equal(tensor.Shape{2, 3}) {
		t.Errorf("Expected shape [2, 3], got %v", cols.Shape())
	}
	assertValues(t, cols, 1, 3, 4, 2, 5, 6)

	rows := backend.Cat([]*tensor.RawTensor{b, b}, 0)
	if !rows.Shape().Equal(tensor.Shape{4, 2}) {
		t.Errorf("Expected shape [4, 2], got %v", rows.Shape())
	}
	assertValues(t, rows, 3, 4, 5, 6, 3, 4, 5, 6)
}

func TestCat_NarrowRoundTrip(t *testing.T) {
	backend := New()
	x := grid(t, 3, 4, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12)

	for dim := 0; dim < 2; dim++ {
		n := x.Shape()[dim]
		head := backend.Narrow(x, dim, 0, 1)
		tail := backend.Narrow(x, dim, 1, n-1)
		joined := backend.Cat([]*tensor.RawTensor{head, tail}, dim)
		assertValues(t, joined, x.Float64s()...)
	}
}

func TestReductions(t *testing.T) {
	backend := New()
	x := grid(t, 2, 2, 1, 2, 3, 4)

	if got := backend.Sum(x); got != 10 {
		t.Errorf("Sum: expected 10, got %v", got)
	}
	// Population variance of {1,2,3,4} is 1.25.
	if got := backend.Variance(x); math.Abs(got-1.25) > 1e-12 {
		t.Errorf("Variance: expected 1.25, got %v", got)
	}
	if got := backend.Norm(x); math.Abs(got-math.Sqrt(30)) > 1e-12 {
		t.Errorf("Norm: expected %v, got %v", math.Sqrt(30), got)
	}
}

func TestFloat32Inputs(t *testing.T) {
	backend := New()
	a, err := tensor.FromFloat64([]float64{1, 4}, tensor.Shape{1, 2}, tensor.Float32, tensor.CPU)
	if err != nil {
		t.Fatal(err)
	}

	sum := backend.Add(a, a)
	if sum.DType() != tensor.Float32 {
		t.Errorf("Expected float32 result, got %s", sum.DType())
	}
	assertValues(t, sum, 2, 8)
	assertValues(t, backend.Sqrt(a), 1, 2)
	if got := backend.Sum(a); got != 5 {
		t.Errorf("Sum: expected 5, got %v", got)
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	seq := New()
	par := New(WithParallel(parallel.Config{Enabled: true, NumWorkers: 7, MinChunkSize: 3}))

	n := 37 * 41
	values := make([]float64, n)
	other := make([]float64, n)
	for i := range values {
		values[i] = math.Sin(float64(i) * 0.37)
		other[i] = 1.5 + math.Cos(float64(i)*0.11)
	}
	x, _ := tensor.FromFloat64(values, tensor.Shape{37, 41}, tensor.Float64, tensor.CPU)
	y, _ := tensor.FromFloat64(other, tensor.Shape{37, 41}, tensor.Float64, tensor.CPU)

	pairs := []struct {
		name     string
		seq, par *tensor.RawTensor
	}{
		{"add", seq.Add(x, y), par.Add(x, y)},
		{"div", seq.Div(x, y), par.Div(x, y)},
		{"mulScalar", seq.MulScalar(x, 3.25), par.MulScalar(x, 3.25)},
		{"sqrt", seq.Sqrt(y), par.Sqrt(y)},
		{"pow", seq.Pow(y, 1.5), par.Pow(y, 1.5)},
	}
	for _, p := range pairs {
		a, b := p.seq.AsFloat64(), p.par.AsFloat64()
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("%s: index %d differs: %v vs %v", p.name, i, a[i], b[i])
			}
		}
	}
}
