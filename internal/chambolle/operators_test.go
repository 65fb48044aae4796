package chambolle

import (
	"fmt"
	"math"
	"testing"

	"github.com/fringelab/chambolle/internal/tensor"
	"github.com/stretchr/testify/assert"
)

func TestGradient_Values(t *testing.T) {
	backend := cpuBackend()
	m := upload(t, backend, Grid{Rows: 2, Cols: 3, Data: []float64{
		1, 2, 4,
		3, 5, 9,
	}})

	gx, gy := Gradient(backend, m)

	assert.Equal(t, []float64{2, 3, 5, 0, 0, 0}, gx.Float64s())
	assert.Equal(t, []float64{1, 2, 0, 2, 4, 0}, gy.Float64s())
}

func TestGradient_SingletonAxis(t *testing.T) {
	backend := cpuBackend()
	m := upload(t, backend, Grid{Rows: 1, Cols: 4, Data: []float64{1, 3, 6, 10}})

	gx, gy := Gradient(backend, m)

	assert.Equal(t, []float64{0, 0, 0, 0}, gx.Float64s())
	assert.Equal(t, []float64{2, 3, 4, 0}, gy.Float64s())
}

func TestDivergence_Values(t *testing.T) {
	backend := cpuBackend()
	p := upload(t, backend, Grid{Rows: 2, Cols: 3, Data: []float64{
		1, 2, 3,
		4, 5, 6,
	}})
	zero := backend.Zeros(tensor.Shape{2, 3})

	// Two rows: first row p[0], last row −p[0].
	assert.Equal(t, []float64{1, 2, 3, -1, -2, -3}, Divergence(backend, p, zero).Float64s())
	// Three columns: p[0], p[1] − p[0], −p[1].
	assert.Equal(t, []float64{1, 1, -2, 4, 1, -5}, Divergence(backend, zero, p).Float64s())
}

func TestDivergence_SingletonAxis(t *testing.T) {
	backend := cpuBackend()
	p := upload(t, backend, Grid{Rows: 3, Cols: 1, Data: []float64{2, 5, 7}})

	assert.Equal(t, []float64{0, 0, 0}, Divergence(backend, backend.Zeros(tensor.Shape{3, 1}), p).Float64s())
	assert.Equal(t, []float64{2, 3, -5}, Divergence(backend, p, backend.Zeros(tensor.Shape{3, 1})).Float64s())
}

func TestDivergence_IsNegativeAdjointOfGradient(t *testing.T) {
	backend := cpuBackend()
	shapes := [][2]int{{1, 1}, {1, 7}, {6, 1}, {2, 2}, {2, 5}, {3, 8}, {13, 4}, {17, 29}}

	for i, s := range shapes {
		t.Run(fmt.Sprintf("%dx%d", s[0], s[1]), func(t *testing.T) {
			seed := uint64(i + 1)
			a := upload(t, backend, noisyImage(s[0], s[1], seed))
			px := upload(t, backend, noisyImage(s[0], s[1], seed+100))
			py := upload(t, backend, noisyImage(s[0], s[1], seed+200))

			lhs := backend.Sum(backend.Mul(a, Divergence(backend, px, py)))
			gx, gy := Gradient(backend, a)
			rhs := -backend.Sum(backend.Add(backend.Mul(gx, px), backend.Mul(gy, py)))

			assert.InDelta(t, rhs, lhs, 1e-9*math.Max(1, math.Abs(rhs)))
		})
	}
}

func TestStep_KeepsDualFieldInUnitBall(t *testing.T) {
	backend := cpuBackend()
	f := upload(t, backend, noisyImage(16, 16, 3))
	it := NewIterator(backend, f, 100, 0.25)

	for step := 0; step < 20; step++ {
		it.Step()
	}
	p := it.Dual()
	x, y := p.X.Float64s(), p.Y.Float64s()
	for i := range x {
		assert.LessOrEqual(t, math.Hypot(x[i], y[i]), 1+1e-12)
	}
}
