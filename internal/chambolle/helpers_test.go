package chambolle

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/fringelab/chambolle/internal/backend/cpu"
	"github.com/fringelab/chambolle/internal/tensor"
	"github.com/stretchr/testify/require"
)

// eigenmodeImage returns 0.5 + 0.25·cos(πk(i+½)/rows) + 0.25·cos(πl(j+½)/cols),
// built from eigenvectors of the Neumann Laplacian.
func eigenmodeImage(rows, cols, k, l int) Grid {
	g := NewGrid(rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := 0.5 +
				0.25*math.Cos(math.Pi*float64(k)*(float64(i)+0.5)/float64(rows)) +
				0.25*math.Cos(math.Pi*float64(l)*(float64(j)+0.5)/float64(cols))
			g.Set(i, j, v)
		}
	}
	return g
}

// noisyImage returns uniform noise in [0, 1).
func noisyImage(rows, cols int, seed uint64) Grid {
	rng := rand.New(rand.NewPCG(seed, seed))
	g := NewGrid(rows, cols)
	for i := range g.Data {
		g.Data[i] = rng.Float64()
	}
	return g
}

// fringeImage returns a Gaussian background under a tilted cosine fringe.
func fringeImage(rows, cols int) Grid {
	return sampled(rows, cols, func(x, y float64) float64 {
		return 0.5 + 0.25*math.Exp(-(x*x+y*y)) + 0.25*math.Cos(12*(0.8*x+0.6*y))
	})
}

// smoothImage returns a fringe-free background.
func smoothImage(rows, cols int) Grid {
	return sampled(rows, cols, func(x, y float64) float64 {
		return 0.5 + 0.3*math.Exp(-2*(x*x+y*y)) + 0.1*x*y
	})
}

// rampImage returns a linear ramp along both axes.
func rampImage(rows, cols int) Grid {
	g := NewGrid(rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			g.Set(i, j, (float64(j)+0.5*float64(i))/(float64(cols)+0.5*float64(rows)))
		}
	}
	return g
}

// sampled evaluates fn over [-1, 1]² with rows along y.
func sampled(rows, cols int, fn func(x, y float64) float64) Grid {
	g := NewGrid(rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			y := -1 + 2*float64(i)/float64(rows-1)
			x := -1 + 2*float64(j)/float64(cols-1)
			g.Set(i, j, fn(x, y))
		}
	}
	return g
}

func upload(t *testing.T, backend tensor.Backend, g Grid) *tensor.RawTensor {
	t.Helper()
	raw, err := g.upload(backend)
	require.NoError(t, err)
	return raw
}

func cpuBackend() tensor.Backend {
	return cpu.New()
}
