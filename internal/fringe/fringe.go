// Package fringe generates synthetic interferograms together with their
// background-free fringe references, for labelling and testing the
// decomposition.
//
// An interferogram is I = a + b·cos(φ) + n, where a is a smooth background
// (a random quartic polynomial under a Gaussian envelope), b the fringe
// amplitude, φ the phase and n optional Gaussian noise. The reference is
// b·cos(φ). Phases come in three kinds, drawn with fixed probabilities:
// tilted linear carriers (1%), spherical objects (4%) and cubic
// polynomial objects on a tilted carrier (95%).
package fringe

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/fringelab/chambolle/internal/chambolle"
)

// Kind is the shape of the encoded phase object.
type Kind int

// Phase kinds.
const (
	Linear Kind = iota
	Spherical
	Polynomial
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Linear:
		return "linear"
	case Spherical:
		return "spherical"
	case Polynomial:
		return "polynomial"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// kindWeights are the cumulative probabilities of Linear, Spherical and
// Polynomial.
var kindWeights = [...]float64{0.01, 0.05, 1}

// ErrInvalidOptions indicates generator options out of range.
var ErrInvalidOptions = errors.New("fringe: invalid options")

// Options configures a Generator.
type Options struct {
	Size         int     // Image side in pixels
	MinFrequency int     // Lowest carrier frequency
	MaxFrequency int     // Highest carrier frequency (exclusive)
	MinAngle     float64 // Lowest carrier orientation, radians
	MaxAngle     float64 // Highest carrier orientation, radians
	Amplitude    float64 // Fringe amplitude b
	Noise        float64 // Standard deviation of additive noise; 0 disables it
	Seed         uint64
}

// DefaultOptions returns noise-free 256×256 generation settings.
func DefaultOptions() Options {
	return Options{
		Size:         256,
		MinFrequency: 2,
		MaxFrequency: 30,
		MinAngle:     0,
		MaxAngle:     math.Pi,
		Amplitude:    1,
		Seed:         1,
	}
}

// Validate checks the options.
func (o Options) Validate() error {
	switch {
	case o.Size < 2:
		return fmt.Errorf("%w: size %d must be at least 2", ErrInvalidOptions, o.Size)
	case o.MinFrequency < 1 || o.MaxFrequency <= o.MinFrequency:
		return fmt.Errorf("%w: frequency range [%d, %d)", ErrInvalidOptions, o.MinFrequency, o.MaxFrequency)
	case !(o.MaxAngle >= o.MinAngle):
		return fmt.Errorf("%w: angle range [%g, %g)", ErrInvalidOptions, o.MinAngle, o.MaxAngle)
	case !(o.Amplitude > 0):
		return fmt.Errorf("%w: amplitude %g must be positive", ErrInvalidOptions, o.Amplitude)
	case o.Noise < 0:
		return fmt.Errorf("%w: noise %g must not be negative", ErrInvalidOptions, o.Noise)
	}
	return nil
}

// Sample is one generated image pair.
type Sample struct {
	Kind          Kind
	Interferogram chambolle.Grid
	Fringes       chambolle.Grid // Background-free reference b·cos(φ)
	Background    chambolle.Grid
}

// Generator produces a deterministic stream of samples for its seed.
//
// A Generator is not safe for concurrent use; give each goroutine its own.
type Generator struct {
	opts   Options
	rng    *rand.Rand
	coords []float64 // linspace(-1, 1, Size)
}

// New creates a generator.
func New(opts Options) (*Generator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	coords := make([]float64, opts.Size)
	for i := range coords {
		coords[i] = -1 + 2*float64(i)/float64(opts.Size-1)
	}
	return &Generator{
		opts:   opts,
		rng:    rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
		coords: coords,
	}, nil
}

// Next draws a phase kind and generates a sample of it.
func (g *Generator) Next() Sample {
	u := g.rng.Float64()
	kind := Polynomial
	for k, w := range kindWeights {
		if u < w {
			kind = Kind(k)
			break
		}
	}
	return g.Generate(kind)
}

// Generate produces a sample of the given kind.
func (g *Generator) Generate(kind Kind) Sample {
	background := g.background()

	var phase chambolle.Grid
	switch kind {
	case Spherical:
		phase = g.spherical()
	case Linear:
		phase = g.carrier(g.polynomial(1))
	default:
		phase = g.carrier(g.polynomial(3))
	}

	n := g.opts.Size
	interferogram := chambolle.NewGrid(n, n)
	fringes := chambolle.NewGrid(n, n)
	for i := range phase.Data {
		fringes.Data[i] = g.opts.Amplitude * math.Cos(phase.Data[i])
		interferogram.Data[i] = background.Data[i] + fringes.Data[i]
		if g.opts.Noise > 0 {
			interferogram.Data[i] += g.opts.Noise * g.rng.NormFloat64()
		}
	}
	return Sample{Kind: kind, Interferogram: interferogram, Fringes: fringes, Background: background}
}

// background returns a random quartic polynomial under a Gaussian envelope.
func (g *Generator) background() chambolle.Grid {
	bg := g.polynomial(4)
	g.each(bg, func(x, y, v float64) float64 {
		return v * gaussian(x, y)
	})
	return bg
}

// gaussian is the background envelope exp(−(x² + y²)/2 · σ) with σ = 3.
func gaussian(x, y float64) float64 {
	const sigma = 3.0
	return math.Exp(-(x*x + y*y) / 2 * sigma)
}

// polynomial returns Σ a·x^i + b·y^i + c·(xy)^(i−1) for i = order..1 with
// coefficients uniform in [−1, 1).
func (g *Generator) polynomial(order int) chambolle.Grid {
	coeffs := make([]float64, 3*order)
	for i := range coeffs {
		coeffs[i] = 2*g.rng.Float64() - 1
	}

	out := chambolle.NewGrid(g.opts.Size, g.opts.Size)
	g.each(out, func(x, y, _ float64) float64 {
		sum := 0.0
		for k, i := 0, order; i > 0; k, i = k+3, i-1 {
			p := float64(i)
			sum += coeffs[k]*math.Pow(x, p) + coeffs[k+1]*math.Pow(y, p) + coeffs[k+2]*math.Pow(x*y, p-1)
		}
		return sum
	})
	return out
}

// carrier adds a tilted linear carrier to object and scales by a random
// frequency: φ = f·(π/2·(cos θ·x + sin θ·y) + object).
func (g *Generator) carrier(object chambolle.Grid) chambolle.Grid {
	freq := float64(g.opts.MinFrequency + g.rng.IntN(g.opts.MaxFrequency-g.opts.MinFrequency))
	angle := g.opts.MinAngle + g.rng.Float64()*(g.opts.MaxAngle-g.opts.MinAngle)
	cos, sin := math.Cos(angle), math.Sin(angle)

	g.each(object, func(x, y, v float64) float64 {
		return freq * (math.Pi/2*(cos*x+sin*y) + v)
	})
	return object
}

// spherical returns f·((x − x0)² + (y − y0)²) + h with a random centre in
// [−0.5, 0.5)², curvature f in [MinFrequency/2, 2·MaxFrequency) and
// offset h in [−3, 3).
func (g *Generator) spherical() chambolle.Grid {
	x0 := g.rng.Float64() - 0.5
	y0 := g.rng.Float64() - 0.5
	lo := g.opts.MinFrequency / 2
	f := float64(lo + g.rng.IntN(2*g.opts.MaxFrequency-lo))
	h := float64(g.rng.IntN(6) - 3)

	out := chambolle.NewGrid(g.opts.Size, g.opts.Size)
	g.each(out, func(x, y, _ float64) float64 {
		return f*((x-x0)*(x-x0)+(y-y0)*(y-y0)) + h
	})
	return out
}

// each replaces every value of grid by fn(x, y, value), where x runs along
// columns and y along rows over [−1, 1].
func (g *Generator) each(grid chambolle.Grid, fn func(x, y, v float64) float64) {
	for r, y := range g.coords {
		for c, x := range g.coords {
			grid.Set(r, c, fn(x, y, grid.At(r, c)))
		}
	}
}
