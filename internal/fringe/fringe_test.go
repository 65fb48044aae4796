package fringe

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallOptions(seed uint64) Options {
	opts := DefaultOptions()
	opts.Size = 16
	opts.Seed = seed
	return opts
}

func TestGenerator_Deterministic(t *testing.T) {
	a, err := New(smallOptions(42))
	require.NoError(t, err)
	b, err := New(smallOptions(42))
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		assert.Equal(t, a.Next(), b.Next())
	}
}

func TestGenerator_SeedsDiffer(t *testing.T) {
	a, err := New(smallOptions(1))
	require.NoError(t, err)
	b, err := New(smallOptions(2))
	require.NoError(t, err)

	assert.NotEqual(t, a.Next().Interferogram.Data, b.Next().Interferogram.Data)
}

func TestGenerate_Composition(t *testing.T) {
	gen, err := New(smallOptions(7))
	require.NoError(t, err)

	for _, kind := range []Kind{Linear, Spherical, Polynomial} {
		t.Run(kind.String(), func(t *testing.T) {
			s := gen.Generate(kind)

			assert.Equal(t, kind, s.Kind)
			require.Len(t, s.Interferogram.Data, 16*16)
			for i := range s.Fringes.Data {
				assert.LessOrEqual(t, math.Abs(s.Fringes.Data[i]), 1.0)
				// Noise-free: interferogram = background + fringes.
				assert.InDelta(t, s.Background.Data[i]+s.Fringes.Data[i], s.Interferogram.Data[i], 1e-12)
			}
		})
	}
}

func TestGenerate_Noise(t *testing.T) {
	opts := smallOptions(3)
	opts.Noise = 0.075
	gen, err := New(opts)
	require.NoError(t, err)

	s := gen.Generate(Polynomial)

	var diff float64
	for i := range s.Interferogram.Data {
		diff += math.Abs(s.Interferogram.Data[i] - s.Background.Data[i] - s.Fringes.Data[i])
	}
	assert.Positive(t, diff)
}

func TestNext_KindMix(t *testing.T) {
	opts := smallOptions(11)
	opts.Size = 2
	gen, err := New(opts)
	require.NoError(t, err)

	counts := map[Kind]int{}
	for i := 0; i < 4000; i++ {
		counts[gen.Next().Kind]++
	}

	assert.InDelta(t, 0.95*4000, counts[Polynomial], 120)
	assert.InDelta(t, 0.04*4000, counts[Spherical], 60)
	assert.InDelta(t, 0.01*4000, counts[Linear], 30)
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
	}{
		{"size", func(o *Options) { o.Size = 1 }},
		{"frequency range", func(o *Options) { o.MaxFrequency = o.MinFrequency }},
		{"zero min frequency", func(o *Options) { o.MinFrequency = 0 }},
		{"angle range", func(o *Options) { o.MaxAngle = -1 }},
		{"amplitude", func(o *Options) { o.Amplitude = 0 }},
		{"noise", func(o *Options) { o.Noise = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.modify(&opts)
			_, err := New(opts)
			assert.ErrorIs(t, err, ErrInvalidOptions)
		})
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "linear", Linear.String())
	assert.Equal(t, "spherical", Spherical.String())
	assert.Equal(t, "polynomial", Polynomial.String())
	assert.Equal(t, "Kind(9)", Kind(9).String())
}
