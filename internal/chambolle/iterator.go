package chambolle

import "github.com/fringelab/chambolle/internal/tensor"

// DualField is the projection vector p = (X, Y), one component per axis.
type DualField struct {
	X, Y *tensor.RawTensor
}

// Iterator advances the dual field one projection step at a time.
//
// An Iterator belongs to a single solve; it is not safe for concurrent use.
type Iterator struct {
	backend tensor.Backend
	fOverMi *tensor.RawTensor
	mi, tau float64
	p       DualField
}

// NewIterator creates an iterator for image f with a zero dual field.
func NewIterator(backend tensor.Backend, f *tensor.RawTensor, mi, tau float64) *Iterator {
	return &Iterator{
		backend: backend,
		fOverMi: backend.MulScalar(f, 1/mi),
		mi:      mi,
		tau:     tau,
		p: DualField{
			X: backend.Zeros(f.Shape()),
			Y: backend.Zeros(f.Shape()),
		},
	}
}

// Dual returns the current dual field.
func (it *Iterator) Dual() DualField {
	return it.p
}

// Step performs one update and returns the new fringe estimate
// x = mi·div(p):
//
//	g = ∇(div(p) − f/mi)
//	p ← (p + tau·g) / (1 + tau·|g|)
//
// The returned tensor is freshly allocated and never modified afterwards.
func (it *Iterator) Step() *tensor.RawTensor {
	b := it.backend

	gx, gy := Gradient(b, b.Sub(Divergence(b, it.p.X, it.p.Y), it.fOverMi))
	magnitude := b.Sqrt(b.Add(b.Pow(gx, 2), b.Pow(gy, 2)))
	denominator := b.AddScalar(b.MulScalar(magnitude, it.tau), 1)

	it.p = DualField{
		X: b.Div(b.Add(it.p.X, b.MulScalar(gx, it.tau)), denominator),
		Y: b.Div(b.Add(it.p.Y, b.MulScalar(gy, it.tau)), denominator),
	}
	return b.MulScalar(Divergence(b, it.p.X, it.p.Y), it.mi)
}
