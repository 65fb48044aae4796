package chambolle

import "github.com/fringelab/chambolle/internal/tensor"

// Axes of a 2D grid.
const (
	rowAxis = 0
	colAxis = 1
)

// Gradient returns the forward differences of m along rows (gx) and
// columns (gy). The last row/column is replicated before differencing, so
// the gradient is zero on the far edge (Neumann boundary).
func Gradient(backend tensor.Backend, m *tensor.RawTensor) (gx, gy *tensor.RawTensor) {
	return forwardDiff(backend, m, rowAxis), forwardDiff(backend, m, colAxis)
}

// Divergence returns the discrete divergence of the field (px, py), the
// negative adjoint of Gradient:
//
//	sum(a ⊙ Divergence(p)) = −sum(Gradient(a) · p)
func Divergence(backend tensor.Backend, px, py *tensor.RawTensor) *tensor.RawTensor {
	return backend.Add(backwardDiv(backend, px, rowAxis), backwardDiv(backend, py, colAxis))
}

// forwardDiff computes concat(m[1:], m[last:]) − m along axis.
func forwardDiff(backend tensor.Backend, m *tensor.RawTensor, axis int) *tensor.RawTensor {
	n := m.Shape()[axis]
	if n == 1 {
		return backend.Zeros(m.Shape())
	}
	shifted := backend.Cat([]*tensor.RawTensor{
		backend.Narrow(m, axis, 1, n-1),
		backend.Narrow(m, axis, n-1, 1),
	}, axis)
	return backend.Sub(shifted, m)
}

// backwardDiv computes p[0], p[i] − p[i−1], −p[last−1] along axis.
func backwardDiv(backend tensor.Backend, p *tensor.RawTensor, axis int) *tensor.RawTensor {
	n := p.Shape()[axis]
	if n == 1 {
		return backend.Zeros(p.Shape())
	}

	first := backend.Narrow(p, axis, 0, 1)
	last := backend.MulScalar(backend.Narrow(p, axis, n-2, 1), -1)
	if n == 2 {
		return backend.Cat([]*tensor.RawTensor{first, last}, axis)
	}

	interior := backend.Sub(backend.Narrow(p, axis, 1, n-2), backend.Narrow(p, axis, 0, n-2))
	return backend.Cat([]*tensor.RawTensor{first, interior, last}, axis)
}
