package chambolle

import (
	"fmt"

	"github.com/fringelab/chambolle/internal/tensor"
	"gonum.org/v1/gonum/floats"
)

// Grid is a row-major H×W array of intensities.
type Grid struct {
	Rows, Cols int
	Data       []float64
}

// NewGrid creates a zero-filled grid.
func NewGrid(rows, cols int) Grid {
	return Grid{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
}

// At returns the value at row i, column j.
func (g Grid) At(i, j int) float64 {
	return g.Data[i*g.Cols+j]
}

// Set stores v at row i, column j.
func (g Grid) Set(i, j int, v float64) {
	g.Data[i*g.Cols+j] = v
}

// Shape returns the grid's shape as a tensor shape.
func (g Grid) Shape() tensor.Shape {
	return tensor.Shape{g.Rows, g.Cols}
}

// SameShape reports whether g and other have identical dimensions.
func (g Grid) SameShape(other Grid) bool {
	return g.Rows == other.Rows && g.Cols == other.Cols
}

// Clone returns a deep copy of the grid.
func (g Grid) Clone() Grid {
	data := make([]float64, len(g.Data))
	copy(data, g.Data)
	return Grid{Rows: g.Rows, Cols: g.Cols, Data: data}
}

// Background returns f − x, the smooth part left after removing the fringe
// reconstruction x from f.
func Background(f, x Grid) (Grid, error) {
	if err := f.validate(); err != nil {
		return Grid{}, err
	}
	if !f.SameShape(x) || len(x.Data) != len(f.Data) {
		return Grid{}, fmt.Errorf("%w: image %dx%d, reconstruction %dx%d", ErrShapeMismatch, f.Rows, f.Cols, x.Rows, x.Cols)
	}
	out := f.Clone()
	floats.Sub(out.Data, x.Data)
	return out, nil
}

// validate checks that the grid is non-empty and its data fills it.
func (g Grid) validate() error {
	if g.Rows <= 0 || g.Cols <= 0 {
		return fmt.Errorf("%w: empty grid %dx%d", ErrShapeMismatch, g.Rows, g.Cols)
	}
	if len(g.Data) != g.Rows*g.Cols {
		return fmt.Errorf("%w: %d values for a %dx%d grid", ErrShapeMismatch, len(g.Data), g.Rows, g.Cols)
	}
	return nil
}

// upload copies the grid into a tensor in the backend's element type.
func (g Grid) upload(backend tensor.Backend) (*tensor.RawTensor, error) {
	return tensor.FromFloat64(g.Data, g.Shape(), backend.DType(), backend.Device())
}

// gridOf copies a 2D tensor back into a Grid.
func gridOf(x *tensor.RawTensor) Grid {
	shape := x.Shape()
	return Grid{Rows: shape[0], Cols: shape[1], Data: x.Float64s()}
}
