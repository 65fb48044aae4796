package imageio

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/fringelab/chambolle/internal/chambolle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	g := chambolle.Grid{Rows: 1, Cols: 4, Data: []float64{10, 20, 30, 50}}

	n := Normalize(g)

	assert.InDeltaSlice(t, []float64{0, 0.25, 0.5, 1}, n.Data, 1e-12)
	assert.Equal(t, 10.0, g.Data[0], "input must not change")
}

func TestNormalize_Constant(t *testing.T) {
	n := Normalize(chambolle.Grid{Rows: 2, Cols: 1, Data: []float64{7, 7}})

	assert.Equal(t, []float64{0, 0}, n.Data)
}

func TestSymmetric(t *testing.T) {
	g := chambolle.Grid{Rows: 1, Cols: 3, Data: []float64{-2, 0, 1}}

	s := Symmetric(g, 255)

	assert.InDeltaSlice(t, []float64{0, 127.5, 191.25}, s.Data, 1e-12)
	assert.Equal(t, []float64{127.5}, Symmetric(chambolle.NewGrid(1, 1), 255).Data)
}

func TestFromImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 2))
	img.SetGray(2, 0, color.Gray{Y: 200})
	img.SetGray(0, 1, color.Gray{Y: 40})

	g := FromImage(img)

	assert.Equal(t, 2, g.Rows)
	assert.Equal(t, 3, g.Cols)
	assert.Equal(t, 200.0, g.At(0, 2))
	assert.Equal(t, 40.0, g.At(1, 0))
}

func TestWriteReadBMP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "0.bmp")
	g := chambolle.Grid{Rows: 2, Cols: 3, Data: []float64{0, 1, 2, 3, 4, 5}}

	require.NoError(t, WriteBMP(path, g))
	back, err := ReadGray(path)
	require.NoError(t, err)

	assert.Equal(t, 2, back.Rows)
	assert.Equal(t, 3, back.Cols)
	assert.Equal(t, []float64{0, 51, 102, 153, 204, 255}, back.Data)
}

func TestReadGray_Missing(t *testing.T) {
	_, err := ReadGray(filepath.Join(t.TempDir(), "missing.bmp"))
	assert.Error(t, err)
}
