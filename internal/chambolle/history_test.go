package chambolle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistory(t *testing.T) {
	h := newHistory(3)

	assert.Panics(t, func() { h.Oldest() })

	h.Push(1)
	assert.Equal(t, 1, h.Len())
	assert.Equal(t, 1.0, h.Oldest())
	assert.Equal(t, 1.0, h.Newest())

	h.Push(2)
	h.Push(3)
	assert.Equal(t, 1.0, h.Oldest())
	assert.Equal(t, 3.0, h.Newest())

	// Full: pushing evicts the oldest.
	h.Push(4)
	h.Push(5)
	assert.Equal(t, 3, h.Len())
	assert.Equal(t, 3.0, h.Oldest())
	assert.Equal(t, 5.0, h.Newest())
}
