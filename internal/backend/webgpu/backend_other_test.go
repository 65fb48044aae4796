//go:build !windows

package webgpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_Unavailable(t *testing.T) {
	backend, err := New()

	assert.Nil(t, backend)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.False(t, IsAvailable())
}
