package chambolle

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 100.0, cfg.Mi)
	assert.Equal(t, 0.25, cfg.Tau)
	assert.Equal(t, 1e-5, cfg.Tolerance)
	assert.Equal(t, 100, cfg.StagnationWindow)
	assert.Equal(t, 10000, cfg.MaxIterations)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero mi", func(c *Config) { c.Mi = 0 }},
		{"negative tau", func(c *Config) { c.Tau = -0.1 }},
		{"NaN tolerance", func(c *Config) { c.Tolerance = math.NaN() }},
		{"infinite mi", func(c *Config) { c.Mi = math.Inf(1) }},
		{"zero window", func(c *Config) { c.StagnationWindow = 0 }},
		{"zero iterations", func(c *Config) { c.MaxIterations = 0 }},
		{"divergence factor 1", func(c *Config) { c.DivergenceFactor = 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestConfig_LargeTauIsAccepted(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tau = 1

	assert.NoError(t, cfg.Validate())
}
