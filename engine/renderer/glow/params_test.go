package glow

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamsFromConfigCopiesAllFields(t *testing.T) {
	cfg := &Config{
		Enabled:    true,
		Radius:     3.0,
		Strength:   0.8,
		Threshold:  0.6,
		ColorBoost: 1.2,
	}

	params := ParamsFromConfig(cfg)
	assert.Equal(t, float32(3.0), params.Radius)
	assert.Equal(t, float32(0.8), params.Strength)
	assert.Equal(t, float32(0.6), params.Threshold)
	assert.Equal(t, float32(1.2), params.ColorBoost)
}

func TestParamsFromConfigZeroConfig(t *testing.T) {
	params := ParamsFromConfig(&Config{})
	assert.Zero(t, params.Radius)
	assert.Zero(t, params.Strength)
	assert.Zero(t, params.Threshold)
	assert.Zero(t, params.ColorBoost)
}

func TestParamsSize(t *testing.T) {
	params := GPUGlowParams{}
	assert.Equal(t, 16, params.Size())
}

func TestParamsMarshalLayout(t *testing.T) {
	params := GPUGlowParams{
		Radius:     4.5,
		Threshold:  0.55,
		Strength:   1.0,
		ColorBoost: 2.0,
	}

	buf := params.Marshal()
	require.Len(t, buf, 16)

	readF32 := func(offset int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset : offset+4]))
	}
	assert.Equal(t, params.Radius, readF32(0))
	assert.Equal(t, params.Threshold, readF32(4))
	assert.Equal(t, params.Strength, readF32(8))
	assert.Equal(t, params.ColorBoost, readF32(12))
}

func TestConfigDisabled(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *Config
		disabled bool
	}{
		{name: "nil config", cfg: nil, disabled: true},
		{name: "not enabled", cfg: &Config{Enabled: false, Radius: 3, Strength: 1}, disabled: true},
		{name: "zero strength", cfg: &Config{Enabled: true, Radius: 3, Strength: 0}, disabled: true},
		{name: "negative strength", cfg: &Config{Enabled: true, Radius: 3, Strength: -0.5}, disabled: true},
		{name: "zero radius", cfg: &Config{Enabled: true, Radius: 0, Strength: 1}, disabled: true},
		{name: "negative radius", cfg: &Config{Enabled: true, Radius: -2, Strength: 1}, disabled: true},
		{name: "active", cfg: &Config{Enabled: true, Radius: 3, Strength: 1}, disabled: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.disabled, tt.cfg.disabled())
		})
	}
}
