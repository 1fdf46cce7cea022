package glow

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// Config holds the user-facing glow settings consumed once per frame.
// Enabled, Radius, and Strength gate the effect: a disabled config, a
// non-positive radius, or a non-positive strength all turn the effect off
// entirely (Render records nothing). The numeric fields are forwarded
// byte-for-byte into the per-frame uniform buffer.
type Config struct {
	// Enabled toggles the effect without touching the numeric tuning.
	Enabled bool

	// Radius is the blur radius in texels; <= 0 disables the effect.
	Radius float32

	// Threshold is the minimum brightness a pixel needs to contribute glow.
	Threshold float32

	// Strength scales the composited glow; <= 0 disables the effect.
	Strength float32

	// ColorBoost amplifies the glow color before compositing.
	ColorBoost float32
}

// GPUGlowParams is the GPU-aligned representation of the glow uniform buffer.
// Matches the WGSL GlowParams struct layout exactly (16 bytes, four f32 fields
// in this order, no padding).
type GPUGlowParams struct {
	Radius     float32 // offset  0: blur radius in texels (4 bytes)
	Threshold  float32 // offset  4: brightness threshold for extraction (4 bytes)
	Strength   float32 // offset  8: composite intensity scale (4 bytes)
	ColorBoost float32 // offset 12: glow color amplification (4 bytes)
}

// ParamsFromConfig converts a Config into the uniform representation.
// This is a pure identity mapping of the four numeric fields; no validation
// or clamping happens here (the disabled guard lives in Render).
//
// Parameters:
//   - cfg: the configuration snapshot for this frame
//
// Returns:
//   - GPUGlowParams: the uniform values to upload.
func ParamsFromConfig(cfg *Config) GPUGlowParams {
	return GPUGlowParams{
		Radius:     cfg.Radius,
		Threshold:  cfg.Threshold,
		Strength:   cfg.Strength,
		ColorBoost: cfg.ColorBoost,
	}
}

// Size returns the size of the GPUGlowParams struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUGlowParams) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUGlowParams struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload.
func (g *GPUGlowParams) Marshal() []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Radius))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.Threshold))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.Strength))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(g.ColorBoost))
	return buf
}

// disabled reports whether the config turns the effect off for this frame.
func (c *Config) disabled() bool {
	return c == nil || !c.Enabled || c.Strength <= 0 || c.Radius <= 0
}
