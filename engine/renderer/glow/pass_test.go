package glow

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFramePassTopology(t *testing.T) {
	steps := framePasses()
	require.Len(t, steps[:], 4)

	assert.Equal(t, passExtract, steps[0].variant)
	assert.Equal(t, targetMain, steps[0].input)
	assert.Equal(t, targetSrc, steps[0].output)

	assert.Equal(t, passBlurHorizontal, steps[1].variant)
	assert.Equal(t, targetSrc, steps[1].input)
	assert.Equal(t, targetTmp, steps[1].output)

	assert.Equal(t, passBlurVertical, steps[2].variant)
	assert.Equal(t, targetTmp, steps[2].input)
	assert.Equal(t, targetSrc, steps[2].output)

	assert.Equal(t, passComposite, steps[3].variant)
	assert.Equal(t, targetSrc, steps[3].input)
	assert.Equal(t, targetMain, steps[3].output)
}

func TestFramePassesNeverAliasInputAndOutput(t *testing.T) {
	for _, step := range framePasses() {
		assert.NotEqual(t, step.input, step.output,
			"%s must not sample its own render target", step.variant.label())
	}
}

func TestFramePassesChainOutputsToInputs(t *testing.T) {
	steps := framePasses()
	for i := 1; i < len(steps); i++ {
		assert.Equal(t, steps[i-1].output, steps[i].input,
			"%s must consume what %s produced", steps[i].variant.label(), steps[i-1].variant.label())
	}
}

func TestFramePassesLoadOps(t *testing.T) {
	steps := framePasses()
	for _, step := range steps[:3] {
		assert.Equal(t, wgpu.LoadOpClear, step.loadOp,
			"%s renders into an owned surface and must clear it", step.variant.label())
	}
	assert.Equal(t, wgpu.LoadOpLoad, steps[3].loadOp,
		"composite must preserve the existing scene contents")
}

func TestCompositeBlendIsAdditive(t *testing.T) {
	blend := passComposite.blendState()
	require.NotNil(t, blend)

	assert.Equal(t, wgpu.BlendFactorOne, blend.Color.SrcFactor)
	assert.Equal(t, wgpu.BlendFactorOne, blend.Color.DstFactor)
	assert.Equal(t, wgpu.BlendOperationAdd, blend.Color.Operation)
	assert.Equal(t, wgpu.BlendFactorOne, blend.Alpha.SrcFactor)
	assert.Equal(t, wgpu.BlendFactorOne, blend.Alpha.DstFactor)
	assert.Equal(t, wgpu.BlendOperationAdd, blend.Alpha.Operation)
}

func TestOffscreenPassBlendsOverwrite(t *testing.T) {
	for _, variant := range []passVariant{passExtract, passBlurHorizontal, passBlurVertical} {
		blend := variant.blendState()
		require.NotNil(t, blend)
		assert.Equal(t, wgpu.BlendFactorOne, blend.Color.SrcFactor, variant.label())
		assert.Equal(t, wgpu.BlendFactorZero, blend.Color.DstFactor, variant.label())
		assert.Equal(t, wgpu.BlendOperationAdd, blend.Color.Operation, variant.label())
		assert.Equal(t, wgpu.BlendFactorOne, blend.Alpha.SrcFactor, variant.label())
		assert.Equal(t, wgpu.BlendFactorZero, blend.Alpha.DstFactor, variant.label())
	}
}

func TestPassEntryPoints(t *testing.T) {
	assert.Equal(t, "fs_extract", passExtract.entryPoint())
	assert.Equal(t, "fs_blur_h", passBlurHorizontal.entryPoint())
	assert.Equal(t, "fs_blur_v", passBlurVertical.entryPoint())
	assert.Equal(t, "fs_composite", passComposite.entryPoint())
}

func TestShaderDeclaresAllEntryPoints(t *testing.T) {
	require.NotEmpty(t, glowShaderSource)
	assert.Contains(t, glowShaderSource, "fn vs_fullscreen")
	for _, variant := range passVariants {
		assert.Contains(t, glowShaderSource, "fn "+variant.entryPoint())
	}
}
