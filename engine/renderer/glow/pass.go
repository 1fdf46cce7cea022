package glow

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// passVariant identifies one of the four glow pipeline stages. The four
// pipelines share the same shader module, bind group layouts, and
// fixed-function state, and differ only in fragment entry point and, for the
// composite stage, blend mode. Keeping the variation here keeps the pipelines
// layout-compatible so bind groups are interchangeable across passes.
type passVariant int

const (
	// passExtract thresholds the scene color into candidate glow color.
	passExtract passVariant = iota

	// passBlurHorizontal applies the horizontal half of the separable blur.
	passBlurHorizontal

	// passBlurVertical applies the vertical half of the separable blur.
	passBlurVertical

	// passComposite adds the blurred glow onto the main color buffer.
	passComposite
)

// passVariants lists all stages in pipeline-build order.
var passVariants = [4]passVariant{passExtract, passBlurHorizontal, passBlurVertical, passComposite}

// entryPoint returns the fragment shader entry point for this stage.
func (v passVariant) entryPoint() string {
	switch v {
	case passExtract:
		return "fs_extract"
	case passBlurHorizontal:
		return "fs_blur_h"
	case passBlurVertical:
		return "fs_blur_v"
	case passComposite:
		return "fs_composite"
	default:
		return ""
	}
}

// label returns the debug label for this stage's pipeline and render pass.
func (v passVariant) label() string {
	switch v {
	case passExtract:
		return "Glow Extract"
	case passBlurHorizontal:
		return "Glow Blur H"
	case passBlurVertical:
		return "Glow Blur V"
	case passComposite:
		return "Glow Composite"
	default:
		return "Glow Unknown"
	}
}

// blendState returns the blend configuration for this stage. The composite
// stage sums its output with the existing destination contents (additive on
// both color and alpha); every other stage fully overwrites its freshly
// cleared offscreen target.
func (v passVariant) blendState() *wgpu.BlendState {
	if v == passComposite {
		return &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOne,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOne,
				Operation: wgpu.BlendOperationAdd,
			},
		}
	}
	return &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorZero,
			Operation: wgpu.BlendOperationAdd,
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorZero,
			Operation: wgpu.BlendOperationAdd,
		},
	}
}

// passTarget identifies which image a pass step samples from or renders into.
type passTarget int

const (
	// targetMain is the caller-owned main color buffer.
	targetMain passTarget = iota

	// targetSrc is the effect-owned "src" offscreen surface.
	targetSrc

	// targetTmp is the effect-owned "tmp" offscreen surface.
	targetTmp
)

// passStep describes one recorded render pass: which pipeline runs, which
// image it samples, which image it targets, and the target's load policy.
type passStep struct {
	variant passVariant
	input   passTarget
	output  passTarget
	loadOp  wgpu.LoadOp
}

// framePasses returns the fixed four-step pass topology recorded every frame
// the effect is active:
//
//	extract:  main → src   (clear)
//	blur H:   src  → tmp   (clear)
//	blur V:   tmp  → src   (clear)
//	composite: src → main  (load)
//
// The src/tmp ping-pong avoids a third offscreen surface at the cost of a
// strict ordering requirement: within a step, input and output never alias,
// and each step consumes exactly what the previous step stored. The effect's
// own surfaces are always cleared before use; the caller-owned main target is
// never cleared, only loaded and additively blended into by the final step.
func framePasses() [4]passStep {
	return [4]passStep{
		{variant: passExtract, input: targetMain, output: targetSrc, loadOp: wgpu.LoadOpClear},
		{variant: passBlurHorizontal, input: targetSrc, output: targetTmp, loadOp: wgpu.LoadOpClear},
		{variant: passBlurVertical, input: targetTmp, output: targetSrc, loadOp: wgpu.LoadOpClear},
		{variant: passComposite, input: targetSrc, output: targetMain, loadOp: wgpu.LoadOpLoad},
	}
}
