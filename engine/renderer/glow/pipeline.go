package glow

import (
	_ "embed"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/termglow/termglow/engine/model"
	"github.com/termglow/termglow/engine/renderer/pipeline"
)

//go:embed assets/glow.wgsl
var glowShaderSource string

// pipelineSet owns the GPU pipeline state shared by the four glow passes: one
// shader module, the two bind group layouts, and one render pipeline per pass
// variant. All four pipelines use identical layouts, so a bind group created
// against this set works with any of them.
type pipelineSet struct {
	shaderModule *wgpu.ShaderModule

	// uniformLayout describes group 0: the glow parameter uniform, fragment only.
	uniformLayout *wgpu.BindGroupLayout
	// textureLayout describes group 1: the sampled input texture plus sampler, fragment only.
	textureLayout *wgpu.BindGroupLayout

	pipelines [4]*wgpu.RenderPipeline
}

// newPipelineSet builds the shader module, bind group layouts, and all four
// pass pipelines. Construction is all-or-nothing: on any failure, everything
// created so far is released and an error is returned.
//
// The offscreen-targeting pipelines (extract and both blurs) render into the
// effect's own RGBA8UnormSrgb surfaces; only the composite pipeline targets
// the caller's main color buffer, so only it takes the caller's format.
//
// Parameters:
//   - device: the GPU device to build on
//   - mainFormat: the texture format of the caller-owned main color buffer
//
// Returns:
//   - *pipelineSet: the created set
//   - error: an error if any shader, layout, or pipeline creation fails
func newPipelineSet(device *wgpu.Device, mainFormat wgpu.TextureFormat) (*pipelineSet, error) {
	s := &pipelineSet{}

	var err error
	s.shaderModule, err = device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "Glow Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: glowShaderSource,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("glow: failed to create shader module: %w", err)
	}

	s.uniformLayout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Glow Uniform Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: uint64((&GPUGlowParams{}).Size()),
				},
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeUndefined,
				},
				Texture: wgpu.TextureBindingLayout{
					SampleType: wgpu.TextureSampleTypeUndefined,
				},
			},
		},
	})
	if err != nil {
		s.Release()
		return nil, fmt.Errorf("glow: failed to create uniform bind group layout: %w", err)
	}

	s.textureLayout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Glow Texture Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					Multisampled:  false,
					ViewDimension: wgpu.TextureViewDimension2D,
					SampleType:    wgpu.TextureSampleTypeFloat,
				},
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeUndefined,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
				Texture: wgpu.TextureBindingLayout{
					SampleType: wgpu.TextureSampleTypeUndefined,
				},
			},
		},
	})
	if err != nil {
		s.Release()
		return nil, fmt.Errorf("glow: failed to create texture bind group layout: %w", err)
	}

	layouts := []*wgpu.BindGroupLayout{s.uniformLayout, s.textureLayout}
	for i, variant := range passVariants {
		format := wgpu.TextureFormatRGBA8UnormSrgb
		if variant == passComposite {
			format = mainFormat
		}
		tmpl := pipeline.NewTemplate(variant.label(),
			pipeline.WithBlendState(variant.blendState()),
			pipeline.WithVertexLayouts(model.QuadVertexLayout()),
		)
		s.pipelines[i], err = tmpl.Build(device, s.shaderModule, "vs_fullscreen", variant.entryPoint(), layouts, format)
		if err != nil {
			s.Release()
			return nil, fmt.Errorf("glow: failed to build %s pipeline: %w", variant.label(), err)
		}
	}

	return s, nil
}

// pipelineFor returns the render pipeline for the given pass variant.
func (s *pipelineSet) pipelineFor(variant passVariant) *wgpu.RenderPipeline {
	return s.pipelines[variant]
}

// Release releases every pipeline, layout, and the shader module. Safe to call
// on a partially constructed set.
func (s *pipelineSet) Release() {
	if s == nil {
		return
	}
	for i, p := range s.pipelines {
		if p != nil {
			p.Release()
			s.pipelines[i] = nil
		}
	}
	if s.textureLayout != nil {
		s.textureLayout.Release()
		s.textureLayout = nil
	}
	if s.uniformLayout != nil {
		s.uniformLayout.Release()
		s.uniformLayout = nil
	}
	if s.shaderModule != nil {
		s.shaderModule.Release()
		s.shaderModule = nil
	}
}
