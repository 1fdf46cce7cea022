package pipeline

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// TemplateOption is a functional option used to configure a Template during construction.
type TemplateOption func(*template)

// WithTopology sets the primitive topology for this template.
//
// Parameters:
//   - topology: the primitive topology to use (e.g., wgpu.PrimitiveTopologyPointList, wgpu.PrimitiveTopologyLineList, wgpu.PrimitiveTopologyTriangleList)
//
// Returns:
//   - TemplateOption: a function that sets the primitive topology for this template
func WithTopology(topology wgpu.PrimitiveTopology) TemplateOption {
	return func(t *template) {
		t.topology = topology
	}
}

// WithFrontFace sets the front face winding order for this template.
//
// Parameters:
//   - frontFace: the front face to use (e.g., wgpu.FrontFaceCCW, wgpu.FrontFaceCW)
//
// Returns:
//   - TemplateOption: a function that sets the front face for this template
func WithFrontFace(frontFace wgpu.FrontFace) TemplateOption {
	return func(t *template) {
		t.frontFace = frontFace
	}
}

// WithCullMode sets the cull mode for this template.
//
// Parameters:
//   - mode: the cull mode to use (e.g., wgpu.CullModeNone, wgpu.CullModeFront, wgpu.CullModeBack)
//
// Returns:
//   - TemplateOption: a function that sets the cull mode for this template
func WithCullMode(mode wgpu.CullMode) TemplateOption {
	return func(t *template) {
		t.cullMode = mode
	}
}

// WithWriteMask sets the color write mask for this template.
//
// Parameters:
//   - writeMask: the color write mask to use (e.g., wgpu.ColorWriteMaskAll, wgpu.ColorWriteMaskRed, wgpu.ColorWriteMaskGreen, wgpu.ColorWriteMaskBlue, wgpu.ColorWriteMaskAlpha)
//
// Returns:
//   - TemplateOption: a function that sets the color write mask for this template
func WithWriteMask(writeMask wgpu.ColorWriteMask) TemplateOption {
	return func(t *template) {
		t.writeMask = writeMask
	}
}

// WithBlendState sets the blend state for this template.
//
// Parameters:
//   - blendState: the blend state to apply to the single color target
//
// Returns:
//   - TemplateOption: a function that sets the blend state for this template
func WithBlendState(blendState *wgpu.BlendState) TemplateOption {
	return func(t *template) {
		t.blendState = blendState
	}
}

// WithVertexLayouts sets the vertex buffer layouts for this template.
//
// Parameters:
//   - layouts: the vertex buffer layouts bound at slot 0 onward
//
// Returns:
//   - TemplateOption: a function that sets the vertex buffer layouts for this template
func WithVertexLayouts(layouts ...wgpu.VertexBufferLayout) TemplateOption {
	return func(t *template) {
		t.vertexLayouts = layouts
	}
}
