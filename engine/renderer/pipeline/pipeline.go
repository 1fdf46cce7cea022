package pipeline

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// template is the implementation of the Template interface.
// It holds the fixed-function state shared by every render pipeline the terminal
// renderer builds: the cell grid pipeline, the four glow pass pipelines, and the
// final blit pipeline all go through the same template so their state stays
// consistent and only entry points, blend, and targets vary per build.
type template struct {
	// label is the debug label attached to the built pipeline and its layout
	label string

	// The following properties configure the pipeline during creation and can be toggled/set with the builder options.

	topology      wgpu.PrimitiveTopology
	frontFace     wgpu.FrontFace
	cullMode      wgpu.CullMode
	writeMask     wgpu.ColorWriteMask
	blendState    *wgpu.BlendState
	vertexLayouts []wgpu.VertexBufferLayout
}

// Template defines the interface for a reusable render pipeline description.
// A template captures fixed-function state once and can then build any number of
// concrete pipelines against different shader entry points, bind group layouts,
// and target formats.
type Template interface {
	// Label returns the debug label configured for this template.
	//
	// Returns:
	//   - string: the debug label attached to built pipelines
	Label() string

	// Topology returns the primitive topology configured for this template.
	//
	// Returns:
	//   - wgpu.PrimitiveTopology: the primitive topology (e.g., wgpu.PrimitiveTopologyTriangleList)
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the front face winding order configured for this template.
	//
	// Returns:
	//   - wgpu.FrontFace: the front face winding order (e.g., wgpu.FrontFaceCCW)
	FrontFace() wgpu.FrontFace

	// CullMode returns the cull mode configured for this template.
	//
	// Returns:
	//   - wgpu.CullMode: the cull mode (e.g., wgpu.CullModeNone)
	CullMode() wgpu.CullMode

	// WriteMask returns the color write mask configured for this template.
	//
	// Returns:
	//   - wgpu.ColorWriteMask: the color write mask (e.g., wgpu.ColorWriteMaskAll)
	WriteMask() wgpu.ColorWriteMask

	// BlendState returns the blend state configured for this template.
	//
	// Returns:
	//   - *wgpu.BlendState: the blend state applied to the single color target
	BlendState() *wgpu.BlendState

	// VertexLayouts returns the vertex buffer layouts configured for this template.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the vertex buffer layouts bound at slot 0 onward
	VertexLayouts() []wgpu.VertexBufferLayout

	// Build creates a concrete render pipeline from this template. The pipeline
	// targets a single color attachment of the given format, with no depth or
	// stencil attachment and no multisampling.
	//
	// Parameters:
	//   - device: the GPU device to build on
	//   - module: the shader module holding both entry points
	//   - vertexEntry: the vertex shader entry point name
	//   - fragmentEntry: the fragment shader entry point name
	//   - layouts: the bind group layouts, in group index order
	//   - format: the color target texture format
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the built pipeline
	//   - error: an error if pipeline layout or pipeline creation fails
	Build(device *wgpu.Device, module *wgpu.ShaderModule, vertexEntry, fragmentEntry string, layouts []*wgpu.BindGroupLayout, format wgpu.TextureFormat) (*wgpu.RenderPipeline, error)
}

var _ Template = &template{}

// NewTemplate is the entry point to create a new Template interface. The defaults
// describe an opaque triangle-list pipeline with no culling and no blending;
// options adjust individual pieces of state.
//
// Parameters:
//   - label: the debug label attached to pipelines built from this template
//   - opts: a variadic list of TemplateOption functions to configure the template
//
// Returns:
//   - Template: a new Template instance with the specified configuration
func NewTemplate(label string, opts ...TemplateOption) Template {
	t := &template{
		label:     label,
		topology:  wgpu.PrimitiveTopologyTriangleList,
		frontFace: wgpu.FrontFaceCCW,
		cullMode:  wgpu.CullModeNone,
		writeMask: wgpu.ColorWriteMaskAll,
		blendState: &wgpu.BlendState{
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
		},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *template) Label() string {
	return t.label
}

func (t *template) Topology() wgpu.PrimitiveTopology {
	return t.topology
}

func (t *template) FrontFace() wgpu.FrontFace {
	return t.frontFace
}

func (t *template) CullMode() wgpu.CullMode {
	return t.cullMode
}

func (t *template) WriteMask() wgpu.ColorWriteMask {
	return t.writeMask
}

func (t *template) BlendState() *wgpu.BlendState {
	return t.blendState
}

func (t *template) VertexLayouts() []wgpu.VertexBufferLayout {
	return t.vertexLayouts
}

func (t *template) Build(device *wgpu.Device, module *wgpu.ShaderModule, vertexEntry, fragmentEntry string, layouts []*wgpu.BindGroupLayout, format wgpu.TextureFormat) (*wgpu.RenderPipeline, error) {
	pipelineLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            t.label + " Layout",
		BindGroupLayouts: layouts,
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline: failed to create layout for %q: %w", t.label, err)
	}
	defer pipelineLayout.Release()

	renderPipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  t.label,
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: vertexEntry,
			Buffers:    t.vertexLayouts,
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: fragmentEntry,
			Targets: []wgpu.ColorTargetState{
				{
					Format:    format,
					Blend:     t.blendState,
					WriteMask: t.writeMask,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  t.topology,
			FrontFace: t.frontFace,
			CullMode:  t.cullMode,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: nil,
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline: failed to create render pipeline %q: %w", t.label, err)
	}

	return renderPipeline, nil
}
