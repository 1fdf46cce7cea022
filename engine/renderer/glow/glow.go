// Package glow implements a four-pass neon glow post-process for the terminal
// renderer: bright regions of the main color buffer are extracted, blurred with
// a separable Gaussian, and additively composited back over the scene.
//
// The effect is a self-contained encoder client. The host renders its scene
// into a sampleable main color buffer, then hands the effect a command encoder
// and the buffer's view; the effect records its passes and the host submits the
// frame. The effect never submits work or touches the swapchain itself.
package glow

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// glowEffect is the implementation of the Effect interface.
type glowEffect struct {
	pipelines     *pipelineSet
	quad          *quadGeometry
	linearSampler *wgpu.Sampler

	// src and tmp are the ping-pong surfaces: extract writes src, the
	// horizontal blur writes tmp, the vertical blur writes src again, and
	// composite reads src.
	src *offscreenSurface
	tmp *offscreenSurface

	width  uint32
	height uint32
}

// Effect defines the interface for the glow post-process. One Effect instance
// serves one output surface; it owns its intermediate textures and pipelines
// and must be released when the renderer shuts down.
type Effect interface {
	// Resize replaces the intermediate surfaces to match a new output
	// resolution. Calling with the current dimensions is a no-op; the GPU
	// resources are untouched and no error can occur.
	//
	// Parameters:
	//   - device: the GPU device to allocate new surfaces on
	//   - width: new output width in pixels
	//   - height: new output height in pixels
	//
	// Returns:
	//   - error: an error if the replacement surfaces cannot be created; on
	//     error the previous surfaces remain valid and usable
	Resize(device *wgpu.Device, width, height uint32) error

	// Render records the glow passes onto the given encoder. The mainView must
	// be a sampleable view of the main color buffer at the effect's current
	// dimensions; after the recorded passes execute, it holds the scene with
	// glow added.
	//
	// When the config disables the effect (nil, Enabled false, or non-positive
	// Strength or Radius), Render returns nil immediately without reading any
	// GPU handle, so a disabled effect is free.
	//
	// Parameters:
	//   - encoder: the command encoder to record passes onto
	//   - device: the GPU device, used for the per-frame uniform upload
	//   - mainView: sampleable view of the main color buffer
	//   - cfg: the glow settings snapshot for this frame
	//
	// Returns:
	//   - error: an error if uniform or bind group creation fails; the encoder
	//     may hold a partial pass sequence and the frame should be dropped
	Render(encoder *wgpu.CommandEncoder, device *wgpu.Device, mainView *wgpu.TextureView, cfg *Config) error

	// Release releases all GPU resources owned by the effect. Safe to call
	// more than once.
	Release()
}

var _ Effect = &glowEffect{}

// NewEffect is the entry point to create a new Effect interface. It builds the
// shader pipelines, the fullscreen quad, the linear clamp sampler, and the two
// intermediate surfaces at the given resolution. Construction is
// all-or-nothing: on failure everything created so far is released.
//
// Parameters:
//   - device: the GPU device to allocate on
//   - mainFormat: the texture format of the main color buffer the composite pass targets
//   - width: output width in pixels
//   - height: output height in pixels
//
// Returns:
//   - Effect: the created effect
//   - error: an error if any GPU resource creation fails
func NewEffect(device *wgpu.Device, mainFormat wgpu.TextureFormat, width, height uint32) (Effect, error) {
	e := &glowEffect{
		width:  width,
		height: height,
	}

	var err error
	e.pipelines, err = newPipelineSet(device, mainFormat)
	if err != nil {
		return nil, err
	}

	e.quad, err = newFullscreenQuad(device)
	if err != nil {
		e.Release()
		return nil, err
	}

	e.linearSampler, err = device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Glow Linear Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   0.0,
		LodMaxClamp:   32.0,
		MaxAnisotropy: 1,
	})
	if err != nil {
		e.Release()
		return nil, fmt.Errorf("glow: failed to create sampler: %w", err)
	}

	e.src, err = newOffscreenSurface(device, width, height, "Glow Src Surface")
	if err != nil {
		e.Release()
		return nil, err
	}

	e.tmp, err = newOffscreenSurface(device, width, height, "Glow Tmp Surface")
	if err != nil {
		e.Release()
		return nil, err
	}

	return e, nil
}

func (e *glowEffect) Resize(device *wgpu.Device, width, height uint32) error {
	if width == e.width && height == e.height {
		return nil
	}

	// Allocate both replacements before releasing anything so a failure
	// leaves the effect usable at the old resolution.
	newSrc, err := newOffscreenSurface(device, width, height, "Glow Src Surface")
	if err != nil {
		return err
	}
	newTmp, err := newOffscreenSurface(device, width, height, "Glow Tmp Surface")
	if err != nil {
		newSrc.Release()
		return err
	}

	e.src.Release()
	e.tmp.Release()
	e.src = newSrc
	e.tmp = newTmp
	e.width = width
	e.height = height
	return nil
}

func (e *glowEffect) Render(encoder *wgpu.CommandEncoder, device *wgpu.Device, mainView *wgpu.TextureView, cfg *Config) error {
	if cfg.disabled() {
		return nil
	}

	params := ParamsFromConfig(cfg)
	uniformBuffer, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Glow Uniform Buffer",
		Size:  uint64(params.Size()),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("glow: failed to create uniform buffer: %w", err)
	}
	// Transient per-frame resources: the encoder holds its own references, so
	// releasing after encoding is safe.
	defer uniformBuffer.Release()
	device.GetQueue().WriteBuffer(uniformBuffer, 0, params.Marshal())

	uniformBindGroup, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Glow Uniform Bind Group",
		Layout: e.pipelines.uniformLayout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  uniformBuffer,
				Offset:  0,
				Size:    wgpu.WholeSize,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("glow: failed to create uniform bind group: %w", err)
	}
	defer uniformBindGroup.Release()

	inputViews := map[passTarget]*wgpu.TextureView{
		targetMain: mainView,
		targetSrc:  e.src.view,
		targetTmp:  e.tmp.view,
	}
	inputBindGroups := make(map[passTarget]*wgpu.BindGroup, len(inputViews))
	defer func() {
		for _, bg := range inputBindGroups {
			bg.Release()
		}
	}()
	for target, view := range inputViews {
		bg, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  "Glow Input Bind Group",
			Layout: e.pipelines.textureLayout,
			Entries: []wgpu.BindGroupEntry{
				{
					Binding:     0,
					TextureView: view,
				},
				{
					Binding: 1,
					Sampler: e.linearSampler,
				},
			},
		})
		if err != nil {
			return fmt.Errorf("glow: failed to create input bind group: %w", err)
		}
		inputBindGroups[target] = bg
	}

	outputViews := inputViews
	for _, step := range framePasses() {
		pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
			ColorAttachments: []wgpu.RenderPassColorAttachment{
				{
					View:       outputViews[step.output],
					LoadOp:     step.loadOp,
					StoreOp:    wgpu.StoreOpStore,
					ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 0},
				},
			},
		})
		pass.SetPipeline(e.pipelines.pipelineFor(step.variant))
		pass.SetBindGroup(0, uniformBindGroup, nil)
		pass.SetBindGroup(1, inputBindGroups[step.input], nil)
		pass.SetVertexBuffer(0, e.quad.vertexBuffer, 0, wgpu.WholeSize)
		pass.SetIndexBuffer(e.quad.indexBuffer, wgpu.IndexFormatUint16, 0, wgpu.WholeSize)
		pass.DrawIndexed(quadIndexCount, 1, 0, 0, 0)
		pass.End()
		pass.Release()
	}

	return nil
}

func (e *glowEffect) Release() {
	if e == nil {
		return
	}
	e.tmp.Release()
	e.tmp = nil
	e.src.Release()
	e.src = nil
	if e.linearSampler != nil {
		e.linearSampler.Release()
		e.linearSampler = nil
	}
	e.quad.Release()
	e.quad = nil
	e.pipelines.Release()
	e.pipelines = nil
}
