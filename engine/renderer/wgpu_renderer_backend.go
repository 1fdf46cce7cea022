package renderer

import (
	_ "embed"
	"fmt"
	"runtime"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/termglow/termglow/engine/model"
	"github.com/termglow/termglow/engine/renderer/glow"
	"github.com/termglow/termglow/engine/renderer/pipeline"
)

//go:embed assets/cell.wgsl
var cellShaderSource string

//go:embed assets/blit.wgsl
var blitShaderSource string

// sceneTargetFormat is the format of the offscreen scene color target. The
// cell pass and the glow composite pass both render into this format; only
// the final blit targets the swapchain's own format.
const sceneTargetFormat = wgpu.TextureFormatRGBA8UnormSrgb

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat *wgpu.TextureFormat
	presentMode   wgpu.PresentMode // defaults to PresentModeFifo (VSync)
	clearColor    wgpu.Color

	width  int
	height int

	// Scene color target: the cell pass renders here, the glow effect samples
	// and composites here, and the blit pass copies it to the swapchain.
	// Recreated on resize.
	sceneTexture *wgpu.Texture
	sceneView    *wgpu.TextureView

	// Cell pass state. The vertex and index buffers are sized to the current
	// grid and rewritten every frame via UploadCells.
	cellPipeline      *wgpu.RenderPipeline
	cellVertexBuffer  *wgpu.Buffer
	cellVertexBufSize uint64
	cellIndexBuffer   *wgpu.Buffer
	cellIndexBufSize  uint64
	cellIndexCount    uint32

	// Blit pass state. The bind group references the scene view, so it is
	// recreated alongside the scene target on resize.
	blitPipeline  *wgpu.RenderPipeline
	blitLayout    *wgpu.BindGroupLayout
	blitBindGroup *wgpu.BindGroup
	blitSampler   *wgpu.Sampler

	// Fullscreen quad shared by the blit pass.
	quadVertexBuffer *wgpu.Buffer
	quadIndexBuffer  *wgpu.Buffer

	// glowEffect owns the post-process pipelines and intermediate surfaces.
	glowEffect glow.Effect
}

type wgpuRendererBackend interface {
	Device() *wgpu.Device
	Queue() *wgpu.Queue
	Instance() *wgpu.Instance
	Adapter() *wgpu.Adapter
	Surface() *wgpu.Surface

	// ConfigureSurface is a wrapper for boilerplate logic required when calling Configure on a surface.
	// This is required when the surface size changes, such as when the window is resized. The scene
	// color target, the blit bind group, and the glow effect's intermediate surfaces are resized along
	// with the swapchain.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	//
	// Returns:
	//   - error: an error if the scene target or glow surfaces cannot be recreated
	ConfigureSurface(width, height int) error

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	// Takes effect at the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// SetClearColor sets the background color the scene target is cleared to each frame.
	//
	// Parameters:
	//   - color: the clear color
	SetClearColor(color wgpu.Color)

	// UploadCells replaces the cell pass geometry with the given pre-marshalled data.
	// Buffers are reallocated when the data size changes and rewritten in place otherwise.
	//
	// Parameters:
	//   - vertexData: the raw vertex data bytes to upload to the GPU
	//   - indexData: the raw index data bytes to upload to the GPU
	//   - indexCount: the number of indices represented in the indexData, used for draw calls
	//
	// Returns:
	//   - error: an error if the buffers could not be created
	UploadCells(vertexData, indexData []byte, indexCount int) error

	// RenderFrame records and submits one complete frame: the cell pass into
	// the scene target, the glow passes, and the blit to the swapchain, then
	// presents.
	//
	// Parameters:
	//   - glowCfg: the glow settings snapshot for this frame
	//
	// Returns:
	//   - error: an error if the swapchain image cannot be acquired or encoding fails
	RenderFrame(glowCfg *glow.Config) error

	// Release releases all GPU resources owned by the backend.
	Release()
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool) wgpuRendererBackend {
	runtime.LockOSThread()
	w := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
		clearColor:  wgpu.Color{R: 0, G: 0, B: 0, A: 1},
	}
	w.surface = w.instance.CreateSurface(surfaceDescriptor)

	a, err := w.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    w.surface,
	})
	if err != nil {
		panic(err)
	}
	w.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		panic(err)
	}
	w.device = d
	w.queue = d.GetQueue()

	if err := w.initStaticResources(); err != nil {
		panic(err)
	}

	return w
}

// initStaticResources builds the resolution-independent GPU state: the cell
// and blit pipelines, the blit sampler and layout, and the fullscreen quad.
func (b *wgpuRendererBackendImpl) initStaticResources() error {
	cellModule, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "Cell Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: cellShaderSource,
		},
	})
	if err != nil {
		return fmt.Errorf("renderer: failed to create cell shader module: %w", err)
	}
	defer cellModule.Release()

	cellTemplate := pipeline.NewTemplate("Cell Pipeline",
		pipeline.WithVertexLayouts(model.QuadVertexLayout()),
	)
	b.cellPipeline, err = cellTemplate.Build(b.device, cellModule, "vs_cell", "fs_cell", nil, sceneTargetFormat)
	if err != nil {
		return err
	}

	b.blitLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Blit Bind Group Layout",
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
		return fmt.Errorf("renderer: failed to create blit bind group layout: %w", err)
	}

	b.blitSampler, err = b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Blit Sampler",
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
		return fmt.Errorf("renderer: failed to create blit sampler: %w", err)
	}

	return b.initQuadBuffers()
}

// initQuadBuffers uploads the fullscreen quad used by the blit pass.
func (b *wgpuRendererBackendImpl) initQuadBuffers() error {
	vertices := [4]model.GPUQuadVertex{}
	positions := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	uvs := [4][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}
	for i := range vertices {
		vertices[i] = model.GPUQuadVertex{
			Position: positions[i],
			TexCoord: uvs[i],
			FgColor:  [4]float32{1, 1, 1, 1},
			HSV:      [3]float32{1, 1, 1},
		}
	}
	indices := []uint16{0, 1, 2, 0, 2, 3}

	vertexData := model.MarshalVertices(vertices[:])
	indexData := model.MarshalIndices(indices)

	var err error
	b.quadVertexBuffer, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Blit Quad Vertex Buffer",
		Size:  uint64(len(vertexData)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("renderer: failed to create blit quad vertex buffer: %w", err)
	}
	b.quadIndexBuffer, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Blit Quad Index Buffer",
		Size:  uint64(len(indexData)),
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("renderer: failed to create blit quad index buffer: %w", err)
	}
	b.queue.WriteBuffer(b.quadVertexBuffer, 0, vertexData)
	b.queue.WriteBuffer(b.quadIndexBuffer, 0, indexData)
	return nil
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = &capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	if err := b.recreateSceneTarget(width, height); err != nil {
		return err
	}

	if b.glowEffect == nil {
		effect, err := glow.NewEffect(b.device, sceneTargetFormat, uint32(width), uint32(height))
		if err != nil {
			return err
		}
		b.glowEffect = effect
	} else if err := b.glowEffect.Resize(b.device, uint32(width), uint32(height)); err != nil {
		return err
	}

	// The blit pipeline targets the swapchain format, which is only known
	// after the first GetCapabilities call.
	if b.blitPipeline == nil {
		if err := b.buildBlitPipeline(); err != nil {
			return err
		}
	}

	b.width = width
	b.height = height
	return nil
}

// recreateSceneTarget replaces the scene color target and the blit bind group
// that samples it.
func (b *wgpuRendererBackendImpl) recreateSceneTarget(width, height int) error {
	if b.blitBindGroup != nil {
		b.blitBindGroup.Release()
		b.blitBindGroup = nil
	}
	if b.sceneView != nil {
		b.sceneView.Release()
		b.sceneView = nil
	}
	if b.sceneTexture != nil {
		b.sceneTexture.Release()
		b.sceneTexture = nil
	}

	texture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Scene Color Target",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        sceneTargetFormat,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
	})
	if err != nil {
		return fmt.Errorf("renderer: failed to create scene color target: %w", err)
	}
	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return fmt.Errorf("renderer: failed to create scene color view: %w", err)
	}
	b.sceneTexture = texture
	b.sceneView = view

	b.blitBindGroup, err = b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Blit Bind Group",
		Layout: b.blitLayout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding:     0,
				TextureView: b.sceneView,
			},
			{
				Binding: 1,
				Sampler: b.blitSampler,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("renderer: failed to create blit bind group: %w", err)
	}
	return nil
}

// buildBlitPipeline creates the swapchain-format blit pipeline. Called once,
// after the surface format is known.
func (b *wgpuRendererBackendImpl) buildBlitPipeline() error {
	blitModule, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "Blit Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: blitShaderSource,
		},
	})
	if err != nil {
		return fmt.Errorf("renderer: failed to create blit shader module: %w", err)
	}
	defer blitModule.Release()

	blitTemplate := pipeline.NewTemplate("Blit Pipeline",
		pipeline.WithVertexLayouts(model.QuadVertexLayout()),
	)
	b.blitPipeline, err = blitTemplate.Build(b.device, blitModule, "vs_blit", "fs_blit",
		[]*wgpu.BindGroupLayout{b.blitLayout}, *b.surfaceFormat)
	return err
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeVSync:
		b.presentMode = wgpu.PresentModeFifo
	case PresentModeUncapped:
		b.presentMode = wgpu.PresentModeImmediate
	}
}

func (b *wgpuRendererBackendImpl) SetClearColor(color wgpu.Color) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clearColor = color
}

func (b *wgpuRendererBackendImpl) UploadCells(vertexData, indexData []byte, indexCount int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cellVertexBuffer == nil || b.cellVertexBufSize != uint64(len(vertexData)) {
		if b.cellVertexBuffer != nil {
			b.cellVertexBuffer.Release()
		}
		buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "Cell Vertex Buffer",
			Size:  uint64(len(vertexData)),
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			b.cellVertexBuffer = nil
			b.cellVertexBufSize = 0
			return fmt.Errorf("renderer: failed to create cell vertex buffer: %w", err)
		}
		b.cellVertexBuffer = buf
		b.cellVertexBufSize = uint64(len(vertexData))
	}

	if b.cellIndexBuffer == nil || b.cellIndexBufSize != uint64(len(indexData)) {
		if b.cellIndexBuffer != nil {
			b.cellIndexBuffer.Release()
		}
		buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "Cell Index Buffer",
			Size:  uint64(len(indexData)),
			Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			b.cellIndexBuffer = nil
			b.cellIndexBufSize = 0
			return fmt.Errorf("renderer: failed to create cell index buffer: %w", err)
		}
		b.cellIndexBuffer = buf
		b.cellIndexBufSize = uint64(len(indexData))
	}

	b.queue.WriteBuffer(b.cellVertexBuffer, 0, vertexData)
	b.queue.WriteBuffer(b.cellIndexBuffer, 0, indexData)
	b.cellIndexCount = uint32(indexCount)
	return nil
}

func (b *wgpuRendererBackendImpl) RenderFrame(glowCfg *glow.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	defer surfaceTexture.Release()

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return err
	}
	defer view.Release()

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	// Cell pass: draw the grid into the scene target. The target is cleared
	// even when the grid is empty so stale contents never show through.
	cellPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       b.sceneView,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: b.clearColor,
			},
		},
	})
	if b.cellIndexCount > 0 {
		cellPass.SetPipeline(b.cellPipeline)
		cellPass.SetVertexBuffer(0, b.cellVertexBuffer, 0, wgpu.WholeSize)
		cellPass.SetIndexBuffer(b.cellIndexBuffer, wgpu.IndexFormatUint16, 0, wgpu.WholeSize)
		cellPass.DrawIndexed(b.cellIndexCount, 1, 0, 0, 0)
	}
	cellPass.End()
	cellPass.Release()

	// Glow passes: sample the scene target, blur, and composite back onto it.
	if err := b.glowEffect.Render(encoder, b.device, b.sceneView, glowCfg); err != nil {
		return err
	}

	// Blit pass: copy the finished scene target to the swapchain.
	blitPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
			},
		},
	})
	blitPass.SetPipeline(b.blitPipeline)
	blitPass.SetBindGroup(0, b.blitBindGroup, nil)
	blitPass.SetVertexBuffer(0, b.quadVertexBuffer, 0, wgpu.WholeSize)
	blitPass.SetIndexBuffer(b.quadIndexBuffer, wgpu.IndexFormatUint16, 0, wgpu.WholeSize)
	blitPass.DrawIndexed(6, 1, 0, 0, 0)
	blitPass.End()
	blitPass.Release()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	b.queue.Submit(commandBuffer)
	commandBuffer.Release()

	b.surface.Present()
	return nil
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.glowEffect != nil {
		b.glowEffect.Release()
		b.glowEffect = nil
	}
	if b.blitBindGroup != nil {
		b.blitBindGroup.Release()
		b.blitBindGroup = nil
	}
	if b.sceneView != nil {
		b.sceneView.Release()
		b.sceneView = nil
	}
	if b.sceneTexture != nil {
		b.sceneTexture.Release()
		b.sceneTexture = nil
	}
	if b.cellVertexBuffer != nil {
		b.cellVertexBuffer.Release()
		b.cellVertexBuffer = nil
	}
	if b.cellIndexBuffer != nil {
		b.cellIndexBuffer.Release()
		b.cellIndexBuffer = nil
	}
	if b.quadVertexBuffer != nil {
		b.quadVertexBuffer.Release()
		b.quadVertexBuffer = nil
	}
	if b.quadIndexBuffer != nil {
		b.quadIndexBuffer.Release()
		b.quadIndexBuffer = nil
	}
	if b.blitSampler != nil {
		b.blitSampler.Release()
		b.blitSampler = nil
	}
	if b.blitLayout != nil {
		b.blitLayout.Release()
		b.blitLayout = nil
	}
	if b.blitPipeline != nil {
		b.blitPipeline.Release()
		b.blitPipeline = nil
	}
	if b.cellPipeline != nil {
		b.cellPipeline.Release()
		b.cellPipeline = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}

func (b *wgpuRendererBackendImpl) Device() *wgpu.Device {
	return b.device
}

func (b *wgpuRendererBackendImpl) Queue() *wgpu.Queue {
	return b.queue
}

func (b *wgpuRendererBackendImpl) Instance() *wgpu.Instance {
	return b.instance
}

func (b *wgpuRendererBackendImpl) Adapter() *wgpu.Adapter {
	return b.adapter
}

func (b *wgpuRendererBackendImpl) Surface() *wgpu.Surface {
	return b.surface
}
