package renderer

import (
	"fmt"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/termglow/termglow/engine/renderer/glow"
	"github.com/termglow/termglow/engine/scene"
	"github.com/termglow/termglow/engine/window"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	// glowConfig is the live glow settings, snapshotted once per frame.
	glowConfig glow.Config

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingClearColor    *wgpu.Color
	pendingGlowConfig    *glow.Config
}

// Renderer defines the interface for the terminal rendering system.
//
// This is a high-level API designed to simplify rendering tasks into a streamlined and idiomatic flow.
// Each frame the Renderer draws the scene's cell grid into an offscreen color target, applies the glow
// post-process, and blits the result to the window surface. The Renderer also implements a backend
// which allows for multiple backend API implementations to exist.
type Renderer interface {
	// RenderFrame uploads the scene's current geometry and draws one complete
	// frame: cell pass, glow passes, and the final blit, then presents.
	//
	// Parameters:
	//   - s: the scene whose geometry to draw (its Update must have run for this frame)
	//
	// Returns:
	//   - error: an error if geometry upload or frame encoding fails
	RenderFrame(s scene.Scene) error

	// Resize configures the underlying backend to handle a new surface size.
	// This should be called when re-sizing the window or when the surface size should change.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	//
	// Returns:
	//   - error: an error if the resized GPU resources cannot be created
	Resize(width, height int) error

	// SetGlowConfig replaces the glow settings used from the next frame on.
	//
	// Parameters:
	//   - cfg: the new glow configuration
	SetGlowConfig(cfg glow.Config)

	// GlowConfig returns the current glow settings.
	//
	// Returns:
	//   - glow.Config: the configuration in effect
	GlowConfig() glow.Config

	// Backend returns the underlying GPU backend for advanced use.
	//
	// Returns:
	//   - RendererBackend: the active backend
	Backend() RendererBackend

	// Release releases all GPU resources owned by the renderer.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer bound to the given window's surface. The
// backend is initialized immediately: device setup, surface configuration at
// the window's current framebuffer size, and glow effect creation all happen
// here, and NewRenderer panics if any of it fails.
//
// Parameters:
//   - backendType: the GPU backend to use (currently only BackendTypeWGPU)
//   - win: the window providing the render surface (must not be nil)
//   - options: functional options to further configure the renderer
//
// Returns:
//   - Renderer: the newly created renderer
func NewRenderer(backendType RendererBackendType, win window.Window, options ...RendererBuilderOption) Renderer {
	if win == nil {
		panic("renderer: NewRenderer requires a non-nil Window")
	}

	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
		glowConfig: glow.Config{
			Enabled:    true,
			Radius:     3.0,
			Threshold:  0.5,
			Strength:   0.8,
			ColorBoost: 1.2,
		},
	}

	for _, option := range options {
		option(r)
	}
	if r.pendingGlowConfig != nil {
		r.glowConfig = *r.pendingGlowConfig
	}

	switch backendType {
	case BackendTypeWGPU:
		r.backend = newWGPURendererBackend(win.SurfaceDescriptor(), r.forceFallbackAdapter)
	default:
		panic(fmt.Sprintf("renderer: unsupported backend type %d", backendType))
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	if r.pendingClearColor != nil {
		r.backend.SetClearColor(*r.pendingClearColor)
	}

	if err := r.backend.ConfigureSurface(win.Width(), win.Height()); err != nil {
		panic(fmt.Sprintf("renderer: failed to configure surface: %v", err))
	}

	return r
}

func (r *renderer) RenderFrame(s scene.Scene) error {
	r.mu.Lock()
	cfg := r.glowConfig
	r.mu.Unlock()

	// SnapshotGeometry copies under the scene lock, so the tick goroutine's
	// Update cannot rewrite the geometry mid-upload.
	vertexData, indexData := s.SnapshotGeometry()
	indexCount := len(indexData) / 2

	if err := r.backend.UploadCells(vertexData, indexData, indexCount); err != nil {
		return err
	}
	return r.backend.RenderFrame(&cfg)
}

func (r *renderer) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		// Minimized windows report zero-size framebuffers; skip until restored.
		return nil
	}
	return r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetGlowConfig(cfg glow.Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.glowConfig = cfg
}

func (r *renderer) GlowConfig() glow.Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.glowConfig
}

func (r *renderer) Backend() RendererBackend {
	return r.backend
}

func (r *renderer) Release() {
	r.backend.Release()
}
