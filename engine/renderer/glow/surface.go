package glow

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// offscreenSurface owns one intermediate render target: a 2D RGBA8UnormSrgb
// texture plus its sampleable view, sized to the current output resolution.
// Surfaces are replaced wholesale on resize rather than mutated in place;
// the underlying textures are immutable-size once allocated.
type offscreenSurface struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
	width   uint32
	height  uint32
}

// newOffscreenSurface allocates a single-sample, single-mip 2D texture usable
// both as a render-pass color target and as a sampled texture, and creates its
// default view. Any failure is fatal to the caller; partially created resources
// are released before returning.
//
// Parameters:
//   - device: the GPU device to allocate on
//   - width: surface width in pixels
//   - height: surface height in pixels
//   - label: debug label for the texture
//
// Returns:
//   - *offscreenSurface: the created surface
//   - error: an error if texture or view creation fails
func newOffscreenSurface(device *wgpu.Device, width, height uint32, label string) (*offscreenSurface, error) {
	texture, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
	})
	if err != nil {
		return nil, fmt.Errorf("glow: failed to create offscreen texture %q: %w", label, err)
	}

	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return nil, fmt.Errorf("glow: failed to create offscreen texture view %q: %w", label, err)
	}

	return &offscreenSurface{
		texture: texture,
		view:    view,
		width:   width,
		height:  height,
	}, nil
}

// Release releases the view and texture. Safe to call on a partially
// initialized or already released surface.
func (s *offscreenSurface) Release() {
	if s == nil {
		return
	}
	if s.view != nil {
		s.view.Release()
		s.view = nil
	}
	if s.texture != nil {
		s.texture.Release()
		s.texture = nil
	}
}
