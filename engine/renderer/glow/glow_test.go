package glow

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Render must bail out before touching any GPU handle when the config disables
// the effect, so an uninitialized effect with nil handles must succeed.
func TestRenderDisabledConfigTouchesNothing(t *testing.T) {
	e := &glowEffect{}

	assert.NoError(t, e.Render(nil, nil, nil, nil))
	assert.NoError(t, e.Render(nil, nil, nil, &Config{Enabled: false, Radius: 3, Strength: 1}))
	assert.NoError(t, e.Render(nil, nil, nil, &Config{Enabled: true, Radius: 3, Strength: 0}))
	assert.NoError(t, e.Render(nil, nil, nil, &Config{Enabled: true, Radius: 0, Strength: 1}))
}

// Resizing to the current dimensions must not allocate or release anything,
// so it must succeed with a nil device.
func TestResizeSameDimensionsIsNoOp(t *testing.T) {
	e := &glowEffect{width: 800, height: 600}

	assert.NoError(t, e.Resize(nil, 800, 600))
	assert.Equal(t, uint32(800), e.width)
	assert.Equal(t, uint32(600), e.height)
}

func TestReleaseNilEffect(t *testing.T) {
	var e *glowEffect
	assert.NotPanics(t, func() { e.Release() })
}

// Additive compositing must never darken: glowing a uniform mid-gray image
// with a zero threshold can only raise pixel values. Verified per channel by
// reading the main target back before and after the effect runs.
func TestGlowNeverDarkensMidGray(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping GPU test in short mode")
	}
	t.Skip("Need software GPU on CI")

	// 64 px wide at 4 bytes per pixel keeps BytesPerRow at the required
	// 256-byte alignment for texture-to-buffer copies.
	const side = 64
	const byteSize = side * side * 4

	instance := wgpu.CreateInstance(nil)
	defer instance.Release()
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: true,
	})
	require.NoError(t, err)
	defer adapter.Release()
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Test Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	require.NoError(t, err)
	defer device.Release()

	mainTexture, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Main Color",
		Size: wgpu.Extent3D{
			Width:              side,
			Height:             side,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopySrc,
	})
	require.NoError(t, err)
	defer mainTexture.Release()
	mainView, err := mainTexture.CreateView(nil)
	require.NoError(t, err)
	defer mainView.Release()

	readPixels := func() []byte {
		buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "Readback Buffer",
			Size:  byteSize,
			Usage: wgpu.BufferUsageCopyDst | wgpu.BufferUsageMapRead,
		})
		require.NoError(t, err)
		defer buf.Release()

		encoder, err := device.CreateCommandEncoder(nil)
		require.NoError(t, err)
		defer encoder.Release()
		require.NoError(t, encoder.CopyTextureToBuffer(
			&wgpu.ImageCopyTexture{
				Texture:  mainTexture,
				MipLevel: 0,
				Origin:   wgpu.Origin3D{},
				Aspect:   wgpu.TextureAspectAll,
			},
			&wgpu.ImageCopyBuffer{
				Buffer: buf,
				Layout: wgpu.TextureDataLayout{
					Offset:       0,
					BytesPerRow:  side * 4,
					RowsPerImage: side,
				},
			},
			&wgpu.Extent3D{Width: side, Height: side, DepthOrArrayLayers: 1},
		))
		cmd, err := encoder.Finish(nil)
		require.NoError(t, err)
		defer cmd.Release()
		device.GetQueue().Submit(cmd)

		var status wgpu.BufferMapAsyncStatus
		require.NoError(t, buf.MapAsync(wgpu.MapModeRead, 0, byteSize, func(s wgpu.BufferMapAsyncStatus) {
			status = s
		}))
		device.Poll(true, nil)
		require.Equal(t, wgpu.BufferMapAsyncStatusSuccess, status)

		pixels := make([]byte, byteSize)
		copy(pixels, buf.GetMappedRange(0, byteSize))
		buf.Unmap()
		return pixels
	}

	// Fill the main target with a uniform mid-gray.
	fillEncoder, err := device.CreateCommandEncoder(nil)
	require.NoError(t, err)
	defer fillEncoder.Release()
	fillPass := fillEncoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       mainView,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{R: 0.5, G: 0.5, B: 0.5, A: 1},
			},
		},
	})
	fillPass.End()
	fillPass.Release()
	fillCmd, err := fillEncoder.Finish(nil)
	require.NoError(t, err)
	defer fillCmd.Release()
	device.GetQueue().Submit(fillCmd)

	before := readPixels()

	effect, err := NewEffect(device, wgpu.TextureFormatRGBA8UnormSrgb, side, side)
	require.NoError(t, err)
	defer effect.Release()

	glowEncoder, err := device.CreateCommandEncoder(nil)
	require.NoError(t, err)
	defer glowEncoder.Release()
	cfg := &Config{Enabled: true, Radius: 2, Threshold: 0, Strength: 1, ColorBoost: 1}
	require.NoError(t, effect.Render(glowEncoder, device, mainView, cfg))
	glowCmd, err := glowEncoder.Finish(nil)
	require.NoError(t, err)
	defer glowCmd.Release()
	device.GetQueue().Submit(glowCmd)

	after := readPixels()

	for i := range after {
		require.GreaterOrEqual(t, after[i], before[i], "pixel byte %d darkened", i)
	}
}
