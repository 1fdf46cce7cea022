package glow

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/termglow/termglow/engine/model"
)

// quadIndexCount is the number of indices drawn per fullscreen pass.
const quadIndexCount = 6

// quadGeometry holds the fixed, resolution-independent fullscreen quad shared
// by all four glow passes: four vertices at the NDC corners with unit-square
// UVs, and six indices forming two counter-clockwise triangles. Built once at
// effect construction and never touched again.
type quadGeometry struct {
	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
}

// fullscreenQuadVertices returns the four corner vertices of the fullscreen
// quad. The styling fields beyond position/texcoord are unused by the glow
// shaders and carry color-neutral defaults.
func fullscreenQuadVertices() [4]model.GPUQuadVertex {
	neutral := func(pos, tex [2]float32) model.GPUQuadVertex {
		return model.GPUQuadVertex{
			Position: pos,
			TexCoord: tex,
			FgColor:  [4]float32{1, 1, 1, 1},
			AltColor: [4]float32{0, 0, 0, 0},
			HSV:      [3]float32{1, 1, 1},
			HasColor: 0,
			MixValue: 0,
		}
	}
	// UV origin is top-left while NDC origin is center-bottom, so V flips.
	return [4]model.GPUQuadVertex{
		neutral([2]float32{-1, -1}, [2]float32{0, 1}),
		neutral([2]float32{1, -1}, [2]float32{1, 1}),
		neutral([2]float32{1, 1}, [2]float32{1, 0}),
		neutral([2]float32{-1, 1}, [2]float32{0, 0}),
	}
}

// fullscreenQuadIndices returns the two-triangle index list for the quad.
func fullscreenQuadIndices() [quadIndexCount]uint16 {
	return [quadIndexCount]uint16{0, 1, 2, 0, 2, 3}
}

// newFullscreenQuad uploads the quad vertex and index data into immutable GPU
// buffers. Failure is fatal and propagated at construction time only.
//
// Parameters:
//   - device: the GPU device to allocate on
//
// Returns:
//   - *quadGeometry: the created geometry
//   - error: an error if buffer creation fails
func newFullscreenQuad(device *wgpu.Device) (*quadGeometry, error) {
	vertices := fullscreenQuadVertices()
	indices := fullscreenQuadIndices()

	vertexData := model.MarshalVertices(vertices[:])
	indexData := model.MarshalIndices(indices[:])

	vertexBuffer, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Glow Quad Vertex Buffer",
		Size:  uint64(len(vertexData)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("glow: failed to create quad vertex buffer: %w", err)
	}

	indexBuffer, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Glow Quad Index Buffer",
		Size:  uint64(len(indexData)),
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		vertexBuffer.Release()
		return nil, fmt.Errorf("glow: failed to create quad index buffer: %w", err)
	}

	queue := device.GetQueue()
	queue.WriteBuffer(vertexBuffer, 0, vertexData)
	queue.WriteBuffer(indexBuffer, 0, indexData)

	return &quadGeometry{
		vertexBuffer: vertexBuffer,
		indexBuffer:  indexBuffer,
	}, nil
}

// Release releases the quad buffers. Safe to call more than once.
func (q *quadGeometry) Release() {
	if q == nil {
		return
	}
	if q.vertexBuffer != nil {
		q.vertexBuffer.Release()
		q.vertexBuffer = nil
	}
	if q.indexBuffer != nil {
		q.indexBuffer.Release()
		q.indexBuffer = nil
	}
}
