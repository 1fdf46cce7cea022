package model

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
)

// GPUQuadVertex is the GPU-aligned representation of a single quad vertex shared by
// every render pass in the terminal renderer: the cell grid, the glow passes, and the
// final blit all consume this record so pipelines stay layout-compatible.
// Matches the WGSL VertexInput struct layout exactly (68 bytes, tightly packed).
//
// Only Position and TexCoord are meaningful for fullscreen passes; the remaining
// fields carry per-cell styling for the scene pass and are set to color-neutral
// defaults everywhere else.
type GPUQuadVertex struct {
	Position [2]float32 // offset  0: clip-space position (8 bytes)
	TexCoord [2]float32 // offset  8: UV texture coordinate (8 bytes)
	FgColor  [4]float32 // offset 16: foreground RGBA color (16 bytes)
	AltColor [4]float32 // offset 32: secondary RGBA color for mixing (16 bytes)
	HSV      [3]float32 // offset 48: hue/saturation/value adjustment (12 bytes)
	HasColor float32    // offset 60: 1.0 when the vertex carries a custom color (4 bytes)
	MixValue float32    // offset 64: blend factor between FgColor and AltColor (4 bytes)
}

// QuadVertexStride is the byte stride of one GPUQuadVertex in a vertex buffer.
const QuadVertexStride = 68

// Size returns the size of the GPUQuadVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUQuadVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUQuadVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 68-byte buffer ready for GPU upload.
func (g *GPUQuadVertex) Marshal() []byte {
	buf := make([]byte, QuadVertexStride)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Position[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.Position[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.TexCoord[0]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(g.TexCoord[1]))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(g.FgColor[0]))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(g.FgColor[1]))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(g.FgColor[2]))
	binary.LittleEndian.PutUint32(buf[28:32], math.Float32bits(g.FgColor[3]))
	binary.LittleEndian.PutUint32(buf[32:36], math.Float32bits(g.AltColor[0]))
	binary.LittleEndian.PutUint32(buf[36:40], math.Float32bits(g.AltColor[1]))
	binary.LittleEndian.PutUint32(buf[40:44], math.Float32bits(g.AltColor[2]))
	binary.LittleEndian.PutUint32(buf[44:48], math.Float32bits(g.AltColor[3]))
	binary.LittleEndian.PutUint32(buf[48:52], math.Float32bits(g.HSV[0]))
	binary.LittleEndian.PutUint32(buf[52:56], math.Float32bits(g.HSV[1]))
	binary.LittleEndian.PutUint32(buf[56:60], math.Float32bits(g.HSV[2]))
	binary.LittleEndian.PutUint32(buf[60:64], math.Float32bits(g.HasColor))
	binary.LittleEndian.PutUint32(buf[64:68], math.Float32bits(g.MixValue))
	return buf
}

// QuadVertexLayout returns the explicit vertex buffer layout for GPUQuadVertex.
// The attribute offsets are spelled out rather than derived so the binary contract
// with the WGSL VertexInput struct is visible in one place.
//
// Returns:
//   - wgpu.VertexBufferLayout: the layout describing all seven vertex attributes.
func QuadVertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: QuadVertexStride,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
			{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2},
			{Format: wgpu.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 3},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 48, ShaderLocation: 4},
			{Format: wgpu.VertexFormatFloat32, Offset: 60, ShaderLocation: 5},
			{Format: wgpu.VertexFormatFloat32, Offset: 64, ShaderLocation: 6},
		},
	}
}

// MarshalVertices serializes a slice of vertices into one contiguous upload buffer.
//
// Parameters:
//   - vertices: the vertices to serialize
//
// Returns:
//   - []byte: len(vertices)*68 bytes ready for GPU upload.
func MarshalVertices(vertices []GPUQuadVertex) []byte {
	buf := make([]byte, 0, len(vertices)*QuadVertexStride)
	for i := range vertices {
		buf = append(buf, vertices[i].Marshal()...)
	}
	return buf
}

// MarshalIndices serializes uint16 triangle indices into an upload buffer.
//
// Parameters:
//   - indices: the triangle-list indices to serialize
//
// Returns:
//   - []byte: len(indices)*2 bytes ready for GPU upload.
func MarshalIndices(indices []uint16) []byte {
	buf := make([]byte, len(indices)*2)
	for i, idx := range indices {
		binary.LittleEndian.PutUint16(buf[i*2:(i+1)*2], idx)
	}
	return buf
}
