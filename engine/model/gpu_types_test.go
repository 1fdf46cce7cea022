package model

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuadVertexSizeMatchesStride(t *testing.T) {
	v := GPUQuadVertex{}
	assert.Equal(t, QuadVertexStride, v.Size())
}

func TestQuadVertexMarshalLayout(t *testing.T) {
	v := GPUQuadVertex{
		Position: [2]float32{-1, 1},
		TexCoord: [2]float32{0.25, 0.75},
		FgColor:  [4]float32{0.1, 0.2, 0.3, 0.4},
		AltColor: [4]float32{0.5, 0.6, 0.7, 0.8},
		HSV:      [3]float32{0.9, 1.0, 1.1},
		HasColor: 1,
		MixValue: 0.5,
	}

	buf := v.Marshal()
	require.Len(t, buf, QuadVertexStride)

	readF32 := func(offset int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset : offset+4]))
	}
	assert.Equal(t, v.Position[0], readF32(0))
	assert.Equal(t, v.Position[1], readF32(4))
	assert.Equal(t, v.TexCoord[0], readF32(8))
	assert.Equal(t, v.TexCoord[1], readF32(12))
	assert.Equal(t, v.FgColor[0], readF32(16))
	assert.Equal(t, v.AltColor[0], readF32(32))
	assert.Equal(t, v.HSV[0], readF32(48))
	assert.Equal(t, v.HasColor, readF32(60))
	assert.Equal(t, v.MixValue, readF32(64))
}

func TestQuadVertexLayoutCoversStruct(t *testing.T) {
	layout := QuadVertexLayout()

	assert.Equal(t, uint64(QuadVertexStride), layout.ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeVertex, layout.StepMode)
	require.Len(t, layout.Attributes, 7)

	// Attribute offsets must be contiguous and end at the stride.
	sizes := map[wgpu.VertexFormat]uint64{
		wgpu.VertexFormatFloat32:   4,
		wgpu.VertexFormatFloat32x2: 8,
		wgpu.VertexFormatFloat32x3: 12,
		wgpu.VertexFormatFloat32x4: 16,
	}
	var offset uint64
	for i, attr := range layout.Attributes {
		assert.Equal(t, offset, attr.Offset, "attribute %d", i)
		assert.Equal(t, uint32(i), attr.ShaderLocation, "attribute %d", i)
		size, ok := sizes[attr.Format]
		require.True(t, ok, "attribute %d has unexpected format", i)
		offset += size
	}
	assert.Equal(t, uint64(QuadVertexStride), offset)
}

func TestMarshalVertices(t *testing.T) {
	vertices := []GPUQuadVertex{
		{Position: [2]float32{-1, -1}},
		{Position: [2]float32{1, 1}},
	}

	buf := MarshalVertices(vertices)
	require.Len(t, buf, 2*QuadVertexStride)
	assert.Equal(t, vertices[0].Marshal(), buf[:QuadVertexStride])
	assert.Equal(t, vertices[1].Marshal(), buf[QuadVertexStride:])
}

func TestMarshalIndices(t *testing.T) {
	buf := MarshalIndices([]uint16{0, 1, 2, 0, 2, 3})
	require.Len(t, buf, 12)
	assert.Equal(t, uint16(0), binary.LittleEndian.Uint16(buf[0:2]))
	assert.Equal(t, uint16(3), binary.LittleEndian.Uint16(buf[10:12]))
}
