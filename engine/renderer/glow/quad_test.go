package glow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/termglow/termglow/engine/model"
)

func TestFullscreenQuadVerticesCoverClipSpace(t *testing.T) {
	vertices := fullscreenQuadVertices()

	assert.Equal(t, [2]float32{-1, -1}, vertices[0].Position)
	assert.Equal(t, [2]float32{1, -1}, vertices[1].Position)
	assert.Equal(t, [2]float32{1, 1}, vertices[2].Position)
	assert.Equal(t, [2]float32{-1, 1}, vertices[3].Position)
}

func TestFullscreenQuadFlipsV(t *testing.T) {
	vertices := fullscreenQuadVertices()

	// Bottom of clip space maps to the bottom row of the texture (v=1).
	assert.Equal(t, [2]float32{0, 1}, vertices[0].TexCoord)
	assert.Equal(t, [2]float32{1, 1}, vertices[1].TexCoord)
	assert.Equal(t, [2]float32{1, 0}, vertices[2].TexCoord)
	assert.Equal(t, [2]float32{0, 0}, vertices[3].TexCoord)
}

func TestFullscreenQuadStylingIsNeutral(t *testing.T) {
	for i, v := range fullscreenQuadVertices() {
		assert.Equal(t, [4]float32{1, 1, 1, 1}, v.FgColor, "vertex %d", i)
		assert.Equal(t, [4]float32{0, 0, 0, 0}, v.AltColor, "vertex %d", i)
		assert.Equal(t, [3]float32{1, 1, 1}, v.HSV, "vertex %d", i)
		assert.Zero(t, v.HasColor, "vertex %d", i)
		assert.Zero(t, v.MixValue, "vertex %d", i)
	}
}

func TestFullscreenQuadIndicesWindCounterClockwise(t *testing.T) {
	indices := fullscreenQuadIndices()
	assert.Equal(t, [quadIndexCount]uint16{0, 1, 2, 0, 2, 3}, indices)
}

func TestFullscreenQuadUploadSizes(t *testing.T) {
	vertices := fullscreenQuadVertices()
	indices := fullscreenQuadIndices()

	assert.Len(t, model.MarshalVertices(vertices[:]), 4*model.QuadVertexStride)
	assert.Len(t, model.MarshalIndices(indices[:]), quadIndexCount*2)
}
