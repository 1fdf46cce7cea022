package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/termglow/termglow/engine/model"
)

func TestNewSceneDimensions(t *testing.T) {
	s := NewScene("test", 24, 80)
	assert.Equal(t, "test", s.Name())
	assert.Equal(t, 24, s.Rows())
	assert.Equal(t, 80, s.Cols())
}

func TestNewScenePanicsOnBadDimensions(t *testing.T) {
	assert.Panics(t, func() { NewScene("bad", 0, 80) })
	assert.Panics(t, func() { NewScene("bad", 24, -1) })
	// 128*128 cells would need 65536+ distinct vertex indices.
	assert.Panics(t, func() { NewScene("bad", 129, 128) })
}

func TestSetCellBounds(t *testing.T) {
	s := NewScene("test", 4, 4)

	require.NoError(t, s.SetCell(0, 0, Cell{Intensity: 1}))
	require.NoError(t, s.SetCell(3, 3, Cell{Intensity: 1}))
	assert.Error(t, s.SetCell(4, 0, Cell{}))
	assert.Error(t, s.SetCell(0, 4, Cell{}))
	assert.Error(t, s.SetCell(-1, 0, Cell{}))

	cell, ok := s.Cell(0, 0)
	require.True(t, ok)
	assert.Equal(t, float32(1), cell.Intensity)
	_, ok = s.Cell(4, 0)
	assert.False(t, ok)
}

func TestClearResetsCells(t *testing.T) {
	s := NewScene("test", 2, 2)
	require.NoError(t, s.SetCell(1, 1, Cell{Fg: [4]float32{1, 0, 0, 1}, Intensity: 1}))

	s.Clear()

	cell, ok := s.Cell(1, 1)
	require.True(t, ok)
	assert.Equal(t, Cell{}, cell)
}

func TestUpdateEmitsQuadPerCell(t *testing.T) {
	s := NewScene("test", 2, 3)
	s.Update(0)

	assert.Len(t, s.Vertices(), 2*3*4)
	assert.Len(t, s.Indices(), 2*3*6)
}

func TestUpdateMapsGridToClipSpace(t *testing.T) {
	s := NewScene("test", 2, 2)
	require.NoError(t, s.SetCell(0, 0, Cell{Fg: [4]float32{1, 1, 1, 1}, Intensity: 1}))
	s.Update(0)

	vertices := s.Vertices()

	// Cell (0,0) covers the top-left quadrant: x in [-1,0], y in [0,1].
	topLeft := vertices[0:4]
	assert.Equal(t, [2]float32{-1, 0}, topLeft[0].Position)
	assert.Equal(t, [2]float32{0, 0}, topLeft[1].Position)
	assert.Equal(t, [2]float32{0, 1}, topLeft[2].Position)
	assert.Equal(t, [2]float32{-1, 1}, topLeft[3].Position)

	// Last cell (1,1) covers the bottom-right quadrant.
	bottomRight := vertices[3*4 : 4*4]
	assert.Equal(t, [2]float32{0, -1}, bottomRight[0].Position)
	assert.Equal(t, [2]float32{1, -1}, bottomRight[1].Position)
	assert.Equal(t, [2]float32{1, 0}, bottomRight[2].Position)
	assert.Equal(t, [2]float32{0, 0}, bottomRight[3].Position)
}

func TestUpdateScalesColorByIntensity(t *testing.T) {
	s := NewScene("test", 1, 1)
	require.NoError(t, s.SetCell(0, 0, Cell{Fg: [4]float32{1, 0.5, 0, 1}, Intensity: 0.5}))
	s.Update(0)

	v := s.Vertices()[0]
	assert.InDelta(t, 0.5, v.FgColor[0], 1e-6)
	assert.InDelta(t, 0.25, v.FgColor[1], 1e-6)
	assert.InDelta(t, 0.0, v.FgColor[2], 1e-6)
	// Alpha is not intensity-scaled.
	assert.InDelta(t, 1.0, v.FgColor[3], 1e-6)
}

func TestUpdatePulsesOnlyMarkedCells(t *testing.T) {
	s := NewScene("test", 1, 2, WithPulseRate(1))
	require.NoError(t, s.SetCell(0, 0, Cell{Fg: [4]float32{1, 1, 1, 1}, Intensity: 1, Pulse: true}))
	require.NoError(t, s.SetCell(0, 1, Cell{Fg: [4]float32{1, 1, 1, 1}, Intensity: 1}))

	// Quarter period: sin peaks, pulse amount is 1.
	s.Update(0.25)

	vertices := s.Vertices()
	assert.InDelta(t, 1.0, vertices[0].MixValue, 1e-5)
	assert.Zero(t, vertices[4].MixValue)
}

func TestIndicesReferenceDistinctQuads(t *testing.T) {
	s := NewScene("test", 1, 2)
	indices := s.Indices()

	assert.Equal(t, []uint16{0, 1, 2, 0, 2, 3, 4, 5, 6, 4, 6, 7}, indices)
}

// The tick goroutine runs Update while the render goroutine snapshots, so the
// handoff must stay race-free: Update holds the write lock for the whole
// parallel row prep, and SnapshotGeometry copies under the read lock. Run with
// the race detector to verify the locking.
func TestSnapshotGeometryConcurrentWithUpdate(t *testing.T) {
	s := NewScene("test", 8, 8)
	require.NoError(t, s.SetCell(0, 0, Cell{Fg: [4]float32{1, 1, 1, 1}, Intensity: 1, Pulse: true}))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			s.Update(0.004)
		}
	}()

	for i := 0; i < 200; i++ {
		vertexData, indexData := s.SnapshotGeometry()
		assert.Len(t, vertexData, 8*8*4*model.QuadVertexStride)
		assert.Len(t, indexData, 8*8*6*2)
	}
	<-done
}

// SnapshotGeometry must return private copies, not views into the shared
// buffers, or a later Update would mutate data already handed to the renderer.
func TestSnapshotGeometryReturnsStableCopies(t *testing.T) {
	s := NewScene("test", 1, 1)
	require.NoError(t, s.SetCell(0, 0, Cell{Fg: [4]float32{1, 0, 0, 1}, Intensity: 1, Pulse: true}))
	s.Update(0)

	vertexData, _ := s.SnapshotGeometry()
	before := make([]byte, len(vertexData))
	copy(before, vertexData)

	// Quarter period at the default rate changes the pulsing cell's MixValue.
	s.Update(0.25)

	assert.Equal(t, before, vertexData)
}

func TestVerticesMarshalToExpectedSize(t *testing.T) {
	s := NewScene("test", 3, 3)
	s.Update(0)

	data := model.MarshalVertices(s.Vertices())
	assert.Len(t, data, 3*3*4*model.QuadVertexStride)
}
