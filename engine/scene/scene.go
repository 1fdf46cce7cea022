// Package scene holds the terminal cell grid: a rows-by-cols matrix of styled
// cells that is animated on the CPU each frame and emitted as quad geometry
// for the renderer's cell pass.
package scene

import (
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/termglow/termglow/common"
	"github.com/termglow/termglow/engine/model"
)

// Cell is one character cell of the grid. Cells are plain values; the grid
// owns all animation state.
type Cell struct {
	// Fg is the base foreground color of the cell.
	Fg [4]float32

	// Intensity scales the foreground brightness. Bright cells are the ones
	// the glow extract pass picks up.
	Intensity float32

	// Pulse marks the cell as animated: its color oscillates toward the
	// scene's pulse color at the configured pulse rate.
	Pulse bool
}

// scene is the implementation of the Scene interface.
type scene struct {
	mu   *sync.RWMutex
	name string

	rows int
	cols int

	cells []Cell

	// pulseColor is the color pulsing cells blend toward.
	pulseColor [4]float32
	// pulseRate is the pulse frequency in cycles per second.
	pulseRate float32
	// phase is the accumulated pulse clock in seconds.
	phase float64

	// vertices and indices are rebuilt by Update and reused across frames to
	// avoid per-frame allocations. Indices only change on resize.
	vertices []model.GPUQuadVertex
	indices  []uint16

	// computePool manages a bounded set of reusable goroutines for the
	// parallel per-row vertex prep in Update. Workers persist across frames,
	// avoiding per-frame goroutine spawn/teardown overhead.
	computePool    worker.DynamicWorkerPool
	computeWorkers int
}

// Scene defines the interface for the terminal cell grid consumed by the
// renderer. All methods are safe for concurrent use.
type Scene interface {
	// Name returns the name of the scene.
	//
	// Returns:
	//   - string: the scene name
	Name() string

	// Rows returns the grid height in cells.
	//
	// Returns:
	//   - int: number of rows
	Rows() int

	// Cols returns the grid width in cells.
	//
	// Returns:
	//   - int: number of columns
	Cols() int

	// SetCell replaces the cell at the given position.
	//
	// Parameters:
	//   - row: zero-based row, top to bottom
	//   - col: zero-based column, left to right
	//   - cell: the new cell value
	//
	// Returns:
	//   - error: an error if the position is outside the grid
	SetCell(row, col int, cell Cell) error

	// Cell returns the cell at the given position.
	//
	// Parameters:
	//   - row: zero-based row, top to bottom
	//   - col: zero-based column, left to right
	//
	// Returns:
	//   - Cell: the cell value (zero value if out of bounds)
	//   - bool: true if the position is inside the grid
	Cell(row, col int) (Cell, bool)

	// Clear resets every cell to the zero value.
	Clear()

	// Update advances the pulse clock and rebuilds the quad geometry for the
	// current grid contents. Rows are prepared in parallel on the compute
	// pool; Update blocks until every row is done.
	//
	// Parameters:
	//   - deltaTime: seconds elapsed since the previous update
	Update(deltaTime float64)

	// Vertices returns the quad vertices built by the last Update, four per
	// cell in row-major order. The slice is reused across updates; a caller
	// on another goroutine must not hold it across an Update and should use
	// SnapshotGeometry instead.
	//
	// Returns:
	//   - []model.GPUQuadVertex: the current frame's vertices
	Vertices() []model.GPUQuadVertex

	// Indices returns the triangle-list indices matching Vertices, six per
	// cell. Stable for the lifetime of the scene.
	//
	// Returns:
	//   - []uint16: the index list
	Indices() []uint16

	// SnapshotGeometry marshals the current vertices and indices into fresh
	// upload buffers under the scene lock. This is the handoff point between
	// the tick goroutine (which runs Update) and the render goroutine: the
	// returned slices are private copies, so the renderer can upload them
	// while the next Update rewrites the shared vertex buffer.
	//
	// Returns:
	//   - []byte: the vertex data, QuadVertexStride bytes per vertex
	//   - []byte: the index data, two bytes per index
	SnapshotGeometry() (vertexData, indexData []byte)
}

var _ Scene = &scene{}

// NewScene creates a new Scene with the given grid dimensions. The dimensions
// are required and NewScene panics if either is not positive; the cell count
// is capped by the uint16 index space (four vertices per cell).
//
// Parameters:
//   - name: the name of the scene
//   - rows: grid height in cells (must be > 0)
//   - cols: grid width in cells (must be > 0)
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, rows, cols int, options ...SceneBuilderOption) Scene {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Sprintf("scene: NewScene requires positive dimensions, got %dx%d", rows, cols))
	}
	if rows*cols*4 > math.MaxUint16+1 {
		panic(fmt.Sprintf("scene: %dx%d grid exceeds the uint16 index space", rows, cols))
	}

	s := &scene{
		mu:    &sync.RWMutex{},
		name:  name,
		rows:  rows,
		cols:  cols,
		cells: make([]Cell, rows*cols),
	}

	for _, option := range options {
		option(s)
	}
	s.pulseColor = common.Coalesce(s.pulseColor, [4]float32{1, 1, 1, 1})
	s.pulseRate = common.Coalesce(s.pulseRate, 1.0)
	s.computeWorkers = common.Coalesce(s.computeWorkers, max(runtime.NumCPU()-1, 1))

	// Initialize the compute pool after options so WithComputeWorkers can
	// override the default. Queue size of 256 accommodates typical row counts
	// with headroom.
	s.computePool = worker.NewDynamicWorkerPool(s.computeWorkers, 256, 1*time.Second)

	s.vertices = make([]model.GPUQuadVertex, rows*cols*4)
	s.indices = buildCellIndices(rows * cols)

	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) Rows() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rows
}

func (s *scene) Cols() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cols
}

func (s *scene) SetCell(row, col int, cell Cell) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row < 0 || row >= s.rows || col < 0 || col >= s.cols {
		return fmt.Errorf("scene: cell (%d,%d) outside %dx%d grid", row, col, s.rows, s.cols)
	}
	s.cells[row*s.cols+col] = cell
	return nil
}

func (s *scene) Cell(row, col int) (Cell, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if row < 0 || row >= s.rows || col < 0 || col >= s.cols {
		return Cell{}, false
	}
	return s.cells[row*s.cols+col], true
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cells {
		s.cells[i] = Cell{}
	}
}

func (s *scene) Update(deltaTime float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.phase += deltaTime

	// Pulse amount shared by every pulsing cell this frame: a 0..1 sine wave
	// at pulseRate cycles per second.
	pulse := float32(0.5 + 0.5*math.Sin(2*math.Pi*float64(s.pulseRate)*s.phase))

	// Parallel per-row vertex prep. Rows write disjoint slices of the shared
	// vertex buffer, so no synchronization is needed beyond the barrier.
	// A WaitGroup provides per-frame barrier sync since the pool has no
	// frame-grained wait of its own.
	var wg sync.WaitGroup
	for row := 0; row < s.rows; row++ {
		wg.Add(1)
		r := row
		s.computePool.SubmitTask(worker.Task{
			ID: r,
			Do: func() (any, error) {
				defer wg.Done()
				s.prepareRow(r, pulse)
				return nil, nil
			},
		})
	}
	wg.Wait()
}

// prepareRow fills the vertex quad for every cell of one row. Caller holds the
// write lock; rows touch disjoint vertex ranges.
func (s *scene) prepareRow(row int, pulse float32) {
	cellW := 2.0 / float32(s.cols)
	cellH := 2.0 / float32(s.rows)

	// Row 0 is the top of the screen; NDC y grows upward.
	yTop := 1.0 - float32(row)*cellH
	yBottom := yTop - cellH

	for col := 0; col < s.cols; col++ {
		cell := s.cells[row*s.cols+col]
		xLeft := -1.0 + float32(col)*cellW
		xRight := xLeft + cellW

		mix := float32(0)
		if cell.Pulse {
			mix = pulse
		}

		fg := [4]float32{
			cell.Fg[0] * cell.Intensity,
			cell.Fg[1] * cell.Intensity,
			cell.Fg[2] * cell.Intensity,
			cell.Fg[3],
		}

		base := (row*s.cols + col) * 4
		corners := [4][2]float32{
			{xLeft, yBottom},
			{xRight, yBottom},
			{xRight, yTop},
			{xLeft, yTop},
		}
		uvs := [4][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}
		for i := 0; i < 4; i++ {
			s.vertices[base+i] = model.GPUQuadVertex{
				Position: corners[i],
				TexCoord: uvs[i],
				FgColor:  fg,
				AltColor: s.pulseColor,
				HSV:      [3]float32{1, 1, 1},
				HasColor: 1,
				MixValue: mix,
			}
		}
	}
}

func (s *scene) Vertices() []model.GPUQuadVertex {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vertices
}

func (s *scene) Indices() []uint16 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indices
}

func (s *scene) SnapshotGeometry() (vertexData, indexData []byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.MarshalVertices(s.vertices), model.MarshalIndices(s.indices)
}

// buildCellIndices returns the static two-triangle index list for cellCount
// quads of four vertices each.
func buildCellIndices(cellCount int) []uint16 {
	indices := make([]uint16, 0, cellCount*6)
	for i := 0; i < cellCount; i++ {
		base := uint16(i * 4)
		indices = append(indices,
			base, base+1, base+2,
			base, base+2, base+3,
		)
	}
	return indices
}
