package scene

// SceneBuilderOption is a functional option used to configure a Scene during construction.
type SceneBuilderOption func(*scene)

// WithComputeWorkers sets the number of workers in the per-frame compute pool.
//
// Parameters:
//   - workers: the worker count (values < 1 are ignored)
//
// Returns:
//   - SceneBuilderOption: a function that sets the compute worker count
func WithComputeWorkers(workers int) SceneBuilderOption {
	return func(s *scene) {
		if workers >= 1 {
			s.computeWorkers = workers
		}
	}
}

// WithPulseRate sets the pulse frequency for animated cells.
//
// Parameters:
//   - rate: pulse frequency in cycles per second
//
// Returns:
//   - SceneBuilderOption: a function that sets the pulse rate
func WithPulseRate(rate float32) SceneBuilderOption {
	return func(s *scene) {
		s.pulseRate = rate
	}
}

// WithPulseColor sets the color pulsing cells blend toward.
//
// Parameters:
//   - color: the RGBA pulse color
//
// Returns:
//   - SceneBuilderOption: a function that sets the pulse color
func WithPulseColor(color [4]float32) SceneBuilderOption {
	return func(s *scene) {
		s.pulseColor = color
	}
}
