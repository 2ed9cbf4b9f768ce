package systems

import (
	"fmt"

	"github.com/pthm-cable/threads/components"
	"github.com/pthm-cable/threads/config"
	"github.com/pthm-cable/threads/telemetry"
)

// PhaseTimer receives the name of each pipeline phase as it starts.
// telemetry.PerfCollector satisfies it.
type PhaseTimer interface {
	StartPhase(phase string)
}

// ThreadSystem owns every thread and runs the per-frame pipeline:
// constraints, grid rebuild, stickiness, repulsion, integration,
// constraints again, then render paths.
//
// It is not safe for concurrent use. Resize must be called between frames.
type ThreadSystem struct {
	cfg   *config.Config
	noise Noise
	timer PhaseTimer

	width, height float64
	restLength    float64
	threads       []components.Thread
	paths         []components.RenderPath

	grid        *SpatialHashGrid
	constraints ConstraintSolver
	stickiness  *StickinessField
	repulsor    Repulsor
	integrator  Integrator

	frame       int64
	last        telemetry.FrameReport
	initialized bool
}

// NewThreadSystem validates cfg and creates an uninitialized system.
// A nil noise source falls back to the one configured in cfg.
func NewThreadSystem(cfg *config.Config, noise Noise) (*ThreadSystem, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if noise == nil {
		n, err := NewNoise(cfg.Noise)
		if err != nil {
			return nil, err
		}
		noise = n
	}
	s := &ThreadSystem{cfg: cfg, noise: noise}
	if err := s.configure(); err != nil {
		return nil, err
	}
	return s, nil
}

// SetPhaseTimer installs a timer notified at the start of each phase.
func (s *ThreadSystem) SetPhaseTimer(t PhaseTimer) {
	s.timer = t
}

// Initialize discards all state and lays out threadCount threads across the
// viewport. Threads start evenly spaced in x; each thread's points are evenly
// spaced from the top edge to the bottom edge.
func (s *ThreadSystem) Initialize(width, height float64, threadCount int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: size %gx%g", ErrInvalidViewport, width, height)
	}
	if threadCount < 1 {
		return fmt.Errorf("%w: thread count %d", ErrInvalidViewport, threadCount)
	}

	n := s.cfg.Threads.PointsPerThread
	threads := make([]components.Thread, threadCount)
	for i := range threads {
		x := float64(i) / float64(threadCount) * width
		threads[i] = components.NewThread(x, height, n)
	}

	s.width = width
	s.height = height
	s.restLength = height / float64(n-1)
	s.threads = threads
	s.paths = make([]components.RenderPath, threadCount)
	s.frame = 0
	s.last = telemetry.FrameReport{}
	if err := s.configure(); err != nil {
		s.initialized = false
		return err
	}
	s.initialized = true
	return nil
}

// Resize reinitializes the system for a new viewport. The thread count
// follows the configured responsive rule; old positions are not carried over.
func (s *ThreadSystem) Resize(width, height float64) error {
	return s.Initialize(width, height, s.cfg.ThreadCountFor(width))
}

// Reconfigure swaps in a new configuration between frames. Thread positions
// are kept unless the point count changed, in which case the threads are
// rebuilt for the current viewport. On error the system is left unchanged.
func (s *ThreadSystem) Reconfigure(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	noise := s.noise
	if cfg.Noise != s.cfg.Noise {
		var err error
		if noise, err = NewNoise(cfg.Noise); err != nil {
			return err
		}
	}

	relayout := cfg.Threads.PointsPerThread != s.cfg.Threads.PointsPerThread
	prevCfg, prevNoise := s.cfg, s.noise
	s.cfg = cfg
	s.noise = noise

	var err error
	if s.initialized && relayout {
		err = s.Initialize(s.width, s.height, len(s.threads))
	} else {
		err = s.configure()
	}
	if err != nil {
		s.cfg, s.noise = prevCfg, prevNoise
		return err
	}
	return nil
}

// configure rebuilds the pipeline stages from the current config and viewport.
func (s *ThreadSystem) configure() error {
	repulsor, err := NewRepulsor(s.cfg.Repulsion)
	if err != nil {
		return err
	}
	integrator, err := NewIntegrator(s.cfg, s.noise, s.width, s.height, s.restLength)
	if err != nil {
		return err
	}

	s.repulsor = repulsor
	s.integrator = integrator
	s.constraints = NewConstraintSolver(s.restLength, s.cfg.Physics.MaxStretchFactor, s.cfg.Physics.ConstraintPasses)
	s.stickiness = NewStickinessField(s.cfg.Stickiness.Threshold, s.cfg.Stickiness.Strength)
	if s.grid == nil || s.grid.CellSize() != s.cfg.Grid.CellSize {
		s.grid = NewSpatialHashGrid(s.cfg.Grid.CellSize)
	}
	return nil
}

// Step advances the simulation by one frame and returns the render path of
// every thread, in thread order. The returned slices are reused by the next
// call.
func (s *ThreadSystem) Step(in components.Interaction) ([]components.RenderPath, error) {
	if !s.initialized {
		return nil, ErrNotInitialized
	}

	for ti := range s.threads {
		pts := s.threads[ti].Points
		for i := range pts {
			pts[i].Repulsed = false
		}
	}

	s.phase(telemetry.PhaseConstraintsPre)
	s.constraints.Enforce(s.threads)

	s.phase(telemetry.PhaseSpatialGrid)
	s.grid.Rebuild(s.threads)

	s.phase(telemetry.PhaseStickiness)
	pairs := s.stickiness.Apply(s.threads, s.grid)

	s.phase(telemetry.PhaseRepulsion)
	rep := s.repulsor.Apply(s.threads, in)

	s.phase(telemetry.PhaseIntegration)
	s.integrator.Advance(s.threads, s.frame)

	s.phase(telemetry.PhaseConstraintsPost)
	s.constraints.Enforce(s.threads)

	s.phase(telemetry.PhaseRenderPaths)
	for ti := range s.threads {
		s.paths[ti] = s.threads[ti].AppendRenderPath(s.paths[ti][:0])
		clampPath(s.paths[ti], s.width, s.height)
	}

	s.last = telemetry.FrameReport{
		Frame:           s.frame,
		StickyPairs:     pairs,
		RepulsedPoints:  rep.RepulsedPoints,
		AffectedThreads: rep.AffectedThreads,
		Suppressed:      rep.Suppressed,
		Interacting:     in.Active,
	}
	s.frame++

	return s.paths, nil
}

// clampPath keeps emitted points inside the viewport. The post-integration
// constraint pass may move a point past an edge; the simulation state keeps
// the unclamped position.
func clampPath(path components.RenderPath, w, h float64) {
	for i := range path {
		path[i].X = clampFloat(path[i].X, 0, w)
		path[i].Y = clampFloat(path[i].Y, 0, h)
	}
}

func (s *ThreadSystem) phase(name string) {
	if s.timer != nil {
		s.timer.StartPhase(name)
	}
}

// Threads returns the live thread slice. Callers must not change point
// counts or anchored flags.
func (s *ThreadSystem) Threads() []components.Thread {
	return s.threads
}

// Frame returns the number of completed steps since initialization.
func (s *ThreadSystem) Frame() int64 {
	return s.frame
}

// Width returns the viewport width.
func (s *ThreadSystem) Width() float64 { return s.width }

// Height returns the viewport height.
func (s *ThreadSystem) Height() float64 { return s.height }

// RestLength returns the spring rest length, height / (points - 1).
func (s *ThreadSystem) RestLength() float64 { return s.restLength }

// Config returns the active configuration.
func (s *ThreadSystem) Config() *config.Config { return s.cfg }

// Grid returns the spatial grid as rebuilt by the last step.
func (s *ThreadSystem) Grid() *SpatialHashGrid { return s.grid }

// LastFrame returns counters from the most recent step.
func (s *ThreadSystem) LastFrame() telemetry.FrameReport {
	return s.last
}
