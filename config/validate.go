package config

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// minStretchFactor is the smallest max_stretch_factor for which the segment
// band can be met with both anchors in place.
const minStretchFactor = 1.0

type floatField struct {
	name  string
	value float64
}

func (c *Config) floatFields() []floatField {
	return []floatField{
		{"threads.small_factor", c.Threads.SmallFactor},
		{"threads.medium_factor", c.Threads.MediumFactor},
		{"physics.stiffness", c.Physics.Stiffness},
		{"physics.gravity", c.Physics.Gravity},
		{"physics.damping", c.Physics.Damping},
		{"physics.time_step", c.Physics.TimeStep},
		{"physics.max_stretch_factor", c.Physics.MaxStretchFactor},
		{"noise.scale", c.Noise.Scale},
		{"noise.speed", c.Noise.Speed},
		{"noise.amplitude", c.Noise.Amplitude},
		{"stickiness.threshold", c.Stickiness.Threshold},
		{"stickiness.strength", c.Stickiness.Strength},
		{"grid.cell_size", c.Grid.CellSize},
		{"repulsion.radius", c.Repulsion.Radius},
		{"repulsion.strength", c.Repulsion.Strength},
		{"repulsion.response", c.Repulsion.Response},
		{"repulsion.falloff", c.Repulsion.Falloff},
		{"repulsion.max_accel", c.Repulsion.MaxAccel},
		{"interaction.frequency", c.Interaction.Frequency},
		{"interaction.damping", c.Interaction.Damping},
	}
}

// Validate checks every rule the simulation relies on and returns all
// failures joined together, or nil.
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...)))
	}

	// Comparisons below are all false for NaN, so non-finite values are
	// rejected up front.
	for _, f := range c.floatFields() {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			fail("%s must be finite, got %g", f.name, f.value)
		}
	}

	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		fail("screen size must be positive, got %dx%d", c.Screen.Width, c.Screen.Height)
	}
	if c.Screen.TargetFPS <= 0 {
		fail("screen.target_fps must be positive, got %d", c.Screen.TargetFPS)
	}

	t := c.Threads
	if t.BaseCount < 1 {
		fail("threads.base_count must be at least 1, got %d", t.BaseCount)
	}
	if t.PointsPerThread < 2 {
		fail("threads.points_per_thread must be at least 2, got %d", t.PointsPerThread)
	}
	if t.SmallFactor <= 0 {
		fail("threads.small_factor must be positive, got %g", t.SmallFactor)
	}
	if t.MediumFactor <= 0 {
		fail("threads.medium_factor must be positive, got %g", t.MediumFactor)
	}
	if t.SmallBreakpoint < 0 {
		fail("threads.small_breakpoint must not be negative, got %d", t.SmallBreakpoint)
	}
	if t.MediumBreakpoint != 0 && t.MediumBreakpoint < t.SmallBreakpoint {
		fail("threads.medium_breakpoint (%d) is below small_breakpoint (%d)", t.MediumBreakpoint, t.SmallBreakpoint)
	}

	p := c.Physics
	if p.Stiffness < 0 {
		fail("physics.stiffness must not be negative, got %g", p.Stiffness)
	}
	if p.Damping < 0 || p.Damping >= 1 {
		fail("physics.damping must be in [0, 1), got %g", p.Damping)
	}
	if p.TimeStep <= 0 {
		fail("physics.time_step must be positive, got %g", p.TimeStep)
	}
	if p.MaxStretchFactor < minStretchFactor {
		// Anchors sit (points-1) rest lengths apart, so a thread can only
		// span them when segments may reach the rest length.
		fail("physics.max_stretch_factor must be at least %g, got %g", minStretchFactor, p.MaxStretchFactor)
	}
	if p.ConstraintPasses < 1 {
		fail("physics.constraint_passes must be at least 1, got %d", p.ConstraintPasses)
	}
	switch p.DampingMode {
	case DampingVelocity, DampingStormer:
	default:
		fail("physics.damping_mode %q is not supported", p.DampingMode)
	}

	switch c.Noise.Kind {
	case NoisePerlin, NoiseSimplex, NoiseNone:
	default:
		fail("noise.kind %q is not supported", c.Noise.Kind)
	}
	if c.Noise.Amplitude < 0 {
		fail("noise.amplitude must not be negative, got %g", c.Noise.Amplitude)
	}

	if c.Stickiness.Threshold < 0 {
		fail("stickiness.threshold must not be negative, got %g", c.Stickiness.Threshold)
	}
	if c.Grid.CellSize <= 0 {
		fail("grid.cell_size must be positive, got %g", c.Grid.CellSize)
	}
	if c.Stickiness.Threshold > c.Grid.CellSize {
		// The 3x3 neighbourhood would miss pairs further apart than one cell.
		fail("stickiness.threshold (%g) exceeds grid.cell_size (%g)", c.Stickiness.Threshold, c.Grid.CellSize)
	}

	r := c.Repulsion
	switch r.Mode {
	case RepulsionWholeThread, RepulsionPerPoint:
	default:
		fail("repulsion.mode %q is not supported", r.Mode)
	}
	if r.Radius <= 0 {
		fail("repulsion.radius must be positive, got %g", r.Radius)
	}
	if r.Strength < 0 {
		fail("repulsion.strength must not be negative, got %g", r.Strength)
	}
	if r.Falloff < 0 {
		fail("repulsion.falloff must not be negative, got %g", r.Falloff)
	}
	if r.Response < 0 {
		fail("repulsion.response must not be negative, got %g", r.Response)
	}
	if r.MaxAccel < 0 {
		fail("repulsion.max_accel must not be negative, got %g", r.MaxAccel)
	}

	if c.Interaction.Smoothing && c.Interaction.Frequency <= 0 {
		fail("interaction.frequency must be positive when smoothing, got %g", c.Interaction.Frequency)
	}

	return errors.Join(errs...)
}
