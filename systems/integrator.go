package systems

import (
	"fmt"

	"github.com/pthm-cable/threads/components"
	"github.com/pthm-cable/threads/config"
)

// springEpsilon is the distance below which a spring has no usable direction.
const springEpsilon = 1e-6

// stepFunc advances one point given its accumulated acceleration.
type stepFunc func(p *components.Point, dt2, damping float64)

// Integrator accumulates gravity, noise wander and spring forces and then
// advances every free point with a damped Verlet step.
//
// Forces for a whole thread are accumulated before any of its points move,
// so the result does not depend on point order.
type Integrator struct {
	Gravity    float64
	Stiffness  float64
	Damping    float64
	TimeStep   float64
	RestLength float64

	NoiseScale     float64
	NoiseSpeed     float64
	NoiseAmplitude float64
	Noise          Noise

	Width, Height float64

	step stepFunc
}

// NewIntegrator builds an integrator for a viewport and rest length.
func NewIntegrator(cfg *config.Config, noise Noise, width, height, restLength float64) (Integrator, error) {
	var step stepFunc
	switch cfg.Physics.DampingMode {
	case config.DampingVelocity:
		step = stepVelocity
	case config.DampingStormer:
		step = stepStormer
	default:
		return Integrator{}, fmt.Errorf("%w: damping mode %q", ErrUnsupportedMode, cfg.Physics.DampingMode)
	}
	if noise == nil {
		noise = ZeroNoise{}
	}

	return Integrator{
		Gravity:        cfg.Physics.Gravity,
		Stiffness:      cfg.Physics.Stiffness,
		Damping:        cfg.Physics.Damping,
		TimeStep:       cfg.Physics.TimeStep,
		RestLength:     restLength,
		NoiseScale:     cfg.Noise.Scale,
		NoiseSpeed:     cfg.Noise.Speed,
		NoiseAmplitude: cfg.Noise.Amplitude,
		Noise:          noise,
		Width:          width,
		Height:         height,
		step:           step,
	}, nil
}

// Advance integrates every thread by one frame. frame drives the noise time axis.
func (in Integrator) Advance(threads []components.Thread, frame int64) {
	dt2 := in.TimeStep * in.TimeStep
	for ti := range threads {
		pts := threads[ti].Points
		in.accumulate(pts, frame)

		for i := range pts {
			p := &pts[i]
			if p.Anchored {
				continue
			}
			in.step(p, dt2, in.Damping)
			p.Force = components.Vec2{}

			// Screen bounds
			p.Pos.X = clampFloat(p.Pos.X, 0, in.Width)
			p.Pos.Y = clampFloat(p.Pos.Y, 0, in.Height)
		}
	}
}

// accumulate adds gravity, wander and spring forces to every free point.
func (in Integrator) accumulate(pts []components.Point, frame int64) {
	for i := range pts {
		p := &pts[i]
		if p.Anchored {
			continue
		}

		f := p.Force
		f.Y += in.Gravity
		f = f.Add(in.wander(p.Pos, frame))
		if i > 0 {
			f = f.Add(in.spring(p.Pos, pts[i-1].Pos))
		}
		if i < len(pts)-1 {
			f = f.Add(in.spring(p.Pos, pts[i+1].Pos))
		}
		p.Force = f
	}
}

// wander samples the noise field and maps [0, 1] to [-amp, amp] on both axes.
func (in Integrator) wander(pos components.Vec2, frame int64) components.Vec2 {
	if in.NoiseAmplitude == 0 {
		return components.Vec2{}
	}
	n := in.Noise.Eval(pos.X*in.NoiseScale, pos.Y*in.NoiseScale, float64(frame)*in.NoiseSpeed)
	w := (n*2 - 1) * in.NoiseAmplitude
	return components.Vec2{X: w, Y: w}
}

// spring returns the Hookean pull on a point at pos toward its neighbour.
func (in Integrator) spring(pos, neighbor components.Vec2) components.Vec2 {
	delta := neighbor.Sub(pos)
	d := delta.Len()
	if d <= springEpsilon {
		return components.Vec2{}
	}
	return delta.Scale((d - in.RestLength) * in.Stiffness / d)
}

// stepVelocity damps the stored displacement before adding it.
func stepVelocity(p *components.Point, dt2, damping float64) {
	vel := p.Velocity().Scale(1 - damping)
	p.Prev = p.Pos
	p.Pos = p.Pos.Add(vel).Add(p.Force.Scale(dt2))
}

// stepStormer takes an undamped Störmer-Verlet step and then re-derives a
// previous position that stores only (1 - damping) of the new velocity.
func stepStormer(p *components.Point, dt2, damping float64) {
	next := p.Pos.Scale(2).Sub(p.Prev).Add(p.Force.Scale(dt2))
	p.Prev = next.Sub(next.Sub(p.Pos).Scale(1 - damping))
	p.Pos = next
}
