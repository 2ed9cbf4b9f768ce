package systems

import (
	"fmt"
	"math"

	"github.com/pthm-cable/threads/components"
	"github.com/pthm-cable/threads/config"
)

// Whole-thread shaping constants.
const (
	horizontalSharpness = 1.5  // exponent on the index-distance falloff
	prevFollow          = 0.75 // fraction of the push copied into Prev
	forceCarry          = 0.3  // fraction of the push kept as acceleration
)

// Per-point shaping constants.
const (
	additiveNudge = 0.1 // extra push on top of the blended move
	accelShare    = 0.5 // fraction of the push applied as acceleration
)

// RepulsionReport summarises one frame of repulsion.
type RepulsionReport struct {
	AffectedThreads int
	RepulsedPoints  int
	Suppressed      int // per-point mode only
}

// Repulsor pushes threads away from the active interaction position.
// Implementations do nothing when the interaction is inactive.
type Repulsor interface {
	Apply(threads []components.Thread, in components.Interaction) RepulsionReport
}

// NewRepulsor builds the repulsion policy named by cfg.Mode.
func NewRepulsor(cfg config.RepulsionConfig) (Repulsor, error) {
	switch cfg.Mode {
	case config.RepulsionWholeThread:
		return &WholeThreadRepulsor{
			Radius:   cfg.Radius,
			Strength: cfg.Strength,
			Response: cfg.Response,
			Falloff:  cfg.Falloff,
		}, nil
	case config.RepulsionPerPoint:
		return &PerPointRepulsor{
			Radius:   cfg.Radius,
			Strength: cfg.Strength,
			Response: cfg.Response,
			Falloff:  cfg.Falloff,
			MaxAccel: cfg.MaxAccel,
		}, nil
	default:
		return nil, fmt.Errorf("%w: repulsion mode %q", ErrUnsupportedMode, cfg.Mode)
	}
}

// WholeThreadRepulsor bows an entire thread when any of its points is inside
// the radius. The push peaks at the closest point and mid-thread and fades to
// zero at the anchors.
type WholeThreadRepulsor struct {
	Radius   float64
	Strength float64
	Response float64
	Falloff  float64
}

// Apply implements Repulsor.
func (r *WholeThreadRepulsor) Apply(threads []components.Thread, in components.Interaction) RepulsionReport {
	var rep RepulsionReport
	if !in.Active {
		return rep
	}

	for ti := range threads {
		pts := threads[ti].Points
		n := len(pts)

		// First pass: find affected points and the averaged outward direction
		closestDist := math.Inf(1)
		closestIdx := -1
		var sum components.Vec2
		affected := 0
		for i := range pts {
			away := pts[i].Pos.Sub(in.Pos)
			d := away.Len()
			if d >= r.Radius {
				continue
			}
			affected++
			pts[i].Repulsed = true
			if d < closestDist {
				closestDist = d
				closestIdx = i
			}
			if dir, ok := away.Normalize(); ok {
				sum = sum.Add(dir.Scale(falloffCurve(d, r.Radius, r.Falloff)))
			}
		}
		if affected == 0 {
			continue
		}
		rep.AffectedThreads++
		rep.RepulsedPoints += affected

		dir, ok := sum.Scale(1 / float64(affected)).Normalize()
		if !ok {
			continue
		}

		base := falloffCurve(closestDist, r.Radius, r.Falloff) * r.Strength
		half := float64(n) * 0.5

		// Second pass: push every free point with combined falloffs
		for i := range pts {
			p := &pts[i]
			if p.Anchored {
				continue
			}

			h := math.Max(0, 1-math.Abs(float64(i-closestIdx))/half)
			h = math.Pow(h, horizontalSharpness)
			v := math.Sin(float64(i) / float64(n-1) * math.Pi)

			f := dir.Scale(base * h * v * r.Response)
			p.Pos = p.Pos.Add(f)
			p.Prev = p.Prev.Add(f.Scale(prevFollow))
			p.Force = p.Force.Add(f.Scale(forceCarry))
		}
	}

	return rep
}

// PerPointRepulsor nudges each point inside the radius on its own. A point
// whose two neighbours are both inside the radius is left to its springs,
// which keeps a dense run of pushed points from crumpling.
type PerPointRepulsor struct {
	Radius   float64
	Strength float64
	Response float64
	Falloff  float64
	MaxAccel float64
}

// Apply implements Repulsor.
func (r *PerPointRepulsor) Apply(threads []components.Thread, in components.Interaction) RepulsionReport {
	var rep RepulsionReport
	if !in.Active {
		return rep
	}
	blend := clamp01(r.Response * 0.5)

	for ti := range threads {
		pts := threads[ti].Points
		n := len(pts)

		marked := 0
		for i := range pts {
			p := &pts[i]
			if p.Anchored {
				continue
			}
			d := components.Dist(in.Pos, p.Pos)
			if d > 0 && d < r.Radius {
				p.Repulsed = true
				marked++
			}
		}
		if marked == 0 {
			continue
		}
		rep.AffectedThreads++
		rep.RepulsedPoints += marked

		for i := range pts {
			p := &pts[i]
			if !p.Repulsed || p.Anchored {
				continue
			}
			if i > 0 && i < n-1 && pts[i-1].Repulsed && pts[i+1].Repulsed {
				rep.Suppressed++
				continue
			}

			away := p.Pos.Sub(in.Pos)
			d := away.Len()
			dir, ok := away.Normalize()
			if !ok {
				continue
			}
			k := falloffCurve(d, r.Radius, r.Falloff)
			offset := dir.Scale(r.Strength * k)

			// Blend toward the offset position, then add a small direct push.
			// Prev follows the blended part only.
			p.Pos = p.Pos.Lerp(p.Pos.Add(offset), blend).Add(offset.Scale(additiveNudge))
			p.Prev = p.Prev.Add(offset.Scale(blend))

			accel := math.Min(r.Strength*k*accelShare, r.MaxAccel)
			p.Force = p.Force.Add(dir.Scale(accel))
		}
	}

	return rep
}
