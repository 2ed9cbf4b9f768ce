package systems

import (
	"math"

	"github.com/pthm-cable/threads/components"
)

// minLengthRatio is the shortest allowed segment as a fraction of rest length.
const minLengthRatio = 0.5

// chordSearchSteps bounds the bisection in pullToChord.
const chordSearchSteps = 30

// ConstraintSolver keeps adjacent points of a thread inside the length band
// [RestLength*0.5, MaxLength].
//
// It runs a fixed number of passes per call instead of iterating to a
// tolerance. A thread still outside the band after the passes is pulled
// toward the straight line between its anchors, which meets the band whenever
// the rest length does.
type ConstraintSolver struct {
	RestLength float64
	MaxLength  float64
	Passes     int
}

// NewConstraintSolver creates a solver for the given rest length.
func NewConstraintSolver(restLength, maxStretchFactor float64, passes int) ConstraintSolver {
	return ConstraintSolver{
		RestLength: restLength,
		MaxLength:  restLength * maxStretchFactor,
		Passes:     passes,
	}
}

// MinLength returns the shortest segment length that does not trigger a correction.
func (c ConstraintSolver) MinLength() float64 {
	return c.RestLength * minLengthRatio
}

// TargetLength returns the length a violating segment is reset to.
func (c ConstraintSolver) TargetLength() float64 {
	return math.Min(c.MaxLength, c.RestLength)
}

// Enforce relaxes every thread in place.
func (c ConstraintSolver) Enforce(threads []components.Thread) {
	for ti := range threads {
		pts := threads[ti].Points
		for pass := 0; pass < c.Passes; pass++ {
			c.relax(pts)
		}
		if !c.withinBand(pts, 0) {
			c.pullToChord(pts)
		}
	}
}

// relax walks the adjacent pairs of one thread top to bottom once.
func (c ConstraintSolver) relax(pts []components.Point) {
	minLen := c.MinLength()
	target := c.TargetLength()

	for i := 0; i < len(pts)-1; i++ {
		cur := &pts[i]
		next := &pts[i+1]

		delta := next.Pos.Sub(cur.Pos)
		d := delta.Len()
		if d <= c.MaxLength && d >= minLen {
			continue
		}

		dir, ok := delta.Normalize()
		if !ok {
			// Coincident points have no direction to correct along
			continue
		}

		switch {
		case cur.Anchored && next.Anchored:
		case cur.Anchored:
			next.Place(cur.Pos.Add(dir.Scale(target)))
		case next.Anchored:
			cur.Place(next.Pos.Sub(dir.Scale(target)))
		default:
			// Share the correction about the midpoint
			mid := cur.Pos.Add(next.Pos).Scale(0.5)
			half := dir.Scale(target * 0.5)
			cur.Place(mid.Sub(half))
			next.Place(mid.Add(half))
		}
	}
}

// chordLerp returns point i moved the fraction t of the way toward its slot
// on the straight line from a to b. Anchored points stay put.
func chordLerp(pts []components.Point, a, b components.Vec2, i int, t float64) components.Vec2 {
	p := pts[i]
	if p.Anchored || t == 0 {
		return p.Pos
	}
	slot := a.Lerp(b, float64(i)/float64(len(pts)-1))
	return p.Pos.Lerp(slot, t)
}

// withinBand reports whether every segment lies in the band once the points
// are moved by chordLerp with fraction t toward the line between the ends.
func (c ConstraintSolver) withinBand(pts []components.Point, t float64) bool {
	if len(pts) < 2 {
		return true
	}
	a, b := pts[0].Pos, pts[len(pts)-1].Pos
	minLen := c.MinLength()
	prev := chordLerp(pts, a, b, 0, t)
	for i := 1; i < len(pts); i++ {
		cur := chordLerp(pts, a, b, i, t)
		d := cur.Sub(prev).Len()
		if !(d <= c.MaxLength && d >= minLen) {
			return false
		}
		prev = cur
	}
	return true
}

// pullToChord moves the free points toward the straight line between the
// end points by the smallest fraction, found by bisection, that puts every
// segment inside the band. The bisection keeps a fraction known to satisfy
// the band, so the result always does. Nothing moves when the straight line
// itself is outside the band.
func (c ConstraintSolver) pullToChord(pts []components.Point) {
	if len(pts) < 3 || !c.withinBand(pts, 1) {
		return
	}
	lo, hi := 0.0, 1.0
	for step := 0; step < chordSearchSteps; step++ {
		mid := (lo + hi) * 0.5
		if c.withinBand(pts, mid) {
			hi = mid
		} else {
			lo = mid
		}
	}
	a, b := pts[0].Pos, pts[len(pts)-1].Pos
	for i := range pts {
		if !pts[i].Anchored {
			pts[i].Place(chordLerp(pts, a, b, i, hi))
		}
	}
}
