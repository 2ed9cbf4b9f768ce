package components

import "math"

// Vec2 is a 2-D vector in viewport pixels.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// LenSq returns the squared length of v.
func (v Vec2) LenSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Len returns the length of v.
func (v Vec2) Len() float64 {
	return math.Sqrt(v.LenSq())
}

// Normalize returns the unit vector along v.
// The second result is false when v has zero length; callers skip the
// contribution instead of dividing by zero.
func (v Vec2) Normalize() (Vec2, bool) {
	l := v.Len()
	if l == 0 || math.IsNaN(l) {
		return Vec2{}, false
	}
	return Vec2{X: v.X / l, Y: v.Y / l}, true
}

// Lerp returns the point a fraction t of the way from v to o.
func (v Vec2) Lerp(o Vec2, t float64) Vec2 {
	return Vec2{X: v.X + (o.X-v.X)*t, Y: v.Y + (o.Y-v.Y)*t}
}

// Dist returns the Euclidean distance between a and b.
func Dist(a, b Vec2) float64 {
	return b.Sub(a).Len()
}
