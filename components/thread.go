// Package components defines the data model shared by the thread simulation.
package components

// Point is a single mass on a thread.
type Point struct {
	Pos   Vec2 // current position
	Prev  Vec2 // position one frame ago (Verlet velocity source)
	Force Vec2 // accumulated acceleration for this frame

	Anchored bool // first/last point of a thread; never moves
	Repulsed bool // inside the interaction radius this frame
}

// Velocity returns the displacement stored between Prev and Pos.
func (p *Point) Velocity() Vec2 {
	return p.Pos.Sub(p.Prev)
}

// Place moves the point and zeroes its stored velocity.
func (p *Point) Place(pos Vec2) {
	p.Pos = pos
	p.Prev = pos
}

// Thread is one vertical strand: an ordered chain of points whose first and
// last entries are anchored. The number and order of points never change
// after creation.
type Thread struct {
	Points []Point
}

// NewThread builds a thread of n points spread evenly from (x, 0) to
// (x, height). n must be at least 2.
func NewThread(x, height float64, n int) Thread {
	pts := make([]Point, n)
	for j := range pts {
		var y float64
		switch j {
		case 0:
			y = 0
		case n - 1:
			y = height
		default:
			y = float64(j) / float64(n-1) * height
		}
		pts[j].Place(Vec2{X: x, Y: y})
		pts[j].Anchored = j == 0 || j == n-1
	}
	return Thread{Points: pts}
}

// Len returns the number of points on the thread.
func (t *Thread) Len() int {
	return len(t.Points)
}

// RenderPath is an ordered list of positions ready for a Catmull-Rom spline.
// The first and last points appear twice so the curve reaches the anchors.
type RenderPath []Vec2

// AppendRenderPath appends the thread's render path to dst and returns it.
func (t *Thread) AppendRenderPath(dst RenderPath) RenderPath {
	n := len(t.Points)
	if n == 0 {
		return dst
	}
	dst = append(dst, t.Points[0].Pos)
	for i := range t.Points {
		dst = append(dst, t.Points[i].Pos)
	}
	return append(dst, t.Points[n-1].Pos)
}
