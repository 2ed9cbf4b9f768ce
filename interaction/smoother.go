package interaction

import (
	"github.com/charmbracelet/harmonica"

	"github.com/pthm-cable/threads/components"
)

// Smoother eases the interaction position toward the raw input with a
// damped spring, so fast pointer flicks sweep through the field instead of
// teleporting. A new press snaps to the raw position.
type Smoother struct {
	spring harmonica.Spring
	pos    components.Vec2
	vel    components.Vec2
	primed bool
}

// NewSmoother creates a smoother stepping at fps frames per second.
func NewSmoother(fps int, frequency, damping float64) *Smoother {
	return &Smoother{spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping)}
}

// Smooth returns in with its position replaced by the eased position.
// Inactive input passes through and resets the smoother.
func (s *Smoother) Smooth(in components.Interaction) components.Interaction {
	if !in.Active {
		s.Reset()
		return in
	}
	if !s.primed {
		s.pos = in.Pos
		s.vel = components.Vec2{}
		s.primed = true
		return in
	}

	s.pos.X, s.vel.X = s.spring.Update(s.pos.X, s.vel.X, in.Pos.X)
	s.pos.Y, s.vel.Y = s.spring.Update(s.pos.Y, s.vel.Y, in.Pos.Y)
	in.Pos = s.pos
	return in
}

// Reset forgets the eased position.
func (s *Smoother) Reset() {
	s.primed = false
	s.vel = components.Vec2{}
}
