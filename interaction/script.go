package interaction

import (
	"math"

	"github.com/pthm-cable/threads/components"
)

// Sweep is a scripted pointer for headless runs: it presses for Press frames
// out of every Period, tracing a horizontal sine sweep across the viewport
// at mid height.
type Sweep struct {
	Width, Height float64
	Period        int64
	Press         int64
}

// NewSweep returns the default sweep for a viewport: a four second cycle at
// 30 frames per second with the pointer held for the first half.
func NewSweep(width, height float64) Sweep {
	return Sweep{Width: width, Height: height, Period: 120, Press: 60}
}

// At returns the scripted interaction for a frame.
func (s Sweep) At(frame int64) components.Interaction {
	if s.Period <= 0 {
		return components.NoInteraction
	}
	phase := frame % s.Period
	if phase >= s.Press {
		return components.NoInteraction
	}
	t := float64(phase) / float64(max(s.Press, 1))
	x := s.Width * (0.5 + 0.4*math.Sin(t*2*math.Pi))
	y := s.Height * (0.5 + 0.1*math.Cos(t*2*math.Pi))
	return components.PointerAt(x, y)
}
