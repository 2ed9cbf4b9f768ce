// Package interaction turns raw pointer and touch input into the single
// interaction the thread system honours each frame.
package interaction

import "github.com/pthm-cable/threads/components"

// Sample is the raw input state polled from the host for one frame.
type Sample struct {
	Touches     []components.Vec2
	Pointer     components.Vec2
	PointerDown bool
}

// Select picks the interaction for a frame. The first touch wins over the
// pointer; the pointer only counts while its button is held.
func Select(s Sample) components.Interaction {
	if len(s.Touches) > 0 {
		return components.Interaction{Pos: s.Touches[0], Active: true, Source: components.SourceTouch}
	}
	if s.PointerDown {
		return components.Interaction{Pos: s.Pointer, Active: true, Source: components.SourcePointer}
	}
	return components.NoInteraction
}
