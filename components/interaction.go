package components

// Source identifies where an interaction position came from.
type Source uint8

const (
	SourceNone Source = iota
	SourcePointer
	SourceTouch
)

// String returns the display name for a Source.
func (s Source) String() string {
	switch s {
	case SourcePointer:
		return "pointer"
	case SourceTouch:
		return "touch"
	default:
		return "none"
	}
}

// Interaction is the single pointer or touch position honoured in a frame.
type Interaction struct {
	Pos    Vec2
	Active bool
	Source Source
}

// NoInteraction is the zero input: nothing pressed, nothing touched.
var NoInteraction = Interaction{}

// PointerAt returns an active pointer interaction at (x, y).
func PointerAt(x, y float64) Interaction {
	return Interaction{Pos: Vec2{X: x, Y: y}, Active: true, Source: SourcePointer}
}

// TouchAt returns an active touch interaction at (x, y).
func TouchAt(x, y float64) Interaction {
	return Interaction{Pos: Vec2{X: x, Y: y}, Active: true, Source: SourceTouch}
}
