package interaction

import (
	"math"
	"testing"

	"github.com/pthm-cable/threads/components"
)

func TestSelect(t *testing.T) {
	tests := []struct {
		name   string
		sample Sample
		want   components.Interaction
	}{
		{"nothing", Sample{Pointer: components.Vec2{X: 5, Y: 5}}, components.NoInteraction},
		{"pointer down", Sample{Pointer: components.Vec2{X: 5, Y: 6}, PointerDown: true}, components.PointerAt(5, 6)},
		{
			"first touch wins",
			Sample{
				Touches:     []components.Vec2{{X: 1, Y: 2}, {X: 3, Y: 4}},
				Pointer:     components.Vec2{X: 9, Y: 9},
				PointerDown: true,
			},
			components.TouchAt(1, 2),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Select(tt.sample); got != tt.want {
				t.Errorf("Select() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSmoother_SnapsThenConverges(t *testing.T) {
	s := NewSmoother(30, 18, 1.0)

	first := s.Smooth(components.PointerAt(100, 100))
	if first.Pos != (components.Vec2{X: 100, Y: 100}) {
		t.Fatalf("first press should snap, got %+v", first.Pos)
	}

	target := components.PointerAt(300, 200)
	moved := s.Smooth(target)
	if moved.Pos == target.Pos {
		t.Error("expected the second sample to lag behind the target")
	}
	if moved.Source != components.SourcePointer || !moved.Active {
		t.Errorf("smoothing must keep source and active flag, got %+v", moved)
	}

	var got components.Interaction
	for i := 0; i < 120; i++ {
		got = s.Smooth(target)
	}
	if components.Dist(got.Pos, target.Pos) > 0.01 {
		t.Errorf("did not converge: %+v", got.Pos)
	}
}

func TestSmoother_ReleaseResets(t *testing.T) {
	s := NewSmoother(30, 18, 1.0)
	s.Smooth(components.PointerAt(0, 0))
	s.Smooth(components.PointerAt(50, 50))

	if got := s.Smooth(components.NoInteraction); got.Active {
		t.Errorf("inactive input must pass through, got %+v", got)
	}

	again := s.Smooth(components.TouchAt(400, 10))
	if again.Pos != (components.Vec2{X: 400, Y: 10}) {
		t.Errorf("new press after release should snap, got %+v", again.Pos)
	}
}

func TestSweep(t *testing.T) {
	sw := NewSweep(800, 600)

	for f := int64(0); f < 2*sw.Period; f++ {
		in := sw.At(f)
		pressed := f%sw.Period < sw.Press
		if in.Active != pressed {
			t.Fatalf("frame %d active = %v, want %v", f, in.Active, pressed)
		}
		if !in.Active {
			continue
		}
		if in.Pos.X < 0 || in.Pos.X > 800 || in.Pos.Y < 0 || in.Pos.Y > 600 {
			t.Errorf("frame %d outside viewport: %+v", f, in.Pos)
		}
	}

	start := sw.At(0)
	if math.Abs(start.Pos.X-400) > 1e-9 || math.Abs(start.Pos.Y-360) > 1e-9 {
		t.Errorf("sweep start = %+v, want (400, 360)", start.Pos)
	}
	if sw.At(sw.Period) != start {
		t.Error("sweep must repeat every period")
	}
}
