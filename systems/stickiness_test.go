package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/threads/components"
)

func TestStickiness_EqualAndOpposite(t *testing.T) {
	threads := []components.Thread{
		components.NewThread(0, 100, 3),
		components.NewThread(2.9, 100, 3),
	}
	grid := NewSpatialHashGrid(50)
	grid.Rebuild(threads)
	s := NewStickinessField(3, 0.02)

	pairs := s.Apply(threads, grid)

	if pairs != 1 {
		t.Fatalf("pairs = %d, want 1", pairs)
	}
	a := threads[0].Points[1].Force
	b := threads[1].Points[1].Force
	if math.Abs(a.X-0.02) > 1e-12 || a.Y != 0 {
		t.Errorf("force on left point = %v, want (0.02, 0)", a)
	}
	if sum := a.Add(b); sum.Len() > 1e-15 {
		t.Errorf("forces are not equal and opposite: %v %v", a, b)
	}
	for _, th := range threads {
		for _, i := range []int{0, 2} {
			if th.Points[i].Force != (components.Vec2{}) {
				t.Errorf("anchor %d received force %v", i, th.Points[i].Force)
			}
		}
	}
}

func TestStickiness_Threshold(t *testing.T) {
	tests := []struct {
		name string
		gap  float64
		want int
	}{
		{"inside", 2.9, 1},
		{"exactly at threshold", 3, 0},
		{"outside", 3.1, 0},
		{"coincident", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			threads := []components.Thread{
				components.NewThread(10, 100, 3),
				components.NewThread(10+tt.gap, 100, 3),
			}
			grid := NewSpatialHashGrid(50)
			grid.Rebuild(threads)

			if got := NewStickinessField(3, 0.02).Apply(threads, grid); got != tt.want {
				t.Errorf("pairs = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStickiness_IgnoresSameThread(t *testing.T) {
	// Free points one pixel apart on the same thread
	threads := []components.Thread{components.NewThread(0, 4, 5)}
	grid := NewSpatialHashGrid(50)
	grid.Rebuild(threads)

	if got := NewStickinessField(3, 0.02).Apply(threads, grid); got != 0 {
		t.Errorf("pairs = %d, want 0", got)
	}
}

func TestStickiness_Disabled(t *testing.T) {
	threads := []components.Thread{
		components.NewThread(0, 100, 3),
		components.NewThread(1, 100, 3),
	}
	grid := NewSpatialHashGrid(50)
	grid.Rebuild(threads)

	if got := NewStickinessField(3, 0).Apply(threads, grid); got != 0 {
		t.Errorf("zero strength produced %d pairs", got)
	}
	if got := NewStickinessField(0, 0.02).Apply(threads, grid); got != 0 {
		t.Errorf("zero threshold produced %d pairs", got)
	}
}
