package systems

import "github.com/pthm-cable/threads/components"

// StickinessField pulls together points of different threads that come
// within Threshold of each other, making crossings cling without merging.
type StickinessField struct {
	Threshold float64
	Strength  float64

	scratch []GridEntry
}

// NewStickinessField creates a field with the given threshold and strength.
func NewStickinessField(threshold, strength float64) *StickinessField {
	return &StickinessField{
		Threshold: threshold,
		Strength:  strength,
		scratch:   make([]GridEntry, 0, 64),
	}
}

// Apply accumulates cohesive forces into Point.Force and returns the number
// of interacting pairs. The grid must have been rebuilt from threads.
//
// Each unordered pair is handled once, from the thread with the lower index,
// so both partners receive forces of magnitude Strength in opposite directions.
func (s *StickinessField) Apply(threads []components.Thread, grid *SpatialHashGrid) int {
	if s.Threshold <= 0 || s.Strength == 0 {
		return 0
	}
	thresholdSq := s.Threshold * s.Threshold
	pairs := 0

	for ti := range threads {
		pts := threads[ti].Points
		for pi := range pts {
			p := &pts[pi]
			if p.Anchored {
				continue
			}

			s.scratch = grid.QueryNeighbors(p.Pos, s.scratch[:0])
			for _, e := range s.scratch {
				if e.Thread <= ti {
					continue
				}
				other := &threads[e.Thread].Points[e.Index]
				if other.Anchored {
					continue
				}

				delta := other.Pos.Sub(p.Pos)
				dSq := delta.LenSq()
				if dSq >= thresholdSq || dSq == 0 {
					continue
				}
				dir, ok := delta.Normalize()
				if !ok {
					continue
				}

				f := dir.Scale(s.Strength)
				p.Force = p.Force.Add(f)
				other.Force = other.Force.Sub(f)
				pairs++
			}
		}
	}

	return pairs
}
