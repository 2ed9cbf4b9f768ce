// Package telemetry collects per-frame statistics and step timings for the
// thread field and writes them out as CSV.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/threads/components"
)

// bandTolerance absorbs rounding when testing a segment against the length band.
const bandTolerance = 1e-9

// FrameReport holds the counters a single step produces.
type FrameReport struct {
	Frame           int64
	StickyPairs     int
	RepulsedPoints  int
	AffectedThreads int
	Suppressed      int
	Interacting     bool
}

// FrameStats describes the physical state of the field after a step.
// Segment ratios are segment length divided by rest length.
type FrameStats struct {
	Frame           int64   `csv:"frame"`
	Threads         int     `csv:"threads"`
	Points          int     `csv:"points"`
	KineticEnergy   float64 `csv:"kinetic_energy"`
	MaxSpeed        float64 `csv:"max_speed"`
	RatioMean       float64 `csv:"ratio_mean"`
	RatioStd        float64 `csv:"ratio_std"`
	RatioMin        float64 `csv:"ratio_min"`
	RatioMax        float64 `csv:"ratio_max"`
	RatioP90        float64 `csv:"ratio_p90"`
	OutOfBand       int     `csv:"out_of_band"`
	StickyPairs     int     `csv:"sticky_pairs"`
	RepulsedPoints  int     `csv:"repulsed_points"`
	AffectedThreads int     `csv:"affected_threads"`
	Suppressed      int     `csv:"suppressed"`
	Interacting     bool    `csv:"interacting"`
}

// ComputeFrameStats measures threads after a step. Kinetic energy is the sum
// of squared stored displacements (unit mass per point). A segment is out of
// band when its ratio falls outside [0.5, maxStretch].
func ComputeFrameStats(threads []components.Thread, restLength, maxStretch float64, rep FrameReport) FrameStats {
	fs := FrameStats{
		Frame:           rep.Frame,
		Threads:         len(threads),
		StickyPairs:     rep.StickyPairs,
		RepulsedPoints:  rep.RepulsedPoints,
		AffectedThreads: rep.AffectedThreads,
		Suppressed:      rep.Suppressed,
		Interacting:     rep.Interacting,
	}

	var speeds, ratios []float64
	for ti := range threads {
		pts := threads[ti].Points
		fs.Points += len(pts)
		for i := range pts {
			v := pts[i].Velocity()
			fs.KineticEnergy += v.LenSq()
			speeds = append(speeds, v.Len())

			if i == 0 || restLength <= 0 {
				continue
			}
			r := components.Dist(pts[i-1].Pos, pts[i].Pos) / restLength
			ratios = append(ratios, r)
			if r < 0.5-bandTolerance || r > maxStretch+bandTolerance {
				fs.OutOfBand++
			}
		}
	}

	if len(speeds) > 0 {
		fs.MaxSpeed = floats.Max(speeds)
	}
	if len(ratios) > 0 {
		sort.Float64s(ratios)
		fs.RatioMean = stat.Mean(ratios, nil)
		if len(ratios) > 1 {
			fs.RatioStd = stat.StdDev(ratios, nil)
		}
		fs.RatioMin = ratios[0]
		fs.RatioMax = ratios[len(ratios)-1]
		fs.RatioP90 = stat.Quantile(0.9, stat.Empirical, ratios, nil)
	}

	return fs
}

// LogValue implements slog.LogValuer for structured logging.
func (s FrameStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("frame", s.Frame),
		slog.Int("threads", s.Threads),
		slog.Float64("kinetic_energy", s.KineticEnergy),
		slog.Float64("max_speed", s.MaxSpeed),
		slog.Float64("ratio_mean", s.RatioMean),
		slog.Float64("ratio_max", s.RatioMax),
		slog.Int("out_of_band", s.OutOfBand),
		slog.Int("sticky_pairs", s.StickyPairs),
		slog.Int("repulsed_points", s.RepulsedPoints),
		slog.Bool("interacting", s.Interacting),
	)
}
