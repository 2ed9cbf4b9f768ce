package game

import (
	"log/slog"

	"github.com/pthm-cable/threads/telemetry"
)

// recordTelemetry samples frame and perf stats every StatsEvery frames and
// hands them to the CSV output and, if enabled, the log.
func (g *Game) recordTelemetry() {
	every := int64(g.cfg.Telemetry.StatsEvery)
	frame := g.sys.Frame()
	if every <= 0 || frame%every != 0 {
		return
	}
	if g.output == nil && !g.opts.LogStats {
		return
	}

	stats := telemetry.ComputeFrameStats(
		g.sys.Threads(),
		g.sys.RestLength(),
		g.cfg.Physics.MaxStretchFactor,
		g.sys.LastFrame(),
	)
	perf := g.perf.Stats()

	if err := g.output.WriteFrame(stats); err != nil {
		slog.Error("failed to write frame stats", "error", err)
	}
	if err := g.output.WritePerf(perf, frame); err != nil {
		slog.Error("failed to write perf stats", "error", err)
	}

	if g.opts.LogStats {
		slog.Info("frame", "stats", stats)
		perf.LogStats()
	}
}
