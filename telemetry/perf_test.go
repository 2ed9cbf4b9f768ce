package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	// Simulate a few steps
	for i := 0; i < 5; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseSpatialGrid)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseIntegration)
		time.Sleep(200 * time.Microsecond)
		pc.EndFrame()
	}

	stats := pc.Stats()

	if stats.AvgStep <= 0 {
		t.Error("expected positive average step duration")
	}
	if stats.MinStep > stats.P95Step || stats.P95Step > stats.MaxStep {
		t.Errorf("expected min <= p95 <= max, got %v %v %v", stats.MinStep, stats.P95Step, stats.MaxStep)
	}

	if _, ok := stats.PhaseAvg[PhaseSpatialGrid]; !ok {
		t.Error("expected spatial_grid phase to be tracked")
	}
	if _, ok := stats.PhaseAvg[PhaseIntegration]; !ok {
		t.Error("expected integration phase to be tracked")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5) // Small window

	for i := 0; i < 10; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseSpatialGrid)
		pc.EndFrame()
	}

	stats := pc.Stats()

	if stats.AvgStep <= 0 {
		t.Error("expected positive average step duration after window filled")
	}
	if stats.StepsPerSecond <= 0 {
		t.Error("expected positive steps per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	// Simulate with uneven phase durations
	for i := 0; i < 5; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseStickiness)
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase(PhaseConstraintsPost)
		time.Sleep(500 * time.Microsecond)
		pc.EndFrame()
	}

	stats := pc.Stats()

	fastPct := stats.PhasePct[PhaseStickiness]
	slowPct := stats.PhasePct[PhaseConstraintsPost]
	if slowPct <= fastPct {
		t.Errorf("expected slow phase (%v%%) > fast phase (%v%%)", slowPct, fastPct)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()

	// Empty collector should return zero values without panicking
	if stats.AvgStep != 0 {
		t.Error("expected zero avg step duration for empty collector")
	}
	if stats.PhaseAvg == nil {
		t.Error("expected non-nil PhaseAvg map")
	}
	if stats.PhasePct == nil {
		t.Error("expected non-nil PhasePct map")
	}
}

func TestPerfCollector_DrawTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	// First call establishes baseline
	pc.RecordDraw()
	time.Sleep(16 * time.Millisecond)
	pc.RecordDraw()

	stats := pc.Stats()

	if stats.FPS <= 0 {
		t.Error("expected positive FPS")
	}
	// Sleep only guarantees a lower bound on the interval
	if stats.FPS > 70 {
		t.Errorf("expected FPS <= 70 with 16ms frame time, got %v", stats.FPS)
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	stats := PerfStats{
		AvgStep:  1500 * time.Microsecond,
		MaxStep:  3 * time.Millisecond,
		PhasePct: map[string]float64{PhaseIntegration: 40, PhaseRenderPaths: 5},
	}

	row := stats.ToCSV(90)

	if row.Frame != 90 {
		t.Errorf("frame = %d, want 90", row.Frame)
	}
	if row.AvgStepUS != 1500 || row.MaxStepUS != 3000 {
		t.Errorf("got avg=%d max=%d, want 1500 3000", row.AvgStepUS, row.MaxStepUS)
	}
	if row.IntegrationPct != 40 || row.RenderPathsPct != 5 || row.StickinessPct != 0 {
		t.Errorf("unexpected phase columns: %+v", row)
	}
}
