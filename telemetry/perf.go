package telemetry

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase names for the thread system step.
const (
	PhaseConstraintsPre  = "constraints_pre"
	PhaseSpatialGrid     = "spatial_grid"
	PhaseStickiness      = "stickiness"
	PhaseRepulsion       = "repulsion"
	PhaseIntegration     = "integration"
	PhaseConstraintsPost = "constraints_post"
	PhaseRenderPaths     = "render_paths"
)

// Phases lists the step phases in pipeline order.
var Phases = []string{
	PhaseConstraintsPre,
	PhaseSpatialGrid,
	PhaseStickiness,
	PhaseRepulsion,
	PhaseIntegration,
	PhaseConstraintsPost,
	PhaseRenderPaths,
}

// PerfSample holds timing data for a single frame.
type PerfSample struct {
	FrameDuration time.Duration
	Phases        map[string]time.Duration
}

// PerfCollector tracks step timings over a rolling window of frames.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	frameStart    time.Time
	phaseStart    time.Time
	lastPhase     string

	// Wall-clock time between rendered frames (windowed mode)
	lastDrawTime time.Time
	drawInterval time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize frames.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartFrame begins timing a new step.
func (p *PerfCollector) StartFrame() {
	p.frameStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase ends the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndFrame finishes timing the current step and records the sample.
func (p *PerfCollector) EndFrame() {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
		p.lastPhase = ""
	}

	p.samples[p.writeIndex] = PerfSample{
		FrameDuration: now.Sub(p.frameStart),
		Phases:        p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// RecordDraw records the interval between drawn frames.
func (p *PerfCollector) RecordDraw() {
	now := time.Now()
	if !p.lastDrawTime.IsZero() {
		p.drawInterval = now.Sub(p.lastDrawTime)
	}
	p.lastDrawTime = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgStep time.Duration
	MinStep time.Duration
	MaxStep time.Duration
	P95Step time.Duration

	// Average duration and share of the step per phase
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	StepsPerSecond float64
	FPS            float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	var fps float64
	if p.drawInterval > 0 {
		fps = float64(time.Second) / float64(p.drawInterval)
	}
	out := PerfStats{
		PhaseAvg: make(map[string]time.Duration),
		PhasePct: make(map[string]float64),
		FPS:      fps,
	}
	if p.sampleCount == 0 {
		return out
	}

	durations := make([]float64, p.sampleCount)
	phaseSum := make(map[string]time.Duration)
	var total time.Duration
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.FrameDuration
		durations[i] = float64(s.FrameDuration)
		for phase, d := range s.Phases {
			phaseSum[phase] += d
		}
	}
	sort.Float64s(durations)

	out.AvgStep = total / time.Duration(p.sampleCount)
	out.MinStep = time.Duration(durations[0])
	out.MaxStep = time.Duration(durations[len(durations)-1])
	out.P95Step = time.Duration(stat.Quantile(0.95, stat.Empirical, durations, nil))

	for phase, sum := range phaseSum {
		avg := sum / time.Duration(p.sampleCount)
		out.PhaseAvg[phase] = avg
		if out.AvgStep > 0 {
			out.PhasePct[phase] = float64(avg) / float64(out.AvgStep) * 100
		}
	}
	if out.AvgStep > 0 {
		out.StepsPerSecond = float64(time.Second) / float64(out.AvgStep)
	}

	return out
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_step_us", s.AvgStep.Microseconds()),
		slog.Int64("p95_step_us", s.P95Step.Microseconds()),
		slog.Int64("max_step_us", s.MaxStep.Microseconds()),
		slog.Int("steps_per_sec", int(s.StepsPerSecond)),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Int("fps", int(s.FPS)))
	}
	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, slog.Float64(phase+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	Frame              int64   `csv:"frame"`
	AvgStepUS          int64   `csv:"avg_step_us"`
	MinStepUS          int64   `csv:"min_step_us"`
	MaxStepUS          int64   `csv:"max_step_us"`
	P95StepUS          int64   `csv:"p95_step_us"`
	StepsPerSec        float64 `csv:"steps_per_sec"`
	FPS                float64 `csv:"fps"`
	ConstraintsPrePct  float64 `csv:"constraints_pre_pct"`
	SpatialGridPct     float64 `csv:"spatial_grid_pct"`
	StickinessPct      float64 `csv:"stickiness_pct"`
	RepulsionPct       float64 `csv:"repulsion_pct"`
	IntegrationPct     float64 `csv:"integration_pct"`
	ConstraintsPostPct float64 `csv:"constraints_post_pct"`
	RenderPathsPct     float64 `csv:"render_paths_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(frame int64) PerfStatsCSV {
	return PerfStatsCSV{
		Frame:              frame,
		AvgStepUS:          s.AvgStep.Microseconds(),
		MinStepUS:          s.MinStep.Microseconds(),
		MaxStepUS:          s.MaxStep.Microseconds(),
		P95StepUS:          s.P95Step.Microseconds(),
		StepsPerSec:        s.StepsPerSecond,
		FPS:                s.FPS,
		ConstraintsPrePct:  s.PhasePct[PhaseConstraintsPre],
		SpatialGridPct:     s.PhasePct[PhaseSpatialGrid],
		StickinessPct:      s.PhasePct[PhaseStickiness],
		RepulsionPct:       s.PhasePct[PhaseRepulsion],
		IntegrationPct:     s.PhasePct[PhaseIntegration],
		ConstraintsPostPct: s.PhasePct[PhaseConstraintsPost],
		RenderPathsPct:     s.PhasePct[PhaseRenderPaths],
	}
}
