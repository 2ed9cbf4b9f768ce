package main

import (
	"github.com/pthm-cable/threads/components"
	"github.com/pthm-cable/threads/config"
	"github.com/pthm-cable/threads/interaction"
	"github.com/pthm-cable/threads/systems"
	"github.com/pthm-cable/threads/telemetry"
)

// outOfBandPenalty weighs one out-of-band segment against kinetic energy.
const outOfBandPenalty = 0.05

// FitnessEvaluator scores a parameter set by how quickly the field settles
// after a scripted pointer sweep. Lower is better.
type FitnessEvaluator struct {
	params *ParamVector
	base   *config.Config
	frames int
	tail   int
}

// NewFitnessEvaluator creates an evaluator running frames steps per score and
// measuring over the final tail frames.
func NewFitnessEvaluator(params *ParamVector, base *config.Config, frames int) *FitnessEvaluator {
	return &FitnessEvaluator{
		params: params,
		base:   base,
		frames: frames,
		tail:   max(frames/10, 1),
	}
}

// Evaluate runs one headless simulation with raw parameter values.
// Invalid parameter sets score +Inf-like so the optimizer moves away.
func (fe *FitnessEvaluator) Evaluate(raw []float64) float64 {
	cfg := fe.base.Clone()
	fe.params.ApplyToConfig(cfg, raw)
	if err := cfg.Refresh(); err != nil {
		return 1e12
	}

	sys, err := systems.NewThreadSystem(cfg, nil)
	if err != nil {
		return 1e12
	}
	w, h := cfg.Derived.ScreenW, cfg.Derived.ScreenH
	if err := sys.Initialize(w, h, cfg.ThreadCountFor(w)); err != nil {
		return 1e12
	}

	sweep := interaction.NewSweep(w, h)
	var energy float64
	var outOfBand int
	for f := 0; f < fe.frames; f++ {
		in := components.NoInteraction
		if int64(f) < sweep.Press {
			in = sweep.At(int64(f))
		}
		if _, err := sys.Step(in); err != nil {
			return 1e12
		}

		if f >= fe.frames-fe.tail {
			st := telemetry.ComputeFrameStats(sys.Threads(), sys.RestLength(), cfg.Physics.MaxStretchFactor, sys.LastFrame())
			energy += st.KineticEnergy
			outOfBand += st.OutOfBand
		}
	}

	n := float64(fe.tail)
	return energy/n + outOfBandPenalty*float64(outOfBand)/n
}
