package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/threads/config"
)

func TestParamVector_NormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Defaults()

	raw := pv.FromConfig(cfg)
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(raw[i]-back[i]) > 1e-12 {
			t.Errorf("%s: %g -> %g", pv.Specs[i].Name, raw[i], back[i])
		}
	}

	// Out-of-range inputs are clamped to the bounds
	clamped := pv.Denormalize([]float64{-1, 2})
	if clamped[0] != pv.Specs[0].Min || clamped[1] != pv.Specs[1].Max {
		t.Errorf("clamped = %v", clamped)
	}
}

func TestParamVector_ApplyToConfig(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Defaults()

	pv.ApplyToConfig(cfg, []float64{0.03, 0.25})

	if cfg.Physics.Stiffness != 0.03 || cfg.Physics.Damping != 0.25 {
		t.Errorf("physics = %+v", cfg.Physics)
	}
}

func TestFitnessEvaluator_PrefersDamping(t *testing.T) {
	base := config.Defaults()
	base.Threads.BaseCount = 8
	base.Threads.PointsPerThread = 12
	base.Screen.Width = 1280
	if err := base.Refresh(); err != nil {
		t.Fatal(err)
	}
	fe := NewFitnessEvaluator(NewParamVector(), base, 120)

	loose := fe.Evaluate([]float64{0.01, 0.05})
	damped := fe.Evaluate([]float64{0.01, 0.8})

	if math.IsNaN(loose) || math.IsNaN(damped) {
		t.Fatalf("fitness is NaN: %g %g", loose, damped)
	}
	if damped >= loose {
		t.Errorf("heavily damped field should settle faster: damped=%g loose=%g", damped, loose)
	}
}
