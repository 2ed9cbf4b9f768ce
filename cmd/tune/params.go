package main

import (
	"github.com/pthm-cable/threads/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name string  // Config path for logging
	Min  float64 // Lower bound
	Max  float64 // Upper bound

	get func(c *config.Config) float64
	set func(c *config.Config, v float64)
}

// ParamVector holds the set of tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "physics.stiffness", Min: 0.001, Max: 0.1,
				get: func(c *config.Config) float64 { return c.Physics.Stiffness },
				set: func(c *config.Config, v float64) { c.Physics.Stiffness = v }},
			{Name: "physics.damping", Min: 0.05, Max: 0.9,
				get: func(c *config.Config) float64 { return c.Physics.Damping },
				set: func(c *config.Config, v float64) { c.Physics.Damping = v }},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// FromConfig reads the current parameter values from cfg.
func (pv *ParamVector) FromConfig(cfg *config.Config) []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.get(cfg)
	}
	return v
}

// Normalize converts raw parameter values to the [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		out[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return out
}

// Denormalize converts [0,1] values back to clamped raw parameter values.
func (pv *ParamVector) Denormalize(x []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v := spec.Min + x[i]*(spec.Max-spec.Min)
		out[i] = min(max(v, spec.Min), spec.Max)
	}
	return out
}

// ApplyToConfig writes raw parameter values into cfg.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, raw []float64) {
	for i, spec := range pv.Specs {
		spec.set(cfg, raw[i])
	}
}
