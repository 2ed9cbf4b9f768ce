// Package config provides configuration loading and access for the thread field.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Repulsion modes.
const (
	RepulsionWholeThread = "whole_thread"
	RepulsionPerPoint    = "per_point"
)

// Damping modes for the Verlet step.
const (
	DampingVelocity = "velocity" // damp the displacement before adding it
	DampingStormer  = "stormer"  // 2x - x' step, then re-derive a damped previous position
)

// Noise kinds.
const (
	NoisePerlin  = "perlin"
	NoiseSimplex = "simplex"
	NoiseNone    = "none"
)

// Config holds all thread field configuration parameters.
type Config struct {
	Screen      ScreenConfig      `yaml:"screen"`
	Threads     ThreadsConfig     `yaml:"threads"`
	Physics     PhysicsConfig     `yaml:"physics"`
	Noise       NoiseConfig       `yaml:"noise"`
	Stickiness  StickinessConfig  `yaml:"stickiness"`
	Grid        GridConfig        `yaml:"grid"`
	Repulsion   RepulsionConfig   `yaml:"repulsion"`
	Interaction InteractionConfig `yaml:"interaction"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// ThreadsConfig holds thread layout and the responsive count rule.
type ThreadsConfig struct {
	BaseCount        int     `yaml:"base_count"`
	PointsPerThread  int     `yaml:"points_per_thread"`
	SmallFactor      float64 `yaml:"small_factor"`      // Applied to base_count below small_breakpoint
	MediumFactor     float64 `yaml:"medium_factor"`     // Relative to the small tier, below medium_breakpoint
	SmallBreakpoint  int     `yaml:"small_breakpoint"`  // Viewport width in pixels
	MediumBreakpoint int     `yaml:"medium_breakpoint"` // 0 disables the medium tier
}

// PhysicsConfig holds integration and constraint parameters.
type PhysicsConfig struct {
	Stiffness        float64 `yaml:"stiffness"`
	Gravity          float64 `yaml:"gravity"`
	Damping          float64 `yaml:"damping"` // Fraction of stored velocity removed per frame
	TimeStep         float64 `yaml:"time_step"`
	MaxStretchFactor float64 `yaml:"max_stretch_factor"` // Max segment length as a multiple of rest length
	ConstraintPasses int     `yaml:"constraint_passes"`
	DampingMode      string  `yaml:"damping_mode"`
}

// NoiseConfig holds the wander force parameters.
type NoiseConfig struct {
	Kind      string  `yaml:"kind"`
	Seed      int64   `yaml:"seed"`
	Scale     float64 `yaml:"scale"`     // Spatial frequency
	Speed     float64 `yaml:"speed"`     // Time advance per frame
	Amplitude float64 `yaml:"amplitude"` // Peak wander acceleration per axis
}

// StickinessConfig holds cross-thread cohesion parameters.
type StickinessConfig struct {
	Threshold float64 `yaml:"threshold"`
	Strength  float64 `yaml:"strength"`
}

// GridConfig holds spatial hash parameters.
type GridConfig struct {
	CellSize float64 `yaml:"cell_size"`
}

// RepulsionConfig holds pointer/touch repulsion parameters.
type RepulsionConfig struct {
	Mode     string  `yaml:"mode"`
	Radius   float64 `yaml:"radius"`
	Strength float64 `yaml:"strength"`
	Response float64 `yaml:"response"`
	Falloff  float64 `yaml:"falloff"`   // Exponent on (1 - d/radius)
	MaxAccel float64 `yaml:"max_accel"` // Per-point mode acceleration cap
}

// InteractionConfig holds host-side pointer smoothing.
type InteractionConfig struct {
	Smoothing bool    `yaml:"smoothing"`
	Frequency float64 `yaml:"frequency"` // Spring angular frequency
	Damping   float64 `yaml:"damping"`   // Spring damping ratio
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsEvery          int `yaml:"stats_every"` // Frames between frame stat records
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW float64 // Screen.Width as float64
	ScreenH float64 // Screen.Height as float64
	DT2     float64 // Physics.TimeStep squared
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Defaults returns the embedded default configuration.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used. The result is validated.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.computeDerived()

	return cfg, nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// ResetToDefaults returns the embedded defaults carrying over the session
// settings of c that are not tunables: the screen and the noise seed.
func (c *Config) ResetToDefaults() *Config {
	d := Defaults()
	d.Screen = c.Screen
	d.Noise.Seed = c.Noise.Seed
	d.computeDerived()
	return d
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW = float64(c.Screen.Width)
	c.Derived.ScreenH = float64(c.Screen.Height)
	c.Derived.DT2 = c.Physics.TimeStep * c.Physics.TimeStep
}

// Refresh re-validates the configuration and recomputes derived values.
// Call it after editing fields in place.
func (c *Config) Refresh() error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
