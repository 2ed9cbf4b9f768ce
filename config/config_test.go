package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Threads.BaseCount != 60 || cfg.Threads.PointsPerThread != 30 {
		t.Errorf("threads = %+v", cfg.Threads)
	}
	if cfg.Physics.Damping != 0.4 || cfg.Physics.ConstraintPasses != 5 {
		t.Errorf("physics = %+v", cfg.Physics)
	}
	if cfg.Physics.MaxStretchFactor < minStretchFactor {
		t.Errorf("default max_stretch_factor %g leaves no room between anchors", cfg.Physics.MaxStretchFactor)
	}
	if cfg.Repulsion.Mode != RepulsionWholeThread {
		t.Errorf("repulsion mode = %q", cfg.Repulsion.Mode)
	}
	if cfg.Derived.DT2 != 0.75*0.75 {
		t.Errorf("derived dt2 = %g", cfg.Derived.DT2)
	}
	if cfg.Derived.ScreenW != 1280 || cfg.Derived.ScreenH != 720 {
		t.Errorf("derived screen = %gx%g", cfg.Derived.ScreenW, cfg.Derived.ScreenH)
	}
}

func TestLoad_OverlayFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	data := "physics:\n  damping: 0.2\n  time_step: 0.5\nrepulsion:\n  mode: per_point\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Physics.Damping != 0.2 {
		t.Errorf("damping = %g, want 0.2", cfg.Physics.Damping)
	}
	if cfg.Repulsion.Mode != RepulsionPerPoint {
		t.Errorf("mode = %q, want per_point", cfg.Repulsion.Mode)
	}
	// Fields absent from the file keep their defaults
	if cfg.Physics.Stiffness != 0.01 || cfg.Threads.BaseCount != 60 {
		t.Errorf("defaults not kept: stiffness=%g base=%d", cfg.Physics.Stiffness, cfg.Threads.BaseCount)
	}
	if cfg.Derived.DT2 != 0.25 {
		t.Errorf("derived dt2 = %g, want 0.25", cfg.Derived.DT2)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("physics: [not, a, map]"), 0644)
	if _, err := Load(bad); err == nil {
		t.Error("expected parse error")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	os.WriteFile(invalid, []byte("physics:\n  damping: 1.5\n"), 0644)
	_, err := Load(invalid)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}

	nan := filepath.Join(dir, "nan.yaml")
	os.WriteFile(nan, []byte("repulsion:\n  radius: .nan\nphysics:\n  gravity: .inf\n"), 0644)
	_, err = Load(nan)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for non-finite values, got %v", err)
	}
	for _, want := range []string{"repulsion.radius", "physics.gravity"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"one point", func(c *Config) { c.Threads.PointsPerThread = 1 }, "points_per_thread"},
		{"damping one", func(c *Config) { c.Physics.Damping = 1 }, "physics.damping"},
		{"zero time step", func(c *Config) { c.Physics.TimeStep = 0 }, "time_step"},
		{"zero passes", func(c *Config) { c.Physics.ConstraintPasses = 0 }, "constraint_passes"},
		{"unknown damping mode", func(c *Config) { c.Physics.DampingMode = "euler" }, "damping_mode"},
		{"unknown noise", func(c *Config) { c.Noise.Kind = "worley" }, "noise.kind"},
		{"threshold above cell", func(c *Config) { c.Stickiness.Threshold = 60 }, "exceeds grid.cell_size"},
		{"zero cell", func(c *Config) { c.Grid.CellSize = 0 }, "cell_size"},
		{"unknown repulsion", func(c *Config) { c.Repulsion.Mode = "radial" }, "repulsion.mode"},
		{"zero radius", func(c *Config) { c.Repulsion.Radius = 0 }, "radius"},
		{"medium below small", func(c *Config) { c.Threads.MediumBreakpoint = 500 }, "medium_breakpoint"},
		{"medium disabled", func(c *Config) { c.Threads.MediumBreakpoint = 0 }, ""},
		{"smoothing without frequency", func(c *Config) { c.Interaction.Frequency = 0 }, "frequency"},
		{"stretch below rest", func(c *Config) { c.Physics.MaxStretchFactor = 0.9 }, "max_stretch_factor"},
		{"stretch below min band", func(c *Config) { c.Physics.MaxStretchFactor = 0.4 }, "max_stretch_factor"},
		{"stretch at rest", func(c *Config) { c.Physics.MaxStretchFactor = 1 }, ""},
		{"nan radius", func(c *Config) { c.Repulsion.Radius = math.NaN() }, "repulsion.radius must be finite"},
		{"nan damping", func(c *Config) { c.Physics.Damping = math.NaN() }, "physics.damping must be finite"},
		{"inf stiffness", func(c *Config) { c.Physics.Stiffness = math.Inf(1) }, "physics.stiffness must be finite"},
		{"negative inf gravity", func(c *Config) { c.Physics.Gravity = math.Inf(-1) }, "physics.gravity must be finite"},
		{"nan stretch", func(c *Config) { c.Physics.MaxStretchFactor = math.NaN() }, "max_stretch_factor must be finite"},
		{"nan spring damping", func(c *Config) { c.Interaction.Damping = math.NaN() }, "interaction.damping"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.want == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestValidate_ReportsAllFailures(t *testing.T) {
	cfg := Defaults()
	cfg.Physics.Damping = -1
	cfg.Grid.CellSize = -5
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"physics.damping", "grid.cell_size"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestRefreshAndClone(t *testing.T) {
	cfg := Defaults()
	cp := cfg.Clone()
	cp.Physics.TimeStep = 1
	if err := cp.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if cp.Derived.DT2 != 1 {
		t.Errorf("clone dt2 = %g, want 1", cp.Derived.DT2)
	}
	if cfg.Physics.TimeStep != 0.75 {
		t.Error("clone shares state with original")
	}

	cp.Physics.Damping = 2
	if err := cp.Refresh(); err == nil {
		t.Error("expected Refresh to reject invalid damping")
	}
}

func TestResetToDefaults(t *testing.T) {
	cfg := Defaults()
	cfg.Screen.Width, cfg.Screen.Height = 800, 600
	cfg.Noise.Seed = 7
	cfg.Physics.Damping = 0.1
	cfg.Repulsion.Mode = RepulsionPerPoint
	if err := cfg.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	got := cfg.ResetToDefaults()
	if got.Noise.Seed != 7 {
		t.Errorf("seed = %d, want 7", got.Noise.Seed)
	}
	if got.Screen.Width != 800 || got.Screen.Height != 600 {
		t.Errorf("screen = %dx%d, want 800x600", got.Screen.Width, got.Screen.Height)
	}
	if got.Derived.ScreenW != 800 || got.Derived.ScreenH != 600 {
		t.Errorf("derived screen = %gx%g, want 800x600", got.Derived.ScreenW, got.Derived.ScreenH)
	}
	if got.Physics.Damping != 0.4 || got.Repulsion.Mode != RepulsionWholeThread {
		t.Errorf("tunables not reset: damping=%g mode=%q", got.Physics.Damping, got.Repulsion.Mode)
	}
	if cfg.Physics.Damping != 0.1 {
		t.Error("ResetToDefaults modified the receiver")
	}
}

func TestWriteYAML_RoundTrip(t *testing.T) {
	cfg := Defaults()
	cfg.Noise.Kind = NoiseSimplex
	cfg.Stickiness.Strength = 0.05

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Noise.Kind != NoiseSimplex || got.Stickiness.Strength != 0.05 {
		t.Errorf("round trip lost values: noise=%q strength=%g", got.Noise.Kind, got.Stickiness.Strength)
	}
}

func TestThreadCountFor(t *testing.T) {
	cfg := Defaults() // base 60, small 0.5 below 768, medium 1.5 below 1024

	tests := []struct {
		width float64
		want  int
	}{
		{320, 30},
		{767, 30},
		{768, 45},
		{1023, 45},
		{1024, 60},
		{2560, 60},
	}
	for _, tt := range tests {
		if got := cfg.ThreadCountFor(tt.width); got != tt.want {
			t.Errorf("ThreadCountFor(%g) = %d, want %d", tt.width, got, tt.want)
		}
	}
}

func TestThreadCountFor_Limits(t *testing.T) {
	cfg := Defaults()
	cfg.Threads.BaseCount = 1
	if got := cfg.ThreadCountFor(100); got != 1 {
		t.Errorf("small viewport with base 1 = %d, want 1", got)
	}

	cfg = Defaults()
	cfg.Threads.MediumFactor = 3 // 60*0.5*3 = 90, capped
	if got := cfg.ThreadCountFor(900); got != 60 {
		t.Errorf("medium tier cap = %d, want 60", got)
	}
}
