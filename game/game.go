// Package game hosts the thread field: it feeds pointer and touch input to
// the thread system, draws the render paths with raylib and records telemetry.
package game

import (
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/threads/components"
	"github.com/pthm-cable/threads/config"
	"github.com/pthm-cable/threads/interaction"
	"github.com/pthm-cable/threads/systems"
	"github.com/pthm-cable/threads/telemetry"
)

// Options configures a Game.
type Options struct {
	Seed            int64  // Noise seed override (0 = use config)
	OutputDir       string // CSV and config snapshot directory ("" = disabled)
	Headless        bool   // No window; input comes from a scripted sweep
	LogStats        bool   // Log frame and perf stats via slog
	FramesPerUpdate int    // Simulation steps per Update call
}

// Game holds the complete host state.
type Game struct {
	cfg  *config.Config
	opts Options

	sys      *systems.ThreadSystem
	smoother *interaction.Smoother
	sweep    interaction.Sweep

	perf   *telemetry.PerfCollector
	output *telemetry.OutputManager

	paths []components.RenderPath
	input components.Interaction

	// State
	paused    bool
	debugMode bool
	showPanel bool
	panel     panelState

	width, height float64
}

// NewGame creates a game. In windowed mode the raylib window must already
// be open so the viewport size can be read from it.
func NewGame(cfg *config.Config, opts Options) (*Game, error) {
	if opts.Seed != 0 {
		cfg = cfg.Clone()
		cfg.Noise.Seed = opts.Seed
	}
	if opts.FramesPerUpdate < 1 {
		opts.FramesPerUpdate = 1
	}

	sys, err := systems.NewThreadSystem(cfg, nil)
	if err != nil {
		return nil, fmt.Errorf("creating thread system: %w", err)
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	g := &Game{
		cfg:    cfg,
		opts:   opts,
		sys:    sys,
		perf:   telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		output: output,
		width:  cfg.Derived.ScreenW,
		height: cfg.Derived.ScreenH,
	}
	sys.SetPhaseTimer(g.perf)

	if cfg.Interaction.Smoothing {
		g.smoother = interaction.NewSmoother(cfg.Screen.TargetFPS, cfg.Interaction.Frequency, cfg.Interaction.Damping)
	}

	if !opts.Headless {
		g.width = float64(rl.GetScreenWidth())
		g.height = float64(rl.GetScreenHeight())
		g.panel = newPanelState(cfg)
	}
	if err := g.resize(g.width, g.height); err != nil {
		output.Close()
		return nil, err
	}

	slog.Info("thread field ready",
		"threads", len(sys.Threads()),
		"points_per_thread", cfg.Threads.PointsPerThread,
		"width", g.width,
		"height", g.height,
		"repulsion_mode", cfg.Repulsion.Mode,
		"noise", cfg.Noise.Kind,
		"seed", cfg.Noise.Seed,
	)

	return g, nil
}

// resize rebuilds the field for a new viewport.
func (g *Game) resize(w, h float64) error {
	if err := g.sys.Resize(w, h); err != nil {
		return fmt.Errorf("resizing to %gx%g: %w", w, h, err)
	}
	g.width, g.height = w, h
	g.sweep = interaction.NewSweep(w, h)
	g.paths = nil
	if g.smoother != nil {
		g.smoother.Reset()
	}
	return nil
}

// Update polls input and advances the simulation (windowed mode).
func (g *Game) Update() {
	g.handleInput()
	if g.paused {
		return
	}

	in := interaction.Select(g.pollSample())
	for i := 0; i < g.opts.FramesPerUpdate; i++ {
		g.step(in)
	}
}

// UpdateHeadless advances the simulation with scripted input.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.opts.FramesPerUpdate; i++ {
		g.step(g.sweep.At(g.sys.Frame()))
	}
}

// step runs one simulation frame. A failed frame is logged and skipped.
func (g *Game) step(in components.Interaction) {
	if g.smoother != nil {
		in = g.smoother.Smooth(in)
	}

	g.perf.StartFrame()
	paths, err := g.sys.Step(in)
	g.perf.EndFrame()
	if err != nil {
		slog.Error("step failed", "frame", g.sys.Frame(), "error", err)
		return
	}

	g.paths = paths
	g.input = in
	g.recordTelemetry()
}

// applyConfig swaps in an edited configuration, keeping the old one if the
// thread system rejects it.
func (g *Game) applyConfig(next *config.Config) {
	if err := next.Refresh(); err != nil {
		slog.Warn("config rejected", "error", err)
		return
	}
	if err := g.sys.Reconfigure(next); err != nil {
		slog.Warn("config rejected", "error", err)
		return
	}
	g.cfg = next
}

// Frame returns the number of simulated frames since the last resize.
func (g *Game) Frame() int64 {
	return g.sys.Frame()
}

// Unload releases resources.
func (g *Game) Unload() {
	if err := g.output.Close(); err != nil {
		slog.Warn("closing output", "error", err)
	}
}
