package main

import (
	"flag"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/threads/config"
	"github.com/pthm-cable/threads/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics, driven by a scripted pointer sweep")
	logStats := flag.Bool("log-stats", false, "Output frame and perf stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "Noise seed (0 = use config)")
	maxFrames := flag.Int("max-frames", 0, "Stop after N frames (0 = unlimited)")
	framesPerUpdate := flag.Int("frames-per-update", 1, "Simulation frames per update call")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	opts := game.Options{
		Seed:            *seed,
		OutputDir:       *outputDir,
		Headless:        *headless,
		LogStats:        *logStats,
		FramesPerUpdate: *framesPerUpdate,
	}

	if *headless {
		if *maxFrames <= 0 {
			slog.Error("headless runs need -max-frames")
			os.Exit(1)
		}
		g, err := game.NewGame(cfg, opts)
		if err != nil {
			slog.Error("failed to start", "error", err)
			os.Exit(1)
		}
		defer g.Unload()

		slog.Info("starting headless simulation",
			"max_frames", *maxFrames,
			"frames_per_update", *framesPerUpdate,
		)
		for int(g.Frame()) < *maxFrames {
			g.UpdateHeadless()
		}
		slog.Info("max frames reached", "frame", g.Frame())
		return
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Threads")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGame(cfg, opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		return
	}
	defer g.Unload()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if *maxFrames > 0 && int(g.Frame()) >= *maxFrames {
			break
		}
	}
}
