package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/threads/components"
	"github.com/pthm-cable/threads/config"
	"github.com/pthm-cable/threads/interaction"
)

// handleInput processes keyboard input.
func (g *Game) handleInput() {
	// Window resize propagation
	g.handleResize()

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}
	if rl.IsKeyPressed(rl.KeyD) {
		g.debugMode = !g.debugMode
	}
	if rl.IsKeyPressed(rl.KeyT) {
		g.showPanel = !g.showPanel
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.opts.FramesPerUpdate > 1 {
		g.opts.FramesPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.opts.FramesPerUpdate < 10 {
		g.opts.FramesPerUpdate++
	}

	if rl.IsKeyPressed(rl.KeyR) {
		if err := g.resize(g.width, g.height); err != nil {
			slog.Error("reinitialize failed", "error", err)
		}
	}

	if rl.IsKeyPressed(rl.KeyM) {
		next := g.cfg.Clone()
		if next.Repulsion.Mode == config.RepulsionWholeThread {
			next.Repulsion.Mode = config.RepulsionPerPoint
		} else {
			next.Repulsion.Mode = config.RepulsionWholeThread
		}
		g.applyConfig(next)
		slog.Info("repulsion mode", "mode", g.cfg.Repulsion.Mode)
	}
}

// handleResize checks for window resize and rebuilds the field.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float64(rl.GetScreenWidth())
	h := float64(rl.GetScreenHeight())
	if w == g.width && h == g.height {
		return
	}
	if err := g.resize(w, h); err != nil {
		slog.Error("resize failed", "error", err)
	}
}

// pollSample reads pointer and touch state for this frame. Clicks on the
// tuning panel do not count as interaction.
func (g *Game) pollSample() interaction.Sample {
	var s interaction.Sample

	n := rl.GetTouchPointCount()
	for i := int32(0); i < n; i++ {
		p := rl.GetTouchPosition(i)
		s.Touches = append(s.Touches, components.Vec2{X: float64(p.X), Y: float64(p.Y)})
	}

	mouse := rl.GetMousePosition()
	s.Pointer = components.Vec2{X: float64(mouse.X), Y: float64(mouse.Y)}
	s.PointerDown = rl.IsMouseButtonDown(rl.MouseButtonLeft)

	if g.showPanel && rl.CheckCollisionPointRec(mouse, panelBounds()) {
		s.PointerDown = false
		s.Touches = nil
	}
	return s
}
