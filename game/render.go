package game

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var (
	threadColor   = rl.NewColor(255, 255, 255, 100)
	radiusColor   = rl.NewColor(255, 0, 0, 50)
	repulsedColor = rl.NewColor(255, 120, 80, 160)
)

const threadThickness = 1.0

// Draw renders the current frame.
func (g *Game) Draw() {
	g.perf.RecordDraw()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	g.drawThreads()
	if g.debugMode {
		g.drawDebug()
	}
	if g.showPanel {
		g.drawPanel()
	}

	rl.EndDrawing()
}

// drawThreads strokes each render path as a Catmull-Rom spline. Paths
// already repeat their end points, which the spline needs to reach the anchors.
func (g *Game) drawThreads() {
	var pts []rl.Vector2
	for _, path := range g.paths {
		pts = pts[:0]
		for _, p := range path {
			pts = append(pts, rl.Vector2{X: float32(p.X), Y: float32(p.Y)})
		}
		if len(pts) >= 4 {
			rl.DrawSplineCatmullRom(pts, threadThickness, threadColor)
		}
	}
}

// drawDebug shows the repulsion radius, repulsed points and frame counters.
func (g *Game) drawDebug() {
	if g.input.Active {
		rl.DrawCircleLines(int32(g.input.Pos.X), int32(g.input.Pos.Y), float32(g.cfg.Repulsion.Radius), radiusColor)
	}

	for _, t := range g.sys.Threads() {
		for i := range t.Points {
			p := &t.Points[i]
			if p.Repulsed {
				rl.DrawCircle(int32(p.Pos.X), int32(p.Pos.Y), 2, repulsedColor)
			}
		}
	}

	rep := g.sys.LastFrame()
	lines := []string{
		fmt.Sprintf("FPS: %d  frame: %d  x%d", rl.GetFPS(), g.sys.Frame(), g.opts.FramesPerUpdate),
		fmt.Sprintf("threads: %d  mode: %s", len(g.sys.Threads()), g.cfg.Repulsion.Mode),
		fmt.Sprintf("sticky pairs: %d  repulsed: %d  suppressed: %d", rep.StickyPairs, rep.RepulsedPoints, rep.Suppressed),
		fmt.Sprintf("input: %s", g.input.Source),
	}
	for i, line := range lines {
		rl.DrawText(line, 10, int32(10+i*18), 16, rl.LightGray)
	}
	if g.paused {
		rl.DrawText("PAUSED", 10, int32(10+len(lines)*18), 16, rl.Yellow)
	}
}
