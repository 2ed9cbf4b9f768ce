package game

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/threads/config"
)

const (
	panelX      = 10
	panelY      = 90
	panelWidth  = 300
	panelRowH   = 38
	sliderWidth = 180
)

// slider is one tunable parameter on the panel.
type slider struct {
	label    string
	min, max float32
	get      func(c *config.Config) float64
	set      func(c *config.Config, v float64)
}

var sliders = []slider{
	{"stiffness", 0, 0.1,
		func(c *config.Config) float64 { return c.Physics.Stiffness },
		func(c *config.Config, v float64) { c.Physics.Stiffness = v }},
	{"gravity", 0, 1,
		func(c *config.Config) float64 { return c.Physics.Gravity },
		func(c *config.Config, v float64) { c.Physics.Gravity = v }},
	{"damping", 0, 0.95,
		func(c *config.Config) float64 { return c.Physics.Damping },
		func(c *config.Config, v float64) { c.Physics.Damping = v }},
	{"noise amplitude", 0, 1,
		func(c *config.Config) float64 { return c.Noise.Amplitude },
		func(c *config.Config, v float64) { c.Noise.Amplitude = v }},
	{"stickiness", 0, 0.2,
		func(c *config.Config) float64 { return c.Stickiness.Strength },
		func(c *config.Config, v float64) { c.Stickiness.Strength = v }},
	{"repulsion radius", 10, 600,
		func(c *config.Config) float64 { return c.Repulsion.Radius },
		func(c *config.Config, v float64) { c.Repulsion.Radius = v }},
	{"repulsion strength", 0, 50,
		func(c *config.Config) float64 { return c.Repulsion.Strength },
		func(c *config.Config, v float64) { c.Repulsion.Strength = v }},
}

// panelState mirrors the slider values so raygui can edit them in place.
type panelState struct {
	values []float32
}

func newPanelState(cfg *config.Config) panelState {
	ps := panelState{values: make([]float32, len(sliders))}
	ps.sync(cfg)
	return ps
}

func (ps *panelState) sync(cfg *config.Config) {
	for i, s := range sliders {
		ps.values[i] = float32(s.get(cfg))
	}
}

func panelBounds() rl.Rectangle {
	h := float32(len(sliders)*panelRowH + 80)
	return rl.Rectangle{X: panelX, Y: panelY, Width: panelWidth, Height: h}
}

// drawPanel draws the tuning sliders and applies any change.
func (g *Game) drawPanel() {
	bounds := panelBounds()
	rl.DrawRectangleRec(bounds, rl.NewColor(20, 20, 20, 220))
	rl.DrawRectangleLinesEx(bounds, 1, rl.DarkGray)

	y := float32(panelY + 10)
	var changed *config.Config
	for i, s := range sliders {
		rl.DrawText(fmt.Sprintf("%s: %.3f", s.label, g.panel.values[i]), panelX+10, int32(y), 14, rl.LightGray)
		y += 16
		v := gui.SliderBar(
			rl.Rectangle{X: panelX + 10, Y: y, Width: sliderWidth, Height: 16},
			"", "",
			g.panel.values[i], s.min, s.max,
		)
		y += panelRowH - 16
		if v != g.panel.values[i] {
			if changed == nil {
				changed = g.cfg.Clone()
			}
			s.set(changed, float64(v))
		}
	}

	if gui.Button(rl.Rectangle{X: panelX + 10, Y: y, Width: 130, Height: 28}, "Toggle mode") {
		if changed == nil {
			changed = g.cfg.Clone()
		}
		if changed.Repulsion.Mode == config.RepulsionWholeThread {
			changed.Repulsion.Mode = config.RepulsionPerPoint
		} else {
			changed.Repulsion.Mode = config.RepulsionWholeThread
		}
	}
	if gui.Button(rl.Rectangle{X: panelX + 150, Y: y, Width: 130, Height: 28}, "Defaults") {
		changed = g.cfg.ResetToDefaults()
	}

	if changed != nil {
		g.applyConfig(changed)
		g.panel.sync(g.cfg)
	}
}
