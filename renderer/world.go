// Package renderer draws the simulated world with raylib.
package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/qsoup/camera"
	"github.com/pthm-cable/qsoup/components"
	"github.com/pthm-cable/qsoup/game"
)

// Scene is anything that can enumerate drawable entities.
type Scene interface {
	Each(fn func(game.RenderInfo))
}

// Options toggles the optional layers of a frame.
type Options struct {
	Headings   bool
	SenseRange bool

	Selected      ecs.Entity
	HasSelected   bool
	SelectedSense float32 // sense radius of the selected creature in world units
}

// WorldRenderer draws plants as filled circles and creatures as filled
// circles with a heading tick.
type WorldRenderer struct {
	Background rl.Color
	Border     rl.Color
	Tick       rl.Color
	Highlight  rl.Color
	Sense      rl.Color
}

// NewWorldRenderer creates a renderer with the default palette.
func NewWorldRenderer() *WorldRenderer {
	return &WorldRenderer{
		Background: rl.Color{R: 18, G: 22, B: 28, A: 255},
		Border:     rl.Color{R: 60, G: 70, B: 80, A: 255},
		Tick:       rl.Color{R: 20, G: 20, B: 20, A: 255},
		Highlight:  rl.Yellow,
		Sense:      rl.Color{R: 255, G: 255, B: 255, A: 40},
	}
}

// Draw renders the world rectangle and every visible entity.
func (r *WorldRenderer) Draw(scene Scene, cam *camera.Camera, opts Options) {
	x0, y0 := cam.WorldToScreen(0, 0)
	x1, y1 := cam.WorldToScreen(cam.WorldW, cam.WorldH)
	bounds := rl.Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
	rl.DrawRectangleRec(bounds, r.Background)
	rl.DrawRectangleLinesEx(bounds, 1, r.Border)

	scene.Each(func(info game.RenderInfo) {
		if !cam.IsVisible(info.X, info.Y, info.Radius) {
			return
		}
		sx, sy := cam.WorldToScreen(info.X, info.Y)
		center := rl.Vector2{X: sx, Y: sy}
		radius := cam.ScaleLength(info.Radius)

		rl.DrawCircleV(center, radius, toRaylib(info.Color))
		if info.Kind != components.KindCreature {
			return
		}

		if opts.Headings {
			rad := float64(info.Heading) * math.Pi / 180
			tip := rl.Vector2{
				X: sx + radius*float32(math.Cos(rad)),
				Y: sy + radius*float32(math.Sin(rad)),
			}
			rl.DrawLineEx(center, tip, 2, r.Tick)
		}

		if opts.HasSelected && info.Entity == opts.Selected {
			rl.DrawCircleLinesV(center, radius+3, r.Highlight)
			if opts.SenseRange {
				rl.DrawCircleV(center, cam.ScaleLength(opts.SelectedSense), r.Sense)
			}
		}
	})
}

func toRaylib(c components.Color) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}
