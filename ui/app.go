package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/qsoup/camera"
	"github.com/pthm-cable/qsoup/game"
	"github.com/pthm-cable/qsoup/inspector"
	"github.com/pthm-cable/qsoup/renderer"
)

const controlsLegend = "[Space] pause  [,/.] speed  [wheel/+/-] zoom  [arrows/RMB] pan  [Home] reset  [H/V/L/P/O] overlays  [Esc] deselect"

// App is the graphical front end: it owns the window-side state and drives
// the game once per rendered frame.
type App struct {
	game *game.Game

	camera    *camera.Camera
	world     *renderer.WorldRenderer
	overlays  *OverlayRegistry
	selection *inspector.Selection

	hud         *HUD
	perfPanel   *PerfPanel
	overlayList *OverlayList
	controls    *ControlsBar
	inspector   *InspectorPanel

	screenWidth, screenHeight float32
}

// NewApp creates the front end for g. The raylib window must already exist.
func NewApp(g *game.Game) *App {
	cfg := g.Config()
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())

	// Escape deselects instead of closing the window.
	rl.SetExitKey(rl.KeyNull)

	a := &App{
		game:         g,
		camera:       camera.New(w, h, cfg.Derived.WorldW32, cfg.Derived.WorldH32),
		world:        renderer.NewWorldRenderer(),
		overlays:     NewOverlayRegistry(),
		selection:    inspector.NewSelection(w, h),
		hud:          NewHUD(10, 10, 260),
		perfPanel:    NewPerfPanel(10, 0, 260),
		overlayList:  NewOverlayList(10, 0, 260),
		controls:     NewControlsBar(10, h-60),
		inspector:    NewInspectorPanel(),
		screenWidth:  w,
		screenHeight: h,
	}
	return a
}

// Update handles input and advances the simulation by one frame.
func (a *App) Update() {
	a.handleInput()
	a.game.Update(frameDT(rl.GetFrameTime(), float32(a.game.Config().Physics.MaxDT)))
}

// frameDT caps a rendered frame's duration so a stalled window does not
// advance the world in one large step.
func frameDT(dt, maxDT float32) float32 {
	if maxDT > 0 && dt > maxDT {
		return maxDT
	}
	return dt
}

// Draw renders one frame.
func (a *App) Draw() {
	a.game.RecordFrame()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	sel, hasSel := a.selectedCreature()
	opts := renderer.Options{
		Headings:    a.overlays.IsEnabled(OverlayHeadings),
		SenseRange:  a.overlays.IsEnabled(OverlaySenseRange),
		Selected:    sel,
		HasSelected: hasSel,
	}
	if c, ok := a.game.Creature(sel); hasSel && ok {
		opts.SelectedSense = c.Genome.SenseRange
	}
	a.world.Draw(a.game, a.camera, opts)

	bottom := a.hud.Draw(HUDData{
		Census:      a.game.Census(),
		FPS:         rl.GetFPS(),
		Paused:      a.game.Paused(),
		Speed:       a.game.StepsPerUpdate(),
		ShowSpecies: a.overlays.IsEnabled(OverlaySpecies),
	})
	if a.overlays.IsEnabled(OverlayPerf) {
		a.perfPanel.SetPosition(10, bottom+8)
		a.perfPanel.Draw(a.game.Perf())
	}
	if a.overlays.IsEnabled(OverlayHelp) {
		a.overlayList.SetPosition(10, bottom+8)
		a.overlayList.Draw(a.overlays)
	}

	if hasSel {
		c, _ := a.game.Creature(sel)
		body, _ := a.game.Body(sel)
		a.inspector.Draw(a.selection, c, body.Color)
	}

	a.applyControl(a.controls.Draw(a.game.Paused(), a.game.StepsPerUpdate()))
	a.hud.DrawControls(int32(a.screenHeight), controlsLegend)

	rl.EndDrawing()
}

// selectedCreature drops the selection once its creature has been reaped.
func (a *App) selectedCreature() (ecs.Entity, bool) {
	e, ok := a.selection.Selected()
	if !ok {
		return e, false
	}
	if _, alive := a.game.Creature(e); !alive {
		a.selection.Deselect()
		return e, false
	}
	return e, true
}

func (a *App) applyControl(action ControlAction) {
	switch action {
	case ActionTogglePause:
		a.game.TogglePause()
	case ActionSlower:
		a.game.SetStepsPerUpdate(a.game.StepsPerUpdate() - 1)
	case ActionFaster:
		a.game.SetStepsPerUpdate(a.game.StepsPerUpdate() + 1)
	case ActionResetView:
		a.camera.Reset()
	}
}
