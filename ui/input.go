package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"
)

// pickRadius is the extra click tolerance around a creature, in screen pixels.
const pickRadius = 5

// handleInput processes keyboard and mouse input.
func (a *App) handleInput() {
	a.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		a.game.TogglePause()
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) {
		a.game.SetStepsPerUpdate(a.game.StepsPerUpdate() - 1)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		a.game.SetStepsPerUpdate(a.game.StepsPerUpdate() + 1)
	}

	a.overlays.HandleKeys()
	a.handleCameraInput()

	if rl.IsKeyPressed(rl.KeyEscape) {
		a.selection.Deselect()
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) && !a.overControls() {
		mouse := rl.GetMousePosition()
		a.selection.Click(mouse.X, mouse.Y, a.pick)
	}
}

// pick maps a screen point into the world and finds the nearest creature.
func (a *App) pick(sx, sy float32) (ecs.Entity, bool) {
	wx, wy := a.camera.ScreenToWorld(sx, sy)
	maxDist := float32(a.game.Config().Creature.Radius) + pickRadius/a.camera.Zoom
	return a.game.EntityAt(wx, wy, maxDist)
}

// overControls reports whether the mouse is over the bottom control bar.
func (a *App) overControls() bool {
	return rl.GetMousePosition().Y >= a.screenHeight-60
}

// handleResize checks for window resize and propagates new dimensions.
func (a *App) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == a.screenWidth && h == a.screenHeight {
		return
	}
	a.screenWidth = w
	a.screenHeight = h

	a.camera.Resize(w, h)
	a.selection.Resize(w, h)
	a.controls.SetPosition(10, h-60)
}

// handleCameraInput processes camera pan/zoom controls.
func (a *App) handleCameraInput() {
	panSpeed := float32(8.0) // screen pixels per frame

	if rl.IsKeyDown(rl.KeyRight) {
		a.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		a.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		a.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		a.camera.Pan(0, -panSpeed)
	}
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		a.camera.Pan(-d.X, -d.Y)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		a.camera.ZoomBy(1 + wheel*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		a.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		a.camera.ZoomBy(0.8)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		a.camera.Reset()
	}
}
