package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlAction is what the player asked for through the control bar.
type ControlAction int

const (
	ActionNone ControlAction = iota
	ActionTogglePause
	ActionSlower
	ActionFaster
	ActionResetView
)

// ControlsBar renders the pause and speed buttons along the bottom edge.
type ControlsBar struct {
	renderer *Renderer
	x, y     float32
}

// NewControlsBar creates a control bar anchored at (x, y).
func NewControlsBar(x, y float32) *ControlsBar {
	return &ControlsBar{renderer: NewRenderer(), x: x, y: y}
}

// SetPosition moves the bar, e.g. after a window resize.
func (c *ControlsBar) SetPosition(x, y float32) {
	c.x = x
	c.y = y
}

// Height is the vertical space the bar occupies.
func (c *ControlsBar) Height() float32 { return 30 }

// Draw renders the buttons and returns the action clicked this frame.
func (c *ControlsBar) Draw(paused bool, speed int) ControlAction {
	action := ActionNone
	x := c.x

	label := "Pause"
	if paused {
		label = "Resume"
	}
	if gui.Button(rl.Rectangle{X: x, Y: c.y, Width: 80, Height: 26}, label) {
		action = ActionTogglePause
	}
	x += 88

	if gui.Button(rl.Rectangle{X: x, Y: c.y, Width: 26, Height: 26}, "-") {
		action = ActionSlower
	}
	x += 30
	text := fmt.Sprintf("%dx", speed)
	rl.DrawText(text, int32(x)+4, int32(c.y)+7, c.renderer.Theme.FontSize, c.renderer.Theme.ValueColor)
	x += 30
	if gui.Button(rl.Rectangle{X: x, Y: c.y, Width: 26, Height: 26}, "+") {
		action = ActionFaster
	}
	x += 34

	if gui.Button(rl.Rectangle{X: x, Y: c.y, Width: 90, Height: 26}, "Reset View") {
		action = ActionResetView
	}
	return action
}

// OverlayList renders the overlay toggles with their keys.
type OverlayList struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewOverlayList creates an overlay list panel.
func NewOverlayList(x, y, width int32) *OverlayList {
	return &OverlayList{renderer: NewRenderer(), x: x, y: y, width: width}
}

// SetPosition updates the panel position.
func (o *OverlayList) SetPosition(x, y int32) {
	o.x = x
	o.y = y
}

// Draw renders the list.
func (o *OverlayList) Draw(overlays *OverlayRegistry) {
	r := o.renderer
	all := overlays.All()
	height := int32(len(all)+1)*r.Theme.LineHeight + r.Theme.Padding*2 + 2
	r.DrawPanel(o.x, o.y, o.width, height)

	x := o.x + r.Theme.Padding
	y := r.DrawSectionHeader(x, o.y+r.Theme.Padding, "Overlays")
	for _, desc := range all {
		enabled := overlays.IsEnabled(desc.ID)
		status := rl.Color{R: 80, G: 80, B: 80, A: 255}
		nameColor := r.Theme.LabelColor
		if enabled {
			status = r.Theme.BarFillHigh
			nameColor = rl.White
		}
		rl.DrawRectangle(x, y+2, 8, 8, status)
		rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, o.x+o.width-r.Theme.Padding-keyWidth, y, r.Theme.FontSize, r.Theme.MutedColor)
		y += r.Theme.LineHeight
	}
}
