package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/qsoup/game"
	"github.com/pthm-cable/qsoup/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Census      game.Census
	FPS         int32
	Paused      bool
	Speed       int
	ShowSpecies bool
}

// HUD renders the population panel in the top-left corner.
type HUD struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewHUD creates a new HUD renderer.
func NewHUD(x, y, width int32) *HUD {
	return &HUD{renderer: NewRenderer(), x: x, y: y, width: width}
}

// Draw renders the HUD and returns the Y position below it.
func (h *HUD) Draw(data HUDData) int32 {
	r := h.renderer
	c := data.Census

	lines := 7
	var species []string
	if data.ShowSpecies {
		species = c.SpeciesLines()
		lines += len(species) + 1
	}
	height := int32(lines)*r.Theme.LineHeight + r.Theme.Padding*2 + 6
	r.DrawPanel(h.x, h.y, h.width, height)

	x := h.x + r.Theme.Padding
	y := h.y + r.Theme.Padding
	y = r.DrawLabelValue(x, y, "FPS", fmt.Sprintf("%d", data.FPS))
	y = r.DrawLabelValue(x, y, "Creatures", fmt.Sprintf("%d", c.Creatures))
	y = r.DrawLabelValue(x, y, "Plants", fmt.Sprintf("%d", c.Plants))
	y = r.DrawLabelValue(x, y, "Max Gen", fmt.Sprintf("%d", c.MaxGeneration))
	y = r.DrawLabelValue(x, y, "Avg Q", fmt.Sprintf("%.3f", c.AvgQ))
	y = r.DrawLabelValue(x, y, "Elapsed", c.Elapsed())

	status := fmt.Sprintf("Running %dx", data.Speed)
	statusColor := r.Theme.LabelColor
	if data.Paused {
		status = "PAUSED"
		statusColor = r.Theme.SectionHeader
	}
	y = r.DrawLine(x, y, status, statusColor)

	if data.ShowSpecies {
		y += 6
		y = r.DrawSectionHeader(x, y, "Species")
		for _, line := range species {
			y = r.DrawLine(x, y, line, r.Theme.LabelColor)
		}
	}
	return h.y + height
}

// DrawControls renders the key legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-22, 12, h.renderer.Theme.MutedColor)
}

// PerfPanel renders step timing per phase.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y, width int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	r := p.renderer
	height := int32(len(telemetry.Phases)+2)*r.Theme.LineHeight + r.Theme.Padding*2 + 4
	r.DrawPanel(p.x, p.y, p.width, height)

	x := p.x + r.Theme.Padding
	y := p.y + r.Theme.Padding
	y = r.DrawSectionHeader(x, y, "Step timing")
	y = r.DrawLine(x, y, fmt.Sprintf("avg %s  %.0f steps/s",
		stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond), r.Theme.ValueColor)

	for _, phase := range telemetry.Phases {
		pct := stats.PhasePct[phase]
		color := r.Theme.LabelColor
		if pct > 40 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}
		y = r.DrawLine(x, y, fmt.Sprintf("%-13s %8s %5.1f%%",
			phase, stats.PhaseAvg[phase].Round(time.Microsecond), pct), color)
	}
}
