// Package termview renders the simulation in a terminal with tcell.
package termview

import (
	"fmt"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/qsoup/components"
	"github.com/pthm-cable/qsoup/game"
)

const (
	panelWidth    = 36
	minMapColumns = 20
)

// View draws the world as a character grid with a status panel on the right.
type View struct {
	screen tcell.Screen
	game   *game.Game

	width, height int
}

// New creates a view over an initialised screen.
func New(screen tcell.Screen, g *game.Game) *View {
	v := &View{screen: screen, game: g}
	v.width, v.height = screen.Size()
	return v
}

// mapColumns is the width of the world grid; the panel takes the rest.
func (v *View) mapColumns() int {
	if v.width-panelWidth < minMapColumns {
		return v.width
	}
	return v.width - panelWidth
}

// Draw renders one frame.
func (v *View) Draw() {
	v.screen.Clear()

	cols, rows := v.mapColumns(), v.height
	cfg := v.game.Config()
	worldW, worldH := cfg.Derived.WorldW32, cfg.Derived.WorldH32

	v.game.Each(func(info game.RenderInfo) {
		col := cell(info.X, worldW, cols)
		row := cell(info.Y, worldH, rows)
		style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(info.Color.R), int32(info.Color.G), int32(info.Color.B)))
		glyph := '*'
		if info.Kind == components.KindCreature {
			glyph = HeadingGlyph(info.Heading)
			style = style.Bold(true)
		}
		v.screen.SetContent(col, row, glyph, nil, style)
	})

	if cols < v.width {
		border := tcell.StyleDefault.Foreground(tcell.ColorGray)
		for y := 0; y < rows; y++ {
			v.screen.SetContent(cols, y, '│', nil, border)
		}
		lines := PanelLines(v.game.Census(), v.game.Paused(), v.game.StepsPerUpdate())
		for i, line := range lines {
			if i >= rows {
				break
			}
			v.drawText(cols+2, i, line, v.width-cols-3)
		}
	}

	v.screen.Show()
}

func (v *View) drawText(x, y int, text string, maxLen int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for i, r := range []rune(text) {
		if i >= maxLen {
			return
		}
		v.screen.SetContent(x+i, y, r, nil, style)
	}
}

// cell maps a world coordinate onto [0, n).
func cell(pos, size float32, n int) int {
	i := int(pos / size * float32(n))
	return max(0, min(i, n-1))
}

// HeadingGlyph picks the arrow closest to a heading in degrees, with 0 along
// +X and angles turning clockwise on screen.
func HeadingGlyph(deg float32) rune {
	d := math.Mod(float64(deg), 360)
	if d < 0 {
		d += 360
	}
	return [4]rune{'>', 'v', '<', '^'}[int((d+45)/90)%4]
}

// PanelLines formats the status panel.
func PanelLines(c game.Census, paused bool, speed int) []string {
	status := fmt.Sprintf("Running %dx", speed)
	if paused {
		status = "PAUSED"
	}
	lines := []string{
		"Q-Soup",
		"",
		fmt.Sprintf("Creatures: %d", c.Creatures),
		fmt.Sprintf("Plants:    %d", c.Plants),
		fmt.Sprintf("Max Gen:   %d", c.MaxGeneration),
		fmt.Sprintf("Avg Q:     %.3f", c.AvgQ),
		fmt.Sprintf("Elapsed:   %s", c.Elapsed()),
		status,
		"",
		"Species",
	}
	lines = append(lines, c.SpeciesLines()...)
	return append(lines, "", "[space] pause [,/.] speed [q] quit")
}

// HandleEvent applies one terminal event. It returns false when the user
// asked to quit.
func (v *View) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				v.game.TogglePause()
			case ',', '<':
				v.game.SetStepsPerUpdate(v.game.StepsPerUpdate() - 1)
			case '.', '>':
				v.game.SetStepsPerUpdate(v.game.StepsPerUpdate() + 1)
			}
		}
	case *tcell.EventResize:
		v.width, v.height = v.screen.Size()
		v.screen.Sync()
	}
	return true
}

// Run drives the game at the configured frame rate until the user quits or
// maxTicks frames have been stepped (0 = unlimited).
func (v *View) Run(maxTicks int) {
	cfg := v.game.Config()
	fps := max(cfg.Screen.TargetFPS, 1)
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case ev, ok := <-events:
			if !ok || !v.HandleEvent(ev) {
				return
			}
		case <-ticker.C:
			v.game.Update(cfg.Derived.DT32)
			v.game.RecordFrame()
			v.Draw()
			if maxTicks > 0 && int(v.game.Tick()) >= maxTicks {
				return
			}
		}
	}
}
