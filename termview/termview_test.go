package termview

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/qsoup/config"
	"github.com/pthm-cable/qsoup/game"
)

func newTestView(t *testing.T, w, h int) (*View, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(w, h)

	g, err := game.NewGameWithOptions(game.Options{Config: config.Defaults(), Seed: 1})
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	return New(screen, g), screen
}

func rowText(screen tcell.Screen, y, from, to int) string {
	var b strings.Builder
	for x := from; x < to; x++ {
		r, _, _, _ := screen.GetContent(x, y)
		b.WriteRune(r)
	}
	return b.String()
}

func TestHeadingGlyph(t *testing.T) {
	tests := []struct {
		deg  float32
		want rune
	}{
		{0, '>'},
		{44, '>'},
		{90, 'v'},
		{180, '<'},
		{270, '^'},
		{-90, '^'},
		{359, '>'},
		{720, '>'},
	}
	for _, tt := range tests {
		if got := HeadingGlyph(tt.deg); got != tt.want {
			t.Errorf("HeadingGlyph(%v) = %q, want %q", tt.deg, got, tt.want)
		}
	}
}

func TestCell(t *testing.T) {
	if got := cell(0, 800, 40); got != 0 {
		t.Errorf("cell(0) = %d", got)
	}
	if got := cell(400, 800, 40); got != 20 {
		t.Errorf("cell(400) = %d, want 20", got)
	}
	if got := cell(800, 800, 40); got != 39 {
		t.Errorf("cell at the far edge = %d, want 39", got)
	}
}

func TestPanelLines(t *testing.T) {
	c := game.Census{Creatures: 3, Plants: 12, SimTime: 61, Species: map[string]int{"b": 1, "a": 2}}

	lines := PanelLines(c, true, 2)
	joined := strings.Join(lines, "\n")
	for _, want := range []string{"Creatures: 3", "Plants:    12", "Elapsed:   1m 1s", "PAUSED", "a: 2\nb: 1"} {
		if !strings.Contains(joined, want) {
			t.Errorf("panel missing %q:\n%s", want, joined)
		}
	}

	running := strings.Join(PanelLines(c, false, 4), "\n")
	if !strings.Contains(running, "Running 4x") {
		t.Errorf("panel missing speed:\n%s", running)
	}
}

func TestDraw(t *testing.T) {
	v, screen := newTestView(t, 100, 30)
	v.Draw()

	cols := v.mapColumns()
	if cols != 100-panelWidth {
		t.Fatalf("map columns = %d", cols)
	}

	var plants, creatures int
	for y := 0; y < 30; y++ {
		for x := 0; x < cols; x++ {
			r, _, _, _ := screen.GetContent(x, y)
			switch r {
			case '*':
				plants++
			case '>', 'v', '<', '^':
				creatures++
			}
		}
	}
	// Entities may share a cell, so only require some of each.
	if plants == 0 || creatures == 0 {
		t.Errorf("grid has %d plant cells and %d creature cells", plants, creatures)
	}

	if got := rowText(screen, 2, cols+2, 100); !strings.HasPrefix(got, "Creatures: 8") {
		t.Errorf("panel row 2 = %q", got)
	}
}

func TestDrawNarrowScreenHasNoPanel(t *testing.T) {
	v, _ := newTestView(t, 40, 12)
	if v.mapColumns() != 40 {
		t.Errorf("narrow screen should use every column for the map, got %d", v.mapColumns())
	}
	v.Draw()
}

func TestHandleEvent(t *testing.T) {
	v, _ := newTestView(t, 100, 30)

	if !v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone)) {
		t.Fatal("space should not quit")
	}
	if !v.game.Paused() {
		t.Error("space should pause")
	}

	v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, '.', tcell.ModNone))
	v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, '.', tcell.ModNone))
	if v.game.StepsPerUpdate() != 3 {
		t.Errorf("speed = %d, want 3", v.game.StepsPerUpdate())
	}
	v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, ',', tcell.ModNone))
	if v.game.StepsPerUpdate() != 2 {
		t.Errorf("speed = %d, want 2", v.game.StepsPerUpdate())
	}

	if v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)) {
		t.Error("q should quit")
	}
	if v.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Error("escape should quit")
	}
}
