package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/qsoup/components"
	"github.com/pthm-cable/qsoup/inspector"
	"github.com/pthm-cable/qsoup/policy"
	"github.com/pthm-cable/qsoup/traits"
)

// InspectorPanel renders the selected creature: state, genome and Q-table.
type InspectorPanel struct {
	renderer *Renderer
}

// NewInspectorPanel creates a new inspector panel.
func NewInspectorPanel() *InspectorPanel {
	return &InspectorPanel{renderer: NewRenderer()}
}

// Draw renders the panel for c inside the selection's panel rectangle.
func (ins *InspectorPanel) Draw(sel *inspector.Selection, c components.Creature, color components.Color) {
	r := ins.renderer
	rect := sel.Panel()
	px, py, pw := int32(rect.X), int32(rect.Y), int32(rect.W)

	height := ins.height(c)
	r.DrawPanel(px, py, pw, height)

	// Header with close button
	rl.DrawRectangle(px, py, pw, inspector.HeaderHeight, r.Theme.PanelHeader)
	rl.DrawText(fmt.Sprintf("Creature #%d", c.ID), px+inspector.PanelPadding, py+8, 16, rl.White)
	cb := sel.CloseButton()
	rl.DrawRectangle(int32(cb.X), int32(cb.Y), int32(cb.W), int32(cb.H), r.Theme.CloseButton)
	rl.DrawText("x", int32(cb.X)+7, int32(cb.Y)+3, 14, rl.White)

	x := px + inspector.PanelPadding
	width := pw - 2*inspector.PanelPadding
	y := py + inspector.HeaderHeight + 8

	y = r.DrawLine(x, y, traits.SpeciesLabel(c.Genome), r.Theme.SectionHeader)
	y = r.DrawColorSwatch(x, y, "Colour", rl.Color{R: color.R, G: color.G, B: color.B, A: 255})
	y += 4

	y = r.DrawSectionHeader(x, y, "State")
	for _, row := range inspector.Rows(&c) {
		y = r.DrawRow(x, y, row, width)
	}
	y += 6

	y = r.DrawSectionHeader(x, y, "Genome")
	for _, row := range inspector.Rows(c.Genome) {
		y = r.DrawRow(x, y, row, width)
	}
	y += 6

	y = r.DrawSectionHeader(x, y, fmt.Sprintf("Q-table (avg %.2f)", c.Policy.Average()))
	ins.drawQGrid(x, y, width, &c.Policy)
}

const qRowHeight = 20

func (ins *InspectorPanel) height(c components.Creature) int32 {
	t := ins.renderer.Theme
	rows := len(inspector.Rows(&c)) + len(inspector.Rows(c.Genome))
	return inspector.HeaderHeight + 8 +
		2*t.LineHeight + 4 + // species and colour
		3*(t.LineHeight+2+6) + // section headers
		int32(rows)*(t.LineHeight+2) +
		int32(policy.NumStates+1)*qRowHeight + t.Padding
}

func (ins *InspectorPanel) drawQGrid(x, y, width int32, q *policy.QTable) {
	r := ins.renderer
	labelW := int32(70)
	cellW := (width - labelW) / policy.NumActions

	for a := 0; a < policy.NumActions; a++ {
		name := policy.Action(a).String()
		tw := rl.MeasureText(name, r.Theme.FontSize)
		rl.DrawText(name, x+labelW+int32(a)*cellW+(cellW-tw)/2, y+4, r.Theme.FontSize, r.Theme.LabelColor)
	}
	y += qRowHeight

	grid := inspector.QGrid(q)
	for s := 0; s < policy.NumStates; s++ {
		rl.DrawText(inspector.StateLabel(policy.State(s)), x, y+4, r.Theme.FontSize, r.Theme.LabelColor)
		for a := 0; a < policy.NumActions; a++ {
			cell := grid[s][a]
			text := cell.Text
			if cell.Greedy {
				text = "*" + text
			}
			r.DrawShadedCell(x+labelW+int32(a)*cellW, y, cellW-2, qRowHeight-2, cell.Shade, text, cell.Last)
		}
		y += qRowHeight
	}
}
