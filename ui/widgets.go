package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/qsoup/inspector"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight + 2
}

// DrawLine draws one line of plain text and returns the new Y position.
func (r *Renderer) DrawLine(x, y int32, text string, color rl.Color) int32 {
	rl.DrawText(text, x, y, r.Theme.FontSize, color)
	return y + r.Theme.LineHeight
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawBar draws a labelled bar filled to fraction in [0, 1] with text after it.
func (r *Renderer) DrawBar(x, y int32, label string, fraction float32, text string, width int32, fill rl.Color) int32 {
	fraction = max(0, min(fraction, 1))

	barX := x + r.Theme.LabelWidth
	barWidth := width - r.Theme.LabelWidth - 50

	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(barX, y+2, barWidth, r.Theme.BarHeight, r.Theme.BarBg)
	rl.DrawRectangle(barX, y+2, int32(float32(barWidth)*fraction), r.Theme.BarHeight, fill)
	rl.DrawText(text, barX+barWidth+5, y, r.Theme.FontSize, r.Theme.ValueColor)

	return y + r.Theme.LineHeight + 2
}

// DrawEnergyBar draws an energy bar coloured by how full it is.
func (r *Renderer) DrawEnergyBar(x, y int32, label string, current, maxValue float32, width int32) int32 {
	ratio := float32(0)
	if maxValue > 0 {
		ratio = current / maxValue
	}

	barColor := r.Theme.BarFillHigh
	if ratio < 0.3 {
		barColor = r.Theme.BarFillLow
	} else if ratio < 0.6 {
		barColor = r.Theme.BarFillMedium
	}
	return r.DrawBar(x, y, label, ratio, fmt.Sprintf("%.0f", current), width, barColor)
}

// DrawColorSwatch draws a labelled colour swatch.
func (r *Renderer) DrawColorSwatch(x, y int32, label string, color rl.Color) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(x+r.Theme.LabelWidth, y+1, 12, 12, color)
	return y + r.Theme.LineHeight
}

// DrawRow renders one inspector row with the widget it asks for.
func (r *Renderer) DrawRow(x, y int32, row inspector.Row, width int32) int32 {
	if row.Widget == inspector.WidgetBar {
		return r.DrawBar(x, y, row.Label, row.Fraction, row.Text, width, r.Theme.BarFill)
	}
	return r.DrawLabelValue(x, y, row.Label, row.Text)
}

// DrawShadedCell draws a grid cell tinted by shade in [-1, 1]: green for
// positive, red for negative.
func (r *Renderer) DrawShadedCell(x, y, w, h int32, shade float32, text string, outline bool) {
	base := r.Theme.BarFillPositive
	if shade < 0 {
		base = r.Theme.BarFillNegative
		shade = -shade
	}
	base.A = uint8(40 + 200*shade)
	rl.DrawRectangle(x, y, w, h, r.Theme.BarBg)
	rl.DrawRectangle(x, y, w, h, base)
	if outline {
		rl.DrawRectangleLines(x, y, w, h, r.Theme.SectionHeader)
	}
	tw := rl.MeasureText(text, r.Theme.FontSize)
	rl.DrawText(text, x+(w-tw)/2, y+(h-r.Theme.FontSize)/2, r.Theme.FontSize, r.Theme.ValueColor)
}
