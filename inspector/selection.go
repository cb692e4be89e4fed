package inspector

import "github.com/mlange-42/ark/ecs"

// Panel dimensions
const (
	PanelWidth   = 300
	PanelMargin  = 10
	PanelPadding = 10
	HeaderHeight = 30
	CloseSize    = 20
)

// Rect is an axis-aligned screen rectangle.
type Rect struct {
	X, Y, W, H float32
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// PickFunc returns the entity under a screen point, if any.
type PickFunc func(sx, sy float32) (ecs.Entity, bool)

// Selection tracks the inspected creature and where its panel sits.
type Selection struct {
	selected    ecs.Entity
	hasSelected bool
	panel       Rect
}

// NewSelection creates a selection with the panel docked to the right edge.
func NewSelection(screenWidth, screenHeight float32) *Selection {
	s := &Selection{}
	s.Resize(screenWidth, screenHeight)
	return s
}

// Resize re-docks the panel after a window resize.
func (s *Selection) Resize(screenWidth, screenHeight float32) {
	s.panel = Rect{
		X: screenWidth - PanelWidth - PanelMargin,
		Y: PanelMargin,
		W: PanelWidth,
		H: screenHeight - 2*PanelMargin,
	}
}

// Panel returns the panel rectangle.
func (s *Selection) Panel() Rect { return s.panel }

// CloseButton returns the close button rectangle in the panel header.
func (s *Selection) CloseButton() Rect {
	return Rect{X: s.panel.X + s.panel.W - CloseSize - 5, Y: s.panel.Y + 5, W: CloseSize, H: CloseSize}
}

// Selected returns the inspected entity.
func (s *Selection) Selected() (ecs.Entity, bool) {
	return s.selected, s.hasSelected
}

// Select inspects e.
func (s *Selection) Select(e ecs.Entity) {
	s.selected = e
	s.hasSelected = true
}

// Deselect clears the current selection.
func (s *Selection) Deselect() {
	s.hasSelected = false
}

// Click handles a left click at a screen point. Clicks on the open panel are
// swallowed; the close button deselects; elsewhere the picked creature, if
// any, becomes the selection. Clicking empty space keeps the selection.
func (s *Selection) Click(sx, sy float32, pick PickFunc) {
	if s.hasSelected {
		if s.CloseButton().Contains(sx, sy) {
			s.Deselect()
			return
		}
		if s.panel.Contains(sx, sy) {
			return
		}
	}
	if e, ok := pick(sx, sy); ok {
		s.Select(e)
	}
}
