// Package camera maps the bounded world onto the window.
package camera

// Camera controls the viewport into the simulation world. At MinZoom the
// whole world is visible and letterboxed inside the window.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float32

	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	WorldW, WorldH float32

	MinZoom, MaxZoom float32
}

// New creates a camera that shows the whole world.
func New(viewportW, viewportH, worldW, worldH float32) *Camera {
	c := &Camera{
		WorldW:  worldW,
		WorldH:  worldH,
		MaxZoom: 4.0,
	}
	c.Resize(viewportW, viewportH)
	c.Reset()
	return c
}

// fitZoom is the largest zoom at which the whole world fits the viewport.
func fitZoom(viewportW, viewportH, worldW, worldH float32) float32 {
	return min(viewportW/worldW, viewportH/worldH)
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewportH/2 + (wy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wy = c.Y + (sy-c.ViewportH/2)/c.Zoom
	return wx, wy
}

// ScaleLength converts a world distance to screen pixels.
func (c *Camera) ScaleLength(d float32) float32 {
	return d * c.Zoom
}

// IsVisible reports whether a circle at (wx, wy) could be on screen.
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius
	return absf(wx-c.X) <= halfW && absf(wy-c.Y) <= halfH
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.MinZoom = fitZoom(viewportW, viewportH, c.WorldW, c.WorldH)
	if c.MaxZoom < c.MinZoom {
		c.MaxZoom = c.MinZoom
	}
	c.SetZoom(c.Zoom)
}

// Pan moves the camera by the given delta in screen pixels. The center stays
// inside the world.
func (c *Camera) Pan(dx, dy float32) {
	c.X += dx / c.Zoom
	c.Y += dy / c.Zoom
	c.clampCenter()
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
	c.clampCenter()
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset shows the whole world again.
func (c *Camera) Reset() {
	c.X = c.WorldW / 2
	c.Y = c.WorldH / 2
	c.Zoom = c.MinZoom
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	return c.X - halfW, c.Y - halfH, c.X + halfW, c.Y + halfH
}

// clampCenter keeps the view from scrolling past the world edge. When the
// visible span is wider than the world the center is pinned to the middle.
func (c *Camera) clampCenter() {
	if c.Zoom == 0 {
		return
	}
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	c.X = clampSpan(c.X, halfW, c.WorldW)
	c.Y = clampSpan(c.Y, halfH, c.WorldH)
}

func clampSpan(center, half, size float32) float32 {
	if 2*half >= size {
		return size / 2
	}
	return clamp(center, half, size-half)
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
