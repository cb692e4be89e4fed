package systems

import "math"

// clampFloat clamps a float32 value between min and max.
func clampFloat(v, minVal, maxVal float32) float32 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// clampInt clamps an int value between min and max.
func clampInt(v, minVal, maxVal int) int {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// normalizeDegrees wraps a heading to [0, 360).
func normalizeDegrees(h float32) float32 {
	h = float32(math.Mod(float64(h), 360))
	if h < 0 {
		h += 360
	}
	return h
}

// distanceSq returns the squared distance between two points.
func distanceSq(x1, y1, x2, y2 float32) float32 {
	dx := x1 - x2
	dy := y1 - y2
	return dx*dx + dy*dy
}

// unitVector returns the direction of a heading in degrees.
func unitVector(deg float32) (float32, float32) {
	rad := float64(deg) * math.Pi / 180
	return float32(math.Cos(rad)), float32(math.Sin(rad))
}
