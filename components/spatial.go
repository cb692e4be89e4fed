package components

// Position represents an entity's world position.
type Position struct {
	X, Y float32
}

// Heading is a creature's facing in degrees. 0 points along +X and positive
// angles turn clockwise in screen space.
type Heading struct {
	Deg float32 `inspect:"angle"`
}
