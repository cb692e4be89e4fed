package components

// Kind discriminates the two entity variants.
type Kind uint8

const (
	KindPlant Kind = iota
	KindCreature
)

func (k Kind) String() string {
	switch k {
	case KindPlant:
		return "plant"
	case KindCreature:
		return "creature"
	default:
		return "unknown"
	}
}

// Color is an 8-bit RGBA colour.
type Color struct {
	R, G, B, A uint8
}

// Body holds the state shared by every entity.
type Body struct {
	Kind   Kind    `inspect:"label"`
	Radius float32 `inspect:"label,fmt:%.1f"`
	Color  Color   `inspect:"skip"`
	Alive  bool    `inspect:"bool"`
}

// Overlaps reports whether two circles at the given centres intersect.
func Overlaps(a, b Position, ra, rb float32) bool {
	dx := a.X - b.X
	dy := a.Y - b.Y
	r := ra + rb
	return dx*dx+dy*dy < r*r
}

// Plant tags plant entities.
type Plant struct{}
