package components

import (
	"github.com/pthm-cable/qsoup/policy"
	"github.com/pthm-cable/qsoup/traits"
)

// DeathCause records why a creature died.
type DeathCause uint8

const (
	Living DeathCause = iota
	Starved
	Eaten
)

func (c DeathCause) String() string {
	switch c {
	case Starved:
		return "starved"
	case Eaten:
		return "eaten"
	default:
		return "alive"
	}
}

// Creature holds the per-agent state of a mobile consumer.
// Genome is fixed after construction.
type Creature struct {
	ID            uint32        `inspect:"label"`
	Genome        traits.Genome `inspect:"skip"`
	Generation    int           `inspect:"label"`
	Energy        float32       `inspect:"bar,max:150"`
	ReproCooldown float32       `inspect:"label,fmt:%.1fs"` // seconds until eligible again
	Lifetime      float32       `inspect:"label,fmt:%.1fs"` // seconds since spawn
	Offspring     int           `inspect:"label"`
	Policy        policy.QTable `inspect:"skip"`
	Death         DeathCause    `inspect:"label"`
	BornTick      int32         `inspect:"skip"`
}
