// Package policy implements the tabular Q-learning policy carried by each creature.
package policy

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/qsoup/random"
)

// State is the 2-bit perception summary.
type State uint8

// Perception bits.
const (
	FoodBit     State = 1 << 0
	PredatorBit State = 1 << 1
)

// NumStates is the number of distinct perception states.
const NumStates = 4

// NewState packs the two perception flags.
func NewState(foodNear, predatorNear bool) State {
	var s State
	if foodNear {
		s |= FoodBit
	}
	if predatorNear {
		s |= PredatorBit
	}
	return s
}

// FoodNear reports whether bit0 is set.
func (s State) FoodNear() bool { return s&FoodBit != 0 }

// PredatorNear reports whether bit1 is set.
func (s State) PredatorNear() bool { return s&PredatorBit != 0 }

// Action is a creature's per-frame choice.
type Action uint8

const (
	Forward Action = iota
	TurnLeft
	TurnRight
	Stop

	NumActions = 4
)

var actionNames = [NumActions]string{"forward", "left", "right", "stop"}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// Bound limits inherited entries, and runtime updates when clamping is on.
const Bound = 50.0

// InheritJitter is the half-width of the noise added during inheritance.
const InheritJitter = 0.1

// Params are the learning scalars.
type Params struct {
	Epsilon float64 `yaml:"epsilon"`
	Alpha   float64 `yaml:"alpha"`
	Gamma   float64 `yaml:"gamma"`
	// Clamp bounds every runtime update to [-Bound, Bound].
	Clamp bool `yaml:"clamp_updates"`
}

// DefaultParams returns ε=0.2, α=0.1, γ=0.9 without update clamping.
func DefaultParams() Params {
	return Params{Epsilon: 0.2, Alpha: 0.1, Gamma: 0.9}
}

// QTable is the action-value table plus the previous observation and choice.
// The zero value is a valid all-zero table.
type QTable struct {
	Q          [NumStates][NumActions]float64
	LastState  State
	LastAction Action
}

// SelectAction is ε-greedy: a uniform random action with probability epsilon,
// otherwise the greedy action with ties going to the lowest index.
func (t *QTable) SelectAction(s State, epsilon float64, rng random.Source) Action {
	if random.Chance(rng, epsilon) {
		return Action(rng.Intn(NumActions))
	}
	return t.Greedy(s)
}

// Greedy returns argmax_a Q[s][a]; the first maximum wins.
func (t *QTable) Greedy(s State) Action {
	return Action(floats.MaxIdx(t.Q[s][:]))
}

// MaxQ returns max_a Q[s][a].
func (t *QTable) MaxQ(s State) float64 {
	return floats.Max(t.Q[s][:])
}

// Update applies one TD step to Q[LastState][LastAction], bootstrapping from
// next, the state observed by the caller now.
func (t *QTable) Update(reward float64, next State, p Params) {
	s, a := t.LastState, t.LastAction
	q := t.Q[s][a]
	target := reward + p.Gamma*t.MaxQ(next)
	q += p.Alpha * (target - q)

	if math.IsNaN(q) || math.IsInf(q, 0) {
		slog.Warn("q_value_degenerate",
			"state", int(s),
			"action", a.String(),
			"reward", reward,
		)
		q = 0
	}
	if p.Clamp {
		q = clamp(q, -Bound, Bound)
	}
	t.Q[s][a] = q
}

// Average returns Σ Q / (|S|·|A|).
func (t *QTable) Average() float64 {
	var sum float64
	for s := range t.Q {
		sum += floats.Sum(t.Q[s][:])
	}
	return sum / (NumStates * NumActions)
}

// Inherit builds a child table from the mean of both parents plus uniform noise
// in [-InheritJitter, InheritJitter], clamped to [-Bound, Bound].
// LastState and LastAction start at zero.
func Inherit(p1, p2 *QTable, rng random.Source) QTable {
	var child QTable
	for s := 0; s < NumStates; s++ {
		for a := 0; a < NumActions; a++ {
			v := 0.5*(p1.Q[s][a]+p2.Q[s][a]) + random.Uniform(rng, -InheritJitter, InheritJitter)
			child.Q[s][a] = clamp(v, -Bound, Bound)
		}
	}
	return child
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
