package inspector

import (
	"fmt"

	"github.com/pthm-cable/qsoup/policy"
)

// QCell is one entry of the Q-table grid.
type QCell struct {
	Value  float64
	Text   string
	Shade  float32 // Value / policy.Bound, in [-1, 1]
	Greedy bool    // the action the creature would pick without exploring
	Last   bool    // the state and action of the most recent choice
}

// QGrid lays out a Q-table as rows of states and columns of actions.
func QGrid(t *policy.QTable) [policy.NumStates][policy.NumActions]QCell {
	var grid [policy.NumStates][policy.NumActions]QCell
	for s := 0; s < policy.NumStates; s++ {
		state := policy.State(s)
		greedy := t.Greedy(state)
		for a := 0; a < policy.NumActions; a++ {
			v := t.Q[s][a]
			shade := float32(v / policy.Bound)
			if shade > 1 {
				shade = 1
			} else if shade < -1 {
				shade = -1
			}
			grid[s][a] = QCell{
				Value:  v,
				Text:   fmt.Sprintf("%+.1f", v),
				Shade:  shade,
				Greedy: policy.Action(a) == greedy,
				Last:   state == t.LastState && policy.Action(a) == t.LastAction,
			}
		}
	}
	return grid
}

// StateLabel names a perception state for grid row headers.
func StateLabel(s policy.State) string {
	switch {
	case s.FoodNear() && s.PredatorNear():
		return "food+pred"
	case s.FoodNear():
		return "food"
	case s.PredatorNear():
		return "pred"
	default:
		return "none"
	}
}
