package actions

import (
	"fmt"
	"strings"
)

// AvailableAction marks whether an action is tried in one Trial.
type AvailableAction struct {
	Action Action
	Try    bool
}

func (a AvailableAction) String() string {
	return fmt.Sprintf("%s = %t", a.Action.Name, a.Try)
}

// Trial is one combination of tried and untried actions, in group order.
type Trial []AvailableAction

// Tried returns the actions marked as tried.
func (t Trial) Tried() []Action {
	var out []Action
	for _, a := range t {
		if a.Try {
			out = append(out, a.Action)
		}
	}
	return out
}

// Cost sums the costs of the tried actions started in period.
func (t Trial) Cost(period int) float64 {
	var total float64
	for _, a := range t {
		if a.Try {
			total += a.Action.Cost(period)
		}
	}
	return total
}

// PSuccess is the probability that at least one tried action succeeds,
// assuming independent outcomes. A trial with nothing tried never succeeds.
func (t Trial) PSuccess() float64 {
	pFail := 1.0
	for _, a := range t {
		if a.Try {
			pFail *= 1 - a.Action.PSuccess
		}
	}
	return 1 - pFail
}

// ExpectedCostIfSuccess weights each tried action's cost by its success
// probability.
func (t Trial) ExpectedCostIfSuccess(period int) float64 {
	var total float64
	for _, a := range t {
		if a.Try {
			total += a.Action.PSuccess * a.Action.Cost(period)
		}
	}
	return total
}

// ExpectedCostIfFailure weights each tried action's cost by its failure
// probability.
func (t Trial) ExpectedCostIfFailure(period int) float64 {
	var total float64
	for _, a := range t {
		if a.Try {
			total += (1 - a.Action.PSuccess) * a.Action.Cost(period)
		}
	}
	return total
}

// String names the tried actions, or "No Action".
func (t Trial) String() string {
	names := make([]string, 0, len(t))
	for _, a := range t {
		if a.Try {
			names = append(names, a.Action.Name)
		}
	}
	if len(names) == 0 {
		return "No Action"
	}
	return strings.Join(names, ", ")
}

func (t Trial) GoString() string {
	parts := make([]string, 0, len(t))
	for _, a := range t {
		parts = append(parts, a.String())
	}
	return "Trial(" + strings.Join(parts, ", ") + ")"
}
