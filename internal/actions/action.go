package actions

import (
	"fmt"
	"math"

	"github.com/awmpietro/golang-decision-tree-engine/internal/dtree"
)

// Action is something that can be tried in a period, succeeding with
// probability PSuccess. Its cost grows by CostInflation every period it is
// postponed.
type Action struct {
	Name          string  `json:"name"`
	PSuccess      float64 `json:"p_success"`
	InitCost      float64 `json:"init_cost"`
	Duration      float64 `json:"duration"`
	CostInflation float64 `json:"cost_inflation"`
}

// NewAction returns a validated Action. Pass 1 as costInflation for a
// constant cost.
func NewAction(name string, pSuccess, initCost, duration, costInflation float64) (Action, error) {
	a := Action{
		Name:          name,
		PSuccess:      pSuccess,
		InitCost:      initCost,
		Duration:      duration,
		CostInflation: costInflation,
	}
	if err := a.Validate(); err != nil {
		return Action{}, err
	}
	return a, nil
}

func (a Action) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("%w: action name is empty", dtree.ErrConfiguration)
	}
	if !dtree.ValidProbability(a.PSuccess) {
		return fmt.Errorf("%w: action %q p_success %v outside [0,1]", dtree.ErrConfiguration, a.Name, a.PSuccess)
	}
	if !finite(a.InitCost) {
		return fmt.Errorf("%w: action %q init_cost %v is not finite", dtree.ErrConfiguration, a.Name, a.InitCost)
	}
	if !finite(a.Duration) || a.Duration < 0 {
		return fmt.Errorf("%w: action %q duration %v must be a finite value >= 0", dtree.ErrConfiguration, a.Name, a.Duration)
	}
	if !finite(a.CostInflation) || a.CostInflation < 0 {
		return fmt.Errorf("%w: action %q cost_inflation %v must be a finite value >= 0", dtree.ErrConfiguration, a.Name, a.CostInflation)
	}
	return nil
}

// Cost is the cost of starting the action in period (1-based):
// InitCost * CostInflation^(period-1).
func (a Action) Cost(period int) float64 {
	return a.InitCost * math.Pow(a.CostInflation, float64(period-1))
}

func (a Action) String() string { return a.Name }

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
