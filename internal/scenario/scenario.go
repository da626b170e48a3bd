// Package scenario reads action groups from files so that trees can be
// generated without writing Go.
package scenario

import (
	"fmt"

	"github.com/awmpietro/golang-decision-tree-engine/internal/actions"
	"github.com/awmpietro/golang-decision-tree-engine/internal/dtree"
)

// Spec describes an action group and how deep to plan it.
type Spec struct {
	Name                 string       `json:"name,omitempty" mapstructure:"name"`
	MaxDepth             int          `json:"max_depth" mapstructure:"max_depth"`
	Maximize             bool         `json:"maximize,omitempty" mapstructure:"maximize"`
	CanTry               string       `json:"can_try,omitempty" mapstructure:"can_try"`
	AllowNoAction        *bool        `json:"allow_no_action,omitempty" mapstructure:"allow_no_action"`
	AllowMultipleActions *bool        `json:"allow_multiple_actions,omitempty" mapstructure:"allow_multiple_actions"`
	KeepUncertainFinal   bool         `json:"keep_uncertain_final,omitempty" mapstructure:"keep_uncertain_final"`
	Actions              []ActionSpec `json:"actions" mapstructure:"actions"`
}

// ActionSpec is one action of a Spec. CostInflation defaults to 1.
type ActionSpec struct {
	Name          string   `json:"name" mapstructure:"name"`
	PSuccess      float64  `json:"p_success" mapstructure:"p_success"`
	InitCost      float64  `json:"init_cost" mapstructure:"init_cost"`
	Duration      float64  `json:"duration,omitempty" mapstructure:"duration"`
	CostInflation *float64 `json:"cost_inflation,omitempty" mapstructure:"cost_inflation"`
}

func (a ActionSpec) action() (actions.Action, error) {
	inflation := 1.0
	if a.CostInflation != nil {
		inflation = *a.CostInflation
	}
	return actions.NewAction(a.Name, a.PSuccess, a.InitCost, a.Duration, inflation)
}

func (s *Spec) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: scenario is empty", dtree.ErrConfiguration)
	}
	if s.MaxDepth < 1 {
		return fmt.Errorf("%w: max_depth must be at least 1", dtree.ErrConfiguration)
	}
	seen := make(map[string]bool, len(s.Actions))
	for _, a := range s.Actions {
		if seen[a.Name] {
			return fmt.Errorf("%w: action %q is listed twice", dtree.ErrDuplicateName, a.Name)
		}
		seen[a.Name] = true
	}
	return nil
}

func (s *Spec) Objective() dtree.Objective {
	if s.Maximize {
		return dtree.Maximize
	}
	return dtree.Minimize
}

// Group builds the action group the scenario describes.
func (s *Spec) Group() (*actions.Group, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	list := make([]actions.Action, 0, len(s.Actions))
	for _, a := range s.Actions {
		action, err := a.action()
		if err != nil {
			return nil, err
		}
		list = append(list, action)
	}

	var opts []actions.GroupOption
	if s.CanTry != "" {
		canTry, err := actions.CanTryExpr(s.CanTry)
		if err != nil {
			return nil, err
		}
		opts = append(opts, actions.WithCanTry(canTry))
	}
	if s.AllowNoAction != nil {
		opts = append(opts, actions.AllowNoAction(*s.AllowNoAction))
	}
	if s.AllowMultipleActions != nil {
		opts = append(opts, actions.AllowMultipleActions(*s.AllowMultipleActions))
	}
	return actions.NewGroup(list, opts...)
}

// Tree generates the decision tree of the scenario's group over MaxDepth
// periods. extra is applied after the scenario's own tree options.
func (s *Spec) Tree(extra ...actions.TreeOption) (*dtree.Tree, error) {
	g, err := s.Group()
	if err != nil {
		return nil, err
	}
	var opts []actions.TreeOption
	if s.KeepUncertainFinal {
		opts = append(opts, actions.KeepUncertainFinal())
	}
	return g.MakeTree(s.MaxDepth, append(opts, extra...)...)
}
