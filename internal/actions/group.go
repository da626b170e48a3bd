package actions

import (
	"fmt"
	"iter"
	"math/bits"
	"slices"

	"github.com/awmpietro/golang-decision-tree-engine/internal/actions/eval"
	"github.com/awmpietro/golang-decision-tree-engine/internal/dtree"
)

// MaxActions bounds a Group so that every combination fits a uint64 mask.
const MaxActions = 62

// CanTry reports whether action may be started in period.
type CanTry func(action Action, period int) bool

// Group generates the trials of a set of actions.
type Group struct {
	actions       []Action
	canTry        CanTry
	allowNoAction bool
	allowMultiple bool
}

type GroupOption func(*Group)

func WithCanTry(fn CanTry) GroupOption {
	return func(g *Group) {
		g.canTry = fn
	}
}

// AllowNoAction keeps the trial that tries nothing. Default true.
func AllowNoAction(allow bool) GroupOption {
	return func(g *Group) {
		g.allowNoAction = allow
	}
}

// AllowMultipleActions keeps trials that try more than one action. Default
// true.
func AllowMultipleActions(allow bool) GroupOption {
	return func(g *Group) {
		g.allowMultiple = allow
	}
}

func NewGroup(actions []Action, opts ...GroupOption) (*Group, error) {
	if len(actions) > MaxActions {
		return nil, fmt.Errorf("%w: %d actions, at most %d are supported", dtree.ErrConfiguration, len(actions), MaxActions)
	}
	for _, a := range actions {
		if err := a.Validate(); err != nil {
			return nil, err
		}
	}

	g := &Group{
		actions:       slices.Clone(actions),
		allowNoAction: true,
		allowMultiple: true,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// CanTryExpr turns an expression such as "period + duration <= 3" into a
// CanTry. An expression that fails at run time does not admit the action.
func CanTryExpr(cond string) (CanTry, error) {
	p, err := eval.Compile(cond)
	if err != nil {
		return nil, fmt.Errorf("%w: can_try: %v", dtree.ErrConfiguration, err)
	}
	return func(a Action, period int) bool {
		ok, err := p.Eval(eval.Env{
			Name:          a.Name,
			Period:        period,
			PSuccess:      a.PSuccess,
			InitCost:      a.InitCost,
			Duration:      a.Duration,
			CostInflation: a.CostInflation,
			Cost:          a.Cost(period),
		})
		return err == nil && ok
	}, nil
}

func (g *Group) Actions() []Action { return slices.Clone(g.actions) }

func (g *Group) Len() int { return len(g.actions) }

// Trials yields the admissible trials for period in binary counter order,
// the first action being the most significant bit: with actions (a, b) the
// order is {}, {b}, {a}, {a, b}. The sequence can be ranged over any number
// of times and never mutates the group.
func (g *Group) Trials(period int) iter.Seq[Trial] {
	return func(yield func(Trial) bool) {
		n := len(g.actions)
		for mask := uint64(0); mask < uint64(1)<<n; mask++ {
			if !g.admits(mask, period) {
				continue
			}
			trial := make(Trial, n)
			for i, a := range g.actions {
				trial[i] = AvailableAction{Action: a, Try: g.tried(mask, i)}
			}
			if !yield(trial) {
				return
			}
		}
	}
}

func (g *Group) tried(mask uint64, i int) bool {
	return mask&(uint64(1)<<(len(g.actions)-1-i)) != 0
}

func (g *Group) admits(mask uint64, period int) bool {
	switch count := bits.OnesCount64(mask); {
	case count == 0 && !g.allowNoAction:
		return false
	case count > 1 && !g.allowMultiple:
		return false
	}
	if g.canTry == nil {
		return true
	}
	for i, a := range g.actions {
		if g.tried(mask, i) && !g.canTry(a, period) {
			return false
		}
	}
	return true
}
