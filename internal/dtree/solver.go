package dtree

import (
	"time"
)

type Objective int

const (
	// Minimize treats amounts as costs.
	Minimize Objective = iota
	// Maximize treats amounts as rewards.
	Maximize
)

func (o Objective) String() string {
	if o == Maximize {
		return "maximize"
	}
	return "minimize"
}

func (o Objective) better(candidate, best float64) bool {
	if o == Maximize {
		return candidate > best
	}
	return candidate < best
}

// Solver runs backward induction over a Tree.
type Solver struct {
	objective Objective
	observer  DepthObserver
}

type SolverOption func(*Solver)

func WithObjective(objective Objective) SolverOption {
	return func(s *Solver) {
		s.objective = objective
	}
}

// WithDepthObserver reports how long each depth of the backward pass took.
func WithDepthObserver(observer DepthObserver) SolverOption {
	return func(s *Solver) {
		s.observer = observer
	}
}

func NewSolver(opts ...SolverOption) *Solver {
	s := &Solver{objective: Minimize}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Solve is shorthand for NewSolver(WithObjective(objective)).Solve(t).
func (t *Tree) Solve(objective Objective) (*Solution, error) {
	return NewSolver(WithObjective(objective)).Solve(t)
}

// Solve snapshots t and folds expected amounts from the leaves to the root.
//
// Every amount node first gets the sum of the chance amounts on its root
// path. Then, deepest level first, amount nodes add probability*total into
// their chance node and decision nodes keep the best child, passing
// p_failure*best up to the chance node whose failure led to them.
func (s *Solver) Solve(t *Tree) (*Solution, error) {
	if t == nil {
		return nil, structureErr("tree is nil")
	}
	if _, ok := t.Root(); !ok {
		return nil, structureErr("tree has no root decision")
	}

	sol := &Solution{
		store:     t.store.clone(),
		objective: s.objective,
		expected:  make([]float64, len(t.nodes)),
		total:     make([]float64, len(t.nodes)),
		choice:    make([]NodeID, len(t.nodes)),
	}
	for i := range sol.choice {
		sol.choice[i] = NoParent
	}

	for _, id := range sol.AmountNodes(AnyDepth) {
		var total float64
		for cur := sol.parent[id]; cur != NoParent; cur = sol.parent[cur] {
			if c, ok := sol.nodes[cur].(Chance); ok {
				total += c.Amount
			}
		}
		sol.total[id] = total
	}

	for depth := sol.maxDepth; depth >= 1; depth-- {
		start := time.Now()
		for _, id := range sol.AmountNodes(depth) {
			a := sol.nodes[id].(Amount)
			sol.expected[sol.parent[id]] += a.Probability * sol.total[id]
		}
		for _, id := range sol.DecisionNodes(depth) {
			if err := sol.decide(id); err != nil {
				return nil, err
			}
		}
		s.observe(depth, time.Since(start))
	}

	sol.solved = true
	return sol, nil
}

func (sol *Solution) decide(id NodeID) error {
	options := sol.children[id]
	if len(options) == 0 {
		return structureErr("decision %q has no options", sol.nodes[id].NodeName())
	}
	best := options[0]
	for _, c := range options[1:] {
		if sol.objective.better(sol.expected[c], sol.expected[best]) {
			best = c
		}
	}
	sol.choice[id] = best
	sol.expected[id] = sol.expected[best]

	if p := sol.parent[id]; p != NoParent {
		sol.expected[p] += sol.nodes[p].(Chance).PFailure() * sol.expected[id]
	}
	return nil
}

func (s *Solver) observe(depth int, d time.Duration) {
	if s.observer == nil {
		return
	}
	s.observer.ObserveDepthLatency(depth, d)
}
