package dtree

// Solution is the immutable result of solving a Tree. It carries its own
// copy of the tree structure, so the read accessors (Node, Children, Path,
// ...) describe exactly what was solved.
//
// The zero value is an unsolved Solution: every result accessor returns
// ErrNotSolved.
type Solution struct {
	store

	objective Objective
	expected  []float64
	total     []float64
	choice    []NodeID
	solved    bool
}

func (s *Solution) Objective() Objective { return s.objective }

func (s *Solution) ready(id NodeID) error {
	if s == nil || !s.solved {
		return ErrNotSolved
	}
	if !s.has(id) {
		return structureErr("node %d is not in the tree", id)
	}
	return nil
}

// ExpectedAmount returns the folded expectation of a decision or chance
// node. Amount nodes report 0; use TotalAmount for them.
func (s *Solution) ExpectedAmount(id NodeID) (float64, error) {
	if err := s.ready(id); err != nil {
		return 0, err
	}
	return s.expected[id], nil
}

// TotalAmount returns the summed chance amounts on the root path of an
// amount node.
func (s *Solution) TotalAmount(id NodeID) (float64, error) {
	if err := s.ready(id); err != nil {
		return 0, err
	}
	if s.nodes[id].Kind() != KindAmount {
		return 0, structureErr("%s %q has no total amount", s.nodes[id].Kind(), s.nodes[id].NodeName())
	}
	return s.total[id], nil
}

// RootExpectedAmount is the expected amount of the optimal strategy.
func (s *Solution) RootExpectedAmount() (float64, error) {
	if s == nil || !s.solved {
		return 0, ErrNotSolved
	}
	return s.expected[s.root], nil
}

// Choice returns the option picked at a decision node. Ties go to the
// first option in insertion order.
func (s *Solution) Choice(decision NodeID) (NodeID, error) {
	if err := s.ready(decision); err != nil {
		return NoParent, err
	}
	if s.nodes[decision].Kind() != KindDecision {
		return NoParent, structureErr("%q is not a decision", s.nodes[decision].NodeName())
	}
	return s.choice[decision], nil
}

// OptimalPath follows the chosen option from the root and, each time that
// option has a follow-up decision for its failure, the choice made there.
func (s *Solution) OptimalPath() ([]NodeID, error) {
	if s == nil || !s.solved {
		return nil, ErrNotSolved
	}
	var path []NodeID
	for cur := s.root; cur != NoParent; {
		option := s.choice[cur]
		path = append(path, option)
		cur = NoParent
		for _, c := range s.children[option] {
			if s.nodes[c].Kind() == KindDecision {
				cur = c
				break
			}
		}
	}
	return path, nil
}

// Amounts returns one row per amount node describing the options taken on
// its root path. With requireSuccess only paths whose last option is
// certain to succeed are kept.
func (s *Solution) Amounts(requireSuccess bool) ([]Row, error) {
	if s == nil || !s.solved {
		return nil, ErrNotSolved
	}
	var rows []Row
	for _, id := range s.AmountNodes(AnyDepth) {
		path, err := s.Path(id)
		if err != nil {
			return nil, err
		}
		row := Row{
			Leaf:        s.nodes[id].NodeName(),
			Probability: s.nodes[id].(Amount).Probability,
			TotalAmount: s.total[id],
		}
		var last Chance
		for _, n := range path {
			switch node := s.nodes[n].(type) {
			case Chance:
				row.Steps = append(row.Steps, Step{
					Choice:         node.Name,
					Amount:         node.Amount,
					ExpectedAmount: s.expected[n],
				})
				last = node
			case Decision, Amount:
			}
		}
		if requireSuccess && last.PSuccess < 1 {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
