package dtree

import "math"

// Tree is the mutable decision tree. It owns every node and edge; the only
// way to add structure is through the Add* methods, which either succeed
// completely or leave the tree as it was.
//
// A Tree is not safe for concurrent use. Solve snapshots it, so later
// mutations never affect an existing Solution.
type Tree struct {
	store

	numDecisions int
	numChances   int
	numAmounts   int
}

func New() *Tree {
	return &Tree{store: newStore()}
}

// AddDecisionNode inserts d under the chance node parent, or as the root when
// parent is NoParent.
func (t *Tree) AddDecisionNode(d Decision, parent NodeID) (NodeID, error) {
	if d.Depth < 1 {
		return NoParent, structureErr("decision %q has no depth", d.Name)
	}
	if parent == NoParent {
		if t.root != NoParent {
			return NoParent, structureErr("decision %q needs a parent, tree already has root %q",
				d.Name, t.nodes[t.root].NodeName())
		}
		return t.insert(d, NoParent), nil
	}
	if err := t.checkParent(d, parent, KindChance, 1); err != nil {
		return NoParent, err
	}
	return t.insert(d, parent), nil
}

// AddChanceNode inserts c as an option of the decision node parent.
func (t *Tree) AddChanceNode(c Chance, parent NodeID) (NodeID, error) {
	if c.Depth < 1 {
		return NoParent, structureErr("chance %q has no depth", c.Name)
	}
	if !ValidProbability(c.PSuccess) {
		return NoParent, configErr("chance %q p_success %v outside [0,1]", c.Name, c.PSuccess)
	}
	if math.IsNaN(c.Amount) || math.IsInf(c.Amount, 0) {
		return NoParent, configErr("chance %q amount %v is not finite", c.Name, c.Amount)
	}
	if err := t.checkParent(c, parent, KindDecision, 0); err != nil {
		return NoParent, err
	}
	return t.insert(c, parent), nil
}

// AddAmountNode inserts a as an outcome of the chance node parent.
func (t *Tree) AddAmountNode(a Amount, parent NodeID) (NodeID, error) {
	if a.Depth < 1 {
		return NoParent, structureErr("amount %q has no depth", a.Name)
	}
	if !ValidProbability(a.Probability) {
		return NoParent, configErr("amount %q probability %v outside [0,1]", a.Name, a.Probability)
	}
	if err := t.checkParent(a, parent, KindChance, 0); err != nil {
		return NoParent, err
	}
	return t.insert(a, parent), nil
}

// checkParent enforces the legal edge kinds and the depth layout the solver
// folds over: options and outcomes share their parent's depth, follow-up
// decisions sit one level below the option that failed. below is the depth
// difference between child and parent.
func (t *Tree) checkParent(child Node, parent NodeID, want Kind, below int) error {
	if !t.has(parent) {
		return structureErr("parent %d of %s %q is not in the tree", parent, child.Kind(), child.NodeName())
	}
	p := t.nodes[parent]
	if p.Kind() != want {
		return structureErr("%s %q cannot be a child of %s %q", child.Kind(), child.NodeName(), p.Kind(), p.NodeName())
	}
	if wantDepth := p.NodeDepth() + below; child.NodeDepth() != wantDepth {
		return structureErr("%s %q has depth %d, expected %d under %q",
			child.Kind(), child.NodeName(), child.NodeDepth(), wantDepth, p.NodeName())
	}
	return nil
}

// NextDecisionNumber returns the next decision sequence number (1-based).
func (t *Tree) NextDecisionNumber() int {
	t.numDecisions++
	return t.numDecisions
}

// NextChanceNumber returns the next chance sequence number (1-based).
func (t *Tree) NextChanceNumber() int {
	t.numChances++
	return t.numChances
}

// NextAmountNumber returns the next amount sequence number (1-based).
func (t *Tree) NextAmountNumber() int {
	t.numAmounts++
	return t.numAmounts
}
