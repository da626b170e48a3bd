package dtree

import (
	"fmt"
	"math"
)

const (
	successSuffix = ".success"
	failureSuffix = ".failure"
)

// AddDecision adds a decision called name. With an empty parentName it
// becomes the root at depth 1, otherwise it is the follow-up decision of the
// chance node called parentName.
func (t *Tree) AddDecision(name, parentName string) (NodeID, error) {
	if err := t.checkFreeName(name); err != nil {
		return NoParent, err
	}
	if parentName == "" {
		return t.AddDecisionNode(Decision{Name: name, Depth: 1}, NoParent)
	}
	parent, err := t.lookup(parentName, AnyDepth, KindChance)
	if err != nil {
		return NoParent, err
	}
	return t.AddDecisionNode(Decision{Name: name, Depth: t.nodes[parent].NodeDepth() + 1}, parent)
}

// AddOption adds an option of the decision parentName with its success
// outcome. A final option also gets a failure outcome, since no later
// decision handles its failure.
func (t *Tree) AddOption(name string, pSuccess, amount float64, parentName string, final bool) (NodeID, error) {
	if !ValidProbability(pSuccess) {
		return NoParent, configErr("option %q p_success %v outside [0,1]", name, pSuccess)
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return NoParent, configErr("option %q amount %v is not finite", name, amount)
	}
	names := []string{name, name + successSuffix}
	if final {
		names = append(names, name+failureSuffix)
	}
	for _, n := range names {
		if err := t.checkFreeName(n); err != nil {
			return NoParent, err
		}
	}
	parent, err := t.lookup(parentName, AnyDepth, KindDecision)
	if err != nil {
		return NoParent, err
	}

	depth := t.nodes[parent].NodeDepth()
	chance := Chance{Name: name, Depth: depth, PSuccess: pSuccess, Amount: amount}
	if err := t.checkParent(chance, parent, KindDecision, 0); err != nil {
		return NoParent, err
	}
	id := t.insert(chance, parent)
	t.insert(Amount{Name: name + successSuffix, Depth: depth, Probability: pSuccess}, id)
	if final {
		t.insert(Amount{Name: name + failureSuffix, Depth: depth, Probability: chance.PFailure()}, id)
	}
	return id, nil
}

func (t *Tree) checkFreeName(name string) error {
	if name == "" {
		return configErr("node name is empty")
	}
	for _, n := range t.nodes {
		if n.NodeName() == name {
			return fmt.Errorf("%w: %q already exists at depth %d", ErrDuplicateName, name, n.NodeDepth())
		}
	}
	return nil
}
