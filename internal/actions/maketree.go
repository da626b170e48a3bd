package actions

import (
	"fmt"

	"github.com/awmpietro/golang-decision-tree-engine/internal/dtree"
)

type treeConfig struct {
	keepUncertainFinal bool
	maxNodes           int
}

type TreeOption func(*treeConfig)

// KeepUncertainFinal keeps trials that may fail at the last depth and
// closes them with a failure outcome. By default those trials are left out
// since no later decision could handle their failure.
func KeepUncertainFinal() TreeOption {
	return func(c *treeConfig) {
		c.keepUncertainFinal = true
	}
}

// MaxNodes caps the size of the generated tree. MakeTree fails with
// ErrConfiguration as soon as the tree would grow past n nodes, or up front
// when a single decision would have to enumerate more than n trials.
// n <= 0 means no cap.
func MaxNodes(n int) TreeOption {
	return func(c *treeConfig) {
		c.maxNodes = n
	}
}

func (c treeConfig) fits(tree *dtree.Tree) error {
	if c.maxNodes > 0 && tree.Len() > c.maxNodes {
		return fmt.Errorf("%w: tree exceeds %d nodes", dtree.ErrConfiguration, c.maxNodes)
	}
	return nil
}

// MakeTree builds the decision tree of trying the group's actions over
// maxDepth periods.
//
// Each depth adds one decision D<n> below every option of the previous
// depth that can still fail, with one option per trial of that period.
// Options are named after their trial and cost what the trial costs in that
// period; outcomes are named P<n>.
func (g *Group) MakeTree(maxDepth int, opts ...TreeOption) (*dtree.Tree, error) {
	if maxDepth < 1 {
		return nil, fmt.Errorf("%w: max depth %d must be at least 1", dtree.ErrConfiguration, maxDepth)
	}
	var cfg treeConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if n := g.Len(); cfg.maxNodes > 0 && (n >= 63 || uint64(1)<<n > uint64(cfg.maxNodes)) {
		return nil, fmt.Errorf("%w: %d actions give 2^%d trials per decision, over the %d node limit",
			dtree.ErrConfiguration, n, n, cfg.maxNodes)
	}

	tree := dtree.New()
	open := []dtree.NodeID{dtree.NoParent}

	for depth := 1; depth <= maxDepth; depth++ {
		var next []dtree.NodeID
		for _, parent := range open {
			if parent != dtree.NoParent {
				n, err := tree.Node(parent)
				if err != nil {
					return nil, err
				}
				if n.(dtree.Chance).PSuccess == 1 {
					continue
				}
			}

			name := fmt.Sprintf("D%d", tree.NextDecisionNumber())
			decision, err := tree.AddDecisionNode(dtree.Decision{Name: name, Depth: depth}, parent)
			if err != nil {
				return nil, err
			}
			if err := cfg.fits(tree); err != nil {
				return nil, err
			}

			options, err := g.addOptions(tree, decision, depth, depth == maxDepth, cfg)
			if err != nil {
				return nil, err
			}
			if len(options) == 0 {
				return nil, fmt.Errorf("%w: decision %s at depth %d has no admissible trial", dtree.ErrConfiguration, name, depth)
			}
			next = append(next, options...)
		}
		open = next
	}

	return tree, nil
}

func (g *Group) addOptions(tree *dtree.Tree, decision dtree.NodeID, depth int, last bool, cfg treeConfig) ([]dtree.NodeID, error) {
	var options []dtree.NodeID
	for trial := range g.Trials(depth) {
		p := trial.PSuccess()
		uncertain := p < 1
		if last && uncertain && !cfg.keepUncertainFinal {
			continue
		}

		chance := dtree.Chance{Name: trial.String(), Depth: depth, PSuccess: p, Amount: trial.Cost(depth)}
		id, err := tree.AddChanceNode(chance, decision)
		if err != nil {
			return nil, err
		}
		options = append(options, id)

		if _, err := tree.AddAmountNode(dtree.Amount{
			Name:        fmt.Sprintf("P%d", tree.NextAmountNumber()),
			Depth:       depth,
			Probability: p,
		}, id); err != nil {
			return nil, err
		}
		if err := cfg.fits(tree); err != nil {
			return nil, err
		}
		if !last || !uncertain {
			continue
		}
		if _, err := tree.AddAmountNode(dtree.Amount{
			Name:        fmt.Sprintf("P%d", tree.NextAmountNumber()),
			Depth:       depth,
			Probability: chance.PFailure(),
		}, id); err != nil {
			return nil, err
		}
		if err := cfg.fits(tree); err != nil {
			return nil, err
		}
	}
	return options, nil
}
