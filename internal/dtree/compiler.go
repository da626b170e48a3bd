package dtree

import (
	"fmt"
	"strings"

	"github.com/awalterschulze/gographviz"
)

// Compiler turns a DOT digraph into a Tree.
//
// The node shape (or kind=... in its comment) selects the node kind: box for
// decisions, ellipse for chance nodes, hexagon for amounts. Chance nodes
// carry comment="p_success=..,amount=..", amount nodes
// comment="probability=..". The label, when present, is the node name.
// Children keep the order in which their edges appear in the text, so ties
// between options resolve the same way every time.
type Compiler struct{}

func NewCompiler() *Compiler { return &Compiler{} }

type dotNode struct {
	id       string
	name     string
	kind     Kind
	params   map[string]float64
	children []string
	parents  int
}

func (c *Compiler) Compile(dot string) (*Tree, error) {
	ast, err := gographviz.ParseString(dot)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse DOT: %v", ErrConfiguration, err)
	}

	g := gographviz.NewGraph()
	if err := gographviz.Analyse(ast, g); err != nil {
		return nil, fmt.Errorf("%w: failed to analyze DOT: %v", ErrConfiguration, err)
	}

	nodes := make(map[string]*dotNode, len(g.Nodes.Nodes))
	order := make([]string, 0, len(g.Nodes.Nodes))
	for _, n := range g.Nodes.Nodes {
		params, kindName, err := ParseParams(getAttr(n.Attrs, "comment"))
		if err != nil {
			return nil, fmt.Errorf("%w: node %q: %v", ErrConfiguration, n.Name, err)
		}
		if kindName == "" {
			kindName = getAttr(n.Attrs, "shape")
		}
		kind, ok := ParseKind(kindName)
		if !ok {
			return nil, configErr("node %q has no recognizable kind (shape %q)", unquote(n.Name), kindName)
		}

		name := getAttr(n.Attrs, "label")
		if name == "" {
			name = unquote(n.Name)
		}
		nodes[n.Name] = &dotNode{id: n.Name, name: name, kind: kind, params: params}
		order = append(order, n.Name)
	}
	if len(nodes) == 0 {
		return nil, structureErr("graph has no nodes")
	}

	for _, e := range g.Edges.Edges {
		from, ok := nodes[e.Src]
		if !ok {
			return nil, structureErr("edge references unknown source node %q", e.Src)
		}
		to, ok := nodes[e.Dst]
		if !ok {
			return nil, structureErr("edge references unknown destination node %q", e.Dst)
		}
		to.parents++
		if to.parents > 1 {
			return nil, structureErr("node %q has more than one parent", to.name)
		}
		from.children = append(from.children, e.Dst)
	}

	var root *dotNode
	for _, id := range order {
		n := nodes[id]
		if n.parents > 0 {
			continue
		}
		if root != nil {
			return nil, structureErr("nodes %q and %q both have no parent", root.name, n.name)
		}
		root = n
	}
	if root == nil {
		return nil, structureErr("graph has no root (every node has a parent)")
	}

	t := New()
	inserted := 0
	var visit func(n *dotNode, parent NodeID, depth int) error
	visit = func(n *dotNode, parent NodeID, depth int) error {
		id, err := t.insertCompiled(n, parent, depth)
		if err != nil {
			return err
		}
		inserted++
		childDepth := depth
		if n.kind == KindChance {
			childDepth = depth + 1
		}
		for _, cid := range n.children {
			child := nodes[cid]
			d := depth
			if child.kind == KindDecision {
				d = childDepth
			}
			if err := visit(child, id, d); err != nil {
				return err
			}
		}
		return nil
	}
	if err := visit(root, NoParent, 1); err != nil {
		return nil, err
	}
	if inserted != len(nodes) {
		return nil, structureErr("%d nodes are not reachable from root %q", len(nodes)-inserted, root.name)
	}
	return t, nil
}

func (t *Tree) insertCompiled(n *dotNode, parent NodeID, depth int) (NodeID, error) {
	switch n.kind {
	case KindDecision:
		return t.AddDecisionNode(Decision{Name: n.name, Depth: depth}, parent)
	case KindChance:
		p, ok := n.params["p_success"]
		if !ok {
			return NoParent, configErr("chance %q needs p_success", n.name)
		}
		return t.AddChanceNode(Chance{Name: n.name, Depth: depth, PSuccess: p, Amount: n.params["amount"]}, parent)
	case KindAmount:
		p, ok := n.params["probability"]
		if !ok {
			return NoParent, configErr("amount %q needs probability", n.name)
		}
		return t.AddAmountNode(Amount{Name: n.name, Depth: depth, Probability: p}, parent)
	default:
		return NoParent, configErr("node %q has unknown kind %s", n.name, n.kind)
	}
}

// getAttr reads a Graphviz attribute without its surrounding quotes.
func getAttr(attrs gographviz.Attrs, key string) string {
	val, ok := attrs[gographviz.Attr(key)]
	if !ok {
		return ""
	}
	return unquote(val)
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return dotUnescaper.Replace(s[1 : len(s)-1])
	}
	return s
}
