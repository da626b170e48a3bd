package dtree

import (
	"iter"
	"slices"
)

// store is the arena shared by Tree (mutable) and Solution (frozen). It only
// exposes read accessors; insertion lives on Tree.
type store struct {
	nodes    []Node
	parent   []NodeID
	children [][]NodeID
	root     NodeID
	maxDepth int
}

func newStore() store {
	return store{root: NoParent}
}

func (s *store) clone() store {
	children := make([][]NodeID, len(s.children))
	for i, c := range s.children {
		children[i] = slices.Clone(c)
	}
	return store{
		nodes:    slices.Clone(s.nodes),
		parent:   slices.Clone(s.parent),
		children: children,
		root:     s.root,
		maxDepth: s.maxDepth,
	}
}

func (s *store) has(id NodeID) bool {
	return id >= 0 && int(id) < len(s.nodes)
}

// Root returns the root decision node, if one was inserted.
func (s *store) Root() (NodeID, bool) {
	return s.root, s.root != NoParent
}

// Len is the number of nodes of every kind.
func (s *store) Len() int { return len(s.nodes) }

// MaxDepth is the deepest depth of any inserted node.
func (s *store) MaxDepth() int { return s.maxDepth }

// Node returns the node stored at id.
func (s *store) Node(id NodeID) (Node, error) {
	if !s.has(id) {
		return nil, structureErr("node %d is not in the tree", id)
	}
	return s.nodes[id], nil
}

// DecisionNodes lists decision nodes in insertion order, optionally at one depth.
func (s *store) DecisionNodes(depth int) []NodeID { return s.nodesOf(KindDecision, depth) }

// ChanceNodes lists chance nodes in insertion order, optionally at one depth.
func (s *store) ChanceNodes(depth int) []NodeID { return s.nodesOf(KindChance, depth) }

// AmountNodes lists amount nodes in insertion order, optionally at one depth.
func (s *store) AmountNodes(depth int) []NodeID { return s.nodesOf(KindAmount, depth) }

func (s *store) nodesOf(kind Kind, depth int) []NodeID {
	var out []NodeID
	for i, n := range s.nodes {
		if n.Kind() != kind {
			continue
		}
		if depth != AnyDepth && n.NodeDepth() != depth {
			continue
		}
		out = append(out, NodeID(i))
	}
	return out
}

// Lookup finds the node called name. With depth set to AnyDepth the name must
// be unique in the whole tree, otherwise only nodes at depth are considered.
func (s *store) Lookup(name string, depth int) (NodeID, error) {
	return s.lookup(name, depth, 0)
}

func (s *store) lookup(name string, depth int, kind Kind) (NodeID, error) {
	var matches []NodeID
	for i, n := range s.nodes {
		if n.NodeName() != name {
			continue
		}
		if kind != 0 && n.Kind() != kind {
			continue
		}
		if depth != AnyDepth && n.NodeDepth() != depth {
			continue
		}
		matches = append(matches, NodeID(i))
	}
	switch len(matches) {
	case 0:
		if kind != 0 {
			return NoParent, structureErr("no %s node named %q", kind, name)
		}
		return NoParent, structureErr("no node named %q", name)
	case 1:
		return matches[0], nil
	default:
		return NoParent, &AmbiguousNameError{Name: name, Matches: matches}
	}
}

// Parent returns the single predecessor of id. The root has none.
func (s *store) Parent(id NodeID) (NodeID, error) {
	if !s.has(id) {
		return NoParent, structureErr("node %d is not in the tree", id)
	}
	p := s.parent[id]
	if p == NoParent {
		return NoParent, structureErr("node %q is the root and has no parent", s.nodes[id].NodeName())
	}
	return p, nil
}

// Children returns the direct successors of id in insertion order.
func (s *store) Children(id NodeID) []NodeID {
	if !s.has(id) {
		return nil
	}
	return slices.Clone(s.children[id])
}

// Path returns the nodes from the root down to id, both included.
func (s *store) Path(id NodeID) ([]NodeID, error) {
	if !s.has(id) {
		return nil, structureErr("node %d is not in the tree", id)
	}
	var path []NodeID
	for cur := id; cur != NoParent; cur = s.parent[cur] {
		path = append(path, cur)
	}
	slices.Reverse(path)
	return path, nil
}

// Edges yields every parent -> child pair, parents in insertion order.
func (s *store) Edges() iter.Seq2[NodeID, NodeID] {
	return func(yield func(NodeID, NodeID) bool) {
		for p, children := range s.children {
			for _, c := range children {
				if !yield(NodeID(p), c) {
					return
				}
			}
		}
	}
}

func (s *store) insert(n Node, parent NodeID) NodeID {
	id := NodeID(len(s.nodes))
	s.nodes = append(s.nodes, n)
	s.parent = append(s.parent, parent)
	s.children = append(s.children, nil)
	if parent == NoParent {
		s.root = id
	} else {
		s.children[parent] = append(s.children[parent], id)
	}
	if d := n.NodeDepth(); d > s.maxDepth {
		s.maxDepth = d
	}
	return id
}
