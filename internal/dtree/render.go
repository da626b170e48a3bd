package dtree

import (
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/awalterschulze/gographviz"
)

// Graph is the read-only view needed to draw a tree. Both *Tree and
// *Solution implement it.
type Graph interface {
	Root() (NodeID, bool)
	Len() int
	Node(id NodeID) (Node, error)
	Edges() iter.Seq2[NodeID, NodeID]
}

var (
	_ Graph = (*Tree)(nil)
	_ Graph = (*Solution)(nil)
)

// Render writes g as a DOT digraph that Compiler can read back. When g is a
// solved Solution, nodes get an xlabel with their expected (or total)
// amount and the chosen options are drawn bold.
func Render(g Graph) (string, error) {
	out := gographviz.NewEscape()
	if err := out.SetName("Tree"); err != nil {
		return "", err
	}
	if err := out.SetDir(true); err != nil {
		return "", err
	}

	sol, _ := g.(*Solution)
	solved := sol != nil && sol.solved

	for i := 0; i < g.Len(); i++ {
		id := NodeID(i)
		n, err := g.Node(id)
		if err != nil {
			return "", err
		}
		attrs := nodeAttrs(n)
		if solved {
			attrs["xlabel"] = dotQuote(sol.amountLabel(id))
		}
		if err := out.AddNode("Tree", dotID(id), attrs); err != nil {
			return "", fmt.Errorf("render node %q: %w", n.NodeName(), err)
		}
	}

	for from, to := range g.Edges() {
		attrs := map[string]string{}
		if solved && sol.choice[from] == to {
			attrs["style"] = "bold"
		}
		if err := out.AddEdge(dotID(from), dotID(to), true, attrs); err != nil {
			return "", fmt.Errorf("render edge %d->%d: %w", from, to, err)
		}
	}

	return out.String(), nil
}

func dotID(id NodeID) string { return "n" + strconv.Itoa(int(id)) }

var (
	dotEscaper   = strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	dotUnescaper = strings.NewReplacer(`\\`, `\`, `\"`, `"`)
)

// dotQuote writes s as a DOT string literal. gographviz leaves string
// literals alone, so every attribute Render writes is read back verbatim by
// unquote.
func dotQuote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}

func nodeAttrs(n Node) map[string]string {
	attrs := map[string]string{"label": dotQuote(n.NodeName())}
	switch node := n.(type) {
	case Decision:
		attrs["shape"] = "box"
		attrs["color"] = "red"
	case Chance:
		attrs["shape"] = "ellipse"
		attrs["color"] = "blue"
		attrs["comment"] = dotQuote(FormatParams(
			Param{Key: "p_success", Value: node.PSuccess},
			Param{Key: "amount", Value: node.Amount},
		))
	case Amount:
		attrs["shape"] = "hexagon"
		attrs["color"] = "green"
		attrs["comment"] = dotQuote(FormatParams(Param{Key: "probability", Value: node.Probability}))
	}
	return attrs
}

func (s *Solution) amountLabel(id NodeID) string {
	switch node := s.nodes[id].(type) {
	case Decision:
		return fmt.Sprintf("%.2f", s.expected[id])
	case Chance:
		return fmt.Sprintf("%.2f, %.2f", node.Amount, s.expected[id])
	case Amount:
		return fmt.Sprintf("%.2f", s.total[id])
	default:
		return ""
	}
}
