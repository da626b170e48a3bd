package dtree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func nodeNames(t *testing.T, g Graph) []string {
	t.Helper()
	names := make([]string, 0, g.Len())
	for i := 0; i < g.Len(); i++ {
		n, err := g.Node(NodeID(i))
		require.NoError(t, err)
		names = append(names, n.NodeName())
	}
	return names
}

func TestRender_RoundTrip(t *testing.T) {
	tree := buildFixed(t)

	dot, err := Render(tree)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(dot, "digraph Tree"))

	back, err := NewCompiler().Compile(dot)
	require.NoError(t, err)
	require.ElementsMatch(t, nodeNames(t, tree), nodeNames(t, back))

	for i := 0; i < tree.Len(); i++ {
		want, _ := tree.Node(NodeID(i))
		id, err := back.Lookup(want.NodeName(), AnyDepth)
		require.NoError(t, err)
		got, _ := back.Node(id)
		require.Equal(t, want, got)
	}

	sol, err := back.Solve(Minimize)
	require.NoError(t, err)
	root, _ := sol.RootExpectedAmount()
	require.InDelta(t, 32.5, root, 1e-9)
}

func TestRender_RoundTrip_WholeNumbersAndSpecialNames(t *testing.T) {
	tree := New()
	root, err := tree.AddDecisionNode(Decision{Name: `R&amp;D "lab"`, Depth: 1}, NoParent)
	require.NoError(t, err)
	sure, err := tree.AddChanceNode(Chance{Name: "X-NAT, M-CAP", Depth: 1, PSuccess: 1, Amount: 10}, root)
	require.NoError(t, err)
	_, err = tree.AddAmountNode(Amount{Name: `a<b> \ c`, Depth: 1, Probability: 1}, sure)
	require.NoError(t, err)
	maybe, err := tree.AddChanceNode(Chance{Name: "it's 50/50", Depth: 1, PSuccess: 0.5, Amount: 4}, root)
	require.NoError(t, err)
	_, err = tree.AddAmountNode(Amount{Name: "win", Depth: 1, Probability: 0.5}, maybe)
	require.NoError(t, err)
	_, err = tree.AddAmountNode(Amount{Name: "lose", Depth: 1, Probability: 0.5}, maybe)
	require.NoError(t, err)

	dot, err := Render(tree)
	require.NoError(t, err)
	require.Contains(t, dot, `comment="p_success=1,amount=10"`)

	back, err := NewCompiler().Compile(dot)
	require.NoError(t, err)
	require.ElementsMatch(t, nodeNames(t, tree), nodeNames(t, back))

	id, err := back.Lookup("X-NAT, M-CAP", AnyDepth)
	require.NoError(t, err)
	got, err := back.Node(id)
	require.NoError(t, err)
	require.Equal(t, Chance{Name: "X-NAT, M-CAP", Depth: 1, PSuccess: 1, Amount: 10}, got)

	_, err = back.Lookup(`R&amp;D "lab"`, AnyDepth)
	require.NoError(t, err, "entity-like text survives unchanged")
	_, err = back.Lookup(`a<b> \ c`, AnyDepth)
	require.NoError(t, err)

	want, err := tree.Solve(Minimize)
	require.NoError(t, err)
	sol, err := back.Solve(Minimize)
	require.NoError(t, err)
	wantRoot, _ := want.RootExpectedAmount()
	gotRoot, _ := sol.RootExpectedAmount()
	require.InDelta(t, wantRoot, gotRoot, 1e-9)
}

func TestRender_SolvedTreeMarksChoices(t *testing.T) {
	sol, err := buildFixed(t).Solve(Minimize)
	require.NoError(t, err)

	dot, err := Render(sol)
	require.NoError(t, err)

	require.Contains(t, dot, "xlabel")
	require.Contains(t, dot, "32.50")
	require.Equal(t, 3, strings.Count(dot, "bold"), "one chosen option per decision")

	_, err = NewCompiler().Compile(dot)
	require.NoError(t, err)
}

func TestRender_PlainTreeHasNoAmounts(t *testing.T) {
	dot, err := Render(buildFixed(t))
	require.NoError(t, err)
	require.NotContains(t, dot, "xlabel")
	require.NotContains(t, dot, "bold")
}
