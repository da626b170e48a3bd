package actions

import (
	"fmt"
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/awmpietro/golang-decision-tree-engine/internal/dtree"
)

const annualInflation = 1.2

func mustAction(t *testing.T, name string, pSuccess, initCost, duration float64) Action {
	t.Helper()
	a, err := NewAction(name, pSuccess, initCost, duration, annualInflation)
	require.NoError(t, err)
	return a
}

// treatmentGroup is three treatments over three years; M-CAP takes two
// years so it cannot start after the first one.
func treatmentGroup(t *testing.T, opts ...GroupOption) *Group {
	t.Helper()
	actions := []Action{
		mustAction(t, "X-NAT", 2.0/3, 50, 0),
		mustAction(t, "X-IVF", 1, 100, 0),
		mustAction(t, "M-CAP", 1.0/2, 10, 2),
	}
	canTry := func(a Action, year int) bool {
		return float64(year)+a.Duration <= 3
	}
	g, err := NewGroup(actions, append([]GroupOption{WithCanTry(canTry)}, opts...)...)
	require.NoError(t, err)
	return g
}

func trialNames(g *Group, period int) []string {
	var names []string
	for trial := range g.Trials(period) {
		names = append(names, trial.String())
	}
	return names
}

func TestNewAction_Validation(t *testing.T) {
	cases := []struct {
		name                             string
		pSuccess, cost, duration, inflat float64
	}{
		{"", 0.5, 1, 0, 1},
		{"p above one", 1.5, 1, 0, 1},
		{"p nan", math.NaN(), 1, 0, 1},
		{"infinite cost", 0.5, math.Inf(1), 0, 1},
		{"negative duration", 0.5, 1, -1, 1},
		{"negative inflation", 0.5, 1, 0, -0.1},
	}
	for _, tc := range cases {
		_, err := NewAction(tc.name, tc.pSuccess, tc.cost, tc.duration, tc.inflat)
		require.ErrorIs(t, err, dtree.ErrConfiguration, tc.name)
	}
}

func TestAction_CostInflates(t *testing.T) {
	a := mustAction(t, "X-NAT", 2.0/3, 50, 0)
	require.Equal(t, 50.0, a.Cost(1))
	require.InDelta(t, 60.0, a.Cost(2), 1e-9)
	require.InDelta(t, 72.0, a.Cost(3), 1e-9)
	require.Equal(t, "X-NAT", a.String())
}

func TestTrial_Derived(t *testing.T) {
	nat := mustAction(t, "X-NAT", 2.0/3, 50, 0)
	ivf := mustAction(t, "X-IVF", 1, 100, 0)
	mcap := mustAction(t, "M-CAP", 0.5, 10, 2)
	trial := Trial{{Action: nat, Try: true}, {Action: ivf, Try: false}, {Action: mcap, Try: true}}

	require.InDelta(t, 60.0, trial.Cost(1), 1e-9)
	require.InDelta(t, 72.0, trial.Cost(2), 1e-9)
	require.InDelta(t, 1-(1.0/3)*0.5, trial.PSuccess(), 1e-12)
	require.InDelta(t, 2.0/3*50+0.5*10, trial.ExpectedCostIfSuccess(1), 1e-9)
	require.InDelta(t, 1.0/3*50+0.5*10, trial.ExpectedCostIfFailure(1), 1e-9)
	require.Equal(t, "X-NAT, M-CAP", trial.String())
	require.Equal(t, "Trial(X-NAT = true, X-IVF = false, M-CAP = true)", trial.GoString())
	require.Equal(t, []Action{nat, mcap}, trial.Tried())

	none := Trial{{Action: nat}, {Action: ivf}}
	require.Equal(t, "No Action", none.String())
	require.Zero(t, none.PSuccess())
	require.Zero(t, none.Cost(3))
}

func TestGroup_TrialsCountIsPowerSet(t *testing.T) {
	for n := 0; n <= 6; n++ {
		actions := make([]Action, n)
		for i := range actions {
			actions[i] = Action{Name: string(rune('a' + i)), PSuccess: 0.5, InitCost: 1, CostInflation: 1}
		}
		g, err := NewGroup(actions)
		require.NoError(t, err)

		count := 0
		for range g.Trials(1) {
			count++
		}
		require.Equal(t, 1<<n, count, "n=%d", n)
	}
}

func TestGroup_TrialsOrder(t *testing.T) {
	g, err := NewGroup([]Action{
		{Name: "a", PSuccess: 0.5, CostInflation: 1},
		{Name: "b", PSuccess: 0.5, CostInflation: 1},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"No Action", "b", "a", "a, b"}, trialNames(g, 1))
}

func TestGroup_ExclusionPolicies(t *testing.T) {
	g := treatmentGroup(t, AllowNoAction(false))
	for trial := range g.Trials(1) {
		require.NotEmpty(t, trial.Tried())
	}

	g = treatmentGroup(t, AllowMultipleActions(false))
	require.Equal(t, []string{"No Action", "M-CAP", "X-IVF", "X-NAT"}, trialNames(g, 1))

	g = treatmentGroup(t, AllowNoAction(false), AllowMultipleActions(false))
	require.Equal(t, []string{"M-CAP", "X-IVF", "X-NAT"}, trialNames(g, 1))
}

func TestGroup_CanTryOnlyAsksAboutTriedActions(t *testing.T) {
	var asked []string
	g, err := NewGroup([]Action{
		{Name: "a", PSuccess: 0.5, CostInflation: 1},
		{Name: "b", PSuccess: 0.5, CostInflation: 1},
	}, WithCanTry(func(a Action, _ int) bool {
		asked = append(asked, a.Name)
		return a.Name != "b"
	}))
	require.NoError(t, err)

	require.Equal(t, []string{"No Action", "a"}, trialNames(g, 1))
	// {} asks nothing, {b} asks b, {a} asks a, {a, b} stops at b.
	require.Equal(t, []string{"b", "a", "a", "b"}, asked)
}

func TestGroup_TrialsRestartableAndBreakable(t *testing.T) {
	g := treatmentGroup(t)
	first := trialNames(g, 2)
	require.Equal(t, first, trialNames(g, 2))
	require.Equal(t, []string{"No Action", "X-IVF", "X-NAT", "X-NAT, X-IVF"}, first)

	seen := 0
	for range g.Trials(1) {
		seen++
		if seen == 2 {
			break
		}
	}
	require.Equal(t, 2, seen)
}

func TestNewGroup_Limits(t *testing.T) {
	_, err := NewGroup(make([]Action, MaxActions+1))
	require.ErrorIs(t, err, dtree.ErrConfiguration)

	_, err = NewGroup([]Action{{Name: "bad", PSuccess: 2}})
	require.ErrorIs(t, err, dtree.ErrConfiguration)

	in := []Action{{Name: "a", PSuccess: 1, CostInflation: 1}}
	g, err := NewGroup(in)
	require.NoError(t, err)
	in[0].Name = "changed"
	require.Equal(t, "a", g.Actions()[0].Name)
	require.Equal(t, 1, g.Len())
}

func TestCanTryExpr(t *testing.T) {
	canTry, err := CanTryExpr("period + duration <= 3")
	require.NoError(t, err)

	mcap := mustAction(t, "M-CAP", 0.5, 10, 2)
	require.True(t, canTry(mcap, 1))
	require.False(t, canTry(mcap, 2))

	_, err = CanTryExpr("year <= 3")
	require.ErrorIs(t, err, dtree.ErrConfiguration)

	g := treatmentGroup(t)
	withExpr, err := NewGroup(g.Actions(), WithCanTry(canTry))
	require.NoError(t, err)
	for period := 1; period <= 3; period++ {
		require.Equal(t, trialNames(g, period), trialNames(withExpr, period))
	}
}

func TestMakeTree_TreatmentScenario(t *testing.T) {
	tree, err := treatmentGroup(t).MakeTree(3)
	require.NoError(t, err)
	require.Equal(t, 93, tree.Len())
	require.Len(t, tree.DecisionNodes(dtree.AnyDepth), 13)
	require.Equal(t, 3, tree.MaxDepth())

	for _, id := range tree.ChanceNodes(3) {
		n, _ := tree.Node(id)
		require.Equal(t, 1.0, n.(dtree.Chance).PSuccess, "uncertain options are pruned at the last depth")
	}

	sol, err := tree.Solve(dtree.Minimize)
	require.NoError(t, err)

	root, err := sol.RootExpectedAmount()
	require.NoError(t, err)
	require.InDelta(t, 64.0, root, 1e-9)

	rootID, _ := sol.Root()
	choice, _ := sol.Choice(rootID)
	n, _ := sol.Node(choice)
	require.Equal(t, "M-CAP", n.NodeName())

	rows, err := sol.Amounts(true)
	require.NoError(t, err)
	require.Len(t, rows, 28)

	var firsts []float64
	for _, r := range rows {
		v := math.Round(r.Steps[0].ExpectedAmount*1e6) / 1e6
		if !slices.Contains(firsts, v) {
			firsts = append(firsts, v)
		}
	}
	slices.Sort(firsts)
	require.Equal(t, []float64{64, 78, 86, 100, 108, 110, 150, 160}, firsts)
}

func TestMakeTree_NamesAndClosedOptions(t *testing.T) {
	tree, err := treatmentGroup(t).MakeTree(2)
	require.NoError(t, err)

	rootID, _ := tree.Root()
	root, _ := tree.Node(rootID)
	require.Equal(t, "D1", root.NodeName())

	var names []string
	for _, c := range tree.Children(rootID) {
		n, _ := tree.Node(c)
		names = append(names, n.NodeName())

		var decisions int
		for _, gc := range tree.Children(c) {
			k, _ := tree.Node(gc)
			if k.Kind() == dtree.KindDecision {
				decisions++
			}
		}
		if n.(dtree.Chance).PSuccess == 1 {
			require.Zero(t, decisions, "%s cannot fail, nothing follows it", n.NodeName())
		} else {
			require.Equal(t, 1, decisions, "%s gets a follow-up decision", n.NodeName())
		}
	}
	require.Equal(t, []string{
		"No Action", "M-CAP", "X-IVF", "X-IVF, M-CAP",
		"X-NAT", "X-NAT, M-CAP", "X-NAT, X-IVF", "X-NAT, X-IVF, M-CAP",
	}, names)

	leaves := tree.AmountNodes(dtree.AnyDepth)
	first, _ := tree.Node(leaves[0])
	require.Equal(t, "P1", first.NodeName())
}

func TestMakeTree_KeepUncertainFinal(t *testing.T) {
	tree, err := treatmentGroup(t).MakeTree(3, KeepUncertainFinal())
	require.NoError(t, err)
	require.Equal(t, 141, tree.Len())

	for _, id := range tree.ChanceNodes(3) {
		n, _ := tree.Node(id)
		want := 1
		if n.(dtree.Chance).PSuccess < 1 {
			want = 2
		}
		require.Len(t, tree.Children(id), want)
	}

	sol, err := tree.Solve(dtree.Minimize)
	require.NoError(t, err)
	root, _ := sol.RootExpectedAmount()
	require.InDelta(t, 0.0, root, 1e-9, "never acting costs nothing once failures may stay open")
}

func TestMakeTree_Errors(t *testing.T) {
	_, err := treatmentGroup(t).MakeTree(0)
	require.ErrorIs(t, err, dtree.ErrConfiguration)

	g, err := NewGroup([]Action{{Name: "coin", PSuccess: 0.5, InitCost: 1, CostInflation: 1}})
	require.NoError(t, err)
	_, err = g.MakeTree(1)
	require.ErrorIs(t, err, dtree.ErrConfiguration, "every trial is uncertain at the only depth")
}

func TestMakeTree_MaxNodes(t *testing.T) {
	tree, err := treatmentGroup(t).MakeTree(3, MaxNodes(93))
	require.NoError(t, err)
	require.Equal(t, 93, tree.Len())

	_, err = treatmentGroup(t).MakeTree(3, MaxNodes(92))
	require.ErrorIs(t, err, dtree.ErrConfiguration)

	_, err = treatmentGroup(t).MakeTree(3, MaxNodes(0))
	require.NoError(t, err, "zero means no limit")
}

func TestMakeTree_MaxNodesRejectsWideGroupsUpFront(t *testing.T) {
	list := make([]Action, 40)
	for i := range list {
		list[i] = Action{Name: fmt.Sprintf("A%d", i), PSuccess: 1, InitCost: 1, CostInflation: 1}
	}
	g, err := NewGroup(list)
	require.NoError(t, err)

	_, err = g.MakeTree(1, MaxNodes(1_000))
	require.ErrorIs(t, err, dtree.ErrConfiguration)
	require.ErrorContains(t, err, "2^40 trials")
}
