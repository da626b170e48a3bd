package dtree

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAmounts_FixedTree(t *testing.T) {
	sol, err := buildFixed(t).Solve(Minimize)
	require.NoError(t, err)

	rows, err := sol.Amounts(false)
	require.NoError(t, err)
	require.Len(t, rows, 10)

	byLeaf := map[string]Row{}
	for _, r := range rows {
		byLeaf[r.Leaf] = r
	}

	first := byLeaf["D1.a.success"]
	require.Len(t, first.Steps, 1)
	require.Equal(t, 50.0, first.TotalAmount)
	require.Equal(t, 0.7, first.Probability)

	deep := byLeaf["D1.b.D2.b.failure"]
	require.Equal(t, []string{"D1.b", "D1.b.D2.b"}, []string{deep.Steps[0].Choice, deep.Steps[1].Choice})
	require.Equal(t, 45.0, deep.TotalAmount)
	require.InDelta(t, 32.5, deep.Steps[0].ExpectedAmount, 1e-9)
	require.InDelta(t, 45.0, deep.Steps[1].ExpectedAmount, 1e-9)

	require.Equal(t, []string{
		"choice_1", "amount_1", "expected_amount_1",
		"choice_2", "amount_2", "expected_amount_2",
	}, Columns(rows))
}

func TestAmounts_RequireSuccess(t *testing.T) {
	sol, err := buildFixed(t).Solve(Minimize)
	require.NoError(t, err)
	rows, err := sol.Amounts(true)
	require.NoError(t, err)
	require.Empty(t, rows, "no option of the fixed tree is certain")

	tree := New()
	_, err = tree.AddDecision("D1", "")
	require.NoError(t, err)
	_, err = tree.AddOption("sure", 1, 30, "D1", true)
	require.NoError(t, err)
	_, err = tree.AddOption("maybe", 0.5, 10, "D1", true)
	require.NoError(t, err)

	sol, err = tree.Solve(Minimize)
	require.NoError(t, err)
	rows, err = sol.Amounts(true)
	require.NoError(t, err)
	require.Len(t, rows, 2, "both outcomes of the certain option are kept")
	for _, r := range rows {
		require.Equal(t, "sure", r.Steps[0].Choice)
	}
}

func TestRow_GetAndJSON(t *testing.T) {
	row := Row{Steps: []Step{
		{Choice: "b", Amount: 20, ExpectedAmount: 32.5},
		{Choice: "a", Amount: 60, ExpectedAmount: 80},
	}}

	v, ok := row.Get("choice_2")
	require.True(t, ok)
	require.Equal(t, "a", v)
	_, ok = row.Get("choice_3")
	require.False(t, ok)

	raw, err := json.Marshal(row)
	require.NoError(t, err)
	require.Equal(t,
		`{"choice_1":"b","amount_1":20,"expected_amount_1":32.5,"choice_2":"a","amount_2":60,"expected_amount_2":80}`,
		string(raw))
}

func TestColumns_Empty(t *testing.T) {
	require.Empty(t, Columns(nil))
}
