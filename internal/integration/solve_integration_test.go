package integration_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/awmpietro/golang-decision-tree-engine/internal/dtree"
	"github.com/awmpietro/golang-decision-tree-engine/internal/scenario"
)

func TestCompilerSolver_Integration(t *testing.T) {
	dot, err := os.ReadFile(filepath.Join("..", "dtree", "testdata", "fixed.dot"))
	require.NoError(t, err)

	tree, err := dtree.NewCompiler().Compile(string(dot))
	require.NoError(t, err)

	sol, err := dtree.NewSolver().Solve(tree)
	require.NoError(t, err)

	expected, err := sol.RootExpectedAmount()
	require.NoError(t, err)
	require.InDelta(t, 32.5, expected, 1e-9)
}

func TestScenarioRenderCompile_RoundTrip(t *testing.T) {
	spec, err := scenario.Load(filepath.Join("..", "scenario", "testdata", "treatments.hcl"))
	require.NoError(t, err)

	tree, err := spec.Tree()
	require.NoError(t, err)
	direct, err := dtree.NewSolver().Solve(tree)
	require.NoError(t, err)

	rendered, err := dtree.Render(direct)
	require.NoError(t, err)
	recompiled, err := dtree.NewCompiler().Compile(rendered)
	require.NoError(t, err)
	require.Equal(t, tree.Len(), recompiled.Len())

	again, err := dtree.NewSolver().Solve(recompiled)
	require.NoError(t, err)

	want, err := direct.RootExpectedAmount()
	require.NoError(t, err)
	got, err := again.RootExpectedAmount()
	require.NoError(t, err)
	require.InDelta(t, want, got, 1e-9)
	require.InDelta(t, 64.0, got, 1e-9)

	wantRows, err := direct.Amounts(true)
	require.NoError(t, err)
	gotRows, err := again.Amounts(true)
	require.NoError(t, err)
	require.Equal(t, len(wantRows), len(gotRows))
	require.Equal(t, dtree.Columns(wantRows), dtree.Columns(gotRows))
}
