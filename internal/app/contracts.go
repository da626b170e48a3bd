package app

import (
	"github.com/awmpietro/golang-decision-tree-engine/internal/dtree"
	"github.com/awmpietro/golang-decision-tree-engine/internal/scenario"
)

// SolveService is what the transports need from Service.
type SolveService interface {
	Solve(req SolveRequest) (*SolveResult, error)
}

// SolveRequest names exactly one tree source: a DOT tree or a scenario
// whose tree is generated.
type SolveRequest struct {
	TreeDOT        string
	Scenario       *scenario.Spec
	Maximize       bool
	RequireSuccess bool
	RenderDOT      bool
}

type SolveResult struct {
	Objective      dtree.Objective
	ExpectedAmount float64
	OptimalPath    []string
	Rows           []dtree.Row
	Columns        []string
	DOT            string
	Hash           string
	Nodes          int
}
