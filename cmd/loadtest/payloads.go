package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/awmpietro/golang-decision-tree-engine/internal/dtree"
	"github.com/awmpietro/golang-decision-tree-engine/internal/scenario"
	"github.com/awmpietro/golang-decision-tree-engine/internal/transport/solvedto"
)

// variant is one request body the load test cycles through.
type variant struct {
	name string
	body []byte
}

// buildVariants crosses every tree source (a scenario and a DOT tree) with
// both objectives and both row filters. Empty paths select built-in trees.
func buildVariants(scenarioPath, dotPath string) ([]variant, error) {
	spec, err := loadScenario(scenarioPath)
	if err != nil {
		return nil, err
	}
	dot, err := loadDOT(dotPath)
	if err != nil {
		return nil, err
	}

	sources := []struct {
		name string
		req  solvedto.SolveRequest
	}{
		{"scenario", solvedto.SolveRequest{Scenario: spec}},
		{"dot", solvedto.SolveRequest{TreeDOT: dot}},
	}

	var out []variant
	for _, src := range sources {
		for _, maximize := range []bool{false, true} {
			for _, requireSuccess := range []bool{false, true} {
				req := src.req
				req.Maximize = maximize
				req.RequireSuccess = requireSuccess
				body, err := json.Marshal(req)
				if err != nil {
					return nil, fmt.Errorf("marshal %s payload: %w", src.name, err)
				}
				out = append(out, variant{name: variantName(src.name, maximize, requireSuccess), body: body})
			}
		}
	}
	return out, nil
}

func variantName(source string, maximize, requireSuccess bool) string {
	objective, rows := dtree.Minimize, "all"
	if maximize {
		objective = dtree.Maximize
	}
	if requireSuccess {
		rows = "success"
	}
	return fmt.Sprintf("%s/%s/%s", source, objective, rows)
}

func loadScenario(path string) (*scenario.Spec, error) {
	if path != "" {
		return scenario.Load(path)
	}
	inflation := 1.2
	return &scenario.Spec{
		Name:     "treatments",
		MaxDepth: 3,
		CanTry:   "period + duration <= 3",
		Actions: []scenario.ActionSpec{
			{Name: "X-NAT", PSuccess: 2.0 / 3, InitCost: 50, CostInflation: &inflation},
			{Name: "X-IVF", PSuccess: 1, InitCost: 100, CostInflation: &inflation},
			{Name: "M-CAP", PSuccess: 0.5, InitCost: 10, Duration: 2, CostInflation: &inflation},
		},
	}, nil
}

// loadDOT reads path, or renders a two level tree with one retry decision
// under each uncertain option.
func loadDOT(path string) (string, error) {
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read DOT file %s: %w", path, err)
		}
		return string(raw), nil
	}

	type option struct {
		name     string
		pSuccess float64
		amount   float64
	}
	steps := []struct {
		decision, parent string
		options          []option
		final            bool
	}{
		{"D1", "", []option{{"D1.a", 0.7, 50}, {"D1.b", 0.5, 20}}, false},
		{"D1.a.D2", "D1.a", []option{{"D1.a.D2.a", 1, 40}, {"D1.a.D2.b", 0.9, 25}}, true},
		{"D1.b.D2", "D1.b", []option{{"D1.b.D2.a", 1, 30}, {"D1.b.D2.b", 0.6, 15}}, true},
	}

	tree := dtree.New()
	for _, s := range steps {
		if _, err := tree.AddDecision(s.decision, s.parent); err != nil {
			return "", err
		}
		for _, o := range s.options {
			if _, err := tree.AddOption(o.name, o.pSuccess, o.amount, s.decision, s.final); err != nil {
				return "", err
			}
		}
	}
	return dtree.Render(tree)
}
