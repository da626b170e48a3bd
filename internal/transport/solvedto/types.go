package solvedto

import (
	"errors"
	"net/http"

	"github.com/awmpietro/golang-decision-tree-engine/internal/app"
	"github.com/awmpietro/golang-decision-tree-engine/internal/dtree"
	"github.com/awmpietro/golang-decision-tree-engine/internal/scenario"
)

type SolveRequest struct {
	TreeDOT        string         `json:"tree_dot,omitempty"`
	Scenario       *scenario.Spec `json:"scenario,omitempty"`
	Maximize       bool           `json:"maximize,omitempty"`
	RequireSuccess bool           `json:"require_success,omitempty"`
	RenderDOT      bool           `json:"render_dot,omitempty"`
}

func (r SolveRequest) App() app.SolveRequest {
	return app.SolveRequest{
		TreeDOT:        r.TreeDOT,
		Scenario:       r.Scenario,
		Maximize:       r.Maximize,
		RequireSuccess: r.RequireSuccess,
		RenderDOT:      r.RenderDOT,
	}
}

type SolveResponse struct {
	Objective      string      `json:"objective"`
	ExpectedAmount float64     `json:"expected_amount"`
	OptimalPath    []string    `json:"optimal_path"`
	Columns        []string    `json:"columns"`
	Rows           []dtree.Row `json:"rows"`
	Nodes          int         `json:"nodes"`
	Hash           string      `json:"hash"`
	DOT            string      `json:"dot,omitempty"`
}

func FromResult(res *app.SolveResult) SolveResponse {
	rows := res.Rows
	if rows == nil {
		rows = []dtree.Row{}
	}
	return SolveResponse{
		Objective:      res.Objective.String(),
		ExpectedAmount: res.ExpectedAmount,
		OptimalPath:    res.OptimalPath,
		Columns:        res.Columns,
		Rows:           rows,
		Nodes:          res.Nodes,
		Hash:           res.Hash,
		DOT:            res.DOT,
	}
}

// ErrorBody is the JSON body of every failed request.
func ErrorBody(msg string, err error) map[string]any {
	body := map[string]any{"error": msg}
	if err != nil {
		body["details"] = err.Error()
	}
	var ambiguous *dtree.AmbiguousNameError
	if errors.As(err, &ambiguous) {
		body["matches"] = ambiguous.Matches
	}
	return body
}

// Status maps solve errors to HTTP status codes. Every domain error is the
// caller's fault; anything else is ours.
func Status(err error) int {
	switch {
	case errors.Is(err, dtree.ErrConfiguration),
		errors.Is(err, dtree.ErrStructure),
		errors.Is(err, dtree.ErrDuplicateName),
		errors.Is(err, dtree.ErrAmbiguousName),
		errors.Is(err, dtree.ErrNotSolved):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
