package lambdatransport

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/aws/aws-lambda-go/events"

	"github.com/awmpietro/golang-decision-tree-engine/internal/app"
	"github.com/awmpietro/golang-decision-tree-engine/internal/dtree"
)

type svcStub struct {
	solveFn func(req app.SolveRequest) (*app.SolveResult, error)
}

func (s *svcStub) Solve(req app.SolveRequest) (*app.SolveResult, error) {
	return s.solveFn(req)
}

func echoStub() *svcStub {
	return &svcStub{solveFn: func(req app.SolveRequest) (*app.SolveResult, error) {
		if req.TreeDOT == "" {
			return nil, fmt.Errorf("%w: tree_dot or scenario is required", dtree.ErrConfiguration)
		}
		return &app.SolveResult{Objective: dtree.Maximize, ExpectedAmount: 68, OptimalPath: []string{"D1.a"}, Hash: "hash-1"}, nil
	}}
}

func TestHandler_Solve_InvalidJSON(t *testing.T) {
	h := NewHandler(echoStub())

	resp, err := h.Solve(context.Background(), events.APIGatewayV2HTTPRequest{Body: "{"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("expected status 400, got %d", resp.StatusCode)
	}
}

func TestHandler_Solve_InvalidBase64(t *testing.T) {
	h := NewHandler(echoStub())

	resp, err := h.Solve(context.Background(), events.APIGatewayV2HTTPRequest{Body: "%%%", IsBase64Encoded: true})
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("expected status 400, got %d", resp.StatusCode)
	}
}

func TestHandler_Solve_Base64Body(t *testing.T) {
	h := NewHandler(echoStub())

	body := base64.StdEncoding.EncodeToString([]byte(`{"tree_dot":"digraph{}","maximize":true}`))
	resp, err := h.Solve(context.Background(), events.APIGatewayV2HTTPRequest{Body: body, IsBase64Encoded: true})
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	if resp.Headers["content-type"] != "application/json" {
		t.Fatalf("unexpected headers: %#v", resp.Headers)
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(resp.Body), &out); err != nil {
		t.Fatal(err)
	}
	if out["objective"] != "maximize" || out["expected_amount"] != 68.0 || out["hash"] != "hash-1" {
		t.Fatalf("unexpected response: %#v", out)
	}
}

func TestHandler_Solve_ServiceErrorIsBadRequest(t *testing.T) {
	h := NewHandler(echoStub())

	resp, err := h.Solve(context.Background(), events.APIGatewayV2HTTPRequest{Body: `{}`})
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("expected status 400, got %d", resp.StatusCode)
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(resp.Body), &out); err != nil {
		t.Fatal(err)
	}
	if out["error"] != "solve failed" {
		t.Fatalf("unexpected error body: %#v", out)
	}
}
