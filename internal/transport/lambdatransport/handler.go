package lambdatransport

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/awmpietro/golang-decision-tree-engine/internal/app"
	"github.com/awmpietro/golang-decision-tree-engine/internal/transport/solvedto"
)

type Handler struct {
	svc app.SolveService
}

func NewHandler(svc app.SolveService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Solve(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	body, err := readBody(req)
	if err != nil {
		return jsonResp(http.StatusBadRequest, solvedto.ErrorBody("invalid body", err)), nil
	}

	var in solvedto.SolveRequest
	if err := json.Unmarshal(body, &in); err != nil {
		return jsonResp(http.StatusBadRequest, solvedto.ErrorBody("invalid json", err)), nil
	}

	res, err := h.svc.Solve(in.App())
	if err != nil {
		return jsonResp(solvedto.Status(err), solvedto.ErrorBody("solve failed", err)), nil
	}
	return jsonResp(http.StatusOK, solvedto.FromResult(res)), nil
}

func readBody(req events.APIGatewayV2HTTPRequest) ([]byte, error) {
	if req.IsBase64Encoded {
		return base64.StdEncoding.DecodeString(req.Body)
	}
	return []byte(req.Body), nil
}

func jsonResp(status int, body any) events.APIGatewayV2HTTPResponse {
	b, _ := json.Marshal(body)
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    map[string]string{"content-type": "application/json"},
		Body:       string(b),
	}
}
