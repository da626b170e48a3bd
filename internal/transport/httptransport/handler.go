package httptransport

import (
	"encoding/json"
	"net/http"

	"github.com/awmpietro/golang-decision-tree-engine/internal/app"
	"github.com/awmpietro/golang-decision-tree-engine/internal/transport/solvedto"
)

type Handler struct {
	svc app.SolveService
}

func NewHandler(svc app.SolveService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Solve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var in solvedto.SolveRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, solvedto.ErrorBody("invalid json", err))
		return
	}

	res, err := h.svc.Solve(in.App())
	if err != nil {
		writeJSON(w, solvedto.Status(err), solvedto.ErrorBody("solve failed", err))
		return
	}
	writeJSON(w, http.StatusOK, solvedto.FromResult(res))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
