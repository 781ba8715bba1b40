package api

import (
	"context"
	"net/http"

	"github.com/okian/synthorbit/internal/domain/model"
)

// PerformerDependencies defines the interface for performer registration.
type PerformerDependencies interface {
	RegisterPerformer(ctx context.Context, name, dni string) (model.Performer, error)
}

// PerformersHandler handles performer requests.
type PerformersHandler struct {
	deps PerformerDependencies
	resp *responder
}

// NewPerformersHandler creates a new performers handler.
func NewPerformersHandler(deps PerformerDependencies, resp *responder) *PerformersHandler {
	return &PerformersHandler{deps: deps, resp: resp}
}

type registerRequest struct {
	Name model.Loose `json:"name"`
	DNI  model.Loose `json:"dni"`
}

type registerResponse struct {
	OK          bool   `json:"ok"`
	PerformerID int64  `json:"performerId"`
	Name        string `json:"name"`
	DNI         string `json:"dni"`
}

// HandleRegister handles POST /api/performers/register.
func (h *PerformersHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	const op = "api.register_performer"
	var req registerRequest
	decodeBody(r, &req)

	p, err := h.deps.RegisterPerformer(r.Context(), req.Name.Text(), req.DNI.Text())
	if err != nil {
		h.resp.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, registerResponse{OK: true, PerformerID: p.ID, Name: p.Name, DNI: p.DNI})
}
