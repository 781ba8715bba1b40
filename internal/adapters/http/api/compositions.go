package api

import (
	"context"
	"net/http"

	"github.com/okian/synthorbit/internal/domain/model"
	"github.com/okian/synthorbit/internal/domain/types"
)

// CompositionDependencies defines the interface for the composition store.
type CompositionDependencies interface {
	SaveComposition(ctx context.Context, c model.Composition) (model.Composition, error)
	ListCompositions(ctx context.Context, limit int) ([]types.CompositionSummary, error)
	GetComposition(ctx context.Context, id int64) (model.Composition, error)
}

// CompositionsHandler handles composition requests.
type CompositionsHandler struct {
	deps CompositionDependencies
	resp *responder
}

// NewCompositionsHandler creates a new compositions handler.
func NewCompositionsHandler(deps CompositionDependencies, resp *responder) *CompositionsHandler {
	return &CompositionsHandler{deps: deps, resp: resp}
}

type saveCompositionRequest struct {
	PerformerID model.Loose `json:"performerId"`
	Title       model.Loose `json:"title"`
	BPM         model.Loose `json:"bpm"`
	SynthType   model.Loose `json:"synthType"`
	Grid        model.Loose `json:"grid"`
	Scene       model.Loose `json:"scene"`
}

type saveCompositionResponse struct {
	OK            bool  `json:"ok"`
	CompositionID int64 `json:"compositionId"`
}

type compositionsResponse struct {
	OK           bool                       `json:"ok"`
	Compositions []types.CompositionSummary `json:"compositions"`
}

type compositionResponse struct {
	OK          bool              `json:"ok"`
	Composition model.Composition `json:"composition"`
}

// HandleSave handles POST /api/compositions.
func (h *CompositionsHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	const op = "api.save_composition"
	var req saveCompositionRequest
	decodeBody(r, &req)

	c, err := h.deps.SaveComposition(r.Context(), model.Composition{
		PerformerID: req.PerformerID.ID(),
		Title:       req.Title.Text(),
		BPM:         req.BPM.Int(),
		SynthType:   req.SynthType.Text(),
		Grid:        req.Grid.Raw(),
		Scene:       req.Scene.Raw(),
	})
	if err != nil {
		h.resp.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, saveCompositionResponse{OK: true, CompositionID: c.ID})
}

// HandleList handles GET /api/compositions?limit=N.
func (h *CompositionsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_compositions"
	limit, err := queryLimit(r, op)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	list, err := h.deps.ListCompositions(r.Context(), limit)
	if err != nil {
		h.resp.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, compositionsResponse{OK: true, Compositions: list})
}

// HandleGet handles GET /api/compositions/{id}.
func (h *CompositionsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_composition"
	c, err := h.deps.GetComposition(r.Context(), pathID(r))
	if err != nil {
		h.resp.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, compositionResponse{OK: true, Composition: c})
}
