package api

import (
	"context"
	"net/http"

	"github.com/okian/synthorbit/internal/domain/types"
)

// StatsDependencies defines the interface for global counts.
type StatsDependencies interface {
	GlobalStats(ctx context.Context) (types.GlobalStats, error)
}

// StatsHandler handles stats requests.
type StatsHandler struct {
	deps StatsDependencies
	resp *responder
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(deps StatsDependencies, resp *responder) *StatsHandler {
	return &StatsHandler{deps: deps, resp: resp}
}

type statsResponse struct {
	OK    bool              `json:"ok"`
	Stats types.GlobalStats `json:"stats"`
}

// HandleStats handles GET /api/stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.deps.GlobalStats(r.Context())
	if err != nil {
		h.resp.fail(w, r, Wrap("api.stats", err))
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{OK: true, Stats: stats})
}
