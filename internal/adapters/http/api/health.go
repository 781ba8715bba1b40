package api

import (
	"context"
	"net/http"

	service "github.com/okian/synthorbit/internal/app"
	"github.com/okian/synthorbit/internal/domain/types"
	"github.com/okian/synthorbit/pkg/logger"
)

// HealthDependencies defines the interface for liveness checks.
type HealthDependencies interface {
	Health(ctx context.Context) (service.HealthReport, error)
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	deps HealthDependencies
	resp *responder
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(deps HealthDependencies, resp *responder) *HealthHandler {
	return &HealthHandler{deps: deps, resp: resp}
}

type healthResponse struct {
	OK  bool            `json:"ok"`
	DB  string          `json:"db"`
	UTC types.Timestamp `json:"utc"`
}

// HandleHealth handles GET /api/health. An unreachable database answers 503
// with the same fields and ok=false.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	report, err := h.deps.Health(r.Context())
	resp := healthResponse{OK: err == nil, DB: report.DB, UTC: types.NewTimestamp(report.UTC)}
	if err != nil {
		h.resp.logger.Warn(r.Context(), "health check failed", logger.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
