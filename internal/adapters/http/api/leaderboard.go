package api

import (
	"context"
	"net/http"

	"github.com/okian/synthorbit/internal/domain/types"
)

// LeaderboardDependencies defines the interface for leaderboard operations
type LeaderboardDependencies interface {
	Leaderboard(ctx context.Context, limit int) ([]types.LeaderEntry, error)
}

// LeaderboardHandler handles leaderboard requests
type LeaderboardHandler struct {
	deps LeaderboardDependencies
	resp *responder
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(deps LeaderboardDependencies, resp *responder) *LeaderboardHandler {
	return &LeaderboardHandler{deps: deps, resp: resp}
}

type leaderboardResponse struct {
	OK      bool                `json:"ok"`
	Leaders []types.LeaderEntry `json:"leaders"`
}

// HandleGetLeaderboard handles GET /api/leaderboard?limit=N requests.
// Without a limit the default size applies; larger limits are capped.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	limit, err := queryLimit(r, op)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	leaders, err := h.deps.Leaderboard(r.Context(), limit)
	if err != nil {
		h.resp.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, leaderboardResponse{OK: true, Leaders: leaders})
}
