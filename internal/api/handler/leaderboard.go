package handler

import (
	"net/http"

	"github.com/flagvault/flagvault/internal/api/response"
	"github.com/flagvault/flagvault/internal/services/leaderboard"
)

// LeaderboardHandler handles the scoreboard endpoint
type LeaderboardHandler struct {
	leaderboard leaderboard.ServiceInterface
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(leaderboard leaderboard.ServiceInterface) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboard: leaderboard,
	}
}

// Get handles GET /leaderboard
func (h *LeaderboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	standings, err := h.leaderboard.Standings(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LeaderboardFromStandings(standings))
}
