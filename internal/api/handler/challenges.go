package handler

import (
	"net/http"

	"github.com/flagvault/flagvault/internal/api/response"
	"github.com/flagvault/flagvault/internal/services/registry"
)

// ChallengeHandler handles challenge listing
type ChallengeHandler struct {
	registry registry.ServiceInterface
}

// NewChallengeHandler creates a new challenge handler
func NewChallengeHandler(registry registry.ServiceInterface) *ChallengeHandler {
	return &ChallengeHandler{
		registry: registry,
	}
}

// List handles GET /challenges. Correct flags never leave the server.
func (h *ChallengeHandler) List(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.ChallengesFromModel(h.registry.List()))
}
