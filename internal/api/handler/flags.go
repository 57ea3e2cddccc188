package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/flagvault/flagvault/internal/api/middleware"
	"github.com/flagvault/flagvault/internal/api/request"
	"github.com/flagvault/flagvault/internal/api/response"
	"github.com/flagvault/flagvault/internal/model"
	"github.com/flagvault/flagvault/internal/services/audit"
	"github.com/flagvault/flagvault/internal/services/auth"
	"github.com/flagvault/flagvault/internal/services/submission"
)

// FlagHandler handles flag submission and the attempt log
type FlagHandler struct {
	controller   *submission.Controller
	auditService audit.ServiceInterface
	authService  *auth.Service
}

// NewFlagHandler creates a new flag handler
func NewFlagHandler(controller *submission.Controller, auditService audit.ServiceInterface, authService *auth.Service) *FlagHandler {
	return &FlagHandler{
		controller:   controller,
		auditService: auditService,
		authService:  authService,
	}
}

// Submit handles POST /flags/submit. Unlike the rest of the API it keeps
// the flat {success, points, message} body on both success and failure,
// which existing scoreboard clients depend on.
func (h *FlagHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req request.SubmitFlagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSubmitFailure(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	subReq := submission.Request{
		ChallengeID:    model.ChallengeID(req.ResolvedChallengeID()),
		Flag:           req.ResolvedFlag(),
		PlayerName:     req.ResolvedPlayerName(),
		Email:          req.ResolvedEmail(),
		HintDeductions: req.HintDeductions.Int(),
	}

	session := middleware.GetSession(r.Context())
	if session != nil {
		subReq.SessionUserID = session.UserID
	}

	resp, err := h.controller.Submit(r.Context(), subReq)
	if err != nil {
		switch {
		case errors.Is(err, submission.ErrMissingFields):
			writeSubmitFailure(w, http.StatusBadRequest, "Missing required fields")
		case errors.Is(err, model.ErrChallengeNotFound):
			writeSubmitFailure(w, http.StatusBadRequest, "Unknown challenge")
		default:
			writeSubmitFailure(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	if session != nil && resp.User != nil {
		h.authService.RefreshSnapshot(session.Token, resp.User)
	}

	response.JSON(w, http.StatusOK, response.SubmitFlag{
		Success: resp.Success,
		Points:  resp.Points,
		Message: resp.Message,
	})
}

// Attempts handles GET /flags/attempts
func (h *FlagHandler) Attempts(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			WriteError(w, NewInvalidRequestError("limit must be a non-negative integer"))
			return
		}
		limit = parsed
	}

	attempts, err := h.auditService.Recent(r.Context(), limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AttemptsFromModel(attempts))
}

func writeSubmitFailure(w http.ResponseWriter, status int, message string) {
	response.JSON(w, status, response.SubmitFlag{
		Success: false,
		Points:  0,
		Message: message,
	})
}
