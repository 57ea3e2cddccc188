package handler

import (
	"encoding/json"
	"net/http"

	"github.com/flagvault/flagvault/internal/api/middleware"
	"github.com/flagvault/flagvault/internal/api/request"
	"github.com/flagvault/flagvault/internal/api/response"
	"github.com/flagvault/flagvault/internal/services/auth"
)

// AuthHandler handles account and session endpoints
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Signup handles POST /auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req request.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" {
		WriteError(w, NewInvalidRequestError("username is required"))
		return
	}
	if req.Email == "" {
		WriteError(w, NewInvalidRequestError("email is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}

	session, err := h.authService.Signup(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AuthFromSession(session))
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Email == "" {
		WriteError(w, NewInvalidRequestError("email is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}

	session, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthFromSession(session))
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())
	h.authService.Logout(session.Token)
	response.NoContent(w)
}

// Status handles GET /auth/status. Unauthenticated requests get a plain
// authenticated=false rather than an error.
func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	if session == nil {
		response.JSON(w, http.StatusOK, response.AuthStatus{Authenticated: false})
		return
	}

	user, err := h.authService.CurrentUser(r.Context(), session.Token)
	if err != nil {
		WriteError(w, err)
		return
	}

	body := response.UserFromModel(user)
	response.JSON(w, http.StatusOK, response.AuthStatus{
		Authenticated: true,
		User:          &body,
	})
}

// Users handles GET /auth/users
func (h *AuthHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.authService.ListUsers(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	out := make([]response.User, 0, len(users))
	for _, u := range users {
		out = append(out, response.UserFromModel(u))
	}
	response.JSON(w, http.StatusOK, response.UserList{Users: out})
}

// UpdateProfile handles POST /auth/update-profile
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	session := middleware.MustGetSession(r.Context())

	user, err := h.authService.UpdateProfile(r.Context(), session.Token, req.Username, req.Email, req.Bio)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UserFromModel(user))
}
