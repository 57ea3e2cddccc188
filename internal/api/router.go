package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/flagvault/flagvault/internal/api/handler"
	"github.com/flagvault/flagvault/internal/api/middleware"
	"github.com/flagvault/flagvault/internal/services/audit"
	"github.com/flagvault/flagvault/internal/services/auth"
	"github.com/flagvault/flagvault/internal/services/leaderboard"
	"github.com/flagvault/flagvault/internal/services/registry"
	"github.com/flagvault/flagvault/internal/services/submission"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger               *slog.Logger
	AuthService          *auth.Service
	SubmissionController *submission.Controller
	AuditService         *audit.Service
	RegistryService      *registry.Service
	LeaderboardService   *leaderboard.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	flagHandler := handler.NewFlagHandler(cfg.SubmissionController, cfg.AuditService, cfg.AuthService)
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	challengeHandler := handler.NewChallengeHandler(cfg.RegistryService)
	leaderboardHandler := handler.NewLeaderboardHandler(cfg.LeaderboardService)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	// Flag routes; submission works with or without a session
	flags := r.PathPrefix("/flags").Subrouter()
	flags.Use(optionalAuthMiddleware)
	flags.HandleFunc("/submit", flagHandler.Submit).Methods(http.MethodPost)
	flags.HandleFunc("/attempts", flagHandler.Attempts).Methods(http.MethodGet)

	// Auth routes
	r.HandleFunc("/auth/signup", authHandler.Signup).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	r.HandleFunc("/auth/users", authHandler.Users).Methods(http.MethodGet)

	status := r.Path("/auth/status").Subrouter()
	status.Use(optionalAuthMiddleware)
	status.Methods(http.MethodGet).HandlerFunc(authHandler.Status)

	authProtected := r.PathPrefix("/auth").Subrouter()
	authProtected.Use(authMiddleware)
	authProtected.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/update-profile", authHandler.UpdateProfile).Methods(http.MethodPost)

	// Read-only routes
	r.HandleFunc("/challenges", challengeHandler.List).Methods(http.MethodGet)
	r.HandleFunc("/leaderboard", leaderboardHandler.Get).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
