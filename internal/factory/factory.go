package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/flagvault/flagvault/internal/dependencies/clock"
	"github.com/flagvault/flagvault/internal/services/audit"
	"github.com/flagvault/flagvault/internal/services/auth"
	"github.com/flagvault/flagvault/internal/services/identity"
	"github.com/flagvault/flagvault/internal/services/leaderboard"
	"github.com/flagvault/flagvault/internal/services/progress"
	"github.com/flagvault/flagvault/internal/services/registry"
	"github.com/flagvault/flagvault/internal/services/submission"
	"github.com/flagvault/flagvault/internal/services/verify"
	"github.com/flagvault/flagvault/internal/storage"
	"github.com/flagvault/flagvault/internal/storage/memory"
	redisstorage "github.com/flagvault/flagvault/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock

	// Services
	RegistryService      *registry.Service
	VerifyService        *verify.Service
	AuditService         *audit.Service
	IdentityService      *identity.Service
	ProgressService      *progress.Service
	SubmissionController *submission.Controller
	AuthService          *auth.Service
	LeaderboardService   *leaderboard.Service
}

// Config holds configuration for the application factory
type Config struct {
	// ChallengesPath is the path to a challenge set JSON file (optional)
	// If empty, the builtin challenge set is used
	ChallengesPath string
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Load the challenge set
	var reg *registry.Service
	if cfg.ChallengesPath != "" {
		loaded, err := registry.NewFromFile(cfg.ChallengesPath)
		if err != nil {
			return nil, err
		}
		reg = loaded
	} else {
		reg = registry.Default()
	}

	// Use default auth config if not provided
	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	return newWithDependencies(store, reg, clock.New(), authCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, reg *registry.Service, clk clock.Clock, authCfg auth.Config, logger *slog.Logger) *App {
	// Create services
	verifyService := verify.New(reg)
	auditService := audit.New(store, clk)
	identityService := identity.New(store, clk)
	progressService := progress.New(store, clk)
	submissionController := submission.NewController(verifyService, auditService, identityService, progressService, logger)
	authService := auth.New(store, clk, authCfg)
	leaderboardService := leaderboard.New(store)

	return &App{
		Storage:              store,
		Clock:                clk,
		RegistryService:      reg,
		VerifyService:        verifyService,
		AuditService:         auditService,
		IdentityService:      identityService,
		ProgressService:      progressService,
		SubmissionController: submissionController,
		AuthService:          authService,
		LeaderboardService:   leaderboardService,
	}
}
