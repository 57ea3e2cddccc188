package audit

import (
	"context"

	"github.com/flagvault/flagvault/internal/dependencies/clock"
	"github.com/flagvault/flagvault/internal/model"
	"github.com/flagvault/flagvault/internal/storage"
)

// Service records every flag submission, correct or not, in an
// append-only attempt log
type Service struct {
	storage storage.Storage
	clock   clock.Clock
}

// New creates a new audit service
func New(storage storage.Storage, clock clock.Clock) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
	}
}

// Record appends one attempt to the log. The flag is expected to already
// be in normalized form.
func (s *Service) Record(ctx context.Context, playerName string, challengeID model.ChallengeID, normalizedFlag string, isCorrect bool) error {
	return s.storage.AppendAttempt(ctx, &model.Attempt{
		PlayerName:    playerName,
		ChallengeID:   challengeID,
		SubmittedFlag: normalizedFlag,
		IsCorrect:     isCorrect,
		Timestamp:     s.clock.Now(),
	})
}

// Recent returns the most recent attempts, newest first. A limit of zero
// returns the whole log.
func (s *Service) Recent(ctx context.Context, limit int) ([]*model.Attempt, error) {
	return s.storage.ListAttempts(ctx, limit)
}

// Interface for dependency injection
type ServiceInterface interface {
	Record(ctx context.Context, playerName string, challengeID model.ChallengeID, normalizedFlag string, isCorrect bool) error
	Recent(ctx context.Context, limit int) ([]*model.Attempt, error)
}

var _ ServiceInterface = (*Service)(nil)
