package progress

import (
	"context"

	"github.com/flagvault/flagvault/internal/dependencies/clock"
	"github.com/flagvault/flagvault/internal/model"
	"github.com/flagvault/flagvault/internal/storage"
)

// CreditResult reports whether a solve was newly credited and the state
// of the user record afterwards
type CreditResult struct {
	Applied       bool
	PointsAwarded int
	User          *model.User
}

// Service maintains each user's solve history. Credit for a challenge is
// applied at most once per user; the append-if-absent check happens inside
// the storage layer so concurrent submissions cannot double-credit.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
}

// New creates a new progress service
func New(storage storage.Storage, clock clock.Clock) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
	}
}

// Credit records a correct solve against the user. If the user already
// holds credit for the challenge, nothing changes and Applied is false.
func (s *Service) Credit(ctx context.Context, userID model.UserID, challengeID model.ChallengeID, normalizedFlag string, points int) (*CreditResult, error) {
	entry := model.SolvedEntry{
		ChallengeID: challengeID,
		Flag:        normalizedFlag,
		Points:      points,
		Timestamp:   s.clock.Now(),
	}

	user, applied, err := s.storage.AddSolvedEntry(ctx, userID, entry)
	if err != nil {
		return nil, err
	}

	result := &CreditResult{
		Applied: applied,
		User:    user,
	}
	if applied {
		result.PointsAwarded = points
	}
	return result, nil
}

// Interface for dependency injection
type ServiceInterface interface {
	Credit(ctx context.Context, userID model.UserID, challengeID model.ChallengeID, normalizedFlag string, points int) (*CreditResult, error)
}

var _ ServiceInterface = (*Service)(nil)
