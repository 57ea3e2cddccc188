package verify

import (
	"github.com/flagvault/flagvault/internal/flagnorm"
	"github.com/flagvault/flagvault/internal/model"
	"github.com/flagvault/flagvault/internal/services/registry"
)

// Result is the outcome of checking one submitted flag
type Result struct {
	ChallengeID   model.ChallengeID
	SubmittedFlag string // normalized form
	IsCorrect     bool
	Points        int
}

// Service checks submitted flags against the registry. Verification is
// pure: identical inputs always produce identical results, and no state
// changes as a side effect of checking.
type Service struct {
	registry registry.ServiceInterface
}

// New creates a new verification service
func New(registry registry.ServiceInterface) *Service {
	return &Service{
		registry: registry,
	}
}

// Verify normalizes the submitted flag, compares it byte-for-byte against
// the challenge's correct flag, and computes the awarded points. Hint
// deductions below zero are treated as zero; awarded points never go
// negative. An incorrect flag always scores zero.
func (s *Service) Verify(challengeID model.ChallengeID, rawFlag string, hintDeductions int) (*Result, error) {
	challenge, err := s.registry.Get(challengeID)
	if err != nil {
		return nil, err
	}

	normalized := flagnorm.Normalize(rawFlag)

	result := &Result{
		ChallengeID:   challengeID,
		SubmittedFlag: normalized,
		IsCorrect:     normalized == challenge.CorrectFlag,
	}

	if result.IsCorrect {
		if hintDeductions < 0 {
			hintDeductions = 0
		}
		points := challenge.BasePoints - hintDeductions
		if points < 0 {
			points = 0
		}
		result.Points = points
	}

	return result, nil
}

// Interface for dependency injection
type ServiceInterface interface {
	Verify(challengeID model.ChallengeID, rawFlag string, hintDeductions int) (*Result, error)
}

var _ ServiceInterface = (*Service)(nil)
