package leaderboard

import (
	"context"
	"sort"

	"github.com/flagvault/flagvault/internal/storage"
)

// Standing is one row of the leaderboard
type Standing struct {
	Rank        int
	Username    string
	TotalPoints int
	SolveCount  int
}

// Service projects the user records into a ranked scoreboard
type Service struct {
	storage storage.Storage
}

// New creates a new leaderboard service
func New(storage storage.Storage) *Service {
	return &Service{
		storage: storage,
	}
}

// Standings returns all users ranked by total points, highest first.
// Ties break towards whoever reached their score earlier.
func (s *Service) Standings(ctx context.Context) ([]Standing, error) {
	users, err := s.storage.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	sort.Slice(users, func(i, j int) bool {
		pi, pj := users[i].TotalPoints(), users[j].TotalPoints()
		if pi != pj {
			return pi > pj
		}
		ti, tj := users[i].LastSolveTime(), users[j].LastSolveTime()
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return users[i].Username < users[j].Username
	})

	standings := make([]Standing, 0, len(users))
	for i, user := range users {
		standings = append(standings, Standing{
			Rank:        i + 1,
			Username:    user.Username,
			TotalPoints: user.TotalPoints(),
			SolveCount:  len(user.SolvedChallenges),
		})
	}
	return standings, nil
}

// Interface for dependency injection
type ServiceInterface interface {
	Standings(ctx context.Context) ([]Standing, error)
}

var _ ServiceInterface = (*Service)(nil)
