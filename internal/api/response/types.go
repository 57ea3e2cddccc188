package response

import (
	"time"

	"github.com/flagvault/flagvault/internal/model"
	"github.com/flagvault/flagvault/internal/services/auth"
	"github.com/flagvault/flagvault/internal/services/leaderboard"
)

// SubmitFlag is the flat response body for flag submissions
type SubmitFlag struct {
	Success bool   `json:"success"`
	Points  int    `json:"points"`
	Message string `json:"message"`
}

// SolvedEntry represents one credited solve in API responses
type SolvedEntry struct {
	ChallengeID string    `json:"challengeId"`
	Points      int       `json:"points"`
	Timestamp   time.Time `json:"timestamp"`
}

// User represents a user in API responses. The correct flag text is
// deliberately not echoed back.
type User struct {
	ID               string        `json:"id"`
	Username         string        `json:"username"`
	Email            string        `json:"email,omitempty"`
	Bio              string        `json:"bio,omitempty"`
	JoinDate         time.Time     `json:"joinDate"`
	SolvedChallenges []SolvedEntry `json:"solvedChallenges"`
	TotalPoints      int           `json:"totalPoints"`
}

// UserFromModel converts a model.User to a response User
func UserFromModel(u *model.User) User {
	solved := make([]SolvedEntry, 0, len(u.SolvedChallenges))
	for _, entry := range u.SolvedChallenges {
		solved = append(solved, SolvedEntry{
			ChallengeID: string(entry.ChallengeID),
			Points:      entry.Points,
			Timestamp:   entry.Timestamp,
		})
	}
	return User{
		ID:               string(u.ID),
		Username:         u.Username,
		Email:            u.Email,
		Bio:              u.Bio,
		JoinDate:         u.JoinDate,
		SolvedChallenges: solved,
		TotalPoints:      u.TotalPoints(),
	}
}

// Auth is the response for authentication endpoints
type Auth struct {
	User         User   `json:"user"`
	SessionToken string `json:"sessionToken"`
}

// AuthFromSession creates an Auth response from a session
func AuthFromSession(s *auth.Session) Auth {
	return Auth{
		User:         UserFromModel(&s.User),
		SessionToken: s.Token,
	}
}

// AuthStatus is the response for the session status endpoint
type AuthStatus struct {
	Authenticated bool  `json:"authenticated"`
	User          *User `json:"user,omitempty"`
}

// UserList is the response for listing users
type UserList struct {
	Users []User `json:"users"`
}

// Challenge represents a challenge in API responses, without its flag
type Challenge struct {
	ID         string `json:"id"`
	BasePoints int    `json:"basePoints"`
}

// ChallengeList is the response for listing challenges
type ChallengeList struct {
	Challenges []Challenge `json:"challenges"`
}

// ChallengesFromModel converts challenges, stripping the correct flags
func ChallengesFromModel(challenges []*model.Challenge) ChallengeList {
	out := make([]Challenge, 0, len(challenges))
	for _, c := range challenges {
		out = append(out, Challenge{
			ID:         string(c.ID),
			BasePoints: c.BasePoints,
		})
	}
	return ChallengeList{Challenges: out}
}

// Attempt represents one audit log entry in API responses
type Attempt struct {
	PlayerName    string    `json:"playerName"`
	ChallengeID   string    `json:"challengeId"`
	SubmittedFlag string    `json:"submittedFlag"`
	IsCorrect     bool      `json:"isCorrect"`
	Timestamp     time.Time `json:"timestamp"`
}

// AttemptList is the response for listing attempts
type AttemptList struct {
	Attempts []Attempt `json:"attempts"`
}

// AttemptsFromModel converts attempts to the response shape
func AttemptsFromModel(attempts []*model.Attempt) AttemptList {
	out := make([]Attempt, 0, len(attempts))
	for _, a := range attempts {
		out = append(out, Attempt{
			PlayerName:    a.PlayerName,
			ChallengeID:   string(a.ChallengeID),
			SubmittedFlag: a.SubmittedFlag,
			IsCorrect:     a.IsCorrect,
			Timestamp:     a.Timestamp,
		})
	}
	return AttemptList{Attempts: out}
}

// LeaderboardEntry is one row of the leaderboard response
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	Username    string `json:"username"`
	TotalPoints int    `json:"totalPoints"`
	SolveCount  int    `json:"solveCount"`
}

// Leaderboard is the response for the leaderboard endpoint
type Leaderboard struct {
	Standings []LeaderboardEntry `json:"standings"`
}

// LeaderboardFromStandings converts service standings to the response shape
func LeaderboardFromStandings(standings []leaderboard.Standing) Leaderboard {
	out := make([]LeaderboardEntry, 0, len(standings))
	for _, s := range standings {
		out = append(out, LeaderboardEntry{
			Rank:        s.Rank,
			Username:    s.Username,
			TotalPoints: s.TotalPoints,
			SolveCount:  s.SolveCount,
		})
	}
	return Leaderboard{Standings: out}
}
