package model

import "time"

// UserID uniquely identifies a user across the system
type UserID string

// SolvedEntry is a permanent credit of points for one challenge.
// A user holds at most one entry per challenge, ever; entries are never
// mutated or removed once written.
type SolvedEntry struct {
	ChallengeID ChallengeID
	Flag        string
	Points      int
	Timestamp   time.Time
}

// User is a persistent player record. Email may be empty, meaning unset;
// an empty email is never indexed, so the email uniqueness rule only
// applies to users that have one.
type User struct {
	ID               UserID
	Username         string
	Email            string
	Bio              string
	JoinDate         time.Time
	SolvedChallenges []SolvedEntry
}

// HasSolved reports whether the user already holds a credit for the challenge
func (u *User) HasSolved(id ChallengeID) bool {
	for _, e := range u.SolvedChallenges {
		if e.ChallengeID == id {
			return true
		}
	}
	return false
}

// TotalPoints sums the points of all solved challenges
func (u *User) TotalPoints() int {
	total := 0
	for _, e := range u.SolvedChallenges {
		total += e.Points
	}
	return total
}

// LastSolveTime returns the timestamp of the most recent solve, or the zero
// time when the user has solved nothing
func (u *User) LastSolveTime() time.Time {
	var last time.Time
	for _, e := range u.SolvedChallenges {
		if e.Timestamp.After(last) {
			last = e.Timestamp
		}
	}
	return last
}

// Clone returns a deep copy of the user
func (u *User) Clone() *User {
	c := *u
	c.SolvedChallenges = make([]SolvedEntry, len(u.SolvedChallenges))
	copy(c.SolvedChallenges, u.SolvedChallenges)
	return &c
}

// Credential holds a user's login secret. Stored separately from User so the
// hash never rides along with session snapshots.
type Credential struct {
	UserID       UserID
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
