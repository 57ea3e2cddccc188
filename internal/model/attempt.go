package model

import "time"

// Attempt is one immutable audit row per flag submission, correct or not.
// Rows are append-only: duplicates are expected and nothing updates or
// deletes them.
type Attempt struct {
	PlayerName    string
	ChallengeID   ChallengeID
	SubmittedFlag string // normalized form
	IsCorrect     bool
	Timestamp     time.Time
}
