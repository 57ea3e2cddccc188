package model

// ChallengeID identifies a challenge by its stable string key
type ChallengeID string

// Challenge is a fixed puzzle with one correct flag and a base point value.
// The challenge set is defined once at startup and never mutated afterwards.
type Challenge struct {
	ID          ChallengeID
	CorrectFlag string
	BasePoints  int
}
