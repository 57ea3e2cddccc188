package storage

import (
	"context"

	"github.com/flagvault/flagvault/internal/model"
)

// Storage defines the interface for data persistence.
//
// Implementations must enforce the uniqueness rules on User.Username and on
// non-empty User.Email, and must make AddSolvedEntry atomic: when two
// concurrent credits race for the same user and challenge, at most one call
// reports applied=true and the user never ends up with two entries for one
// challenge.
type Storage interface {
	// User operations
	//
	// SaveUser inserts or replaces a user. It fails with
	// model.ErrUsernameExists or model.ErrEmailExists when another user
	// already holds the username or (non-empty) email.
	SaveUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)

	// AddSolvedEntry appends the entry to the user's solved challenges only
	// if no entry with that challenge ID exists yet. It returns the user
	// record as stored after the call and whether the entry was applied.
	AddSolvedEntry(ctx context.Context, id model.UserID, entry model.SolvedEntry) (*model.User, bool, error)

	// Credential operations
	SaveCredential(ctx context.Context, cred *model.Credential) error
	GetCredential(ctx context.Context, userID model.UserID) (*model.Credential, error)

	// Attempt operations (append-only audit log)
	AppendAttempt(ctx context.Context, attempt *model.Attempt) error
	// ListAttempts returns up to limit attempts, newest first. limit <= 0
	// means no limit.
	ListAttempts(ctx context.Context, limit int) ([]*model.Attempt, error)
}
