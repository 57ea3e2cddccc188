package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/flagvault/flagvault/internal/dependencies/clock"
	"github.com/flagvault/flagvault/internal/model"
	"github.com/flagvault/flagvault/internal/storage"
)

// Query carries the identifying information available for one submission.
// SessionUserID is set when the caller presented a valid session; Email
// and DisplayName come from the request body.
type Query struct {
	SessionUserID model.UserID
	Email         string
	DisplayName   string
}

// Resolution is the outcome of resolving a query to a user record
type Resolution struct {
	User    *model.User
	Created bool
}

// strategy attempts one way of matching a query to an existing user.
// Returning (nil, false, nil) means the strategy does not apply or found
// no match and the chain should continue.
type strategy interface {
	resolve(ctx context.Context, q Query) (*model.User, bool, error)
}

// Service maps a submission's identifying information to exactly one user
// record, creating one when nothing matches. Strategies run in a fixed
// order and the first match wins.
type Service struct {
	storage    storage.Storage
	clock      clock.Clock
	strategies []strategy
}

// New creates a new identity service
func New(storage storage.Storage, clock clock.Clock) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		strategies: []strategy{
			&bySession{storage: storage},
			&byEmail{storage: storage},
			&byUsername{storage: storage},
		},
	}
}

// Resolve finds or creates the user a submission should be credited to.
// Lookup order is session, then email, then username. When an email is
// present but matches nobody, resolution goes straight to creating a new
// account rather than matching someone else's username.
func (s *Service) Resolve(ctx context.Context, q Query) (*Resolution, error) {
	for _, strat := range s.strategies {
		user, matched, err := strat.resolve(ctx, q)
		if err != nil {
			return nil, err
		}
		if matched {
			return &Resolution{User: user}, nil
		}
	}

	return s.create(ctx, q)
}

func (s *Service) create(ctx context.Context, q Query) (*Resolution, error) {
	user := &model.User{
		ID:       model.UserID(uuid.NewString()),
		Username: q.DisplayName,
		Email:    q.Email,
		JoinDate: s.clock.Now(),
	}

	err := s.storage.SaveUser(ctx, user)
	if err == nil {
		return &Resolution{User: user, Created: true}, nil
	}

	// A concurrent submission may have created the record between our
	// lookup and the save. Re-resolve against whichever identifier lost
	// the race.
	switch {
	case errors.Is(err, model.ErrEmailExists):
		existing, lookupErr := s.storage.GetUserByEmail(ctx, q.Email)
		if lookupErr != nil {
			return nil, err
		}
		return &Resolution{User: existing}, nil
	case errors.Is(err, model.ErrUsernameExists):
		existing, lookupErr := s.storage.GetUserByUsername(ctx, q.DisplayName)
		if lookupErr != nil {
			return nil, err
		}
		return &Resolution{User: existing}, nil
	}
	return nil, err
}

// bySession matches the authenticated user's id, when a session is present
type bySession struct {
	storage storage.Storage
}

func (b *bySession) resolve(ctx context.Context, q Query) (*model.User, bool, error) {
	if q.SessionUserID == "" {
		return nil, false, nil
	}

	user, err := b.storage.GetUser(ctx, q.SessionUserID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return user, true, nil
}

// byEmail matches on the submitted email address
type byEmail struct {
	storage storage.Storage
}

func (b *byEmail) resolve(ctx context.Context, q Query) (*model.User, bool, error) {
	if q.Email == "" {
		return nil, false, nil
	}

	user, err := b.storage.GetUserByEmail(ctx, q.Email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return user, true, nil
}

// byUsername matches on the submitted display name. It only applies when
// no email was given: an email that matched nobody means this is a new
// account, not a claim on whoever happens to share the display name.
type byUsername struct {
	storage storage.Storage
}

func (b *byUsername) resolve(ctx context.Context, q Query) (*model.User, bool, error) {
	if q.Email != "" || q.DisplayName == "" {
		return nil, false, nil
	}

	user, err := b.storage.GetUserByUsername(ctx, q.DisplayName)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return user, true, nil
}

// Interface for dependency injection
type ServiceInterface interface {
	Resolve(ctx context.Context, q Query) (*Resolution, error)
}

var _ ServiceInterface = (*Service)(nil)
