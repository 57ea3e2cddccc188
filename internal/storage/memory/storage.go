package memory

import (
	"context"
	"sync"

	"github.com/flagvault/flagvault/internal/model"
	"github.com/flagvault/flagvault/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	users         map[model.UserID]*model.User
	usernameIndex map[string]model.UserID
	emailIndex    map[string]model.UserID
	credentials   map[model.UserID]*model.Credential
	attempts      []*model.Attempt
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		users:         make(map[model.UserID]*model.User),
		usernameIndex: make(map[string]model.UserID),
		emailIndex:    make(map[string]model.UserID),
		credentials:   make(map[model.UserID]*model.Credential),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.usernameIndex[user.Username]; ok && id != user.ID {
		return model.ErrUsernameExists
	}
	if user.Email != "" {
		if id, ok := s.emailIndex[user.Email]; ok && id != user.ID {
			return model.ErrEmailExists
		}
	}

	// Drop index entries the replaced record held under old values
	if existing, ok := s.users[user.ID]; ok {
		if existing.Username != user.Username {
			delete(s.usernameIndex, existing.Username)
		}
		if existing.Email != "" && existing.Email != user.Email {
			delete(s.emailIndex, existing.Email)
		}
	}

	s.users[user.ID] = user.Clone()
	s.usernameIndex[user.Username] = user.ID
	if user.Email != "" {
		s.emailIndex[user.Email] = user.ID
	}
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return user.Clone(), nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return user.Clone(), nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if email == "" {
		return nil, model.ErrUserNotFound
	}
	id, ok := s.emailIndex[email]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return user.Clone(), nil
}

func (s *Storage) ListUsers(ctx context.Context) ([]*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]*model.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u.Clone())
	}
	return users, nil
}

// AddSolvedEntry performs the append-if-absent under the storage lock, so a
// racing duplicate credit observes the first write and reports applied=false.
func (s *Storage) AddSolvedEntry(ctx context.Context, id model.UserID, entry model.SolvedEntry) (*model.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, false, model.ErrUserNotFound
	}

	if user.HasSolved(entry.ChallengeID) {
		return user.Clone(), false, nil
	}

	user.SolvedChallenges = append(user.SolvedChallenges, entry)
	return user.Clone(), true, nil
}

// Credential operations

func (s *Storage) SaveCredential(ctx context.Context, cred *model.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *cred
	s.credentials[cred.UserID] = &c
	return nil
}

func (s *Storage) GetCredential(ctx context.Context, userID model.UserID) (*model.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cred, ok := s.credentials[userID]
	if !ok {
		return nil, model.ErrCredentialNotFound
	}
	c := *cred
	return &c, nil
}

// Attempt operations

func (s *Storage) AppendAttempt(ctx context.Context, attempt *model.Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := *attempt
	s.attempts = append(s.attempts, &a)
	return nil
}

func (s *Storage) ListAttempts(ctx context.Context, limit int) ([]*model.Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.attempts)
	if limit <= 0 || limit > n {
		limit = n
	}

	// Newest first
	out := make([]*model.Attempt, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		a := *s.attempts[i]
		out = append(out, &a)
	}
	return out, nil
}
