package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/flagvault/flagvault/internal/model"
	"github.com/flagvault/flagvault/internal/storage"
)

// ErrTooMuchContention is returned when an optimistic transaction keeps
// losing its watch within the configured retry budget
var ErrTooMuchContention = errors.New("storage contention: retries exhausted")

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) maxRetries() int {
	if s.cfg.MaxCreditRetries > 0 {
		return s.cfg.MaxCreditRetries
	}
	return DefaultConfig().MaxCreditRetries
}

// User operations

// SaveUser inserts or replaces a user, enforcing the username and email
// uniqueness rules. The check and write run inside a WATCH transaction so a
// racing save of the same username or email fails cleanly rather than
// silently overwriting an index entry.
func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	watched := []string{userKey(user.ID), usernameIndexKey(user.Username)}
	if user.Email != "" {
		watched = append(watched, emailIndexKey(user.Email))
	}

	txf := func(tx *redis.Tx) error {
		if holder, err := tx.Get(ctx, usernameIndexKey(user.Username)).Result(); err == nil {
			if holder != string(user.ID) {
				return model.ErrUsernameExists
			}
		} else if !errors.Is(err, redis.Nil) {
			return err
		}

		if user.Email != "" {
			if holder, err := tx.Get(ctx, emailIndexKey(user.Email)).Result(); err == nil {
				if holder != string(user.ID) {
					return model.ErrEmailExists
				}
			} else if !errors.Is(err, redis.Nil) {
				return err
			}
		}

		// Previous record, for releasing index entries it held under old values
		var existing *model.User
		if prev, err := tx.Get(ctx, userKey(user.ID)).Bytes(); err == nil {
			var u model.User
			if err := json.Unmarshal(prev, &u); err != nil {
				return err
			}
			existing = &u
		} else if !errors.Is(err, redis.Nil) {
			return err
		}

		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if existing != nil {
				if existing.Username != user.Username {
					pipe.Del(ctx, usernameIndexKey(existing.Username))
				}
				if existing.Email != "" && existing.Email != user.Email {
					pipe.Del(ctx, emailIndexKey(existing.Email))
				}
			}
			pipe.Set(ctx, userKey(user.ID), data, 0)
			pipe.Set(ctx, usernameIndexKey(user.Username), string(user.ID), 0)
			if user.Email != "" {
				pipe.Set(ctx, emailIndexKey(user.Email), string(user.ID), 0)
			}
			pipe.SAdd(ctx, userSetKey(), string(user.ID))
			return nil
		})
		return err
	}

	for i := 0; i < s.maxRetries(); i++ {
		err := s.client.Watch(ctx, txf, watched...)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return ErrTooMuchContention
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	data, err := s.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	idStr, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	return s.GetUser(ctx, model.UserID(idStr))
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	if email == "" {
		return nil, model.ErrUserNotFound
	}

	idStr, err := s.client.Get(ctx, emailIndexKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	return s.GetUser(ctx, model.UserID(idStr))
}

func (s *Storage) ListUsers(ctx context.Context) ([]*model.User, error) {
	ids, err := s.client.SMembers(ctx, userSetKey()).Result()
	if err != nil {
		return nil, err
	}

	users := make([]*model.User, 0, len(ids))
	for _, id := range ids {
		user, err := s.GetUser(ctx, model.UserID(id))
		if err != nil {
			if errors.Is(err, model.ErrUserNotFound) {
				continue
			}
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// AddSolvedEntry appends the entry only if the user holds no entry for that
// challenge yet. The re-read, membership check and write run under WATCH on
// the user key; when a concurrent writer wins, the transaction aborts and
// the loop re-reads the fresh record, so a duplicate credit always lands on
// applied=false rather than a second entry.
func (s *Storage) AddSolvedEntry(ctx context.Context, id model.UserID, entry model.SolvedEntry) (*model.User, bool, error) {
	key := userKey(id)

	var (
		result  *model.User
		applied bool
	)

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrUserNotFound
			}
			return err
		}

		var user model.User
		if err := json.Unmarshal(data, &user); err != nil {
			return err
		}

		if user.HasSolved(entry.ChallengeID) {
			result = &user
			applied = false
			return nil
		}

		user.SolvedChallenges = append(user.SolvedChallenges, entry)
		updated, err := json.Marshal(&user)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, 0)
			return nil
		})
		if err != nil {
			return err
		}

		result = &user
		applied = true
		return nil
	}

	for i := 0; i < s.maxRetries(); i++ {
		result = nil
		applied = false

		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, false, err
		}
		return result, applied, nil
	}
	return nil, false, ErrTooMuchContention
}

// Credential operations

func (s *Storage) SaveCredential(ctx context.Context, cred *model.Credential) error {
	data, err := json.Marshal(cred)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, credentialKey(cred.UserID), data, 0).Err()
}

func (s *Storage) GetCredential(ctx context.Context, userID model.UserID) (*model.Credential, error) {
	data, err := s.client.Get(ctx, credentialKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrCredentialNotFound
		}
		return nil, err
	}

	var cred model.Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, err
	}
	return &cred, nil
}

// Attempt operations

func (s *Storage) AppendAttempt(ctx context.Context, attempt *model.Attempt) error {
	data, err := json.Marshal(attempt)
	if err != nil {
		return err
	}

	return s.client.RPush(ctx, attemptsKey(), data).Err()
}

func (s *Storage) ListAttempts(ctx context.Context, limit int) ([]*model.Attempt, error) {
	start := int64(0)
	if limit > 0 {
		start = -int64(limit)
	}

	rows, err := s.client.LRange(ctx, attemptsKey(), start, -1).Result()
	if err != nil {
		return nil, err
	}

	// LRange returns oldest first; callers want newest first
	attempts := make([]*model.Attempt, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		var a model.Attempt
		if err := json.Unmarshal([]byte(rows[i]), &a); err != nil {
			return nil, err
		}
		attempts = append(attempts, &a)
	}
	return attempts, nil
}
