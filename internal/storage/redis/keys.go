package redis

import (
	"fmt"

	"github.com/flagvault/flagvault/internal/model"
)

// Key prefix for all scoring data
const keyPrefix = "flagvault"

// Key generation functions for each entity type

// userKey returns the Redis key for a User
func userKey(id model.UserID) string {
	return fmt.Sprintf("%s:user:%s", keyPrefix, id)
}

// usernameIndexKey returns the Redis key for the username -> user_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// emailIndexKey returns the Redis key for the email -> user_id index.
// Only populated for users that have an email.
func emailIndexKey(email string) string {
	return fmt.Sprintf("%s:idx:email:%s", keyPrefix, email)
}

// userSetKey returns the Redis key for the SET of all user ids
func userSetKey() string {
	return fmt.Sprintf("%s:idx:users", keyPrefix)
}

// credentialKey returns the Redis key for a user's Credential
func credentialKey(userID model.UserID) string {
	return fmt.Sprintf("%s:credential:%s", keyPrefix, userID)
}

// attemptsKey returns the Redis key for the append-only attempt LIST
func attemptsKey() string {
	return fmt.Sprintf("%s:attempts", keyPrefix)
}
