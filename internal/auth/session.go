package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
)

// tokenBytes gives 256 bits of entropy per session token, far past the point
// where collisions matter.
const tokenBytes = 32

// SessionStore maps opaque tokens to usernames. A username may hold any
// number of live tokens at once; tokens never expire in this store.
type SessionStore interface {
	// Issue mints a fresh token for the username. An existing mapping is
	// never overwritten: on the astronomically unlikely collision a new
	// token is generated instead.
	Issue(ctx context.Context, username string) (string, error)

	// Resolve is a pure lookup with no side effects.
	Resolve(ctx context.Context, token string) (string, bool, error)

	// Revoke removes the mapping and is idempotent.
	Revoke(ctx context.Context, token string) error

	Ping(ctx context.Context) error
}

func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
