package auth

import (
	"context"
	"errors"
)

var (
	ErrDuplicateUser      = errors.New("username already taken")
	ErrUserNotFound       = errors.New("user does not exist")
	ErrInvalidCredentials = errors.New("incorrect password")
	ErrInsufficientFunds  = errors.New("insufficient funds")
)

// StartingBalance is granted to every self-registered account.
const StartingBalance = 100

type User struct {
	Username string
	Hash     []byte
	Balance  int64
	IsAdmin  bool
}

type UserStore interface {
	// Create fails with ErrDuplicateUser when the username is taken.
	Create(ctx context.Context, username, password string, balance int64, admin bool) error

	Get(ctx context.Context, username string) (User, bool, error)

	// Verify distinguishes a missing user (ErrUserNotFound) from a
	// password mismatch (ErrInvalidCredentials).
	Verify(ctx context.Context, username, password string) (User, error)

	// Debit atomically decrements the balance and returns the new value.
	// It fails with ErrInsufficientFunds rather than going negative.
	Debit(ctx context.Context, username string, amount int64) (int64, error)

	Ping(ctx context.Context) error
}

// SeedUsers installs the default accounts a fresh in-memory instance ships
// with: an administrator and a regular demo user.
func SeedUsers(ctx context.Context, s UserStore) error {
	if err := s.Create(ctx, "admin", "admin", 1000, true); err != nil {
		return err
	}
	return s.Create(ctx, "test", "test", StartingBalance, false)
}
