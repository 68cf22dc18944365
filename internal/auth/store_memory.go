package auth

import (
	"context"
	"strings"
	"sync"
)

type MemStore struct {
	hasher Hasher

	mu     sync.RWMutex
	byName map[string]User
}

func NewMemStore(h Hasher) *MemStore {
	return &MemStore{hasher: h, byName: make(map[string]User)}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) Create(ctx context.Context, username, password string, balance int64, admin bool) error {
	username = strings.TrimSpace(username)

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byName[username]; ok {
		return ErrDuplicateUser
	}

	s.byName[username] = User{Username: username, Hash: hash, Balance: balance, IsAdmin: admin}
	return nil
}

func (s *MemStore) Get(ctx context.Context, username string) (User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byName[username]
	return u, ok, nil
}

func (s *MemStore) Verify(ctx context.Context, username, password string) (User, error) {
	s.mu.RLock()
	u, ok := s.byName[username]
	s.mu.RUnlock()

	if !ok {
		return User{}, ErrUserNotFound
	}
	if err := s.hasher.Compare(u.Hash, password); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

// Debit holds the write lock for the whole read-check-write cycle, so two
// concurrent debits against the same username serialize and neither can
// observe a stale balance.
func (s *MemStore) Debit(ctx context.Context, username string, amount int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byName[username]
	if !ok {
		return 0, ErrUserNotFound
	}
	if u.Balance-amount < 0 {
		return 0, ErrInsufficientFunds
	}

	u.Balance -= amount
	s.byName[username] = u
	return u.Balance, nil
}
