package auth

import (
	"context"
	"sync"
)

type MemSessionStore struct {
	mu      sync.RWMutex
	byToken map[string]string
}

func NewMemSessionStore() *MemSessionStore {
	return &MemSessionStore{byToken: make(map[string]string)}
}

func (s *MemSessionStore) Ping(ctx context.Context) error { return nil }

func (s *MemSessionStore) Issue(ctx context.Context, username string) (string, error) {
	for {
		tok, err := newToken()
		if err != nil {
			return "", err
		}

		s.mu.Lock()
		if _, taken := s.byToken[tok]; !taken {
			s.byToken[tok] = username
			s.mu.Unlock()
			return tok, nil
		}
		s.mu.Unlock()
	}
}

func (s *MemSessionStore) Resolve(ctx context.Context, token string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	username, ok := s.byToken[token]
	return username, ok, nil
}

func (s *MemSessionStore) Revoke(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.byToken, token)
	return nil
}
