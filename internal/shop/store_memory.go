package shop

import (
	"context"
	"sync"
)

type MemLog struct {
	mu      sync.RWMutex
	entries []Purchase
}

func NewMemLog() *MemLog {
	return &MemLog{}
}

func (l *MemLog) Ping(ctx context.Context) error { return nil }

func (l *MemLog) Append(ctx context.Context, p Purchase) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, p)
	return nil
}

func (l *MemLog) Recent(ctx context.Context, n int) ([]Purchase, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if n > len(l.entries) {
		n = len(l.entries)
	}

	out := make([]Purchase, 0, n)
	for i := len(l.entries) - 1; i >= len(l.entries)-n; i-- {
		out = append(out, l.entries[i])
	}
	return out, nil
}
