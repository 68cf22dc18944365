package catalog

import (
	"context"
	"sort"
	"sync"
)

type MemStore struct {
	mu sync.RWMutex
	m  map[int]Product
}

func NewMemStore() *MemStore {
	s := &MemStore{m: make(map[int]Product)}
	for _, p := range seedProducts() {
		s.m[p.ID] = p
	}
	return s
}

func seedProducts() []Product {
	return []Product{
		{ID: 0, Name: "Toaster", Description: "It does everything! Well, it toasts. Just that, really.", Price: 23, ImageRef: "toaster.jpg"},
		{ID: 1, Name: "Stapler", Description: "Excuse me, I believe we have what will soon be your favorite stapler!", Price: 12, ImageRef: "stapler.jpg"},
		{ID: 2, Name: "One Sock", Description: "Have you ever lost one sock, but you can't replace it because they're only sold in pairs? Well look no further!", Price: 2, ImageRef: "sock.jpg"},
		{ID: 3, Name: "Laptop", Description: "A perfect gift for your friend who doesn't have enough screens in their life.", Price: 800, ImageRef: "laptop.jpg"},
		{ID: 4, Name: "Worm on a String", Description: "You will never find a closer confidant, a more dutiful servant, or a more loyal friend than this worm on a string.", Price: 1, ImageRef: "worm_on_string.jpg"},
		{ID: 5, Name: "Grand Piano", Description: "At $170, this piano is a steal! Seriously, at that price it must be stolen right? Or haunted? What's the catch?", Price: 170, ImageRef: "piano.jpg"},
		{ID: 6, Name: "Oud", Description: "It's like a guitar, except you now get confused looks when you bring it to jam night.", Price: 65, ImageRef: "oud.jpg"},
		{ID: 7, Name: "Sewall Hall", Description: "Yep, we're selling the entirety of Sewall hall! Students not included. No refunds.", Price: 1000000, ImageRef: "sewall_hall.jpg"},
	}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) Get(ctx context.Context, id int) (Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.m[id]
	return p, ok, nil
}

func (s *MemStore) ListSortedByID(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, 0, len(s.m))
	for _, p := range s.m {
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemStore) UpdateDescription(ctx context.Context, id int, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.m[id]
	if !ok {
		return ErrNotFound
	}

	p.Description = description
	s.m[id] = p
	return nil
}
