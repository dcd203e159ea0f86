package store

import (
	"context"
	"slices"
	"sync"

	"paraiso/internal/blog/models"
)

type postKey struct {
	id     int
	locale string
}

// InMemoryStore keeps posts in a map keyed by (id, locale).
type InMemoryStore struct {
	mu    sync.RWMutex
	posts map[postKey]models.Post
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{posts: make(map[postKey]models.Post)}
}

func (s *InMemoryStore) Upsert(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts[postKey{post.ID, post.Locale}] = *post
	return nil
}

func (s *InMemoryStore) List(_ context.Context, locale string) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Post, 0)
	for _, p := range s.posts {
		if p.Locale == locale {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b models.Post) int {
		if c := b.SortTime().Compare(a.SortTime()); c != 0 {
			return c
		}
		return b.ID - a.ID
	})
	return out, nil
}

// FindBySlug matches slug in locale, or in any locale when locale is empty.
func (s *InMemoryStore) FindBySlug(_ context.Context, slug, locale string) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var match *models.Post
	for _, p := range s.posts {
		if p.Slug != slug || (locale != "" && p.Locale != locale) {
			continue
		}
		// Deterministic pick when a slug is shared across locales.
		if match == nil || p.Locale < match.Locale {
			match = &p
		}
	}
	if match == nil {
		return nil, models.ErrNotFound
	}
	return match, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id int, locale string) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.posts[postKey{id, locale}]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &p, nil
}
