package store

import (
	"context"
	"slices"
	"sync"

	"paraiso/internal/charcuterie/models"
)

type productKey struct {
	id     int
	locale string
}

// InMemoryStore keeps products keyed by (id, locale).
type InMemoryStore struct {
	mu       sync.RWMutex
	products map[productKey]models.Product
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{products: make(map[productKey]models.Product)}
}

func (s *InMemoryStore) Upsert(_ context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[productKey{product.ID, product.Locale}] = *product
	return nil
}

func (s *InMemoryStore) List(_ context.Context, locale string) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Product, 0)
	for _, p := range s.products {
		if p.Locale == locale {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, models.Compare)
	return out, nil
}
