package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/MatrixRex/daamtrack/internal/domain"
	"github.com/MatrixRex/daamtrack/internal/storage"
)

// ItemStore is an in-memory implementation of storage.ItemStore.
type ItemStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Item // keyed by name
}

// NewItemStore creates a new in-memory item store.
func NewItemStore() *ItemStore {
	return &ItemStore{data: make(map[string]*domain.Item)}
}

// Compile-time interface check.
var _ storage.ItemStore = (*ItemStore)(nil)

// Insert adds a new catalog item. Returns ErrDuplicateKey if the name exists.
func (s *ItemStore) Insert(_ context.Context, item *domain.Item) error {
	if item == nil || item.Name == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[item.Name]; exists {
		return storage.ErrDuplicateKey
	}
	itemCopy := *item
	s.data[item.Name] = &itemCopy
	return nil
}

// GetByName retrieves an item by its unique name.
func (s *ItemStore) GetByName(_ context.Context, name string) (*domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.data[name]
	if !ok {
		return nil, storage.ErrNotFound
	}
	itemCopy := *item
	return &itemCopy, nil
}

// All retrieves every catalog item ordered by name ASC.
func (s *ItemStore) All(_ context.Context) ([]*domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Item, 0, len(s.data))
	for _, item := range s.data {
		itemCopy := *item
		result = append(result, &itemCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result, nil
}
