package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/MatrixRex/daamtrack/internal/domain"
	"github.com/MatrixRex/daamtrack/internal/storage"
)

// PriceHistoryStore is an in-memory implementation of storage.PriceHistoryStore,
// used for tests and --use-memory mode.
type PriceHistoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]*domain.PricePoint // name -> date string -> point
}

// NewPriceHistoryStore creates a new in-memory price history store.
func NewPriceHistoryStore() *PriceHistoryStore {
	return &PriceHistoryStore{
		data: make(map[string]map[string]*domain.PricePoint),
	}
}

// Compile-time interface check.
var _ storage.PriceHistoryStore = (*PriceHistoryStore)(nil)

// InsertBulk adds multiple points. Fails the entire batch on a duplicate (name, date).
func (s *PriceHistoryStore) InsertBulk(_ context.Context, points []*domain.PricePoint) error {
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// First pass: validate and detect duplicates, existing and intra-batch.
	type key struct{ name, date string }
	batchKeys := make(map[key]struct{}, len(points))
	for _, p := range points {
		if p == nil || p.Name == "" || p.Date.IsZero() || p.Price < 0 {
			return storage.ErrInvalidInput
		}
		k := key{p.Name, p.Date.String()}
		if _, exists := s.data[p.Name][k.date]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[k]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[k] = struct{}{}
	}

	// Second pass: insert all.
	for _, p := range points {
		if s.data[p.Name] == nil {
			s.data[p.Name] = make(map[string]*domain.PricePoint)
		}
		pointCopy := *p
		s.data[p.Name][p.Date.String()] = &pointCopy
	}

	return nil
}

// QueryByName retrieves all points for an item, ordered by date ASC.
func (s *PriceHistoryStore) QueryByName(_ context.Context, name string) ([]*domain.PricePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.PricePoint, 0, len(s.data[name]))
	for _, p := range s.data[name] {
		pointCopy := *p
		result = append(result, &pointCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})

	return result, nil
}

// QueryByDateRange retrieves points for an item within [start, end] inclusive.
func (s *PriceHistoryStore) QueryByDateRange(_ context.Context, name string, start, end domain.Day) ([]*domain.PricePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.PricePoint
	for _, p := range s.data[name] {
		if p.Date.Before(start) || p.Date.After(end) {
			continue
		}
		pointCopy := *p
		result = append(result, &pointCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})

	return result, nil
}
