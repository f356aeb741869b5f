// Package search provides the in-memory catalog index backing item
// autocomplete. The catalog is small (hundreds of items), so the index is
// a ranked linear scan rebuilt wholesale whenever the catalog changes.
package search

import (
	"sort"
	"strings"
	"sync"

	"github.com/MatrixRex/daamtrack/internal/domain"
)

// Match ranks, strongest first. Name matches always outrank category
// matches of the same kind.
const (
	rankNameExact = iota
	rankNamePrefix
	rankNameWordPrefix
	rankNameSubstring
	rankCategoryExact
	rankCategoryPrefix
	rankCategorySubstring
	rankNone
)

// Index answers ranked case-insensitive lookups over the item catalog.
type Index struct {
	mu    sync.RWMutex
	items []domain.Item
}

// NewIndex builds an index over a snapshot of the catalog.
func NewIndex(items []domain.Item) *Index {
	idx := &Index{}
	idx.Reload(items)
	return idx
}

// Reload swaps in a fresh catalog snapshot.
func (idx *Index) Reload(items []domain.Item) {
	snapshot := make([]domain.Item, len(items))
	copy(snapshot, items)
	idx.mu.Lock()
	idx.items = snapshot
	idx.mu.Unlock()
}

// Len reports the catalog size.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.items)
}

// Search returns up to limit items matching the query, best matches
// first. Ties keep alphabetical name order so results are stable. An
// empty query returns the whole catalog (up to limit) alphabetically;
// limit <= 0 means no cap.
func (idx *Index) Search(query string, limit int) []domain.Item {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	query = strings.ToLower(strings.TrimSpace(query))

	type scored struct {
		item domain.Item
		rank int
	}
	matches := make([]scored, 0, len(idx.items))
	for _, item := range idx.items {
		rank := rankOf(item, query)
		if rank == rankNone {
			continue
		}
		matches = append(matches, scored{item: item, rank: rank})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].rank != matches[j].rank {
			return matches[i].rank < matches[j].rank
		}
		return matches[i].item.Name < matches[j].item.Name
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]domain.Item, len(matches))
	for i, m := range matches {
		out[i] = m.item
	}
	return out
}

func rankOf(item domain.Item, query string) int {
	if query == "" {
		return rankNameSubstring
	}
	name := strings.ToLower(item.Name)
	category := strings.ToLower(item.Category)

	switch {
	case name == query:
		return rankNameExact
	case strings.HasPrefix(name, query):
		return rankNamePrefix
	case wordPrefix(name, query):
		return rankNameWordPrefix
	case strings.Contains(name, query):
		return rankNameSubstring
	case category == query:
		return rankCategoryExact
	case strings.HasPrefix(category, query):
		return rankCategoryPrefix
	case strings.Contains(category, query):
		return rankCategorySubstring
	}
	return rankNone
}

// wordPrefix reports whether any word after the first starts with query.
func wordPrefix(name, query string) bool {
	words := strings.Fields(name)
	if len(words) < 2 {
		return false
	}
	for _, word := range words[1:] {
		if strings.HasPrefix(word, query) {
			return true
		}
	}
	return false
}
