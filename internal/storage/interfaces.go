package storage

import (
	"context"

	"github.com/MatrixRex/daamtrack/internal/domain"
)

// ItemStore provides access to the item catalog.
type ItemStore interface {
	// Insert adds a new catalog item. Returns ErrDuplicateKey if the name exists.
	Insert(ctx context.Context, item *domain.Item) error

	// GetByName retrieves an item by its unique name. Returns ErrNotFound if absent.
	GetByName(ctx context.Context, name string) (*domain.Item, error)

	// All retrieves every catalog item ordered by name ASC.
	All(ctx context.Context) ([]*domain.Item, error)
}

// PriceHistoryStore provides access to the columnar price_history storage.
// This is the "query engine" boundary of the chart pipeline: everything
// above it sees only ordered (date, price) points per item name.
type PriceHistoryStore interface {
	// InsertBulk adds multiple points. Fails the entire batch on a
	// duplicate (name, date), returning ErrDuplicateKey.
	InsertBulk(ctx context.Context, points []*domain.PricePoint) error

	// QueryByName retrieves all points for an item, ordered by date ASC.
	// An item with no history yields an empty slice, not an error.
	QueryByName(ctx context.Context, name string) ([]*domain.PricePoint, error)

	// QueryByDateRange retrieves points for an item within [start, end]
	// (inclusive), ordered by date ASC.
	QueryByDateRange(ctx context.Context, name string, start, end domain.Day) ([]*domain.PricePoint, error)
}
