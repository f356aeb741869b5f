package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/MatrixRex/daamtrack/internal/domain"
	"github.com/MatrixRex/daamtrack/internal/storage"
)

// ItemStore implements storage.ItemStore using PostgreSQL.
type ItemStore struct {
	pool *Pool
}

// NewItemStore creates a new ItemStore.
func NewItemStore(pool *Pool) *ItemStore {
	return &ItemStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ItemStore = (*ItemStore)(nil)

// Insert adds a new catalog item. Returns ErrDuplicateKey if the name exists.
func (s *ItemStore) Insert(ctx context.Context, item *domain.Item) error {
	if item == nil || item.Name == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO items (item_id, name, category, unit, price, image)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.pool.Exec(ctx, query,
		item.ID,
		item.Name,
		item.Category,
		item.Unit,
		item.Price,
		item.Image,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByName retrieves an item by its unique name.
func (s *ItemStore) GetByName(ctx context.Context, name string) (*domain.Item, error) {
	query := `
		SELECT item_id, name, category, unit, price, image
		FROM items
		WHERE name = $1
	`

	row := s.pool.QueryRow(ctx, query, name)
	item, err := scanItem(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get item by name: %w", err)
	}
	return item, nil
}

// All retrieves every catalog item ordered by name ASC.
func (s *ItemStore) All(ctx context.Context) ([]*domain.Item, error) {
	query := `
		SELECT item_id, name, category, unit, price, image
		FROM items
		ORDER BY name ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []*domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate item rows: %w", err)
	}

	return items, nil
}

// scanItem scans a single item from a row.
func scanItem(row pgx.Row) (*domain.Item, error) {
	var item domain.Item
	err := row.Scan(
		&item.ID,
		&item.Name,
		&item.Category,
		&item.Unit,
		&item.Price,
		&item.Image,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}
