package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/MatrixRex/daamtrack/internal/domain"
	"github.com/MatrixRex/daamtrack/internal/storage"
)

// PriceHistoryStore implements storage.PriceHistoryStore using ClickHouse.
type PriceHistoryStore struct {
	conn *Conn
}

// NewPriceHistoryStore creates a new PriceHistoryStore.
func NewPriceHistoryStore(conn *Conn) *PriceHistoryStore {
	return &PriceHistoryStore{conn: conn}
}

// Compile-time interface check.
var _ storage.PriceHistoryStore = (*PriceHistoryStore)(nil)

// InsertBulk adds multiple points. Fails the entire batch on a duplicate
// (name, date). MergeTree does not enforce uniqueness at insert time, so
// duplicates are checked explicitly before the batch is sent.
func (s *PriceHistoryStore) InsertBulk(ctx context.Context, points []*domain.PricePoint) error {
	if len(points) == 0 {
		return nil
	}

	type key struct {
		name string
		date string
	}
	seen := make(map[key]struct{}, len(points))
	for _, p := range points {
		if p == nil || p.Name == "" || p.Date.IsZero() || p.Price < 0 {
			return storage.ErrInvalidInput
		}
		k := key{p.Name, p.Date.String()}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	for _, p := range points {
		exists, err := s.exists(ctx, p.Name, p.Date)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO price_history (name, date, price)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range points {
		if err := batch.Append(p.Name, dayToTime(p.Date), p.Price); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// QueryByName retrieves all points for an item, ordered by date ASC.
func (s *PriceHistoryStore) QueryByName(ctx context.Context, name string) ([]*domain.PricePoint, error) {
	query := `
		SELECT name, date, price
		FROM price_history
		WHERE name = ?
		ORDER BY date ASC
	`

	rows, err := s.conn.Query(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("query by name: %w", err)
	}
	defer rows.Close()

	return scanPricePoints(rows)
}

// QueryByDateRange retrieves points for an item within [start, end] inclusive.
func (s *PriceHistoryStore) QueryByDateRange(ctx context.Context, name string, start, end domain.Day) ([]*domain.PricePoint, error) {
	query := `
		SELECT name, date, price
		FROM price_history
		WHERE name = ? AND date >= ? AND date <= ?
		ORDER BY date ASC
	`

	rows, err := s.conn.Query(ctx, query, name, dayToTime(start), dayToTime(end))
	if err != nil {
		return nil, fmt.Errorf("query by date range: %w", err)
	}
	defer rows.Close()

	return scanPricePoints(rows)
}

// exists checks whether a point with the given key is already stored.
func (s *PriceHistoryStore) exists(ctx context.Context, name string, date domain.Day) (bool, error) {
	query := `
		SELECT count(*) FROM price_history
		WHERE name = ? AND date = ?
	`

	var count uint64
	if err := s.conn.QueryRow(ctx, query, name, dayToTime(date)).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// scanPricePoints scans multiple rows.
func scanPricePoints(rows chRows) ([]*domain.PricePoint, error) {
	var points []*domain.PricePoint

	for rows.Next() {
		var p domain.PricePoint
		var date time.Time

		if err := rows.Scan(&p.Name, &date, &p.Price); err != nil {
			return nil, fmt.Errorf("scan price history row: %w", err)
		}
		p.Date = domain.DayOf(date.UTC())
		points = append(points, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate price history rows: %w", err)
	}

	return points, nil
}

// dayToTime converts a Day to the UTC instant the Date column expects.
func dayToTime(d domain.Day) time.Time {
	return time.Date(d.Year(), d.Month(), d.DayOfMonth(), 0, 0, 0, 0, time.UTC)
}
