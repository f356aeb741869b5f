package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/MatrixRex/daamtrack/internal/domain"
	"github.com/MatrixRex/daamtrack/internal/idhash"
	"github.com/MatrixRex/daamtrack/internal/storage"
)

// Loader writes parsed records into the catalog and price-history stores.
type Loader struct {
	items   storage.ItemStore
	history storage.PriceHistoryStore
	logger  *log.Logger
}

// Options configures a Loader.
type Options struct {
	Items   storage.ItemStore
	History storage.PriceHistoryStore
	Logger  *log.Logger
}

// Summary reports what one Load call did.
type Summary struct {
	ItemsInserted  int
	ItemsExisting  int
	PointsInserted int
	PointsSkipped  int
}

// NewLoader builds a loader over the two stores.
func NewLoader(opts Options) (*Loader, error) {
	if opts.Items == nil || opts.History == nil {
		return nil, fmt.Errorf("ingest: both stores are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{items: opts.Items, history: opts.History, logger: logger}, nil
}

// Load upserts the catalog entries and price points found in records.
// Catalog entries are deduplicated by name, keeping the latest-dated
// record's price and metadata; already-known items are left untouched.
// Price points that collide with existing (name, date) observations are
// skipped one by one rather than failing the batch.
func (l *Loader) Load(ctx context.Context, records []Record) (Summary, error) {
	var sum Summary

	latest := make(map[string]Record, len(records))
	var nameOrder []string
	for _, rec := range records {
		prev, seen := latest[rec.Name]
		if !seen {
			nameOrder = append(nameOrder, rec.Name)
		}
		if !seen || prev.Date.Before(rec.Date) {
			latest[rec.Name] = rec
		}
	}

	for _, name := range nameOrder {
		rec := latest[name]
		item := &domain.Item{
			ID:       idhash.ComputeItemID(rec.Name, rec.Category, rec.Unit),
			Name:     rec.Name,
			Category: rec.Category,
			Unit:     rec.Unit,
			Price:    rec.Price,
			Image:    rec.Image,
		}
		err := l.items.Insert(ctx, item)
		switch {
		case err == nil:
			sum.ItemsInserted++
		case errors.Is(err, storage.ErrDuplicateKey):
			sum.ItemsExisting++
		default:
			return sum, fmt.Errorf("insert item %q: %w", rec.Name, err)
		}
	}

	points := make([]*domain.PricePoint, 0, len(records))
	for _, rec := range records {
		points = append(points, &domain.PricePoint{
			Name:  rec.Name,
			Date:  rec.Date,
			Price: rec.Price,
		})
	}

	inserted, skipped, err := l.insertPoints(ctx, points)
	sum.PointsInserted = inserted
	sum.PointsSkipped = skipped
	if err != nil {
		return sum, err
	}

	l.logger.Printf("[ingest] items: %d new, %d existing; points: %d new, %d skipped",
		sum.ItemsInserted, sum.ItemsExisting, sum.PointsInserted, sum.PointsSkipped)
	return sum, nil
}

// insertPoints tries the whole batch first and falls back to per-point
// inserts on duplicate collisions, so re-running an ingest is idempotent.
func (l *Loader) insertPoints(ctx context.Context, points []*domain.PricePoint) (inserted, skipped int, err error) {
	if len(points) == 0 {
		return 0, 0, nil
	}

	err = l.history.InsertBulk(ctx, points)
	if err == nil {
		return len(points), 0, nil
	}
	if !errors.Is(err, storage.ErrDuplicateKey) {
		return 0, 0, fmt.Errorf("insert price points: %w", err)
	}

	for _, p := range points {
		err := l.history.InsertBulk(ctx, []*domain.PricePoint{p})
		switch {
		case err == nil:
			inserted++
		case errors.Is(err, storage.ErrDuplicateKey):
			skipped++
		default:
			return inserted, skipped, fmt.Errorf("insert price point %s/%s: %w", p.Name, p.Date, err)
		}
	}
	return inserted, skipped, nil
}
