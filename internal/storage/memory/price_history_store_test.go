package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MatrixRex/daamtrack/internal/domain"
	"github.com/MatrixRex/daamtrack/internal/storage"
)

func day(y int, m time.Month, d int) domain.Day {
	return domain.NewDay(y, m, d)
}

func TestPriceHistoryStore_InsertBulkAndQuery(t *testing.T) {
	store := NewPriceHistoryStore()
	ctx := context.Background()

	points := []*domain.PricePoint{
		{Name: "Miniket Rice", Date: day(2024, time.January, 3), Price: 75},
		{Name: "Miniket Rice", Date: day(2024, time.January, 1), Price: 70},
		{Name: "Soybean Oil", Date: day(2024, time.January, 1), Price: 190},
	}

	if err := store.InsertBulk(ctx, points); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	result, err := store.QueryByName(ctx, "Miniket Rice")
	if err != nil {
		t.Fatalf("QueryByName failed: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("expected 2 points, got %d", len(result))
	}
	// Ordered by date ASC regardless of insert order.
	if !result[0].Date.Before(result[1].Date) {
		t.Errorf("points not ordered: %s then %s", result[0].Date, result[1].Date)
	}
	if result[0].Price != 70 {
		t.Errorf("first price = %v, want 70", result[0].Price)
	}
}

func TestPriceHistoryStore_QueryUnknownNameIsEmpty(t *testing.T) {
	store := NewPriceHistoryStore()

	result, err := store.QueryByName(context.Background(), "nope")
	if err != nil {
		t.Fatalf("QueryByName failed: %v", err)
	}
	if len(result) != 0 {
		t.Errorf("expected empty result, got %d points", len(result))
	}
}

func TestPriceHistoryStore_DuplicateKey(t *testing.T) {
	store := NewPriceHistoryStore()
	ctx := context.Background()

	points := []*domain.PricePoint{
		{Name: "Tomato", Date: day(2024, time.February, 1), Price: 80},
	}
	if err := store.InsertBulk(ctx, points); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}

	err := store.InsertBulk(ctx, points)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestPriceHistoryStore_IntraBatchDuplicate(t *testing.T) {
	store := NewPriceHistoryStore()

	points := []*domain.PricePoint{
		{Name: "Tomato", Date: day(2024, time.February, 1), Price: 80},
		{Name: "Tomato", Date: day(2024, time.February, 1), Price: 85},
	}
	err := store.InsertBulk(context.Background(), points)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}

	// Failed batch must not leave partial data behind.
	result, _ := store.QueryByName(context.Background(), "Tomato")
	if len(result) != 0 {
		t.Errorf("expected no points after failed batch, got %d", len(result))
	}
}

func TestPriceHistoryStore_InvalidInput(t *testing.T) {
	store := NewPriceHistoryStore()

	err := store.InsertBulk(context.Background(), []*domain.PricePoint{
		{Name: "", Date: day(2024, time.January, 1), Price: 10},
	})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty name, got %v", err)
	}

	err = store.InsertBulk(context.Background(), []*domain.PricePoint{
		{Name: "Salt", Date: day(2024, time.January, 1), Price: -5},
	})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for negative price, got %v", err)
	}
}

func TestPriceHistoryStore_QueryByDateRange(t *testing.T) {
	store := NewPriceHistoryStore()
	ctx := context.Background()

	var points []*domain.PricePoint
	for i := 1; i <= 10; i++ {
		points = append(points, &domain.PricePoint{
			Name: "Sugar", Date: day(2024, time.March, i), Price: float64(100 + i),
		})
	}
	if err := store.InsertBulk(ctx, points); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	result, err := store.QueryByDateRange(ctx, "Sugar", day(2024, time.March, 3), day(2024, time.March, 6))
	if err != nil {
		t.Fatalf("QueryByDateRange failed: %v", err)
	}
	if len(result) != 4 {
		t.Fatalf("expected 4 points (inclusive bounds), got %d", len(result))
	}
	if result[0].Date.String() != "2024-03-03" || result[3].Date.String() != "2024-03-06" {
		t.Errorf("range bounds wrong: %s .. %s", result[0].Date, result[3].Date)
	}
}
