package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/MatrixRex/daamtrack/internal/domain"
	"github.com/MatrixRex/daamtrack/internal/storage"
)

func TestItemStore_InsertAndGet(t *testing.T) {
	store := NewItemStore()
	ctx := context.Background()

	item := &domain.Item{Name: "Miniket Rice", Category: "Rice", Unit: "1 kg", Price: 75}
	if err := store.Insert(ctx, item); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByName(ctx, "Miniket Rice")
	if err != nil {
		t.Fatalf("GetByName failed: %v", err)
	}
	if got.Unit != "1 kg" || got.Category != "Rice" {
		t.Errorf("got %+v", got)
	}

	// Stored copy must be insulated from caller mutation.
	item.Price = 999
	got2, _ := store.GetByName(ctx, "Miniket Rice")
	if got2.Price != 75 {
		t.Errorf("store leaked caller mutation: price = %v", got2.Price)
	}
}

func TestItemStore_NotFound(t *testing.T) {
	store := NewItemStore()

	_, err := store.GetByName(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestItemStore_Duplicate(t *testing.T) {
	store := NewItemStore()
	ctx := context.Background()

	item := &domain.Item{Name: "Tomato", Category: "Vegetables", Unit: "1 kg"}
	if err := store.Insert(ctx, item); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	err := store.Insert(ctx, item)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestItemStore_AllOrderedByName(t *testing.T) {
	store := NewItemStore()
	ctx := context.Background()

	for _, name := range []string{"Tomato", "Egg (Chicken)", "Salt"} {
		if err := store.Insert(ctx, &domain.Item{Name: name}); err != nil {
			t.Fatalf("Insert %s failed: %v", name, err)
		}
	}

	all, err := store.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 items, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Name > all[i].Name {
			t.Errorf("items not sorted: %q before %q", all[i-1].Name, all[i].Name)
		}
	}
}
