package dedup

import (
	"testing"
	"time"

	"smart-fridge-api/internal/core/inventory"
)

func TestBuildRows(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	items := []ScannedItem{
		{Name: "חלב", Category: inventory.CategoryDairyEggs, Quantity: 2, ShelfLifeDays: 7},
		{Name: "תפוחים", Category: inventory.CategoryProduce, Quantity: 6, ShelfLifeDays: 14},
	}

	rows, skipped := BuildRows(items, now)
	if len(skipped) != 0 {
		t.Fatalf("skipped %d items, want 0", len(skipped))
	}
	if len(rows) != 2 {
		t.Fatalf("built %d rows, want 2", len(rows))
	}

	milk := rows[0]
	if milk.PurchaseDate != "2026-03-10" {
		t.Fatalf("purchase date = %s, want 2026-03-10", milk.PurchaseDate)
	}
	if milk.ExpiryDate != "2026-03-17" {
		t.Fatalf("expiry date = %s, want 2026-03-17", milk.ExpiryDate)
	}
	if milk.Status != inventory.StatusActive {
		t.Fatalf("status = %s, want active", milk.Status)
	}
	if rows[1].ExpiryDate != "2026-03-24" {
		t.Fatalf("expiry date = %s, want 2026-03-24", rows[1].ExpiryDate)
	}
}

func TestBuildRowsSkipsNoise(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	items := []ScannedItem{
		{Name: "", Category: inventory.CategoryOther, Quantity: 1, ShelfLifeDays: 5},
		{Name: "פיקדון בקבוק", Category: inventory.CategoryOther, Quantity: 1, ShelfLifeDays: 0},
		{Name: "שקית", Category: inventory.CategoryOther, Quantity: 1, ShelfLifeDays: -1},
		{Name: "גבינה", Category: inventory.CategoryDairyEggs, Quantity: 1, ShelfLifeDays: 10},
	}

	rows, skipped := BuildRows(items, now)
	if len(rows) != 1 {
		t.Fatalf("built %d rows, want 1", len(rows))
	}
	if rows[0].Name != "גבינה" {
		t.Fatalf("kept %s, want גבינה", rows[0].Name)
	}
	if len(skipped) != 3 {
		t.Fatalf("skipped %d items, want 3", len(skipped))
	}
}

func TestBuildRowsDefaultsQuantity(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	rows, _ := BuildRows([]ScannedItem{
		{Name: "לחם", Category: inventory.CategoryPantry, Quantity: 0, ShelfLifeDays: 4},
	}, now)
	if len(rows) != 1 {
		t.Fatalf("built %d rows, want 1", len(rows))
	}
	if rows[0].Quantity != 1 {
		t.Fatalf("quantity = %g, want 1", rows[0].Quantity)
	}
}
