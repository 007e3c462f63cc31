package fridge

import (
	"testing"
)

func TestParseScanItems(t *testing.T) {
	content := `{"items": [
		{"item_name": "חלב", "category": "מוצרי חלב וביצים", "quantity": 2, "estimated_expiry_days": 7},
		{"item_name": "מלפפון", "category": "פירות וירקות", "quantity": 4, "estimated_expiry_days": 5}
	]}`

	items, err := parseScanItems(content)
	if err != nil {
		t.Fatalf("parseScanItems failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("parsed %d items, want 2", len(items))
	}
	if items[0].Name != "חלב" || items[0].ShelfLifeDays != 7 {
		t.Fatalf("unexpected first item: %+v", items[0])
	}
	if items[1].Quantity != 4 {
		t.Fatalf("quantity = %g, want 4", items[1].Quantity)
	}
}

func TestParseScanItemsWithMarkdownFence(t *testing.T) {
	content := "Here is the result:\n```json\n" +
		`{"items": [{"item_name": "לחם", "category": "מזווה", "quantity": 1, "estimated_expiry_days": 4}]}` +
		"\n```"

	items, err := parseScanItems(content)
	if err != nil {
		t.Fatalf("parseScanItems failed: %v", err)
	}
	if len(items) != 1 || items[0].Name != "לחם" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestParseScanItemsRejectsGarbage(t *testing.T) {
	if _, err := parseScanItems("I could not read the receipt, sorry."); err == nil {
		t.Fatalf("expected error for non-JSON response")
	}
	if _, err := parseScanItems(`{"items": []}`); err == nil {
		t.Fatalf("expected error for empty item list")
	}
}
