package inventory

import "testing"

func TestIsFoodItem(t *testing.T) {
	tests := []struct {
		name     string
		category string
		want     bool
	}{
		{"חלב", CategoryDairyEggs, true},
		{"עגבניות", CategoryProduce, true},
		{"פיקדון בקבוק", CategoryOther, false},
		{"שקית קנייה", CategoryPantry, false},
		{"פיקדון", CategoryDrinks, false},
		{"נייר אפייה", CategoryOther, false},
	}

	for _, tt := range tests {
		if got := IsFoodItem(tt.name, tt.category); got != tt.want {
			t.Errorf("IsFoodItem(%q, %q) = %v, want %v", tt.name, tt.category, got, tt.want)
		}
	}
}

func TestNewItem(t *testing.T) {
	item := NewItem("חלב", CategoryDairyEggs, 2, "2026-09-01", "2026-09-08")

	if item.Status != StatusActive {
		t.Errorf("expected status %q, got %q", StatusActive, item.Status)
	}
	if item.Name != "חלב" || item.Quantity != 2 {
		t.Errorf("unexpected item fields: %+v", item)
	}
	if item.ID != "" {
		t.Errorf("new item should not carry an ID, got %q", item.ID)
	}
}
