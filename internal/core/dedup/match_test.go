package dedup

import (
	"testing"

	"smart-fridge-api/internal/core/inventory"
)

func TestBuildNormalizedIndexLastWriterWins(t *testing.T) {
	items := []inventory.Item{
		{ID: "1", Name: "תפוח"},
		{ID: "2", Name: "תפוחים"},
	}
	index := buildNormalizedIndex(items)
	if len(index) != 1 {
		t.Fatalf("index size = %d, want 1 (both names normalize to the same key)", len(index))
	}
	if index["תפוח"].ID != "2" {
		t.Fatalf("index kept item %s, want the later item 2", index["תפוח"].ID)
	}
}

func TestFindBestMatchExact(t *testing.T) {
	index := buildNormalizedIndex([]inventory.Item{
		{ID: "1", Name: "חלב"},
		{ID: "2", Name: "תפוחים"},
	})

	match, found := FindBestMatch("תפוח", index, 0.80)
	if !found {
		t.Fatalf("expected a match for תפוח")
	}
	if match.Item.ID != "2" {
		t.Fatalf("matched item %s, want 2", match.Item.ID)
	}
	if match.Score != 1.0 {
		t.Fatalf("score = %f, want 1.0 after both sides normalize", match.Score)
	}
}

func TestFindBestMatchPicksHighestScore(t *testing.T) {
	index := buildNormalizedIndex([]inventory.Item{
		{ID: "1", Name: "מלפפון"},
		{ID: "2", Name: "מלון"},
	})

	match, found := FindBestMatch("מלפפונים", index, 0.55)
	if !found {
		t.Fatalf("expected a match")
	}
	if match.Item.ID != "1" {
		t.Fatalf("matched item %s, want the closer item 1", match.Item.ID)
	}
}

func TestFindBestMatchBelowThreshold(t *testing.T) {
	index := buildNormalizedIndex([]inventory.Item{
		{ID: "1", Name: "חלב"},
	})

	if _, found := FindBestMatch("עגבניה", index, 0.80); found {
		t.Fatalf("unrelated names must not match")
	}
}

func TestFindBestMatchEmptyIndex(t *testing.T) {
	if _, found := FindBestMatch("תפוח", map[string]inventory.Item{}, 0.55); found {
		t.Fatalf("empty index must not produce a match")
	}
}
