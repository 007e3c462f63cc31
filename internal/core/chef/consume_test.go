package chef

import (
	"context"
	"errors"
	"testing"

	"smart-fridge-api/internal/pkg/common"
)

type fakePatcher struct {
	updated      map[string]float64
	consumed     []string
	shoppingList []string
	failConsume  error
}

func newFakePatcher() *fakePatcher {
	return &fakePatcher{updated: make(map[string]float64)}
}

func (f *fakePatcher) UpdateQuantity(ctx context.Context, id string, quantity float64) error {
	f.updated[id] = quantity
	return nil
}

func (f *fakePatcher) MarkConsumed(ctx context.Context, id string) error {
	if f.failConsume != nil {
		return f.failConsume
	}
	f.consumed = append(f.consumed, id)
	return nil
}

func (f *fakePatcher) AddToShoppingList(ctx context.Context, itemName string) error {
	f.shoppingList = append(f.shoppingList, itemName)
	return nil
}

func testSnapshot() []common.FridgeItemView {
	return []common.FridgeItemView{
		{ID: "1", ItemName: "חלב", Quantity: 2},
		{ID: "2", ItemName: "ביצים", Quantity: 6},
		{ID: "3", ItemName: "עגבניות", Quantity: 3},
	}
}

func TestConsumeItemsPartialDeduction(t *testing.T) {
	patcher := newFakePatcher()

	result := ConsumeItems(context.Background(), patcher, []common.UsedFridgeItem{
		{ItemName: "ביצים", QuantityUsed: 2},
	}, testSnapshot())

	if len(result.Deducted) != 1 {
		t.Fatalf("deducted %d items, want 1", len(result.Deducted))
	}
	d := result.Deducted[0]
	if d.QuantityAfter != 4 || d.FullyConsumed {
		t.Fatalf("unexpected deduction: %+v", d)
	}
	if patcher.updated["2"] != 4 {
		t.Fatalf("store quantity = %g, want 4", patcher.updated["2"])
	}
	if len(patcher.consumed) != 0 || len(result.ShoppingListAdditions) != 0 {
		t.Fatalf("partial deduction must not consume or touch the shopping list")
	}
}

func TestConsumeItemsFullConsumption(t *testing.T) {
	patcher := newFakePatcher()

	result := ConsumeItems(context.Background(), patcher, []common.UsedFridgeItem{
		{ItemName: "חלב", QuantityUsed: 2},
	}, testSnapshot())

	if len(patcher.consumed) != 1 || patcher.consumed[0] != "1" {
		t.Fatalf("consumed %v, want [1]", patcher.consumed)
	}
	if len(result.ShoppingListAdditions) != 1 || result.ShoppingListAdditions[0] != "חלב" {
		t.Fatalf("shopping list = %v, want [חלב]", result.ShoppingListAdditions)
	}
	d := result.Deducted[0]
	if !d.FullyConsumed || d.QuantityAfter != 0 {
		t.Fatalf("unexpected deduction: %+v", d)
	}
}

func TestConsumeItemsFuzzyMatch(t *testing.T) {
	patcher := newFakePatcher()

	// 模型寫單數，快照是複數
	result := ConsumeItems(context.Background(), patcher, []common.UsedFridgeItem{
		{ItemName: "עגבנייה", QuantityUsed: 1},
	}, testSnapshot())

	if len(result.Deducted) != 1 {
		t.Fatalf("deducted %d items, want 1 via fuzzy match", len(result.Deducted))
	}
	if result.Deducted[0].ItemName != "עגבניות" {
		t.Fatalf("matched %q, want עגבניות", result.Deducted[0].ItemName)
	}
	if patcher.updated["3"] != 2 {
		t.Fatalf("store quantity = %g, want 2", patcher.updated["3"])
	}
}

func TestConsumeItemsMinimumQuantity(t *testing.T) {
	patcher := newFakePatcher()

	// 用量最少算 1，模型偶爾回 0 或小數
	result := ConsumeItems(context.Background(), patcher, []common.UsedFridgeItem{
		{ItemName: "ביצים", QuantityUsed: 0},
	}, testSnapshot())

	if result.Deducted[0].QuantityDeducted != 1 {
		t.Fatalf("deducted quantity = %g, want 1", result.Deducted[0].QuantityDeducted)
	}
}

func TestConsumeItemsUnknownItemSkipped(t *testing.T) {
	patcher := newFakePatcher()

	result := ConsumeItems(context.Background(), patcher, []common.UsedFridgeItem{
		{ItemName: "אננס", QuantityUsed: 1},
	}, testSnapshot())

	if len(result.Deducted) != 0 {
		t.Fatalf("unknown item must be skipped, got %+v", result.Deducted)
	}
}

func TestConsumeItemsContinuesAfterError(t *testing.T) {
	patcher := newFakePatcher()
	patcher.failConsume = errors.New("db down")

	result := ConsumeItems(context.Background(), patcher, []common.UsedFridgeItem{
		{ItemName: "חלב", QuantityUsed: 5},
		{ItemName: "ביצים", QuantityUsed: 2},
	}, testSnapshot())

	// 第一筆失敗，第二筆仍要處理
	if len(result.Deducted) != 1 || result.Deducted[0].ItemName != "ביצים" {
		t.Fatalf("expected the second item to be processed, got %+v", result.Deducted)
	}
}
