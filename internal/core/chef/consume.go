package chef

import (
	"context"
	"math"
	"strings"

	"go.uber.org/zap"

	"smart-fridge-api/internal/core/dedup"
	"smart-fridge-api/internal/pkg/common"
)

// 模型偶爾會把品項名稱寫得跟庫存有些出入，先精確比對再退到模糊比對
const consumeMatchThreshold = 0.70

// ItemPatcher 扣量需要的庫存寫入操作
type ItemPatcher interface {
	UpdateQuantity(ctx context.Context, id string, quantity float64) error
	MarkConsumed(ctx context.Context, id string) error
	AddToShoppingList(ctx context.Context, itemName string) error
}

// ConsumeResult 食譜確認後的庫存扣量結果
type ConsumeResult struct {
	Deducted              []common.DeductedItem `json:"deducted_items"`
	ShoppingListAdditions []string              `json:"shopping_list_additions"`
}

// ConsumeItems 依食譜用量扣減庫存。
// 以 session 裡在產生食譜當下拍的庫存快照為準，不再多查一次資料庫。
// 用量至少算 1，剩餘量四捨五入到小數第三位避免浮點雜訊；
// 扣到零以下就標記 consumed 並加入購物清單。單筆失敗記 log 後繼續。
func ConsumeItems(ctx context.Context, patcher ItemPatcher, used []common.UsedFridgeItem, snapshot []common.FridgeItemView) *ConsumeResult {
	byName := make(map[string]common.FridgeItemView, len(snapshot))
	for _, item := range snapshot {
		byName[item.ItemName] = item
	}

	result := &ConsumeResult{
		Deducted:              []common.DeductedItem{},
		ShoppingListAdditions: []string{},
	}

	for _, u := range used {
		name := strings.TrimSpace(u.ItemName)
		qtyUsed := u.QuantityUsed
		if qtyUsed < 1.0 {
			qtyUsed = 1.0
		}

		item, ok := resolveItem(name, byName)
		if !ok {
			common.LogWarn("食譜品項在庫存快照中找不到",
				zap.String("item_name", name),
			)
			continue
		}

		remaining := roundQuantity(item.Quantity - qtyUsed)
		if remaining <= 0 {
			if err := patcher.MarkConsumed(ctx, item.ID); err != nil {
				common.LogError("標記品項用完失敗", zap.String("item_name", item.ItemName), zap.Error(err))
				continue
			}
			if err := patcher.AddToShoppingList(ctx, item.ItemName); err != nil {
				common.LogError("加入購物清單失敗", zap.String("item_name", item.ItemName), zap.Error(err))
			} else {
				result.ShoppingListAdditions = append(result.ShoppingListAdditions, item.ItemName)
			}
			result.Deducted = append(result.Deducted, common.DeductedItem{
				ItemName:         item.ItemName,
				QuantityBefore:   item.Quantity,
				QuantityDeducted: qtyUsed,
				QuantityAfter:    0,
				FullyConsumed:    true,
			})
			continue
		}

		if err := patcher.UpdateQuantity(ctx, item.ID, remaining); err != nil {
			common.LogError("更新品項數量失敗", zap.String("item_name", item.ItemName), zap.Error(err))
			continue
		}
		result.Deducted = append(result.Deducted, common.DeductedItem{
			ItemName:         item.ItemName,
			QuantityBefore:   item.Quantity,
			QuantityDeducted: qtyUsed,
			QuantityAfter:    remaining,
			FullyConsumed:    false,
		})
	}

	return result
}

// resolveItem 先精確比對名稱，再退到模糊比對
func resolveItem(name string, byName map[string]common.FridgeItemView) (common.FridgeItemView, bool) {
	if item, ok := byName[name]; ok {
		return item, true
	}

	var best common.FridgeItemView
	bestScore := 0.0
	for candidate, item := range byName {
		score := dedup.Similarity(name, candidate)
		if score >= consumeMatchThreshold && score > bestScore {
			best = item
			bestScore = score
		}
	}
	if bestScore > 0 {
		common.LogInfo("食譜品項模糊比對成功",
			zap.String("requested", name),
			zap.String("matched", best.ItemName),
			zap.Float64("score", bestScore),
		)
		return best, true
	}
	return common.FridgeItemView{}, false
}

// roundQuantity 四捨五入到小數第三位
func roundQuantity(q float64) float64 {
	return math.Round(q*1000) / 1000
}
