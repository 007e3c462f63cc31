package common

import (
	"fmt"
	"strings"
)

// FridgeItemView 提供給前端與 LLM prompt 的冰箱品項視圖
type FridgeItemView struct {
	ID         string  `json:"id"`
	ItemName   string  `json:"item_name"`
	Category   string  `json:"category"`
	Quantity   float64 `json:"quantity"`
	ExpiryDate string  `json:"expiry_date"`
}

// ChefRecipe 廚師回覆的結構化食譜，欄位需與 system instruction 的 schema 一致
type ChefRecipe struct {
	ChefMessage         string           `json:"chef_message"`
	RecipeName          string           `json:"recipe_name"`
	Tagline             string           `json:"tagline"`
	UsedFridgeItems     []UsedFridgeItem `json:"used_fridge_items"`
	ExcludedItems       []ExcludedItem   `json:"excluded_items"`
	PantryStaplesNeeded []string         `json:"pantry_staples_needed"`
	Instructions        []string         `json:"instructions"`

	// RawFallback 表示模型沒有回傳合法 JSON，Instructions 內是原始文字
	RawFallback bool `json:"raw_fallback,omitempty"`
}

// UsedFridgeItem 食譜中使用到的冰箱品項
type UsedFridgeItem struct {
	ItemName     string  `json:"item_name"`
	QuantityUsed float64 `json:"quantity_used"`
}

// ExcludedItem 廚師主動排除的品項與原因
type ExcludedItem struct {
	ItemName string `json:"item_name"`
	Reason   string `json:"reason"`
}

// FormatFridgeItems 將冰箱品項格式化為 prompt 用的清單文字。
// category 一併帶上，讓模型能套用語意比對規則而不是只看名稱。
func FormatFridgeItems(items []FridgeItemView) string {
	var sb strings.Builder
	for _, item := range items {
		sb.WriteString(fmt.Sprintf("- %s  (כמות: %g, קטגוריה: %s)\n",
			item.ItemName, item.Quantity, item.Category))
	}
	return sb.String()
}

// DeductedItem 單一品項的扣量結果
type DeductedItem struct {
	ItemName         string  `json:"item_name"`
	QuantityBefore   float64 `json:"quantity_before"`
	QuantityDeducted float64 `json:"quantity_deducted"`
	QuantityAfter    float64 `json:"quantity_after"`
	FullyConsumed    bool    `json:"fully_consumed"`
}
