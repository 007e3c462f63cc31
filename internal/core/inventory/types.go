package inventory

import (
	"strings"
	"time"
)

// 品項狀態
const (
	StatusActive   = "active"
	StatusConsumed = "consumed"
)

// 食材分類（與掃描 prompt 的分類清單一致）
const (
	CategoryDairyEggs = "מוצרי חלב וביצים"
	CategoryMeatFish  = "בשר ודגים"
	CategoryProduce   = "פירות וירקות"
	CategoryPantry    = "מזווה"
	CategorySnacks    = "נשנושים ומתוקים"
	CategoryDrinks    = "משקאות"
	CategoryOther     = "אחר"
)

// Item 冰箱庫存的一筆品項紀錄
type Item struct {
	ID           string    `json:"id,omitempty"`
	Name         string    `json:"item_name"`
	Category     string    `json:"category"`
	Quantity     float64   `json:"quantity"`
	PurchaseDate string    `json:"purchase_date"`
	ExpiryDate   string    `json:"expiry_date"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

// NewItem 建立一筆 active 狀態的新品項
func NewItem(name, category string, quantity float64, purchaseDate, expiryDate string) Item {
	return Item{
		Name:         name,
		Category:     category,
		Quantity:     quantity,
		PurchaseDate: purchaseDate,
		ExpiryDate:   expiryDate,
		Status:       StatusActive,
	}
}

// 收據上常見的非食材項目關鍵字（押瓶費、購物袋、包裝）
var nonFoodTokens = []string{"פיקדון", "שקית", "קרטון", "אריזה"}

// IsFoodItem 判斷品項是否為可下鍋的食材。
// 分類為 "אחר" 的不是食材，名稱含押瓶費或包材關鍵字的也一律排除。
func IsFoodItem(name, category string) bool {
	if category == CategoryOther {
		return false
	}
	for _, token := range nonFoodTokens {
		if strings.Contains(name, token) {
			return false
		}
	}
	return true
}
