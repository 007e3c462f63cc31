package dedup

import (
	"strings"
	"time"

	"smart-fridge-api/internal/core/inventory"
)

// 日期欄位一律存 ISO 格式字串
const dateLayout = "2006-01-02"

// ScannedItem 從收據或冰箱照片辨識出來的一筆品項
type ScannedItem struct {
	Name          string  `json:"item_name"`
	Category      string  `json:"category"`
	Quantity      float64 `json:"quantity"`
	ShelfLifeDays int     `json:"estimated_expiry_days"`
}

// BuildRows 把辨識結果轉成可寫入庫存的資料列。
// 購買日為掃描當天，到期日為購買日加上估計保存天數。
// 名稱空白或保存天數不是正數的品項視為辨識雜訊，略過並回傳清單。
func BuildRows(items []ScannedItem, now time.Time) ([]inventory.Item, []ScannedItem) {
	purchaseDate := now.Format(dateLayout)

	rows := make([]inventory.Item, 0, len(items))
	var skipped []ScannedItem
	for _, item := range items {
		if strings.TrimSpace(item.Name) == "" || item.ShelfLifeDays <= 0 {
			skipped = append(skipped, item)
			continue
		}

		quantity := item.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		expiryDate := now.AddDate(0, 0, item.ShelfLifeDays).Format(dateLayout)
		rows = append(rows, inventory.NewItem(item.Name, item.Category, quantity, purchaseDate, expiryDate))
	}
	return rows, skipped
}
