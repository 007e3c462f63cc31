package dedup

import (
	"smart-fridge-api/internal/core/inventory"
)

// Match 一筆候選比對結果
type Match struct {
	Item  inventory.Item
	Score float64
}

// buildNormalizedIndex 以正規化後的名稱建索引。
// 多筆品項正規化後同名時後者覆蓋前者，索引只保留最後一筆。
func buildNormalizedIndex(existing []inventory.Item) map[string]inventory.Item {
	index := make(map[string]inventory.Item, len(existing))
	for _, item := range existing {
		index[Normalize(item.Name)] = item
	}
	return index
}

// FindBestMatch 在現有庫存中找出與名稱最相似的品項。
// 兩邊都先正規化再比分，取分數最高者；最高分未達閾值時回傳 false。
// 同分時保留先掃到的那一筆，map 迭代順序不定，結果仍是合法的最佳比對。
func FindBestMatch(name string, index map[string]inventory.Item, threshold float64) (Match, bool) {
	normalized := Normalize(name)

	var best Match
	found := false
	for candidate, item := range index {
		score := Similarity(normalized, candidate)
		if score < threshold {
			continue
		}
		if !found || score > best.Score {
			best = Match{Item: item, Score: score}
			found = true
		}
	}
	return best, found
}
