package dedup

import (
	"github.com/agnivade/levenshtein"
)

// Similarity 計算兩個字串的相似度，回傳 0.0 ~ 1.0。
// 以編輯距離除以較長字串的字元數（rune 而非 byte，希伯來文一律多 byte），
// 再用 1 減掉得到比例。兩個空字串視為完全相同。
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}

	lenA := len([]rune(a))
	lenB := len([]rune(b))
	maxLen := lenA
	if lenB > maxLen {
		maxLen = lenB
	}
	if maxLen == 0 {
		return 1.0
	}

	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(maxLen)
}
