package dedup

import (
	"strings"
)

// 希伯來文複數後綴，依長度由長至短排列，一次只剝除一個
var pluralSuffixes = []string{"יות", "ים", "ות"}

// Normalize 將品項名稱正規化為比對用的標準型。
// 流程：去除前後空白、轉小寫（對拉丁字母生效）、壓縮連續空白，
// 再嘗試剝除希伯來文複數後綴。剝除條件是剩餘字元數仍大於 1，
// 避免把短字砍到失去意義（例如 "ים" 本身就是一個詞）。
func Normalize(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.Join(strings.Fields(normalized), " ")
	if normalized == "" {
		return normalized
	}

	runes := []rune(normalized)
	for _, suffix := range pluralSuffixes {
		suffixLen := len([]rune(suffix))
		if len(runes) > suffixLen+1 && strings.HasSuffix(normalized, suffix) {
			return string(runes[:len(runes)-suffixLen])
		}
	}
	return normalized
}
