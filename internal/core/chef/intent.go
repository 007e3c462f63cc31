package chef

import (
	"strings"
)

// 使用者意圖
const (
	IntentConfirm = "confirm"
	IntentCancel  = "cancel"
	IntentRevise  = "revise"
)

// 肯定詞。用子字串比對而不是整句比對，
// 使用者常打多字回覆（"כן תודה"、"יאללה בוא נעשה"），整句比對會全部漏掉。
var affirmKeywords = []string{
	"כן", "יאללה", "סבבה", "אני מכין", "מעולה", "מצוין",
	"אחלה", "בסדר", "הולך", "קדימה", "נעשה", "יאה", "טוב",
	"תודה", "ok", "sure", "yes", "y",
}

// 修改或否定詞，命中任何一個就擋掉肯定路徑。
// 例如 "כן אבל תעשה יותר קליל" 同時含肯定詞與修改詞，必須走 revise。
var changeKeywords = []string{
	"לא", "אבל", "לשנות", "בלי", "שנה", "פחות",
	"יותר", "במקום", "אחרת", "רק",
}

// 明確的取消片語，在肯定判斷之前用子字串檢查
var cancelPhrases = []string{
	"לא צריך", "לא תודה", "לא, תודה", "תודה רבה",
	"ביי", "bye", "cancel", "exit", "quit",
}

// 單字取消詞，整句完全相等才算，優先級最高
var cancelExact = map[string]bool{
	"לא": true, "no": true, "n": true, "0": true, "ביי": true, "bye": true,
}

// ClassifyIntent 把自由輸入的回覆分類成 confirm、cancel 或 revise。
// 判斷順序有意義，每一步都可能短路後面的判斷：
//  1. 單字取消（完全相等）
//  2. 取消片語（子字串）
//  3. 含肯定詞且不含任何修改詞才算 confirm
//  4. 其餘一律當作修改要求
func ClassifyIntent(answer string) string {
	normalized := strings.ToLower(strings.TrimSpace(answer))

	if cancelExact[normalized] {
		return IntentCancel
	}

	for _, phrase := range cancelPhrases {
		if strings.Contains(normalized, phrase) {
			return IntentCancel
		}
	}

	hasAffirm := containsAny(normalized, affirmKeywords)
	hasChange := containsAny(normalized, changeKeywords)
	if hasAffirm && !hasChange {
		return IntentConfirm
	}

	return IntentRevise
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
