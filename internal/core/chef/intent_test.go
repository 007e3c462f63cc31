package chef

import (
	"testing"
)

func TestClassifyIntent(t *testing.T) {
	cases := []struct {
		answer string
		want   string
	}{
		// 單字取消優先於一切
		{"לא", IntentCancel},
		{"no", IntentCancel},
		{"ביי", IntentCancel},
		{"0", IntentCancel},

		// 取消片語
		{"לא צריך, תודה", IntentCancel},
		{"תודה רבה על הכל", IntentCancel},
		{"ok bye", IntentCancel},

		// 多字肯定回覆
		{"כן", IntentConfirm},
		{"כן תודה", IntentConfirm},
		{"יאללה בוא נעשה", IntentConfirm},
		{"מעולה, אני מכין את זה עכשיו", IntentConfirm},
		{"yes", IntentConfirm},

		// 肯定詞加修改詞必須走 revise
		{"כן אבל תעשה יותר קליל", IntentRevise},
		{"טוב, רק בלי בצל", IntentRevise},

		// 開放式修改要求
		{"יותר קליל", IntentRevise},
		{"בלי בשר", IntentRevise},
		{"תחליף את העוף בדג", IntentRevise},
		{"", IntentRevise},
	}

	for _, c := range cases {
		got := ClassifyIntent(c.answer)
		if got != c.want {
			t.Fatalf("ClassifyIntent(%q) = %s, want %s", c.answer, got, c.want)
		}
	}
}

func TestClassifyIntentCaseInsensitive(t *testing.T) {
	if got := ClassifyIntent("  YES  "); got != IntentConfirm {
		t.Fatalf("ClassifyIntent(YES) = %s, want confirm", got)
	}
	if got := ClassifyIntent("NO"); got != IntentCancel {
		t.Fatalf("ClassifyIntent(NO) = %s, want cancel", got)
	}
}
