package dedup

import (
	"math"
	"testing"
)

func TestSimilarityIdentical(t *testing.T) {
	if got := Similarity("תפוח", "תפוח"); got != 1.0 {
		t.Fatalf("Similarity of identical strings = %f, want 1.0", got)
	}
	if got := Similarity("", ""); got != 1.0 {
		t.Fatalf("Similarity of empty strings = %f, want 1.0", got)
	}
}

func TestSimilarityRatio(t *testing.T) {
	// 編輯距離 1，較長字串 4 個字元
	got := Similarity("חלב", "חלבי")
	if math.Abs(got-0.75) > 1e-9 {
		t.Fatalf("Similarity(חלב, חלבי) = %f, want 0.75", got)
	}

	// 完全不同的字串
	got = Similarity("אב", "גד")
	if got != 0.0 {
		t.Fatalf("Similarity(אב, גד) = %f, want 0.0", got)
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	pairs := [][2]string{
		{"עגבניה", "עגבניות"},
		{"milk", "silk"},
		{"", "תפוח"},
	}
	for _, p := range pairs {
		ab := Similarity(p[0], p[1])
		ba := Similarity(p[1], p[0])
		if ab != ba {
			t.Fatalf("Similarity(%q, %q) = %f but reversed = %f", p[0], p[1], ab, ba)
		}
	}
}

func TestSimilarityCountsRunesNotBytes(t *testing.T) {
	// 希伯來字母每個 2 bytes，若用 byte 長度算比例結果會被稀釋
	got := Similarity("אב", "אג")
	if math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("Similarity(אב, אג) = %f, want 0.5", got)
	}
}
