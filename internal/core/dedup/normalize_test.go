package dedup

import (
	"testing"
)

func TestNormalizeBasic(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"trim and collapse spaces", "  תפוח   עץ  ", "תפוח עץ"},
		{"latin lowercased", "  Milk 3% ", "milk 3%"},
		{"empty input", "   ", ""},
	}
	for _, c := range cases {
		got := Normalize(c.in)
		if got != c.want {
			t.Fatalf("%s: Normalize(%q) = %q, want %q", c.name, c.in, got, c.want)
		}
	}
}

func TestNormalizePluralSuffix(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"masculine plural", "תפוחים", "תפוח"},
		{"feminine plural", "בננות", "בננ"},
		{"iot suffix beats shorter ot", "עגבניות", "עגבנ"},
		{"singular untouched", "תפוח", "תפוח"},
	}
	for _, c := range cases {
		got := Normalize(c.in)
		if got != c.want {
			t.Fatalf("%s: Normalize(%q) = %q, want %q", c.name, c.in, got, c.want)
		}
	}
}

func TestNormalizeKeepsShortWords(t *testing.T) {
	// 剝除後只剩一個字元的不剝，"מים" 本身就是單數詞
	cases := []string{"מים", "ים", "אות"}
	for _, in := range cases {
		got := Normalize(in)
		if got != in {
			t.Fatalf("Normalize(%q) = %q, want unchanged", in, got)
		}
	}
}

func TestNormalizeStripsOneSuffixOnly(t *testing.T) {
	in := "תפוחים"
	once := Normalize(in)
	twice := Normalize(once)
	if once != twice {
		t.Fatalf("Normalize not stable: %q -> %q -> %q", in, once, twice)
	}
}
