package slug

import "testing"

func TestMake(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Machine Learning", "machine_learning"},
		{"RAG 시스템 설계", "rag_시스템_설계"},
		{"Use PostgreSQL!", "use_postgresql"},
		{"  spaced   out  ", "spaced_out"},
		{"keep-hyphen_and_underscore", "keep-hyphen_and_underscore"},
		{"", ""},
		{"!!!", ""},
	}
	for _, tc := range cases {
		if got := Make(tc.in); got != tc.want {
			t.Errorf("Make(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMakeN(t *testing.T) {
	if got := MakeN("abc def ghi", 7); got != "abc_def" {
		t.Errorf("MakeN = %q, want abc_def", got)
	}
	// Rune-based cut, not bytes.
	if got := MakeN("가나다라마", 3); got != "가나다" {
		t.Errorf("MakeN(hangul) = %q", got)
	}
}
