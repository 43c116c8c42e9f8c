package textutil

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"only spaces", "   \t\n  ", ""},
		{"mixed runs", "a\n\n  b\tc ", "a b c"},
		{"already clean", "a b c", "a b c"},
		{"leading and trailing", "  hello world  ", "hello world"},
		{"windows newlines", "one\r\ntwo\r\nthree", "one two three"},
		{"unicode spaces", "a b　c", "a b c"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.in); got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"", "  a  b  ", "x\ny\tz", "タイトル\n\nテスト"}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent for %q: %q != %q", in, twice, once)
		}
	}
}
