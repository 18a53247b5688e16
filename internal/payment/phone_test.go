package payment

import "testing"

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"05321234567", "+905321234567"},
		{"905321234567", "+905321234567"},
		{"+905321234567", "+905321234567"},
		{"5321234567", "+905321234567"},
		{"0532 123 45 67", "+905321234567"},
		{"(0532) 123-45-67", "+905321234567"},
		{"+90 532 123 45 67", "+905321234567"},
	}
	for _, c := range cases {
		if got := NormalizePhone(c.in); got != c.want {
			t.Fatalf("NormalizePhone(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizePhone_UnrecognizedShapePassesDigitsThrough(t *testing.T) {
	if got := NormalizePhone("12345"); got != "+12345" {
		t.Fatalf("unexpected fallback: %q", got)
	}
}
