package syntax

import (
	"errors"
	"testing"
)

func TestUnquote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`""`, ""},
		{`"plain"`, "plain"},
		{`"a\"b"`, `a"b`},
		{`"back\\slash"`, `back\slash`},
		{`"\/"`, "/"},
		{`"\b\f\n\r\t"`, "\b\f\n\r\t"},
		{`"é"`, "é"},
		{`"\u0000"`, "\x00"},
		{`"😀"`, "😀"},
		{`"\ud83d"`, "�"},
		{`"raw é"`, "raw é"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Unquote(tt.in)
			if err != nil {
				t.Fatalf("Unquote: %v", err)
			}

			if got != tt.want {
				t.Errorf("Unquote(%s) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestUnquote_Errors(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{``, ErrNotQuoted},
		{`"`, ErrNotQuoted},
		{`abc`, ErrNotQuoted},
		{`"abc`, ErrNotQuoted},
		{`"\q"`, ErrInvalidEscape},
		{`"\u12"`, ErrInvalidEscape},
		{`"\uzzzz"`, ErrInvalidEscape},
		{`"trailing\"`, ErrInvalidEscape},
	}

	for _, tt := range tests {
		if _, err := Unquote(tt.in); !errors.Is(err, tt.want) {
			t.Errorf("Unquote(%s) error = %v, want %v", tt.in, err, tt.want)
		}
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", `""`},
		{"plain", `"plain"`},
		{`a"b\c`, `"a\"b\\c"`},
		{"\b\f\n\r\t", `"\b\f\n\r\t"`},
		{"\x00\x1f\x7f", `"\u0000\u001f\u007f"`},
		{"é 😀", `"é 😀"`},
		{"/", `"/"`},
	}

	for _, tt := range tests {
		if got := Quote(tt.in); got != tt.want {
			t.Errorf("Quote(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestQuote_RoundTrip(t *testing.T) {
	for _, s := range []string{"", "x", "\"\\", "line\nbreak", "\x01\x7f", "ünï 😀", "{a: [I: 1]}"} {
		got, err := Unquote(Quote(s))
		if err != nil {
			t.Fatalf("Unquote(Quote(%q)): %v", s, err)
		}

		if got != s {
			t.Errorf("round trip of %q gave %q", s, got)
		}
	}
}
