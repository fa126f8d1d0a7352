package syntax

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

var (
	// ErrNotQuoted is returned by [Unquote] when its argument is not enclosed
	// in double quotes.
	ErrNotQuoted = errors.New("string literal is not quoted")
	// ErrInvalidEscape is returned by [Unquote] for a malformed escape
	// sequence.
	ErrInvalidEscape = errors.New("invalid escape sequence")
)

// Unquote strips exactly one leading and one trailing double quote from a
// string literal lexeme and resolves its escape sequences.
func Unquote(s string) (string, error) {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", ErrNotQuoted
	}

	s = s[1 : len(s)-1]

	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}

	var sb strings.Builder

	sb.Grow(len(s))

	for i := 0; i < len(s); {
		c := s[i]
		if c != '\\' {
			sb.WriteByte(c)

			i++

			continue
		}

		if i+1 >= len(s) {
			return "", ErrInvalidEscape
		}

		switch e := s[i+1]; e {
		case '"', '\\', '/':
			sb.WriteByte(e)
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'u':
			r, ok := hex4(s, i+2)
			if !ok {
				return "", ErrInvalidEscape
			}

			i += 6

			if utf16.IsSurrogate(r) {
				if lo, ok := lowSurrogate(s, i); ok {
					if dec := utf16.DecodeRune(r, lo); dec != utf8.RuneError {
						sb.WriteRune(dec)

						i += 6

						continue
					}
				}
			}

			sb.WriteRune(r)

			continue
		default:
			return "", ErrInvalidEscape
		}

		i += 2
	}

	return sb.String(), nil
}

func hex4(s string, at int) (rune, bool) {
	if at+4 > len(s) {
		return 0, false
	}

	v, err := strconv.ParseUint(s[at:at+4], 16, 16)
	if err != nil {
		return 0, false
	}

	return rune(v), true
}

func lowSurrogate(s string, at int) (rune, bool) {
	if at+2 > len(s) || s[at] != '\\' || s[at+1] != 'u' {
		return 0, false
	}

	return hex4(s, at+2)
}

// Quote returns s as a string literal. Double quotes, backslashes and control
// characters are escaped; everything else is written verbatim.
func Quote(s string) string {
	var sb strings.Builder

	sb.Grow(len(s) + 2)
	sb.WriteByte('"')

	for i := range len(s) {
		switch c := s[i]; c {
		case '"', '\\':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if c < 0x20 || c == 0x7f {
				sb.WriteString(`\u00`)
				sb.WriteByte(hexDigits[c>>4])
				sb.WriteByte(hexDigits[c&0xf])
			} else {
				sb.WriteByte(c)
			}
		}
	}

	sb.WriteByte('"')

	return sb.String()
}

const hexDigits = "0123456789abcdef"
