package syntax

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxDepth bounds the nesting of nodes and arrays.
const DefaultMaxDepth = 512

// Option configures the parser.
type Option func(*parser)

// WithMaxDepth sets the maximum nesting of nodes and arrays. Values below 1
// select [DefaultMaxDepth].
func WithMaxDepth(depth int) Option {
	return func(p *parser) {
		if depth > 0 {
			p.maxDepth = depth
		}
	}
}

// Parse parses src as a document: exactly one node followed by the end of
// input. The first syntax error is returned as an [*Error].
func Parse(src string, opts ...Option) (*Document, error) {
	p := &parser{
		input:    src,
		line:     1,
		col:      1,
		maxDepth: DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p.parseDocument()
}

// parser holds the parser state.
type parser struct {
	input    string
	pos      int
	line     int
	col      int
	depth    int
	maxDepth int
}

// parseDocument parses: node EOF.
func (p *parser) parseDocument() (*Document, error) {
	p.skipWhitespaceAndComments()

	if p.peek() != '{' {
		return nil, p.unexpected("{")
	}

	root, err := p.parseNode()
	if err != nil {
		return nil, err
	}

	p.skipWhitespaceAndComments()

	if !p.eof() {
		return nil, p.unexpected("end of input")
	}

	return &Document{Root: root, Source: p.input}, nil
}

// parseNode parses: '{' (entry (',' entry)*)? '}'.
func (p *parser) parseNode() (*Node, error) {
	start := p.position()

	if err := p.enter(start); err != nil {
		return nil, err
	}
	defer p.leave()

	p.advance() // skip '{'
	p.skipWhitespaceAndComments()

	n := &Node{Entries: make([]*Entry, 0)}

	if p.expect('}') {
		n.span, n.text = p.spanFrom(start)

		return n, nil
	}

	for {
		entry, err := p.parseEntry()
		if err != nil {
			return nil, err
		}

		n.Entries = append(n.Entries, entry)

		p.skipWhitespaceAndComments()

		switch {
		case p.expect(','):
			p.skipWhitespaceAndComments()

		case p.expect('}'):
			n.span, n.text = p.spanFrom(start)

			return n, nil

		default:
			return nil, p.unexpected(",", "}")
		}
	}
}

// parseEntry parses: key ':' value.
func (p *parser) parseEntry() (*Entry, error) {
	start := p.position()

	key, err := p.parseKey()
	if err != nil {
		return nil, err
	}

	p.skipWhitespaceAndComments()

	if !p.expect(':') {
		return nil, p.unexpected(":")
	}

	p.skipWhitespaceAndComments()

	value, err := p.parseValue()
	if err != nil {
		return nil, err
	}

	e := &Entry{Key: key, Value: value}
	e.span, e.text = p.spanFrom(start)

	return e, nil
}

// parseKey parses: Identifier | StringLiteral.
func (p *parser) parseKey() (*Key, error) {
	start := p.position()

	switch {
	case p.peek() == '"':
		if err := p.scanString(); err != nil {
			return nil, err
		}

		k := &Key{Kind: KeyString}
		k.span, k.text = p.spanFrom(start)

		return k, nil

	case isIdentifierChar(p.peek()):
		for !p.eof() && isIdentifierChar(p.peek()) {
			p.advance()
		}

		k := &Key{Kind: KeyIdentifier}
		k.span, k.text = p.spanFrom(start)

		return k, nil

	default:
		return nil, p.unexpected("identifier", "string")
	}
}

// parseValue parses: literal | array | node.
func (p *parser) parseValue() (Value, error) {
	start := p.position()

	switch c := p.peek(); {
	case c == '{':
		return p.parseNode()

	case c == '[':
		return p.parseArray()

	case c == '"':
		if err := p.scanString(); err != nil {
			return nil, err
		}

		return p.literal(LiteralString, start), nil

	case p.word("true"), p.word("false"):
		for isWordChar(p.peek()) {
			p.advance()
		}

		return p.literal(LiteralBoolean, start), nil

	case isNumberStart(c):
		kind, err := p.scanNumber()
		if err != nil {
			return nil, err
		}

		return p.literal(kind, start), nil

	default:
		return nil, p.unexpected("value")
	}
}

// parseArray parses: '[' ArrayPrefix (value (',' value)*)? ']'.
func (p *parser) parseArray() (*Array, error) {
	start := p.position()

	if err := p.enter(start); err != nil {
		return nil, err
	}
	defer p.leave()

	p.advance() // skip '['
	p.skipWhitespaceAndComments()

	prefix := p.peek()
	if prefix >= utf8.RuneSelf || !unicode.IsLetter(prefix) || p.peekAt(1) != ':' {
		return nil, p.unexpected("array prefix")
	}

	p.advance() // skip letter
	p.advance() // skip ':'
	p.skipWhitespaceAndComments()

	a := &Array{Prefix: prefix, Elements: make([]Value, 0)}

	if p.expect(']') {
		a.span, a.text = p.spanFrom(start)

		return a, nil
	}

	for {
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}

		a.Elements = append(a.Elements, v)

		p.skipWhitespaceAndComments()

		switch {
		case p.expect(','):
			p.skipWhitespaceAndComments()

		case p.expect(']'):
			a.span, a.text = p.spanFrom(start)

			return a, nil

		default:
			return nil, p.unexpected(",", "]")
		}
	}
}

// scanString consumes a double-quoted string and validates its escapes.
func (p *parser) scanString() error {
	start := p.position()

	p.advance() // skip opening quote

	for {
		if p.eof() {
			return p.errorAt(start, "unterminated string")
		}

		switch p.peek() {
		case '"':
			p.advance()

			return nil

		case '\n', '\r':
			return p.errorAt(start, "unterminated string")

		case '\\':
			esc := p.position()

			p.advance()

			switch p.peek() {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
				p.advance()

			case 'u':
				p.advance()

				for range 4 {
					if !isHex(p.peek()) {
						return p.errorAt(esc, "invalid unicode escape")
					}

					p.advance()
				}

			default:
				return p.errorAt(esc, "invalid escape sequence")
			}

		default:
			p.advance()
		}
	}
}

// scanNumber consumes an integer or floating-point literal with optional
// sign and type suffix.
func (p *parser) scanNumber() (LiteralKind, error) {
	start := p.position()
	kind := LiteralInteger

	if c := p.peek(); c == '+' || c == '-' {
		p.advance()
	}

	switch {
	case strings.HasPrefix(p.input[p.pos:], "NaN"):
		p.advanceN(len("NaN"))

		kind = LiteralFloat

	case strings.HasPrefix(p.input[p.pos:], "Infinity"):
		p.advanceN(len("Infinity"))

		kind = LiteralFloat

	default:
		digits := p.digits()

		if p.expect('.') {
			kind = LiteralFloat
			digits += p.digits()
		}

		if digits == 0 {
			return kind, p.errorAt(start, "invalid number")
		}

		if c := p.peek(); c == 'e' || c == 'E' {
			p.advance()

			kind = LiteralFloat

			if c := p.peek(); c == '+' || c == '-' {
				p.advance()
			}

			if p.digits() == 0 {
				return kind, p.errorAt(start, "malformed exponent")
			}
		}
	}

	switch p.peek() {
	case 'b', 'B', 's', 'S', 'l', 'L':
		if kind == LiteralFloat {
			return kind, p.errorAt(start, "integer suffix on floating-point literal")
		}

		p.advance()

	case 'f', 'F', 'd', 'D':
		p.advance()

		kind = LiteralFloat
	}

	if isWordChar(p.peek()) {
		return kind, p.errorAt(start, "invalid number")
	}

	return kind, nil
}

func (p *parser) digits() int {
	n := 0

	for c := p.peek(); c >= '0' && c <= '9'; c = p.peek() {
		p.advance()

		n++
	}

	return n
}

func (p *parser) literal(kind LiteralKind, start Position) *Literal {
	l := &Literal{Kind: kind}
	l.span, l.text = p.spanFrom(start)

	return l
}

func (p *parser) enter(at Position) error {
	p.depth++

	if p.depth > p.maxDepth {
		return p.errorAt(at, "maximum nesting depth "+strconv.Itoa(p.maxDepth)+" exceeded")
	}

	return nil
}

func (p *parser) leave() { p.depth-- }

// Helper methods

func (p *parser) peek() rune {
	if p.eof() {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(p.input[p.pos:])

	return r
}

// peekAt returns the byte n bytes past the current position, or 0.
func (p *parser) peekAt(n int) byte {
	if p.pos+n >= len(p.input) {
		return 0
	}

	return p.input[p.pos+n]
}

// word reports whether w appears at the current position and is not
// immediately followed by another word character.
func (p *parser) word(w string) bool {
	if !strings.HasPrefix(p.input[p.pos:], w) {
		return false
	}

	r, _ := utf8.DecodeRuneInString(p.input[p.pos+len(w):])

	return !isWordChar(r)
}

func (p *parser) advance() {
	if p.eof() {
		return
	}

	r, size := utf8.DecodeRuneInString(p.input[p.pos:])

	p.pos += size
	if r == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
}

func (p *parser) advanceN(n int) {
	for range n {
		p.advance()
	}
}

func (p *parser) expect(ch rune) bool {
	if !p.eof() && p.peek() == ch {
		p.advance()

		return true
	}

	return false
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) position() Position {
	return Position{
		Offset: p.pos,
		Line:   p.line,
		Column: p.col,
	}
}

func (p *parser) spanFrom(start Position) (Span, string) {
	return Span{Start: start, End: p.position()}, p.input[start.Offset:p.pos]
}

func (p *parser) skipWhitespaceAndComments() {
	for {
		for !p.eof() && unicode.IsSpace(p.peek()) {
			p.advance()
		}

		switch {
		case strings.HasPrefix(p.input[p.pos:], "//"):
			for !p.eof() && p.peek() != '\n' {
				p.advance()
			}

		case strings.HasPrefix(p.input[p.pos:], "/*"):
			p.advanceN(2)

			for !p.eof() && !strings.HasPrefix(p.input[p.pos:], "*/") {
				p.advance()
			}

			p.advanceN(2)

		default:
			return
		}
	}
}

func (p *parser) errorAt(pos Position, msg string, expected ...string) *Error {
	return &Error{Pos: pos, Msg: msg, Expected: expected, Source: p.input}
}

func (p *parser) unexpected(expected ...string) *Error {
	found := "end of input"
	if !p.eof() {
		found = strconv.QuoteRune(p.peek())
	}

	return p.errorAt(p.position(), "unexpected "+found, expected...)
}

// Character classification

// isIdentifierChar reports whether r may appear in a bare key.
func isIdentifierChar(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') ||
		r == '_' || r == '-' || r == '.' || r == '+'
}

// isWordChar reports whether r would continue a literal token.
func isWordChar(r rune) bool {
	return isIdentifierChar(r) || (r >= utf8.RuneSelf && unicode.IsLetter(r))
}

func isNumberStart(r rune) bool {
	return (r >= '0' && r <= '9') ||
		r == '+' || r == '-' || r == '.' || r == 'N' || r == 'I'
}

func isHex(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// IsIdentifier reports whether s can be written as a bare key.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if !isIdentifierChar(r) {
			return false
		}
	}

	return true
}
