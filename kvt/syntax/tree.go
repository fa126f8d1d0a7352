package syntax

import "strconv"

// Position is a location in the source text. Line and Column are 1-based;
// Column counts runes.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Span is the half-open source range [Start, End) covered by a tree element.
type Span struct {
	Start Position
	End   Position
}

// Document is the root of a parse tree.
type Document struct {
	Root   *Node
	Source string
}

// Node is a brace-delimited list of entries.
type Node struct {
	Entries []*Entry
	span    Span
	text    string
}

// Entry is one key/value pair of a [Node].
type Entry struct {
	Key   *Key
	Value Value
	span  Span
	text  string
}

// KeyKind distinguishes bare identifier keys from quoted keys.
type KeyKind uint8

const (
	KeyIdentifier KeyKind = iota
	KeyString
)

// Key is the name part of an [Entry].
type Key struct {
	Kind KeyKind
	span Span
	text string
}

// Value is one of [*Literal], [*Array] or [*Node].
type Value interface {
	Span() Span
	Text() string

	value()
}

// LiteralKind is the lexical class of a [Literal].
type LiteralKind uint8

const (
	LiteralString LiteralKind = iota
	LiteralInteger
	LiteralFloat
	LiteralBoolean
)

func (k LiteralKind) String() string {
	switch k {
	case LiteralString:
		return "string"
	case LiteralInteger:
		return "integer"
	case LiteralFloat:
		return "float"
	case LiteralBoolean:
		return "boolean"
	default:
		return "LiteralKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Literal is a scalar token. Its text is the raw lexeme, including quotes and
// type suffix.
type Literal struct {
	Kind LiteralKind
	span Span
	text string
}

// Array is a bracketed, prefixed list of values such as [I: 1, 2].
type Array struct {
	Prefix   rune
	Elements []Value
	span     Span
	text     string
}

func (n *Node) Span() Span    { return n.span }
func (n *Node) Text() string  { return n.text }
func (e *Entry) Span() Span   { return e.span }
func (e *Entry) Text() string { return e.text }
func (k *Key) Span() Span     { return k.span }
func (k *Key) Text() string   { return k.text }

func (l *Literal) Span() Span   { return l.span }
func (l *Literal) Text() string { return l.text }
func (a *Array) Span() Span     { return a.span }
func (a *Array) Text() string   { return a.text }

func (*Node) value()    {}
func (*Literal) value() {}
func (*Array) value()   {}
