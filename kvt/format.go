package kvt

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/Maceris/kvt/kvt/syntax"
)

// FormatOption configures [Format].
type FormatOption func(*formatter)

// WithIndent writes one entry per line, indented by n spaces per level.
// Zero (the default) writes the whole tree on a single line.
func WithIndent(n int) FormatOption {
	return func(f *formatter) {
		f.indent = max(n, 0)
	}
}

// WithColors colorizes keys and values with ANSI escape sequences,
// regardless of whether the output is a terminal.
func WithColors(enable bool) FormatOption {
	return func(f *formatter) {
		f.colors = enable
	}
}

// Colors used by [WithColors].
var (
	keyColor    = forceColor(color.FgBlue)
	stringColor = forceColor(color.FgGreen)
	numberColor = forceColor(color.FgYellow)
	boolColor   = forceColor(color.FgMagenta)
	prefixColor = forceColor(color.FgCyan, color.Bold)
)

// forceColor returns a color that ignores [color.NoColor].
func forceColor(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	c.EnableColor()

	return c
}

type formatter struct {
	w      *bufio.Writer
	indent int
	colors bool
}

// Format writes b in the KVT text format. Children appear in key order and
// every value carries the suffix or prefix needed to parse back to the same
// type.
func Format(w io.Writer, b *Branch, opts ...FormatOption) error {
	f := &formatter{w: bufio.NewWriter(w)}

	for _, opt := range opts {
		opt(f)
	}

	f.branch(b, 0)

	if err := f.w.Flush(); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// MarshalText returns b in the single-line KVT text format.
func MarshalText(b *Branch) string {
	var sb strings.Builder

	_ = Format(&sb, b)

	return sb.String()
}

// String implements [fmt.Stringer] with [MarshalText].
func (b *Branch) String() string { return MarshalText(b) }

// MarshalText implements [encoding.TextMarshaler].
func (b *Branch) MarshalText() ([]byte, error) {
	return []byte(MarshalText(b)), nil
}

func (f *formatter) paint(c *color.Color, s string) {
	if f.colors {
		s = c.SprintFunc()(s)
	}

	_, _ = f.w.WriteString(s)
}

func (f *formatter) newline(depth int) {
	if f.indent == 0 {
		return
	}

	_ = f.w.WriteByte('\n')
	_, _ = f.w.WriteString(strings.Repeat(" ", f.indent*depth))
}

func (f *formatter) branch(b *Branch, depth int) {
	if b == nil || b.Len() == 0 {
		_, _ = f.w.WriteString("{}")

		return
	}

	_ = f.w.WriteByte('{')

	first := true

	for key, child := range b.All() {
		if !first {
			_ = f.w.WriteByte(',')

			if f.indent == 0 {
				_ = f.w.WriteByte(' ')
			}
		}

		first = false

		f.newline(depth + 1)
		f.key(key)
		_, _ = f.w.WriteString(": ")
		f.node(child, depth+1)
	}

	f.newline(depth)
	_ = f.w.WriteByte('}')
}

func (f *formatter) key(key string) {
	if !syntax.IsIdentifier(key) {
		key = syntax.Quote(key)
	}

	f.paint(keyColor, key)
}

func (f *formatter) node(n Node, depth int) {
	switch v := n.(type) {
	case *Branch:
		f.branch(v, depth)
	case *Scalar:
		f.scalar(v.value)
	case *Array:
		f.array(v, depth)
	}
}

func (f *formatter) scalar(p Payload) {
	switch v := p.(type) {
	case Bool:
		f.paint(boolColor, strconv.FormatBool(bool(v)))
	case Byte:
		f.paint(numberColor, strconv.FormatInt(int64(v), 10)+"b")
	case Short:
		f.paint(numberColor, strconv.FormatInt(int64(v), 10)+"s")
	case Int:
		f.paint(numberColor, strconv.FormatInt(int64(v), 10))
	case Long:
		f.paint(numberColor, strconv.FormatInt(int64(v), 10)+"L")
	case Float:
		f.paint(numberColor, formatFloat(float64(v), 32)+"f")
	case Double:
		f.paint(numberColor, formatFloat(float64(v), 64))
	case String:
		f.paint(stringColor, syntax.Quote(string(v)))
	}
}

// element writes one array element. Integer elements carry no suffix; the
// array prefix already fixes their type.
func (f *formatter) element(p Payload) {
	switch v := p.(type) {
	case Byte:
		f.paint(numberColor, strconv.FormatInt(int64(v), 10))
	case Short:
		f.paint(numberColor, strconv.FormatInt(int64(v), 10))
	case Long:
		f.paint(numberColor, strconv.FormatInt(int64(v), 10))
	case Float:
		f.paint(numberColor, formatFloat(float64(v), 32))
	default:
		f.scalar(p)
	}
}

func (f *formatter) array(a *Array, depth int) {
	_ = f.w.WriteByte('[')

	letter, _ := a.typ.ArrayLetter()
	f.paint(prefixColor, string(letter)+":")

	first := true
	sep := func() {
		if first {
			_ = f.w.WriteByte(' ')
		} else {
			_, _ = f.w.WriteString(", ")
		}

		first = false
	}

	switch v := a.values.(type) {
	case NodeArray:
		for _, b := range v {
			sep()
			f.branch(b, depth)
		}
	default:
		for p := range payloadElements(v) {
			sep()
			f.element(p)
		}
	}

	_ = f.w.WriteByte(']')
}

// formatFloat renders v so that the text lexes as a floating-point literal.
func formatFloat(v float64, bits int) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}

	s := strconv.FormatFloat(v, 'g', -1, bits)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}

	return s
}
