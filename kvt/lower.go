package kvt

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/Maceris/kvt/kvt/syntax"
	"github.com/Maceris/kvt/log"
)

// Parse parses src in the KVT text format and lowers it into a tree.
//
// Syntax errors are fatal and returned wrapped in [ErrParse]. An entry whose
// value cannot be interpreted (a literal out of range, an unknown array
// prefix, an element of the wrong kind) drops that entry and every later
// entry of the same node; a warning naming the node is logged and lowering
// of other nodes continues. [WithStrict] turns such failures into an
// [ErrLoweringFailure] error.
func Parse(ctx context.Context, src string, opts ...Option) (*Branch, error) {
	o := makeOptions(opts...)

	root, _, err := parse(ctx, src, o)

	return root, err
}

// Lower converts a parse tree into a tree of nodes.
func Lower(ctx context.Context, doc *syntax.Document, opts ...Option) (*Branch, error) {
	o := makeOptions(opts...)

	root, _, err := lower(ctx, doc, o)

	return root, err
}

func parse(ctx context.Context, src string, o options) (*Branch, int, error) {
	doc, err := syntax.Parse(src, syntax.WithMaxDepth(o.maxDepth))
	if err != nil {
		return nil, 0, ErrParse.Wrap(err).With(slog.Int("source_length", len(src)))
	}

	o.logger.TraceContext(ctx, "parse complete",
		slog.Int("entries", len(doc.Root.Entries)))

	return lower(ctx, doc, o)
}

// lower returns the tree and the number of nodes whose lowering failed.
func lower(ctx context.Context, doc *syntax.Document, o options) (*Branch, int, error) {
	l := &lowerer{ctx: ctx, logger: o.logger, strict: o.strict}

	root := NewBranch()

	if err := l.node(root, doc.Root); err != nil {
		return nil, l.failures, err
	}

	return root, l.failures, nil
}

type lowerer struct {
	ctx      context.Context //nolint:containedctx
	logger   log.Logger
	strict   bool
	failures int
}

// node lowers the entries of n into target. A failing entry ends the loop;
// entries already applied are kept.
func (l *lowerer) node(target *Branch, n *syntax.Node) error {
	for _, e := range n.Entries {
		err := l.entry(target, e)
		if err == nil {
			continue
		}

		if l.strict {
			if errors.Is(err, ErrLoweringFailure) {
				return err
			}

			return ErrLoweringFailure.Wrap(err).With(
				slog.String("node", n.Text()),
				slog.String("key", e.Key.Text()),
			)
		}

		l.failures++

		l.logger.WarnContext(l.ctx, "kvt: lowering failed",
			slog.String("node", n.Text()),
			slog.String("key", e.Key.Text()),
			slog.Any("error", err),
		)

		return nil
	}

	return nil
}

func (l *lowerer) entry(target *Branch, e *syntax.Entry) error {
	key, err := keyName(e.Key)
	if err != nil {
		return err
	}

	switch v := e.Value.(type) {
	case *syntax.Literal:
		p, err := literalPayload(v)
		if err != nil {
			return err
		}

		return target.Put(key, p)

	case *syntax.Array:
		t, p, err := l.array(v)
		if err != nil {
			return err
		}

		return target.Set(key, t, p)

	case *syntax.Node:
		child, err := target.Add(key)
		if err != nil {
			return err
		}

		return l.node(child, v)

	default:
		return ErrLoweringFailure.With(slog.String("value", e.Value.Text()))
	}
}

func (l *lowerer) array(a *syntax.Array) (NodeType, Payload, error) {
	t, err := FromArrayLetter(a.Prefix)
	if err != nil {
		return TypeInvalid, nil, err
	}

	if !t.IsArray() {
		return TypeInvalid, nil, ErrInvalidTypePairing.With(slog.Any("type", t))
	}

	var p Payload

	switch t {
	case TypeNodeArray:
		nodes := make(NodeArray, 0, len(a.Elements))

		for _, elem := range a.Elements {
			n, ok := elem.(*syntax.Node)
			if !ok {
				return t, nil, elementError(t, elem)
			}

			b := NewBranch()
			if err := l.node(b, n); err != nil {
				return t, nil, err
			}

			nodes = append(nodes, b)
		}

		p = nodes

	case TypeBooleanArray:
		p, err = elements(t, a.Elements, parseBool)
	case TypeByteArray:
		p, err = elements(t, a.Elements, parseInt[int8](8, "bB"))
	case TypeShortArray:
		p, err = elements(t, a.Elements, parseInt[int16](16, "sS"))
	case TypeIntegerArray:
		p, err = elements(t, a.Elements, parseInt[int32](32, ""))
	case TypeLongArray:
		p, err = elements(t, a.Elements, parseInt[int64](64, "lL"))
	case TypeFloatArray:
		p, err = elements(t, a.Elements, parseFloat[float32](32, "fF"))
	case TypeDoubleArray:
		p, err = elements(t, a.Elements, parseFloat[float64](64, "dD"))
	case TypeStringArray:
		p, err = elements(t, a.Elements, parseString)
	}

	return t, p, err
}

// elements converts every element of an array through parse. The typed
// payload is built from the result by the caller's conversion.
func elements[T any](
	t NodeType,
	elems []syntax.Value,
	parse func(*syntax.Literal) (T, error),
) (Payload, error) {
	out := make([]T, 0, len(elems))

	for _, elem := range elems {
		lit, ok := elem.(*syntax.Literal)
		if !ok {
			return nil, elementError(t, elem)
		}

		v, err := parse(lit)
		if err != nil {
			return nil, err
		}

		out = append(out, v)
	}

	return arrayPayload(out), nil
}

// arrayPayload converts a slice of a host element type into its payload.
func arrayPayload[T any](s []T) Payload {
	switch v := any(s).(type) {
	case []bool:
		return BoolArray(v)
	case []int8:
		return ByteArray(v)
	case []int16:
		return ShortArray(v)
	case []int32:
		return IntArray(v)
	case []int64:
		return LongArray(v)
	case []float32:
		return FloatArray(v)
	case []float64:
		return DoubleArray(v)
	case []string:
		return StringArray(v)
	case []*Branch:
		return NodeArray(v)
	default:
		return nil
	}
}

func elementError(t NodeType, elem syntax.Value) error {
	return ErrInvalidTypePairing.With(
		slog.Any("type", t),
		slog.String("element", elem.Text()),
	)
}

func keyName(k *syntax.Key) (string, error) {
	if k.Kind == syntax.KeyIdentifier {
		return k.Text(), nil
	}

	s, err := syntax.Unquote(k.Text())
	if err != nil {
		return "", ErrLoweringFailure.Wrap(err).With(slog.String("key", k.Text()))
	}

	return s, nil
}

// literalPayload infers the type of a scalar literal from its lexical class
// and suffix.
func literalPayload(lit *syntax.Literal) (Payload, error) {
	switch lit.Kind {
	case syntax.LiteralString:
		s, err := parseString(lit)

		return String(s), err

	case syntax.LiteralBoolean:
		v, err := parseBool(lit)

		return Bool(v), err

	case syntax.LiteralInteger:
		text := lit.Text()

		switch text[len(text)-1] {
		case 'b', 'B':
			v, err := parseInt[int8](8, "bB")(lit)

			return Byte(v), err
		case 's', 'S':
			v, err := parseInt[int16](16, "sS")(lit)

			return Short(v), err
		case 'l', 'L':
			v, err := parseInt[int64](64, "lL")(lit)

			return Long(v), err
		default:
			v, err := parseInt[int32](32, "")(lit)

			return Int(v), err
		}

	case syntax.LiteralFloat:
		text := lit.Text()

		if c := text[len(text)-1]; c == 'f' || c == 'F' {
			v, err := parseFloat[float32](32, "fF")(lit)

			return Float(v), err
		}

		v, err := parseFloat[float64](64, "dD")(lit)

		return Double(v), err

	default:
		return nil, literalError(lit, nil)
	}
}

func parseBool(lit *syntax.Literal) (bool, error) {
	if lit.Kind != syntax.LiteralBoolean {
		return false, literalError(lit, nil)
	}

	return lit.Text() == "true", nil
}

func parseString(lit *syntax.Literal) (string, error) {
	if lit.Kind != syntax.LiteralString {
		return "", literalError(lit, nil)
	}

	s, err := syntax.Unquote(lit.Text())
	if err != nil {
		return "", literalError(lit, err)
	}

	return s, nil
}

// parseInt returns a parser for integer literals of the given bit size. One
// trailing character from suffixes is stripped before conversion.
func parseInt[T int8 | int16 | int32 | int64](
	bits int,
	suffixes string,
) func(*syntax.Literal) (T, error) {
	return func(lit *syntax.Literal) (T, error) {
		if lit.Kind != syntax.LiteralInteger {
			return 0, literalError(lit, nil)
		}

		v, err := strconv.ParseInt(stripSuffix(lit.Text(), suffixes), 10, bits)
		if err != nil {
			return 0, literalError(lit, err)
		}

		return T(v), nil
	}
}

// parseFloat returns a parser for numeric literals of the given bit size.
// Integer literals without a suffix are accepted.
func parseFloat[T float32 | float64](
	bits int,
	suffixes string,
) func(*syntax.Literal) (T, error) {
	return func(lit *syntax.Literal) (T, error) {
		text := lit.Text()

		switch lit.Kind {
		case syntax.LiteralFloat:
			text = stripSuffix(text, suffixes)
		case syntax.LiteralInteger:
		default:
			return 0, literalError(lit, nil)
		}

		// strconv rejects a signed NaN.
		if strings.TrimLeft(text, "+-") == "NaN" {
			text = "NaN"
		}

		v, err := strconv.ParseFloat(text, bits)
		if err != nil {
			return 0, literalError(lit, err)
		}

		return T(v), nil
	}
}

func stripSuffix(text, suffixes string) string {
	if n := len(text); n > 0 {
		for i := range len(suffixes) {
			if text[n-1] == suffixes[i] {
				return text[:n-1]
			}
		}
	}

	return text
}

func literalError(lit *syntax.Literal, err error) error {
	e := ErrLoweringFailure.With(
		slog.String("literal", lit.Text()),
		slog.String("kind", lit.Kind.String()),
	)

	if err != nil {
		return e.Wrap(err)
	}

	return e
}

// ParseReader reads all of r and parses it like [Parse]. Results are cached
// by source hash (see [WithCache]); each call returns its own copy.
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (*Branch, error) {
	o := makeOptions(opts...)

	data, err := readAll(r)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).With(slog.String("source", "reader"))
	}

	o.logger.TraceContext(ctx, "read input", slog.Int("source_bytes", len(data)))

	if !o.cache {
		root, _, err := parse(ctx, string(data), o)

		return root, err
	}

	return parseCached(ctx, string(data), o)
}

// UnmarshalText implements [encoding.TextUnmarshaler]. Lowering is strict: a
// value that cannot be interpreted is an error rather than a warning.
func (b *Branch) UnmarshalText(text []byte) error {
	root, err := Parse(context.Background(), string(text), WithStrict(true))
	if err != nil {
		return err
	}

	*b = *root

	return nil
}
