package kvt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
)

// Native converts b into nested maps of plain Go values. Branches become
// map[string]any, NODE_ARRAY children []any of maps, and every other child
// the value [Node.Get] would return (copied, for arrays).
func Native(b *Branch) map[string]any {
	m := make(map[string]any, b.Len())

	for key, child := range b.All() {
		m[key] = nativeNode(child)
	}

	return m
}

func nativeNode(n Node) any {
	switch v := n.(type) {
	case *Branch:
		return Native(v)
	case *Scalar:
		return hostValue(v.value)
	case *Array:
		if nodes, ok := v.values.(NodeArray); ok {
			out := make([]any, len(nodes))
			for i, b := range nodes {
				out[i] = Native(b)
			}

			return out
		}

		return hostValue(clonePayload(v.values))
	default:
		return nil
	}
}

// FromNative builds a tree from nested maps such as those produced by
// [Native], [encoding/json] or YAML decoders.
//
// Sized Go types map to their node type (int8 to BYTE, float32 to FLOAT,
// and so on). Plain int, int64 and unsigned integers become LONG; float64
// becomes DOUBLE. A []any becomes a NODE_ARRAY when all elements are maps,
// otherwise the narrowest array kind holding every element: BOOLEAN,
// STRING, LONG or DOUBLE. An empty []any becomes an empty NODE_ARRAY.
func FromNative(m map[string]any) (*Branch, error) {
	b := NewBranch()

	for key, v := range m {
		p, err := nativePayload(v)
		if err != nil {
			return nil, ErrInvalidTypePairing.Wrap(err).With(slog.String("key", key))
		}

		if err := b.Put(key, p); err != nil {
			return nil, err
		}
	}

	return b, nil
}

//nolint:cyclop,gocyclo
func nativePayload(v any) (Payload, error) {
	switch x := v.(type) {
	case Payload:
		return x, nil
	case bool:
		return Bool(x), nil
	case int8:
		return Byte(x), nil
	case int16:
		return Short(x), nil
	case int32:
		return Int(x), nil
	case int:
		return Long(x), nil
	case int64:
		return Long(x), nil
	case uint8:
		return Long(x), nil
	case uint16:
		return Long(x), nil
	case uint32:
		return Long(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return nil, fmt.Errorf("integer %d overflows LONG", x)
		}

		return Long(x), nil
	case float32:
		return Float(x), nil
	case float64:
		return Double(x), nil
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return Long(i), nil
		}

		f, err := x.Float64()

		return Double(f), err
	case string:
		return String(x), nil
	case map[string]any:
		return FromNative(x)
	case []bool:
		return BoolArray(slices.Clone(x)), nil
	case []int8:
		return ByteArray(slices.Clone(x)), nil
	case []int16:
		return ShortArray(slices.Clone(x)), nil
	case []int32:
		return IntArray(slices.Clone(x)), nil
	case []int64:
		return LongArray(slices.Clone(x)), nil
	case []float32:
		return FloatArray(slices.Clone(x)), nil
	case []float64:
		return DoubleArray(slices.Clone(x)), nil
	case []string:
		return StringArray(slices.Clone(x)), nil
	case []*Branch:
		return NodeArray(slices.Clone(x)), nil
	case []any:
		return nativeList(x)
	case nil:
		return nil, errors.New("nil value")
	default:
		return nil, fmt.Errorf("unsupported value of type %T", v)
	}
}

// nativeList infers the array kind of a heterogeneous list.
func nativeList(list []any) (Payload, error) {
	elems := make([]Payload, len(list))

	kinds := map[NodeType]int{}

	for i, v := range list {
		p, err := nativePayload(v)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}

		elems[i] = p
		kinds[PayloadType(p)]++
	}

	only := func(ts ...NodeType) bool {
		n := 0
		for _, t := range ts {
			n += kinds[t]
		}

		return n == len(elems)
	}

	switch {
	case only(TypeNode):
		out := make(NodeArray, len(elems))
		for i, p := range elems {
			out[i], _ = p.(*Branch)
		}

		return out, nil

	case only(TypeBoolean):
		return convertList(elems, func(p Payload) bool { return bool(p.(Bool)) }), nil

	case only(TypeString):
		return convertList(elems, func(p Payload) string { return string(p.(String)) }), nil

	case only(TypeByte, TypeShort, TypeInteger, TypeLong):
		return convertList(elems, func(p Payload) int64 {
			i, _ := integerOf(p)

			return i
		}), nil

	case only(TypeByte, TypeShort, TypeInteger, TypeLong, TypeFloat, TypeDouble):
		return convertList(elems, func(p Payload) float64 {
			if i, ok := integerOf(p); ok {
				return float64(i)
			}

			if f, ok := p.(Float); ok {
				return float64(f)
			}

			return float64(p.(Double))
		}), nil

	default:
		return nil, errors.New("list elements of mixed kinds")
	}
}

func integerOf(p Payload) (int64, bool) {
	switch v := p.(type) {
	case Byte:
		return int64(v), true
	case Short:
		return int64(v), true
	case Int:
		return int64(v), true
	case Long:
		return int64(v), true
	default:
		return 0, false
	}
}

func convertList[T any](elems []Payload, conv func(Payload) T) Payload {
	out := make([]T, len(elems))
	for i, p := range elems {
		out[i] = conv(p)
	}

	return arrayPayload(out)
}

// FormatJSON writes b as JSON. Non-finite floating-point values cannot be
// represented and produce an error.
func FormatJSON(_ context.Context, w io.Writer, b *Branch, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(Native(b), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(Native(b))
	}

	if err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("format", "json"))
	}

	if _, err := fmt.Fprintln(w, string(data)); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// FormatYAML writes b as YAML, in flow style when indent is zero.
func FormatYAML(ctx context.Context, w io.Writer, b *Branch, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, Native(b), opts...)
	if err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("format", "yaml"))
	}

	if _, err := fmt.Fprint(w, string(data)); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
