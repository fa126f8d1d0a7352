package kvt

import (
	"fmt"
	"log/slog"
)

// As returns the payload of the named child of n as a T, where T is one of
// the plain Go types returned by [Node.Get] (int32, []string, *Branch, ...).
//
// Unlike the Get* convenience methods of [Branch], As distinguishes a missing
// child ([ErrNotFound]) from one of another type ([ErrTypeMismatch]).
func As[T any](n Node, name string) (T, error) {
	var zero T

	v, err := n.Get(name)
	if err != nil {
		return zero, err
	}

	if v == nil {
		return zero, ErrNotFound.With(slog.String("key", name))
	}

	t, ok := v.(T)
	if !ok {
		return zero, ErrTypeMismatch.With(
			slog.String("key", name),
			slog.String("want", fmt.Sprintf("%T", zero)),
			slog.String("got", fmt.Sprintf("%T", v)),
		)
	}

	return t, nil
}

func valueOr[T any](b *Branch, name string, def T) T {
	v, err := As[T](b, name)
	if err != nil {
		return def
	}

	return v
}

func sliceOr[T any](b *Branch, name string) []T {
	v, err := As[[]T](b, name)
	if err != nil || v == nil {
		return []T{}
	}

	return v
}

// GetBoolean returns the named BOOLEAN child, or false.
func (b *Branch) GetBoolean(name string) bool { return valueOr(b, name, false) }

// GetByte returns the named BYTE child, or 0.
func (b *Branch) GetByte(name string) int8 { return valueOr[int8](b, name, 0) }

// GetShort returns the named SHORT child, or 0.
func (b *Branch) GetShort(name string) int16 { return valueOr[int16](b, name, 0) }

// GetInteger returns the named INTEGER child, or 0.
func (b *Branch) GetInteger(name string) int32 { return valueOr[int32](b, name, 0) }

// GetLong returns the named LONG child, or 0.
func (b *Branch) GetLong(name string) int64 { return valueOr[int64](b, name, 0) }

// GetFloat returns the named FLOAT child, or 0.
func (b *Branch) GetFloat(name string) float32 { return valueOr[float32](b, name, 0) }

// GetDouble returns the named DOUBLE child, or 0.
func (b *Branch) GetDouble(name string) float64 { return valueOr[float64](b, name, 0) }

// GetString returns the named STRING child, or "".
func (b *Branch) GetString(name string) string { return valueOr(b, name, "") }

// GetNode returns the named NODE child, or nil.
func (b *Branch) GetNode(name string) *Branch { return valueOr[*Branch](b, name, nil) }

// The array accessors return an empty, non-nil slice when the child is
// missing or of another type. The returned slice shares storage with the
// tree.

func (b *Branch) GetBooleanArray(name string) []bool  { return sliceOr[bool](b, name) }
func (b *Branch) GetByteArray(name string) []int8     { return sliceOr[int8](b, name) }
func (b *Branch) GetShortArray(name string) []int16   { return sliceOr[int16](b, name) }
func (b *Branch) GetIntegerArray(name string) []int32 { return sliceOr[int32](b, name) }
func (b *Branch) GetLongArray(name string) []int64    { return sliceOr[int64](b, name) }
func (b *Branch) GetFloatArray(name string) []float32 { return sliceOr[float32](b, name) }
func (b *Branch) GetDoubleArray(name string) []float64 {
	return sliceOr[float64](b, name)
}
func (b *Branch) GetStringArray(name string) []string { return sliceOr[string](b, name) }
func (b *Branch) GetNodeArray(name string) []*Branch  { return sliceOr[*Branch](b, name) }
