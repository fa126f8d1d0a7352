package kvt

import (
	"iter"
	"log/slog"
	"strconv"
)

// NodeType identifies the kind of value a node holds. The numeric value of
// each member is its binary tag.
type NodeType uint8

const (
	TypeBoolean NodeType = iota
	TypeBooleanArray
	TypeByte
	TypeByteArray
	TypeDouble
	TypeDoubleArray
	TypeFloat
	TypeFloatArray
	TypeInteger
	TypeIntegerArray
	TypeLong
	TypeLongArray
	TypeNode
	TypeNodeArray
	TypeShort
	TypeShortArray
	TypeString
	TypeStringArray

	// TypeInvalid is returned alongside lookup errors. It is not a member of
	// the catalog.
	TypeInvalid NodeType = 0xFF
)

// noLetter marks scalar kinds, which have no array prefix.
const noLetter = 0

var catalog = [...]struct {
	name    string
	letter  byte
	element NodeType
	array   NodeType
}{
	TypeBoolean:      {"BOOLEAN", noLetter, TypeBoolean, TypeBooleanArray},
	TypeBooleanArray: {"BOOLEAN_ARRAY", 'Z', TypeBoolean, TypeBooleanArray},
	TypeByte:         {"BYTE", noLetter, TypeByte, TypeByteArray},
	TypeByteArray:    {"BYTE_ARRAY", 'B', TypeByte, TypeByteArray},
	TypeDouble:       {"DOUBLE", noLetter, TypeDouble, TypeDoubleArray},
	TypeDoubleArray:  {"DOUBLE_ARRAY", 'D', TypeDouble, TypeDoubleArray},
	TypeFloat:        {"FLOAT", noLetter, TypeFloat, TypeFloatArray},
	TypeFloatArray:   {"FLOAT_ARRAY", 'F', TypeFloat, TypeFloatArray},
	TypeInteger:      {"INTEGER", noLetter, TypeInteger, TypeIntegerArray},
	TypeIntegerArray: {"INTEGER_ARRAY", 'I', TypeInteger, TypeIntegerArray},
	TypeLong:         {"LONG", noLetter, TypeLong, TypeLongArray},
	TypeLongArray:    {"LONG_ARRAY", 'L', TypeLong, TypeLongArray},
	TypeNode:         {"NODE", noLetter, TypeNode, TypeNodeArray},
	TypeNodeArray:    {"NODE_ARRAY", 'N', TypeNode, TypeNodeArray},
	TypeShort:        {"SHORT", noLetter, TypeShort, TypeShortArray},
	TypeShortArray:   {"SHORT_ARRAY", 'S', TypeShort, TypeShortArray},
	TypeString:       {"STRING", noLetter, TypeString, TypeStringArray},
	TypeStringArray:  {"STRING_ARRAY", 'T', TypeString, TypeStringArray},
}

func (t NodeType) valid() bool { return int(t) < len(catalog) }

// String returns the upper-case name of t, e.g. "INTEGER_ARRAY".
func (t NodeType) String() string {
	if !t.valid() {
		return "NodeType(" + strconv.Itoa(int(t)) + ")"
	}

	return catalog[t].name
}

// LogValue implements [slog.LogValuer].
func (t NodeType) LogValue() slog.Value { return slog.StringValue(t.String()) }

// BinaryID returns the tag byte identifying t in the binary encoding.
func (t NodeType) BinaryID() byte { return byte(t) }

// ArrayLetter returns the text-format prefix letter of an array kind. The
// second result is false for scalar kinds.
func (t NodeType) ArrayLetter() (byte, bool) {
	if !t.valid() || catalog[t].letter == noLetter {
		return 0, false
	}

	return catalog[t].letter, true
}

// IsArray reports whether t is one of the nine array kinds.
func (t NodeType) IsArray() bool {
	_, ok := t.ArrayLetter()

	return ok
}

// Element returns the scalar kind held by array kind t. Scalar kinds return
// themselves.
func (t NodeType) Element() NodeType {
	if !t.valid() {
		return TypeInvalid
	}

	return catalog[t].element
}

// ArrayOf returns the array kind whose elements are of scalar kind t. Array
// kinds return themselves.
func (t NodeType) ArrayOf() NodeType {
	if !t.valid() {
		return TypeInvalid
	}

	return catalog[t].array
}

// FromBinaryID returns the type whose binary tag is id.
func FromBinaryID(id byte) (NodeType, error) {
	t := NodeType(id)
	if !t.valid() {
		return TypeInvalid, ErrUnknownTypeTag.With(slog.Int("tag", int(id)))
	}

	return t, nil
}

// FromArrayLetter returns the array type whose text prefix is letter. The
// lookup is case-sensitive.
func FromArrayLetter(letter rune) (NodeType, error) {
	for t := range Types() {
		if l, ok := t.ArrayLetter(); ok && rune(l) == letter {
			return t, nil
		}
	}

	return TypeInvalid, ErrUnknownArrayPrefix.With(
		slog.String("prefix", string(letter)),
	)
}

// Types returns an iterator over all node types in binary tag order.
func Types() iter.Seq[NodeType] {
	return func(yield func(NodeType) bool) {
		for i := range catalog {
			if !yield(NodeType(i)) {
				return
			}
		}
	}
}
