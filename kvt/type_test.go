package kvt

import (
	"errors"
	"slices"
	"testing"
)

func TestNodeType_BinaryIDBijection(t *testing.T) {
	seen := map[byte]NodeType{}

	for typ := range Types() {
		id := typ.BinaryID()

		if prev, dup := seen[id]; dup {
			t.Fatalf("%v and %v share binary id %d", prev, typ, id)
		}

		seen[id] = typ

		got, err := FromBinaryID(id)
		if err != nil {
			t.Fatalf("FromBinaryID(%d): %v", id, err)
		}

		if got != typ {
			t.Errorf("FromBinaryID(%d) = %v, want %v", id, got, typ)
		}
	}

	if len(seen) != 18 {
		t.Errorf("expected 18 types, got %d", len(seen))
	}
}

func TestNodeType_ArrayLetterBijection(t *testing.T) {
	arrays := 0

	for typ := range Types() {
		letter, ok := typ.ArrayLetter()
		if ok != typ.IsArray() {
			t.Errorf("%v: ArrayLetter ok=%v, IsArray=%v", typ, ok, typ.IsArray())
		}

		if !ok {
			continue
		}

		arrays++

		got, err := FromArrayLetter(rune(letter))
		if err != nil {
			t.Fatalf("FromArrayLetter(%q): %v", letter, err)
		}

		if got != typ {
			t.Errorf("FromArrayLetter(%q) = %v, want %v", letter, got, typ)
		}
	}

	if arrays != 9 {
		t.Errorf("expected 9 array types, got %d", arrays)
	}
}

func TestNodeType_Table(t *testing.T) {
	tests := []struct {
		scalar NodeType
		array  NodeType
		letter byte
		id     byte
		name   string
	}{
		{TypeBoolean, TypeBooleanArray, 'Z', 0, "BOOLEAN"},
		{TypeByte, TypeByteArray, 'B', 2, "BYTE"},
		{TypeDouble, TypeDoubleArray, 'D', 4, "DOUBLE"},
		{TypeFloat, TypeFloatArray, 'F', 6, "FLOAT"},
		{TypeInteger, TypeIntegerArray, 'I', 8, "INTEGER"},
		{TypeLong, TypeLongArray, 'L', 10, "LONG"},
		{TypeNode, TypeNodeArray, 'N', 12, "NODE"},
		{TypeShort, TypeShortArray, 'S', 14, "SHORT"},
		{TypeString, TypeStringArray, 'T', 16, "STRING"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.scalar.BinaryID() != tt.id || tt.array.BinaryID() != tt.id+1 {
				t.Errorf("ids = %d/%d, want %d/%d",
					tt.scalar.BinaryID(), tt.array.BinaryID(), tt.id, tt.id+1)
			}

			if l, _ := tt.array.ArrayLetter(); l != tt.letter {
				t.Errorf("letter = %q, want %q", l, tt.letter)
			}

			if tt.scalar.String() != tt.name || tt.array.String() != tt.name+"_ARRAY" {
				t.Errorf("names = %s/%s", tt.scalar, tt.array)
			}

			if tt.scalar.ArrayOf() != tt.array || tt.array.Element() != tt.scalar {
				t.Errorf("ArrayOf/Element mismatch for %s", tt.name)
			}
		})
	}
}

func TestFromBinaryID_Unknown(t *testing.T) {
	for _, id := range []byte{18, 19, 0x7f, 0xff} {
		typ, err := FromBinaryID(id)
		if !errors.Is(err, ErrUnknownTypeTag) {
			t.Errorf("FromBinaryID(%d) error = %v, want ErrUnknownTypeTag", id, err)
		}

		if typ != TypeInvalid {
			t.Errorf("FromBinaryID(%d) = %v, want TypeInvalid", id, typ)
		}
	}
}

func TestFromArrayLetter_Unknown(t *testing.T) {
	for _, letter := range []rune{'A', 'X', 'i', 'z', 'n', ':', '1', 'é'} {
		if _, err := FromArrayLetter(letter); !errors.Is(err, ErrUnknownArrayPrefix) {
			t.Errorf("FromArrayLetter(%q) error = %v, want ErrUnknownArrayPrefix", letter, err)
		}
	}
}

func TestTypes_Order(t *testing.T) {
	got := slices.Collect(Types())

	if !slices.IsSortedFunc(got, func(a, b NodeType) int {
		return int(a.BinaryID()) - int(b.BinaryID())
	}) {
		t.Errorf("Types() not in binary id order: %v", got)
	}

	if TypeInvalid.String() != "NodeType(255)" {
		t.Errorf("TypeInvalid.String() = %q", TypeInvalid.String())
	}
}
