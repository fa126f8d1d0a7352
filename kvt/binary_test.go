package kvt

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEncode_Bytes(t *testing.T) {
	b := NewBranch()

	if err := b.Put("z", Bool(true)); err != nil {
		t.Fatal(err)
	}

	if err := b.Put("s", ShortArray{-1}); err != nil {
		t.Fatal(err)
	}

	child, err := b.Add("n")
	if err != nil {
		t.Fatal(err)
	}

	if err := child.Put("a", Int(258)); err != nil {
		t.Fatal(err)
	}

	got, err := b.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}

	want := []byte{
		0x0C, 0, 0, 0, 3, // root NODE, three children
		0x0C, 0, 0, 0, 1, 'n', // n: NODE
		0, 0, 0, 1, // one child
		0x08, 0, 0, 0, 1, 'a', 0, 0, 1, 2, // a: INTEGER 258
		0x0F, 0, 0, 0, 1, 's', // s: SHORT_ARRAY
		0, 0, 0, 1, 0xFF, 0xFF, // [-1]
		0x00, 0, 0, 0, 1, 'z', 1, // z: BOOLEAN true
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MarshalBinary() mismatch (-want +got):\n%s", diff)
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	want := sampleTree(t)

	data, err := want.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}

	got, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if diff := treeDiff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	again, err := got.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(data, again) {
		t.Error("re-encoding a decoded tree changed its bytes")
	}
}

func TestEncode_Deterministic(t *testing.T) {
	a, err := sampleTree(t).MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}

	b, err := sampleTree(t).Clone().MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(a, b) {
		t.Error("equal trees encoded differently")
	}
}

func TestDecode_Truncated(t *testing.T) {
	data, err := sampleTree(t).MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}

	for n := range len(data) {
		if _, err := Decode(bytes.NewReader(data[:n])); !errors.Is(err, ErrDecodeTruncated) {
			t.Fatalf("prefix of %d/%d bytes: error = %v, want ErrDecodeTruncated", n, len(data), err)
		}
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"root not a node", []byte{0x08, 0, 0, 0, 1}, ErrDecodeUnknownTag},
		{"unknown root tag", []byte{0x40}, ErrDecodeUnknownTag},
		{"unknown child tag", []byte{0x0C, 0, 0, 0, 1, 0x20, 0, 0, 0, 1, 'x'}, ErrDecodeUnknownTag},
		{"boolean out of range", []byte{0x0C, 0, 0, 0, 1, 0x00, 0, 0, 0, 1, 'b', 2}, ErrDecodeInvalid},
		{"negative length", []byte{0x0C, 0xFF, 0xFF, 0xFF, 0xFF}, ErrDecodeInvalid},
		{"huge string", []byte{0x0C, 0, 0, 0, 1, 0x10, 0, 0, 0, 1, 's', 0x7F, 0xFF, 0xFF, 0xFF, 'x'}, ErrDecodeTruncated},
		{"huge array", []byte{0x0C, 0, 0, 0, 1, 0x09, 0, 0, 0, 1, 'a', 0x7F, 0xFF, 0xFF, 0xFF}, ErrDecodeTruncated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(bytes.NewReader(tt.data)); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecode_MaxDepth(t *testing.T) {
	root := NewBranch()

	a, err := root.Add("a")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := a.Add("b"); err != nil {
		t.Fatal(err)
	}

	data, err := root.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}

	if _, err := Decode(bytes.NewReader(data), WithMaxDepth(3)); err != nil {
		t.Errorf("depth 3 rejected: %v", err)
	}

	if _, err := Decode(bytes.NewReader(data), WithMaxDepth(2)); !errors.Is(err, ErrDecodeInvalid) {
		t.Errorf("depth 3 with limit 2: error = %v, want ErrDecodeInvalid", err)
	}
}

func TestUnmarshalBinary(t *testing.T) {
	want := sampleTree(t)

	data, err := want.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}

	var got Branch
	if err := got.UnmarshalBinary(data); err != nil {
		t.Fatal(err)
	}

	if diff := treeDiff(want, &got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	if err := got.UnmarshalBinary(append(data, 0)); !errors.Is(err, ErrDecodeInvalid) {
		t.Errorf("trailing data: error = %v, want ErrDecodeInvalid", err)
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestEncode_WriteError(t *testing.T) {
	if err := Encode(failWriter{}, sampleTree(t)); !errors.Is(err, ErrWriteOutput) {
		t.Errorf("error = %v, want ErrWriteOutput", err)
	}
}
