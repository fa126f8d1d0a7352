package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Maceris/kvt/kvt"
)

const sampleTree = `{b: [B: 1, -2], d: 1.5, n: {s: "x", t: [T: "p", "q"]}, z: true}`

func TestEncode_Stdout(t *testing.T) {
	want, err := kvt.Parse(context.Background(), sampleTree)
	if err != nil {
		t.Fatal(err)
	}

	wantBytes, err := want.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}

	ctx, out := testContext(t)

	e := &Encode{
		Output: "-",
		Gzip:   false,
		Source: writeTemp(t, "in.kvt", []byte(sampleTree)),
	}

	if err := e.Run(ctx); err != nil {
		t.Fatalf("Encode.Run() error = %v", err)
	}

	if !bytes.Equal(out.Bytes(), wantBytes) {
		t.Errorf("Encode.Run() output = % x, want % x", out.Bytes(), wantBytes)
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	for _, gzip := range []bool{true, false} {
		ctx, out := testContext(t)

		path := filepath.Join(t.TempDir(), "tree.kvtb")

		e := &Encode{
			Output: path,
			Gzip:   gzip,
			Level:  -1,
			Source: writeTemp(t, "in.kvt", []byte(sampleTree)),
		}

		if err := e.Run(ctx); err != nil {
			t.Fatalf("Encode.Run(gzip=%v) error = %v", gzip, err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}

		if kvt.IsGzip(data) != gzip {
			t.Errorf("IsGzip() = %v, want %v", kvt.IsGzip(data), gzip)
		}

		d := &Decode{Indent: 0, Source: path}

		if err := d.Run(ctx); err != nil {
			t.Fatalf("Decode.Run(gzip=%v) error = %v", gzip, err)
		}

		if got := out.String(); got != sampleTree+"\n" {
			t.Errorf("Decode.Run() output = %q, want %q", got, sampleTree+"\n")
		}
	}
}

func TestEncode_InvalidLevel(t *testing.T) {
	ctx, _ := testContext(t)

	e := &Encode{
		Output: "-",
		Gzip:   true,
		Level:  42,
		Source: writeTemp(t, "in.kvt", []byte(sampleTree)),
	}

	if err := e.Run(ctx); !errors.Is(err, kvt.ErrWriteOutput) {
		t.Errorf("Encode.Run() error = %v, want ErrWriteOutput", err)
	}
}

func TestDecode_Text(t *testing.T) {
	ctx, out := testContext(t)

	d := &Decode{Source: writeTemp(t, "in.kvt", []byte(sampleTree))}

	if err := d.Run(ctx); !errors.Is(err, kvt.ErrDecodeUnknownTag) {
		t.Errorf("Decode.Run() error = %v, want ErrDecodeUnknownTag", err)
	}

	if out.Len() != 0 {
		t.Errorf("Decode.Run() wrote %q on error", out.String())
	}
}

func TestDecode_Truncated(t *testing.T) {
	root, err := kvt.Parse(context.Background(), sampleTree)
	if err != nil {
		t.Fatal(err)
	}

	data, err := root.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}

	ctx, _ := testContext(t)

	d := &Decode{Source: writeTemp(t, "in.kvtb", data[:len(data)-3])}

	if err := d.Run(ctx); !errors.Is(err, kvt.ErrDecodeTruncated) {
		t.Errorf("Decode.Run() error = %v, want ErrDecodeTruncated", err)
	}
}
