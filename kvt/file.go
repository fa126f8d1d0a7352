package kvt

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/readahead"
)

var gzipMagic = []byte{0x1f, 0x8b}

type fileOptions struct {
	gzip  bool
	level int
	perm  fs.FileMode
}

// FileOption configures [WriteFile].
type FileOption func(*fileOptions)

// WithGzip enables or disables gzip compression. Compression is on by
// default.
func WithGzip(enable bool) FileOption {
	return func(o *fileOptions) {
		o.gzip = enable
	}
}

// WithCompressionLevel sets the gzip level, from [gzip.HuffmanOnly] to
// [gzip.BestCompression].
func WithCompressionLevel(level int) FileOption {
	return func(o *fileOptions) {
		o.level = level
	}
}

// WithPerm sets the permission bits of a newly created file.
func WithPerm(perm fs.FileMode) FileOption {
	return func(o *fileOptions) {
		o.perm = perm
	}
}

// WriteFile writes b in the binary format to the named file, truncating it
// if it exists.
func WriteFile(path string, b *Branch, opts ...FileOption) (err error) {
	o := fileOptions{gzip: true, level: gzip.DefaultCompression, perm: 0o644}

	for _, opt := range opts {
		opt(&o)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, o.perm)
	if err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("path", path))
	}

	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = ErrWriteOutput.Wrap(cerr).With(slog.String("path", path))
		}
	}()

	return Write(f, b, o.gzip, o.level)
}

// Write encodes b to w, gzip-compressed at level when compress is set.
func Write(w io.Writer, b *Branch, compress bool, level int) error {
	if !compress {
		return Encode(w, b)
	}

	zw, err := gzip.NewWriterLevel(w, level)
	if err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.Int("level", level))
	}

	if err := Encode(zw, b); err != nil {
		_ = zw.Close()

		return err
	}

	if err := zw.Close(); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// ReadFile reads a tree in the binary format from the named file,
// decompressing it if it is gzip-compressed.
func ReadFile(path string, opts ...Option) (*Branch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).With(slog.String("path", path))
	}
	defer f.Close()

	ra := readahead.NewReader(f)
	defer ra.Close()

	return Read(ra, opts...)
}

// Read decodes a tree in the binary format from r, decompressing it first if
// it starts with the gzip magic number.
func Read(r io.Reader, opts ...Option) (*Branch, error) {
	br := bufio.NewReader(r)

	if IsGzip(peek(br)) {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, ErrDecodeInvalid.Wrap(err)
		}
		defer zr.Close()

		return Decode(zr, opts...)
	}

	return Decode(br, opts...)
}

// Load reads a tree from r in whichever format it holds: binary (plain or
// gzip-compressed) when r starts with the NODE tag or the gzip magic number,
// text otherwise.
func Load(ctx context.Context, r io.Reader, opts ...Option) (*Branch, error) {
	br := bufio.NewReader(r)

	if head := peek(br); IsGzip(head) || IsBinary(head) {
		return Read(br, opts...)
	}

	return ParseReader(ctx, br, opts...)
}

// IsGzip reports whether data starts with the gzip magic number.
func IsGzip(data []byte) bool { return bytes.HasPrefix(data, gzipMagic) }

// IsBinary reports whether data starts like an uncompressed binary tree.
// Text documents start with '{' or whitespace, never with the NODE tag.
func IsBinary(data []byte) bool {
	return len(data) > 0 && data[0] == TypeNode.BinaryID()
}

func peek(br *bufio.Reader) []byte {
	head, _ := br.Peek(len(gzipMagic))

	return head
}
