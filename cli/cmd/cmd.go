package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/klauspost/readahead"

	"github.com/Maceris/kvt/kvt"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	optionsKey struct{}
	outputKey  struct{}
)

// WithOptions returns a new context.Context carrying the options used by
// every command to parse and decode its input.
func WithOptions(ctx context.Context, opts ...kvt.Option) context.Context {
	return context.WithValue(ctx, optionsKey{}, opts)
}

func optionsFrom(ctx context.Context) []kvt.Option {
	opts, _ := ctx.Value(optionsKey{}).([]kvt.Option)

	return opts
}

// WithOutput returns a new context.Context directing command output to w.
// Commands write to [os.Stdout] when no output is stored.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

func outputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}

	return os.Stdout
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// openSource opens the named file, or stdin for [stdinSource].
func openSource(path string) (io.ReadCloser, error) {
	if path == stdinSource || path == "" {
		return io.NopCloser(os.Stdin), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, ErrReadSource.Wrap(err).With(slog.String("source", path))
	}

	ra, err := readahead.NewReadCloserSize(f, 4, 1<<16)
	if err != nil {
		f.Close()

		return nil, ErrReadSource.Wrap(err).With(slog.String("source", path))
	}

	return ra, nil
}

// load reads a tree from the named source in either the text or the binary
// format.
func load(ctx context.Context, path string) (*kvt.Branch, error) {
	r, err := openSource(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	root, err := kvt.Load(ctx, r, optionsFrom(ctx)...)
	if err != nil {
		return nil, kvt.WrapError(err).With(slog.String("source", path))
	}

	return root, nil
}
