package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/Maceris/kvt/kvt"
	"github.com/Maceris/kvt/kvt/syntax"
)

// Fmt reads a tree in the text or binary format and writes it in the chosen
// format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as KVT text (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
	AST    AST    `cmd:""                    help:"Print the parse tree of a text document."`
}

// Native formats input as canonical KVT text.
type Native struct {
	Indent int  `default:"2"               help:"Indent width for formatted output; 0 writes a single line" short:"i"`
	Color  bool `default:"${colorDefault}" help:"Colorize output."                                          negatable:""`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the fmt command.
func (f *Native) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	root, err := load(ctx, f.Source)
	if err != nil {
		return kvt.WrapError(err).With(slog.String("format", "native"))
	}

	return writeText(outputFrom(ctx), root,
		kvt.WithIndent(f.Indent),
		kvt.WithColors(f.Color),
	)
}

// writeText formats root followed by a newline.
func writeText(w io.Writer, root *kvt.Branch, opts ...kvt.FormatOption) error {
	if err := kvt.Format(w, root, opts...); err != nil {
		return err
	}

	if _, err := io.WriteString(w, "\n"); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// JSON reads a tree and outputs it as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	root, err := load(ctx, j.Source)
	if err != nil {
		return kvt.WrapError(err).With(slog.String("format", "json"))
	}

	return kvt.FormatJSON(ctx, outputFrom(ctx), root, j.Indent)
}

// YAML reads a tree and outputs it as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output; 0 selects flow style" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	root, err := load(ctx, y.Source)
	if err != nil {
		return kvt.WrapError(err).With(slog.String("format", "yaml"))
	}

	return kvt.FormatYAML(ctx, outputFrom(ctx), root, y.Indent)
}

// AST prints the parse tree of a text document.
type AST struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	r, err := openSource(a.Source)
	if err != nil {
		return err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return ErrReadSource.Wrap(err).With(slog.String("source", a.Source))
	}

	doc, err := syntax.Parse(string(data))
	if err != nil {
		return kvt.ErrParse.Wrap(err).With(slog.String("format", "ast"))
	}

	if err := doc.Print(outputFrom(ctx)); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
