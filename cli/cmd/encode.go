package cmd

import (
	"context"
	"log/slog"

	"github.com/Maceris/kvt/kvt"
	"github.com/Maceris/kvt/log"
)

// Encode converts a tree to the binary format.
type Encode struct {
	Output string `default:"-"  help:"Output file or '-' for stdout"          short:"o" type:"path"`
	Gzip   bool   `default:"true" help:"Compress output with gzip."         negatable:""`
	Level  int    `default:"-1" help:"Gzip compression level (-2 to 9)."`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the encode command.
func (e *Encode) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	root, err := load(ctx, e.Source)
	if err != nil {
		return kvt.WrapError(err).With(slog.String("command", "encode"))
	}

	if e.Output == stdinSource {
		err = kvt.Write(outputFrom(ctx), root, e.Gzip, e.Level)
	} else {
		err = kvt.WriteFile(e.Output, root,
			kvt.WithGzip(e.Gzip),
			kvt.WithCompressionLevel(e.Level),
		)
	}

	if err != nil {
		return kvt.WrapError(err).With(slog.String("command", "encode"))
	}

	log.DebugContext(ctx, "encoded tree",
		slog.String("source", e.Source),
		slog.String("output", e.Output),
		slog.Bool("gzip", e.Gzip),
		slog.Int("entries", root.Len()),
	)

	return nil
}

// Decode converts a tree in the binary format, plain or gzip-compressed, to
// canonical KVT text.
type Decode struct {
	Indent int  `default:"2"               help:"Indent width for formatted output; 0 writes a single line" short:"i"`
	Color  bool `default:"${colorDefault}" help:"Colorize output."                                          negatable:""`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the decode command.
func (d *Decode) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	r, err := openSource(d.Source)
	if err != nil {
		return err
	}
	defer r.Close()

	root, err := kvt.Read(r, optionsFrom(ctx)...)
	if err != nil {
		return kvt.WrapError(err).With(
			slog.String("command", "decode"),
			slog.String("source", d.Source),
		)
	}

	return writeText(outputFrom(ctx), root,
		kvt.WithIndent(d.Indent),
		kvt.WithColors(d.Color),
	)
}
