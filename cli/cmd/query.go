package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/goccy/go-yaml"

	"github.com/Maceris/kvt/kvt"
	"github.com/Maceris/kvt/log"
	"github.com/Maceris/kvt/query"
)

// Query evaluates an expression over a tree. The top-level keys of the tree
// are the variables of the expression; branches are maps and arrays are
// slices.
type Query struct {
	Format string `default:"text" enum:"text,json,yaml" help:"Output format for the result."`
	Indent int    `default:"2"                          help:"Indent width for tree results."  short:"i"`

	Expr   string `arg:"" help:"Expression to evaluate."                       name:"expr"`
	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the query command.
func (q *Query) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	root, err := load(ctx, q.Source)
	if err != nil {
		return kvt.WrapError(err).With(slog.String("command", "query"))
	}

	result, err := query.Evaluate(q.Expr, root)
	if err != nil {
		return ErrQuery.Wrap(err).With(slog.String("expr", q.Expr))
	}

	log.TraceContext(ctx, "query result",
		slog.String("expr", q.Expr),
		slog.String("type", fmt.Sprintf("%T", result)),
	)

	return writeResult(ctx, outputFrom(ctx), result, q.Format, q.Indent)
}

func writeResult(
	ctx context.Context,
	w io.Writer,
	result any,
	format string,
	indent int,
) error {
	var err error

	switch format {
	case "json":
		var data []byte

		data, err = json.Marshal(result)
		if err == nil {
			_, err = fmt.Fprintln(w, string(data))
		}

	case "yaml":
		var data []byte

		data, err = yaml.MarshalContext(ctx, result)
		if err == nil {
			_, err = w.Write(data)
		}

	default:
		if b, ok := query.Tree(result); ok {
			return writeText(w, b, kvt.WithIndent(indent))
		}

		_, err = fmt.Fprintln(w, result)
	}

	if err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("format", format))
	}

	return nil
}
