package cmd

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/Maceris/kvt/kvt"
)

// diffIndent is the indent of the canonical text that is compared line by
// line.
const diffIndent = 2

// Diff compares two trees, each in either the text or binary format.
type Diff struct {
	Color bool `default:"${colorDefault}" help:"Colorize output." negatable:""`

	Old string `arg:"" help:"Original tree file or '-' for stdin." name:"old"`
	New string `arg:"" help:"Changed tree file or '-' for stdin."  name:"new"`
}

// Run executes the diff command. Nothing is written when the trees are equal;
// otherwise a line diff of their canonical text is written and
// [ErrDifferent] is returned.
func (d *Diff) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	older, err := load(ctx, d.Old)
	if err != nil {
		return kvt.WrapError(err).With(slog.String("command", "diff"))
	}

	newer, err := load(ctx, d.New)
	if err != nil {
		return kvt.WrapError(err).With(slog.String("command", "diff"))
	}

	if older.Equal(newer) {
		return nil
	}

	diffs := diffLines(canonical(older), canonical(newer))

	if err := writeDiff(outputFrom(ctx), diffs, d.Color); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return ErrDifferent.With(
		slog.String("old", d.Old),
		slog.String("new", d.New),
	)
}

func canonical(b *kvt.Branch) string {
	var sb strings.Builder

	_ = kvt.Format(&sb, b, kvt.WithIndent(diffIndent))
	sb.WriteByte('\n')

	return sb.String()
}

// diffLines returns the line-level differences between a and b.
func diffLines(a, b string) []diffmatchpatch.Diff {
	dmp := diffmatchpatch.New()

	ca, cb, lines := dmp.DiffLinesToChars(a, b)

	return dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)
}

var (
	deleteColor = forceColor(color.FgRed)
	insertColor = forceColor(color.FgGreen)
)

func forceColor(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	c.EnableColor()

	return c
}

// writeDiff writes diffs with one line per text line, prefixed by '-' for
// deletions, '+' for insertions and ' ' for unchanged lines.
func writeDiff(w io.Writer, diffs []diffmatchpatch.Diff, colors bool) error {
	bw := bufio.NewWriter(w)

	for _, d := range diffs {
		prefix, c := " ", (*color.Color)(nil)

		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix, c = "-", deleteColor
		case diffmatchpatch.DiffInsert:
			prefix, c = "+", insertColor
		case diffmatchpatch.DiffEqual:
		}

		for line := range strings.Lines(d.Text) {
			line = prefix + strings.TrimSuffix(line, "\n")

			if colors && c != nil {
				line = c.Sprint(line)
			}

			bw.WriteString(line)
			bw.WriteByte('\n')
		}
	}

	return bw.Flush()
}
