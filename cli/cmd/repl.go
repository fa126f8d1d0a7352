package cmd

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/Maceris/kvt/cli/cmd/repl"
	"github.com/Maceris/kvt/kvt"
	"github.com/Maceris/kvt/log"
)

// Repl explores a tree interactively.
type Repl struct {
	History bool   `default:"true" help:"Persist input history in the cache directory." negatable:""`
	Source  string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	root, err := load(ctx, r.Source)
	if err != nil {
		return kvt.WrapError(err).With(slog.String("command", "repl"))
	}

	history := repl.NewHistory(r.historyPath(ctx))
	if err := history.Load(); err != nil {
		log.WarnContext(ctx, "history unavailable", slog.Any("error", err))
	}

	return repl.Run(ctx, root, history, log.Default())
}

// historyPath returns the history file under the cache directory, or "" when
// history is disabled or the directory is unknown.
func (r *Repl) historyPath(ctx context.Context) string {
	if !r.History {
		return ""
	}

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ""
	}

	dir, ok := cacheDir(ktx)
	if !ok {
		return ""
	}

	return filepath.Join(dir, repl.HistoryFile)
}

func cacheDir(ktx *kong.Context) (string, bool) {
	dir, ok := ktx.Model.Vars()[CacheIdentifier]

	return dir, ok && dir != ""
}
