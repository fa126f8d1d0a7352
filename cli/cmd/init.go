package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/Maceris/kvt/kvt"
	"github.com/Maceris/kvt/log"
	"github.com/Maceris/kvt/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// Init generates a default configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	// Check if file exists and force not set
	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	root, err := i.buildTree(ctx)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}
	defer file.Close()

	err = writeText(file, root, kvt.WithIndent(defaultConfigIndent))
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// buildTree constructs the configuration tree from current flag values. The
// values are held in a branch named [ConfigIdentifier].
func (i *Init) buildTree(ctx context.Context) (*kvt.Branch, error) {
	ktx := kongContextFrom(ctx)

	root := kvt.NewBranch()

	config, err := root.Add(ConfigIdentifier)
	if err != nil {
		return nil, err
	}

	prefixIgnore := []string{"help", "version", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		val := flagValue(ktx, flag)
		if val == nil {
			continue
		}

		if err := config.Put(flag.Name, val); err != nil {
			return nil, err
		}
	}

	return root, nil
}

// flagValue returns the payload for a CLI flag, or nil if unset.
func flagValue(ktx *kong.Context, flag *kong.Flag) kvt.Payload {
	val := ktx.FlagValue(flag)
	if val == nil {
		return nil
	}

	switch v := val.(type) {
	case bool:
		return kvt.Bool(v)

	case string:
		if v == "" {
			return nil
		}

		return kvt.String(v)

	case int:
		return kvt.Long(v)

	case int64:
		return kvt.Long(v)

	case float64:
		return kvt.Double(v)

	case []string:
		if len(v) == 0 {
			return nil
		}

		return kvt.StringArray(v)

	case []int64:
		if len(v) == 0 {
			return nil
		}

		return kvt.LongArray(v)

	case []bool:
		if len(v) == 0 {
			return nil
		}

		return kvt.BoolArray(v)

	default:
		return kvt.String(fmt.Sprint(v))
	}
}
