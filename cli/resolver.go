package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/Maceris/kvt/kvt"
	"github.com/Maceris/kvt/log"
)

// resolve returns a [kong.ConfigurationLoader] reading flag values from the
// branch called name in a KVT text file:
//
//	{
//	  config: {
//	    log_level: "debug",
//	    strict: true,
//	    max_depth: 64
//	  }
//	}
//
// Keys may spell flag names with hyphens or underscores. Scalars are passed
// to kong as their text form and arrays as comma-separated lists. Nested
// branches are ignored. Command-line flags override config file values.
//
// A file that does not parse yields an empty configuration.
func resolve(ctx context.Context, name string) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		root, err := kvt.ParseReader(ctx, r,
			kvt.WithLogger(log.Default()),
			kvt.WithCache(true),
		)
		if err != nil {
			log.WarnContext(ctx, "ignoring configuration file", slog.Any("error", err))

			return config{}, nil
		}

		b := root.GetNode(name)
		if b == nil {
			return config{}, nil
		}

		c := make(config, b.Len())

		for key, value := range kvt.Native(b) {
			if v, ok := flagValue(value); ok {
				c[key] = v
			}
		}

		log.TraceContext(ctx, "configuration loaded",
			slog.String("branch", name),
			slog.Int("values", len(c)),
		)

		return c, nil
	}
}

// config implements [kong.Resolver] over the flattened config branch.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	if value, ok := c[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil //nolint:nilnil
}

// flagValue converts a native tree value to a form kong can map onto a
// flag. Kong maps numbers from their text form.
func flagValue(v any) (any, bool) {
	switch v := v.(type) {
	case bool, string:
		return v, true
	case map[string]any, []any:
		return nil, false
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return fmt.Sprint(v), true
	}

	items := make([]string, rv.Len())
	for i := range items {
		items[i] = fmt.Sprint(rv.Index(i).Interface())
	}

	return strings.Join(items, ","), true
}
