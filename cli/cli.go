package cli

import (
	"context"
	"log/slog"
	"os"
	"strconv"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-isatty"

	"github.com/Maceris/kvt/cli/cmd"
	"github.com/Maceris/kvt/kvt"
	"github.com/Maceris/kvt/log"
	"github.com/Maceris/kvt/pkg"
)

// baseConfig is the base name of the configuration file and the name of the
// branch holding flag values.
var baseConfig = cmd.ConfigIdentifier

// CLI is the top-level command-line interface for kvt.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version  kong.VersionFlag `help:"Print version and exit."                        short:"V"`
	Strict   bool             `help:"Fail on the first entry that cannot be lowered." negatable:""`
	MaxDepth int              `default:"${maxDepth}"                                 help:"Maximum nesting depth."`

	Init   cmd.Init   `cmd:"" help:"Initialize configuration file"`
	Fmt    cmd.Fmt    `cmd:"" help:"Format a tree as text, JSON or YAML"`
	Encode cmd.Encode `cmd:"" help:"Encode a tree to the binary format"`
	Decode cmd.Decode `cmd:"" help:"Decode a binary tree to text"`
	Diff   cmd.Diff   `cmd:"" help:"Compare two trees"`
	Query  cmd.Query  `cmd:"" help:"Evaluate an expression over a tree"`
	Repl   cmd.Repl   `cmd:"" help:"Explore a tree interactively"`
}

// Run executes the kvt CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := pkg.MkdirAll()
	if err != nil {
		return err
	}

	configFilePath := pkg.ConfigPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
		"colorDefault":       strconv.FormatBool(isatty.IsTerminal(os.Stdout.Fd())),
		"maxDepth":           strconv.Itoa(kvt.DefaultMaxDepth),
		"version":            pkg.Version(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Apply logger flags before kong reports any parse error.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolve(ctx, baseConfig), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cli.Log.start(ctx)

	log.DebugContext(ctx, "command start",
		slog.String("command", ktx.Command()),
		slog.Bool("strict", cli.Strict),
		slog.Int("max_depth", cli.MaxDepth),
	)

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithOptions(ctx,
		kvt.WithLogger(log.Default()),
		kvt.WithStrict(cli.Strict),
		kvt.WithMaxDepth(cli.MaxDepth),
	)

	// No-op unless built with the pprof tag and a mode is selected.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
