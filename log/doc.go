// Package log provides a concurrency-safe structured logger built on
// [log/slog].
//
// Loggers are configured once at creation time with functional options and
// are cheap to copy. The zero [Logger] discards everything, so packages can
// hold one without checking whether logging was configured.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("tree decoded", slog.Int("keys", 12))
//
// # Configuration
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// # Default Logger
//
// The package-level functions ([Info], [WarnContext], ...) write through a
// process-wide default logger that [Config] reconfigures in place. The CLI
// sets it up from its --log-* flags before any command runs.
//
// # Levels
//
// Five levels are supported: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn] and [LevelError]. Trace sits below slog's Debug and is used for
// codec internals.
//
// # Output Formats
//
// [FormatJSON] (default) and [FormatText]. With [WithPretty] enabled, both
// formats are rendered by colorized handlers intended for terminals.
package log
