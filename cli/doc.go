// Package cli contains the command line interface for kvt.
//
// # Usage
//
//	kvt fmt tree.kvt                 # reformat text, or decode binary, to text
//	kvt fmt json tree.kvt            # convert to JSON
//	kvt encode -o tree.bin tree.kvt  # encode to the gzip-compressed binary form
//	kvt decode tree.bin              # decode binary to text
//	kvt diff old.kvt new.bin         # compare trees in either format
//	kvt query 'server.port' tree.kvt # evaluate an expression over a tree
//	kvt repl tree.kvt                # explore a tree interactively
//
// Every command accepts '-' for stdin, and detects gzip and binary input.
//
// # Global Options
//
//   - --strict: fail on the first entry that cannot be lowered instead of
//     logging and skipping it
//   - --max-depth: maximum nesting of branches and arrays
//
// # Configuration
//
// Flag defaults are read from the "config" branch of a KVT text file in the
// user configuration directory; see [resolve]. "kvt init" writes one holding
// the current values. A JSON file of the same name plus ".json" is also read.
//
// # Logging Options
//
//   - --log-level: minimum log level (trace, debug, info, warn, error)
//   - --log-format: output format (json, text)
//   - --log-time-layout: timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: include caller information
//   - --log-pretty: colorize output (default when stderr is a terminal)
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o kvt .
//
//   - --pprof-mode: enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: profile output directory (default ~/.cache/kvt/pprof)
package cli
