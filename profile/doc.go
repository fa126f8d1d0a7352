// Package profile provides optional runtime profiling for the kvt command.
//
// Profiling is built on [github.com/pkg/profile] and compiled in only with
// the "pprof" build tag ([Tag]). Without the tag, [Modes] is empty and
// [Profiler.Start] returns a no-op stopper, so callers never need build
// constraints of their own.
//
// # Modes
//
// With the pprof tag the following modes are available:
//
//   - allocs:    memory allocation profiling (all allocations)
//   - block:     block (synchronization) profiling
//   - clock:     wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: goroutine profiling
//   - heap:      heap memory profiling (live allocations)
//   - mem:       general memory profiling
//   - mutex:     mutex contention profiling
//   - thread:    thread creation profiling
//   - trace:     execution trace profiling
//
// # Usage
//
//	p := profile.Make(
//	    profile.WithMode("cpu"),
//	    profile.WithPath("/tmp/profiles"),
//	)
//	defer p.Start().Stop()
//
// Profile files are written to the path with names matching the mode
// (cpu.pprof, mem.pprof, ...). From the command line:
//
//	go build -tags pprof -o kvt .
//	kvt --pprof-mode cpu decode tree.kvt
//	go tool pprof -http=: ~/.cache/kvt/pprof/cpu.pprof
//
// The default output directory is the "pprof" subdirectory of the kvt cache
// directory:
//
//	$XDG_CACHE_HOME/kvt/pprof   (Linux/Unix)
//	~/Library/Caches/kvt/pprof  (macOS)
//	%LocalAppData%\kvt\pprof    (Windows)
//
// When built with the tag, the package also imports [net/http/pprof], which
// registers its handlers on [net/http.DefaultServeMux].
package profile
