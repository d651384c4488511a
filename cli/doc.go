// Package cli contains the command line interface for codetask.
//
// # Usage
//
// The default command synthesizes the source of a task body:
//
//	codetask Hello '<Code Type="Fragment" Language="cs">Log.LogMessage("hi");</Code>'
//
// The task body may also be read from a file or standard input, and the
// parameter group may be given inline or as a file:
//
//	codetask synth Hello -f hello.xml -P Who:string:required
//	codetask info Hello -f hello.xml --params params.yaml --format=json
//	codetask compile Hello -f hello.xml --tools-dir=/usr/lib/msbuild -o Hello.dll
//
// # Configuration
//
// Flag defaults are read from config.yaml in the user configuration
// directory. "codetask init" writes the current values of the global flags
// there. Keys are flag names, optionally nested by prefix:
//
//	log:
//	  level: debug
//	  format: json
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, kitchen, none, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o codetask .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/codetask/pprof)
package cli
