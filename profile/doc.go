// Package profile provides optional runtime profiling for codetask.
//
// Profiling uses [github.com/pkg/profile] and is compiled in only with the
// "pprof" build tag. Without the tag every [Profiler] is a no-op and [Modes]
// is empty.
//
//	p := profile.Profiler{Mode: "cpu", Path: "/tmp/profiles"}
//	defer p.Start().Stop()
//
// Profile files are written to Path with names matching the mode, for
// example cpu.pprof, and can be analyzed with "go tool pprof". Builds with
// the tag also register the net/http/pprof handlers.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
