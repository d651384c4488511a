package compiler

import (
	"github.com/spf13/afero"

	"github.com/ardnew/codetask/log"
)

// Option configures a [Compiler].
type Option func(*Compiler)

// WithFs sets the file system used for temporary files and for locating the
// compiler.
func WithFs(fs afero.Fs) Option {
	return func(c *Compiler) {
		if fs != nil {
			c.fs = fs
		}
	}
}

// WithLogger sets the structured logger.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(c *Compiler) { c.logger = logger }
}

// WithGetenv sets the function used to read environment variables.
func WithGetenv(getenv func(string) string) Option {
	return func(c *Compiler) {
		if getenv != nil {
			c.getenv = getenv
		}
	}
}

// WithCommand overrides the compiler command line. The command is split into
// words using shell quoting rules.
func WithCommand(command string) Option {
	return func(c *Compiler) { c.command = command }
}

// WithToolsDir sets the build tools directory searched for the compiler.
func WithToolsDir(dir string) Option {
	return func(c *Compiler) { c.toolsDir = dir }
}

// WithOutput sets the path of the compiled library. By default it is written
// to the temporary directory holding the source file.
func WithOutput(path string) Option {
	return func(c *Compiler) { c.output = path }
}

// WithLibPaths adds directories searched for referenced libraries, ahead of
// those listed in the LIB environment variable.
func WithLibPaths(dirs ...string) Option {
	return func(c *Compiler) { c.libPaths = append(c.libPaths, dirs...) }
}

// WithFlags sets the compiler switches.
func WithFlags(flags Flags) Option {
	return func(c *Compiler) { c.flags = flags }
}

// WithCache reuses libraries compiled for equal tasks. See [Cache].
// A cached library is copied when the output path set by [WithOutput]
// differs from the one it was compiled to.
func WithCache(cache *Cache) Option {
	return func(c *Compiler) { c.cache = cache }
}

func withRunner(run runFunc) Option {
	return func(c *Compiler) { c.run = run }
}
