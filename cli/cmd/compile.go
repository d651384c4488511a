package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/codetask/compiler"
	"github.com/ardnew/codetask/log"
)

// Compile synthesizes the source of a task body and compiles it into a
// library with the managed compiler.
type Compile struct {
	Input `embed:""`

	Out      string   `help:"Library output path (default: temporary directory)"  placeholder:"FILE"      short:"o"`
	Command  string   `help:"Compiler command line, overriding toolchain lookup"  placeholder:"COMMAND"`
	ToolsDir string   `help:"Build tools directory containing Roslyn"              placeholder:"DIR"`
	Lib      []string `help:"Additional library search directories"               placeholder:"DIR"`
	Optimize bool     `help:"Enable compiler optimizations"                                              negatable:""`
}

// Run executes the compile command.
func (c *Compile) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	info, _, err := c.load(ctx)
	if err != nil {
		return err
	}

	flags := compiler.DefaultFlags()
	flags.Optimize = &c.Optimize

	comp := compiler.New(
		compiler.WithFs(fsFrom(ctx)),
		compiler.WithLogger(log.Default()),
		compiler.WithCommand(c.Command),
		compiler.WithToolsDir(c.ToolsDir),
		compiler.WithOutput(c.Out),
		compiler.WithLibPaths(c.Lib...),
		compiler.WithFlags(flags),
		compiler.WithCache(cacheFrom(ctx)),
	)

	art, err := comp.Compile(ctx, info, c.reporter(ctx))
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "task compiled",
		slog.String("task", art.Task),
		slog.String("path", art.Path),
	)

	_, err = fmt.Fprintf(stdout(ctx), "%s\t%s\n", art.Task, art.Path)

	return err
}
