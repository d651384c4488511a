package compiler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"

	"github.com/ardnew/codetask/log"
	"github.com/ardnew/codetask/task"
)

// Predefined errors (sentinel values).
var (
	ErrToolNotFound = task.NewError("compiler not found")
	ErrCommand      = task.NewError("invalid compiler command")
	ErrWriteSource  = task.NewError("failed to write compiler input")
	ErrCompile      = task.NewError("compilation failed")
	ErrWriteOutput  = task.NewError("failed to write compiled library")
	ErrTaskName     = task.NewError("invalid task name")
)

// taskName matches the task names usable as file names and type names.
var taskName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Environment variables consulted when locating the compiler.
const (
	EnvDotnetHost  = "DOTNET_HOST_PATH"
	EnvMSBuildPath = "MSBUILD_EXE_PATH"
	EnvLib         = "LIB"
)

// runFunc runs a command and returns its combined output.
type runFunc func(ctx context.Context, argv []string) ([]byte, error)

// Compiler compiles task source with the managed compiler.
// It implements [task.Compiler].
type Compiler struct {
	fs       afero.Fs
	logger   log.Logger
	getenv   func(string) string
	run      runFunc
	command  string
	toolsDir string
	output   string
	libPaths []string
	flags    Flags
	cache    *Cache
}

var _ task.Compiler = (*Compiler)(nil)

// New returns a Compiler configured by opts.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		fs:     afero.NewOsFs(),
		getenv: os.Getenv,
		run:    runCommand,
		flags:  DefaultFlags(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Compile writes the source of info to a temporary file and compiles it into
// a library.
//
// Compiler messages and warnings are reported to r as low-importance
// messages, compiler errors are reported as errors.
func (c *Compiler) Compile(
	ctx context.Context,
	info *task.TaskInfo,
	r task.Reporter,
) (task.Artifact, error) {
	r = task.LowImportance(r)

	if !taskName.MatchString(info.Name) {
		return task.Artifact{}, ErrTaskName.With(slog.String("task", info.Name))
	}

	if c.cache != nil {
		if a, ok := c.cache.Lookup(info); ok {
			if exists, _ := afero.Exists(c.fs, a.Path); exists {
				c.logger.DebugContext(ctx, "compiled library cached",
					slog.String("task", info.Name),
					slog.String("output", a.Path),
				)

				return c.place(a)
			}
		}
	}

	argv, err := c.Command(info.CodeLanguage)
	if err != nil {
		return task.Artifact{}, err
	}

	dir, err := afero.TempDir(c.fs, "", "codetask-")
	if err != nil {
		return task.Artifact{}, ErrWriteSource.Wrap(err)
	}

	source := filepath.Join(dir, info.Name+sourceExt(info.CodeLanguage))
	if err := afero.WriteFile(c.fs, source, []byte(info.SourceCode), 0o600); err != nil {
		return task.Artifact{}, ErrWriteSource.Wrap(err).With(slog.String("path", source))
	}

	defer func() { _ = c.fs.Remove(source) }()

	out := c.output
	if out == "" {
		out = filepath.Join(dir, info.Name+".dll")
	}

	rsp := filepath.Join(dir, info.Name+".rsp")
	args := c.ResponseFileArguments(info.References.Slice(), []string{source}, out)

	if err := afero.WriteFile(c.fs, rsp, []byte(strings.Join(args, " ")), 0o600); err != nil {
		return task.Artifact{}, ErrWriteSource.Wrap(err).With(slog.String("path", rsp))
	}

	defer func() { _ = c.fs.Remove(rsp) }()

	argv = append(argv, c.CommandLineArguments()...)
	argv = append(argv, "@"+rsp)

	c.logger.DebugContext(ctx, "run compiler",
		slog.String("task", info.Name),
		slog.Any("argv", argv),
		slog.String("response_file", rsp),
	)

	output, runErr := c.run(ctx, argv)

	failed := report(r, output)

	if runErr != nil || failed {
		cause := runErr
		if cause == nil {
			cause = errors.New("compiler reported errors")
		}

		return task.Artifact{}, ErrCompile.Wrap(cause).
			With(slog.String("task", info.Name))
	}

	c.logger.DebugContext(ctx, "compiled",
		slog.String("task", info.Name),
		slog.String("output", out),
	)

	a := task.Artifact{Path: out, Task: typeName(info)}

	if c.cache != nil {
		c.cache.Store(info, a)
	}

	return a, nil
}

// place copies a cached library to the configured output path, if one was
// set and differs from where the library was compiled.
func (c *Compiler) place(a task.Artifact) (task.Artifact, error) {
	if c.output == "" || filepath.Clean(c.output) == filepath.Clean(a.Path) {
		return a, nil
	}

	data, err := afero.ReadFile(c.fs, a.Path)
	if err != nil {
		return task.Artifact{}, ErrWriteOutput.Wrap(err).With(slog.String("path", a.Path))
	}

	if err := c.fs.MkdirAll(filepath.Dir(c.output), 0o755); err != nil {
		return task.Artifact{}, ErrWriteOutput.Wrap(err).With(slog.String("path", c.output))
	}

	if err := afero.WriteFile(c.fs, c.output, data, 0o644); err != nil {
		return task.Artifact{}, ErrWriteOutput.Wrap(err).With(slog.String("path", c.output))
	}

	a.Path = c.output

	return a, nil
}

// typeName returns the name of the generated task class.
func typeName(info *task.TaskInfo) string {
	if info.CodeType == task.CodeTypeClass {
		return info.Name
	}

	return "InlineCode." + info.Name
}

func sourceExt(lang task.Language) string {
	if lang == task.LanguageVB {
		return ".vb"
	}

	return ".cs"
}

func runCommand(ctx context.Context, argv []string) ([]byte, error) {
	//nolint:gosec
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)

	var buf bytes.Buffer

	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err := cmd.Run()

	return buf.Bytes(), err
}
