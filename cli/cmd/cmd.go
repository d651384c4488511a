package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/klauspost/readahead"
	"github.com/spf13/afero"

	"github.com/ardnew/codetask/compiler"
	"github.com/ardnew/codetask/log"
	"github.com/ardnew/codetask/params"
	"github.com/ardnew/codetask/pkg"
	"github.com/ardnew/codetask/task"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	fsKey    struct{}
	stdinKey struct{}
	cacheKey struct{}
)

// WithFs returns a new context.Context whose commands read and write files
// through fs instead of the operating system.
func WithFs(ctx context.Context, fs afero.Fs) context.Context {
	return context.WithValue(ctx, fsKey{}, fs)
}

func fsFrom(ctx context.Context) afero.Fs {
	if fs, ok := ctx.Value(fsKey{}).(afero.Fs); ok && fs != nil {
		return fs
	}

	return afero.NewOsFs()
}

// WithStdin returns a new context.Context whose commands read standard input
// from r.
func WithStdin(ctx context.Context, r io.Reader) context.Context {
	return context.WithValue(ctx, stdinKey{}, r)
}

func stdinFrom(ctx context.Context) io.Reader {
	if r, ok := ctx.Value(stdinKey{}).(io.Reader); ok && r != nil {
		return r
	}

	return os.Stdin
}

// libraries is the cache of compiled libraries shared by the commands of
// one process.
var libraries = compiler.NewCache()

// WithCache returns a new context.Context whose commands reuse the
// libraries held by cache.
func WithCache(ctx context.Context, cache *compiler.Cache) context.Context {
	return context.WithValue(ctx, cacheKey{}, cache)
}

func cacheFrom(ctx context.Context) *compiler.Cache {
	if c, ok := ctx.Value(cacheKey{}).(*compiler.Cache); ok && c != nil {
		return c
	}

	return libraries
}

func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

func stderr(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stderr != nil {
		return ktx.Stderr
	}

	return os.Stderr
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// Input selects the task body and parameter group shared by the task
// commands.
type Input struct {
	Name string `arg:"" help:"Task name"                                    name:"name"`
	Body string `arg:"" help:"Task body markup (read from --file if omitted)" name:"body" optional:""`

	File      string        `default:"-"  help:"Task body file or '-' for stdin"                         short:"f"`
	Params    []string      `             help:"Task parameter as NAME[:TYPE][:required][:output]"       name:"param"  placeholder:"SPEC" sep:"none" short:"P"`
	ParamFile string        `             help:"Parameter group file (.yaml, .yml, .json or .hcl)"       name:"params" placeholder:"FILE"`
	Language  task.Language `default:"CS" help:"Language used when the Code element omits one"`
	PathCache int           `default:"64" help:"Number of resolved source paths to cache (0 disables)"`
	Verbose   bool          `             help:"Report low-importance messages"                          short:"v"`
}

// body returns the task body from the positional argument, or else from
// the --file source.
func (in *Input) body(ctx context.Context) (string, error) {
	if in.Body != "" {
		return in.Body, nil
	}

	if in.File == stdinSource {
		data, err := readAll(stdinFrom(ctx))
		if err != nil {
			return "", pkg.ErrReadStdin.Wrap(err)
		}

		return data, nil
	}

	file, err := fsFrom(ctx).Open(in.File)
	if err != nil {
		return "", pkg.ErrReadInput.Wrap(err)
	}
	defer file.Close()

	data, err := readAll(file)
	if err != nil {
		return "", pkg.ErrReadInput.Wrap(err)
	}

	return data, nil
}

// readAll reads r to EOF with asynchronous read-ahead.
func readAll(r io.Reader) (string, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// parameters returns the parameter group file's parameters followed by
// those given with --param.
func (in *Input) parameters(ctx context.Context) ([]task.Parameter, error) {
	var group []task.Parameter

	if in.ParamFile != "" {
		loaded, err := params.NewLoader(fsFrom(ctx)).Load(in.ParamFile)
		if err != nil {
			return nil, ErrParameters.Wrap(err).
				With(slog.String("file", in.ParamFile))
		}

		group = loaded
	}

	for _, spec := range in.Params {
		p, err := params.ParseSpec(spec)
		if err != nil {
			return nil, ErrParameters.Wrap(err)
		}

		group = append(group, p)
	}

	if err := params.Validate(group); err != nil {
		return nil, ErrParameters.Wrap(err)
	}

	return group, nil
}

func (in *Input) resolver(ctx context.Context) *task.Resolver {
	return task.NewResolver(
		task.WithFs(fsFrom(ctx)),
		task.WithPathCache(in.PathCache),
		task.WithDefaultLanguage(in.Language),
		task.WithLogger(log.Default()),
	)
}

func (in *Input) reporter(ctx context.Context) task.Reporter {
	return newReporter(stderr(ctx), in.Verbose)
}

// load reads and loads the task, reporting diagnostics to the terminal.
func (in *Input) load(
	ctx context.Context,
) (*task.TaskInfo, []task.Parameter, error) {
	body, err := in.body(ctx)
	if err != nil {
		return nil, nil, err
	}

	group, err := in.parameters(ctx)
	if err != nil {
		return nil, nil, err
	}

	info, ok := in.resolver(ctx).Load(ctx, in.reporter(ctx), in.Name, body, group)
	if !ok {
		return nil, nil, pkg.ErrTaskFailed.Wrapf("%s", in.Name)
	}

	log.DebugContext(ctx, "task loaded",
		slog.String("task", info.Name),
		slog.String("language", info.CodeLanguage.String()),
		slog.String("type", info.CodeType.String()),
		slog.Int("parameters", len(group)),
	)

	return info, group, nil
}

// write writes data to path, or to standard output if path is empty.
func write(ctx context.Context, path string, data []byte) error {
	if path == "" {
		_, err := stdout(ctx).Write(data)

		return err
	}

	err := afero.WriteFile(fsFrom(ctx), path, data, 0o644)
	if err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("file", path))
	}

	return nil
}
