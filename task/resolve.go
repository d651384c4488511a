package task

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/spf13/afero"

	"github.com/ardnew/codetask/log"
)

// Resolver fills in the defaults of a validated [Declaration] and loads
// external source files.
//
// A Resolver is safe for concurrent use. The only state it shares between
// calls is the optional path cache, which is internally synchronized.
type Resolver struct {
	fs     afero.Fs
	paths  *lru.Cache[string, string]
	logger log.Logger
	lang   Language
}

// Option configures a [Resolver].
type Option func(*Resolver)

// WithFs sets the file system used to read source files.
// The default is the operating system's file system.
func WithFs(fs afero.Fs) Option {
	return func(r *Resolver) {
		if fs != nil {
			r.fs = fs
		}
	}
}

// WithPathCache enables a cache of the absolute paths of the most recently
// resolved source files, holding at most size entries.
// A size of zero or less disables the cache.
func WithPathCache(size int) Option {
	return func(r *Resolver) {
		r.paths = nil

		if size > 0 {
			// lru.New only fails for a non-positive size.
			r.paths, _ = lru.New[string, string](size)
		}
	}
}

// WithDefaultLanguage sets the language used when a <Code> element has no
// Language attribute.
func WithDefaultLanguage(lang Language) Option {
	return func(r *Resolver) { r.lang = lang }
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// NewResolver returns a Resolver configured by opts.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		fs:   afero.NewOsFs(),
		lang: DefaultLanguage,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resolve builds the [TaskInfo] of a validated declaration.
//
// A missing Language becomes the resolver's default language. A missing Type
// becomes [CodeTypeClass] when Source is set and [CodeTypeFragment]
// otherwise. When Source is set the file's content replaces any inline code
// verbatim. Failure to read it returns an error wrapping [ErrReadSource].
//
// The returned SourceCode is the code as written. [Synthesize] produces the
// complete compilation unit.
func (r *Resolver) Resolve(ctx context.Context, decl *Declaration) (*TaskInfo, error) {
	if decl == nil || decl.Code == nil {
		return nil, ErrInvalidDeclaration.With(slog.String("reason", "no code"))
	}

	code := decl.Code
	info := &TaskInfo{
		Name:         decl.Name,
		CodeLanguage: r.lang,
		CodeType:     CodeTypeFragment,
		Namespaces:   decl.Namespaces.Clone(),
		References:   decl.References.Clone(),
		SourceCode:   code.Text,
	}

	if code.Language.Present {
		lang, ok := ParseLanguage(code.Language.Value)
		if !ok {
			return nil, ErrInvalidDeclaration.Wrap(
				invalidLanguageError(code.Language.Value),
			)
		}

		info.CodeLanguage = lang
	}

	switch {
	case code.Type.Present:
		typ, ok := ParseCodeType(strings.TrimSpace(code.Type.Value))
		if !ok {
			return nil, ErrInvalidDeclaration.Wrap(
				invalidCodeTypeError(code.Type.Value),
			)
		}

		info.CodeType = typ

	case code.Source.Present:
		info.CodeType = CodeTypeClass
	}

	if code.Source.Present {
		path, err := r.abs(code.Source.Value)
		if err != nil {
			return nil, ErrReadSource.Wrap(err).
				With(slog.String("source", code.Source.Value))
		}

		data, err := afero.ReadFile(r.fs, path)
		if err != nil {
			return nil, ErrReadSource.Wrap(err).With(slog.String("source", path))
		}

		info.SourceCode = string(data)

		r.logger.TraceContext(ctx, "source file loaded",
			slog.String("source", path),
			slog.Int("bytes", len(data)),
		)
	}

	r.logger.DebugContext(ctx, "task resolved",
		slog.String("task", info.Name),
		slog.String("language", info.CodeLanguage.String()),
		slog.String("type", info.CodeType.String()),
		slog.Int("references", info.References.Len()),
		slog.Int("namespaces", info.Namespaces.Len()),
	)

	return info, nil
}

// abs returns the cleaned absolute form of path, consulting the path cache
// when enabled.
func (r *Resolver) abs(path string) (string, error) {
	if r.paths != nil {
		if p, ok := r.paths.Get(path); ok {
			return p, nil
		}
	}

	p, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	if r.paths != nil {
		r.paths.Add(path, p)
	}

	return p, nil
}
