package task

import (
	"context"
	"log/slog"
)

// Load parses, validates and resolves the body of the task called name, then
// synthesizes its source code using the operating system's file system.
// See [Resolver.Load].
func Load(
	ctx context.Context,
	r Reporter,
	name, body string,
	params []Parameter,
) (*TaskInfo, bool) {
	return NewResolver().Load(ctx, r, name, body, params)
}

// Load parses, validates and resolves the body of the task called name, then
// synthesizes its source code.
//
// On failure exactly one error diagnostic is reported to rep and Load returns
// nil and false. On success no error is reported. A warning is reported when
// parameters are given for Class code, since they are ignored.
//
// Load panics if rep is nil.
func (r *Resolver) Load(
	ctx context.Context,
	rep Reporter,
	name, body string,
	params []Parameter,
) (*TaskInfo, bool) {
	if rep == nil {
		panic(ErrNilReporter)
	}

	r.logger.TraceContext(ctx, "load task body",
		slog.String("task", name),
		slog.Int("body_bytes", len(body)),
		slog.Int("parameters", len(params)),
	)

	decl, d := Parse(name, body)
	if d == nil {
		d = Validate(decl)
	}

	if d != nil {
		r.logger.DebugContext(ctx, "task body rejected",
			slog.String("task", name),
			slog.String("code", d.Code),
		)
		rep.Report(d)

		return nil, false
	}

	info, err := r.Resolve(ctx, decl)
	if err != nil {
		rep.Report(readSourceError(decl.Code.Source.Value, err))

		return nil, false
	}

	if info.CodeType == CodeTypeClass {
		if len(params) > 0 {
			rep.Report(parameterGroupIgnoredWarning(len(params)))
		}

		return info, true
	}

	info.SourceCode = Synthesize(info, params)

	r.logger.TraceContext(ctx, "source synthesized",
		slog.String("task", name),
		slog.Int("source_bytes", len(info.SourceCode)),
	)

	return info, true
}
