package task

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/codetask/log"
)

// Severity classifies a [Diagnostic].
type Severity int

const (
	SeverityMessage Severity = iota // message
	SeverityWarning                 // warning
	SeverityError                   // error
)

// String returns the lower-case name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityMessage:
		return "message"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Importance ranks messages. It has no effect on warnings and errors.
type Importance int

const (
	ImportanceHigh Importance = iota
	ImportanceNormal
	ImportanceLow
)

// Diagnostic codes.
const (
	CodeInvalidTaskXML        = "InvalidTaskXml"
	CodeInvalidTaskElement    = "InvalidTaskElement"
	CodeMultipleCodeElements  = "MultipleCodeNodes"
	CodeMissingCodeElement    = "CodeElementIsMissing"
	CodeAttributeEmpty        = "AttributeEmpty"
	CodeInvalidCodeLanguage   = "InvalidCodeLanguage"
	CodeInvalidCodeType       = "InvalidCodeType"
	CodeNoSourceCode          = "NoSourceCode"
	CodeParameterGroupIgnored = "ParameterGroupIgnoredForCodeTypeClass"
	CodeReadSource            = "ReadSourceFile"
)

// Diagnostic is a single message reported while loading a task body.
type Diagnostic struct {
	Err        error
	Code       string
	Message    string
	Attrs      []slog.Attr
	Severity   Severity
	Importance Importance
}

// Error implements the error interface with the diagnostic's message.
func (d *Diagnostic) Error() string { return d.Message }

// Unwrap returns the cause of the diagnostic, if any.
func (d *Diagnostic) Unwrap() error { return d.Err }

// LogValue implements slog.LogValuer.
func (d *Diagnostic) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(d.Attrs)+3)
	attrs = append(attrs,
		slog.String("severity", d.Severity.String()),
		slog.String("code", d.Code),
	)

	if d.Err != nil {
		attrs = append(attrs, slog.String("cause", d.Err.Error()))
	}

	return slog.GroupValue(append(attrs, d.Attrs...)...)
}

// With returns a copy of d carrying additional attributes.
func (d *Diagnostic) With(attrs ...slog.Attr) *Diagnostic {
	c := *d
	c.Attrs = append(slices.Clone(d.Attrs), attrs...)

	return &c
}

// NewDiagnostic returns a diagnostic with the given severity, code and
// message.
func NewDiagnostic(s Severity, code, message string) *Diagnostic {
	return &Diagnostic{Code: code, Message: message, Severity: s}
}

// Message returns an informational diagnostic.
func Message(importance Importance, message string) *Diagnostic {
	return &Diagnostic{
		Message:    message,
		Severity:   SeverityMessage,
		Importance: importance,
	}
}

// Reporter receives diagnostics.
type Reporter interface {
	Report(d *Diagnostic)
}

// ReporterFunc adapts a function to the [Reporter] interface.
type ReporterFunc func(d *Diagnostic)

// Report calls f(d).
func (f ReporterFunc) Report(d *Diagnostic) { f(d) }

// Recorder is a [Reporter] that keeps every diagnostic it receives.
// It is safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	diags []*Diagnostic
}

// Report records d.
func (r *Recorder) Report(d *Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.diags = append(r.diags, d)
}

// Diagnostics returns every recorded diagnostic in report order.
func (r *Recorder) Diagnostics() []*Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.diags)
}

// Messages returns the text of every recorded diagnostic with severity s.
func (r *Recorder) Messages(s Severity) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []string

	for _, d := range r.diags {
		if d.Severity == s {
			out = append(out, d.Message)
		}
	}

	return out
}

// Errors returns the text of every recorded error.
func (r *Recorder) Errors() []string { return r.Messages(SeverityError) }

// Warnings returns the text of every recorded warning.
func (r *Recorder) Warnings() []string { return r.Messages(SeverityWarning) }

// Reset discards all recorded diagnostics.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.diags = nil
}

// LowImportance wraps r so that messages and warnings are forwarded as
// low-importance messages. Errors are forwarded unchanged.
//
// It is used for output of external tools that would otherwise be too noisy.
func LowImportance(r Reporter) Reporter {
	return ReporterFunc(func(d *Diagnostic) {
		if d.Severity == SeverityError {
			r.Report(d)

			return
		}

		c := *d
		c.Severity = SeverityMessage
		c.Importance = ImportanceLow
		r.Report(&c)
	})
}

// LogReporter returns a [Reporter] that writes diagnostics to logger.
// Errors are logged at error level, warnings at warn level, and messages at
// info, debug or trace level according to their importance.
func LogReporter(ctx context.Context, logger log.Logger) Reporter {
	return ReporterFunc(func(d *Diagnostic) {
		attrs := append([]slog.Attr{slog.String("code", d.Code)}, d.Attrs...)
		if d.Err != nil {
			attrs = append(attrs, slog.Any("cause", d.Err))
		}

		logger.Log(ctx, levelOf(d), d.Message, attrs...)
	})
}

func levelOf(d *Diagnostic) log.Level {
	switch d.Severity {
	case SeverityError:
		return log.LevelError
	case SeverityWarning:
		return log.LevelWarn
	}

	switch d.Importance {
	case ImportanceHigh:
		return log.LevelInfo
	case ImportanceNormal:
		return log.LevelDebug
	default:
		return log.LevelTrace
	}
}

// suggest returns the candidate that best matches s, or "" if none does.
func suggest(s string, candidates []string) string {
	if s == "" {
		return ""
	}

	matches := fuzzy.Find(s, candidates)
	if len(matches) == 0 {
		return ""
	}

	return matches[0].Str
}

func errorf(code, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Severity: SeverityError,
	}
}

func withSuggestion(d *Diagnostic, suggestion string) *Diagnostic {
	if suggestion == "" {
		return d
	}

	return d.With(slog.String("suggestion", suggestion))
}

func invalidXMLError(err error) *Diagnostic {
	d := errorf(CodeInvalidTaskXML,
		"The specified task XML is invalid.  %s", err.Error())
	d.Err = err

	return d
}

func invalidElementError(tag string) *Diagnostic {
	return withSuggestion(
		errorf(CodeInvalidTaskElement,
			"The element <%s> is not a valid child of the <Task> element.  "+
				"Valid child elements are <Code>, <Reference>, and <Using>.", tag).
			With(slog.String("element", tag)),
		suggest(tag, []string{elemCode, elemReference, elemUsing}),
	)
}

func multipleCodeError() *Diagnostic {
	return errorf(CodeMultipleCodeElements,
		"Only one <Code> element can be specified.")
}

func missingCodeError(name string) *Diagnostic {
	return errorf(CodeMissingCodeElement,
		"The <Code> element is missing for the \"%s\" task. "+
			"This element is required.", name).
		With(slog.String("task", name))
}

func emptyAttributeError(attr, elem string) *Diagnostic {
	return errorf(CodeAttributeEmpty,
		"The \"%s\" attribute of the <%s> element has been set but is empty. "+
			"If the \"%s\" attribute is set it must not be empty.", attr, elem, attr).
		With(slog.String("attribute", attr), slog.String("element", elem))
}

func invalidLanguageError(value string) *Diagnostic {
	return withSuggestion(
		errorf(CodeInvalidCodeLanguage,
			"The specified code language \"%s\" is invalid.  "+
				"The supported code languages are \"%s\".", value, languageList()),
		languageSuggestion(value),
	)
}

func invalidCodeTypeError(value string) *Diagnostic {
	return withSuggestion(
		errorf(CodeInvalidCodeType,
			"The specified code type \"%s\" is invalid.  "+
				"The supported code types are \"%s\".", value, codeTypeList()),
		codeTypeSuggestion(value),
	)
}

func noSourceCodeError() *Diagnostic {
	return errorf(CodeNoSourceCode,
		"You must specify source code within the Code element "+
			"or a path to a file containing source code.")
}

func readSourceError(path string, err error) *Diagnostic {
	d := errorf(CodeReadSource, "%s", err.Error()).
		With(slog.String("source", path))
	d.Err = err

	return d
}

func parameterGroupIgnoredWarning(n int) *Diagnostic {
	return &Diagnostic{
		Code: CodeParameterGroupIgnored,
		Message: `Parameters are discovered through reflection for Type="Class".  ` +
			"Values specified in <ParameterGroup/> will be ignored.",
		Attrs:    []slog.Attr{slog.Int("parameters", n)},
		Severity: SeverityWarning,
	}
}
