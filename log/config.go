package log

import (
	"io"
	"log/slog"
	"strings"
	"time"
)

// FormatTime defines a function that formats a time.Time value as a string.
// An empty result omits the timestamp.
type FormatTime func(time.Time) string

// DefaultTimeLayout is the default used when no valid time layout is provided.
const DefaultTimeLayout = time.RFC3339

// DefaultCaller is the default setting for including caller information
// in log output.
const DefaultCaller = false

// DefaultPretty is the default setting for pretty printing log output.
const DefaultPretty = false

// Option configures a [Logger].
type Option func(*config)

// config is the immutable configuration of a Logger.
// Options are applied to a copy.
type config struct {
	output     io.Writer
	formatTime FormatTime
	level      Level
	format     Format
	caller     bool
	pretty     bool
}

func defaultConfig(w io.Writer) config {
	var c config

	WithDefaults(w)(&c)

	return c
}

// with returns a copy of c with opts applied.
func (c config) with(opts ...Option) config {
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}

	return c
}

// replaceAttr renders the time and level attributes of built-in handlers.
func (c config) replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch v := a.Value.Any().(type) {
	case time.Time:
		if a.Key != slog.TimeKey {
			break
		}

		ts := c.formatTime(v)
		if ts == "" {
			return slog.Attr{}
		}

		a.Value = slog.StringValue(ts)

	case slog.Level:
		if a.Key == slog.LevelKey {
			a.Value = slog.StringValue(Level(v).label())
		}
	}

	return a
}

// handler creates a slog.Handler based on the configuration.
func (c config) handler() slog.Handler {
	opts := &slog.HandlerOptions{
		AddSource:   c.caller,
		Level:       slog.Level(c.level),
		ReplaceAttr: c.replaceAttr,
	}

	switch c.format {
	case FormatText:
		if c.pretty {
			return newPrettyTextHandler(c.output, opts, c.formatTime)
		}

		return slog.NewTextHandler(c.output, opts)

	case FormatJSON:
		if c.pretty {
			return newPrettyJSONHandler(c.output, opts, c.formatTime)
		}

		return slog.NewJSONHandler(c.output, opts)

	default:
		return slog.DiscardHandler
	}
}

// WithDefaults returns an option that restores the default configuration
// writing to w: [DefaultTimeLayout], [DefaultLevel], [DefaultFormat],
// [DefaultCaller] and [DefaultPretty].
// If w is nil, [io.Discard] is used instead.
func WithDefaults(w io.Writer) Option {
	return func(c *config) {
		*c = config{
			formatTime: layoutFormatter(DefaultTimeLayout),
			level:      DefaultLevel,
			format:     DefaultFormat,
			caller:     DefaultCaller,
			pretty:     DefaultPretty,
		}

		WithOutput(w)(c)
	}
}

// WithOutput returns an option that sets the output [io.Writer].
// If w is nil, [io.Discard] is used instead.
func WithOutput(w io.Writer) Option {
	if w == nil {
		w = io.Discard
	}

	return func(c *config) { c.output = w }
}

// WithLevel returns an option that sets the minimum log level.
// Messages below this level are discarded.
func WithLevel(level Level) Option {
	return func(c *config) { c.level = level }
}

// WithFormat returns an option that sets the output format.
func WithFormat(format Format) Option {
	return func(c *config) { c.format = format }
}

// WithTimeLayout returns an option that sets the layout used to format log
// timestamps.
//
// The layout may name one of the layouts of the [time] package, ignoring
// case and punctuation (for example "RFC3339", "rfc-3339-nano" or
// "Kitchen"). Otherwise it is passed verbatim to [time.Time.Format].
//
// An empty layout, or "none", omits timestamps from log output.
func WithTimeLayout(layout string) Option {
	format := layoutFormatter(layout)

	return func(c *config) { c.formatTime = format }
}

// WithCaller returns an option that controls whether the source location of
// the caller is included in log output.
func WithCaller(enable bool) Option {
	return func(c *config) { c.caller = enable }
}

// WithPretty returns an option that controls whether log output is
// colorized and indented.
func WithPretty(enable bool) Option {
	return func(c *config) { c.pretty = enable }
}

//nolint:gochecknoglobals
var namedLayouts = map[string]string{
	"ansic":       time.ANSIC,
	"datetime":    time.DateTime,
	"kitchen":     time.Kitchen,
	"ms":          time.StampMilli,
	"none":        "",
	"rfc3339":     time.RFC3339,
	"rfc3339nano": time.RFC3339Nano,
	"rfc822":      time.RFC822,
	"stamp":       time.Stamp,
	"stampmicro":  time.StampMicro,
	"stampmilli":  time.StampMilli,
	"timeonly":    time.TimeOnly,
	"unixdate":    time.UnixDate,
	"us":          time.StampMicro,
}

func layoutFormatter(layout string) FormatTime {
	key := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return -1
		}
	}, strings.ToLower(layout))

	if named, ok := namedLayouts[key]; ok {
		layout = named
	}

	if key == "" || layout == "" {
		return func(time.Time) string { return "" }
	}

	return func(t time.Time) string { return t.Format(layout) }
}
