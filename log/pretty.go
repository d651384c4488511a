package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

//nolint:gochecknoglobals
var (
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	stringStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	numberStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	trueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	falseStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	levelStyle  = map[slog.Level]lipgloss.Style{
		slog.LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		slog.LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		slog.LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		slog.LevelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	}
)

// styleLevel renders a level name using the style of the nearest defined
// level at or below it.
func styleLevel(level slog.Level) string {
	name := Level(level).label()

	for _, l := range []slog.Level{
		slog.LevelError, slog.LevelWarn, slog.LevelInfo, slog.LevelDebug,
	} {
		if level >= l {
			return levelStyle[l].Render(name)
		}
	}

	return levelStyle[slog.LevelDebug].Render(name)
}

// prettyHandler holds the state shared by both pretty handlers.
type prettyHandler struct {
	opts       slog.HandlerOptions
	formatTime FormatTime
	mu         *sync.Mutex
	w          io.Writer
	attrs      []slog.Attr
	groups     []string
}

func (h prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

// qualify prefixes an attribute key with the open groups.
func (h prettyHandler) qualify(key string) string {
	if len(h.groups) == 0 {
		return key
	}

	return strings.Join(h.groups, ".") + "." + key
}

// record collects the ordered key/value pairs of r, including the handler's
// own attributes.
func (h prettyHandler) record(r slog.Record) []slog.Attr {
	out := make([]slog.Attr, 0, 4+len(h.attrs)+r.NumAttrs())

	if !r.Time.IsZero() {
		if ts := h.formatTime(r.Time); ts != "" {
			out = append(out, slog.String(slog.TimeKey, ts))
		}
	}

	out = append(out, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			out = append(out, slog.String(
				slog.SourceKey, src.File+":"+strconv.Itoa(src.Line),
			))
		}
	}

	out = append(out, slog.String(slog.MessageKey, r.Message))
	out = append(out, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		a.Key = h.qualify(a.Key)
		out = append(out, a)

		return true
	})

	return out
}

func (h prettyHandler) write(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h prettyHandler) withAttrs(attrs []slog.Attr) prettyHandler {
	next := h
	next.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	next.attrs = append(next.attrs, h.attrs...)

	for _, a := range attrs {
		a.Key = h.qualify(a.Key)
		next.attrs = append(next.attrs, a)
	}

	return next
}

func (h prettyHandler) withGroup(name string) prettyHandler {
	next := h
	next.groups = append(h.groups[:len(h.groups):len(h.groups)], name)

	return next
}

// prettyTextHandler writes one colorized key=value line per record.
type prettyTextHandler struct{ prettyHandler }

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) *prettyTextHandler {
	return &prettyTextHandler{prettyHandler{
		opts:       *opts,
		formatTime: formatTime,
		mu:         &sync.Mutex{},
		w:          w,
	}}
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	for i, a := range h.record(r) {
		if i > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(keyStyle.Render(a.Key))
		buf.WriteByte('=')
		buf.WriteString(renderValue(a.Value))
	}

	return h.write(&buf)
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{h.withGroup(name)}
}

// prettyJSONHandler writes an indented JSON object per record with colorized
// keys.
type prettyJSONHandler struct{ prettyHandler }

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) *prettyJSONHandler {
	return &prettyJSONHandler{prettyHandler{
		opts:       *opts,
		formatTime: formatTime,
		mu:         &sync.Mutex{},
		w:          w,
	}}
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	buf.WriteString("{")

	for i, a := range h.record(r) {
		if i > 0 {
			buf.WriteByte(',')
		}

		buf.WriteString("\n  ")
		buf.WriteString(keyStyle.Render(strconv.Quote(a.Key)))
		buf.WriteString(": ")

		if level, ok := a.Value.Any().(slog.Level); ok {
			buf.WriteString(strconv.Quote(Level(level).label()))

			continue
		}

		data, err := json.Marshal(jsonValue(a.Value))
		if err != nil {
			data = []byte(strconv.Quote(fmt.Sprint(a.Value.Any())))
		}

		buf.Write(data)
	}

	buf.WriteString("\n}")

	return h.write(&buf)
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{h.withGroup(name)}
}

// jsonValue converts a slog value into something encoding/json renders the
// way slog.JSONHandler would.
func jsonValue(v slog.Value) any {
	v = v.Resolve()

	switch v.Kind() {
	case slog.KindGroup:
		m := make(map[string]any, len(v.Group()))
		for _, a := range v.Group() {
			m[a.Key] = jsonValue(a.Value)
		}

		return m

	case slog.KindDuration:
		return v.Duration().String()

	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}

		return v.Any()

	default:
		return v.Any()
	}
}

// renderValue colorizes a value for the text handler.
func renderValue(v slog.Value) string {
	v = v.Resolve()

	switch v.Kind() {
	case slog.KindString:
		return stringStyle.Render(v.String())

	case slog.KindInt64, slog.KindUint64, slog.KindFloat64, slog.KindDuration:
		return numberStyle.Render(v.String())

	case slog.KindBool:
		if v.Bool() {
			return trueStyle.Render("true")
		}

		return falseStyle.Render("false")

	case slog.KindGroup:
		parts := make([]string, 0, len(v.Group()))
		for _, a := range v.Group() {
			parts = append(parts, keyStyle.Render(a.Key)+"="+renderValue(a.Value))
		}

		return "{" + strings.Join(parts, " ") + "}"

	case slog.KindAny:
		if level, ok := v.Any().(slog.Level); ok {
			return styleLevel(level)
		}

		return stringStyle.Render(v.String())

	default:
		return stringStyle.Render(v.String())
	}
}
