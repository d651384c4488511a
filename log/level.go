package log

//go:generate go tool stringer --linecomment --type Level,Format --output level_string.go

import (
	"iter"
	"log/slog"
	"slices"
	"strings"
)

// Level represents the severity of a log message.
type Level slog.Level

const (
	LevelTrace Level = Level(slog.LevelDebug - 4) // trace
	LevelDebug Level = Level(slog.LevelDebug)     // debug
	LevelInfo  Level = Level(slog.LevelInfo)      // info
	LevelWarn  Level = Level(slog.LevelWarn)      // warn
	LevelError Level = Level(slog.LevelError)     // error
)

// DefaultLevel is the default log level.
const DefaultLevel = LevelInfo

//nolint:gochecknoglobals
var levels = []Level{LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError}

// Levels returns an iterator over the names of all defined log levels, from
// least to most severe.
func Levels() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, l := range levels {
			if !yield(l.String()) {
				return
			}
		}
	}
}

// ParseLevel parses the name of a log level, ignoring case and surrounding
// whitespace. Besides the names returned by [Levels], any string accepted by
// [slog.Level.UnmarshalText] is recognized, such as "INFO+2".
// [DefaultLevel] is returned for anything else.
func ParseLevel(s string) Level {
	s = strings.TrimSpace(s)

	for _, l := range levels {
		if strings.EqualFold(s, l.String()) {
			return l
		}
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return DefaultLevel
	}

	return Level(l)
}

// label returns the upper-case name written in log records.
func (l Level) label() string {
	if slices.Contains(levels, l) {
		return strings.ToUpper(l.String())
	}

	return slog.Level(l).String()
}

// Format represents the output format for log messages.
type Format int

const (
	FormatText Format = iota // text
	FormatJSON               // json
)

// DefaultFormat is the default log message format.
const DefaultFormat = FormatJSON

// Formats returns an iterator over the names of all defined log formats.
func Formats() iter.Seq[string] {
	return slices.Values([]string{FormatJSON.String(), FormatText.String()})
}

// ParseFormat parses the name of a log format, ignoring case and surrounding
// whitespace. [DefaultFormat] is returned for unknown names.
func ParseFormat(s string) Format {
	for _, f := range []Format{FormatJSON, FormatText} {
		if strings.EqualFold(strings.TrimSpace(s), f.String()) {
			return f
		}
	}

	return DefaultFormat
}
