package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestLogger_Make_DefaultConfiguration(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf)

	if logger.Level() != LevelInfo {
		t.Errorf("expected default level info, got %v", logger.Level())
	}
	if logger.caller {
		t.Error("expected caller disabled by default")
	}
	if logger.Format() != FormatJSON {
		t.Errorf("expected default format json, got %v", logger.Format())
	}
}

func TestLogger_Zero_Discards(t *testing.T) {
	var logger Logger

	logger.Info("nothing")
	logger.Error("nothing")

	if logger.Level() != DefaultLevel {
		t.Errorf("expected %v, got %v", DefaultLevel, logger.Level())
	}
}

func TestLogger_WithLevel_FiltersMessages(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithLevel(LevelTrace))

	logger.Trace("trace message")
	if !strings.Contains(buf.String(), "trace message") {
		t.Error("trace message not logged at trace level")
	}
	if !strings.Contains(buf.String(), `"TRACE"`) {
		t.Errorf("expected TRACE level name, got %s", buf.String())
	}

	buf.Reset()
	logger = Make(&buf, WithLevel(LevelError))
	logger.Info("info message")
	if buf.Len() > 0 {
		t.Error("info message logged when level is error")
	}

	logger.Error("error message")
	if !strings.Contains(buf.String(), "error message") {
		t.Error("error message not logged at error level")
	}
}

func TestLogger_WithFormat_SetsOutputFormat(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Make(&buf, WithFormat(FormatJSON))
		logger.Info("test message", slog.String("key", "value"))

		var result map[string]any
		if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
			t.Fatalf("failed to parse JSON output: %v", err)
		}
		if result["msg"] != "test message" {
			t.Errorf("expected msg=test message, got %v", result["msg"])
		}
		if result["key"] != "value" {
			t.Errorf("expected key=value, got %v", result["key"])
		}
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Make(&buf, WithFormat(FormatText))
		logger.Info("test message", slog.String("key", "value"))

		output := buf.String()
		if !strings.Contains(output, `msg="test message"`) {
			t.Errorf("expected text msg, got: %s", output)
		}
		if !strings.Contains(output, "key=value") {
			t.Errorf("expected key=value, got: %s", output)
		}
	})
}

func TestLogger_WithTimeLayout_None(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithTimeLayout("none"))
	logger.Info("test")

	var result map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON output: %v", err)
	}
	if _, ok := result["time"]; ok {
		t.Errorf("expected no time key, got %v", result["time"])
	}
}

func TestLogger_WithCaller_IncludesSource(t *testing.T) {
	var buf bytes.Buffer
	Make(&buf, WithCaller(true)).Info("test message")

	if !strings.Contains(buf.String(), "log_test.go") {
		t.Errorf("expected caller file in output, got: %s", buf.String())
	}

	buf.Reset()
	Make(&buf, WithCaller(false)).Info("test message")

	if strings.Contains(buf.String(), "source") {
		t.Error("source included when caller disabled")
	}
}

func TestLogger_With_KeepsAttrs(t *testing.T) {
	for _, pretty := range []bool{false, true} {
		for _, format := range []Format{FormatText, FormatJSON} {
			t.Run(format.String(), func(t *testing.T) {
				var buf bytes.Buffer
				logger := Make(&buf, WithFormat(format), WithPretty(pretty)).
					With(slog.String("task", "Hello"))
				logger.Info("loaded", slog.Int("params", 2))

				output := buf.String()
				for _, want := range []string{"task", "Hello", "loaded", "params"} {
					if !strings.Contains(output, want) {
						t.Errorf("pretty=%v: missing %q in %s", pretty, want, output)
					}
				}
			})
		}
	}
}

func TestLogger_Wrap_DoesNotAffectParent(t *testing.T) {
	var buf bytes.Buffer
	parent := Make(&buf, WithLevel(LevelInfo))
	child := parent.Wrap(WithLevel(LevelDebug))

	if parent.Level() != LevelInfo {
		t.Errorf("parent level changed to %v", parent.Level())
	}
	if child.Level() != LevelDebug {
		t.Errorf("expected child level debug, got %v", child.Level())
	}

	parent.Debug("hidden")
	if buf.Len() > 0 {
		t.Error("parent logged below its level")
	}

	child.Debug("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Error("child did not log at debug")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{" TRACE ", LevelTrace},
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"bogus", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"json", FormatJSON},
		{" Text ", FormatText},
		{"yaml", DefaultFormat},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseFormat(tt.in); got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLayoutFormatter(t *testing.T) {
	ts := time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)

	tests := []struct {
		layout string
		want   string
	}{
		{"RFC3339", "2024-03-09T14:05:00Z"},
		{"rfc-3339", "2024-03-09T14:05:00Z"},
		{"Kitchen", "2:05PM"},
		{"2006/01/02", "2024/03/09"},
		{"none", ""},
		{"  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			if got := layoutFormatter(tt.layout)(ts); got != tt.want {
				t.Errorf("layout %q: got %q, want %q", tt.layout, got, tt.want)
			}
		})
	}
}

func TestLevelLabel(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelTrace, "TRACE"},
		{LevelWarn, "WARN"},
		{ParseLevel("info+2"), "INFO+2"},
	}

	for _, tt := range tests {
		if got := tt.level.label(); got != tt.want {
			t.Errorf("label(%d) = %q, want %q", tt.level, got, tt.want)
		}
	}
}
