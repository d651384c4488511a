package compiler

import (
	"bufio"
	"bytes"
	"log/slog"
	"regexp"
	"strings"

	"github.com/ardnew/codetask/task"
)

// canonical matches "origin(line,col): category CODE: text" and the
// "origin: category CODE: text" form without a position.
var canonical = regexp.MustCompile(
	`^(?P<origin>.*?)(?:\((?P<pos>[0-9,]+)\))?\s*:\s*(?P<category>error|warning)\s+(?P<code>[A-Za-z]+[0-9]+)\s*:\s*(?P<text>.*)$`,
)

// report forwards each line of compiler output to r and reports whether any
// line was an error.
func report(r task.Reporter, output []byte) bool {
	failed := false

	sc := bufio.NewScanner(bytes.NewReader(output))
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		d := parseLine(line)
		if d.Severity == task.SeverityError {
			failed = true
		}

		r.Report(d)
	}

	return failed
}

// parseLine converts one line of compiler output to a diagnostic.
func parseLine(line string) *task.Diagnostic {
	m := canonical.FindStringSubmatch(line)
	if m == nil {
		return task.Message(task.ImportanceNormal, line)
	}

	group := func(name string) string { return m[canonical.SubexpIndex(name)] }

	severity := task.SeverityWarning
	if group("category") == "error" {
		severity = task.SeverityError
	}

	d := task.NewDiagnostic(severity, group("code"), group("text"))

	if origin := strings.TrimSpace(group("origin")); origin != "" {
		d = d.With(slog.String("file", origin))
	}

	if pos := group("pos"); pos != "" {
		d = d.With(slog.String("position", pos))
	}

	return d
}
