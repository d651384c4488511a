package compiler

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ardnew/mung"
	"github.com/google/shlex"
	"github.com/spf13/afero"

	"github.com/ardnew/codetask/task"
)

// Flags holds the compiler switches. A nil tri-state flag is omitted from
// the command line.
type Flags struct {
	Deterministic *bool  `yaml:"deterministic,omitempty"`
	Optimize      *bool  `yaml:"optimize,omitempty"`
	NoStdLib      *bool  `yaml:"nostdlib,omitempty"`
	TargetType    string `yaml:"target,omitempty"`
	NoConfig      bool   `yaml:"noconfig,omitempty"`
	NoLogo        bool   `yaml:"nologo,omitempty"`
}

// DefaultFlags returns the switches used to compile inline tasks.
func DefaultFlags() Flags {
	yes, no := true, false

	return Flags{
		Deterministic: &yes,
		Optimize:      &no,
		NoStdLib:      &yes,
		TargetType:    "Library",
		NoConfig:      true,
		NoLogo:        true,
	}
}

// toolName returns the file name of the compiler for lang.
func toolName(lang task.Language) string {
	if lang == task.LanguageVB {
		return "Vbc.exe"
	}

	return "Csc.exe"
}

// Command returns the program and leading arguments used to run the compiler
// for lang.
func (c *Compiler) Command(lang task.Language) ([]string, error) {
	if strings.TrimSpace(c.command) != "" {
		argv, err := shlex.Split(c.command)
		if err != nil {
			return nil, ErrCommand.Wrap(err).With(slog.String("command", c.command))
		}

		if len(argv) == 0 {
			return nil, ErrCommand.With(slog.String("command", c.command))
		}

		return argv, nil
	}

	tool := toolName(lang)

	path, ok := c.locate(tool)
	if !ok {
		return nil, ErrToolNotFound.With(
			slog.String("tool", tool),
			slog.String("tools_dir", c.buildToolsDir()),
		)
	}

	if host := strings.TrimSpace(c.getenv(EnvDotnetHost)); host != "" {
		return []string{host, path}, nil
	}

	return []string{path}, nil
}

// Candidates returns the paths searched for tool, in order.
func (c *Compiler) Candidates(tool string) []string {
	dir := filepath.Join(c.buildToolsDir(), "Roslyn")
	dll := strings.TrimSuffix(tool, filepath.Ext(tool)) + ".dll"

	return []string{
		filepath.Join(dir, tool),
		filepath.Join(dir, dll),
		filepath.Join(dir, "bincore", dll),
	}
}

func (c *Compiler) locate(tool string) (string, bool) {
	if c.buildToolsDir() == "" {
		return "", false
	}

	for _, path := range c.Candidates(tool) {
		if ok, _ := afero.Exists(c.fs, path); ok {
			return path, true
		}
	}

	return "", false
}

func (c *Compiler) buildToolsDir() string {
	if c.toolsDir != "" {
		return c.toolsDir
	}

	if exe := c.getenv(EnvMSBuildPath); exe != "" {
		return filepath.Dir(exe)
	}

	return ""
}

// CommandLineArguments returns the switches passed on the command line
// rather than in the response file.
func (c *Compiler) CommandLineArguments() []string {
	if c.flags.NoConfig {
		return []string{"/noconfig"}
	}

	return nil
}

// ResponseFileArguments returns the switches written to the response file.
func (c *Compiler) ResponseFileArguments(references, sources []string, out string) []string {
	var args []string

	args = appendPlusOrMinus(args, "/nostdlib", c.flags.NoStdLib)

	for _, ref := range references {
		args = append(args, "/reference:"+quote(ref))
	}

	for _, dir := range c.LibPaths() {
		args = append(args, "/lib:"+quote(dir))
	}

	args = appendPlusOrMinus(args, "/deterministic", c.flags.Deterministic)

	if c.flags.NoLogo {
		args = append(args, "/nologo")
	}

	args = appendPlusOrMinus(args, "/optimize", c.flags.Optimize)

	if c.flags.TargetType != "" {
		args = append(args, "/target:"+c.flags.TargetType)
	}

	if out != "" {
		args = append(args, "/out:"+quote(out))
	}

	for _, src := range sources {
		args = append(args, quote(src))
	}

	return args
}

// LibPaths returns the library search directories: the configured ones
// followed by those in the LIB environment variable not already listed.
func (c *Compiler) LibPaths() []string {
	list := mung.Make(
		mung.WithSubjectItems(c.getenv(EnvLib)),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(c.libPaths...),
	).String()

	var dirs []string

	for dir := range strings.SplitSeq(list, string(os.PathListSeparator)) {
		if dir = strings.TrimSpace(dir); dir != "" {
			dirs = append(dirs, dir)
		}
	}

	return dirs
}

func appendPlusOrMinus(args []string, name string, value *bool) []string {
	switch {
	case value == nil:
		return args
	case *value:
		return append(args, name+"+")
	default:
		return append(args, name+"-")
	}
}

// quote wraps s in double quotes when it contains whitespace or quotes.
func quote(s string) string {
	if !strings.ContainsAny(s, " \t\"") {
		return s
	}

	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
