package cmd

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/spf13/afero"

	"github.com/ardnew/codetask/compiler"
	"github.com/ardnew/codetask/params"
	"github.com/ardnew/codetask/pkg"
	"github.com/ardnew/codetask/task"
)

const testConfigPath = "/config/config.yaml"

type testCLI struct {
	Level string `default:"info" help:"Log level"`

	Init    Init    `cmd:""`
	Synth   Synth   `cmd:""`
	Info    Info    `cmd:""`
	Compile Compile `cmd:""`
}

type result struct {
	stdout string
	stderr string
}

// run parses and executes args against fs, feeding stdin to commands that
// read the task body from standard input.
func run(t *testing.T, fs afero.Fs, stdin string, args ...string) (result, error) {
	t.Helper()

	return runContext(t,
		WithStdin(WithFs(context.Background(), fs), strings.NewReader(stdin)),
		args...,
	)
}

// runContext parses and executes args with commands bound to ctx.
func runContext(t *testing.T, ctx context.Context, args ...string) (result, error) {
	t.Helper()

	var (
		cli         testCLI
		out, errOut bytes.Buffer
	)

	parser, err := kong.New(&cli,
		kong.Writers(&out, &errOut),
		kong.Exit(func(int) { t.Fatal("unexpected exit") }),
		kong.Vars{ConfigIdentifier: testConfigPath},
		kong.BindSingletonProvider(func() context.Context { return ctx }),
	)
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		t.Fatalf("parse %v: %v", args, err)
	}

	ctx = WithContext(ctx, ktx)
	err = ktx.Run()

	return result{out.String(), errOut.String()}, err
}

// expectSource returns the source task.Load produces for the same input.
func expectSource(
	t *testing.T,
	fs afero.Fs,
	name, body string,
	group []task.Parameter,
) string {
	t.Helper()

	var rec task.Recorder

	info, ok := task.NewResolver(task.WithFs(fs)).
		Load(context.Background(), &rec, name, body, group)
	if !ok {
		t.Fatalf("load %s: %v", name, rec.Errors())
	}

	return info.SourceCode
}

func TestSynth(t *testing.T) {
	t.Parallel()

	const body = `<Code Type="Fragment" Language="cs">Log.LogMessage(Greeting);</Code>`

	greeting := task.Parameter{Name: "Greeting", Type: "string", Required: true}

	tests := []struct {
		name  string
		args  []string
		stdin string
		group []task.Parameter
	}{
		{
			name: "body_argument",
			args: []string{"synth", "Hello", body},
		},
		{
			name:  "body_stdin",
			args:  []string{"synth", "Hello"},
			stdin: body,
		},
		{
			name:  "body_file",
			args:  []string{"synth", "Hello", "--file", "/work/hello.xml"},
			group: nil,
		},
		{
			name:  "param_spec",
			args:  []string{"synth", "Hello", body, "--param", "Greeting:string:required"},
			group: []task.Parameter{greeting},
		},
		{
			name:  "param_file",
			args:  []string{"synth", "Hello", body, "--params", "/work/params.yaml"},
			group: []task.Parameter{greeting, {Name: "Count", Type: "int", Output: true}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := afero.NewMemMapFs()

			if err := afero.WriteFile(fs, "/work/hello.xml", []byte(body), 0o644); err != nil {
				t.Fatal(err)
			}

			group := "parameters:\n" +
				"  - name: Greeting\n    type: string\n    required: true\n" +
				"  - name: Count\n    type: int\n    output: true\n"
			if err := afero.WriteFile(fs, "/work/params.yaml", []byte(group), 0o644); err != nil {
				t.Fatal(err)
			}

			res, err := run(t, fs, tt.stdin, tt.args...)
			if err != nil {
				t.Fatalf("synth: %v (stderr %q)", err, res.stderr)
			}

			want := expectSource(t, fs, "Hello", body, tt.group)
			if res.stdout != want {
				t.Errorf("synth output:\n%s\nwant:\n%s", res.stdout, want)
			}

			if res.stderr != "" {
				t.Errorf("unexpected diagnostics: %q", res.stderr)
			}
		})
	}
}

func TestSynth_OutputFile(t *testing.T) {
	t.Parallel()

	const body = `<Code Type="Method" Language="vb">Public Overrides Function Execute() As Boolean
Return True
End Function</Code>`

	fs := afero.NewMemMapFs()

	res, err := run(t, fs, "", "synth", "Method", body, "-o", "/out/Method.vb")
	if err != nil {
		t.Fatal(err)
	}

	if res.stdout != "" {
		t.Errorf("stdout = %q, want empty", res.stdout)
	}

	got, err := afero.ReadFile(fs, "/out/Method.vb")
	if err != nil {
		t.Fatal(err)
	}

	if want := expectSource(t, fs, "Method", body, nil); string(got) != want {
		t.Errorf("file content:\n%s\nwant:\n%s", got, want)
	}
}

func TestSynth_Rejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{
			name:    "missing_code",
			body:    `<Using Namespace="System" />`,
			message: `The <Code> element is missing for the "Bad" task. This element is required.`,
		},
		{
			name:    "invalid_language",
			body:    `<Code Language="csharpy">x</Code>`,
			message: `The specified code language "csharpy" is invalid.`,
		},
		{
			name:    "invalid_type",
			body:    `<Code Type="fragment">x</Code>`,
			message: `The specified code type "fragment" is invalid.`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := run(t, afero.NewMemMapFs(), "", "synth", "Bad", tt.body)
			if !errors.Is(err, pkg.ErrTaskFailed) {
				t.Fatalf("err = %v, want %v", err, pkg.ErrTaskFailed)
			}

			if res.stdout != "" {
				t.Errorf("stdout = %q, want empty", res.stdout)
			}

			if !strings.Contains(res.stderr, tt.message) {
				t.Errorf("stderr %q does not contain %q", res.stderr, tt.message)
			}
		})
	}
}

func TestSynth_ClassWarning(t *testing.T) {
	t.Parallel()

	const source = "public class Hello : Microsoft.Build.Utilities.Task {}"

	fs := afero.NewMemMapFs()

	if err := afero.WriteFile(fs, "/src/Hello.cs", []byte(source), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := run(t, fs, "",
		"synth", "Hello", `<Code Source="/src/Hello.cs" />`, "-P", "Ignored",
	)
	if err != nil {
		t.Fatal(err)
	}

	if res.stdout != source {
		t.Errorf("stdout = %q, want %q", res.stdout, source)
	}

	if !strings.Contains(res.stderr, "Parameters are discovered through reflection") {
		t.Errorf("missing warning in stderr %q", res.stderr)
	}
}

func TestInput_Parameters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   Input
		files   map[string]string
		want    []task.Parameter
		wantErr error
	}{
		{
			name: "none",
		},
		{
			name:  "specs",
			input: Input{Params: []string{"A", "B:bool:output", "C:int[]:required"}},
			want: []task.Parameter{
				{Name: "A"},
				{Name: "B", Type: "bool", Output: true},
				{Name: "C", Type: "int[]", Required: true},
			},
		},
		{
			name:  "hcl_file_then_specs",
			input: Input{ParamFile: "/p.hcl", Params: []string{"Extra"}},
			files: map[string]string{
				"/p.hcl": "parameter \"Path\" {\n  type = \"ITaskItem\"\n  required = true\n}\n",
			},
			want: []task.Parameter{
				{Name: "Path", Type: "ITaskItem", Required: true},
				{Name: "Extra"},
			},
		},
		{
			name:    "duplicate",
			input:   Input{Params: []string{"Value", "value:int"}},
			wantErr: params.ErrDuplicate,
		},
		{
			name:    "bad_spec",
			input:   Input{Params: []string{"1abc"}},
			wantErr: params.ErrInvalidSpec,
		},
		{
			name:    "missing_file",
			input:   Input{ParamFile: "/missing.yaml"},
			wantErr: ErrParameters,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := afero.NewMemMapFs()
			for path, content := range tt.files {
				if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
					t.Fatal(err)
				}
			}

			got, err := tt.input.parameters(WithFs(context.Background(), fs))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatal(err)
			}

			if len(got) != len(tt.want) {
				t.Fatalf("got %d parameters, want %d: %+v", len(got), len(tt.want), got)
			}

			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("parameter %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestInfo(t *testing.T) {
	t.Parallel()

	const body = `<Reference Include=" System.Xml " />
<Using Namespace="System.Xml" />
<Code Language="VisualBasic">Success = True</Code>`

	tests := []struct {
		name   string
		format string
		want   []string
	}{
		{
			name:   "yaml",
			format: "yaml",
			want: []string{
				"name: Greet",
				"language: VB",
				"type: Fragment",
				"- System.Xml",
				"- name: Who",
				"source: |",
			},
		},
		{
			name:   "json",
			format: "json",
			want: []string{
				`"name": "Greet"`,
				`"language": "VB"`,
				`"type": "Fragment"`,
				`"references": [`,
				`"name": "Who"`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := run(t, afero.NewMemMapFs(), "",
				"info", "Greet", body, "--format", tt.format, "-P", "Who:string",
			)
			if err != nil {
				t.Fatal(err)
			}

			for _, w := range tt.want {
				if !strings.Contains(res.stdout, w) {
					t.Errorf("output does not contain %q:\n%s", w, res.stdout)
				}
			}
		})
	}
}

func TestCompile_ToolNotFound(t *testing.T) {
	t.Parallel()

	_, err := run(t, afero.NewMemMapFs(), "",
		"compile", "Hello", `<Code>Success = true;</Code>`, "--tools-dir", "/tools",
	)
	if err == nil {
		t.Fatal("expected error")
	}

	if !strings.Contains(err.Error(), "compiler not found") {
		t.Errorf("err = %v, want compiler not found", err)
	}
}

func TestCompile_Command(t *testing.T) {
	t.Parallel()

	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("true(1) not available")
	}

	res, err := run(t, afero.NewMemMapFs(), "",
		"compile", "Hello", `<Code>Success = true;</Code>`,
		"--command", "true", "-o", "/out/Hello.dll",
	)
	if err != nil {
		t.Fatalf("compile: %v (stderr %q)", err, res.stderr)
	}

	if want := "InlineCode.Hello\t/out/Hello.dll\n"; res.stdout != want {
		t.Errorf("stdout = %q, want %q", res.stdout, want)
	}
}

func TestCompile_Cached(t *testing.T) {
	t.Parallel()

	const body = `<Code>Success = true;</Code>`

	fs := afero.NewMemMapFs()
	cache := compiler.NewCache()

	var rec task.Recorder

	info, ok := task.NewResolver(task.WithFs(fs)).
		Load(context.Background(), &rec, "Hello", body, nil)
	if !ok {
		t.Fatalf("load: %q", rec.Errors())
	}

	if err := afero.WriteFile(fs, "/lib/Hello.dll", []byte("MZ"), 0o600); err != nil {
		t.Fatal(err)
	}

	cache.Store(info, task.Artifact{Path: "/lib/Hello.dll", Task: "InlineCode.Hello"})

	ctx := WithCache(WithFs(context.Background(), fs), cache)

	// No compiler can be found under /tools, so only the cache can succeed.
	res, err := runContext(t, ctx, "compile", "Hello", body, "--tools-dir", "/tools")
	if err != nil {
		t.Fatalf("compile: %v (stderr %q)", err, res.stderr)
	}

	if want := "InlineCode.Hello\t/lib/Hello.dll\n"; res.stdout != want {
		t.Errorf("stdout = %q, want %q", res.stdout, want)
	}
}
