package task

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

const taskName = "MyInlineTask"

const csHeader = `using Microsoft.Build.Framework;
using Microsoft.Build.Utilities;
using System;
using System.Collections;
using System.Collections.Generic;
using System.IO;
using System.Linq;
using System.Text;`

const vbHeader = `Imports Microsoft.Build.Framework
Imports Microsoft.Build.Utilities
Imports System
Imports System.Collections
Imports System.Collections.Generic
Imports System.IO
Imports System.Linq
Imports System.Text`

func sampleParameters() []Parameter {
	return []Parameter{
		{Name: "Parameter1", Type: "string", Required: true},
		{Name: "Parameter2", Type: "string", Output: true},
		{Name: "Parameter3", Type: "string", Output: true, Required: true},
		{Name: "Parameter4", Type: "ITaskItem"},
		{Name: "Parameter5", Type: "ITaskItem[]"},
	}
}

func loadSuccess(
	t *testing.T,
	res *Resolver,
	body string,
	params []Parameter,
) (*TaskInfo, *Recorder) {
	t.Helper()

	var rec Recorder

	info, ok := res.Load(context.Background(), &rec, taskName, body, params)

	if errs := rec.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected errors: %q", errs)
	}

	if !ok || info == nil {
		t.Fatal("expected success")
	}

	return info, &rec
}

func loadFailure(t *testing.T, body, want string) {
	t.Helper()

	var rec Recorder

	info, ok := Load(context.Background(), &rec, taskName, body, nil)
	if ok || info != nil {
		t.Fatalf("expected failure, got %+v", info)
	}

	errs := rec.Errors()
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %q", errs)
	}

	if errs[0] != want {
		t.Errorf("error mismatch\n got: %s\nwant: %s", errs[0], want)
	}

	if warns := rec.Warnings(); len(warns) > 0 {
		t.Errorf("unexpected warnings: %q", warns)
	}
}

func TestLoad_SourceTemplates(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		params   []Parameter
		wantLang Language
		wantType CodeType
		want     string
	}{
		{
			name:     "cs fragment",
			body:     "<Code>int x = 0;</Code>",
			wantLang: LanguageCS,
			wantType: CodeTypeFragment,
			want: csHeader + `

namespace InlineCode
{
    public class MyInlineTask : Microsoft.Build.Utilities.Task
    {
        public bool Success { get; private set; } = true;

        public override bool Execute()
        {
            int x = 0;
            return Success;
        }
    }
}`,
		},
		{
			name:     "cs fragment with properties",
			body:     "<Code>int x = 0;</Code>",
			params:   sampleParameters(),
			wantLang: LanguageCS,
			wantType: CodeTypeFragment,
			want: csHeader + `

namespace InlineCode
{
    public class MyInlineTask : Microsoft.Build.Utilities.Task
    {
        public bool Success { get; private set; } = true;
        [Microsoft.Build.Framework.RequiredAttribute]
        public System.String Parameter1 { get; set; }
        [Microsoft.Build.Framework.OutputAttribute]
        public System.String Parameter2 { get; set; }
        [Microsoft.Build.Framework.OutputAttribute]
        [Microsoft.Build.Framework.RequiredAttribute]
        public System.String Parameter3 { get; set; }
        public Microsoft.Build.Framework.ITaskItem Parameter4 { get; set; }
        public Microsoft.Build.Framework.ITaskItem[] Parameter5 { get; set; }
        public override bool Execute()
        {
            int x = 0;
            return Success;
        }
    }
}`,
		},
		{
			name:     "cs method",
			body:     `<Code Type="Method">public override bool Execute() { int x = 0; return Success; }</Code>`,
			wantLang: LanguageCS,
			wantType: CodeTypeMethod,
			want: csHeader + `

namespace InlineCode
{
    public class MyInlineTask : Microsoft.Build.Utilities.Task
    {
        public bool Success { get; private set; } = true;

        public override bool Execute() { int x = 0; return Success; }
    }
}`,
		},
		{
			name:     "vb fragment",
			body:     `<Code Language="VB">Dim x = 0</Code>`,
			wantLang: LanguageVB,
			wantType: CodeTypeFragment,
			want: vbHeader + `

Namespace InlineCode
    Public Class MyInlineTask
        Inherits Microsoft.Build.Utilities.Task

        Public Property Success As Boolean = True

        Public Overrides Function Execute() As Boolean
            Dim x = 0
            Return Success
        End Function

    End Class
End Namespace`,
		},
		{
			name:     "vb fragment with properties",
			body:     `<Code Language="VB">int x = 0;</Code>`,
			params:   sampleParameters(),
			wantLang: LanguageVB,
			wantType: CodeTypeFragment,
			want: vbHeader + `

Namespace InlineCode
    Public Class MyInlineTask
        Inherits Microsoft.Build.Utilities.Task

        Public Property Success As Boolean = True
        <Microsoft.Build.Framework.RequiredAttribute>
        Public Property Parameter1 As System.String
        <Microsoft.Build.Framework.OutputAttribute>
        Public Property Parameter2 As System.String
        <Microsoft.Build.Framework.OutputAttribute>
        <Microsoft.Build.Framework.RequiredAttribute>
        Public Property Parameter3 As System.String
        Public Property Parameter4 As Microsoft.Build.Framework.ITaskItem
        Public Property Parameter5 As Microsoft.Build.Framework.ITaskItem[]
        Public Overrides Function Execute() As Boolean
            int x = 0;
            Return Success
        End Function

    End Class
End Namespace`,
		},
		{
			name: "vb method",
			body: "<Code Language=\"VB\" Type=\"Method\">Public Overrides Function Execute() As Boolean\r\n" +
				"            Dim x = 0\n            Return Success\n        End Function</Code>",
			wantLang: LanguageVB,
			wantType: CodeTypeMethod,
			want: vbHeader + `

Namespace InlineCode
    Public Class MyInlineTask
        Inherits Microsoft.Build.Utilities.Task

        Public Property Success As Boolean = True

        Public Overrides Function Execute() As Boolean
            Dim x = 0
            Return Success
        End Function

    End Class
End Namespace`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, rec := loadSuccess(t, NewResolver(), tt.body, tt.params)

			if info.CodeLanguage != tt.wantLang {
				t.Errorf("language = %v, want %v", info.CodeLanguage, tt.wantLang)
			}

			if info.CodeType != tt.wantType {
				t.Errorf("type = %v, want %v", info.CodeType, tt.wantType)
			}

			if info.SourceCode != tt.want {
				t.Errorf("source mismatch\n got:\n%s\nwant:\n%s", info.SourceCode, tt.want)
			}

			if warns := rec.Warnings(); len(warns) > 0 {
				t.Errorf("unexpected warnings: %q", warns)
			}
		})
	}
}

func TestLoad_CodeLanguage(t *testing.T) {
	tests := []struct {
		value string
		want  Language
	}{
		{"CS", LanguageCS},
		{"cs", LanguageCS},
		{"csharp", LanguageCS},
		{"c#", LanguageCS},
		{"VB", LanguageVB},
		{"vb", LanguageVB},
		{"visualbasic", LanguageVB},
		{"ViSuAl BaSic", LanguageVB},
		{"  Visual Basic  ", LanguageVB},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			body := `<Code Language="` + tt.value + `">code</Code>`
			info, _ := loadSuccess(t, NewResolver(), body, nil)

			if info.CodeLanguage != tt.want {
				t.Errorf("language = %v, want %v", info.CodeLanguage, tt.want)
			}
		})
	}
}

func TestLoad_DefaultLanguage(t *testing.T) {
	res := NewResolver(WithDefaultLanguage(LanguageVB))
	info, _ := loadSuccess(t, res, "<Code>code</Code>", nil)

	if info.CodeLanguage != LanguageVB {
		t.Errorf("language = %v, want VB", info.CodeLanguage)
	}

	if !strings.HasPrefix(info.SourceCode, vbHeader) {
		t.Errorf("expected VB header, got:\n%s", info.SourceCode)
	}
}

func TestLoad_CodeType(t *testing.T) {
	for _, typ := range CodeTypes() {
		t.Run(typ.String(), func(t *testing.T) {
			body := `<Code Type="` + typ.String() + `">code</Code>`
			info, _ := loadSuccess(t, NewResolver(), body, nil)

			if info.CodeType != typ {
				t.Errorf("type = %v, want %v", info.CodeType, typ)
			}
		})
	}

	t.Run("source defaults to class", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		if err := afero.WriteFile(fs, "/src/task.cs", []byte("236D48CE30064161B31B55DBF088C8B2"), 0o644); err != nil {
			t.Fatal(err)
		}

		info, _ := loadSuccess(t, NewResolver(WithFs(fs)), `<Code Source="/src/task.cs"/>`, nil)

		if info.CodeType != CodeTypeClass {
			t.Errorf("type = %v, want Class", info.CodeType)
		}
	})
}

func TestLoad_ClassIgnoresParameterGroup(t *testing.T) {
	params := []Parameter{{Name: "P", Type: "string"}}
	info, rec := loadSuccess(t, NewResolver(), `<Code Type="Class">code</Code>`, params)

	want := []string{
		`Parameters are discovered through reflection for Type="Class".  ` +
			`Values specified in <ParameterGroup/> will be ignored.`,
	}

	if got := rec.Warnings(); !slices.Equal(got, want) {
		t.Errorf("warnings = %q, want %q", got, want)
	}

	if info.SourceCode != "code" {
		t.Errorf("expected verbatim class source, got %q", info.SourceCode)
	}
}

func TestLoad_SourceCodeFromFile(t *testing.T) {
	const contents = "\n1F214E27A13F432B9397F1733BC55929\n\n9111DC29B0064E6994A68CFE465404D4"

	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/src/task.cs", []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	res := NewResolver(WithFs(fs), WithPathCache(4))

	for range 2 {
		info, _ := loadSuccess(t, res, `<Code Source="/src/task.cs"/>`, nil)

		if info.SourceCode != contents {
			t.Errorf("source = %q, want %q", info.SourceCode, contents)
		}

		if info.CodeType != CodeTypeClass {
			t.Errorf("type = %v, want Class", info.CodeType)
		}
	}
}

func TestLoad_SourceFileMissing(t *testing.T) {
	var rec Recorder

	res := NewResolver(WithFs(afero.NewMemMapFs()))

	info, ok := res.Load(context.Background(), &rec, taskName, `<Code Source="/missing.cs"/>`, nil)
	if ok || info != nil {
		t.Fatal("expected failure")
	}

	diags := rec.Diagnostics()
	if len(diags) != 1 || diags[0].Severity != SeverityError {
		t.Fatalf("expected one error, got %+v", diags)
	}

	if !errors.Is(diags[0], ErrReadSource) {
		t.Errorf("expected ErrReadSource, got %v", diags[0].Err)
	}
}

func TestLoad_Namespaces(t *testing.T) {
	const body = `
                <Using Namespace="namespace.A" />
                <Using Namespace="   namespace.B   " />
                <Using Namespace="namespace.C"></Using>
                <Code>code</Code>`

	info, _ := loadSuccess(t, NewResolver(), body, nil)

	want := NewSet("namespace.A", "namespace.B", "namespace.C")
	if !info.Namespaces.Equal(want) {
		t.Errorf("namespaces = %q, want %q", info.Namespaces.Slice(), want.Slice())
	}

	if !strings.Contains(info.SourceCode, "using System.Text;\nusing namespace.A;\nusing namespace.B;\nusing namespace.C;\n\n") {
		t.Errorf("expected namespaces after defaults, got:\n%s", info.SourceCode)
	}
}

func TestLoad_NamespaceAlreadyImported(t *testing.T) {
	info, _ := loadSuccess(t, NewResolver(), `<Using Namespace="system.io"/><Code>code</Code>`, nil)

	if n := strings.Count(strings.ToLower(info.SourceCode), "using system.io;"); n != 1 {
		t.Errorf("expected one System.IO import, got %d", n)
	}
}

func TestLoad_References(t *testing.T) {
	const body = `
                <Reference Include="AssemblyA" />
                <Reference Include="   AssemblyB   " />
                <Reference Include="AssemblyC"></Reference>
                <Reference Include="assemblya" />
                <Reference Include="C:\Program Files(x86)\Common Files\Microsoft\AssemblyD.dll" />
                <Code>code</Code>`

	info, _ := loadSuccess(t, NewResolver(), body, nil)

	want := NewSet(
		"AssemblyA",
		"AssemblyB",
		"AssemblyC",
		`C:\Program Files(x86)\Common Files\Microsoft\AssemblyD.dll`,
	)
	if !info.References.Equal(want) {
		t.Errorf("references = %q, want %q", info.References.Slice(), want.Slice())
	}
}

func TestLoad_IgnoreCommentsAndWhitespace(t *testing.T) {
	for _, body := range []string{
		"<!-- Comment --><Code>code</Code>",
		"                <Code>code</Code>",
		"\r\n\t<?pi data?><Code>code</Code>\n",
	} {
		loadSuccess(t, NewResolver(), body, nil)
	}
}

func TestLoad_Failures(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "empty code element",
			body: "<Code />",
			want: "You must specify source code within the Code element or a path to a file containing source code.",
		},
		{
			name: "whitespace code element",
			body: "<Code>   \n  </Code>",
			want: "You must specify source code within the Code element or a path to a file containing source code.",
		},
		{
			name: "empty include",
			body: `<Reference Include="" />`,
			want: `The "Include" attribute of the <Reference> element has been set but is empty. If the "Include" attribute is set it must not be empty.`,
		},
		{
			name: "absent include",
			body: `<Reference /><Code>code</Code>`,
			want: `The "Include" attribute of the <Reference> element has been set but is empty. If the "Include" attribute is set it must not be empty.`,
		},
		{
			name: "empty language",
			body: `<Code Language="" />`,
			want: `The "Language" attribute of the <Code> element has been set but is empty. If the "Language" attribute is set it must not be empty.`,
		},
		{
			name: "empty namespace",
			body: `<Using Namespace="" />`,
			want: `The "Namespace" attribute of the <Using> element has been set but is empty. If the "Namespace" attribute is set it must not be empty.`,
		},
		{
			name: "empty source",
			body: `<Code Source="" />`,
			want: `The "Source" attribute of the <Code> element has been set but is empty. If the "Source" attribute is set it must not be empty.`,
		},
		{
			name: "empty type",
			body: `<Code Type="" />`,
			want: `The "Type" attribute of the <Code> element has been set but is empty. If the "Type" attribute is set it must not be empty.`,
		},
		{
			name: "invalid language",
			body: `<Code Language="Invalid" />`,
			want: `The specified code language "Invalid" is invalid.  The supported code languages are "CS, VB".`,
		},
		{
			name: "invalid type",
			body: `<Code Type="Invalid" />`,
			want: `The specified code type "Invalid" is invalid.  The supported code types are "Fragment, Method, Class".`,
		},
		{
			name: "type is case sensitive",
			body: `<Code Type="fragment">code</Code>`,
			want: `The specified code type "fragment" is invalid.  The supported code types are "Fragment, Method, Class".`,
		},
		{
			name: "invalid child element",
			body: "<Invalid />",
			want: "The element <Invalid> is not a valid child of the <Task> element.  Valid child elements are <Code>, <Reference>, and <Using>.",
		},
		{
			name: "invalid child text",
			body: "invalid<Code>code</Code>",
			want: "The element <Text> is not a valid child of the <Task> element.  Valid child elements are <Code>, <Reference>, and <Using>.",
		},
		{
			name: "invalid child cdata",
			body: "<![CDATA[text]]><Code>code</Code>",
			want: "The element <Text> is not a valid child of the <Task> element.  Valid child elements are <Code>, <Reference>, and <Using>.",
		},
		{
			name: "missing code element",
			body: "",
			want: `The <Code> element is missing for the "MyInlineTask" task. This element is required.`,
		},
		{
			name: "multiple code elements",
			body: "<Code><![CDATA[]]></Code><Code></Code>",
			want: "Only one <Code> element can be specified.",
		},
		{
			name: "first violation wins",
			body: `<Reference Include=" "/><Invalid/><Code/><Code/>`,
			want: `The "Include" attribute of the <Reference> element has been set but is empty. If the "Include" attribute is set it must not be empty.`,
		},
		{
			name: "language checked before type",
			body: `<Code Language="x" Type="y"/>`,
			want: `The specified code language "x" is invalid.  The supported code languages are "CS, VB".`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loadFailure(t, tt.body, tt.want)
		})
	}
}

func TestLoad_InvalidXML(t *testing.T) {
	for _, body := range []string{
		"<invalid xml",
		"<Code>a && b</Code>",
		"</Task><Task>",
		"<Invalid/><Code>",
		`<?xml version="1.0"?><Code>x</Code>`,
		`<Code>x</Code><?XML version="1.0"?>`,
	} {
		t.Run(body, func(t *testing.T) {
			var rec Recorder

			if _, ok := Load(context.Background(), &rec, taskName, body, nil); ok {
				t.Fatal("expected failure")
			}

			errs := rec.Errors()
			if len(errs) != 1 {
				t.Fatalf("expected one error, got %q", errs)
			}

			const prefix = "The specified task XML is invalid.  "
			if !strings.HasPrefix(errs[0], prefix) || len(errs[0]) == len(prefix) {
				t.Errorf("unexpected message %q", errs[0])
			}
		})
	}
}

func TestLoad_Idempotent(t *testing.T) {
	body := `<Using Namespace="N.B"/><Using Namespace="N.A"/><Code Type="Method">void M() {}</Code>`

	first, _ := loadSuccess(t, NewResolver(), body, sampleParameters())
	second, _ := loadSuccess(t, NewResolver(), body, sampleParameters())

	if first.SourceCode != second.SourceCode {
		t.Error("synthesized source differs between identical loads")
	}
}

func TestLoad_NilReporterPanics(t *testing.T) {
	defer func() {
		if r := recover(); r != ErrNilReporter {
			t.Errorf("expected ErrNilReporter panic, got %v", r)
		}
	}()

	Load(context.Background(), nil, taskName, "<Code>code</Code>", nil)
}
