package task

import "strings"

// slot names a substitution point of a template.
type slot int

const (
	slotNone       slot = iota
	slotHeader          // import statements
	slotName            // task class name
	slotProperties      // one property per parameter
	slotCode            // code from the task body
)

// segment is either literal text or a slot.
type segment struct {
	text string
	slot slot
}

func lit(text string) segment { return segment{text: text} }
func at(s slot) segment       { return segment{slot: s} }

// template is the ordered list of segments making up a compilation unit.
type template []segment

func (t template) render(values [slotCode + 1]string) string {
	var sb strings.Builder

	for _, seg := range t {
		if seg.slot == slotNone {
			sb.WriteString(seg.text)
		} else {
			sb.WriteString(values[seg.slot])
		}
	}

	return sb.String()
}

type templateKey struct {
	lang Language
	typ  CodeType
}

// templates holds the template of every synthesized (language, code type)
// pair. Class code is never synthesized.
//
//nolint:gochecknoglobals
var templates = map[templateKey]template{
	{LanguageCS, CodeTypeFragment}: {
		at(slotHeader),
		lit("\n\nnamespace InlineCode\n{\n    public class "),
		at(slotName),
		lit(" : Microsoft.Build.Utilities.Task\n    {\n" +
			"        public bool Success { get; private set; } = true;\n"),
		at(slotProperties),
		lit("\n        public override bool Execute()\n        {\n            "),
		at(slotCode),
		lit("\n            return Success;\n        }\n    }\n}"),
	},
	{LanguageCS, CodeTypeMethod}: {
		at(slotHeader),
		lit("\n\nnamespace InlineCode\n{\n    public class "),
		at(slotName),
		lit(" : Microsoft.Build.Utilities.Task\n    {\n" +
			"        public bool Success { get; private set; } = true;\n"),
		at(slotProperties),
		lit("\n        "),
		at(slotCode),
		lit("\n    }\n}"),
	},
	{LanguageVB, CodeTypeFragment}: {
		at(slotHeader),
		lit("\n\nNamespace InlineCode\n    Public Class "),
		at(slotName),
		lit("\n        Inherits Microsoft.Build.Utilities.Task\n\n" +
			"        Public Property Success As Boolean = True\n"),
		at(slotProperties),
		lit("\n        Public Overrides Function Execute() As Boolean\n            "),
		at(slotCode),
		lit("\n            Return Success\n        End Function\n\n" +
			"    End Class\nEnd Namespace"),
	},
	{LanguageVB, CodeTypeMethod}: {
		at(slotHeader),
		lit("\n\nNamespace InlineCode\n    Public Class "),
		at(slotName),
		lit("\n        Inherits Microsoft.Build.Utilities.Task\n\n" +
			"        Public Property Success As Boolean = True\n"),
		at(slotProperties),
		lit("\n        "),
		at(slotCode),
		lit("\n\n    End Class\nEnd Namespace"),
	},
}

// syntax holds the language-specific spelling of generated declarations.
type syntax struct {
	imports   func(namespace string) string
	attribute func(name string) string
	property  func(name, typ string) string
}

//nolint:gochecknoglobals
var syntaxes = map[Language]syntax{
	LanguageCS: {
		imports:   func(ns string) string { return "using " + ns + ";" },
		attribute: func(name string) string { return "        [" + name + "]" },
		property: func(name, typ string) string {
			return "        public " + typ + " " + name + " { get; set; }"
		},
	},
	LanguageVB: {
		imports:   func(ns string) string { return "Imports " + ns },
		attribute: func(name string) string { return "        <" + name + ">" },
		property: func(name, typ string) string {
			return "        Public Property " + name + " As " + typ
		},
	},
}

// DefaultNamespaces are imported by every synthesized compilation unit,
// ahead of the namespaces declared in the task body.
//
//nolint:gochecknoglobals
var DefaultNamespaces = []string{
	"Microsoft.Build.Framework",
	"Microsoft.Build.Utilities",
	"System",
	"System.Collections",
	"System.Collections.Generic",
	"System.IO",
	"System.Linq",
	"System.Text",
}

const (
	outputAttribute   = "Microsoft.Build.Framework.OutputAttribute"
	requiredAttribute = "Microsoft.Build.Framework.RequiredAttribute"
)

// Synthesize returns the complete compilation unit for info.
//
// Class code is returned unchanged. Fragment and Method code is placed in a
// class named after the task, deriving from Microsoft.Build.Utilities.Task,
// which declares a Success property followed by one property per parameter
// in the given order. The result depends only on its arguments.
func Synthesize(info *TaskInfo, params []Parameter) string {
	tmpl, ok := templates[templateKey{info.CodeLanguage, info.CodeType}]
	if !ok {
		return info.SourceCode
	}

	syn := syntaxes[info.CodeLanguage]

	return tmpl.render([...]string{
		slotHeader:     header(syn, info.Namespaces),
		slotName:       info.Name,
		slotProperties: properties(syn, params),
		slotCode:       info.SourceCode,
	})
}

func header(syn syntax, namespaces Set) string {
	all := NewSet(DefaultNamespaces...)
	for ns := range namespaces.All() {
		all.Add(ns)
	}

	lines := make([]string, 0, all.Len())
	for ns := range all.All() {
		lines = append(lines, syn.imports(ns))
	}

	return strings.Join(lines, "\n")
}

func properties(syn syntax, params []Parameter) string {
	lines := make([]string, 0, len(params))

	for _, p := range params {
		if p.Output {
			lines = append(lines, syn.attribute(outputAttribute))
		}

		if p.Required {
			lines = append(lines, syn.attribute(requiredAttribute))
		}

		lines = append(lines, syn.property(p.Name, p.TypeName()))
	}

	return strings.Join(lines, "\n")
}
