package task

import "strings"

// Parameter declares one property of the generated task class.
//
// Parameters come from the host's own configuration, not from the task body.
type Parameter struct {
	Name     string `json:"name"               yaml:"name"               hcl:"name,label" validate:"required,identifier"`
	Type     string `json:"type,omitempty"     yaml:"type,omitempty"     hcl:"type,optional"`
	Output   bool   `json:"output,omitempty"   yaml:"output,omitempty"   hcl:"output,optional"`
	Required bool   `json:"required,omitempty" yaml:"required,omitempty" hcl:"required,optional"`
}

const (
	typeString   = "System.String"
	typeTaskItem = "Microsoft.Build.Framework.ITaskItem"
)

// typeNames maps lower-case type tags to their fully qualified names.
//
//nolint:gochecknoglobals
var typeNames = map[string]string{
	"string":    typeString,
	"bool":      "System.Boolean",
	"boolean":   "System.Boolean",
	"char":      "System.Char",
	"byte":      "System.Byte",
	"sbyte":     "System.SByte",
	"short":     "System.Int16",
	"int16":     "System.Int16",
	"ushort":    "System.UInt16",
	"uint16":    "System.UInt16",
	"int":       "System.Int32",
	"integer":   "System.Int32",
	"int32":     "System.Int32",
	"uint":      "System.UInt32",
	"uinteger":  "System.UInt32",
	"uint32":    "System.UInt32",
	"long":      "System.Int64",
	"int64":     "System.Int64",
	"ulong":     "System.UInt64",
	"uint64":    "System.UInt64",
	"float":     "System.Single",
	"single":    "System.Single",
	"double":    "System.Double",
	"decimal":   "System.Decimal",
	"date":      "System.DateTime",
	"datetime":  "System.DateTime",
	"object":    "System.Object",
	"itaskitem": typeTaskItem,
}

// TypeName returns the fully qualified name of the parameter's type.
//
// Short names such as "string", "int" or "ITaskItem" are expanded, an array
// suffix is kept, and an empty type means System.String. Any other type is
// assumed to be qualified already and is returned unchanged.
func (p Parameter) TypeName() string {
	return QualifyType(p.Type)
}

// QualifyType expands a short type name to its fully qualified form.
func QualifyType(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return typeString
	}

	elem, array := strings.CutSuffix(tag, "[]")

	name, ok := typeNames[strings.ToLower(strings.TrimSpace(elem))]
	if !ok {
		return tag
	}

	if array {
		return name + "[]"
	}

	return name
}
