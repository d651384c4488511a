package task

import "strings"

// CodeType describes how much of the task class the code in a task body
// provides.
type CodeType int

const (
	// CodeTypeFragment is a list of statements placed inside the generated
	// Execute method.
	CodeTypeFragment CodeType = iota // Fragment
	// CodeTypeMethod is one or more members placed inside the generated class.
	CodeTypeMethod // Method
	// CodeTypeClass is a complete compilation unit used as is.
	CodeTypeClass // Class
)

// CodeTypes returns every code type in declaration order.
func CodeTypes() []CodeType {
	return []CodeType{CodeTypeFragment, CodeTypeMethod, CodeTypeClass}
}

// ParseCodeType returns the code type named exactly s.
func ParseCodeType(s string) (CodeType, bool) {
	for _, t := range CodeTypes() {
		if t.String() == s {
			return t, true
		}
	}

	return CodeTypeFragment, false
}

// MarshalText implements encoding.TextMarshaler.
func (t CodeType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *CodeType) UnmarshalText(text []byte) error {
	v, ok := ParseCodeType(string(text))
	if !ok {
		return ErrInvalidDeclaration.Wrap(invalidCodeTypeError(string(text)))
	}

	*t = v

	return nil
}

func codeTypeList() string {
	names := make([]string, 0, 3)
	for _, t := range CodeTypes() {
		names = append(names, t.String())
	}

	return strings.Join(names, ", ")
}

func codeTypeSuggestion(s string) string {
	names := make([]string, 0, 3)
	for _, t := range CodeTypes() {
		names = append(names, t.String())
	}

	return suggest(s, names)
}
