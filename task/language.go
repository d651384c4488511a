package task

//go:generate go tool stringer --linecomment --type Language,CodeType --output enum_string.go

import "strings"

// Language identifies the language of the code in a task body.
type Language int

// Supported languages, in the order they are listed in diagnostics.
const (
	LanguageCS Language = iota // CS
	LanguageVB                 // VB
)

// DefaultLanguage is used when the <Code> element has no Language attribute.
const DefaultLanguage = LanguageCS

// languageAliases maps each language to the names accepted for it.
// Matching is case-insensitive and ignores surrounding whitespace.
//
//nolint:gochecknoglobals
var languageAliases = [...][]string{
	LanguageCS: {"CS", "CSharp", "C#"},
	LanguageVB: {"VB", "VisualBasic", "Visual Basic"},
}

// Languages returns every supported language in diagnostic order.
func Languages() []Language {
	return []Language{LanguageCS, LanguageVB}
}

// ParseLanguage returns the language named by s, which may be any of the
// language's aliases.
func ParseLanguage(s string) (Language, bool) {
	s = strings.TrimSpace(s)

	for _, l := range Languages() {
		for _, alias := range languageAliases[l] {
			if strings.EqualFold(alias, s) {
				return l, true
			}
		}
	}

	return DefaultLanguage, false
}

// MarshalText implements encoding.TextMarshaler.
func (l Language) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Language) UnmarshalText(text []byte) error {
	v, ok := ParseLanguage(string(text))
	if !ok {
		return ErrInvalidDeclaration.Wrap(
			invalidLanguageError(string(text)),
		)
	}

	*l = v

	return nil
}

func languageList() string {
	names := make([]string, 0, len(languageAliases))
	for _, l := range Languages() {
		names = append(names, l.String())
	}

	return strings.Join(names, ", ")
}

// languageSuggestion returns the closest alias to s, if any.
func languageSuggestion(s string) string {
	var aliases []string
	for _, l := range Languages() {
		aliases = append(aliases, languageAliases[l]...)
	}

	return suggest(strings.TrimSpace(s), aliases)
}
