package task

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

// Element and attribute names recognized in a task body.
const (
	elemTask      = "Task"
	elemCode      = "Code"
	elemReference = "Reference"
	elemUsing     = "Using"
	elemText      = "Text"

	attrLanguage  = "Language"
	attrType      = "Type"
	attrSource    = "Source"
	attrInclude   = "Include"
	attrNamespace = "Namespace"
)

// errMultipleRoots is reported when the body closes the synthetic root
// element and opens another.
var errMultipleRoots = errors.New("XML syntax error: multiple root elements")

// errDeclaration is reported for an XML declaration inside the body, which
// always follows the start of the synthetic root element.
var errDeclaration = errors.New("XML syntax error: unexpected XML declaration")

// Attribute is an optional XML attribute. Present distinguishes an attribute
// set to the empty string from one that is absent.
type Attribute struct {
	Value   string
	Present bool
}

// Blank reports whether the attribute is present but holds only whitespace.
func (a Attribute) Blank() bool {
	return a.Present && strings.TrimSpace(a.Value) == ""
}

// CodeElement holds the <Code> element of a task body.
type CodeElement struct {
	Language Attribute
	Type     Attribute
	Source   Attribute
	// Text is the concatenation of all character data in the element,
	// including CDATA sections, exactly as written.
	Text string
}

// Declaration is the parsed form of a task body.
type Declaration struct {
	// Code is nil when the body has no <Code> element.
	Code       *CodeElement
	Name       string
	References Set
	Namespaces Set
}

// Parse reads the body of the task called name.
//
// The body must be well-formed XML once wrapped in a <Task> element, so it
// cannot hold an XML declaration. Every top-level element must be <Code>,
// <Reference> or <Using>, and comments, other processing instructions and
// whitespace are ignored. At most one <Code>
// element may appear, and the Include and Namespace attributes must not be
// blank. Values of both are trimmed and collected into case-insensitive sets.
//
// Parse returns the first violation found in document order.
func Parse(name, body string) (*Declaration, *Diagnostic) {
	toks, err := tokenize(body)
	if err != nil {
		return nil, invalidXMLError(err)
	}

	decl := &Declaration{Name: name}

	// toks[0] is the synthetic root element.
	for i := 1; i < len(toks); i++ {
		switch tok := toks[i].(type) {
		case xml.StartElement:
			end := matchingEnd(toks, i)
			if d := decl.add(tok, toks[i+1:end]); d != nil {
				return nil, d
			}

			i = end

		case xml.EndElement:
			// Closing the synthetic root, anything meaningful after it means
			// the body closed the root itself.
			for _, rest := range toks[i+1:] {
				if !ignorable(rest) {
					return nil, invalidXMLError(errMultipleRoots)
				}
			}

			return decl, nil

		default:
			if !ignorable(tok) {
				return nil, invalidElementError(elemText)
			}
		}
	}

	return decl, nil
}

// add accumulates one top-level element.
func (d *Declaration) add(start xml.StartElement, content []xml.Token) *Diagnostic {
	if start.Name.Space != "" {
		return invalidElementError(start.Name.Space + ":" + start.Name.Local)
	}

	switch start.Name.Local {
	case elemCode:
		if d.Code != nil {
			return multipleCodeError()
		}

		d.Code = &CodeElement{
			Language: attribute(start, attrLanguage),
			Type:     attribute(start, attrType),
			Source:   attribute(start, attrSource),
			Text:     charData(content),
		}

	case elemReference:
		include := attribute(start, attrInclude)
		if strings.TrimSpace(include.Value) == "" {
			return emptyAttributeError(attrInclude, elemReference)
		}

		d.References.Add(strings.TrimSpace(include.Value))

	case elemUsing:
		namespace := attribute(start, attrNamespace)
		if strings.TrimSpace(namespace.Value) == "" {
			return emptyAttributeError(attrNamespace, elemUsing)
		}

		d.Namespaces.Add(strings.TrimSpace(namespace.Value))

	default:
		return invalidElementError(start.Name.Local)
	}

	return nil
}

// tokenize decodes the whole body before any validation so that malformed
// markup is always reported first.
func tokenize(body string) ([]xml.Token, error) {
	dec := xml.NewDecoder(strings.NewReader(
		"<" + elemTask + ">" + body + "</" + elemTask + ">",
	))

	var toks []xml.Token

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return toks, nil
		}

		if err != nil {
			return nil, err
		}

		if pi, ok := tok.(xml.ProcInst); ok && strings.EqualFold(pi.Target, "xml") {
			return nil, errDeclaration
		}

		toks = append(toks, xml.CopyToken(tok))
	}
}

// matchingEnd returns the index of the end element closing toks[start].
func matchingEnd(toks []xml.Token, start int) int {
	depth := 0

	for i := start; i < len(toks); i++ {
		switch toks[i].(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return len(toks) - 1
}

// ignorable reports whether tok is a comment, a processing instruction, or
// text made only of XML whitespace.
func ignorable(tok xml.Token) bool {
	switch t := tok.(type) {
	case xml.Comment, xml.ProcInst:
		return true
	case xml.CharData:
		return strings.Trim(string(t), " \t\r\n") == ""
	default:
		return false
	}
}

func attribute(start xml.StartElement, name string) Attribute {
	for _, a := range start.Attr {
		if a.Name.Space == "" && a.Name.Local == name {
			return Attribute{Value: a.Value, Present: true}
		}
	}

	return Attribute{}
}

func charData(toks []xml.Token) string {
	var sb strings.Builder

	for _, tok := range toks {
		if cd, ok := tok.(xml.CharData); ok {
			sb.Write(cd)
		}
	}

	return sb.String()
}

// Validate checks the <Code> element of a parsed declaration.
//
// Checks run in a fixed order and the first failure is returned: the element
// must exist, then Language must be non-blank and name a supported language,
// then Type must be non-blank and name a code type, then Source must be
// non-blank, and finally there must be either a Source or inline code.
func Validate(decl *Declaration) *Diagnostic {
	if decl.Code == nil {
		return missingCodeError(decl.Name)
	}

	code := decl.Code

	if code.Language.Present {
		if code.Language.Blank() {
			return emptyAttributeError(attrLanguage, elemCode)
		}

		if _, ok := ParseLanguage(code.Language.Value); !ok {
			return invalidLanguageError(code.Language.Value)
		}
	}

	if code.Type.Present {
		if code.Type.Blank() {
			return emptyAttributeError(attrType, elemCode)
		}

		if _, ok := ParseCodeType(strings.TrimSpace(code.Type.Value)); !ok {
			return invalidCodeTypeError(code.Type.Value)
		}
	}

	if code.Source.Blank() {
		return emptyAttributeError(attrSource, elemCode)
	}

	if !code.Source.Present && strings.TrimSpace(code.Text) == "" {
		return noSourceCodeError()
	}

	return nil
}
