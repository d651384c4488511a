package params

import (
	"errors"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/spf13/afero"

	"github.com/ardnew/codetask/pkg"
	"github.com/ardnew/codetask/task"
)

// Predefined errors (sentinel values).
var (
	ErrInvalidSpec      = task.NewError("invalid parameter spec")
	ErrDecode           = task.NewError("failed to decode parameters")
	ErrInvalidParameter = task.NewError("invalid parameter")
	ErrDuplicate        = task.NewError("duplicate parameter")
)

// Format identifies the encoding of a parameter file.
type Format int

const (
	FormatYAML Format = iota // yaml
	FormatHCL                // hcl
)

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return FormatYAML, nil
	case ".hcl":
		return FormatHCL, nil
	default:
		return 0, pkg.ErrInvalidFormat.Wrapf(
			"%q (valid extensions: .yaml, .yml, .json, .hcl)", filepath.Ext(path),
		)
	}
}

// group is the document form of a parameter file.
type group struct {
	Parameters []task.Parameter `yaml:"parameters" hcl:"parameter,block" validate:"dive"`
}

// Loader reads parameter files.
type Loader struct {
	fs afero.Fs
}

// NewLoader returns a Loader reading from fs, or from the operating system's
// file system if fs is nil.
func NewLoader(fs afero.Fs) *Loader {
	if fs == nil {
		fs = afero.NewOsFs()
	}

	return &Loader{fs: fs}
}

// Load reads and validates the parameters in the file at path.
func (l *Loader) Load(path string) ([]task.Parameter, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, pkg.ErrReadInput.Wrap(err)
	}

	params, err := Decode(format, path, data)
	if err != nil {
		return nil, err
	}

	return params, Validate(params)
}

// Decode parses data in the given format. The name is used in error
// messages only. The result is not validated.
func Decode(format Format, name string, data []byte) ([]task.Parameter, error) {
	switch format {
	case FormatHCL:
		return decodeHCL(name, data)
	default:
		return decodeYAML(name, data)
	}
}

func decodeYAML(name string, data []byte) ([]task.Parameter, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, ErrDecode.Wrap(err).With(slog.String("file", name))
	}

	if _, ok := raw.([]any); ok {
		var list []task.Parameter
		if err := yaml.Unmarshal(data, &list); err != nil {
			return nil, ErrDecode.Wrap(err).With(slog.String("file", name))
		}

		return list, nil
	}

	var g group
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, ErrDecode.Wrap(err).With(slog.String("file", name))
	}

	return g.Parameters, nil
}

func decodeHCL(name string, data []byte) ([]task.Parameter, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, name)
	if diags.HasErrors() {
		return nil, ErrDecode.Wrap(diags).With(slog.String("file", name))
	}

	var g group
	if diags := gohcl.DecodeBody(file.Body, nil, &g); diags.HasErrors() {
		return nil, ErrDecode.Wrap(diags).With(slog.String("file", name))
	}

	return g.Parameters, nil
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

//nolint:gochecknoglobals
var validate = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation("identifier", func(fl validator.FieldLevel) bool {
		return identifier.MatchString(fl.Field().String())
	})

	return v
})

// Validate checks that every parameter has a valid name and that no two
// names differ only in case.
func Validate(params []task.Parameter) error {
	if err := validate().Struct(group{Parameters: params}); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return ErrInvalidParameter.Wrap(err).With(
				slog.String("field", verrs[0].Namespace()),
				slog.String("rule", verrs[0].Tag()),
			)
		}

		return ErrInvalidParameter.Wrap(err)
	}

	seen := task.NewSet()
	for _, p := range params {
		if !seen.Add(p.Name) {
			return ErrDuplicate.With(slog.String("parameter", p.Name))
		}
	}

	return nil
}

// ParseSpec parses a parameter declared as "name[:type][:required][:output]".
// The words "required" and "output" may appear in any order after the name
// and are matched ignoring case. Any other word is the type.
func ParseSpec(spec string) (task.Parameter, error) {
	fields := strings.Split(spec, ":")

	p := task.Parameter{Name: strings.TrimSpace(fields[0])}

	for _, f := range fields[1:] {
		f = strings.TrimSpace(f)

		switch strings.ToLower(f) {
		case "required":
			p.Required = true
		case "output":
			p.Output = true
		case "":
		default:
			if p.Type != "" {
				return task.Parameter{}, ErrInvalidSpec.With(
					slog.String("spec", spec),
					slog.String("reason", "more than one type"),
				)
			}

			p.Type = f
		}
	}

	if !identifier.MatchString(p.Name) {
		return task.Parameter{}, ErrInvalidSpec.With(
			slog.String("spec", spec),
			slog.String("reason", "name is not an identifier"),
		)
	}

	return p, nil
}
