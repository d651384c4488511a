package cmd

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/codetask/pkg"
	"github.com/ardnew/codetask/task"
)

// Info prints the resolved form of a task body.
type Info struct {
	Input `embed:""`

	Format string `default:"yaml" enum:"yaml,json" help:"Output format"                placeholder:"${enum}" short:"F"`
	Indent int    `default:"2"                     help:"Indent width (0 for compact)" short:"i"`
	Output string `                                help:"Write to file instead of stdout" placeholder:"FILE" short:"o"`
}

// infoView is the serialized form of a [task.TaskInfo].
type infoView struct {
	Name       string           `json:"name"                 yaml:"name"`
	Language   string           `json:"language"             yaml:"language"`
	Type       string           `json:"type"                 yaml:"type"`
	Namespaces []string         `json:"namespaces,omitempty" yaml:"namespaces,omitempty"`
	References []string         `json:"references,omitempty" yaml:"references,omitempty"`
	Parameters []task.Parameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Source     string           `json:"source"               yaml:"source"`
}

func makeInfoView(info *task.TaskInfo, group []task.Parameter) infoView {
	v := infoView{
		Name:       info.Name,
		Language:   info.CodeLanguage.String(),
		Type:       info.CodeType.String(),
		Namespaces: info.Namespaces.Slice(),
		References: info.References.Slice(),
		Source:     info.SourceCode,
	}

	// Class sources ignore the parameter group.
	if info.CodeType != task.CodeTypeClass {
		v.Parameters = group
	}

	return v
}

// Run executes the info command.
func (i *Info) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	info, group, err := i.load(ctx)
	if err != nil {
		return err
	}

	data, err := i.marshal(ctx, makeInfoView(info, group))
	if err != nil {
		return err
	}

	return write(ctx, i.Output, data)
}

func (i *Info) marshal(ctx context.Context, v infoView) ([]byte, error) {
	switch i.Format {
	case "json":
		var (
			data []byte
			err  error
		)

		if i.Indent > 0 {
			data, err = json.MarshalIndent(v, "", strings.Repeat(" ", i.Indent))
		} else {
			data, err = json.Marshal(v)
		}

		if err != nil {
			return nil, pkg.ErrJSONMarshal.Wrap(err)
		}

		return append(data, '\n'), nil

	case "yaml", "":
		opts := []yaml.EncodeOption{yaml.UseLiteralStyleIfMultiline(true)}
		if i.Indent > 0 {
			opts = append(opts, yaml.Indent(i.Indent))
		} else {
			opts = append(opts, yaml.Flow(true))
		}

		data, err := yaml.MarshalContext(ctx, v, opts...)
		if err != nil {
			return nil, pkg.ErrYAMLMarshal.Wrap(err)
		}

		return data, nil

	default:
		return nil, pkg.ErrInvalidFormat.Wrapf("%q (valid formats: yaml, json)", i.Format)
	}
}
