package task

import (
	"context"
	"log/slog"
	"strings"
)

// Member describes a property of a compiled task through which a parameter
// value is passed in or read back.
type Member struct {
	Name     string
	Type     string
	Required bool
	Output   bool
}

// Members returns the members generated for params, in order.
func Members(params []Parameter) []Member {
	members := make([]Member, 0, len(params))

	for _, p := range params {
		members = append(members, Member{
			Name:     p.Name,
			Type:     p.TypeName(),
			Required: p.Required,
			Output:   p.Output,
		})
	}

	return members
}

// Bind matches inputs to members by case-insensitive name and returns them
// keyed by member name.
//
// Every required member must have an input. Otherwise Bind returns an error
// wrapping [ErrRequiredParameter] listing all missing members, so the task
// is never run. An input naming no member returns [ErrUnknownParameter].
func Bind(members []Member, inputs map[string]any) (map[string]any, error) {
	byName := make(map[string]Member, len(members))
	for _, m := range members {
		byName[strings.ToLower(m.Name)] = m
	}

	bound := make(map[string]any, len(inputs))

	for name, value := range inputs {
		m, ok := byName[strings.ToLower(name)]
		if !ok {
			return nil, ErrUnknownParameter.With(slog.String("parameter", name))
		}

		bound[m.Name] = value
	}

	var missing []string

	for _, m := range members {
		if _, ok := bound[m.Name]; m.Required && !ok {
			missing = append(missing, m.Name)
		}
	}

	if len(missing) > 0 {
		return nil, ErrRequiredParameter.
			Wrap(missingError(missing)).
			With(slog.Any("parameters", missing))
	}

	return bound, nil
}

type missingError []string

func (e missingError) Error() string { return strings.Join(e, ", ") }

// Output is the value of an output member after the task has run.
type Output struct {
	Value any
	Name  string
}

// Outputs returns the value of every output member in declaration order.
// A member absent from values has a nil value.
func Outputs(members []Member, values map[string]any) []Output {
	byName := make(map[string]any, len(values))
	for name, v := range values {
		byName[strings.ToLower(name)] = v
	}

	var out []Output

	for _, m := range members {
		if m.Output {
			out = append(out, Output{Name: m.Name, Value: byName[strings.ToLower(m.Name)]})
		}
	}

	return out
}

// Artifact identifies the output of a [Compiler].
type Artifact struct {
	// Path is the file the compiled task was written to.
	Path string
	// Task is the name of the task class inside the artifact.
	Task string
}

// Compiler compiles the source code of a task.
//
// Diagnostics from the underlying toolchain are reported to r. The returned
// error is non-nil if no artifact was produced.
type Compiler interface {
	Compile(ctx context.Context, info *TaskInfo, r Reporter) (Artifact, error)
}

// Invoker runs a compiled task with bound inputs and returns the values of
// its members after it completes.
type Invoker interface {
	Invoke(ctx context.Context, a Artifact, inputs map[string]any) (map[string]any, error)
}

// Run binds inputs to members, invokes the task, and returns its outputs.
// The task is not invoked when binding fails.
func Run(
	ctx context.Context,
	inv Invoker,
	a Artifact,
	members []Member,
	inputs map[string]any,
) ([]Output, error) {
	bound, err := Bind(members, inputs)
	if err != nil {
		return nil, err
	}

	values, err := inv.Invoke(ctx, a, bound)
	if err != nil {
		return nil, ErrInvoke.Wrap(err).With(slog.String("task", a.Task))
	}

	return Outputs(members, values), nil
}
