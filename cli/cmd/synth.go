package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/codetask/log"
)

// Synth prints the source code synthesized for a task body.
type Synth struct {
	Input `embed:""`

	Output string `help:"Write source to file instead of stdout" placeholder:"FILE" short:"o"`
}

// Run executes the synth command.
func (s *Synth) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	info, _, err := s.load(ctx)
	if err != nil {
		return err
	}

	err = write(ctx, s.Output, []byte(info.SourceCode))
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "source written",
		slog.String("task", info.Name),
		slog.String("output", s.Output),
	)

	return nil
}
