package filesystem

import (
	"context"

	"github.com/arthur-debert/alps/pkg/runner"
)

// Elevator runs a shell command with raised privileges. It is the fallback
// when a direct filesystem call fails with a permission error.
type Elevator interface {
	Run(ctx context.Context, argv []string) error
}

// CommandElevator prefixes argv with a privilege helper such as sudo and
// hands it to a runner. Elevated commands are interactive so the helper can
// prompt for a password.
type CommandElevator struct {
	Prefix []string
	Runner runner.Runner
}

// NewCommandElevator returns an elevator using prefix (for example
// []string{"sudo"}). An empty prefix yields nil, which disables elevation.
func NewCommandElevator(prefix []string, r runner.Runner) Elevator {
	if len(prefix) == 0 {
		return nil
	}
	return &CommandElevator{Prefix: prefix, Runner: r}
}

func (e *CommandElevator) Run(ctx context.Context, argv []string) error {
	full := append(append([]string{}, e.Prefix...), argv...)
	_, err := e.Runner.Run(ctx, runner.Cmd{
		Name:        full[0],
		Args:        full[1:],
		Interactive: true,
	})
	return err
}
