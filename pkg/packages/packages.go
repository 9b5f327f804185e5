// Package packages talks to the system package manager through argument
// templates from the configuration, so alps is not tied to pacman.
package packages

import (
	"context"
	"strings"

	"github.com/arthur-debert/alps/pkg/config"
	"github.com/arthur-debert/alps/pkg/errors"
	"github.com/arthur-debert/alps/pkg/logging"
	"github.com/arthur-debert/alps/pkg/runner"
	"github.com/rs/zerolog"
)

const (
	// NamePlaceholder inside an argument is replaced by one package name
	NamePlaceholder = "{}"
	// NamesPlaceholder as a whole argument expands to every package name
	NamesPlaceholder = "{...}"
)

// Manager answers questions about packages and installs them.
type Manager interface {
	// Exists reports whether the upstream index knows name.
	Exists(ctx context.Context, name string) (bool, error)
	// Installed reports whether name is installed on this machine.
	Installed(ctx context.Context, name string) (bool, error)
	// Install installs all names in one privileged batch.
	Install(ctx context.Context, names []string) error
}

// CommandManager implements Manager by running configured commands.
type CommandManager struct {
	search  []string
	query   []string
	install []string
	runner  runner.Runner
	logger  zerolog.Logger
}

// NewCommandManager builds a manager from the packages config section.
func NewCommandManager(cfg config.Packages, r runner.Runner) *CommandManager {
	return &CommandManager{
		search:  cfg.Search,
		query:   cfg.Query,
		install: cfg.Install,
		runner:  r,
		logger:  logging.GetLogger("packages"),
	}
}

func (m *CommandManager) Exists(ctx context.Context, name string) (bool, error) {
	return m.probe(ctx, m.search, name)
}

func (m *CommandManager) Installed(ctx context.Context, name string) (bool, error) {
	return m.probe(ctx, m.query, name)
}

// probe runs a query command: exit 0 means yes, any other exit means no.
func (m *CommandManager) probe(ctx context.Context, template []string, name string) (bool, error) {
	argv := Expand(template, []string{name})
	_, err := m.runner.Run(ctx, runner.Cmd{Name: argv[0], Args: argv[1:]})
	switch {
	case err == nil:
		return true, nil
	case runner.IsExitError(err):
		m.logger.Trace().Str("package", name).Strs("argv", argv).Msg("Probe answered no")
		return false, nil
	default:
		return false, errors.Wrapf(err, errors.ErrExternalCommand, "command (%s) failed to run", argv[0]).
			WithDetail("argv", argv)
	}
}

func (m *CommandManager) Install(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}
	argv := Expand(m.install, names)
	m.logger.Info().Strs("packages", names).Msg("Installing packages")
	if _, err := m.runner.Run(ctx, runner.Cmd{Name: argv[0], Args: argv[1:], Interactive: true}); err != nil {
		return errors.Wrapf(err, errors.ErrExternalCommand, "failed to install %s", strings.Join(names, ", ")).
			WithDetail("argv", argv)
	}
	return nil
}

// Expand fills a command template. "{...}" as a whole argument becomes all
// names; "{}" inside an argument becomes the first name. A template with
// neither gets the names appended.
func Expand(template []string, names []string) []string {
	argv := make([]string, 0, len(template)+len(names))
	used := false
	for _, arg := range template {
		switch {
		case arg == NamesPlaceholder:
			argv = append(argv, names...)
			used = true
		case strings.Contains(arg, NamePlaceholder) && len(names) > 0:
			argv = append(argv, strings.ReplaceAll(arg, NamePlaceholder, names[0]))
			used = true
		default:
			argv = append(argv, arg)
		}
	}
	if !used {
		argv = append(argv, names...)
	}
	return argv
}
