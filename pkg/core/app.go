package core

import (
	"io"
	"os"

	"github.com/arthur-debert/alps/pkg/config"
	"github.com/arthur-debert/alps/pkg/edit"
	"github.com/arthur-debert/alps/pkg/filesystem"
	"github.com/arthur-debert/alps/pkg/logging"
	"github.com/arthur-debert/alps/pkg/mutation"
	"github.com/arthur-debert/alps/pkg/output"
	"github.com/arthur-debert/alps/pkg/packages"
	"github.com/arthur-debert/alps/pkg/paths"
	"github.com/arthur-debert/alps/pkg/query"
	"github.com/arthur-debert/alps/pkg/reconcile"
	"github.com/arthur-debert/alps/pkg/runner"
	"github.com/arthur-debert/alps/pkg/store"
	"github.com/arthur-debert/alps/pkg/types"
	"github.com/arthur-debert/alps/pkg/validate"
	"github.com/rs/zerolog"
)

// Options configures New. Only Config is required; the rest default to the
// real machine.
type Options struct {
	Config *config.Config

	FS       types.FS
	Runner   runner.Runner
	Packages packages.Manager
	Reporter output.Reporter

	// Stdout and Stderr back the default console reporter
	Stdout  io.Writer
	Stderr  io.Writer
	NoColor bool
}

// App holds one fully wired set of components.
type App struct {
	Config   *config.Config
	Paths    paths.Paths
	FS       types.FS
	Store    *store.Store
	Copier   *filesystem.Copier
	Runner   runner.Runner
	Packages packages.Manager
	Reporter output.Reporter

	Validator *validate.Validator
	Mutation  *mutation.Engine
	Reconcile *reconcile.Engine
	Queries   *query.Engine
	Editor    *edit.Editor

	logger zerolog.Logger
}

// New builds an App from opts and creates the root directory if needed.
func New(opts Options) (*App, error) {
	cfg := opts.Config
	p, err := paths.New(paths.Options{
		Root:            cfg.Root,
		Home:            cfg.Home,
		Placeholder:     cfg.Placeholder,
		RecordExtension: cfg.RecordExtension,
	})
	if err != nil {
		return nil, err
	}

	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	r := opts.Runner
	if r == nil {
		r = runner.New(cfg.Exec.Timeout)
	}
	manager := opts.Packages
	if manager == nil {
		manager = packages.NewCommandManager(cfg.Packages, r)
	}
	reporter := opts.Reporter
	if reporter == nil {
		stdout, stderr := opts.Stdout, opts.Stderr
		if stdout == nil {
			stdout = os.Stdout
		}
		if stderr == nil {
			stderr = os.Stderr
		}
		reporter = output.NewConsole(stdout, stderr, output.DetectColor(os.Stdout, opts.NoColor))
	}

	s := store.New(fsys, p)
	copier := filesystem.NewCopier(fsys, filesystem.NewCommandElevator(cfg.Elevate.Command, r))

	app := &App{
		Config:    cfg,
		Paths:     p,
		FS:        fsys,
		Store:     s,
		Copier:    copier,
		Runner:    r,
		Packages:  manager,
		Reporter:  reporter,
		Validator: validate.New(s, fsys, manager, reporter),
		Mutation:  mutation.New(s, copier, reporter),
		Reconcile: reconcile.New(s, copier, manager, r, reporter),
		Queries:   query.New(s, reporter),
		Editor:    edit.New(s, fsys, r, reporter, cfg.Editor),
		logger:    logging.GetLogger("core"),
	}

	if err := s.EnsureRoot(); err != nil {
		return nil, err
	}
	app.logger.Debug().Str("root", p.Root()).Str("home", p.Home()).Msg("Initialized")
	return app, nil
}
