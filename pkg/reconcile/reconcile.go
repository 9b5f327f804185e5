// Package reconcile brings the machine in line with a group's record.
//
// There are three passes, one per section. Each entry ends in exactly one
// State. Entries whose content is gone (a package dropped from the
// repository, a deleted mirror) are pruned from the record so the next
// sync starts from a consistent declaration. Every pass recomputes from
// scratch, so running sync twice is safe.
package reconcile

import (
	"context"
	stderrors "errors"

	"github.com/arthur-debert/alps/pkg/errors"
	"github.com/arthur-debert/alps/pkg/filesystem"
	"github.com/arthur-debert/alps/pkg/logging"
	"github.com/arthur-debert/alps/pkg/output"
	"github.com/arthur-debert/alps/pkg/packages"
	"github.com/arthur-debert/alps/pkg/paths"
	"github.com/arthur-debert/alps/pkg/record"
	"github.com/arthur-debert/alps/pkg/runner"
	"github.com/arthur-debert/alps/pkg/store"
	"github.com/arthur-debert/alps/pkg/types"
	"github.com/rs/zerolog"
)

// State is where a declared entry ended up after a pass.
type State int

const (
	AlreadySatisfied State = iota
	Applied
	Pruned
	Failed
)

var stateNames = map[State]string{
	AlreadySatisfied: "already satisfied",
	Applied:          "applied",
	Pruned:           "pruned",
	Failed:           "failed",
}

func (s State) String() string {
	return stateNames[s]
}

// Outcome is the result for one declared entry.
type Outcome struct {
	Entry string
	State State
	Err   error
}

// Report summarizes one pass over one section.
type Report struct {
	Kind     types.Kind
	Group    string
	Outcomes []Outcome
}

// Total is the number of declared entries the pass saw.
func (r *Report) Total() int {
	return len(r.Outcomes)
}

// Count returns how many entries ended in state.
func (r *Report) Count(state State) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.State == state {
			n++
		}
	}
	return n
}

// Entries returns the entries that ended in state.
func (r *Report) Entries(state State) []string {
	var out []string
	for _, o := range r.Outcomes {
		if o.State == state {
			out = append(out, o.Entry)
		}
	}
	return out
}

func (r *Report) add(entry string, state State, err error) {
	r.Outcomes = append(r.Outcomes, Outcome{Entry: entry, State: state, Err: err})
}

// Engine runs sync passes.
type Engine struct {
	store    *store.Store
	paths    paths.Paths
	copier   *filesystem.Copier
	manager  packages.Manager
	runner   runner.Runner
	reporter output.Reporter
	logger   zerolog.Logger
}

// New creates an Engine.
func New(s *store.Store, copier *filesystem.Copier, manager packages.Manager, r runner.Runner, reporter output.Reporter) *Engine {
	return &Engine{
		store:    s,
		paths:    s.Paths(),
		copier:   copier,
		manager:  manager,
		runner:   r,
		reporter: reporter,
		logger:   logging.GetLogger("reconcile"),
	}
}

// Sync runs the pass for kind, or all three passes for KindGroup.
func (e *Engine) Sync(ctx context.Context, group string, kind types.Kind) ([]*Report, error) {
	switch kind {
	case types.KindGroup:
		return e.All(ctx, group)
	case types.KindConfig:
		r, err := e.Configs(ctx, group)
		return []*Report{r}, err
	case types.KindScript:
		r, err := e.Scripts(ctx, group)
		return []*Report{r}, err
	default:
		r, err := e.Packages(ctx, group)
		return []*Report{r}, err
	}
}

// All runs the package, config and script passes in that order. A failing
// pass does not stop the ones after it; the errors are joined.
func (e *Engine) All(ctx context.Context, group string) ([]*Report, error) {
	passes := []func(context.Context, string) (*Report, error){e.Packages, e.Configs, e.Scripts}
	var reports []*Report
	var errs []error
	for _, pass := range passes {
		r, err := pass(ctx, group)
		if r != nil {
			reports = append(reports, r)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return reports, stderrors.Join(errs...)
}

// begin loads a section and prints the pass header. It returns nil entries
// when there is nothing to do.
func (e *Engine) begin(group string, label record.Label) ([]string, error) {
	entries, err := e.store.ReadSection(label, group)
	if err != nil {
		return nil, err
	}
	e.reporter.Report(output.Header, "Syncing %s of group (%s)", label.Name(), group)
	if len(entries) == 0 {
		e.reporter.Report(output.Warning, "No %s to sync in group (%s)", label.Name(), group)
	}
	return entries, nil
}

func (e *Engine) prune(group string, label record.Label, entry string) error {
	_, err := e.store.WriteEntry(group, label, entry, false)
	if err == nil {
		e.logger.Info().Str("group", group).Str("section", label.Name()).Str("entry", entry).Msg("Pruned entry")
	}
	return err
}

// Packages installs declared packages that are missing from the system in
// one batch. Packages the repository no longer knows are pruned once the
// batch outcome is known.
func (e *Engine) Packages(ctx context.Context, group string) (*Report, error) {
	report := &Report{Kind: types.KindPackage, Group: group}
	entries, err := e.begin(group, record.Packages)
	if err != nil || len(entries) == 0 {
		return report, err
	}

	var pending, missing []string
	for _, name := range entries {
		installed, err := e.manager.Installed(ctx, name)
		if err != nil {
			e.reporter.Report(output.Warning, "Failed to query package (%s)!", name)
			report.add(name, Failed, err)
			continue
		}
		if installed {
			e.reporter.Report(output.Warning, "Package (%s) already installed to system!", name)
			report.add(name, AlreadySatisfied, nil)
			continue
		}

		exists, err := e.manager.Exists(ctx, name)
		switch {
		case err != nil:
			e.reporter.Report(output.Warning, "Failed to search for package (%s)!", name)
			report.add(name, Failed, err)
		case !exists:
			e.reporter.Report(output.Warning, "Package (%s) does not exist in repository!", name)
			missing = append(missing, name)
		default:
			e.reporter.Report(output.Installing, "Installing package (%s) to system...", name)
			pending = append(pending, name)
		}
	}

	var batchErr error
	if len(pending) > 0 {
		if err := e.manager.Install(ctx, pending); err != nil {
			e.reporter.Report(output.Fatal, "Failed to sync packages!")
			batchErr = errors.Wrapf(err, errors.ErrExternalCommand, "failed to sync packages of group %s", group)
			for _, name := range pending {
				report.add(name, Failed, err)
			}
		} else {
			for _, name := range pending {
				report.add(name, Applied, nil)
			}
		}
	}

	for _, name := range missing {
		if err := e.prune(group, record.Packages, name); err != nil {
			return report, err
		}
		report.add(name, Pruned, errors.Newf(errors.ErrUpstreamNotFound, "package %s not in repository", name))
	}

	e.reporter.Report(output.Synced, "Synced (%d/%d) packages...", report.Count(Applied), report.Total())
	return report, batchErr
}

// Configs copies every mirrored config back to its original location.
func (e *Engine) Configs(ctx context.Context, group string) (*Report, error) {
	report := &Report{Kind: types.KindConfig, Group: group}
	entries, err := e.begin(group, record.Configs)
	if err != nil || len(entries) == 0 {
		return report, err
	}

	for _, entry := range entries {
		ce := record.ParseConfigEntry(entry)
		name := ce.MirrorName()
		mirror := e.paths.ConfigMirrorPath(group, name)

		if !e.copier.Exists(mirror) {
			e.reporter.Report(output.Warning, "Contents of config (%s) do not exist!", name)
			if err := e.prune(group, record.Configs, entry); err != nil {
				return report, err
			}
			report.add(entry, Pruned, errors.Newf(errors.ErrContentMissing, "mirror %s is missing", mirror))
			continue
		}

		target := e.paths.Detemplate(ce.Path)
		if err := e.copier.CopyTree(ctx, mirror, target); err != nil {
			e.logger.Warn().Err(err).Str("mirror", mirror).Str("target", target).Msg("Config sync failed")
			e.reporter.Report(output.Warning, "Failed to sync config (%s)!", name)
			report.add(entry, Failed, err)
			continue
		}
		e.reporter.Report(output.Synced, "Synced config (%s)!", name)
		report.add(entry, Applied, nil)
	}

	e.reporter.Report(output.Synced, "Synced (%d/%d) configs...", report.Count(Applied), report.Total())
	return report, nil
}

// Scripts runs every mirrored script with no arguments.
func (e *Engine) Scripts(ctx context.Context, group string) (*Report, error) {
	report := &Report{Kind: types.KindScript, Group: group}
	entries, err := e.begin(group, record.Scripts)
	if err != nil || len(entries) == 0 {
		return report, err
	}

	for _, name := range entries {
		mirror := e.paths.ScriptMirrorPath(group, name)

		if !e.copier.Exists(mirror) {
			e.reporter.Report(output.Warning, "Contents of script (%s) do not exist!", name)
			if err := e.prune(group, record.Scripts, name); err != nil {
				return report, err
			}
			report.add(name, Pruned, errors.Newf(errors.ErrContentMissing, "script %s is missing", name))
			continue
		}

		// A mirror that exists but cannot be started (a missing shebang
		// interpreter, say) is a failure, not missing content.
		if _, runErr := e.runner.Run(ctx, runner.Cmd{Name: mirror, Interactive: true}); runErr != nil {
			e.logger.Warn().Err(runErr).Str("script", mirror).Msg("Script failed")
			e.reporter.Report(output.Warning, "Script (%s) failed to exit successfully!", name)
			report.add(name, Failed, errors.Wrapf(runErr, errors.ErrExternalCommand, "script %s failed", name))
			continue
		}
		e.reporter.Report(output.Synced, "Successfully ran script (%s)...", name)
		report.add(name, Applied, nil)
	}

	e.reporter.Report(output.Synced, "Synced (%d/%d) scripts...", report.Count(Applied), report.Total())
	return report, nil
}
