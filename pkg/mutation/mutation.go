// Package mutation applies validated candidates to groups: it creates and
// destroys group directories, declares and retracts record entries, and
// keeps the managed mirror in step with the record.
//
// Record writes come first and are authoritative. Side effects on the
// filesystem are best effort: a failed copy or delete is reported for its
// entry and the batch carries on. Only a record that cannot be read or
// written stops the batch, since nothing after it could be trusted.
package mutation

import (
	"context"

	"github.com/arthur-debert/alps/pkg/filesystem"
	"github.com/arthur-debert/alps/pkg/logging"
	"github.com/arthur-debert/alps/pkg/output"
	"github.com/arthur-debert/alps/pkg/paths"
	"github.com/arthur-debert/alps/pkg/record"
	"github.com/arthur-debert/alps/pkg/store"
	"github.com/arthur-debert/alps/pkg/types"
	"github.com/arthur-debert/alps/pkg/validate"
	"github.com/rs/zerolog"
)

// Outcome is what happened to one candidate.
type Outcome struct {
	Kind  types.Kind
	Group string
	// Entry is the record line written or removed. For groups it is the
	// group name.
	Entry string
	// Err is set when the entry's side effect failed. The record write, if
	// any, still stands.
	Err error
}

// Result collects the outcomes of one batch.
type Result struct {
	Outcomes []Outcome
}

// Applied returns the entries whose mutation fully succeeded.
func (r *Result) Applied() []string {
	var out []string
	for _, o := range r.Outcomes {
		if o.Err == nil {
			out = append(out, o.Entry)
		}
	}
	return out
}

// Failed returns the outcomes with a side effect error.
func (r *Result) Failed() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			out = append(out, o)
		}
	}
	return out
}

func (r *Result) add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
}

// Engine mutates groups.
type Engine struct {
	store    *store.Store
	paths    paths.Paths
	copier   *filesystem.Copier
	reporter output.Reporter
	logger   zerolog.Logger
}

// New creates an Engine.
func New(s *store.Store, copier *filesystem.Copier, reporter output.Reporter) *Engine {
	return &Engine{
		store:    s,
		paths:    s.Paths(),
		copier:   copier,
		reporter: reporter,
		logger:   logging.GetLogger("mutation"),
	}
}

// InstallGroups creates a directory and empty record per name.
func (e *Engine) InstallGroups(names []string) *Result {
	res := &Result{}
	for _, name := range names {
		o := Outcome{Kind: types.KindGroup, Group: name, Entry: name}
		if err := e.store.CreateGroup(name); err != nil {
			o.Err = err
			e.reporter.Report(output.Warning, "Failed to create group (%s)!", name)
		} else {
			e.reporter.Report(output.Added, "Created group (%s)...", name)
		}
		res.add(o)
	}
	return res
}

// RemoveGroups deletes each group with its record and mirror.
func (e *Engine) RemoveGroups(names []string) *Result {
	res := &Result{}
	for _, name := range names {
		o := Outcome{Kind: types.KindGroup, Group: name, Entry: name}
		if err := e.store.RemoveGroup(name); err != nil {
			o.Err = err
			e.reporter.Report(output.Warning, "Failed to remove group (%s)!", name)
		} else {
			e.reporter.Report(output.Removed, "Removed group (%s)...", name)
		}
		res.add(o)
	}
	return res
}

// Install declares candidates of kind in group.
func (e *Engine) Install(ctx context.Context, group string, kind types.Kind, candidates []validate.Candidate) (*Result, error) {
	switch kind {
	case types.KindConfig:
		return e.installConfigs(ctx, group, candidates)
	case types.KindScript:
		return e.installScripts(ctx, group, candidates)
	default:
		return e.installPackages(group, candidates)
	}
}

// Remove retracts candidates of kind from group.
func (e *Engine) Remove(ctx context.Context, group string, kind types.Kind, candidates []validate.Candidate) (*Result, error) {
	res := &Result{}
	label := record.LabelFor(kind)
	for _, c := range candidates {
		if _, err := e.store.WriteEntry(group, label, c.Entry, false); err != nil {
			return res, err
		}

		o := Outcome{Kind: kind, Group: group, Entry: c.Entry}
		switch kind {
		case types.KindConfig:
			// The mirror stays so a later sync can restore the config.
			target := e.paths.Detemplate(record.ParseConfigEntry(c.Entry).Path)
			o.Err = e.copier.RemoveTree(ctx, target)
		case types.KindScript:
			o.Err = e.copier.RemoveTree(ctx, e.paths.ScriptMirrorPath(group, c.Entry))
		}

		name := c.Entry
		if kind == types.KindConfig {
			name = record.ParseConfigEntry(c.Entry).MirrorName()
		}
		if o.Err != nil {
			e.logger.Warn().Err(o.Err).Str("group", group).Str("entry", c.Entry).Msg("Side effect of removal failed")
			e.reporter.Report(output.Warning, "Failed to delete %s (%s)!", kind, name)
		}
		e.reporter.Report(output.Removed, "Removed %s/%s/%s...", group, label.Name(), name)
		res.add(o)
	}
	return res, nil
}

func (e *Engine) installPackages(group string, candidates []validate.Candidate) (*Result, error) {
	res := &Result{}
	for _, c := range candidates {
		if _, err := e.store.WriteEntry(group, record.Packages, c.Entry, true); err != nil {
			return res, err
		}
		e.reporter.Report(output.Added, "Installed %s/%s/%s", group, record.Packages.Name(), c.Entry)
		res.add(Outcome{Kind: types.KindPackage, Group: group, Entry: c.Entry})
	}
	return res, nil
}

func (e *Engine) installConfigs(ctx context.Context, group string, candidates []validate.Candidate) (*Result, error) {
	res := &Result{}
	for _, c := range candidates {
		recorded, err := e.store.ReadSection(record.Configs, group)
		if err != nil {
			return res, err
		}
		taken := func(name string) bool {
			if e.copier.Exists(e.paths.ConfigMirrorPath(group, name)) {
				return true
			}
			for _, r := range recorded {
				if record.ParseConfigEntry(r).MirrorName() == name {
					return true
				}
			}
			return false
		}
		entry := record.NewConfigEntry(c.Entry, taken)
		mirror := e.paths.ConfigMirrorPath(group, entry.MirrorName())

		// Content first: an entry is only declared once its mirror exists.
		if err := e.copier.CopyTree(ctx, c.Source, mirror); err != nil {
			e.logger.Warn().Err(err).Str("source", c.Source).Str("mirror", mirror).Msg("Mirroring config failed")
			e.reporter.Report(output.Warning, "Failed to copy config (%s)!", c.Arg)
			res.add(Outcome{Kind: types.KindConfig, Group: group, Entry: entry.String(), Err: err})
			continue
		}
		if _, err := e.store.WriteEntry(group, record.Configs, entry.String(), true); err != nil {
			return res, err
		}
		e.reporter.Report(output.Added, "Installed %s/%s/%s", group, record.Configs.Name(), entry.MirrorName())
		res.add(Outcome{Kind: types.KindConfig, Group: group, Entry: entry.String()})
	}
	return res, nil
}

func (e *Engine) installScripts(ctx context.Context, group string, candidates []validate.Candidate) (*Result, error) {
	res := &Result{}
	for _, c := range candidates {
		mirror := e.paths.ScriptMirrorPath(group, c.Entry)
		if err := e.copier.CopyTree(ctx, c.Source, mirror); err != nil {
			e.logger.Warn().Err(err).Str("source", c.Source).Str("mirror", mirror).Msg("Mirroring script failed")
			e.reporter.Report(output.Warning, "Failed to copy script (%s)!", c.Arg)
			res.add(Outcome{Kind: types.KindScript, Group: group, Entry: c.Entry, Err: err})
			continue
		}
		if _, err := e.store.WriteEntry(group, record.Scripts, c.Entry, true); err != nil {
			return res, err
		}
		e.reporter.Report(output.Added, "Installed %s/%s/%s", group, record.Scripts.Name(), c.Entry)
		res.add(Outcome{Kind: types.KindScript, Group: group, Entry: c.Entry})
	}
	return res, nil
}
