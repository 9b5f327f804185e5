package core

import (
	"context"

	"github.com/arthur-debert/alps/pkg/errors"
	"github.com/arthur-debert/alps/pkg/mutation"
	"github.com/arthur-debert/alps/pkg/output"
	"github.com/arthur-debert/alps/pkg/types"
	"github.com/arthur-debert/alps/pkg/validate"
)

// splitGroup separates the leading group argument of a per-kind command.
// With needEntries set, at least one entry must follow.
func (a *App) splitGroup(args []string, needEntries bool) (string, []string, error) {
	if len(args) == 0 {
		return "", nil, errors.New(errors.ErrMissingGroup, "Expected group!")
	}
	group, rest := args[0], args[1:]
	if err := a.Validator.RequireGroup(group); err != nil {
		return "", nil, err
	}
	if needEntries && len(rest) == 0 {
		return "", nil, errors.New(errors.ErrMissingArguments, "Expected arguments!")
	}
	return group, rest, nil
}

func requireArgs(args []string) error {
	if len(args) == 0 {
		return errors.New(errors.ErrMissingArguments, "Expected arguments!")
	}
	return nil
}

func (a *App) validate(ctx context.Context, group string, kind types.Kind, args []string, dir types.Direction) (*validate.Result, error) {
	switch kind {
	case types.KindPackage:
		return a.Validator.Packages(ctx, group, args, dir)
	case types.KindConfig:
		return a.Validator.Configs(group, args, dir)
	case types.KindScript:
		return a.Validator.Scripts(group, args, dir)
	default:
		return a.Validator.Groups(args, dir), nil
	}
}

// Install adds groups, or entries of kind to the group named by args[0].
func (a *App) Install(ctx context.Context, kind types.Kind, args []string) (*mutation.Result, error) {
	a.logger.Debug().Str("kind", string(kind)).Strs("args", args).Msg("Install")

	if kind == types.KindGroup {
		if err := requireArgs(args); err != nil {
			return nil, err
		}
		valid := a.Validator.Groups(args, types.Add)
		return a.Mutation.InstallGroups(valid.Entries()), nil
	}

	group, rest, err := a.splitGroup(args, true)
	if err != nil {
		return nil, err
	}
	valid, err := a.validate(ctx, group, kind, rest, types.Add)
	if err != nil {
		return nil, err
	}
	res, err := a.Mutation.Install(ctx, group, kind, valid.Valid)
	if err != nil {
		return res, err
	}
	a.Reporter.Report(output.Plain, "Installed (%d/%d) %s...", len(res.Applied()), len(rest), kind.Plural())
	return res, nil
}

// Remove deletes groups, or entries of kind from the group named by
// args[0].
func (a *App) Remove(ctx context.Context, kind types.Kind, args []string) (*mutation.Result, error) {
	a.logger.Debug().Str("kind", string(kind)).Strs("args", args).Msg("Remove")

	if kind == types.KindGroup {
		if err := requireArgs(args); err != nil {
			return nil, err
		}
		valid := a.Validator.Groups(args, types.Remove)
		return a.Mutation.RemoveGroups(valid.Entries()), nil
	}

	group, rest, err := a.splitGroup(args, true)
	if err != nil {
		return nil, err
	}
	valid, err := a.validate(ctx, group, kind, rest, types.Remove)
	if err != nil {
		return nil, err
	}
	res, err := a.Mutation.Remove(ctx, group, kind, valid.Valid)
	if err != nil {
		return res, err
	}
	a.Reporter.Report(output.Plain, "Removed (%d/%d) %s...", len(res.Outcomes), len(rest), kind.Plural())
	return res, nil
}

// ValidGroups filters names down to existing groups without changing
// anything. The CLI uses it to confirm before a destructive remove.
func (a *App) ValidGroups(names []string) []string {
	var out []string
	for _, n := range names {
		if a.Store.GroupExists(n) {
			out = append(out, n)
		}
	}
	return out
}

// Sync reconciles the group named by args[0]. KindGroup runs every pass.
func (a *App) Sync(ctx context.Context, kind types.Kind, args []string) error {
	group, _, err := a.splitGroup(args, false)
	if err != nil {
		return err
	}
	a.logger.Info().Str("group", group).Str("kind", string(kind)).Msg("Sync")
	if _, err := a.Reconcile.Sync(ctx, group, kind); err != nil {
		return errors.Wrapf(err, errors.GetErrorCode(err), "Failed to sync group (%s)!", group)
	}
	return nil
}

// Query lists or looks up groups or entries. Named lookups that miss
// yield an ErrQueryMiss error carrying the miss count.
func (a *App) Query(kind types.Kind, args []string) error {
	var missing int
	if kind == types.KindGroup {
		res, err := a.Queries.Groups(args)
		if err != nil {
			return err
		}
		missing = len(res.Missing)
	} else {
		group, rest, err := a.splitGroup(args, false)
		if err != nil {
			return err
		}
		res, err := a.Queries.Entries(group, kind, rest)
		if err != nil {
			return err
		}
		missing = len(res.Missing)
	}
	if missing > 0 {
		return errors.QueryMiss(missing)
	}
	return nil
}

// Edit opens group records, configs or scripts in the editor.
func (a *App) Edit(ctx context.Context, kind types.Kind, args []string) error {
	if kind == types.KindPackage {
		return errors.New(errors.ErrInvalidFlag, "Packages cannot be edited!")
	}
	if kind == types.KindGroup {
		if err := requireArgs(args); err != nil {
			return err
		}
		return a.Editor.Groups(ctx, args)
	}
	group, rest, err := a.splitGroup(args, true)
	if err != nil {
		return err
	}
	return a.Editor.Entries(ctx, group, kind, rest)
}
