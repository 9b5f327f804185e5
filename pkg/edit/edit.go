// Package edit opens group records and mirrored files in the user's
// editor.
package edit

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/alps/pkg/errors"
	"github.com/arthur-debert/alps/pkg/logging"
	"github.com/arthur-debert/alps/pkg/output"
	"github.com/arthur-debert/alps/pkg/paths"
	"github.com/arthur-debert/alps/pkg/record"
	"github.com/arthur-debert/alps/pkg/runner"
	"github.com/arthur-debert/alps/pkg/store"
	"github.com/arthur-debert/alps/pkg/types"
	"github.com/rs/zerolog"
)

// ErrNoEditor is the message of the error returned when no editor is
// configured.
const ErrNoEditor = "Editor not found! Set environment variable EDITOR to continue..."

// Editor runs the configured editor on alps files.
type Editor struct {
	store    *store.Store
	paths    paths.Paths
	fs       types.FS
	runner   runner.Runner
	reporter output.Reporter
	command  []string
	logger   zerolog.Logger
}

// New creates an Editor. command is split on whitespace, so an editor with
// flags such as "code --wait" works.
func New(s *store.Store, fsys types.FS, r runner.Runner, reporter output.Reporter, command string) *Editor {
	return &Editor{
		store:    s,
		paths:    s.Paths(),
		fs:       fsys,
		runner:   r,
		reporter: reporter,
		command:  strings.Fields(command),
		logger:   logging.GetLogger("edit"),
	}
}

// Groups opens each group's record.
func (e *Editor) Groups(ctx context.Context, names []string) error {
	if err := e.ready(); err != nil {
		return err
	}
	for _, name := range names {
		if !e.store.GroupExists(name) {
			e.reporter.Report(output.Warning, "Group (%s) does not exist!", name)
			continue
		}
		// Bring the record into canonical shape before handing it over.
		if err := e.store.Reformat(name); err != nil {
			return err
		}
		path := e.paths.RecordPath(name)
		if err := e.open(ctx, path, filepath.Base(path)); err != nil {
			return err
		}
	}
	return nil
}

// Entries opens mirrored configs or scripts of group by name. Config
// directories cannot be edited.
func (e *Editor) Entries(ctx context.Context, group string, kind types.Kind, names []string) error {
	if err := e.ready(); err != nil {
		return err
	}
	label := record.LabelFor(kind)
	for _, name := range names {
		var path string
		if kind == types.KindScript {
			path = e.paths.ScriptMirrorPath(group, name)
		} else {
			path = e.paths.ConfigMirrorPath(group, name)
		}

		info, err := e.fs.Stat(path)
		switch {
		case err != nil:
			e.reporter.Report(output.Warning, "%s/%s/%s does not exist!", group, label.Name(), name)
			continue
		case info.IsDir():
			e.reporter.Report(output.Warning, "Config (%s) is a directory!", name)
			continue
		}
		if err := e.open(ctx, path, name); err != nil {
			return err
		}
	}
	return nil
}

func (e *Editor) ready() error {
	if len(e.command) == 0 {
		return errors.New(errors.ErrInvalidInput, ErrNoEditor)
	}
	return nil
}

func (e *Editor) open(ctx context.Context, path, display string) error {
	cmd := runner.Cmd{
		Name:        e.command[0],
		Args:        append(append([]string(nil), e.command[1:]...), path),
		Interactive: true,
	}
	e.logger.Debug().Str("path", path).Strs("editor", e.command).Msg("Opening editor")
	if _, err := e.runner.Run(ctx, cmd); err != nil {
		if runner.IsNotFound(err) {
			return errors.Wrap(err, errors.ErrInvalidInput, "Invalid editor! Update EDITOR environment variable...")
		}
		e.reporter.Report(output.Warning, "Editor exited with an error on (%s)!", display)
		return nil
	}
	e.reporter.Report(output.Editing, "Editing file (%s)...", display)
	return nil
}
