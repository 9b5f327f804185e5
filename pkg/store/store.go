package store

import (
	stderrors "errors"
	"io/fs"
	"sort"

	"github.com/arthur-debert/alps/pkg/errors"
	"github.com/arthur-debert/alps/pkg/logging"
	"github.com/arthur-debert/alps/pkg/paths"
	"github.com/arthur-debert/alps/pkg/record"
	"github.com/arthur-debert/alps/pkg/types"
	"github.com/rs/zerolog"
)

// Store reads and writes groups below the root.
type Store struct {
	fs     types.FS
	paths  paths.Paths
	logger zerolog.Logger
}

// New creates a Store over fsys.
func New(fsys types.FS, p paths.Paths) *Store {
	return &Store{
		fs:     fsys,
		paths:  p,
		logger: logging.GetLogger("store"),
	}
}

// Paths returns the layout the store writes to.
func (s *Store) Paths() paths.Paths {
	return s.paths
}

// EnsureRoot creates the root directory on first run.
func (s *Store) EnsureRoot() error {
	if err := s.fs.MkdirAll(s.paths.Root(), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create root %s", s.paths.Root())
	}
	return nil
}

// GroupExists reports whether the group's directory exists.
func (s *Store) GroupExists(group string) bool {
	if s.paths.IsReserved(group) {
		return false
	}
	info, err := s.fs.Stat(s.paths.GroupDir(group))
	return err == nil && info.IsDir()
}

// CreateGroup creates the group directory and an empty canonical record.
func (s *Store) CreateGroup(group string) error {
	if s.paths.IsReserved(group) {
		return errors.Newf(errors.ErrInvalidGroup, "%q is not a valid group name", group)
	}
	if err := s.fs.MkdirAll(s.paths.GroupDir(group), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create group %s", group)
	}
	if err := s.save(group, record.New()); err != nil {
		return err
	}
	s.logger.Debug().Str("group", group).Msg("Created group")
	return nil
}

// RemoveGroup deletes the group directory with its record and mirror.
func (s *Store) RemoveGroup(group string) error {
	if s.paths.IsReserved(group) {
		return errors.Newf(errors.ErrInvalidGroup, "%q is not a valid group name", group)
	}
	if err := s.fs.RemoveAll(s.paths.GroupDir(group)); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to remove group %s", group)
	}
	s.logger.Debug().Str("group", group).Msg("Removed group")
	return nil
}

// ListGroups returns the group names under the root in lexical order. A
// missing root has no groups.
func (s *Store) ListGroups() ([]string, error) {
	entries, err := s.fs.ReadDir(s.paths.Root())
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to list %s", s.paths.Root())
	}
	var groups []string
	for _, entry := range entries {
		if entry.IsDir() && !s.paths.IsReserved(entry.Name()) {
			groups = append(groups, entry.Name())
		}
	}
	sort.Strings(groups)
	return groups, nil
}

// Load reads the group's record. A missing record file is created empty.
func (s *Store) Load(group string) (*record.Record, error) {
	if !s.GroupExists(group) {
		return nil, errors.Newf(errors.ErrMissingGroup, "group %s does not exist", group).
			WithDetail("group", group)
	}
	path := s.paths.RecordPath(group)
	data, err := s.fs.ReadFile(path)
	if err != nil {
		if !stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(err, errors.ErrRecordRead, "failed to read %s", path).
				WithDetail("path", path)
		}
		rec := record.New()
		if err := s.save(group, rec); err != nil {
			return nil, err
		}
		return rec, nil
	}
	return record.Decode(data), nil
}

// ReadSection returns the entries recorded under label.
func (s *Store) ReadSection(label record.Label, group string) ([]string, error) {
	rec, err := s.Load(group)
	if err != nil {
		return nil, err
	}
	return rec.Section(label), nil
}

// Reformat rewrites the record in canonical layout. The file is left
// untouched when it is already canonical.
func (s *Store) Reformat(group string) error {
	path := s.paths.RecordPath(group)
	before, err := s.fs.ReadFile(path)
	if err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return errors.Wrapf(err, errors.ErrRecordRead, "failed to read %s", path)
	}
	rec, err := s.Load(group)
	if err != nil {
		return err
	}
	if string(rec.Encode()) == string(before) {
		return nil
	}
	s.logger.Debug().Str("group", group).Msg("Reformatting record")
	return s.save(group, rec)
}

// WriteEntry adds entry to, or removes it from, one section of the group's
// record. It reports whether the record changed.
func (s *Store) WriteEntry(group string, label record.Label, entry string, add bool) (bool, error) {
	if err := record.ValidEntry(entry); err != nil {
		return false, err
	}
	if err := s.Reformat(group); err != nil {
		return false, err
	}
	rec, err := s.Load(group)
	if err != nil {
		return false, err
	}

	var changed bool
	if add {
		changed = rec.Add(label, entry)
	} else {
		changed = rec.Remove(label, entry) > 0
	}

	if changed {
		if err := s.save(group, rec); err != nil {
			return false, err
		}
	}
	if err := s.Reformat(group); err != nil {
		return changed, err
	}

	s.logger.Debug().
		Str("group", group).
		Str("section", label.Name()).
		Str("entry", entry).
		Bool("add", add).
		Bool("changed", changed).
		Msg("Wrote record entry")
	return changed, nil
}

// save replaces the record through a temporary file and a rename.
func (s *Store) save(group string, rec *record.Record) error {
	path := s.paths.RecordPath(group)
	tmp := path + ".tmp"
	if err := s.fs.WriteFile(tmp, rec.Encode(), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrRecordWrite, "failed to write %s", tmp).
			WithDetail("path", path)
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		_ = s.fs.Remove(tmp)
		return errors.Wrapf(err, errors.ErrRecordWrite, "failed to replace %s", path).
			WithDetail("path", path)
	}
	return nil
}
