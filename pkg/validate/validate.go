package validate

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/alps/pkg/errors"
	"github.com/arthur-debert/alps/pkg/logging"
	"github.com/arthur-debert/alps/pkg/output"
	"github.com/arthur-debert/alps/pkg/packages"
	"github.com/arthur-debert/alps/pkg/paths"
	"github.com/arthur-debert/alps/pkg/record"
	"github.com/arthur-debert/alps/pkg/store"
	"github.com/arthur-debert/alps/pkg/types"
	"github.com/rs/zerolog"
)

// Reason says why a candidate was rejected.
type Reason int

const (
	AlreadyExists Reason = iota
	NotFound
	UpstreamMissing
	Reserved
	Duplicate
	Invalid
	NotRegularFile
	LookupFailed
)

var reasonNames = map[Reason]string{
	AlreadyExists:   "already exists",
	NotFound:        "not found",
	UpstreamMissing: "not found upstream",
	Reserved:        "reserved",
	Duplicate:       "duplicate",
	Invalid:         "invalid",
	NotRegularFile:  "not a regular file",
	LookupFailed:    "lookup failed",
}

func (r Reason) String() string {
	return reasonNames[r]
}

// Diagnostic records one rejected candidate.
type Diagnostic struct {
	Kind    types.Kind
	Arg     string
	Reason  Reason
	Message string
	Err     error
}

// Candidate is an accepted argument.
type Candidate struct {
	// Arg is the argument as given.
	Arg string
	// Source is the resolved absolute path of a config or script being
	// added. Empty otherwise.
	Source string
	// Entry is the record line: the package or script name, the templated
	// config path (no suffix yet) when adding, or the full stored config
	// entry when removing.
	Entry string
}

// Result is the outcome of validating one batch.
type Result struct {
	Valid    []Candidate
	Rejected []Diagnostic
}

// Entries returns the Entry of every valid candidate.
func (r *Result) Entries() []string {
	out := make([]string, 0, len(r.Valid))
	for _, c := range r.Valid {
		out = append(out, c.Entry)
	}
	return out
}

// Validator classifies candidates against the store and the package index.
type Validator struct {
	store    *store.Store
	paths    paths.Paths
	fs       types.FS
	manager  packages.Manager
	reporter output.Reporter
	logger   zerolog.Logger
}

// New creates a Validator.
func New(s *store.Store, fsys types.FS, manager packages.Manager, reporter output.Reporter) *Validator {
	return &Validator{
		store:    s,
		paths:    s.Paths(),
		fs:       fsys,
		manager:  manager,
		reporter: reporter,
		logger:   logging.GetLogger("validate"),
	}
}

// batch accumulates one call's result and tracks first occurrences.
type batch struct {
	v      *Validator
	kind   types.Kind
	result Result
	seen   map[string]bool
}

func (v *Validator) newBatch(kind types.Kind) *batch {
	return &batch{v: v, kind: kind, seen: make(map[string]bool)}
}

// first reports whether key is new in this batch, rejecting it otherwise.
func (b *batch) first(arg, key string) bool {
	if b.seen[key] {
		b.reject(arg, Duplicate, nil, "Duplicate %s (%s) ignored!", b.kind, arg)
		return false
	}
	b.seen[key] = true
	return true
}

func (b *batch) accept(c Candidate) {
	b.result.Valid = append(b.result.Valid, c)
}

func (b *batch) reject(arg string, reason Reason, err error, format string, args ...interface{}) {
	b.v.reporter.Report(output.Warning, format, args...)
	b.v.logger.Debug().
		Str("kind", string(b.kind)).
		Str("arg", arg).
		Str("reason", reason.String()).
		Err(err).
		Msg("Rejected candidate")
	b.result.Rejected = append(b.result.Rejected, Diagnostic{
		Kind:    b.kind,
		Arg:     arg,
		Reason:  reason,
		Message: strings.TrimSpace(format),
		Err:     err,
	})
}

// RequireGroup fails unless group names an existing group. It guards every
// per-kind command.
func (v *Validator) RequireGroup(group string) error {
	if group == "" {
		return errors.New(errors.ErrMissingGroup, "Expected group!")
	}
	if !v.store.GroupExists(group) {
		return errors.Newf(errors.ErrInvalidGroup, "Invalid group (%s)!", group).
			WithDetail("group", group)
	}
	return nil
}

// Groups validates group names.
func (v *Validator) Groups(names []string, dir types.Direction) *Result {
	b := v.newBatch(types.KindGroup)
	for _, name := range names {
		if !b.first(name, name) {
			continue
		}
		switch {
		case v.paths.IsReserved(name):
			b.reject(name, Reserved, nil, "Group name (%s) is reserved!", name)
		case dir == types.Add && v.store.GroupExists(name):
			b.reject(name, AlreadyExists, nil, "Group (%s) already installed!", name)
		case dir == types.Remove && !v.store.GroupExists(name):
			b.reject(name, NotFound, nil, "Group (%s) does not exist!", name)
		default:
			b.accept(Candidate{Arg: name, Entry: name})
		}
	}
	return &b.result
}

// Packages validates package names for group. Adding consults the package
// index; removing only the record.
func (v *Validator) Packages(ctx context.Context, group string, names []string, dir types.Direction) (*Result, error) {
	recorded, err := v.store.ReadSection(record.Packages, group)
	if err != nil {
		return nil, err
	}
	current := record.New()
	current.Set(record.Packages, recorded)

	b := v.newBatch(types.KindPackage)
	for _, name := range names {
		if !b.first(name, name) {
			continue
		}
		if err := record.ValidEntry(name); err != nil {
			b.reject(name, Invalid, err, "Invalid package name (%s)!", name)
			continue
		}
		if dir == types.Remove {
			if current.Contains(record.Packages, name) {
				b.accept(Candidate{Arg: name, Entry: name})
			} else {
				b.reject(name, NotFound, nil, "Package (%s) does not exist in group!", name)
			}
			continue
		}

		if current.Contains(record.Packages, name) {
			b.reject(name, AlreadyExists, nil, "Package (%s) already installed to group!", name)
			continue
		}
		exists, err := v.manager.Exists(ctx, name)
		switch {
		case err != nil:
			b.reject(name, LookupFailed, err, "Command (%s) failed to run!", "search "+name)
		case !exists:
			b.reject(name, UpstreamMissing, nil, "Package (%s) does not exist in repository!", name)
		default:
			b.accept(Candidate{Arg: name, Entry: name})
		}
	}
	return &b.result, nil
}

// Configs validates config paths for group. Adding resolves each path and
// checks its templated identity; removing matches the argument's base name
// against the stored entries' mirror names.
func (v *Validator) Configs(group string, args []string, dir types.Direction) (*Result, error) {
	recorded, err := v.store.ReadSection(record.Configs, group)
	if err != nil {
		return nil, err
	}

	b := v.newBatch(types.KindConfig)
	for _, arg := range args {
		if dir == types.Remove {
			v.removeConfig(b, recorded, arg)
			continue
		}

		source, err := v.paths.Resolve(arg)
		if err != nil {
			if !b.first(arg, arg) {
				continue
			}
			b.reject(arg, NotFound, err, "Path to config (%s) does not exist!", arg)
			continue
		}
		entry := v.paths.Template(source)
		if !b.first(arg, entry) {
			continue
		}
		switch {
		case v.overlapsRoot(source):
			b.reject(arg, Invalid, nil, "Config (%s) overlaps the alps root!", arg)
		case record.ValidEntry(entry) != nil:
			b.reject(arg, Invalid, record.ValidEntry(entry), "Invalid config path (%s)!", arg)
		case configRecorded(recorded, entry):
			b.reject(arg, AlreadyExists, nil, "Config (%s) already installed to group!", arg)
		default:
			b.accept(Candidate{Arg: arg, Source: source, Entry: entry})
		}
	}
	return &b.result, nil
}

func (v *Validator) removeConfig(b *batch, recorded []string, arg string) {
	name := filepath.Base(arg)
	matched := false
	for _, entry := range recorded {
		if record.ParseConfigEntry(entry).MirrorName() != name {
			continue
		}
		matched = true
		if b.first(arg, entry) {
			b.accept(Candidate{Arg: arg, Entry: entry})
		}
	}
	if !matched {
		if b.first(arg, "missing:"+name) {
			b.reject(arg, NotFound, nil, "Config (%s) does not exist in group!", arg)
		}
	}
}

// Scripts validates script paths (adding) or names (removing) for group.
func (v *Validator) Scripts(group string, args []string, dir types.Direction) (*Result, error) {
	recorded, err := v.store.ReadSection(record.Scripts, group)
	if err != nil {
		return nil, err
	}
	current := record.New()
	current.Set(record.Scripts, recorded)

	b := v.newBatch(types.KindScript)
	for _, arg := range args {
		name := filepath.Base(arg)
		if !b.first(arg, name) {
			continue
		}
		if err := record.ValidEntry(name); err != nil {
			b.reject(arg, Invalid, err, "Invalid script name (%s)!", arg)
			continue
		}

		if dir == types.Remove {
			if current.Contains(record.Scripts, name) {
				b.accept(Candidate{Arg: arg, Entry: name})
			} else {
				b.reject(arg, NotFound, nil, "Script (%s) does not exist in group!", arg)
			}
			continue
		}

		source, err := v.paths.Resolve(arg)
		if err != nil {
			b.reject(arg, NotFound, err, "Path to script (%s) does not exist!", arg)
			continue
		}
		info, err := v.fs.Stat(source)
		switch {
		case err != nil:
			b.reject(arg, NotFound, err, "Path to script (%s) does not exist!", arg)
		case !info.Mode().IsRegular():
			b.reject(arg, NotRegularFile, nil, "Script (%s) is not a regular file!", arg)
		case current.Contains(record.Scripts, name):
			b.reject(arg, AlreadyExists, nil, "Script (%s) already installed to group!", arg)
		default:
			b.accept(Candidate{Arg: arg, Source: source, Entry: name})
		}
	}
	return &b.result, nil
}

// overlapsRoot reports whether path is the root, lies below it, or contains
// it. Copying a directory that holds the root would mirror the mirror.
func (v *Validator) overlapsRoot(path string) bool {
	root := v.paths.Root()
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	sep := string(filepath.Separator)
	return path == root ||
		strings.HasPrefix(path, root+sep) ||
		strings.HasPrefix(root, strings.TrimSuffix(path, sep)+sep)
}

// configRecorded compares an unsuffixed templated path against the stored
// entries with their suffixes stripped.
func configRecorded(recorded []string, path string) bool {
	for _, e := range recorded {
		if record.ParseConfigEntry(e).Path == path {
			return true
		}
	}
	return false
}
