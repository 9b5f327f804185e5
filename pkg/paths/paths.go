package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/alps/pkg/errors"
)

// Layout names below a group directory. These are fixed and not
// user-configurable.
const (
	// AppDirName is the directory alps owns below XDG_CONFIG_HOME
	AppDirName = "alps"

	// ConfigsDir holds mirrored configuration trees
	ConfigsDir = "configs"

	// ScriptsDir holds mirrored scripts
	ScriptsDir = "scripts"

	// ConfigFileName is the user configuration file, which may share the
	// root directory with the groups
	ConfigFileName = "config.toml"

	// DefaultPlaceholder replaces the home directory in stored config paths
	DefaultPlaceholder = "home_dir"

	// DefaultRecordExtension is appended to the group name to form the record
	DefaultRecordExtension = ".record"
)

// Paths provides centralized path management for alps
type Paths interface {
	Root() string
	Home() string
	Placeholder() string
	GroupDir(group string) string
	RecordPath(group string) string
	ConfigMirrorDir(group string) string
	ConfigMirrorPath(group, name string) string
	ScriptMirrorDir(group string) string
	ScriptMirrorPath(group, name string) string
	Template(path string) string
	Detemplate(entry string) string
	ExpandHome(path string) string
	Resolve(path string) (string, error)
	IsReserved(group string) bool
}

// Options configures New. Empty fields take their defaults.
type Options struct {
	Root            string
	Home            string
	Placeholder     string
	RecordExtension string
}

type paths struct {
	root        string
	home        string
	placeholder string
	recordExt   string
}

// New creates a Paths instance. The root defaults to $XDG_CONFIG_HOME/alps
// and the home directory to the current user's.
func New(opts Options) (Paths, error) {
	p := &paths{
		home:        opts.Home,
		placeholder: opts.Placeholder,
		recordExt:   opts.RecordExtension,
	}

	if p.home == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrFileAccess, "failed to determine home directory")
		}
		p.home = home
	}
	p.home = filepath.Clean(p.home)

	root := opts.Root
	if root == "" {
		root = filepath.Join(xdg.ConfigHome, AppDirName)
	}
	absRoot, err := filepath.Abs(p.ExpandHome(root))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for root %s", root)
	}
	p.root = absRoot

	if p.placeholder == "" {
		p.placeholder = DefaultPlaceholder
	}
	if p.recordExt == "" {
		p.recordExt = DefaultRecordExtension
	}
	return p, nil
}

func (p *paths) Root() string        { return p.root }
func (p *paths) Home() string        { return p.home }
func (p *paths) Placeholder() string { return p.placeholder }

// GroupDir returns the directory of a group
func (p *paths) GroupDir(group string) string {
	return filepath.Join(p.root, group)
}

// RecordPath returns <root>/<group>/<group><ext>
func (p *paths) RecordPath(group string) string {
	return filepath.Join(p.GroupDir(group), group+p.recordExt)
}

func (p *paths) ConfigMirrorDir(group string) string {
	return filepath.Join(p.GroupDir(group), ConfigsDir)
}

func (p *paths) ConfigMirrorPath(group, name string) string {
	return filepath.Join(p.ConfigMirrorDir(group), name)
}

func (p *paths) ScriptMirrorDir(group string) string {
	return filepath.Join(p.GroupDir(group), ScriptsDir)
}

func (p *paths) ScriptMirrorPath(group, name string) string {
	return filepath.Join(p.ScriptMirrorDir(group), name)
}

// Template replaces a leading home directory with the placeholder. Paths
// outside the home directory are returned unchanged.
func (p *paths) Template(path string) string {
	if path == p.home {
		return p.placeholder
	}
	if rest, ok := strings.CutPrefix(path, p.home+string(filepath.Separator)); ok {
		return p.placeholder + string(filepath.Separator) + rest
	}
	return path
}

// Detemplate is the inverse of Template.
func (p *paths) Detemplate(entry string) string {
	if entry == p.placeholder {
		return p.home
	}
	if rest, ok := strings.CutPrefix(entry, p.placeholder+string(filepath.Separator)); ok {
		return filepath.Join(p.home, rest)
	}
	return entry
}

// ExpandHome expands a leading ~ to the configured home directory
func (p *paths) ExpandHome(path string) string {
	if path == "~" {
		return p.home
	}
	if rest, ok := strings.CutPrefix(path, "~"+string(filepath.Separator)); ok {
		return filepath.Join(p.home, rest)
	}
	return path
}

// Resolve turns a user supplied path into its canonical absolute form with
// symlinks resolved. The path must exist.
func (p *paths) Resolve(path string) (string, error) {
	abs, err := filepath.Abs(p.ExpandHome(path))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for %s", path)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Wrapf(err, errors.ErrNotFound, "%s does not exist", path)
		}
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to resolve %s", path)
	}
	return resolved, nil
}

// IsReserved reports whether name can never be a group name.
func (p *paths) IsReserved(group string) bool {
	switch group {
	case "", ".", "..", ConfigsDir, ScriptsDir, ConfigFileName:
		return true
	}
	return strings.ContainsRune(group, filepath.Separator) || strings.ContainsRune(group, '/')
}
