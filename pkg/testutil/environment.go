package testutil

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/alps/pkg/filesystem"
	"github.com/arthur-debert/alps/pkg/output"
	"github.com/arthur-debert/alps/pkg/paths"
	"github.com/arthur-debert/alps/pkg/record"
	"github.com/arthur-debert/alps/pkg/runner"
	"github.com/arthur-debert/alps/pkg/store"
	"github.com/arthur-debert/alps/pkg/types"
)

// EnvType defines the type of test environment
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // Pure in-memory, no real filesystem
	EnvIsolated                  // Real filesystem in temp directory
)

// TestEnvironment provides a complete test environment with all dependencies
type TestEnvironment struct {
	Root string
	Home string

	FS       types.FS
	Paths    paths.Paths
	Store    *store.Store
	Copier   *filesystem.Copier
	Reporter *output.Memory
	Runner   *runner.Fake
	Manager  *MockManager

	Type EnvType

	t *testing.T
}

// NewTestEnvironment creates a new test environment with an existing,
// empty root.
func NewTestEnvironment(t *testing.T, envType EnvType) *TestEnvironment {
	t.Helper()

	env := &TestEnvironment{
		t:        t,
		Type:     envType,
		Reporter: output.NewMemory(),
		Runner:   runner.NewFake(),
		Manager:  &MockManager{},
	}

	switch envType {
	case EnvMemoryOnly:
		env.Root = "/virtual/alps"
		env.Home = "/virtual/home"
		env.FS = filesystem.NewMemory()
	case EnvIsolated:
		tempDir := t.TempDir()
		// Resolve so paths match what the validator canonicalizes to.
		if resolved, err := filepath.EvalSymlinks(tempDir); err == nil {
			tempDir = resolved
		}
		env.Root = filepath.Join(tempDir, "alps")
		env.Home = filepath.Join(tempDir, "home")
		env.FS = filesystem.NewOS()
	}

	p, err := paths.New(paths.Options{Root: env.Root, Home: env.Home})
	if err != nil {
		t.Fatalf("Failed to create paths: %v", err)
	}
	env.Paths = p
	env.Store = store.New(env.FS, p)
	env.Copier = filesystem.NewCopier(env.FS, nil)

	if err := env.FS.MkdirAll(env.Home, 0755); err != nil {
		t.Fatalf("Failed to create home: %v", err)
	}
	if err := env.Store.EnsureRoot(); err != nil {
		t.Fatalf("Failed to create root: %v", err)
	}
	return env
}

// HomePath joins rel onto the home directory.
func (env *TestEnvironment) HomePath(rel string) string {
	return filepath.Join(env.Home, rel)
}

// WithHomeTree creates files below the home directory.
func (env *TestEnvironment) WithHomeTree(tree FileTree) {
	env.t.Helper()
	createFileTree(env.t, env.FS, env.Home, tree)
}

// Fixture is one config or script of a GroupConfig. Entry is the record
// line; Content becomes the mirror copy unless NoMirror is set.
type Fixture struct {
	Entry    string
	Content  string
	NoMirror bool
}

// GroupConfig declares a group's record and mirror.
type GroupConfig struct {
	Packages []string
	Configs  []Fixture
	Scripts  []Fixture
}

// SetupGroup writes a group directly to disk, bypassing the store's
// validation, so tests can start from any state.
func (env *TestEnvironment) SetupGroup(name string, cfg GroupConfig) {
	env.t.Helper()

	if err := env.Store.CreateGroup(name); err != nil {
		env.t.Fatalf("Failed to create group %s: %v", name, err)
	}

	rec := record.New()
	rec.Set(record.Packages, cfg.Packages)

	var configs []string
	for _, f := range cfg.Configs {
		configs = append(configs, f.Entry)
		if f.NoMirror {
			continue
		}
		mirror := env.Paths.ConfigMirrorPath(name, record.ParseConfigEntry(f.Entry).MirrorName())
		env.writeFile(mirror, f.Content, 0644)
	}
	rec.Set(record.Configs, configs)

	var scripts []string
	for _, f := range cfg.Scripts {
		scripts = append(scripts, f.Entry)
		if f.NoMirror {
			continue
		}
		env.writeFile(env.Paths.ScriptMirrorPath(name, f.Entry), f.Content, 0755)
	}
	rec.Set(record.Scripts, scripts)

	env.writeFile(env.Paths.RecordPath(name), string(rec.Encode()), 0644)
}

// Section reads one section of a group's record.
func (env *TestEnvironment) Section(group string, label record.Label) []string {
	env.t.Helper()
	entries, err := env.Store.ReadSection(label, group)
	if err != nil {
		env.t.Fatalf("Failed to read %s of %s: %v", label, group, err)
	}
	return entries
}

// ReadRecord returns the raw record file.
func (env *TestEnvironment) ReadRecord(group string) string {
	env.t.Helper()
	data, err := env.FS.ReadFile(env.Paths.RecordPath(group))
	if err != nil {
		env.t.Fatalf("Failed to read record of %s: %v", group, err)
	}
	return string(data)
}

func (env *TestEnvironment) writeFile(path, content string, perm uint32) {
	env.t.Helper()
	if err := env.FS.MkdirAll(filepath.Dir(path), 0755); err != nil {
		env.t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := env.FS.WriteFile(path, []byte(content), fsMode(perm)); err != nil {
		env.t.Fatalf("Failed to write %s: %v", path, err)
	}
}
