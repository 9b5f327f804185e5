package core_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/alps/pkg/config"
	"github.com/arthur-debert/alps/pkg/core"
	"github.com/arthur-debert/alps/pkg/errors"
	"github.com/arthur-debert/alps/pkg/output"
	"github.com/arthur-debert/alps/pkg/record"
	"github.com/arthur-debert/alps/pkg/runner"
	"github.com/arthur-debert/alps/pkg/testutil"
	"github.com/arthur-debert/alps/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	app      *core.App
	home     string
	reporter *output.Memory
	runner   *runner.Fake
	manager  *testutil.MockManager
}

func newApp(t *testing.T) *fixture {
	t.Helper()
	tmp, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	home := filepath.Join(tmp, "home")
	require.NoError(t, os.MkdirAll(home, 0755))

	f := &fixture{
		home:     home,
		reporter: output.NewMemory(),
		runner:   runner.NewFake(),
		manager:  &testutil.MockManager{},
	}
	app, err := core.New(core.Options{
		Config: &config.Config{
			Root:            filepath.Join(tmp, "alps"),
			Home:            home,
			Editor:          "vi",
			Placeholder:     "home_dir",
			RecordExtension: ".record",
		},
		Runner:   f.runner,
		Packages: f.manager,
		Reporter: f.reporter,
	})
	require.NoError(t, err)
	f.app = app
	return f
}

func (f *fixture) write(t *testing.T, rel, content string) string {
	t.Helper()
	path := filepath.Join(f.home, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewCreatesRoot(t *testing.T) {
	f := newApp(t)
	info, err := os.Stat(f.app.Paths.Root())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestVimrcScenario(t *testing.T) {
	f := newApp(t)
	ctx := context.Background()
	vimrc := f.write(t, ".vimrc", "set nu")

	_, err := f.app.Install(ctx, types.KindGroup, []string{"dev"})
	require.NoError(t, err)
	_, err = f.app.Install(ctx, types.KindConfig, []string{"dev", "~/.vimrc"})
	require.NoError(t, err)

	configs, err := f.app.Store.ReadSection(record.Configs, "dev")
	require.NoError(t, err)
	assert.Equal(t, []string{"home_dir/.vimrc"}, configs)
	mirror := f.app.Paths.ConfigMirrorPath("dev", ".vimrc")
	testutil.AssertFileContent(t, f.app.FS, mirror, "set nu")

	// Lost original comes back from the mirror.
	require.NoError(t, os.Remove(vimrc))
	require.NoError(t, f.app.Sync(ctx, types.KindConfig, []string{"dev"}))
	testutil.AssertFileContent(t, f.app.FS, vimrc, "set nu")

	// Lost mirror prunes the entry.
	require.NoError(t, os.Remove(mirror))
	require.NoError(t, f.app.Sync(ctx, types.KindConfig, []string{"dev"}))
	configs, err = f.app.Store.ReadSection(record.Configs, "dev")
	require.NoError(t, err)
	assert.Empty(t, configs)
	assert.True(t, f.reporter.Contains(output.Warning, "Contents of config (.vimrc) do not exist!"))
}

func TestRemoveGroupThenQuery(t *testing.T) {
	f := newApp(t)
	ctx := context.Background()

	_, err := f.app.Install(ctx, types.KindGroup, []string{"dev"})
	require.NoError(t, err)
	require.NoError(t, f.app.Query(types.KindGroup, []string{"dev"}))

	_, err = f.app.Remove(ctx, types.KindGroup, []string{"dev"})
	require.NoError(t, err)

	err = f.app.Query(types.KindGroup, []string{"dev"})
	require.Error(t, err)
	assert.Equal(t, 1, errors.ExitCode(err))
	assert.True(t, f.reporter.Contains(output.Warning, "Group (dev) not found!"))
}

func TestQueryMissCountIsExitStatus(t *testing.T) {
	f := newApp(t)
	ctx := context.Background()
	_, err := f.app.Install(ctx, types.KindGroup, []string{"dev"})
	require.NoError(t, err)

	err = f.app.Query(types.KindPackage, []string{"dev", "a", "b", "c"})
	assert.Equal(t, 3, errors.ExitCode(err))
	assert.True(t, errors.Silent(err))
}

func TestPackagesDeclaredOnlyAfterLookup(t *testing.T) {
	f := newApp(t)
	ctx := context.Background()
	f.manager.On("Exists", mock.Anything, "vim").Return(true, nil)
	f.manager.On("Exists", mock.Anything, "nosuch").Return(false, nil)
	f.manager.On("Exists", mock.Anything, "tmux").Return(true, nil)

	_, err := f.app.Install(ctx, types.KindGroup, []string{"dev"})
	require.NoError(t, err)
	res, err := f.app.Install(ctx, types.KindPackage, []string{"dev", "vim", "nosuch", "tmux"})
	require.NoError(t, err)

	assert.Equal(t, []string{"vim", "tmux"}, res.Applied())
	assert.Equal(t, 1, f.reporter.Count(output.Warning))
	f.manager.AssertNotCalled(t, "Install", mock.Anything, mock.Anything)
}

func TestPackagesPartialBatch(t *testing.T) {
	f := newApp(t)
	ctx := context.Background()
	f.manager.On("Exists", mock.Anything, "git").Return(true, nil)
	f.manager.On("Exists", mock.Anything, "vim").Return(true, nil)
	f.manager.On("Exists", mock.Anything, "nosuch").Return(false, nil)

	_, err := f.app.Install(ctx, types.KindGroup, []string{"dev"})
	require.NoError(t, err)
	_, err = f.app.Install(ctx, types.KindPackage, []string{"dev", "vim"})
	require.NoError(t, err)

	res, err := f.app.Install(ctx, types.KindPackage, []string{"dev", "git", "vim", "nosuch"})
	require.NoError(t, err)

	assert.Equal(t, []string{"git"}, res.Applied())
	assert.True(t, f.reporter.Contains(output.Warning, "Package (vim) already installed to group!"))
	assert.True(t, f.reporter.Contains(output.Warning, "Package (nosuch) does not exist in repository!"))
	assert.True(t, f.reporter.Contains(output.Plain, "Installed (1/3) packages..."))

	section, err := f.app.Store.ReadSection(record.Packages, "dev")
	require.NoError(t, err)
	assert.Equal(t, []string{"git", "vim"}, section)
}

func TestShapeErrors(t *testing.T) {
	f := newApp(t)
	ctx := context.Background()
	_, err := f.app.Install(ctx, types.KindGroup, []string{"dev"})
	require.NoError(t, err)

	tests := []struct {
		name string
		run  func() error
		code errors.ErrorCode
		msg  string
	}{
		{"install group without names", func() error {
			_, err := f.app.Install(ctx, types.KindGroup, nil)
			return err
		}, errors.ErrMissingArguments, "Expected arguments!"},
		{"install package without group", func() error {
			_, err := f.app.Install(ctx, types.KindPackage, nil)
			return err
		}, errors.ErrMissingGroup, "Expected group!"},
		{"install package without names", func() error {
			_, err := f.app.Install(ctx, types.KindPackage, []string{"dev"})
			return err
		}, errors.ErrMissingArguments, "Expected arguments!"},
		{"remove script from unknown group", func() error {
			_, err := f.app.Remove(ctx, types.KindScript, []string{"ghost", "x.sh"})
			return err
		}, errors.ErrInvalidGroup, "Invalid group (ghost)!"},
		{"sync without group", func() error {
			return f.app.Sync(ctx, types.KindGroup, nil)
		}, errors.ErrMissingGroup, "Expected group!"},
		{"edit packages", func() error {
			return f.app.Edit(ctx, types.KindPackage, []string{"dev", "vim"})
		}, errors.ErrInvalidFlag, "Packages cannot be edited!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, tt.code), "got %v", err)
			assert.Equal(t, tt.msg, errors.Message(err))
		})
	}
}

func TestEditGroupRunsEditor(t *testing.T) {
	f := newApp(t)
	ctx := context.Background()
	_, err := f.app.Install(ctx, types.KindGroup, []string{"dev"})
	require.NoError(t, err)

	require.NoError(t, f.app.Edit(ctx, types.KindGroup, []string{"dev"}))
	assert.Equal(t, [][]string{{"vi", f.app.Paths.RecordPath("dev")}}, f.runner.Invoked())
}

func TestScriptRoundTrip(t *testing.T) {
	f := newApp(t)
	ctx := context.Background()
	script := f.write(t, "bin/setup.sh", "#!/bin/sh\n")

	_, err := f.app.Install(ctx, types.KindGroup, []string{"dev"})
	require.NoError(t, err)
	before, err := os.ReadFile(f.app.Paths.RecordPath("dev"))
	require.NoError(t, err)

	_, err = f.app.Install(ctx, types.KindScript, []string{"dev", script})
	require.NoError(t, err)
	testutil.AssertExists(t, f.app.FS, f.app.Paths.ScriptMirrorPath("dev", "setup.sh"))

	_, err = f.app.Remove(ctx, types.KindScript, []string{"dev", "setup.sh"})
	require.NoError(t, err)
	after, err := os.ReadFile(f.app.Paths.RecordPath("dev"))
	require.NoError(t, err)

	assert.Equal(t, string(before), string(after))
	testutil.AssertNotExists(t, f.app.FS, f.app.Paths.ScriptMirrorPath("dev", "setup.sh"))
}
