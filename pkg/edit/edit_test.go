package edit_test

import (
	"context"
	"testing"

	"github.com/arthur-debert/alps/pkg/edit"
	"github.com/arthur-debert/alps/pkg/errors"
	"github.com/arthur-debert/alps/pkg/output"
	"github.com/arthur-debert/alps/pkg/runner"
	"github.com/arthur-debert/alps/pkg/testutil"
	"github.com/arthur-debert/alps/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, editor string) (*testutil.TestEnvironment, *edit.Editor) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.SetupGroup("dev", testutil.GroupConfig{
		Configs: []testutil.Fixture{{Entry: "home_dir/.vimrc", Content: "set nu"}},
		Scripts: []testutil.Fixture{{Entry: "setup.sh", Content: "#!/bin/sh\n"}},
	})
	return env, edit.New(env.Store, env.FS, env.Runner, env.Reporter, editor)
}

func TestGroups(t *testing.T) {
	env, e := setup(t, "nvim")

	require.NoError(t, e.Groups(context.Background(), []string{"dev", "ghost"}))

	assert.Equal(t, [][]string{{"nvim", env.Paths.RecordPath("dev")}}, env.Runner.Invoked())
	assert.True(t, env.Runner.Calls[0].Interactive)
	assert.True(t, env.Reporter.Contains(output.Editing, "Editing file (dev.record)..."))
	assert.True(t, env.Reporter.Contains(output.Warning, "Group (ghost) does not exist!"))
}

func TestEntries(t *testing.T) {
	env, e := setup(t, "code --wait")
	require.NoError(t, env.FS.MkdirAll(env.Paths.ConfigMirrorPath("dev", "nvim"), 0755))

	require.NoError(t, e.Entries(context.Background(), "dev", types.KindConfig, []string{".vimrc", "nvim", "nope"}))
	require.NoError(t, e.Entries(context.Background(), "dev", types.KindScript, []string{"setup.sh"}))

	assert.Equal(t, [][]string{
		{"code", "--wait", env.Paths.ConfigMirrorPath("dev", ".vimrc")},
		{"code", "--wait", env.Paths.ScriptMirrorPath("dev", "setup.sh")},
	}, env.Runner.Invoked())
	assert.True(t, env.Reporter.Contains(output.Warning, "Config (nvim) is a directory!"))
	assert.True(t, env.Reporter.Contains(output.Warning, "dev/configs/nope does not exist!"))
}

func TestMissingEditor(t *testing.T) {
	env, e := setup(t, "  ")

	err := e.Groups(context.Background(), []string{"dev"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	assert.Contains(t, err.Error(), "Set environment variable EDITOR")
	assert.Empty(t, env.Runner.Calls)
}

func TestEditorNotOnPath(t *testing.T) {
	env, e := setup(t, "vi")
	env.Runner.On([]string{"vi", env.Paths.RecordPath("dev")}, runner.Result{ExitCode: -1}, runner.ErrNotFound)

	err := e.Groups(context.Background(), []string{"dev"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}
