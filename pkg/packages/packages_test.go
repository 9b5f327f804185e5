package packages_test

import (
	"context"
	"testing"

	"github.com/arthur-debert/alps/pkg/config"
	"github.com/arthur-debert/alps/pkg/errors"
	"github.com/arthur-debert/alps/pkg/packages"
	"github.com/arthur-debert/alps/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pacman = config.Packages{
	Search:  []string{"pacman", "-Ss", "^{}$"},
	Query:   []string{"pacman", "-Q", "{}"},
	Install: []string{"sudo", "pacman", "-S", "{...}"},
}

func TestExpand(t *testing.T) {
	tests := []struct {
		name     string
		template []string
		names    []string
		want     []string
	}{
		{"single in regex", []string{"pacman", "-Ss", "^{}$"}, []string{"git"}, []string{"pacman", "-Ss", "^git$"}},
		{"batch", []string{"sudo", "pacman", "-S", "{...}"}, []string{"git", "vim"}, []string{"sudo", "pacman", "-S", "git", "vim"}},
		{"batch in middle", []string{"apt", "install", "{...}", "-y"}, []string{"a", "b"}, []string{"apt", "install", "a", "b", "-y"}},
		{"no placeholder appends", []string{"brew", "install"}, []string{"a", "b"}, []string{"brew", "install", "a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, packages.Expand(tt.template, tt.names))
		})
	}
}

func TestCommandManager_Probes(t *testing.T) {
	fake := runner.NewFake().
		On([]string{"pacman", "-Q", "vim"}, runner.Result{ExitCode: 1}, &runner.ExitError{Name: "pacman", Code: 1}).
		On([]string{"pacman", "-Ss", "^nope$"}, runner.Result{ExitCode: 1}, &runner.ExitError{Name: "pacman", Code: 1})
	m := packages.NewCommandManager(pacman, fake)
	ctx := context.Background()

	installed, err := m.Installed(ctx, "git")
	require.NoError(t, err)
	assert.True(t, installed)

	installed, err = m.Installed(ctx, "vim")
	require.NoError(t, err)
	assert.False(t, installed)

	exists, err := m.Exists(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, exists)

	assert.Equal(t, [][]string{
		{"pacman", "-Q", "git"},
		{"pacman", "-Q", "vim"},
		{"pacman", "-Ss", "^nope$"},
	}, fake.Invoked())
}

func TestCommandManager_MissingBinary(t *testing.T) {
	fake := runner.NewFake().
		On([]string{"pacman", "-Q", "git"}, runner.Result{ExitCode: -1}, runner.ErrNotFound)
	m := packages.NewCommandManager(pacman, fake)

	_, err := m.Installed(context.Background(), "git")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrExternalCommand))
}

func TestCommandManager_Install(t *testing.T) {
	t.Run("batch is interactive", func(t *testing.T) {
		fake := runner.NewFake()
		m := packages.NewCommandManager(pacman, fake)

		require.NoError(t, m.Install(context.Background(), []string{"git", "vim"}))
		require.Len(t, fake.Calls, 1)
		assert.Equal(t, []string{"sudo", "pacman", "-S", "git", "vim"}, fake.Calls[0].Argv())
		assert.True(t, fake.Calls[0].Interactive)
	})

	t.Run("empty batch runs nothing", func(t *testing.T) {
		fake := runner.NewFake()
		m := packages.NewCommandManager(pacman, fake)

		require.NoError(t, m.Install(context.Background(), nil))
		assert.Empty(t, fake.Calls)
	})

	t.Run("failure is typed", func(t *testing.T) {
		fake := runner.NewFake().
			On([]string{"sudo", "pacman", "-S", "git"}, runner.Result{ExitCode: 1}, &runner.ExitError{Name: "sudo", Code: 1})
		m := packages.NewCommandManager(pacman, fake)

		err := m.Install(context.Background(), []string{"git"})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrExternalCommand))
	})
}
