package runner_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/alps/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunner_CapturesOutput(t *testing.T) {
	r := runner.New(0)

	res, err := r.Run(context.Background(), runner.Cmd{Name: "sh", Args: []string{"-c", "echo out; echo err >&2"}})
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "out\n", string(res.Stdout))
	assert.Equal(t, "err\n", string(res.Stderr))
}

func TestExecRunner_NonZeroExit(t *testing.T) {
	r := runner.New(0)

	res, err := r.Run(context.Background(), runner.Cmd{Name: "sh", Args: []string{"-c", "echo nope >&2; exit 3"}})
	require.Error(t, err)
	assert.True(t, runner.IsExitError(err))
	assert.False(t, runner.IsNotFound(err))
	assert.Equal(t, 3, res.ExitCode)
	assert.Contains(t, err.Error(), "nope")
}

func TestExecRunner_MissingExecutable(t *testing.T) {
	r := runner.New(0)

	t.Run("not on PATH", func(t *testing.T) {
		_, err := r.Run(context.Background(), runner.Cmd{Name: "alps-definitely-not-a-binary"})
		require.Error(t, err)
		assert.True(t, runner.IsNotFound(err))
	})

	t.Run("absolute path that does not exist", func(t *testing.T) {
		_, err := r.Run(context.Background(), runner.Cmd{Name: filepath.Join(t.TempDir(), "missing.sh")})
		require.Error(t, err)
		assert.True(t, runner.IsNotFound(err))
	})
}

func TestExecRunner_Interactive(t *testing.T) {
	var out bytes.Buffer
	r := runner.New(0)
	r.Stdout = &out
	r.Stdin = bytes.NewBufferString("")

	res, err := r.Run(context.Background(), runner.Cmd{
		Name:        "sh",
		Args:        []string{"-c", "echo $ALPS_TEST_VAR"},
		Env:         []string{"ALPS_TEST_VAR=visible"},
		Interactive: true,
	})
	require.NoError(t, err)
	assert.Empty(t, res.Stdout)
	assert.Equal(t, "visible\n", out.String())
}

func TestExecRunner_Timeout(t *testing.T) {
	r := runner.New(50 * time.Millisecond)

	_, err := r.Run(context.Background(), runner.Cmd{Name: "sleep", Args: []string{"5"}})
	assert.Error(t, err)
}

func TestFake(t *testing.T) {
	f := runner.NewFake().
		On([]string{"pacman", "-Q", "git"}, runner.Result{}, nil).
		On([]string{"pacman", "-Q", "vim"}, runner.Result{ExitCode: 1}, &runner.ExitError{Name: "pacman", Code: 1})

	_, err := f.Run(context.Background(), runner.Cmd{Name: "pacman", Args: []string{"-Q", "git"}})
	assert.NoError(t, err)
	_, err = f.Run(context.Background(), runner.Cmd{Name: "pacman", Args: []string{"-Q", "vim"}})
	assert.True(t, runner.IsExitError(err))

	assert.Equal(t, [][]string{{"pacman", "-Q", "git"}, {"pacman", "-Q", "vim"}}, f.Invoked())
}
