// Package runner executes child processes for alps: package manager queries
// and installs, group scripts, privilege escalation and the editor.
package runner

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"time"

	"github.com/arthur-debert/alps/pkg/logging"
	"github.com/rs/zerolog"
)

// ErrNotFound marks a command whose executable does not exist.
var ErrNotFound = stderrors.New("executable not found")

// Cmd describes a single child process.
type Cmd struct {
	Name string
	Args []string
	Dir  string
	// Env is appended to the current process environment.
	Env []string
	// Interactive commands share the terminal with alps instead of having
	// their output captured. Package installs, scripts and the editor are
	// interactive.
	Interactive bool
}

// Argv returns the full argument vector.
func (c Cmd) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

// Result holds what a finished process reported.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// ExitError is returned when a process ran but exited non-zero.
type ExitError struct {
	Name   string
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s exited with status %d: %s", e.Name, e.Code, e.Stderr)
	}
	return fmt.Sprintf("%s exited with status %d", e.Name, e.Code)
}

// Runner runs commands. Implementations must be safe to call sequentially;
// alps never runs two children at once.
type Runner interface {
	Run(ctx context.Context, cmd Cmd) (Result, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	// Timeout bounds every command. Zero disables the limit.
	Timeout time.Duration
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	logger  zerolog.Logger
}

// New returns an ExecRunner wired to the process standard streams.
func New(timeout time.Duration) *ExecRunner {
	return &ExecRunner{
		Timeout: timeout,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		logger:  logging.GetLogger("runner"),
	}
}

// Run starts cmd and waits for it.
func (r *ExecRunner) Run(ctx context.Context, cmd Cmd) (Result, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	logging.LogCommand(cmd.Name, cmd.Args)

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Env = append(os.Environ(), cmd.Env...)

	var stdout, stderr bytes.Buffer
	if cmd.Interactive {
		c.Stdin = r.Stdin
		c.Stdout = r.Stdout
		c.Stderr = r.Stderr
	} else {
		c.Stdout = &stdout
		c.Stderr = &stderr
	}

	err := c.Run()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		r.logger.Debug().
			Str("command", cmd.Name).
			Int("exitCode", res.ExitCode).
			Msg("Command exited non-zero")
		return res, &ExitError{Name: cmd.Name, Code: res.ExitCode, Stderr: string(bytes.TrimSpace(res.Stderr))}
	}

	res.ExitCode = -1
	if stderrors.Is(err, exec.ErrNotFound) || stderrors.Is(err, fs.ErrNotExist) {
		return res, fmt.Errorf("%w: %s: %v", ErrNotFound, cmd.Name, err)
	}
	return res, fmt.Errorf("failed to run %s: %w", cmd.Name, err)
}

// IsNotFound reports whether err means the executable was missing.
func IsNotFound(err error) bool {
	return stderrors.Is(err, ErrNotFound)
}

// IsExitError reports whether err is a non-zero exit.
func IsExitError(err error) bool {
	var exitErr *ExitError
	return stderrors.As(err, &exitErr)
}
