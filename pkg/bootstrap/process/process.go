package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"syscall"
)

const (
	// ExitCodeNotStarted mirrors the shell's "command not found" status.
	ExitCodeNotStarted = 127
	// ExitCodeSignalBase is added to the signal number of a killed child.
	ExitCodeSignalBase = 128
	// ExitCodeUnknown is used when no status could be collected.
	ExitCodeUnknown = 1
)

var ErrNotStarted = errors.New("process not started")

type Command struct {
	Name string
	Args []string
	// Env is the complete child environment. Nil inherits the parent's environment.
	Env []string
	Dir string
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

type Executor interface {
	// Run blocks until the process exits and returns its exit code.
	Run(ctx context.Context, cmd Command) (int, error)
}

// ExecExecutor runs commands on the host. Nil streams fall back to the parent's stdio.
type ExecExecutor struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

var _ Executor = (*ExecExecutor)(nil)

func NewExecExecutor() *ExecExecutor {
	return &ExecExecutor{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

func (e *ExecExecutor) Run(ctx context.Context, cmd Command) (int, error) {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Env = cmd.Env
	c.Dir = cmd.Dir
	c.Stdin, c.Stdout, c.Stderr = os.Stdin, os.Stdout, os.Stderr
	if e.Stdin != nil {
		c.Stdin = e.Stdin
	}
	if e.Stdout != nil {
		c.Stdout = e.Stdout
	}
	if e.Stderr != nil {
		c.Stderr = e.Stderr
	}

	slog.Debug("running command", "command", cmd.String())

	if err := c.Start(); err != nil {
		return ExitCodeNotStarted, fmt.Errorf("%w: %s: %w", ErrNotStarted, cmd.Name, err)
	}

	if err := c.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitCode(exitErr.ProcessState), nil
		}
		return exitCode(c.ProcessState), fmt.Errorf("failed to wait for %s: %w", cmd.Name, err)
	}

	return 0, nil
}

// exitCode reports a signal death as 128+signal, the way a shell does.
func exitCode(state *os.ProcessState) int {
	if state == nil {
		return ExitCodeUnknown
	}

	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return ExitCodeSignalBase + int(ws.Signal())
	}

	if code := state.ExitCode(); code >= 0 {
		return code
	}
	return ExitCodeUnknown
}

// DryRunExecutor logs commands without running them and reports success.
type DryRunExecutor struct{}

var _ Executor = DryRunExecutor{}

func (DryRunExecutor) Run(ctx context.Context, cmd Command) (int, error) {
	slog.Info("dry run", "command", cmd.String(), "dir", cmd.Dir)
	return 0, nil
}
