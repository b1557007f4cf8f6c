// Package runner executes composed step commands through bash.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/me/circuitbuild/internal/logging"
)

// Shell interprets composed commands. They use pipefail and heredocs.
const Shell = "bash"

// ErrStepFailed is wrapped by ExitError.
var ErrStepFailed = errors.New("step failed")

// ExitError reports a step that ran but exited non-zero.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string { return fmt.Sprintf("step exited with status %d", e.Code) }

func (e *ExitError) Unwrap() error { return ErrStepFailed }

// Result captures what the shell printed itself. The step's own output
// goes to its log file through the redirection of the composed command.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// CommandRunner abstracts process execution for testing.
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) (stdout, stderr string, exitCode int, err error)
}

// osCommandRunner is the real implementation using os/exec.
type osCommandRunner struct{}

func (osCommandRunner) Run(ctx context.Context, dir, name string, args ...string) (string, string, int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	runErr := cmd.Run()
	stdout := stdoutBuf.String()
	stderr := stderrBuf.String()

	switch e := runErr.(type) {
	case nil:
		return stdout, stderr, 0, nil
	case *exec.ExitError:
		return stdout, stderr, e.ExitCode(), nil
	default:
		return stdout, stderr, -1, runErr
	}
}

// Runner runs composed commands from a working directory, normally the
// circuit directory.
type Runner struct {
	dir    string
	runner CommandRunner
	logger *slog.Logger
}

// New creates a Runner executing in dir ("" for the current directory).
func New(dir string, logger *slog.Logger) *Runner {
	return newWithRunner(dir, osCommandRunner{}, logger)
}

func newWithRunner(dir string, runner CommandRunner, logger *slog.Logger) *Runner {
	return &Runner{dir: dir, runner: runner, logger: logging.Component(logger, "runner")}
}

// Run executes composed with bash -c. A non-zero exit is returned as an
// *ExitError alongside the result; it is never retried.
func (r *Runner) Run(ctx context.Context, composed string) (Result, error) {
	if composed == "" {
		return Result{}, fmt.Errorf("runner: empty command")
	}
	r.logger.Debug("running step", "dir", r.dir)
	stdout, stderr, code, err := r.runner.Run(ctx, r.dir, Shell, "-c", composed)
	res := Result{ExitCode: code, Stdout: stdout, Stderr: stderr}
	if err != nil {
		return res, fmt.Errorf("runner: %w", err)
	}
	if code != 0 {
		r.logger.Error("step failed", "exit_code", code)
		return res, &ExitError{Code: code}
	}
	return res, nil
}
