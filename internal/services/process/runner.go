// Package process spawns short-lived introspection subprocesses with bounded runtime.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"
)

const (
	defaultAttemptTimeout = 8 * time.Second
	waitDelay             = 500 * time.Millisecond
)

var (
	// ErrEmptyArgv is returned when a run is requested without a program name.
	ErrEmptyArgv = errors.New("empty argument vector")
	// ErrTimedOut marks an attempt that exceeded its time budget.
	ErrTimedOut = errors.New("process timed out")
)

// quietEnvironment keeps pagers and credential prompts from blocking a capture.
var quietEnvironment = []string{
	"PAGER=cat",
	"MANPAGER=cat",
	"GIT_PAGER=cat",
	"TERM=dumb",
	"GIT_TERMINAL_PROMPT=0",
}

// Result captures the outcome of one subprocess attempt.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

// Succeeded reports whether the process started and exited with status zero.
func (result Result) Succeeded() bool {
	return result.Err == nil && result.ExitCode == 0
}

// TimedOut reports whether the attempt was cut short by its time budget.
func (result Result) TimedOut() bool {
	return errors.Is(result.Err, ErrTimedOut)
}

// Runner executes an argument vector with a per-attempt timeout.
type Runner interface {
	Run(ctx context.Context, timeout time.Duration, argv ...string) Result
}

// ExecutableResolver locates executables on PATH.
type ExecutableResolver interface {
	LookPath(name string) (string, error)
}

// SystemRunner runs real processes without a shell.
type SystemRunner struct {
	environment []string
}

// NewSystemRunner returns a runner that inherits the current environment plus pager overrides.
func NewSystemRunner() *SystemRunner {
	environment := append([]string{}, os.Environ()...)
	environment = append(environment, quietEnvironment...)
	return &SystemRunner{environment: environment}
}

// Run executes argv, never through a shell, and kills the whole process group on timeout.
func (runner *SystemRunner) Run(ctx context.Context, timeout time.Duration, argv ...string) Result {
	if len(argv) == 0 || argv[0] == "" {
		return Result{ExitCode: -1, Err: ErrEmptyArgv}
	}
	if timeout <= 0 {
		timeout = defaultAttemptTimeout
	}
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// #nosec G204
	command := exec.CommandContext(attemptCtx, argv[0], argv[1:]...)
	command.Env = runner.environment
	var stdoutBuffer, stderrBuffer bytes.Buffer
	command.Stdout = &stdoutBuffer
	command.Stderr = &stderrBuffer
	configureCommandProcess(command)
	command.Cancel = func() error {
		terminateCommandProcess(command)
		return nil
	}
	command.WaitDelay = waitDelay

	runErr := command.Run()
	result := Result{
		Stdout: stdoutBuffer.String(),
		Stderr: stderrBuffer.String(),
	}
	if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
		result.ExitCode = -1
		result.Err = fmt.Errorf("%w after %s: %s", ErrTimedOut, timeout, argv[0])
		return result
	}
	if runErr != nil {
		var exitError *exec.ExitError
		if errors.As(runErr, &exitError) {
			result.ExitCode = exitError.ExitCode()
			return result
		}
		result.ExitCode = -1
		result.Err = fmt.Errorf("run %s: %w", argv[0], runErr)
		return result
	}
	return result
}

// PathResolver resolves executables with exec.LookPath.
type PathResolver struct{}

// LookPath delegates to exec.LookPath.
func (PathResolver) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

var (
	_ Runner             = (*SystemRunner)(nil)
	_ ExecutableResolver = PathResolver{}
)
