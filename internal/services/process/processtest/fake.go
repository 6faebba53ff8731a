// Package processtest provides scripted process runners for tests.
package processtest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/temirov/basher/internal/services/process"
)

var errNotScripted = errors.New("executable file not found")

// Runner replays scripted results keyed by the space-joined argument vector.
// Unscripted invocations fail as if the program did not exist.
type Runner struct {
	Delay time.Duration

	mutex          sync.Mutex
	responses      map[string]process.Result
	calls          []string
	active         int
	peakConcurrent int
}

// NewRunner returns an empty scripted runner.
func NewRunner() *Runner {
	return &Runner{responses: map[string]process.Result{}}
}

// Script registers the result returned for argv.
func (runner *Runner) Script(result process.Result, argv ...string) *Runner {
	runner.mutex.Lock()
	defer runner.mutex.Unlock()
	runner.responses[strings.Join(argv, " ")] = result
	return runner
}

// Stdout scripts a successful invocation printing output.
func (runner *Runner) Stdout(output string, argv ...string) *Runner {
	return runner.Script(process.Result{Stdout: output}, argv...)
}

// Run implements process.Runner.
func (runner *Runner) Run(ctx context.Context, timeout time.Duration, argv ...string) process.Result {
	key := strings.Join(argv, " ")
	runner.mutex.Lock()
	runner.calls = append(runner.calls, key)
	runner.active++
	if runner.active > runner.peakConcurrent {
		runner.peakConcurrent = runner.active
	}
	response, found := runner.responses[key]
	runner.mutex.Unlock()

	defer func() {
		runner.mutex.Lock()
		runner.active--
		runner.mutex.Unlock()
	}()

	if runner.Delay > 0 {
		select {
		case <-time.After(runner.Delay):
		case <-ctx.Done():
			return process.Result{ExitCode: -1, Err: fmt.Errorf("%w: %s", process.ErrTimedOut, key)}
		}
	}
	if !found {
		return process.Result{ExitCode: -1, Err: fmt.Errorf("%w: %s", errNotScripted, key)}
	}
	return response
}

// Calls returns every invocation in arrival order.
func (runner *Runner) Calls() []string {
	runner.mutex.Lock()
	defer runner.mutex.Unlock()
	return append([]string{}, runner.calls...)
}

// CallsWithPrefix counts invocations whose joined argv starts with prefix.
func (runner *Runner) CallsWithPrefix(prefix string) int {
	count := 0
	for _, call := range runner.Calls() {
		if strings.HasPrefix(call, prefix) {
			count++
		}
	}
	return count
}

// PeakConcurrency reports the largest number of simultaneous invocations observed.
func (runner *Runner) PeakConcurrency() int {
	runner.mutex.Lock()
	defer runner.mutex.Unlock()
	return runner.peakConcurrent
}

// Resolver resolves only the executables it was given.
type Resolver map[string]string

// LookPath implements process.ExecutableResolver.
func (resolver Resolver) LookPath(name string) (string, error) {
	if path, found := resolver[name]; found {
		return path, nil
	}
	return "", fmt.Errorf("%w: %s", errNotScripted, name)
}

var (
	_ process.Runner             = (*Runner)(nil)
	_ process.ExecutableResolver = Resolver{}
)
