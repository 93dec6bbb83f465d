// Package commandtest provides a scripted command.Runner for tests.
package commandtest

import (
	"context"
	"strings"
	"sync"

	"github.com/fngarvin/moviegen/internal/command"
)

// Call records one invocation.
type Call struct {
	Name string
	Args []string
}

// String renders the call as a shell-ish line for assertions.
func (c Call) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Handler answers one invocation.
type Handler func(name string, args []string) (command.Result, error)

// Runner is a fake command.Runner. Calls are recorded in order; Handle
// decides the outcome (zero Result and nil error when unset).
type Runner struct {
	mu     sync.Mutex
	Handle Handler
	calls  []Call
}

// Run implements command.Runner.
func (r *Runner) Run(ctx context.Context, name string, args ...string) (command.Result, error) {
	r.mu.Lock()
	r.calls = append(r.calls, Call{Name: name, Args: append([]string(nil), args...)})
	h := r.Handle
	r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return command.Result{ExitCode: -1}, err
	}
	if h == nil {
		return command.Result{}, nil
	}
	return h(name, args)
}

// Calls returns a copy of the recorded invocations.
func (r *Runner) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Fail builds the Result/error pair of a command that exited with code.
func Fail(name string, code int, stderr string) (command.Result, error) {
	return command.Result{Stderr: stderr, ExitCode: code},
		&command.ExitError{Name: name, Code: code, Stderr: stderr}
}

// Starter is a fake command.Starter.
type Starter struct {
	mu    sync.Mutex
	Err   error
	calls []Call
}

// Start implements command.Starter.
func (s *Starter) Start(name string, args ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Name: name, Args: append([]string(nil), args...)})
	return s.Err
}

// Calls returns a copy of the recorded launches.
func (s *Starter) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}
