// Package command runs external programs (ffprobe, ffmpeg, ps, the moviegen
// binary itself) behind small interfaces so callers can be tested with fakes.
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Result is the captured outcome of one command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// ExitError is returned alongside a Result when the command ran but exited
// non-zero.
type ExitError struct {
	Name   string
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", e.Name, e.Code)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		if i := strings.LastIndex(s, "\n"); i >= 0 {
			s = s[i+1:]
		}
		msg += ": " + s
	}
	return msg
}

// Runner runs a command to completion and captures its output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// Starter launches a command without waiting for it.
type Starter interface {
	Start(name string, args ...string) error
}

// ExecRunner is the os/exec backed Runner.
type ExecRunner struct {
	// Tee, when non-nil, receives stderr in real time as well.
	Tee io.Writer
}

// Run executes name with args. A missing binary or a context cancellation
// is returned as a plain error; a non-zero exit as *ExitError.
func (r ExecRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	if r.Tee != nil {
		cmd.Stderr = io.MultiWriter(&stderr, r.Tee)
	} else {
		cmd.Stderr = &stderr
	}

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return res, nil
	}

	var ee *exec.ExitError
	if errors.As(err, &ee) && ctx.Err() == nil {
		res.ExitCode = ee.ExitCode()
		return res, &ExitError{Name: name, Code: res.ExitCode, Stderr: res.Stderr}
	}
	res.ExitCode = -1
	if ctx.Err() != nil {
		return res, ctx.Err()
	}
	return res, fmt.Errorf("run %s: %w", name, err)
}

// ExecStarter starts detached processes with stdio discarded.
type ExecStarter struct{}

// Start launches name and releases it; the child outlives the caller.
func (ExecStarter) Start(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	detach(cmd)
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}

// ExitCode extracts the exit status from an error returned by a Runner.
// It returns 0 for nil and 1 for errors that carry no exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return 1
}

// LookPath reports whether name resolves on PATH.
func LookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// Self returns the path of the running executable, or os.Args[0] when the
// OS cannot tell.
func Self() string {
	p, err := os.Executable()
	if err != nil {
		return os.Args[0]
	}
	return p
}
