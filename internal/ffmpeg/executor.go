package ffmpeg

import (
	"context"

	"github.com/fngarvin/moviegen/internal/command"
)

// ExecResult holds the outcome of a single ffmpeg merge.
type ExecResult struct {
	Args     []string
	Stdout   string
	Stderr   string
	ExitCode int
	Hint     string
	Err      error
}

// Concat builds and runs the merge through runner. Output is captured for
// the caller to report; nothing is retried.
func Concat(ctx context.Context, runner command.Runner, manifest, chapters, output string, verbose bool) ExecResult {
	args := BuildConcat(manifest, chapters, output, verbose)
	res, err := runner.Run(ctx, args[0], args[1:]...)
	r := ExecResult{
		Args:     args,
		Stdout:   res.Stdout,
		Stderr:   res.Stderr,
		ExitCode: res.ExitCode,
		Err:      err,
	}
	if err != nil {
		r.ExitCode = command.ExitCode(err)
		r.Hint = Hint(res.Stderr)
	}
	return r
}
