// Package launcher runs moviegen on behalf of a host application (a
// ComfyUI custom node or similar). It reports a one-line status message the
// host can show to its user.
package launcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fngarvin/moviegen/internal/command"
)

// Options describes one launch.
type Options struct {
	Binary      string // moviegen executable
	NodeDir     string // relative prompts paths resolve against this
	PromptsFile string
	OutputDir   string
	ConcatOnly  bool
	ExtraArgs   []string // passed through to every moviegen invocation
}

// Outcome is the status reported back to the host.
type Outcome struct {
	Message string
	OK      bool
}

// Logger is the minimal logging interface needed by Launch.
type Logger interface {
	Info(string, ...interface{})
	Error(string, ...interface{})
}

// Launch validates with a blocking dry run, then either runs a blocking
// concatenation or starts a detached generation batch and returns at once.
func Launch(ctx context.Context, runner command.Runner, starter command.Starter, opts Options, log Logger) Outcome {
	base := baseArgs(opts)

	check := append(append([]string{}, base...), "--dry-run")
	if opts.ConcatOnly {
		check = append(check, "--concat")
	}
	log.Info("Executing dry run check: %s", render(opts.Binary, check))
	res, err := runner.Run(ctx, opts.Binary, check...)
	if err != nil {
		code := command.ExitCode(err)
		log.Error("Dry run failed: %s", strings.TrimSpace(res.Stdout+"\n"+res.Stderr))
		return Outcome{Message: fmt.Sprintf("Dry run failed with exit code %d.", code)}
	}

	if opts.ConcatOnly {
		args := append(append([]string{}, base...), "--concat")
		log.Info("Executing MovieGen: %s", render(opts.Binary, args))
		res, err := runner.Run(ctx, opts.Binary, args...)
		if err != nil {
			log.Error("Concatenation failed. Output:\n%s", strings.TrimSpace(res.Stderr))
			return Outcome{Message: fmt.Sprintf("Error: Concatenation failed with exit code %d.", command.ExitCode(err))}
		}
		log.Info("Concatenation completed successfully. Output:\n%s", strings.TrimSpace(res.Stdout))
		return Outcome{Message: "Concatenation completed successfully.", OK: true}
	}

	log.Info("Executing MovieGen: %s", render(opts.Binary, base))
	if err := starter.Start(opts.Binary, base...); err != nil {
		return Outcome{Message: fmt.Sprintf("Error: could not launch batch process: %v", err)}
	}
	return Outcome{Message: "Batch process launched successfully.", OK: true}
}

// ResolvePrompts joins a relative prompts path onto the node directory.
func ResolvePrompts(nodeDir, prompts string) string {
	if filepath.IsAbs(prompts) || nodeDir == "" {
		return prompts
	}
	return filepath.Join(nodeDir, prompts)
}

func baseArgs(opts Options) []string {
	args := []string{"--prompts-file", ResolvePrompts(opts.NodeDir, opts.PromptsFile)}
	if opts.OutputDir != "" {
		args = append(args, "--output-dir", opts.OutputDir)
	}
	return append(args, opts.ExtraArgs...)
}

func render(bin string, args []string) string {
	return bin + " " + strings.Join(args, " ")
}
