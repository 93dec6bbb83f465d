// Package check provides system diagnostics (--check mode) and pre-concat
// dependency validation (CheckDeps) for ffmpeg, ffprobe, and the ComfyUI
// server.
package check

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/fngarvin/moviegen/internal/comfy"
	"github.com/fngarvin/moviegen/internal/command"
	"github.com/fngarvin/moviegen/internal/config"
	"github.com/fngarvin/moviegen/internal/discovery"
	"github.com/fngarvin/moviegen/internal/display"
	"github.com/fngarvin/moviegen/internal/naming"
	"github.com/fngarvin/moviegen/internal/pipeline"
	"github.com/fngarvin/moviegen/internal/probe"
	"github.com/fngarvin/moviegen/internal/prompts"
)

// Sentinel errors returned by CheckDeps when a required tool is missing.
var (
	ErrFfmpegNotFound  = errors.New("ffmpeg not found on PATH")
	ErrFfprobeNotFound = errors.New("ffprobe not found on PATH")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// Server is the part of the ComfyUI client RunCheck asks about.
type Server interface {
	QueueStatus(ctx context.Context) comfy.QueueStatus
	SystemStats(ctx context.Context) (*comfy.SystemStats, error)
}

// ClipProber reads the stream layout of one clip.
type ClipProber interface {
	Probe(ctx context.Context, path string) (*probe.ProbeResult, error)
}

// Deps carries what RunCheck probes. LookPath defaults to command.LookPath.
// A nil Prober skips inspecting the newest clip.
type Deps struct {
	Runner   command.Runner
	LookPath func(string) bool
	Server   Server
	Prober   ClipProber
	Endpoint discovery.Result
}

// RunCheck runs the interactive --check flow: tool versions, the server
// endpoint and where it came from, server and queue state, the workflow's
// prompt node, and what the clip directory already holds.
// It only reports; the return value is false when ffmpeg or ffprobe is
// missing.
func RunCheck(ctx context.Context, cfg *config.Config, log Logger, deps Deps) bool {
	log.Info("=== System Check ===")

	look := deps.LookPath
	if look == nil {
		look = command.LookPath
	}
	ok := checkTool(ctx, log, deps.Runner, look, "ffmpeg")
	ok = checkTool(ctx, log, deps.Runner, look, "ffprobe") && ok

	checkServer(ctx, log, deps)
	checkWorkflow(cfg, log)
	checkOutputs(ctx, cfg, log, deps.Prober)
	return ok
}

// checkTool verifies name is on PATH and logs the first line of -version.
func checkTool(ctx context.Context, log Logger, runner command.Runner, look func(string) bool, name string) bool {
	if !look(name) {
		log.Error("%s not found", name)
		return false
	}
	res, err := runner.Run(ctx, name, "-version")
	if err != nil {
		log.Warn("%s found but -version failed: %v", name, err)
		return true
	}
	firstLine := strings.TrimSpace(res.Stdout)
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Success("%s: %s", name, firstLine)
	return true
}

func checkServer(ctx context.Context, log Logger, deps Deps) {
	log.Info("ComfyUI endpoint: %s (from %s)", deps.Endpoint.Endpoint.URL(), deps.Endpoint.Source)
	if deps.Server == nil {
		return
	}

	stats, err := deps.Server.SystemStats(ctx)
	if err != nil {
		log.Warn("ComfyUI not reachable: %v", err)
	} else {
		log.Success("ComfyUI: %s", stats.Describe())
	}

	st := deps.Server.QueueStatus(ctx)
	switch {
	case !st.Available():
		log.Warn("Queue: %s", st)
	case st.Busy():
		log.Warn("Queue: %s (a new batch would abort)", st)
	default:
		log.Success("Queue: empty")
	}
}

func checkWorkflow(cfg *config.Config, log Logger) {
	wf, err := comfy.LoadWorkflow(cfg.WorkflowFile)
	if err != nil {
		log.Warn("Workflow: %v", err)
		return
	}
	if _, err := wf.Input(cfg.PromptNodeID, cfg.PromptInputName); err != nil {
		log.Error("Workflow %s: %v", cfg.WorkflowFile, err)
		return
	}
	log.Success("Workflow: %s (node %s, input %q)", cfg.WorkflowFile, cfg.PromptNodeID, cfg.PromptInputName)
}

func checkOutputs(ctx context.Context, cfg *config.Config, log Logger, prober ClipProber) {
	if list, err := prompts.Load(cfg.PromptsFile); err != nil {
		log.Warn("Prompts: %v", err)
	} else {
		log.Info("Prompts: %d in %s", len(list), cfg.PromptsFile)
	}

	pattern, err := naming.NewPattern(cfg.FilenamePrefix, cfg.VideoExt)
	if err != nil {
		log.Error("Clip pattern: %v", err)
		return
	}
	dir := cfg.ClipDir()
	clips, err := pipeline.Discover(dir, pattern)
	switch {
	case errors.Is(err, pipeline.ErrOutputDirMissing):
		log.Info("Clips: %s does not exist yet", dir)
		return
	case err != nil:
		log.Warn("Clips: %v", err)
		return
	}
	last, _ := pipeline.LastCompletedIndex(dir, pattern)
	log.Info("Clips: %d in %s, last completed index %d", len(clips), dir, last)
	log.Debug(cfg.Verbose, "Clip pattern: %s", pattern)

	if prober == nil || len(clips) == 0 {
		return
	}
	newest := clips[len(clips)-1]
	pr, err := prober.Probe(ctx, newest.Path)
	if err != nil {
		log.Warn("Newest clip %s: %v", newest.Name, err)
		return
	}
	log.Info("Newest clip: %s (%s, %s, %s)", newest.Name, pr.Resolution(),
		display.FormatMillis(int64(math.Round(pr.Duration()*1000))), display.FormatBytes(newest.Size))
}

// CheckDeps is the pre-concat validation: ffmpeg and ffprobe must be on
// PATH. lookPath defaults to command.LookPath.
func CheckDeps(lookPath func(string) bool) error {
	if lookPath == nil {
		lookPath = command.LookPath
	}
	if !lookPath("ffmpeg") {
		return ErrFfmpegNotFound
	}
	if !lookPath("ffprobe") {
		return ErrFfprobeNotFound
	}
	return nil
}
