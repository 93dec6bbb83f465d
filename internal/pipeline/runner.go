package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/fngarvin/moviegen/internal/comfy"
	"github.com/fngarvin/moviegen/internal/command"
	"github.com/fngarvin/moviegen/internal/config"
	"github.com/fngarvin/moviegen/internal/display"
	"github.com/fngarvin/moviegen/internal/ffmpeg"
	"github.com/fngarvin/moviegen/internal/logging"
	"github.com/fngarvin/moviegen/internal/naming"
	"github.com/fngarvin/moviegen/internal/planner"
	"github.com/fngarvin/moviegen/internal/probe"
	"github.com/fngarvin/moviegen/internal/prompts"
)

// Errors returned by Driver.Run. Each has already been reported through the
// logger by the time it is returned.
var (
	ErrQueueBusy        = errors.New("ComfyUI queue is not empty")
	ErrQueueUnavailable = errors.New("ComfyUI queue state unknown")
	ErrNoPrompts        = errors.New("prompts file is empty")
	ErrNoClips          = errors.New("no matching clips")
	ErrConcatFailed     = errors.New("ffmpeg concat failed")
)

// Queue is the part of the ComfyUI client the driver talks to.
type Queue interface {
	QueueStatus(ctx context.Context) comfy.QueueStatus
	QueuePrompt(ctx context.Context, wf comfy.Workflow) (*comfy.PromptResponse, error)
}

// Driver runs one batch: generation or concatenation, as selected by Config.
type Driver struct {
	Config *config.Config
	Log    *logging.Logger
	Queue  Queue
	Runner command.Runner
	Prober probe.DurationProber

	// APIURL is only used in connection error messages.
	APIURL string

	// Sleep pauses between submissions. Nil uses a timer that returns
	// early with ctx.Err() on cancellation.
	Sleep func(ctx context.Context, d time.Duration) error

	// Progress receives the submission progress bar. Nil disables it.
	Progress io.Writer
}

// Run executes the batch and returns what it did.
//
// Flow:
//  1. Load prompts.
//  2. Gate on the queue: a busy queue aborts; an unreadable one only aborts
//     with StrictQueue.
//  3. Concat mode: merge existing clips. Otherwise submit the prompts after
//     the last completed clip.
func (d *Driver) Run(ctx context.Context) (RunStats, error) {
	var stats RunStats
	cfg, log := d.Config, d.Log

	list, err := prompts.Load(cfg.PromptsFile)
	if err != nil {
		if errors.Is(err, prompts.ErrPromptsNotFound) {
			log.Error("Error: Prompts file '%s' not found.", cfg.PromptsFile)
		} else {
			log.Error("Error: cannot read prompts file: %v", err)
		}
		return stats, err
	}
	stats.Prompts = len(list)

	if err := d.checkQueue(ctx); err != nil {
		return stats, err
	}

	if cfg.Concat {
		if cfg.DryRun {
			log.Success("Dry run successful: Concatenation arguments are valid.")
			return stats, nil
		}
		err := d.concat(ctx, list, &stats)
		return stats, err
	}
	err = d.generate(ctx, list, &stats)
	return stats, err
}

func (d *Driver) checkQueue(ctx context.Context) error {
	st := d.Queue.QueueStatus(ctx)
	switch {
	case st.Busy():
		d.Log.Error("Aborting: There are %d jobs already in the queue. Please wait for them to finish before starting a new batch.", st.Count())
		return fmt.Errorf("%w: %d job(s)", ErrQueueBusy, st.Count())
	case !st.Available():
		if d.Config.StrictQueue {
			d.Log.Error("Aborting: could not read the ComfyUI queue: %v", st.Err)
			return fmt.Errorf("%w: %v", ErrQueueUnavailable, st.Err)
		}
		d.Log.Warn("Could not read the ComfyUI queue (%v); continuing anyway", st.Err)
	default:
		d.Log.Debug(d.Config.Verbose, "Queue: %s", st)
	}
	return nil
}

// --- Generation ---

func (d *Driver) generate(ctx context.Context, list []string, stats *RunStats) error {
	cfg, log := d.Config, d.Log

	wf, err := comfy.LoadWorkflow(cfg.WorkflowFile)
	if err != nil {
		if errors.Is(err, comfy.ErrWorkflowNotFound) {
			log.Error("Error: Workflow file '%s' not found.", cfg.WorkflowFile)
		} else {
			log.Error("Error: %v", err)
		}
		return err
	}
	if len(list) == 0 {
		log.Warn("Warning: Prompts file is empty. Exiting.")
		return ErrNoPrompts
	}
	// Resolve the prompt field up front so a dry run rejects every template
	// the submission loop would.
	if _, err := wf.Input(cfg.PromptNodeID, cfg.PromptInputName); err != nil {
		if errors.Is(err, comfy.ErrInputsMissing) {
			log.Error("Error: Node ID '%s' has no inputs in the workflow.", cfg.PromptNodeID)
		} else {
			log.Error("Error: Node ID '%s' not found in the workflow.", cfg.PromptNodeID)
		}
		return err
	}

	if cfg.DryRun {
		log.Success("Dry run successful: Generation arguments are valid.")
		return nil
	}

	start := 0
	if !cfg.StartOver {
		pattern, err := naming.NewPattern(cfg.FilenamePrefix, cfg.VideoExt)
		if err != nil {
			log.Error("Error: %v", err)
			return err
		}
		start, err = LastCompletedIndex(cfg.ClipDir(), pattern)
		if err != nil {
			log.Error("Error: cannot scan %s: %v", cfg.ClipDir(), err)
			return err
		}
	}
	if start < 0 {
		start = 0
	}
	stats.StartIndex = start

	if stats.Remaining() == 0 {
		log.Success("Batch generation already complete. Exiting.")
		return nil
	}

	log.Info("Loaded %d prompts from '%s'.", len(list), cfg.PromptsFile)
	if start > 0 {
		log.Info("Resuming from index %d ('%s').", start, list[start])
	} else {
		log.Info("Starting batch from the beginning.")
	}
	log.Info("Starting batch generation...")

	bar := d.newBar(stats.Remaining())
	for i := start; i < len(list); i++ {
		if err := ctx.Err(); err != nil {
			log.Warn("Interrupted after %d submission(s)", stats.Submitted)
			return err
		}

		prompt := list[i]
		log.Submit("[%d/%d] Generating: '%s'", i+1, len(list), prompt)

		if err := wf.SetInput(cfg.PromptNodeID, cfg.PromptInputName, prompt); err != nil {
			log.Error("Error: Could not find node with ID '%s' or input '%s': %v", cfg.PromptNodeID, cfg.PromptInputName, err)
			return err
		}
		resp, err := d.Queue.QueuePrompt(ctx, wf)
		if err != nil {
			d.reportSubmitError(ctx, err)
			return err
		}
		stats.Submitted++
		if resp != nil {
			log.Debug(cfg.Verbose, "Queued as %s (#%d)", resp.PromptID, resp.Number)
		}
		if bar != nil {
			_ = bar.Add(1)
		}

		if i == len(list)-1 {
			break
		}
		if err := d.sleep(ctx, cfg.SubmitInterval); err != nil {
			log.Warn("Interrupted after %d submission(s)", stats.Submitted)
			return err
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	log.Success("Batch generation complete.")
	log.Info("Queued %d prompt(s); ComfyUI renders them in the background.", stats.Remaining())
	return nil
}

func (d *Driver) reportSubmitError(ctx context.Context, err error) {
	log := d.Log
	if ctx.Err() != nil {
		log.Warn("Interrupted while submitting")
		return
	}

	var apiErr *comfy.APIError
	if !errors.As(err, &apiErr) {
		log.Error("Error: Could not connect to ComfyUI API at %s.", d.APIURL)
		log.Error("Please ensure ComfyUI is running in API mode (--listen) and the port is correct.")
		log.Debug(d.Config.Verbose, "%v", err)
		return
	}

	log.Error("Error: ComfyUI rejected the prompt: %v", apiErr)
	ids := make([]string, 0, len(apiErr.NodeErrors))
	for id := range apiErr.NodeErrors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		ne := apiErr.NodeErrors[id]
		for _, e := range ne.Errors {
			log.Error("  node %s (%s): %s %s", id, ne.ClassType, e.Message, e.Details)
		}
	}
}

func (d *Driver) sleep(ctx context.Context, dur time.Duration) error {
	if d.Sleep != nil {
		return d.Sleep(ctx, dur)
	}
	return sleepContext(ctx, dur)
}

func sleepContext(ctx context.Context, dur time.Duration) error {
	if dur <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(dur)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (d *Driver) newBar(total int) *progressbar.ProgressBar {
	if d.Progress == nil || !d.Config.ShowProgress || total <= 1 {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(d.Progress),
		progressbar.OptionSetDescription("Submitting"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
	)
}

// --- Concatenation ---

// concat merges the clips in the clip directory into one chaptered file.
// The manifest and chapter files are removed after a successful merge and
// kept after a failed one so the ffmpeg call can be repeated by hand.
func (d *Driver) concat(ctx context.Context, list []string, stats *RunStats) error {
	cfg, log := d.Config, d.Log
	dir := cfg.ClipDir()

	log.Info("Preparing videos for concatenation...")

	pattern, err := naming.NewPattern(cfg.FilenamePrefix, cfg.VideoExt)
	if err != nil {
		log.Error("Error: %v", err)
		return err
	}
	clips, err := Discover(dir, pattern)
	if err != nil {
		if errors.Is(err, ErrOutputDirMissing) {
			log.Error("Error: Output directory '%s' not found.", dir)
		} else {
			log.Error("Error: cannot list %s: %v", dir, err)
		}
		return err
	}
	if len(clips) == 0 {
		log.Error("No video files found in the output directory that match the expected format. Exiting.")
		return fmt.Errorf("%w in %s", ErrNoClips, dir)
	}
	log.Debug(cfg.Verbose, "Found %d clips matching %s", len(clips), pattern)

	plan, err := planner.BuildPlan(ctx, clips, list, d.Prober)
	if err != nil {
		log.Warn("Interrupted while probing clips")
		return err
	}
	for _, w := range plan.Warnings {
		log.Warn("Warning: %s", w)
	}
	stats.Clips = len(plan.Clips)
	stats.Chapters = len(plan.Chapters)

	art := naming.GetArtifacts(dir, cfg.FinalOutputName)
	if err := planner.WriteFiles(plan, art.Manifest, art.Chapters); err != nil {
		log.Error("Error: %v", err)
		return err
	}
	log.Info("Concatenation and chapter files created (%d clips, %d chapters, %s).",
		stats.Clips, stats.Chapters, display.FormatMillis(plan.TotalMs))

	res := ffmpeg.Concat(ctx, d.Runner, art.Manifest, art.Chapters, art.Output, cfg.Verbose)
	log.Info("Running ffmpeg command: %s", strings.Join(res.Args, " "))
	if res.Err != nil {
		if ctx.Err() != nil {
			log.Warn("Interrupted; temporary files kept in %s", dir)
			return ctx.Err()
		}
		log.Error("Error: ffmpeg failed with exit code %d", res.ExitCode)
		log.Error("Output:\n%s\n%s", strings.TrimSpace(res.Stdout), strings.TrimSpace(res.Stderr))
		if res.Hint != "" {
			log.Error("Hint: %s", res.Hint)
		}
		return fmt.Errorf("%w: exit code %d", ErrConcatFailed, res.ExitCode)
	}

	log.Success("Videos concatenated successfully.")
	if info, err := os.Stat(art.Output); err == nil {
		stats.OutputSize = info.Size()
		log.Info("  -> %s (%s)", art.Output, display.FormatBytes(info.Size()))
	}

	for _, p := range []string{art.Manifest, art.Chapters} {
		if err := os.Remove(p); err != nil {
			log.Warn("Could not remove %s: %v", p, err)
		}
	}
	log.Info("Temporary files removed.")
	return nil
}
