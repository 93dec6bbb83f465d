// Command moviegen batches text prompts through a ComfyUI server and can
// concatenate the generated clips into one chaptered video.
//
// It loads .env and environment overrides, parses flags, locates the
// server, and then runs diagnostics (--check), a concatenation (--concat),
// or a resumable generation batch.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fngarvin/moviegen/internal/check"
	"github.com/fngarvin/moviegen/internal/comfy"
	"github.com/fngarvin/moviegen/internal/command"
	"github.com/fngarvin/moviegen/internal/config"
	"github.com/fngarvin/moviegen/internal/discovery"
	"github.com/fngarvin/moviegen/internal/display"
	"github.com/fngarvin/moviegen/internal/logging"
	"github.com/fngarvin/moviegen/internal/pipeline"
	"github.com/fngarvin/moviegen/internal/probe"
	"github.com/fngarvin/moviegen/internal/term"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap. The logger doesn't exist yet, so errors go
	// directly to stderr via fmt.
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "moviegen: %v\n", err)
		return 1
	}
	cfg := config.DefaultConfig()
	if err := config.ApplyEnv(&cfg, os.LookupEnv); err != nil {
		fmt.Fprintf(os.Stderr, "moviegen: %v\n", err)
		return 1
	}
	if err := config.ParseFlags(&cfg, os.Args[1:], version); err != nil {
		if errors.Is(err, config.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "moviegen: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "moviegen: %v\n", err)
		return 1
	}
	cfg.WorkflowFile = resolveWorkflow(cfg.WorkflowFile)
	cfg.ResolveOutputDir(filepath.Dir(command.Self()))

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "moviegen: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Logger available.
	if term.IsTerminal(os.Stdout) {
		display.PrintBanner(os.Stdout)
	}

	// Phase 3: Signal handling. Cancelling stops the batch between
	// submissions; jobs already queued on the server keep running.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := command.ExecRunner{}
	found := discovery.Resolve(ctx,
		discovery.Static{Host: cfg.APIHost, Port: cfg.APIPort},
		discovery.Env{Lookup: os.LookupEnv},
		discovery.Process{Runner: runner},
	)
	if !cfg.HasExplicitEndpoint() {
		found = found.WithOverrides(cfg.APIHost, cfg.APIPort)
	}
	client := comfy.NewClient(found.Endpoint.URL(), cfg.HTTPTimeout)

	if cfg.CheckOnly {
		ok := check.RunCheck(ctx, &cfg, log, check.Deps{
			Runner:   runner,
			Server:   client,
			Prober:   probe.NewJSONProber(cfg.HTTPTimeout),
			Endpoint: found,
		})
		if !ok {
			return 1
		}
		return 0
	}

	log.Info("=== MovieGen v%s (%s) ===", version, commit)
	log.Info("ComfyUI: %s (%s)", found.Endpoint.URL(), found.Source)
	log.Info("Prompts: %s", cfg.PromptsFile)
	log.Info("Clips:   %s", cfg.ClipDir())
	if cfg.DryRun {
		log.Warn("DRY RUN: nothing will be queued or written")
	}

	if cfg.Concat && !cfg.DryRun {
		if err := check.CheckDeps(nil); err != nil {
			log.Error("%v", err)
			return 1
		}
	}

	// ffmpeg's own progress is streamed live under --verbose.
	ffRunner := runner
	if cfg.Verbose {
		ffRunner.Tee = os.Stderr
	}

	driver := &pipeline.Driver{
		Config: &cfg,
		Log:    log,
		Queue:  client,
		Runner: ffRunner,
		Prober: probe.New(cfg.ProbeMode, runner),
		APIURL: client.BaseURL(),
	}
	if term.IsTerminal(os.Stderr) {
		driver.Progress = os.Stderr
	}

	stats, err := driver.Run(ctx)
	if err != nil {
		log.Debug(cfg.Verbose, "run stopped: %v (%d submitted)", err, stats.Submitted)
		return 1
	}
	return 0
}

// resolveWorkflow keeps a relative workflow path that exists in the working
// directory and otherwise looks for it next to the executable, where the
// node installation ships it.
func resolveWorkflow(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}
	candidate := filepath.Join(filepath.Dir(command.Self()), path)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return path
}
