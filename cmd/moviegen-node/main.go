// Command moviegen-node is the host-side launcher: a ComfyUI custom node
// (or any other host) calls it to run moviegen and shows the one-line
// status it prints.
//
// Generation batches are started detached so the host is not blocked for
// the length of the batch. Concatenation runs to completion.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fngarvin/moviegen/internal/command"
	"github.com/fngarvin/moviegen/internal/config"
	"github.com/fngarvin/moviegen/internal/launcher"
	"github.com/fngarvin/moviegen/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "moviegen-node: %v\n", err)
		return 1
	}

	self := command.Self()
	opts := launcher.Options{
		Binary:  defaultBinary(self),
		NodeDir: filepath.Dir(self),
	}

	fs := flag.NewFlagSet("moviegen-node", flag.ContinueOnError)
	fs.StringVar(&opts.PromptsFile, "prompts-file", "MovieGenVideoBench.txt", "Prompts file (relative to the node directory)")
	fs.StringVar(&opts.OutputDir, "output-dir", os.Getenv("COMFYUI_OUTPUT_DIR"), "ComfyUI output directory")
	fs.BoolVar(&opts.ConcatOnly, "concat-only", false, "Concatenate existing clips instead of generating")
	fs.StringVar(&opts.Binary, "moviegen", opts.Binary, "moviegen executable")
	fs.StringVar(&opts.NodeDir, "node-dir", opts.NodeDir, "Directory relative prompts paths resolve against")
	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	opts.ExtraArgs = fs.Args()

	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "moviegen-node: %v\n", err)
		return 1
	}
	defer log.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := launcher.Launch(ctx, command.ExecRunner{}, command.ExecStarter{}, opts, log)
	fmt.Println(out.Message)
	if !out.OK {
		return 1
	}
	return 0
}

// defaultBinary prefers a moviegen installed next to this launcher and
// falls back to a PATH lookup.
func defaultBinary(self string) string {
	sibling := filepath.Join(filepath.Dir(self), "moviegen")
	if info, err := os.Stat(sibling); err == nil && !info.IsDir() {
		return sibling
	}
	return "moviegen"
}
