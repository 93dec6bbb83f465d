package config

// This file implements CLI flag parsing and help text.
// Flags are grouped into inputs, server, output, behavior, display, and utility.
// Negated flags (e.g. --no-progress) are applied after Parse so Config defaults hold unless set.

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrHelp is returned by ParseFlags after printing --help or --version output.
// Callers exit 0 when they see it.
var ErrHelp = errors.New("help requested")

// ParseFlags parses args (normally os.Args[1:]) into cfg. On --help or
// --version it prints to stderr/stdout and returns ErrHelp.
func ParseFlags(cfg *Config, args []string, version string) error {
	fs := flag.NewFlagSet("moviegen", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() { printUsage(os.Stderr, version) }

	// Negated/override flags: we capture bools then apply to cfg after Parse,
	// so that defaults from DefaultConfig() hold unless the user passes the flag.
	var negated negatedFlags

	defineInputFlags(fs, cfg)
	defineServerFlags(fs, cfg)
	defineOutputFlags(fs, cfg)
	defineBehaviorFlags(fs, cfg)
	defineDisplayFlags(fs, cfg, &negated)
	defineUtilityFlags(fs, &negated)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(os.Stderr, version)
			return ErrHelp
		}
		return err
	}

	applyNegatedFlags(cfg, &negated)

	if negated.showHelp {
		printUsage(os.Stderr, version)
		return ErrHelp
	}
	if negated.showVersion {
		fmt.Fprintln(os.Stdout, "moviegen v"+version)
		return ErrHelp
	}

	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected argument %q (all inputs are flags)", fs.Arg(0))
	}

	cfg.OutputDir = NormalizeDirArg(cfg.OutputDir)
	return nil
}

// negatedFlags holds boolean flags that are applied after Parse.
// These either invert a default (e.g. noProgress -> ShowProgress=false) or trigger exit (showHelp, showVersion).
type negatedFlags struct {
	noProgress  bool
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// defineInputFlags registers --prompts-file and --workflow.
func defineInputFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.PromptsFile, "prompts-file", cfg.PromptsFile, "Text file with one prompt per line")
	fs.StringVar(&cfg.WorkflowFile, "workflow", cfg.WorkflowFile, "ComfyUI API-format workflow JSON")
	fs.StringVar(&cfg.PromptNodeID, "node-id", cfg.PromptNodeID, "Workflow node that receives the prompt")
	fs.StringVar(&cfg.PromptInputName, "input-name", cfg.PromptInputName, "Input field on that node")
}

// defineServerFlags registers --api-host, --api-port, --timeout.
func defineServerFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.APIHost, "api-host", cfg.APIHost, "ComfyUI API host")
	fs.IntVar(&cfg.APIPort, "api-port", cfg.APIPort, "ComfyUI API port")
	fs.DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "Per-request HTTP timeout")
}

// defineOutputFlags registers --output-dir, --prefix, --ext, --output-name.
func defineOutputFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.OutputDir, "output-dir", cfg.OutputDir, "ComfyUI output directory")
	fs.StringVar(&cfg.OutputSubdir, "subdir", cfg.OutputSubdir, "Subdirectory holding the generated clips")
	fs.StringVar(&cfg.FilenamePrefix, "prefix", cfg.FilenamePrefix, "Clip filename prefix")
	fs.StringVar(&cfg.VideoExt, "ext", cfg.VideoExt, "Clip file extension")
	fs.StringVar(&cfg.FinalOutputName, "output-name", cfg.FinalOutputName, "Concatenated output file name")
}

// defineBehaviorFlags registers dry-run, concat, start-over, strict-queue, interval, probe.
func defineBehaviorFlags(fs *flag.FlagSet, cfg *Config) {
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Validate only; queue nothing, write nothing")
	fs.BoolVar(&cfg.DryRun, "d", false, "Same as --dry-run")
	fs.BoolVar(&cfg.Concat, "concat", false, "Concatenate existing clips instead of generating")
	fs.BoolVar(&cfg.Concat, "c", false, "Same as --concat")
	fs.BoolVar(&cfg.StartOver, "start-over", false, "Ignore existing clips and start from the first prompt")
	fs.BoolVar(&cfg.StrictQueue, "strict-queue", false, "Abort when the queue state cannot be read")
	fs.DurationVar(&cfg.SubmitInterval, "interval", cfg.SubmitInterval, "Pause between submissions")
	fs.Var(&probeModeValue{&cfg.ProbeMode}, "probe", "Duration probe: plain | json")
}

// defineDisplayFlags registers --color, --no-color, --no-progress, verbose, --check, --log.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&n.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&n.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&n.noProgress, "no-progress", false, "Do not draw the submission progress bar")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run system diagnostics and exit")
	fs.StringVar(&cfg.LogFile, "log", cfg.LogFile, "Append logs to file (rotated)")
	fs.StringVar(&cfg.LogFile, "l", cfg.LogFile, "Same as --log")
}

// defineUtilityFlags registers --version and --help.
func defineUtilityFlags(fs *flag.FlagSet, n *negatedFlags) {
	fs.BoolVar(&n.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&n.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&n.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&n.showHelp, "h", false, "Same as --help")
}

// applyNegatedFlags copies negated and override flag values into cfg.
func applyNegatedFlags(cfg *Config, n *negatedFlags) {
	if n.noProgress {
		cfg.ShowProgress = false
	}
	if n.noColor {
		cfg.ColorMode = ColorNever
	} else if n.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// printUsage writes the help text. Column-aligned for readability.
func printUsage(w io.Writer, version string) {
	const col1 = 30 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "MovieGen v" + version + " - ComfyUI prompt batcher"},
		{"", ""},
		{"  moviegen [OPTIONS]", ""},
		{"", ""},
		{"Inputs", ""},
		{"  --prompts-file <path>", "Prompts, one per line (default: MovieGenVideoBench.txt)"},
		{"  --workflow <path>", "API workflow JSON (default: MovieGen-API.json)"},
		{"  --node-id <id>", "Node that receives the prompt (default: 6)"},
		{"  --input-name <name>", "Input field on that node (default: text)"},
		{"", ""},
		{"Server", ""},
		{"  --api-host <host>", "ComfyUI host (else COMFYUI_HOST, ps, 127.0.0.1)"},
		{"  --api-port <port>", "ComfyUI port (else COMFYUI_PORT, ps, 8188)"},
		{"  --timeout <dur>", "Per-request HTTP timeout (default: 30s)"},
		{"", ""},
		{"Output", ""},
		{"  --output-dir <path>", "ComfyUI output directory (default: output)"},
		{"  --subdir <name>", "Clip subdirectory (default: MovieGenVideoBench)"},
		{"  --prefix <name>", "Clip filename prefix (default: Bench)"},
		{"  --ext <ext>", "Clip extension (default: mp4)"},
		{"  --output-name <name>", "Concatenated file name"},
		{"", ""},
		{"Behavior", ""},
		{"  -d, --dry-run", "Validate only; queue nothing, write nothing"},
		{"  -c, --concat", "Concatenate existing clips with chapters"},
		{"  --start-over", "Ignore existing clips, start from prompt 1"},
		{"  --strict-queue", "Abort when the queue state is unknown"},
		{"  --interval <dur>", "Pause between submissions (default: 1s)"},
		{"  --probe <plain|json>", "Duration probe mode (default: plain)"},
		{"", ""},
		{"Display", ""},
		{"  --no-progress", "Do not draw the progress bar"},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Verbose output"},
		{"", ""},
		{"Utility", ""},
		{"  -l, --log <path>", "Append logs to file"},
		{"  --check", "System diagnostics (ffmpeg, ffprobe, ComfyUI)"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(w)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(w, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(w, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(w, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}

// flag.Value adapter so ProbeMode can be used with flag.Var.

type probeModeValue struct{ p *ProbeMode }

func (v *probeModeValue) String() string {
	if v.p == nil {
		return ""
	}
	return string(*v.p)
}

func (v *probeModeValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "plain":
		*v.p = ProbePlain
	case "json":
		*v.p = ProbeJSON
	default:
		return fmt.Errorf("invalid probe mode %q (use 'plain' or 'json')", s)
	}
	return nil
}
