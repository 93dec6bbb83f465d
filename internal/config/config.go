// Package config holds runtime configuration: defaults, environment and CLI
// flag parsing, and validation. Defaults match the MovieGen video bench
// layout: prompts, workflow, and clip names ComfyUI produces for it.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// --- Enum types for validated string fields ---

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// ProbeMode selects how clip durations are measured.
type ProbeMode string

const (
	ProbePlain ProbeMode = "plain" // ffprobe -show_entries format=duration (default).
	ProbeJSON  ProbeMode = "json"  // ffprobe JSON document via ffmpeg-go.
)

// Config holds all runtime settings. It is populated by [DefaultConfig],
// adjusted by [ApplyEnv] and [ParseFlags], and then passed (by pointer) to
// packages that need it. Nothing else in the module keeps settings in
// package-level state.
type Config struct {
	// Inputs.
	PromptsFile  string `validate:"required"`
	WorkflowFile string `validate:"required"`

	// Output layout. Generated clips live in OutputDir/OutputSubdir.
	OutputDir       string `validate:"required"`
	OutputSubdir    string // Default: "MovieGenVideoBench". Empty uses OutputDir directly.
	FilenamePrefix  string `validate:"required,excludesall=/\\"`
	VideoExt        string `validate:"required,alphanum"`
	FinalOutputName string `validate:"required,excludesall=/\\"`

	// Workflow template field that receives the prompt text.
	PromptNodeID    string `validate:"required"`
	PromptInputName string `validate:"required"`

	// ComfyUI endpoint. Both must be set to bypass discovery.
	APIHost string `validate:"omitempty,hostname_rfc1123|ip"`
	APIPort int    `validate:"min=0,max=65535"`

	// Timing.
	SubmitInterval time.Duration `validate:"min=0"` // Default: 1s between submissions.
	HTTPTimeout    time.Duration `validate:"min=0"` // Default: 30s per request.

	// Behavior flags.
	DryRun      bool
	Concat      bool
	StartOver   bool
	StrictQueue bool // Abort when the queue state cannot be determined.
	ProbeMode   ProbeMode

	// Display and logging.
	Verbose       bool
	ShowProgress  bool      // Default: true. Only drawn on a TTY.
	ColorMode     ColorMode // Default: "auto".
	LogFile       string    // Optional log file path.
	LogMaxSizeMB  int       `validate:"min=1"` // Default: 10.
	LogMaxBackups int       `validate:"min=0"` // Default: 3.
	CheckOnly     bool      // Run --check diagnostics and exit.
}

// DefaultOutputDir is the output base used when neither --output-dir nor
// the environment names one.
const DefaultOutputDir = "output"

// DefaultConfig returns a Config with all defaults matching the MovieGen
// bench script. Used as the base before env and flags apply overrides.
func DefaultConfig() Config {
	return Config{
		PromptsFile:     "MovieGenVideoBench.txt",
		WorkflowFile:    "MovieGen-API.json",
		OutputDir:       DefaultOutputDir,
		OutputSubdir:    "MovieGenVideoBench",
		FilenamePrefix:  "Bench",
		VideoExt:        "mp4",
		FinalOutputName: "MovieGenBench.FastWan5b.mp4",
		PromptNodeID:    "6",
		PromptInputName: "text",
		SubmitInterval:  time.Second,
		HTTPTimeout:     30 * time.Second,
		ProbeMode:       ProbePlain,
		ShowProgress:    true,
		ColorMode:       ColorAuto,
		LogMaxSizeMB:    10,
		LogMaxBackups:   3,
	}
}

// ClipDir returns the directory the generation server writes clips into.
func (c *Config) ClipDir() string {
	if c.OutputSubdir == "" {
		return c.OutputDir
	}
	return filepath.Join(c.OutputDir, c.OutputSubdir)
}

// ResolveOutputDir points a default, relative output base at the host's
// output folder when the working directory has none. exeDir is the
// directory of the running executable, installed two levels below the host
// root (custom_nodes/<node>/).
func (c *Config) ResolveOutputDir(exeDir string) {
	if c.OutputDir != DefaultOutputDir || exeDir == "" || isDir(c.OutputDir) {
		return
	}
	candidate := filepath.Join(exeDir, "..", "..", DefaultOutputDir)
	if isDir(candidate) {
		c.OutputDir = candidate
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// HasExplicitEndpoint reports whether both host and port were configured.
func (c *Config) HasExplicitEndpoint() bool {
	return c.APIHost != "" && c.APIPort > 0
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

var validate = validator.New()

// Validate checks enum fields and the struct tags on Config. Tag failures
// are reported one field at a time using the flag-facing field name.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	switch c.ProbeMode {
	case ProbePlain, ProbeJSON:
		// valid
	default:
		return errors.New("invalid probe mode (use 'plain' or 'json')")
	}

	c.VideoExt = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(c.VideoExt)), ".")

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fieldError(verrs[0])
		}
		return err
	}
	return nil
}

// flagNames maps struct fields to the CLI flag that sets them, so validation
// messages point at something the user can change.
var flagNames = map[string]string{
	"PromptsFile":     "--prompts-file",
	"WorkflowFile":    "--workflow",
	"OutputDir":       "--output-dir",
	"FilenamePrefix":  "--prefix",
	"VideoExt":        "--ext",
	"FinalOutputName": "--output-name",
	"PromptNodeID":    "--node-id",
	"PromptInputName": "--input-name",
	"APIHost":         "--api-host",
	"APIPort":         "--api-port",
	"SubmitInterval":  "--interval",
	"HTTPTimeout":     "--timeout",
	"LogMaxSizeMB":    "MOVIEGEN_LOG_MAX_SIZE",
	"LogMaxBackups":   "MOVIEGEN_LOG_MAX_BACKUPS",
}

func fieldError(fe validator.FieldError) error {
	name := flagNames[fe.Field()]
	if name == "" {
		name = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s must not be empty", name)
	case "min", "max":
		return fmt.Errorf("%s out of range (got %v)", name, fe.Value())
	case "excludesall":
		return fmt.Errorf("%s must not contain path separators (got %q)", name, fe.Value())
	case "alphanum":
		return fmt.Errorf("%s must be a plain extension like mp4 (got %q)", name, fe.Value())
	case "hostname_rfc1123|ip":
		return fmt.Errorf("%s is not a valid host name or IP (got %q)", name, fe.Value())
	default:
		return fmt.Errorf("invalid %s (got %v)", name, fe.Value())
	}
}
