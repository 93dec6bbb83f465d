package config

// Environment overrides sit between DefaultConfig and ParseFlags: a .env file
// or exported variables change the defaults, and flags still win.

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LookupFunc matches os.LookupEnv so tests can supply a fixed environment.
type LookupFunc func(key string) (string, bool)

// LoadDotEnv loads KEY=VALUE pairs from the given files (default ".env") into
// the process environment. Variables already set are left untouched and a
// missing file is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv copies MOVIEGEN_* variables into cfg. COMFYUI_OUTPUT_DIR is
// honored as the output base when MOVIEGEN_OUTPUT_DIR is unset, matching
// how the host application exposes its output folder.
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	str("MOVIEGEN_PROMPTS_FILE", &cfg.PromptsFile)
	str("MOVIEGEN_WORKFLOW", &cfg.WorkflowFile)
	str("COMFYUI_OUTPUT_DIR", &cfg.OutputDir)
	str("MOVIEGEN_OUTPUT_DIR", &cfg.OutputDir)
	str("MOVIEGEN_PREFIX", &cfg.FilenamePrefix)
	str("MOVIEGEN_NODE_ID", &cfg.PromptNodeID)
	str("MOVIEGEN_INPUT_NAME", &cfg.PromptInputName)
	str("MOVIEGEN_LOG_FILE", &cfg.LogFile)
	cfg.OutputDir = NormalizeDirArg(cfg.OutputDir)

	if v, ok := lookup("MOVIEGEN_INTERVAL"); ok && v != "" {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("MOVIEGEN_INTERVAL must be a duration like 1s (got %q)", v)
		}
		cfg.SubmitInterval = d
	}
	if v, ok := lookup("MOVIEGEN_LOG_MAX_SIZE"); ok && v != "" {
		n, err := parseInt(v, "MOVIEGEN_LOG_MAX_SIZE")
		if err != nil {
			return err
		}
		cfg.LogMaxSizeMB = n
	}
	if v, ok := lookup("MOVIEGEN_LOG_MAX_BACKUPS"); ok && v != "" {
		n, err := parseInt(v, "MOVIEGEN_LOG_MAX_BACKUPS")
		if err != nil {
			return err
		}
		cfg.LogMaxBackups = n
	}
	if v, ok := lookup("NO_COLOR"); ok && v != "" {
		cfg.ColorMode = ColorNever
	}
	return nil
}

// parseInt parses a whole number for numeric settings; returns a clear error on failure.
func parseInt(s, name string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%s must be a whole number (got %q)", name, s)
	}
	return n, nil
}
