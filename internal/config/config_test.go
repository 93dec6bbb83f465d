package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNormalizeDirArg(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no trailing slash", "/comfy/output", "/comfy/output"},
		{"single trailing slash", "/comfy/output/", "/comfy/output"},
		{"multiple trailing slashes", "/comfy/output///", "/comfy/output"},
		{"root path", "/", "/"},
		{"relative path", "output", "output"},
		{"relative with slash", "output/", "output"},
		{"empty string", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDirArg(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeDirArg(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
	if cfg.SubmitInterval != time.Second {
		t.Errorf("SubmitInterval = %v, want 1s", cfg.SubmitInterval)
	}
	if cfg.PromptNodeID != "6" || cfg.PromptInputName != "text" || cfg.FilenamePrefix != "Bench" {
		t.Errorf("unexpected workflow defaults: %+v", cfg)
	}
}

func TestValidate_ColorMode(t *testing.T) {
	tests := []struct {
		name    string
		mode    ColorMode
		wantErr bool
	}{
		{"auto", ColorAuto, false},
		{"always", ColorAlways, false},
		{"never", ColorNever, false},
		{"empty", "", true},
		{"unknown", "sometimes", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.ColorMode = tt.mode
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_ProbeMode(t *testing.T) {
	tests := []struct {
		name    string
		mode    ProbeMode
		wantErr bool
	}{
		{"plain", ProbePlain, false},
		{"json", ProbeJSON, false},
		{"empty", "", true},
		{"unknown", "mediainfo", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.ProbeMode = tt.mode
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_Fields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"empty prompts file", func(c *Config) { c.PromptsFile = "" }, true},
		{"empty node id", func(c *Config) { c.PromptNodeID = "" }, true},
		{"empty input name", func(c *Config) { c.PromptInputName = "" }, true},
		{"prefix with slash", func(c *Config) { c.FilenamePrefix = "a/b" }, true},
		{"output name with slash", func(c *Config) { c.FinalOutputName = "../x.mp4" }, true},
		{"port too large", func(c *Config) { c.APIPort = 70000 }, true},
		{"negative port", func(c *Config) { c.APIPort = -1 }, true},
		{"valid port", func(c *Config) { c.APIPort = 8188 }, false},
		{"ip host", func(c *Config) { c.APIHost = "192.168.1.20" }, false},
		{"name host", func(c *Config) { c.APIHost = "comfy.local" }, false},
		{"bad host", func(c *Config) { c.APIHost = "not a host" }, true},
		{"negative interval", func(c *Config) { c.SubmitInterval = -time.Second }, true},
		{"zero interval", func(c *Config) { c.SubmitInterval = 0 }, false},
		{"ext with dot", func(c *Config) { c.VideoExt = ".MKV" }, false},
		{"ext with junk", func(c *Config) { c.VideoExt = "mp*" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_NormalizesExt(t *testing.T) {
	cfg := DefaultConfig()
	cfg.VideoExt = ".MKV"
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.VideoExt != "mkv" {
		t.Errorf("VideoExt = %q, want mkv", cfg.VideoExt)
	}
}

func TestClipDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OutputDir = "/comfy/output"
	if got, want := cfg.ClipDir(), filepath.Join("/comfy/output", "MovieGenVideoBench"); got != want {
		t.Errorf("ClipDir() = %q, want %q", got, want)
	}
	cfg.OutputSubdir = ""
	if got := cfg.ClipDir(); got != "/comfy/output" {
		t.Errorf("ClipDir() without subdir = %q", got)
	}
}

func TestResolveOutputDir(t *testing.T) {
	root := t.TempDir()
	exeDir := filepath.Join(root, "custom_nodes", "moviegen")
	hostOutput := filepath.Join(root, "output")
	for _, d := range []string{exeDir, hostOutput} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	bare := t.TempDir()

	tests := []struct {
		name   string
		output string
		exeDir string
		want   string
	}{
		{"default uses host output", DefaultOutputDir, exeDir, hostOutput},
		{"explicit kept", "/data/out", exeDir, "/data/out"},
		{"no host output", DefaultOutputDir, filepath.Join(bare, "a", "b"), DefaultOutputDir},
		{"unknown executable", DefaultOutputDir, "", DefaultOutputDir},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.OutputDir = tt.output
			cfg.ResolveOutputDir(tt.exeDir)
			if cfg.OutputDir != tt.want {
				t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, tt.want)
			}
		})
	}
}

func TestParseFlags(t *testing.T) {
	cfg := DefaultConfig()
	args := []string{
		"--prompts-file", "bench.txt",
		"--output-dir", "/comfy/output/",
		"--api-host", "10.0.0.5",
		"--api-port", "8190",
		"-c",
		"--start-over",
		"--interval", "250ms",
		"--probe", "json",
		"--no-color",
		"--no-progress",
	}
	if err := ParseFlags(&cfg, args, "test"); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	if cfg.PromptsFile != "bench.txt" {
		t.Errorf("PromptsFile = %q", cfg.PromptsFile)
	}
	if cfg.OutputDir != "/comfy/output" {
		t.Errorf("OutputDir = %q (trailing slash should be stripped)", cfg.OutputDir)
	}
	if !cfg.HasExplicitEndpoint() || cfg.APIHost != "10.0.0.5" || cfg.APIPort != 8190 {
		t.Errorf("endpoint = %s:%d", cfg.APIHost, cfg.APIPort)
	}
	if !cfg.Concat || !cfg.StartOver {
		t.Errorf("Concat=%v StartOver=%v, want both true", cfg.Concat, cfg.StartOver)
	}
	if cfg.SubmitInterval != 250*time.Millisecond {
		t.Errorf("SubmitInterval = %v", cfg.SubmitInterval)
	}
	if cfg.ProbeMode != ProbeJSON {
		t.Errorf("ProbeMode = %q", cfg.ProbeMode)
	}
	if cfg.ColorMode != ColorNever || cfg.ShowProgress {
		t.Errorf("ColorMode=%q ShowProgress=%v", cfg.ColorMode, cfg.ShowProgress)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"--frobnicate"}},
		{"positional arg", []string{"prompts.txt"}},
		{"bad probe mode", []string{"--probe", "exif"}},
		{"bad port", []string{"--api-port", "eighty"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			if err := ParseFlags(&cfg, tt.args, "test"); err == nil {
				t.Errorf("ParseFlags(%v) = nil, want error", tt.args)
			}
		})
	}
}

func TestParseFlags_Version(t *testing.T) {
	cfg := DefaultConfig()
	err := ParseFlags(&cfg, []string{"--version"}, "test")
	if !errors.Is(err, ErrHelp) {
		t.Errorf("ParseFlags(--version) = %v, want ErrHelp", err)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"COMFYUI_OUTPUT_DIR":    "/srv/comfy/output/",
		"MOVIEGEN_PREFIX":       "Clip",
		"MOVIEGEN_INTERVAL":     "2s",
		"MOVIEGEN_LOG_MAX_SIZE": "50",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := DefaultConfig()
	if err := ApplyEnv(&cfg, lookup); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.OutputDir != "/srv/comfy/output" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
	if cfg.FilenamePrefix != "Clip" {
		t.Errorf("FilenamePrefix = %q", cfg.FilenamePrefix)
	}
	if cfg.SubmitInterval != 2*time.Second {
		t.Errorf("SubmitInterval = %v", cfg.SubmitInterval)
	}
	if cfg.LogMaxSizeMB != 50 {
		t.Errorf("LogMaxSizeMB = %d", cfg.LogMaxSizeMB)
	}

	// MOVIEGEN_OUTPUT_DIR wins over the host-provided directory.
	env["MOVIEGEN_OUTPUT_DIR"] = "/data/out"
	cfg = DefaultConfig()
	if err := ApplyEnv(&cfg, lookup); err != nil {
		t.Fatal(err)
	}
	if cfg.OutputDir != "/data/out" {
		t.Errorf("OutputDir = %q, want /data/out", cfg.OutputDir)
	}
}

func TestApplyEnv_BadValues(t *testing.T) {
	for _, kv := range [][2]string{
		{"MOVIEGEN_INTERVAL", "soon"},
		{"MOVIEGEN_LOG_MAX_SIZE", "big"},
		{"MOVIEGEN_LOG_MAX_BACKUPS", "-x"},
	} {
		cfg := DefaultConfig()
		lookup := func(k string) (string, bool) {
			if k == kv[0] {
				return kv[1], true
			}
			return "", false
		}
		if err := ApplyEnv(&cfg, lookup); err == nil {
			t.Errorf("ApplyEnv(%s=%s) = nil, want error", kv[0], kv[1])
		}
	}
}

func TestLoadDotEnv_MissingFileIsFine(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("LoadDotEnv(missing) = %v, want nil", err)
	}
}
