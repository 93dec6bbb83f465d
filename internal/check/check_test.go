package check

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fngarvin/moviegen/internal/comfy"
	"github.com/fngarvin/moviegen/internal/command"
	"github.com/fngarvin/moviegen/internal/command/commandtest"
	"github.com/fngarvin/moviegen/internal/config"
	"github.com/fngarvin/moviegen/internal/discovery"
	"github.com/fngarvin/moviegen/internal/probe"
)

type mockLogger struct{ lines []string }

func (m *mockLogger) add(level, f string, a ...interface{}) {
	m.lines = append(m.lines, level+" "+fmt.Sprintf(f, a...))
}
func (m *mockLogger) Info(f string, a ...interface{})    { m.add("INFO", f, a...) }
func (m *mockLogger) Success(f string, a ...interface{}) { m.add("OK", f, a...) }
func (m *mockLogger) Warn(f string, a ...interface{})    { m.add("WARN", f, a...) }
func (m *mockLogger) Error(f string, a ...interface{})   { m.add("ERROR", f, a...) }
func (m *mockLogger) Debug(v bool, f string, a ...interface{}) {
	if v {
		m.add("DEBUG", f, a...)
	}
}

func (m *mockLogger) has(want string) bool {
	for _, l := range m.lines {
		if strings.Contains(l, want) {
			return true
		}
	}
	return false
}

type fakeServer struct {
	status comfy.QueueStatus
	stats  *comfy.SystemStats
	err    error
}

func (s fakeServer) QueueStatus(context.Context) comfy.QueueStatus { return s.status }
func (s fakeServer) SystemStats(context.Context) (*comfy.SystemStats, error) {
	return s.stats, s.err
}

type fakeClipProber struct {
	result *probe.ProbeResult
	err    error
	paths  []string
}

func (p *fakeClipProber) Probe(_ context.Context, path string) (*probe.ProbeResult, error) {
	p.paths = append(p.paths, path)
	return p.result, p.err
}

func onPath(names ...string) func(string) bool {
	return func(n string) bool {
		for _, x := range names {
			if x == n {
				return true
			}
		}
		return false
	}
}

func TestCheckDeps(t *testing.T) {
	tests := []struct {
		name string
		look func(string) bool
		want error
	}{
		{"both present", onPath("ffmpeg", "ffprobe"), nil},
		{"no ffmpeg", onPath("ffprobe"), ErrFfmpegNotFound},
		{"no ffprobe", onPath("ffmpeg"), ErrFfprobeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := CheckDeps(tt.look); !errors.Is(err, tt.want) {
				t.Errorf("CheckDeps = %v, want %v", err, tt.want)
			}
		})
	}
}

func checkConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.OutputDir = root
	cfg.PromptsFile = filepath.Join(root, "prompts.txt")
	cfg.WorkflowFile = filepath.Join(root, "wf.json")
	os.WriteFile(cfg.PromptsFile, []byte("one\ntwo\n"), 0o644)
	os.WriteFile(cfg.WorkflowFile, []byte(`{"6": {"inputs": {"text": ""}}}`), 0o644)
	os.MkdirAll(cfg.ClipDir(), 0o755)
	os.WriteFile(filepath.Join(cfg.ClipDir(), "Bench_00002_x.mp4"), []byte("x"), 0o644)
	return &cfg
}

func TestRunCheck_Healthy(t *testing.T) {
	cfg := checkConfig(t)
	runner := &commandtest.Runner{Handle: func(name string, args []string) (command.Result, error) {
		return command.Result{Stdout: name + " version 7.1 Copyright\nbuilt with gcc"}, nil
	}}
	stats := &comfy.SystemStats{}
	stats.System.ComfyUIVersion = "0.3.40"
	log := &mockLogger{}
	prober := &fakeClipProber{result: &probe.ProbeResult{
		Format:  probe.FormatInfo{Duration: 5.041},
		Streams: []probe.Stream{{CodecType: "audio"}, {CodecType: "video", Width: 1280, Height: 704}},
	}}

	ok := RunCheck(context.Background(), cfg, log, Deps{
		Runner:   runner,
		LookPath: onPath("ffmpeg", "ffprobe"),
		Server:   fakeServer{status: comfy.QueueStatus{State: comfy.QueueOccupied}, stats: stats},
		Prober:   prober,
		Endpoint: discovery.Result{Endpoint: discovery.Endpoint{Host: "127.0.0.1", Port: 8188}, Source: "process table"},
	})
	if !ok {
		t.Fatalf("RunCheck = false, log:\n%s", strings.Join(log.lines, "\n"))
	}
	for _, want := range []string{
		"OK ffmpeg: ffmpeg version 7.1 Copyright",
		"OK ffprobe: ffprobe version 7.1",
		"http://127.0.0.1:8188 (from process table)",
		"OK ComfyUI: ComfyUI 0.3.40",
		"OK Queue: empty",
		"node 6",
		"Prompts: 2",
		"Clips: 1 in",
		"last completed index 2",
		"Newest clip: Bench_00002_x.mp4 (1280x704, 0:00:05.041,",
	} {
		if !log.has(want) {
			t.Errorf("missing %q in:\n%s", want, strings.Join(log.lines, "\n"))
		}
	}
	if len(prober.paths) != 1 || filepath.Base(prober.paths[0]) != "Bench_00002_x.mp4" {
		t.Errorf("probed %v, want the newest clip only", prober.paths)
	}
}

func TestRunCheck_NewestClipProbeFails(t *testing.T) {
	cfg := checkConfig(t)
	log := &mockLogger{}
	RunCheck(context.Background(), cfg, log, Deps{
		Runner:   &commandtest.Runner{},
		LookPath: onPath("ffmpeg", "ffprobe"),
		Prober:   &fakeClipProber{err: errors.New("moov atom not found")},
	})
	if !log.has("WARN Newest clip Bench_00002_x.mp4: moov atom not found") {
		t.Errorf("probe failure not reported:\n%s", strings.Join(log.lines, "\n"))
	}
}

func TestRunCheck_Problems(t *testing.T) {
	cfg := checkConfig(t)
	cfg.PromptNodeID = "42"
	os.RemoveAll(cfg.ClipDir())
	log := &mockLogger{}

	ok := RunCheck(context.Background(), cfg, log, Deps{
		Runner:   &commandtest.Runner{},
		LookPath: onPath("ffmpeg"),
		Server: fakeServer{
			status: comfy.QueueStatus{State: comfy.QueueUnavailable, Err: errors.New("connection refused")},
			err:    errors.New("connection refused"),
		},
	})
	if ok {
		t.Error("RunCheck = true with ffprobe missing")
	}
	for _, want := range []string{
		"ERROR ffprobe not found",
		"WARN ComfyUI not reachable",
		"WARN Queue: unavailable",
		"workflow node not found",
		"does not exist yet",
	} {
		if !log.has(want) {
			t.Errorf("missing %q in:\n%s", want, strings.Join(log.lines, "\n"))
		}
	}
}
