package launcher

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fngarvin/moviegen/internal/command"
	"github.com/fngarvin/moviegen/internal/command/commandtest"
)

type memLogger struct{ lines []string }

func (l *memLogger) Info(f string, a ...interface{})  { l.lines = append(l.lines, f) }
func (l *memLogger) Error(f string, a ...interface{}) { l.lines = append(l.lines, f) }

func opts(concat bool) Options {
	return Options{
		Binary:      "/opt/moviegen/moviegen",
		NodeDir:     "/comfy/custom_nodes/moviegen",
		PromptsFile: "MovieGenVideoBench.txt",
		OutputDir:   "/comfy/output",
		ConcatOnly:  concat,
	}
}

func TestLaunch_Generation(t *testing.T) {
	r := &commandtest.Runner{}
	s := &commandtest.Starter{}
	out := Launch(context.Background(), r, s, opts(false), &memLogger{})

	if !out.OK || out.Message != "Batch process launched successfully." {
		t.Errorf("Outcome = %+v", out)
	}
	calls := r.Calls()
	if len(calls) != 1 || !strings.HasSuffix(calls[0].String(), "--dry-run") {
		t.Fatalf("runner calls = %v, want one dry run", calls)
	}
	prompts := filepath.Join("/comfy/custom_nodes/moviegen", "MovieGenVideoBench.txt")
	if !strings.Contains(calls[0].String(), "--prompts-file "+prompts) {
		t.Errorf("dry run did not resolve prompts against node dir: %s", calls[0])
	}
	started := s.Calls()
	if len(started) != 1 {
		t.Fatalf("starter calls = %v", started)
	}
	want := "/opt/moviegen/moviegen --prompts-file " + prompts + " --output-dir /comfy/output"
	if started[0].String() != want {
		t.Errorf("started %q, want %q", started[0], want)
	}
}

func TestLaunch_DryRunFails(t *testing.T) {
	r := &commandtest.Runner{Handle: func(name string, args []string) (command.Result, error) {
		return commandtest.Fail(name, 1, "Prompts file not found")
	}}
	s := &commandtest.Starter{}
	out := Launch(context.Background(), r, s, opts(false), &memLogger{})

	if out.OK || out.Message != "Dry run failed with exit code 1." {
		t.Errorf("Outcome = %+v", out)
	}
	if len(s.Calls()) != 0 {
		t.Error("batch started after failed dry run")
	}
}

func TestLaunch_ConcatOnly(t *testing.T) {
	r := &commandtest.Runner{}
	out := Launch(context.Background(), r, &commandtest.Starter{}, opts(true), &memLogger{})
	if !out.OK || out.Message != "Concatenation completed successfully." {
		t.Errorf("Outcome = %+v", out)
	}
	calls := r.Calls()
	if len(calls) != 2 {
		t.Fatalf("calls = %v, want dry run + concat", calls)
	}
	if !strings.Contains(calls[0].String(), "--dry-run --concat") {
		t.Errorf("dry run = %s", calls[0])
	}
	if !strings.HasSuffix(calls[1].String(), "--concat") || strings.Contains(calls[1].String(), "--dry-run") {
		t.Errorf("concat = %s", calls[1])
	}
}

func TestLaunch_ConcatFails(t *testing.T) {
	n := 0
	r := &commandtest.Runner{Handle: func(name string, args []string) (command.Result, error) {
		n++
		if n == 2 {
			return commandtest.Fail(name, 1, "ffmpeg failed")
		}
		return command.Result{}, nil
	}}
	out := Launch(context.Background(), r, &commandtest.Starter{}, opts(true), &memLogger{})
	if out.OK || out.Message != "Error: Concatenation failed with exit code 1." {
		t.Errorf("Outcome = %+v", out)
	}
}

func TestLaunch_StartFails(t *testing.T) {
	s := &commandtest.Starter{Err: errors.New("exec format error")}
	out := Launch(context.Background(), &commandtest.Runner{}, s, opts(false), &memLogger{})
	if out.OK || out.Message != "Error: could not launch batch process: exec format error" {
		t.Errorf("Outcome = %+v", out)
	}
}

func TestResolvePrompts(t *testing.T) {
	tests := []struct {
		dir, in, want string
	}{
		{"/node", "p.txt", filepath.Join("/node", "p.txt")},
		{"/node", "/abs/p.txt", "/abs/p.txt"},
		{"", "p.txt", "p.txt"},
	}
	for _, tt := range tests {
		if got := ResolvePrompts(tt.dir, tt.in); got != tt.want {
			t.Errorf("ResolvePrompts(%q, %q) = %q, want %q", tt.dir, tt.in, got, tt.want)
		}
	}
}
