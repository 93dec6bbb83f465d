package display

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fngarvin/moviegen/internal/config"
	"github.com/fngarvin/moviegen/internal/term"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  string
	}{
		{"zero", 0, "0 B"},
		{"small bytes", 512, "512 B"},
		{"exactly 1 KiB", 1024, "1.0 KiB"},
		{"1.5 KiB", 1536, "1.5 KiB"},
		{"1 MiB", 1024 * 1024, "1.0 MiB"},
		{"1 GiB", 1024 * 1024 * 1024, "1.0 GiB"},
		{"typical merge 700 MiB", 734003200, "700.0 MiB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatBytes(tt.bytes)
			if got != tt.want {
				t.Errorf("FormatBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}

func TestFormatMillis(t *testing.T) {
	tests := []struct {
		name string
		ms   int64
		want string
	}{
		{"zero", 0, "0:00:00.000"},
		{"sub-second", 250, "0:00:00.250"},
		{"one clip", 5041, "0:00:05.041"},
		{"minutes", 125_500, "0:02:05.500"},
		{"hours", 3_725_007, "1:02:05.007"},
		{"negative", -1500, "-0:00:01.500"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatMillis(tt.ms); got != tt.want {
				t.Errorf("FormatMillis(%d) = %q, want %q", tt.ms, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"a very long prompt about a cat", 10, "a very ..."},
		{"ünïcödé", 5, "ün..."},
		{"abcdef", 3, "abc"},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestPrintBanner_NoColor(t *testing.T) {
	term.Configure(config.ColorNever)
	var buf bytes.Buffer
	PrintBanner(&buf)
	if strings.Contains(buf.String(), "\033[") {
		t.Errorf("banner has escape codes with colors disabled: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "|  \\/  |") {
		t.Errorf("banner art missing: %q", buf.String())
	}
}
