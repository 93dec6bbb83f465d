package prompts

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"simple", "a cat\na dog\n", []string{"a cat", "a dog"}},
		{"blank lines skipped", "\n\na cat\n\n  \na dog", []string{"a cat", "a dog"}},
		{"trimmed", "  a cat  \n\ta dog\t", []string{"a cat", "a dog"}},
		{"crlf", "a cat\r\na dog\r\n", []string{"a cat", "a dog"}},
		{"bom", "\xEF\xBB\xBFa cat\na dog", []string{"a cat", "a dog"}},
		{"empty", "", nil},
		{"only whitespace", "\n \n\t\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(strings.NewReader(tt.in))
			if err != nil {
				t.Fatal(err)
			}
			if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
				t.Errorf("Parse(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParse_LongLine(t *testing.T) {
	long := strings.Repeat("x", 200*1024)
	got, err := Parse(strings.NewReader(long + "\nshort\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || len(got[0]) != len(long) {
		t.Errorf("got %d prompts", len(got))
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "MovieGenVideoBench.txt")); !errors.Is(err, ErrPromptsNotFound) {
		t.Errorf("missing file err = %v, want ErrPromptsNotFound", err)
	}

	path := filepath.Join(dir, "prompts.txt")
	if err := os.WriteFile(path, []byte("one\ntwo\nthree\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[2] != "three" {
		t.Errorf("Load = %q", got)
	}
}
