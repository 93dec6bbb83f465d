// Package prompts loads the batch prompt list.
package prompts

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// ErrPromptsNotFound is returned when the prompts file does not exist.
var ErrPromptsNotFound = errors.New("prompts file not found")

// Load reads path and returns one prompt per non-empty line, trimmed, in
// file order. Position i in the result is clip index i+1.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrPromptsNotFound, path)
		}
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parse splits r into prompts. A leading UTF-8 BOM is dropped.
func Parse(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	// Long prompts are common; allow up to 1 MiB per line.
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	first := true
	for sc.Scan() {
		line := sc.Bytes()
		if first {
			line = bytes.TrimPrefix(line, utf8BOM)
			first = false
		}
		if s := strings.TrimSpace(string(line)); s != "" {
			out = append(out, s)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read prompts: %w", err)
	}
	return out, nil
}
