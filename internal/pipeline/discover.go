package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/fngarvin/moviegen/internal/naming"
	"github.com/fngarvin/moviegen/internal/planner"
)

// ErrOutputDirMissing is returned by Discover when the clip directory does
// not exist.
var ErrOutputDirMissing = errors.New("output directory not found")

// LastCompletedIndex returns the highest embedded index among entries of dir
// matching p. A missing directory or no match yields 0. Subdirectories are
// ignored even when their names match.
func LastCompletedIndex(dir string, p *naming.Pattern) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}
	last := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if idx, ok := p.Index(e.Name()); ok && idx > last {
			last = idx
		}
	}
	return last, nil
}

// Discover lists the clips in dir matching p, sorted by index with ties
// broken by name.
func Discover(dir string, p *naming.Pattern) ([]planner.Clip, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrOutputDirMissing, dir)
		}
		return nil, err
	}

	var clips []planner.Clip
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		idx, ok := p.Index(e.Name())
		if !ok {
			continue
		}
		c := planner.Clip{Name: e.Name(), Path: filepath.Join(dir, e.Name()), Index: idx}
		if info, err := e.Info(); err == nil {
			c.Size = info.Size()
		}
		clips = append(clips, c)
	}

	sort.Slice(clips, func(i, j int) bool {
		if clips[i].Index != clips[j].Index {
			return clips[i].Index < clips[j].Index
		}
		return clips[i].Name < clips[j].Name
	})
	return clips, nil
}
