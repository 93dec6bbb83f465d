package naming

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Pattern matches clip filenames for one prefix and extension.
type Pattern struct {
	Prefix string
	Ext    string
	re     *regexp.Regexp
}

// NewPattern compiles ^<prefix>_(\d{5,})_.*\.<ext>$ with both parts quoted.
// A leading dot on ext is ignored.
func NewPattern(prefix, ext string) (*Pattern, error) {
	if prefix == "" {
		return nil, fmt.Errorf("empty clip prefix")
	}
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return nil, fmt.Errorf("empty clip extension")
	}
	expr := "^" + regexp.QuoteMeta(prefix) + `_(\d{5,})_.*\.` + regexp.QuoteMeta(ext) + "$"
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile clip pattern: %w", err)
	}
	return &Pattern{Prefix: prefix, Ext: ext, re: re}, nil
}

// MustPattern is NewPattern that panics on error. For tests and constants.
func MustPattern(prefix, ext string) *Pattern {
	p, err := NewPattern(prefix, ext)
	if err != nil {
		panic(err)
	}
	return p
}

// Index returns the embedded index of name, or false when name is not a
// clip of this pattern. name must be a base name, not a path.
func (p *Pattern) Index(name string) (int, bool) {
	m := p.re.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		// More digits than an int holds; not something ComfyUI writes.
		return 0, false
	}
	return n, true
}

func (p *Pattern) String() string { return p.re.String() }

// ClipName renders the name ComfyUI gives the clip for index with the
// trailing counter suffix it appends ("_" on SaveVideo nodes).
func ClipName(prefix string, index int, suffix, ext string) string {
	return fmt.Sprintf("%s_%05d_%s.%s", prefix, index, suffix, strings.TrimPrefix(ext, "."))
}
