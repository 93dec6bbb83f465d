package planner

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fngarvin/moviegen/internal/probe"
)

// BuildPlan walks clips in order and assigns each a chapter whose title is
// the prompt at position Index-1.
//
// Flow per clip:
//  1. Clip without a matching prompt: warn, keep it in the manifest, do not
//     advance the running offset.
//  2. Probe the duration. A failed probe counts as 0 ms and is warned about.
//  3. Append [offset, offset+duration) and advance the offset.
//
// Only context cancellation is returned as an error.
func BuildPlan(ctx context.Context, clips []Clip, prompts []string, prober probe.DurationProber) (*Plan, error) {
	plan := &Plan{Clips: clips}

	var cumulative int64
	for _, c := range clips {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pos := c.Index - 1
		if pos < 0 || pos >= len(prompts) {
			plan.Warnings = append(plan.Warnings,
				fmt.Sprintf("%s: no prompt for index %d (have %d); clip kept without a chapter", c.Name, c.Index, len(prompts)))
			continue
		}

		seconds, err := prober.Duration(ctx, c.Path)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			plan.Warnings = append(plan.Warnings,
				fmt.Sprintf("%s: could not read duration (%v); using 0", c.Name, err))
			seconds = 0
		}
		ms := int64(seconds * 1000)

		plan.Chapters = append(plan.Chapters, Chapter{
			StartMs: cumulative,
			EndMs:   cumulative + ms,
			Title:   prompts[pos],
		})
		cumulative += ms
	}
	plan.TotalMs = cumulative
	return plan, nil
}

// FormatManifest renders the concat demuxer input: one file line per clip.
// Names are relative to the manifest's directory.
func FormatManifest(clips []Clip) string {
	var b strings.Builder
	for _, c := range clips {
		b.WriteString("file '")
		b.WriteString(escapeManifest(c.Name))
		b.WriteString("'\n")
	}
	return b.String()
}

// FormatChapters renders an FFMETADATA1 document with one CHAPTER block per
// chapter in millisecond timebase.
func FormatChapters(chapters []Chapter) string {
	var b strings.Builder
	b.WriteString(";FFMETADATA1\n")
	for _, ch := range chapters {
		b.WriteString("[CHAPTER]\n")
		b.WriteString("TIMEBASE=1/1000\n")
		b.WriteString("START=" + strconv.FormatInt(ch.StartMs, 10) + "\n")
		b.WriteString("END=" + strconv.FormatInt(ch.EndMs, 10) + "\n")
		b.WriteString("title=" + escapeMetadata(ch.Title) + "\n")
		b.WriteString("\n")
	}
	return b.String()
}

// WriteFiles writes the manifest and chapter documents for plan.
func WriteFiles(plan *Plan, manifestPath, chaptersPath string) error {
	if err := os.WriteFile(manifestPath, []byte(FormatManifest(plan.Clips)), 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	if err := os.WriteFile(chaptersPath, []byte(FormatChapters(plan.Chapters)), 0o644); err != nil {
		return fmt.Errorf("write chapters: %w", err)
	}
	return nil
}

// escapeManifest closes the quote, emits an escaped quote, and reopens it,
// which is how the concat demuxer reads a literal ' inside '...'.
func escapeManifest(name string) string {
	return strings.ReplaceAll(name, "'", `'\''`)
}

var metadataEscaper = strings.NewReplacer(
	`\`, `\\`,
	"=", `\=`,
	";", `\;`,
	"#", `\#`,
	"\n", "\\\n",
)

// escapeMetadata backslash-escapes the characters FFMETADATA treats as
// syntax inside a value.
func escapeMetadata(s string) string {
	return metadataEscaper.Replace(s)
}
