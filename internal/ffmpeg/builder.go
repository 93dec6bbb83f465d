package ffmpeg

// BuildDurationProbe returns the ffprobe command that prints only the
// container duration in seconds.
func BuildDurationProbe(path string) []string {
	return []string{
		"ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}
}

// BuildConcat constructs the complete ffmpeg argument slice for merging the
// clips listed in manifest into output, taking chapters and global metadata
// from the FFMETADATA file. Streams are copied, never re-encoded.
func BuildConcat(manifest, chapters, output string, verbose bool) []string {
	args := make([]string, 0, 24)

	// --- Preamble ---
	args = append(args, "ffmpeg", "-hide_banner", "-nostdin", "-y")
	if verbose {
		args = append(args, "-loglevel", "info")
	} else {
		args = append(args, "-loglevel", "error")
	}

	// --- Inputs: 0 = clips via concat demuxer, 1 = chapter metadata ---
	args = append(args,
		"-f", "concat", "-safe", "0", "-i", manifest,
		"-i", chapters,
	)

	// --- Maps: every stream of the clips, metadata and chapters from input 1 ---
	args = append(args,
		"-map", "0",
		"-map_metadata", "1",
		"-map_chapters", "1",
	)

	// --- Codec and output ---
	args = append(args, "-c", "copy", output)
	return args
}
